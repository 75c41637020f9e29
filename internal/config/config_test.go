package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config location at an empty temp dir and clears the
// KUBIKA_* variables a developer machine may have set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, key := range []string{
		"KUBIKA_CONFIG", "KUBIKA_USER", "KUBIKA_BANK", "KUBIKA_STORAGE", "KUBIKA_DB",
		"KUBIKA_DATA_DIR", "KUBIKA_POSTGRES_DSN", "KUBIKA_MAX_OPEN_CONNS",
		"KUBIKA_LOG_LEVEL", "KUBIKA_LOG_FORMAT", "KUBIKA_LOG_FILE", "KUBIKA_ADDR",
		"KUBIKA_READ_TIMEOUT", "KUBIKA_WRITE_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load(LoadOptions{EnvFile: writeFile(t, filepath.Join(dir, "empty.env"), "")})
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	yamlPath := writeFile(t, filepath.Join(dir, "kubika", "config.yaml"), `
user: from-yaml
storage:
  backend: file
  data_dir: /yaml/data
logging:
  level: debug
  format: json
server:
  addr: ":9000"
  read_timeout: 5s
`)
	envPath := writeFile(t, filepath.Join(dir, "test.env"), "KUBIKA_USER=from-dotenv\nKUBIKA_ADDR=:7000\n")
	t.Setenv("KUBIKA_ADDR", ":6000")

	cfg, err := Load(LoadOptions{ConfigPath: yamlPath, EnvFile: envPath})
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.User, ".env overrides yaml")
	assert.Equal(t, ":6000", cfg.Server.Addr, "environment overrides .env")
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "/yaml/data", cfg.Storage.DataDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout, "unset yaml keys keep defaults")
}

func TestLoad_XDGConfigFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "kubika", "config.yaml"), "user: xdg-user\n")

	cfg, err := Load(LoadOptions{EnvFile: writeFile(t, filepath.Join(dir, "empty.env"), "")})
	require.NoError(t, err)
	assert.Equal(t, "xdg-user", cfg.User)
}

func TestLoad_EnvConfigPath(t *testing.T) {
	dir := isolate(t)
	p := writeFile(t, filepath.Join(dir, "other.yaml"), "bank: /banks/extra.json\n")
	t.Setenv("KUBIKA_CONFIG", p)

	cfg, err := Load(LoadOptions{EnvFile: writeFile(t, filepath.Join(dir, "empty.env"), "")})
	require.NoError(t, err)
	assert.Equal(t, "/banks/extra.json", cfg.Bank)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(LoadOptions{ConfigPath: filepath.Join(dir, "nope.yaml")})
	assert.ErrorContains(t, err, "read config file")

	_, err = Load(LoadOptions{EnvFile: filepath.Join(dir, "nope.env")})
	assert.ErrorContains(t, err, "read env file")
}

func TestLoad_BadYAML(t *testing.T) {
	dir := isolate(t)
	p := writeFile(t, filepath.Join(dir, "bad.yaml"), "storage: [unclosed\n")
	_, err := Load(LoadOptions{ConfigPath: p})
	assert.ErrorContains(t, err, "parse config file")
}

func TestLoad_InvalidFromEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv("KUBIKA_STORAGE", "redis")
	_, err := Load(LoadOptions{EnvFile: writeFile(t, filepath.Join(dir, "empty.env"), "")})
	assert.ErrorContains(t, err, "storage.backend")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"file backend", func(c *Config) { c.Storage.Backend = BackendFile }, ""},
		{"postgres without dsn", func(c *Config) { c.Storage.Backend = BackendPostgres }, "postgres_dsn"},
		{"postgres with dsn", func(c *Config) {
			c.Storage.Backend = BackendPostgres
			c.Storage.PostgresDSN = "postgres://localhost/kubika"
		}, ""},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "mongo" }, "storage.backend"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "timeouts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
