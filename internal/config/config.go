// Package config loads kubika's settings from defaults, an optional YAML
// file, an optional .env file and KUBIKA_* environment variables, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config represents the application configuration.
type Config struct {
	User    string        `yaml:"user"`
	Bank    string        `yaml:"bank"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// StorageConfig selects where progress is kept.
type StorageConfig struct {
	Backend      string `yaml:"backend"`
	DBPath       string `yaml:"db_path"`
	DataDir      string `yaml:"data_dir"`
	PostgresDSN  string `yaml:"postgres_dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LoadOptions points Load at explicit files. Empty fields use the defaults.
type LoadOptions struct {
	ConfigPath string
	EnvFile    string
}

// Load builds the configuration and validates it.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	path, explicit := configPath(opts.ConfigPath)
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	dotenv, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:      BackendSQLite,
			MaxOpenConns: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// configPath returns the YAML file to read and whether the caller asked for
// it explicitly.
func configPath(flagPath string) (string, bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if p := os.Getenv("KUBIKA_CONFIG"); p != "" {
		return p, true
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "kubika", "config.yaml"), false
}

// readEnvFile reads path, or ./.env when path is empty. A missing default
// file is not an error.
func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return values, nil
}

// applyEnv overrides configuration with KUBIKA_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("KUBIKA_USER", &c.User)
	str("KUBIKA_BANK", &c.Bank)

	str("KUBIKA_STORAGE", &c.Storage.Backend)
	str("KUBIKA_DB", &c.Storage.DBPath)
	str("KUBIKA_DATA_DIR", &c.Storage.DataDir)
	str("KUBIKA_POSTGRES_DSN", &c.Storage.PostgresDSN)
	if v, ok := lookup("KUBIKA_MAX_OPEN_CONNS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Storage.MaxOpenConns = n
		}
	}

	str("KUBIKA_LOG_LEVEL", &c.Logging.Level)
	str("KUBIKA_LOG_FORMAT", &c.Logging.Format)
	str("KUBIKA_LOG_FILE", &c.Logging.File)

	str("KUBIKA_ADDR", &c.Server.Addr)
	if v, ok := lookup("KUBIKA_READ_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.Server.ReadTimeout = d
		}
	}
	if v, ok := lookup("KUBIKA_WRITE_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.Server.WriteTimeout = d
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var problems []string

	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			problems = append(problems, "storage.postgres_dsn is required for the postgres backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("storage.backend must be one of sqlite, file, postgres, got %q", c.Storage.Backend))
	}
	if c.Storage.MaxOpenConns < 0 {
		problems = append(problems, "storage.max_open_conns must not be negative")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be console or json, got %q", c.Logging.Format))
	}

	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is required")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		problems = append(problems, "server timeouts must be positive")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
