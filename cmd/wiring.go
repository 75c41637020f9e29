package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/kubika/internal/config"
	"github.com/abhisek/kubika/internal/identity"
	"github.com/abhisek/kubika/internal/logging"
	"github.com/abhisek/kubika/internal/progress"
	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/remote"
	"github.com/abhisek/kubika/internal/screen"
	"github.com/abhisek/kubika/internal/store"
)

// logTarget says where a command writes its logs.
type logTarget int

const (
	logToStderr logTarget = iota
	// The TUI owns the terminal, so it logs to a file.
	logToFile
)

// services holds everything a command needs, built from the configuration.
type services struct {
	cfg      *config.Config
	logger   *zap.Logger
	identity *identity.Static
	tracker  *progress.Tracker
	progress progress.Repository
	bank     *questionbank.Bank
	store    *store.Store
	remote   *remote.Database
	events   store.EventRepo

	closers []func() error
}

// loadConfig reads the configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{ConfigPath: path})
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.User = v
	}
	if v, _ := cmd.Flags().GetString("bank"); v != "" {
		cfg.Bank = v
	}
	return cfg, nil
}

// newLogger builds the logger for target.
func newLogger(cfg *config.Config, target logTarget) (*zap.Logger, error) {
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: "stderr",
	}
	if target == logToFile {
		opts.Output = cfg.Logging.File
		if opts.Output == "" {
			p, err := logging.DefaultLogPath()
			if err != nil {
				return nil, err
			}
			opts.Output = p
		}
	}
	return logging.New(opts)
}

// setup wires configuration, logging, storage, identity, the tracker and the
// question bank. Callers must call close.
func setup(cmd *cobra.Command, target logTarget) (*services, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, target)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	s := &services{
		cfg:      cfg,
		logger:   logger,
		identity: identity.NewStatic(cfg.User),
	}
	s.closers = append(s.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	s.store = st
	s.events = st.EventRepo()
	s.closers = append(s.closers, st.Close)

	repo, err := s.progressRepo()
	if err != nil {
		s.close()
		return nil, err
	}
	s.progress = repo
	s.tracker = progress.NewTracker(repo, s.identity, progress.WithLogger(logger))

	bank, err := questionbank.Load(cfg.Bank)
	if err != nil {
		logger.Warn("question bank unavailable, continuing without questions",
			zap.String("path", cfg.Bank), zap.Error(err))
		bank = questionbank.Empty()
	}
	s.bank = bank

	logger.Debug("services ready",
		zap.String("storage", cfg.Storage.Backend),
		zap.String("db", dbPath),
		zap.Int("questions", bank.Len()))
	return s, nil
}

// progressRepo returns the aggregate repository for the configured backend.
// Session events always go to the local SQLite store.
func (s *services) progressRepo() (progress.Repository, error) {
	switch s.cfg.Storage.Backend {
	case config.BackendFile:
		dir := s.cfg.Storage.DataDir
		if dir == "" {
			dataDir, err := store.DefaultDataDir()
			if err != nil {
				return nil, err
			}
			dir = filepath.Join(dataDir, "progress")
		}
		return store.NewFileProgressRepo(dir)

	case config.BackendPostgres:
		db, err := remote.Open(remote.Config{
			Driver:       remote.DriverPostgres,
			DSN:          s.cfg.Storage.PostgresDSN,
			MaxOpenConns: s.cfg.Storage.MaxOpenConns,
		})
		if err != nil {
			return nil, fmt.Errorf("open remote progress store: %w", err)
		}
		s.remote = db
		s.closers = append(s.closers, db.Close)
		return db.ProgressRepo(), nil

	default:
		return s.store.ProgressRepo(), nil
	}
}

// deps returns the services shared by the TUI screens.
func (s *services) deps() screen.Deps {
	return screen.Deps{
		Bank:     s.bank,
		Tracker:  s.tracker,
		Identity: s.identity,
		Recorder: s.events,
		History:  s.events,
		Logger:   s.logger,
	}
}

// userLister is implemented by progress repositories that can enumerate
// their users.
type userLister interface {
	Users(ctx context.Context) ([]string, error)
}

// users lists the learners with stored progress.
func (s *services) users(ctx context.Context) ([]string, error) {
	l, ok := s.progress.(userLister)
	if !ok {
		return nil, fmt.Errorf("storage backend %q cannot list users", s.cfg.Storage.Backend)
	}
	return l.Users(ctx)
}

// userID returns the configured user or an error naming the flag.
func (s *services) userID() (string, error) {
	userID, ok := s.identity.CurrentUser()
	if !ok {
		return "", fmt.Errorf("no user given: pass --user or set KUBIKA_USER")
	}
	return userID, nil
}

// close releases resources in reverse order of acquisition.
func (s *services) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
	s.closers = nil
}
