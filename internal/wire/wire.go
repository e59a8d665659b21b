// Package wire provides dependency injection for the outpass desk.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	cliadapter "github.com/example/outpass/internal/adapters/cli"
	"github.com/example/outpass/internal/adapters/restapi"
	"github.com/example/outpass/internal/adapters/sqlite"
	"github.com/example/outpass/internal/app"
	"github.com/example/outpass/internal/config"
	"github.com/example/outpass/internal/db"
	"github.com/example/outpass/internal/logging"
	"github.com/example/outpass/internal/ports/primary"
)

// Settings are the process-level inputs resolved from global CLI flags.
type Settings struct {
	ConfigPath string // empty means config.DefaultPath()
	Officer    string // overrides the configured officer when set
}

var (
	settings Settings

	cfg       *config.Config
	cfgErr    error
	cfgOnce   sync.Once
	logger    *zap.Logger
	journalDB *sql.DB

	outpassService primary.OutpassService
	journalService primary.JournalService
	initErr        error
	once           sync.Once
)

// Configure records the global settings. It must be called before any
// other function in this package.
func Configure(s Settings) {
	settings = s
}

// ConfigPath returns the resolved config file path.
func ConfigPath() (string, error) {
	if settings.ConfigPath != "" {
		return settings.ConfigPath, nil
	}
	return config.DefaultPath()
}

// Config returns the loaded configuration.
// The .env file in the working directory is applied before the config file.
func Config() (*config.Config, error) {
	cfgOnce.Do(func() {
		if err := config.LoadEnvFile(".env"); err != nil {
			cfgErr = err
			return
		}
		path, err := ConfigPath()
		if err != nil {
			cfgErr = err
			return
		}
		cfg, cfgErr = config.Load(path)
		if cfgErr == nil && settings.Officer != "" {
			cfg.Officer = settings.Officer
		}
	})
	return cfg, cfgErr
}

// Officer returns the officer name for journal entries and logs.
func Officer() string {
	c, err := Config()
	if err != nil {
		return settings.Officer
	}
	return c.Officer
}

// Logger returns the process logger, or a no-op logger before services exist.
func Logger() *zap.Logger {
	once.Do(initServices)
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// OutpassService returns the singleton OutpassService instance.
func OutpassService() (primary.OutpassService, error) {
	once.Do(initServices)
	return outpassService, initErr
}

// JournalService returns the singleton JournalService instance.
func JournalService() (primary.JournalService, error) {
	once.Do(initServices)
	return journalService, initErr
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c, err := Config()
	if err != nil {
		initErr = err
		return
	}

	logger, err = logging.New(c.Log)
	if err != nil {
		initErr = err
		return
	}

	journalPath := c.Journal.Path
	if journalPath == "" {
		journalPath, err = db.DefaultPath()
		if err != nil {
			initErr = err
			return
		}
	}
	journalDB, err = db.Open(journalPath)
	if err != nil {
		initErr = fmt.Errorf("failed to open journal: %w", err)
		return
	}

	// Create adapters (secondary ports)
	store, err := restapi.NewClient(restapi.Config{
		BaseURL: c.API.BaseURL,
		Token:   c.API.Token,
		Timeout: c.API.Timeout,
	}, logger.Named("api"))
	if err != nil {
		initErr = err
		return
	}
	journalRepo := sqlite.NewJournalRepository(journalDB)

	// Create services (primary ports implementation)
	outpassService = app.NewOutpassService(store, journalRepo, time.Now, c.Location, logger.Named("desk"))
	journalService = app.NewJournalService(journalRepo)
}

// Close flushes the logger and closes the journal database.
func Close() error {
	if logger != nil {
		_ = logger.Sync()
	}
	if journalDB != nil {
		return journalDB.Close()
	}
	return nil
}

// OutpassAdapter returns a new OutpassAdapter writing to stdout.
func OutpassAdapter() (*cliadapter.OutpassAdapter, error) {
	return OutpassAdapterWithOutput(os.Stdout)
}

// OutpassAdapterWithOutput returns a new OutpassAdapter writing to the given output.
// Each call creates a new adapter (adapters are stateless translators).
func OutpassAdapterWithOutput(out io.Writer) (*cliadapter.OutpassAdapter, error) {
	service, err := OutpassService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewOutpassAdapter(service, out, cfg.Location), nil
}

// JournalAdapter returns a new JournalAdapter writing to stdout.
func JournalAdapter() (*cliadapter.JournalAdapter, error) {
	service, err := JournalService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewJournalAdapter(service, os.Stdout), nil
}

// Refresher returns a Refresher for a live view.
func Refresher(name string, interval time.Duration, refresh func(ctx context.Context) error) *app.Refresher {
	return app.NewRefresher(name, interval, refresh, Logger().Named("watch"))
}
