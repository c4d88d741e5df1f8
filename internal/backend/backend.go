// Package backend builds the configured store.Store.
package backend

import (
	"fmt"
	"time"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/store"
	"github.com/tally-dev/tally/internal/store/httpapi"
	"github.com/tally-dev/tally/internal/store/memory"
	"github.com/tally-dev/tally/internal/store/sqlite"
)

// Type names a store backend.
type Type string

const (
	Memory Type = config.BackendMemory
	CSV    Type = config.BackendCSV
	SQLite Type = config.BackendSQLite
	HTTP   Type = config.BackendHTTP
)

// IsValid reports whether t is a known backend.
func (t Type) IsValid() bool {
	switch t {
	case Memory, CSV, SQLite, HTTP:
		return true
	}
	return false
}

// Config carries what each backend needs.
type Config struct {
	Type       Type
	DataDir    string
	SQLitePath string
	APIBaseURL string
	Timeout    time.Duration
}

// FromAppConfig converts the application config to a backend config.
func FromAppConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	t := Type(cfg.Store.Backend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", cfg.Store.Backend)
	}
	return Config{
		Type:       t,
		DataDir:    cfg.Store.DataDir,
		SQLitePath: cfg.Store.SQLitePath,
		APIBaseURL: cfg.Store.APIBaseURL,
		Timeout:    cfg.Store.Timeout,
	}, nil
}

// Validate checks the fields the selected backend requires.
func (c Config) Validate() error {
	switch c.Type {
	case Memory:
	case CSV:
		if c.DataDir == "" {
			return fmt.Errorf("data directory is required for csv backend")
		}
	case SQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite database path is required for sqlite backend")
		}
	case HTTP:
		if c.APIBaseURL == "" {
			return fmt.Errorf("api base url is required for http backend")
		}
	default:
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	return nil
}

// Result is an opened store plus its cleanup hook.
type Result struct {
	Store   store.Store
	Cleanup func() error
}

// Close runs the cleanup hook, if any.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Open creates the backend described by c.
func Open(c Config, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentBackend)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Type {
	case Memory:
		logger.Info("initialized memory backend", log.FieldBackend, string(c.Type))
		return &Result{Store: memory.New()}, nil

	case CSV:
		logger.Info("initialized csv backend", log.FieldBackend, string(c.Type), log.FieldPath, c.DataDir)
		return &Result{Store: ledger.NewFileStore(c.DataDir)}, nil

	case SQLite:
		s, err := sqlite.Open(c.SQLitePath, logger.WithComponent(log.ComponentStorage))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite store: %w", err)
		}
		logger.Info("initialized sqlite backend", log.FieldBackend, string(c.Type), log.FieldPath, c.SQLitePath)
		return &Result{Store: s, Cleanup: s.Close}, nil

	case HTTP:
		client := httpapi.New(c.APIBaseURL, c.Timeout, httpapi.WithLogger(logger.WithComponent(log.ComponentStorage)))
		logger.Info("initialized http backend", log.FieldBackend, string(c.Type), log.FieldPath, c.APIBaseURL)
		return &Result{Store: client}, nil
	}
	return nil, fmt.Errorf("unsupported backend type: %s", c.Type)
}
