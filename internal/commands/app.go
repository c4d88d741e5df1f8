package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tally-dev/tally/internal/activity"
	"github.com/tally-dev/tally/internal/assistant"
	"github.com/tally-dev/tally/internal/backend"
	"github.com/tally-dev/tally/internal/calendar"
	"github.com/tally-dev/tally/internal/categorize"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/session"
)

// app is everything a command needs, wired from the config file.
type app struct {
	root    string // directory holding the config file
	cfg     *config.Config
	logger  *log.Logger
	clock   calendar.Clock
	backend *backend.Result
	svc     *assistant.Service
}

// loadConfig resolves the config and rebases relative paths on the
// config file's directory.
func (o *rootOptions) loadConfig() (*config.Config, string, error) {
	cfg, err := config.Resolve(o.configPath)
	if err != nil {
		return nil, "", err
	}
	root, err := filepath.Abs(filepath.Dir(o.configPath))
	if err != nil {
		return nil, "", fmt.Errorf("resolving config dir: %w", err)
	}
	cfg.Store.DataDir = rebase(root, cfg.Store.DataDir)
	cfg.Store.SQLitePath = rebase(root, cfg.Store.SQLitePath)
	cfg.Categorizer.RulesFile = rebase(root, cfg.Categorizer.RulesFile)
	cfg.Activity.Path = rebase(root, cfg.Activity.Path)
	return cfg, root, nil
}

func (o *rootOptions) clock() (calendar.Clock, error) {
	if o.today == "" {
		return calendar.SystemClock{Location: time.Local}, nil
	}
	d, err := calendar.Parse(o.today)
	if err != nil {
		return nil, fmt.Errorf("invalid --today: %w", err)
	}
	return calendar.FixedClock(d), nil
}

func classifier(cfg *config.Config) (*categorize.Classifier, error) {
	rules := categorize.DefaultRules()
	if cfg.Categorizer.RulesFile != "" {
		loaded, err := categorize.LoadRules(cfg.Categorizer.RulesFile)
		switch {
		case err == nil:
			rules = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}
	return categorize.New(rules, cfg.Categorizer.FuzzyThreshold), nil
}

// open wires the store, the activity log and the assistant. Callers must
// call close.
func (o *rootOptions) open(stderr io.Writer) (*app, error) {
	cfg, root, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	clock, err := o.clock()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger(stderr)

	cls, err := classifier(cfg)
	if err != nil {
		return nil, err
	}

	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.Open(bc, logger)
	if err != nil {
		return nil, err
	}

	opts := []assistant.Option{
		assistant.WithClassifier(cls),
		assistant.WithMaxInputLength(cfg.Input.MaxLength),
		assistant.WithSymbol(cfg.Currency.Symbol),
		assistant.WithLogger(logger),
	}
	if cfg.Activity.Path != "" {
		opts = append(opts, assistant.WithRecorder(activity.Open(cfg.Activity.Path)))
	}

	return &app{
		root:    root,
		cfg:     cfg,
		logger:  logger,
		clock:   clock,
		backend: res,
		svc:     assistant.New(res.Store, opts...),
	}, nil
}

func (a *app) close() {
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("closing store", log.FieldError, err)
	}
}

func (a *app) session(o *rootOptions) session.Session {
	return session.New(o.user, o.token, a.clock)
}

// report prints a result and maps failures to ErrFailed.
func report(w io.Writer, res assistant.Result) error {
	fmt.Fprintln(w, res.String())
	if res.Status == assistant.StatusFailure {
		return ErrFailed
	}
	return nil
}

func rebase(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
