package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tally-dev/tally/internal/log"
)

// FileName is the default config file name.
const FileName = "tally.yaml"

// Backend names accepted by store.backend.
const (
	BackendMemory = "memory"
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

// Backends lists the valid store backends.
var Backends = []string{BackendMemory, BackendCSV, BackendSQLite, BackendHTTP}

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Currency    CurrencyConfig    `yaml:"currency"`
	Input       InputConfig       `yaml:"input"`
	Categorizer CategorizerConfig `yaml:"categorizer"`
	Store       StoreConfig       `yaml:"store"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Activity    ActivityConfig    `yaml:"activity"`
}

// CurrencyConfig controls report formatting.
type CurrencyConfig struct {
	Symbol string `yaml:"symbol"`
}

// InputConfig bounds free-text input.
type InputConfig struct {
	MaxLength int `yaml:"max_length"` // in characters
}

// CategorizerConfig tunes the category classifier.
type CategorizerConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
	RulesFile      string  `yaml:"rules_file,omitempty"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend    string        `yaml:"backend"`
	DataDir    string        `yaml:"data_dir"`
	SQLitePath string        `yaml:"sqlite_path"`
	APIBaseURL string        `yaml:"api_base_url,omitempty"`
	Timeout    time.Duration `yaml:"timeout"`
}

// ServerConfig configures `tally serve`.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	JWTSecret      string   `yaml:"jwt_secret,omitempty"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ActivityConfig locates the activity log. An empty path disables it.
type ActivityConfig struct {
	Path string `yaml:"path"`
}

// Load reads a tally.yaml file from disk. Keys missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Resolve loads path if it exists (defaults otherwise), applies environment
// overrides and validates the result.
func Resolve(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Currency: CurrencyConfig{Symbol: "₹"},
		Input:    InputConfig{MaxLength: 1000},
		Categorizer: CategorizerConfig{
			FuzzyThreshold: 85,
		},
		Store: StoreConfig{
			Backend:    BackendCSV,
			DataDir:    "data",
			SQLitePath: "data/tally.db",
			Timeout:    15 * time.Second,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Activity: ActivityConfig{Path: "logs/activity.csv"},
	}
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() {
	c.Store.Backend = getEnv("TALLY_STORE_BACKEND", c.Store.Backend)
	c.Store.DataDir = getEnv("TALLY_DATA_DIR", c.Store.DataDir)
	c.Store.SQLitePath = getEnv("TALLY_SQLITE_PATH", c.Store.SQLitePath)
	c.Store.APIBaseURL = getEnv("BACKEND_API_BASE_URL", c.Store.APIBaseURL)
	c.Store.Timeout = getEnvDuration("TALLY_STORE_TIMEOUT", c.Store.Timeout)
	c.Server.Addr = getEnv("TALLY_ADDR", c.Server.Addr)
	c.Server.JWTSecret = getEnv("TALLY_JWT_SECRET", c.Server.JWTSecret)
	if origins := os.Getenv("TALLY_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	c.Log.Level = getEnv("TALLY_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("TALLY_LOG_FORMAT", c.Log.Format)
	c.Input.MaxLength = getEnvInt("TALLY_MAX_INPUT_LENGTH", c.Input.MaxLength)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Currency.Symbol == "" {
		problems = append(problems, "currency symbol cannot be empty")
	}
	if c.Input.MaxLength < 1 {
		problems = append(problems, fmt.Sprintf("invalid input max_length %d: must be at least 1", c.Input.MaxLength))
	}
	if c.Categorizer.FuzzyThreshold < 0 || c.Categorizer.FuzzyThreshold > 100 {
		problems = append(problems, fmt.Sprintf("invalid fuzzy_threshold %v: must be between 0 and 100", c.Categorizer.FuzzyThreshold))
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendCSV:
		if c.Store.DataDir == "" {
			problems = append(problems, "data_dir cannot be empty when using csv backend")
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			problems = append(problems, "sqlite_path cannot be empty when using sqlite backend")
		}
	case BackendHTTP:
		if c.Store.APIBaseURL == "" {
			problems = append(problems, "api_base_url is required when using http backend")
		} else if u, err := url.Parse(c.Store.APIBaseURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid api_base_url '%s': %v", c.Store.APIBaseURL, err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			problems = append(problems, fmt.Sprintf("invalid api_base_url scheme '%s': must be 'http' or 'https'", u.Scheme))
		}
		if c.Store.Timeout <= 0 {
			problems = append(problems, fmt.Sprintf("invalid store timeout %v: must be positive", c.Store.Timeout))
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid store backend '%s': must be one of %v", c.Store.Backend, Backends))
	}

	if len(c.Server.AllowedOrigins) == 0 {
		problems = append(problems, "server allowed_origins cannot be empty: use '*' to allow any origin")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Logger builds the application logger described by c, writing to w.
func (c *Config) Logger(w io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	if w != nil {
		cfg.Output = w
	}
	return log.New(cfg)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
