// Package log wraps slog with a component name and shared field names.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger and stamps every record with its component.
type Logger struct {
	*slog.Logger
	component string
}

// Config holds logger configuration.
type Config struct {
	Level     string // debug, info, warn, error
	Format    string // text or json
	Component string
	Output    io.Writer
	Handler   slog.Handler // overrides Level, Format and Output
}

// DefaultConfig logs info and above as text to stderr.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "text",
		Component: ComponentApp,
		Output:    os.Stderr,
	}
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New creates a logger. Unknown levels fall back to info.
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		level, _ := ParseLevel(config.Level)
		out := config.Output
		if out == nil {
			out = os.Stderr
		}
		opts := &slog.HandlerOptions{Level: level}
		if strings.EqualFold(config.Format, "json") {
			handler = slog.NewJSONHandler(out, opts)
		} else {
			handler = slog.NewTextHandler(out, opts)
		}
	}
	component := config.Component
	if component == "" {
		component = ComponentApp
	}
	return &Logger{Logger: slog.New(handler), component: component}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

// With returns a new logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), component: l.component}
}

// WithComponent returns a logger for another component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger, component: component}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

func (l *Logger) args(args []any) []any {
	return append([]any{FieldComponent, l.component}, args...)
}

func (l *Logger) Debug(msg string, args ...any) { l.Logger.Debug(msg, l.args(args)...) }
func (l *Logger) Info(msg string, args ...any)  { l.Logger.Info(msg, l.args(args)...) }
func (l *Logger) Warn(msg string, args ...any)  { l.Logger.Warn(msg, l.args(args)...) }
func (l *Logger) Error(msg string, args ...any) { l.Logger.Error(msg, l.args(args)...) }

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.Logger.InfoContext(ctx, msg, l.args(args)...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.Logger.WarnContext(ctx, msg, l.args(args)...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.Logger.ErrorContext(ctx, msg, l.args(args)...)
}

// SetDefault installs logger as the process default.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}
