package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"mercator-hq/odrlcheck/pkg/config"
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	FormatJSON    LogFormat = "json"
	FormatText    LogFormat = "text"
	FormatConsole LogFormat = "console"
)

var levels = map[string]slog.Level{
	"":        slog.LevelInfo,
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Logger wraps a *slog.Logger whose handler redacts user text and secrets
// before they reach the sink.
type Logger struct {
	slog *slog.Logger
}

// Config configures New. A nil Writer means stderr.
type Config struct {
	Level          string
	Format         string
	AddSource      bool
	RedactPII      bool
	RedactPatterns []config.RedactPattern
	Writer         io.Writer
}

// FromConfig maps telemetry.logging onto a logger Config writing to w.
func FromConfig(cfg *config.LoggingConfig, w io.Writer) Config {
	return Config{
		Level:          cfg.Level,
		Format:         cfg.Format,
		AddSource:      cfg.AddSource,
		RedactPII:      cfg.RedactPII,
		RedactPatterns: cfg.RedactPatterns,
		Writer:         w,
	}
}

// New builds a Logger. Unknown levels and formats are errors.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}

	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if format != FormatJSON {
		h = slog.NewTextHandler(w, opts)
	}

	var r *Redactor
	if cfg.RedactPII {
		r = NewRedactor(cfg.RedactPatterns)
	}
	return &Logger{slog: slog.New(newRedactHandler(h, r))}, nil
}

// Slog exposes the redacting *slog.Logger for packages that take one.
func (l *Logger) Slog() *slog.Logger { return l.slog }

// SetDefault installs l as the slog default.
func (l *Logger) SetDefault() { slog.SetDefault(l.slog) }

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// The *Context variants prepend request_id, source and trace_id from ctx.

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logContext(ctx, slog.LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logContext(ctx, slog.LevelInfo, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logContext(ctx, slog.LevelWarn, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logContext(ctx, slog.LevelError, msg, args)
}

func (l *Logger) logContext(ctx context.Context, level slog.Level, msg string, args []any) {
	if !l.slog.Enabled(ctx, level) {
		return
	}
	l.slog.Log(ctx, level, msg, append(extractContextFields(ctx), args...)...)
}

// With returns a child logger with args attached to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

// WithContext binds the context fields of ctx, or returns l unchanged when
// there are none.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if fields := extractContextFields(ctx); len(fields) > 0 {
		return l.With(fields...)
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	if level, ok := levels[strings.ToLower(s)]; ok {
		return level, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
}

func parseFormat(s string) (LogFormat, error) {
	switch f := LogFormat(strings.ToLower(s)); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatText, FormatConsole:
		return f, nil
	}
	return FormatJSON, fmt.Errorf("unknown log format: %s", s)
}
