package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/yndnr/countmesh/internal/core/domain"
)

// Logger is the logging surface used across countmesh.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config selects the handler of a logger.
type Config struct {
	Level  string    // debug, info, warn or error
	Format string    // text or json; console is an alias for text
	Output io.Writer // os.Stderr when nil
}

// level is shared by every logger built with New so that a reload of
// log.level reaches loggers already handed to workers.
var level = new(slog.LevelVar)

// ParseLevel converts a level name. "warning" is accepted for warn.
func ParseLevel(s string) (slog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		name = "warn"
	}
	var lv slog.Level
	switch name {
	case "debug", "info", "warn", "error":
		if err := lv.UnmarshalText([]byte(name)); err != nil {
			return 0, err
		}
		return lv, nil
	}
	return 0, domain.ErrInvalidConfig.WithDetails(fmt.Sprintf("unknown log level %q", s))
}

// New builds a logger and sets the shared level to cfg.Level.
// An empty level means info and an empty format means text.
func New(cfg Config) (Logger, error) {
	lv := slog.LevelInfo
	if cfg.Level != "" {
		var err error
		if lv, err = ParseLevel(cfg.Level); err != nil {
			return nil, err
		}
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return normalizeAttr(a)
		},
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text", "console":
		h = slog.NewTextHandler(out, opts)
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		return nil, domain.ErrInvalidConfig.WithDetails(fmt.Sprintf("unknown log format %q", cfg.Format))
	}

	level.Set(lv)
	return &slogLogger{l: slog.New(h)}, nil
}

// SetLevel changes the level of every logger built with New.
// On error the level is left unchanged.
func SetLevel(s string) error {
	lv, err := ParseLevel(s)
	if err != nil {
		return err
	}
	level.Set(lv)
	return nil
}

// Level returns the current shared level name in lower case.
func Level() string {
	return strings.ToLower(level.Level().String())
}

type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &slogLogger{l: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

var defaultLogger atomic.Pointer[slogLogger]

func init() {
	defaultLogger.Store(&slogLogger{l: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return normalizeAttr(a)
		},
	}))})
}

// SetDefault replaces the logger returned by Default. Loggers not built by
// this package are ignored.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		defaultLogger.Store(sl)
	}
}

// Default returns the process-wide logger.
func Default() Logger {
	return defaultLogger.Load()
}
