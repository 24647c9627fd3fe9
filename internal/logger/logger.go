// Package logger wraps zerolog with the defaults used by the notifier.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options configures the root logger.
type Options struct {
	Level  string
	Format string // "console" or "json"
	Writer io.Writer
}

// FromEnv reads LOG_LEVEL and LOG_FORMAT.
func FromEnv() Options {
	return Options{
		Level:  strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		Format: strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))),
	}
}

// Logger is the project-wide logging type.
type Logger = zerolog.Logger

var (
	mu   sync.Mutex
	root atomic.Pointer[zerolog.Logger]
)

// Init builds the root logger. Later calls replace it.
// Logs go to stderr by default so stdout carries only the notification.
func Init(opt Options) {
	mu.Lock()
	defer mu.Unlock()

	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	l := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp().Logger()
	root.Store(&l)
}

// Get returns the root logger, initializing it from the environment on first use.
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Named returns a child logger tagged with a component field.
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

type ctxKey struct{}

// WithRun stores a fresh run id in ctx; loggers from C carry it.
func WithRun(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, ctxKey{}, id), id
}

// C returns a child of the root logger enriched with the run id found in ctx.
func C(ctx context.Context) *Logger {
	l := Get()
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		ll := l.With().Str("run_id", id).Logger()
		return &ll
	}
	return l
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
