// =============================================================================
// Sales Analytics - Logging
// =============================================================================
//
// Structured logging for the whole application. Every stage receives a
// zerolog.Logger, either directly or through the context.
//
// OUTPUT:
//   console - human readable lines on stderr (default)
//   json    - one JSON object per line on stderr
//
// Progress lines meant for the operator ("[1/10] Reading sales data...")
// are printed on stdout by the commands and are not log records.
//
// =============================================================================

package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by the logger.
type ContextKey string

// LoggerKey is the context key for the logger instance.
const LoggerKey ContextKey = "logger"

// Options controls how New builds the logger.
type Options struct {
	// Level is "debug", "info", "warn" or "error". Unknown values mean info.
	Level string

	// Format is "console" or "json".
	Format string

	// Verbose forces debug level regardless of Level.
	Verbose bool

	// Out defaults to os.Stderr.
	Out io.Writer
}

// New creates a structured logger from the given options.
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	if strings.ToLower(opts.Format) != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    out != os.Stderr,
		}
	}

	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// NewWithWriter creates a JSON logger on w at debug level. Used by tests.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel maps a config string to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context, or fallback when none
// was stored.
func FromContext(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return fallback
}
