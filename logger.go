package formdb

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with formdb-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithKey adds the word and form fields to the logger.
func (l *Logger) WithKey(k Key) *Logger {
	return &Logger{
		Logger: l.Logger.With("word", k.Word, "form", k.Form),
	}
}

// LogLoad logs the initial load of the dump.
func (l *Logger) LogLoad(ctx context.Context, records int, found bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"error", err,
		)
		return
	}
	if !found {
		l.InfoContext(ctx, "no dump found, starting empty")
		return
	}
	l.InfoContext(ctx, "dump loaded",
		"records", records,
	)
}

// LogUpdate logs an upsert.
func (l *Logger) LogUpdate(ctx context.Context, k Key, created bool, err error) {
	kl := l.WithKey(k)
	if err != nil {
		kl.ErrorContext(ctx, "update failed", "error", err)
		return
	}

	msg := "word form updated"
	if created {
		msg = "word form created"
	}
	kl.InfoContext(ctx, msg)
}

// LogDelete logs a delete.
func (l *Logger) LogDelete(ctx context.Context, k Key, found bool, err error) {
	kl := l.WithKey(k)
	switch {
	case err != nil:
		kl.ErrorContext(ctx, "delete failed", "error", err)
	case !found:
		kl.DebugContext(ctx, "delete skipped, word form not found")
	default:
		kl.InfoContext(ctx, "word form deleted")
	}
}

// LogLookup logs a similarity query.
func (l *Logger) LogLookup(op, base string, count, candidates, returned int) {
	l.Debug("lookup completed",
		"op", op,
		"base", base,
		"count", count,
		"candidates", candidates,
		"results", returned,
	)
}
