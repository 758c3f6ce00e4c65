package datrie

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with datrie-specific helpers.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// WithSource adds a source field, typically a path or blob name.
func (l *Logger) WithSource(source string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", source),
	}
}

// LogBuild logs a build.
func (l *Logger) LogBuild(ctx context.Context, keys, units int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"keys", keys,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "build completed",
			"keys", keys,
			"units", units,
		)
	}
}

// LogLoad logs a load from a file, blob or archive.
func (l *Logger) LogLoad(ctx context.Context, source string, units int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"source", source,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "load completed",
			"source", source,
			"units", units,
		)
	}
}

// LogDump logs a dump to a file, blob or archive.
func (l *Logger) LogDump(ctx context.Context, dest string, units int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dump failed",
			"dest", dest,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "dump completed",
			"dest", dest,
			"units", units,
		)
	}
}
