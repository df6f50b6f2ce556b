package spgemm

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with spgemm-specific context.
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
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithEngine adds an engine field to the logger.
func (l *Logger) WithEngine(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("engine", name),
	}
}

// WithShape adds the operand shapes to the logger.
func (l *Logger) WithShape(m, k, n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("m", m, "k", k, "n", n),
	}
}

// LogMultiply logs a finished multiply.
func (l *Logger) LogMultiply(ctx context.Context, stats MultiplyStats, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "multiply failed",
			"workers", stats.Workers,
			"duration", duration,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "multiply completed",
		"nnz", stats.NNZ,
		"bound", stats.BoundTotal,
		"workers", stats.Workers,
		"merges", stats.Engine.Merges+stats.Engine.ForceMerges,
		"heap_fixes", stats.Engine.HeapFixes,
		"duration", duration,
	)
}

// LogSymbolic logs the exact row counting phase of a parallel multiply.
func (l *Logger) LogSymbolic(ctx context.Context, nnz int, duration time.Duration) {
	l.DebugContext(ctx, "symbolic phase completed",
		"nnz", nnz,
		"duration", duration,
	)
}
