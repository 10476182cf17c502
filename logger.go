package factorgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with factorgo-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithNetwork adds the network name to the logger.
func (l *Logger) WithNetwork(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("network", name),
	}
}

// LogQuery logs a posterior query.
func (l *Logger) LogQuery(ctx context.Context, query, evidence int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"query", query,
			"evidence", evidence,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"query", query,
			"evidence", evidence,
			"elapsed", elapsed,
		)
	}
}

// LogBatchQuery logs a batch of queries.
func (l *Logger) LogBatchQuery(ctx context.Context, count, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch query completed with failures",
			"total", count,
			"failed", failed,
			"success", count-failed,
		)
	} else {
		l.DebugContext(ctx, "batch query completed",
			"count", count,
		)
	}
}

// LogPlanBuild logs a plan cache miss that built a new plan.
func (l *Logger) LogPlanBuild(ctx context.Context, elapsed time.Duration) {
	l.DebugContext(ctx, "plan built",
		"elapsed", elapsed,
	)
}

// LogBorrow logs a network borrow from the pool.
func (l *Logger) LogBorrow(ctx context.Context, waited time.Duration, err error) {
	if err != nil {
		l.WarnContext(ctx, "borrow failed",
			"waited", waited,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "network borrowed",
			"waited", waited,
		)
	}
}
