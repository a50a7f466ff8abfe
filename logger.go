package colseg

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/colseg/index"
)

// Logger wraps slog.Logger with segment-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithSegment adds a segment field to the logger.
func (l *Logger) WithSegment(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("segment", name),
	}
}

// LogColumnLoad logs the resolution of one column.
func (l *Logger) LogColumnLoad(ctx context.Context, column string, kind index.ForwardKind, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "column load failed",
			"column", column,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "column loaded",
			"column", column,
			"forward", kind.String(),
			"duration", duration,
		)
	}
}

// LogSegmentOpen logs a segment mount.
func (l *Logger) LogSegmentOpen(ctx context.Context, columns, docs int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "segment open failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "segment opened",
			"columns", columns,
			"docs", docs,
			"duration", duration,
		)
	}
}

// LogSegmentClose logs a segment unmount.
func (l *Logger) LogSegmentClose(ctx context.Context, err error) {
	if err != nil {
		l.WarnContext(ctx, "segment closed with errors",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "segment closed")
	}
}
