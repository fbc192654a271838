package log

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts the logger stored by WithContext, or wraps the
// process default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok && logger != nil {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}
