package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

var nop = zap.NewNop()

// WithLogger returns a child context carrying the logger, typically the
// request-scoped logger with the request ID already attached.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger carried by ctx. Contexts without one
// share a nop logger, so call sites never nil-check.
func FromContext(ctx context.Context) *zap.Logger {
	return FromContextOr(ctx, nop)
}

// FromContextOr returns the logger carried by ctx, or fallback when
// none was attached.
func FromContextOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}
