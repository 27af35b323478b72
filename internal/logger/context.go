package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from the context.
// Returns zap.NewNop() if no logger is found.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// With returns a context whose logger carries the extra fields.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	return ContextWithLogger(ctx, FromContext(ctx).With(fields...))
}

// WithPlan tags the context logger with the plan being built, so decider
// logs of one request can be grouped.
func WithPlan(ctx context.Context, planID string) context.Context {
	return With(ctx, zap.String("plan_id", planID))
}

// WithTarget tags the context logger with the position of a multi-plan target.
func WithTarget(ctx context.Context, pos int) context.Context {
	return With(ctx, zap.Int("target", pos))
}
