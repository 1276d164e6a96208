package logx

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// With attaches a logger carrying the extra fields to the context, so
// request-scoped fields (method, path, ip) ride along the handler chain
// without threading a logger argument through every call.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// From returns the context's logger, falling back to the global L when
// nothing was attached.
func From(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return L
}
