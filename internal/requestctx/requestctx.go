package requestctx

import (
	"context"

	"go.uber.org/zap"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey{}).(string); ok {
		return value
	}
	return ""
}

// LogField returns the request id of ctx as a zap field.
func LogField(ctx context.Context) zap.Field {
	return zap.String("requestId", GetRequestID(ctx))
}
