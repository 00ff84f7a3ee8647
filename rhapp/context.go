package rhapp

import (
	"context"

	"github.com/advdv/rawhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ctxKey is the key type for context values.
type ctxKey int

const ctxKeyLogger ctxKey = iota

// withRequestLogger makes a logger scoped to the request available to routes via [Log]. It runs inside
// [WithTracing] so the trace id is included when a span is recording.
func withRequestLogger(logger *zap.Logger) rawhttp.Middleware {
	return func(next rawhttp.RouteFunc) rawhttp.RouteFunc {
		return func(ctx context.Context, req *rawhttp.Request) (rawhttp.Result, error) {
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.Path),
				zap.String("client_ip", req.Peer),
			}
			if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
				fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
			}

			return next(context.WithValue(ctx, ctxKeyLogger, logger.With(fields...)), req)
		}
	}
}

// Log returns the request-scoped logger. Outside a route it returns a no-op logger.
func Log(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKeyLogger).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
