package rhapp

import (
	"context"

	"github.com/advdv/rawhttp"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

const tracerName = "github.com/advdv/rawhttp/rhapp"

// NewTracerProvider creates and configures the OpenTelemetry TracerProvider.
// Supported exporters via RAWHTTP_OTEL_EXPORTER: "none" (default, spans are recorded but not exported) and
// "stdout". Shutdown is handled automatically via fx.Lifecycle.
func NewTracerProvider(lc fx.Lifecycle, env Environment) (trace.TracerProvider, error) {
	exporter, err := newExporter(env.otelExporter())
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(newResource(env.serverName())),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)))
	}

	tp := sdktrace.NewTracerProvider(opts...)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return tp, nil
}

// newExporter creates a span exporter based on the exporter type. "none" yields no exporter.
func newExporter(exporterType string) (sdktrace.SpanExporter, error) {
	switch exporterType {
	case "none", "":
		return nil, nil
	case "stdout":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, errors.Newf("unsupported RAWHTTP_OTEL_EXPORTER: %q (supported: none, stdout)", exporterType)
	}
}

func newResource(serviceName string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(rawhttp.Version),
	)
}

// WithTracing starts a span around every route. The TracerProvider is explicitly injected to avoid global state.
func WithTracing(tp trace.TracerProvider) rawhttp.Middleware {
	tracer := tp.Tracer(tracerName)

	return func(next rawhttp.RouteFunc) rawhttp.RouteFunc {
		return func(ctx context.Context, req *rawhttp.Request) (rawhttp.Result, error) {
			ctx, span := tracer.Start(ctx, req.Method+" "+req.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(req.Method),
					semconv.URLPath(req.Path),
					semconv.ClientAddress(req.Peer),
				))
			defer span.End()

			res, err := next(ctx, req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return res, err
			}

			span.SetAttributes(semconv.HTTPResponseStatusCode(res.Status))
			if res.Status >= 500 {
				span.SetStatus(codes.Error, "")
			}
			span.SetAttributes(attribute.Int("rawhttp.response.body_size", len(res.Body)))

			return res, nil
		}
	}
}
