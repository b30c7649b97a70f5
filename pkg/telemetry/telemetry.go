/*
Package telemetry sets up OpenTelemetry tracing for requests made to Memos
instances. Tracing is opt-in: without an enabled config and an endpoint the
returned provider is a no-op and nothing is exported.
*/
package telemetry

import (
	"context"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/flyinglimao/mcp-server-memos/pkg/config"
)

// Shutdown flushes pending spans; it should be deferred by the caller.
type Shutdown func(context.Context) error

/*
Setup builds the tracer provider described by cfg and registers it
globally. The OTLP/HTTP exporter connects lazily, so an unreachable
collector never fails startup.
*/
func Setup(ctx context.Context, cfg config.Config) (trace.TracerProvider, Shutdown, error) {
	noopShutdown := func(context.Context) error { return nil }

	if !cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint == "" {
		return noop.NewTracerProvider(), noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Telemetry.Endpoint),
	)
	if err != nil {
		return nil, noopShutdown, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.Server.Name),
			semconv.ServiceVersion(cfg.Server.Version),
		),
	)
	if err != nil {
		return nil, noopShutdown, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	log.Info("tracing enabled", "endpoint", cfg.Telemetry.Endpoint)

	return provider, provider.Shutdown, nil
}
