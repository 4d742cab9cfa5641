// Package telemetry provides OpenTelemetry tracing for benchmark runs.
//
// Configuration comes from the standard OTEL_* environment variables; tracing
// stays a no-op unless OTEL_ENABLED=true:
//
//	OTEL_ENABLED                    - Enable span export (default: false)
//	OTEL_SERVICE_NAME               - Service name (default: sortbench)
//	OTEL_EXPORTER_OTLP_ENDPOINT     - OTLP collector endpoint
//	OTEL_EXPORTER_OTLP_PROTOCOL     - grpc or http/protobuf (default: grpc)
//	OTEL_EXPORTER_OTLP_HEADERS      - Export headers, e.g. Authorization=Bearer xxx
//	OTEL_EXPORTER_OTLP_INSECURE     - Plaintext connection (default: false)
//	OTEL_TRACES_SAMPLER             - Sampler type (default: always_on)
//	OTEL_TRACES_SAMPLER_ARG         - Sampler argument (ratio)
//	OTEL_RESOURCE_ATTRIBUTES        - Extra resource attributes
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes and stops the TracerProvider.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init installs a global TracerProvider exporting over OTLP. When cfg is
// disabled the global no-op provider is left in place.
func Init(ctx context.Context, cfg *Config) (ShutdownFunc, error) {
	if cfg == nil || !cfg.Enabled {
		return noopShutdown, nil
	}

	exporter, err := createExporter(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}
	return InitWithExporter(ctx, cfg, exporter)
}

// InitWithExporter installs a global TracerProvider batching into exporter.
func InitWithExporter(ctx context.Context, cfg *Config, exporter sdktrace.SpanExporter) (ShutdownFunc, error) {
	res, err := buildResource(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(createSampler(cfg)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
