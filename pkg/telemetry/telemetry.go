// Package telemetry provides OpenTelemetry integration for distributed
// tracing.
//
// Configuration comes from the standard environment variables:
//
//	OTEL_ENABLED                - enable tracing (default: false)
//	OTEL_SERVICE_NAME           - service name (default: flame-analysis)
//	OTEL_SERVICE_VERSION        - service version (default: unknown)
//	OTEL_EXPORTER_OTLP_ENDPOINT - OTLP collector endpoint
//	OTEL_EXPORTER_OTLP_PROTOCOL - grpc or http/protobuf (default: grpc)
//	OTEL_EXPORTER_OTLP_HEADERS  - exporter headers, "k=v,k=v"
//	OTEL_EXPORTER_OTLP_INSECURE - plaintext connection (default: false)
//	OTEL_TRACES_SAMPLER         - sampler type (default: always_on)
//	OTEL_TRACES_SAMPLER_ARG     - sampler argument
//	OTEL_RESOURCE_ATTRIBUTES    - extra resource attributes, "k=v,k=v"
//
// When disabled, Init leaves the global no-op TracerProvider in place
// so instrumentation costs nothing.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
)

var (
	globalConfig *Config
	configOnce   sync.Once
)

// ShutdownFunc flushes and stops the TracerProvider.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(_ context.Context) error {
	return nil
}

// Init initializes OpenTelemetry and installs the global
// TracerProvider. Safe to call more than once; only the first call
// initializes.
func Init(ctx context.Context) (ShutdownFunc, error) {
	cfg := loadConfig()

	if !cfg.Enabled {
		return noopShutdown, nil
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}

	exporter, err := createExporter(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}

	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exporter),
		trace.WithSampler(createSampler(cfg)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// Enabled reports whether tracing is enabled.
func Enabled() bool {
	return loadConfig().Enabled
}

func loadConfig() *Config {
	configOnce.Do(func() {
		globalConfig = LoadFromEnv()
	})
	return globalConfig
}
