// Package observability wires OpenTelemetry tracing to an OTLP collector.
//
// Tracing is opt-in: with no endpoint configured the global tracer provider
// stays the SDK no-op and every span in the codebase costs nothing. With an
// endpoint (a local collector or agent speaking OTLP/HTTP), tool-call spans
// are batched and exported; the agent owns authentication and forwarding,
// so no credentials pass through this process.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/cbyrohl/cdash-mcp/internal/log"
)

// Config for OTLP trace export.
type Config struct {
	// Endpoint is the collector's OTLP/HTTP host:port. Empty disables
	// tracing entirely.
	Endpoint string

	// ServiceName appears as service.name on exported spans.
	ServiceName string

	// Version appears as service.version on exported spans.
	Version string

	// Logger receives setup diagnostics. Required when Endpoint is set.
	Logger log.Logger
}

// Setup installs a global tracer provider exporting to the configured OTLP
// collector and returns a shutdown function that flushes pending spans.
// With an empty endpoint, nothing is installed and shutdown is a no-op.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if cfg.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	// The collector is assumed local (localhost:4318 or a sidecar), so the
	// hop is plaintext; TLS termination is the collector's concern.
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		)),
	)
	otel.SetTracerProvider(provider)

	cfg.Logger.Debug("tracing enabled",
		"endpoint", cfg.Endpoint,
		"service", cfg.ServiceName,
	)

	return provider.Shutdown, nil
}
