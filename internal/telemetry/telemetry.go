// Package telemetry provides OpenTelemetry instrumentation for Honeycomb.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "turncore"
	serviceVersion = "0.1.0"

	// DefaultEndpoint is Honeycomb's OTLP/HTTP trace intake.
	DefaultEndpoint = "https://api.honeycomb.io/v1/traces"
)

// Options configures the trace exporter.
type Options struct {
	Endpoint string // full OTLP/HTTP traces URL; DefaultEndpoint when empty
	APIKey   string
	Dataset  string
}

func (o Options) headers() map[string]string {
	h := map[string]string{}
	if o.APIKey != "" {
		h["x-honeycomb-team"] = o.APIKey
	}
	if o.Dataset != "" {
		h["x-honeycomb-dataset"] = o.Dataset
	}
	return h
}

// Setup installs a global tracer provider exporting over OTLP/HTTP.
// Returns a shutdown function that flushes pending spans; call it on exit.
func Setup(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
		otlptracehttp.WithHeaders(opts.headers()),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	// Built without resource.Default() to avoid schema URL conflicts.
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("telemetry.sdk.language", "go"),
			attribute.String("host.name", hostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a named tracer for the given component. Without Setup it
// is backed by the global no-op provider.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + name)
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
