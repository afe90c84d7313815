package tracing

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/odrlcheck/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/credentials/insecure"
)

// InstrumentationName identifies spans created by odrlcheck.
const InstrumentationName = "mercator-hq/odrlcheck"

// Sampler names accepted in telemetry.tracing.sampler.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio"
)

// Tracer wraps the OpenTelemetry tracer and its provider.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
}

// New creates a Tracer exporting to the configured OTLP endpoint, or a noop
// tracer when tracing is disabled. An enabled tracer becomes the global
// provider and must be shut down to flush spans:
//
//	defer tracer.Shutdown(context.Background())
func New(cfg *config.TracingConfig, version string) (*Tracer, error) {
	if cfg == nil {
		return nil, errors.New("tracing config is nil")
	}
	if !cfg.Enabled {
		return &Tracer{tracer: noop.NewTracerProvider().Tracer(InstrumentationName)}, nil
	}

	provider, err := newProvider(cfg, version)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Tracer{tracer: provider.Tracer(InstrumentationName), provider: provider}, nil
}

func newProvider(cfg *config.TracingConfig, version string) (*sdktrace.TracerProvider, error) {
	sampler, err := createSampler(cfg.Sampler, cfg.SampleRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}

	// The gRPC connection is established lazily; an unreachable collector
	// does not block startup.
	clientOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		clientOpts = append(clientOpts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, otlptracegrpc.WithTimeout(cfg.Timeout))
	}
	exporter, err := otlptrace.New(context.Background(), otlptracegrpc.NewClient(clientOpts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName), semconv.ServiceVersion(version)),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	), nil
}

// createSampler wraps the named root sampler in ParentBased, so an
// incoming traceparent decision takes precedence.
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	roots := map[string]func() sdktrace.Sampler{
		SamplerAlways: sdktrace.AlwaysSample,
		SamplerNever:  sdktrace.NeverSample,
		SamplerRatio:  func() sdktrace.Sampler { return sdktrace.TraceIDRatioBased(ratio) },
	}
	root, ok := roots[strategy]
	if !ok {
		return nil, fmt.Errorf("unknown sampler %q", strategy)
	}
	if strategy == SamplerRatio && (ratio < 0 || ratio > 1) {
		return nil, fmt.Errorf("sample ratio %g is outside [0, 1]", ratio)
	}
	return sdktrace.ParentBased(root()), nil
}

// Start opens a child of the span in ctx.
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// Tracer is what validator.WithTracer takes.
func (t *Tracer) Tracer() trace.Tracer { return t.tracer }

// Enabled reports whether spans leave the process.
func (t *Tracer) Enabled() bool { return t.provider != nil }

// Shutdown flushes buffered spans.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// TraceID is the hex trace ID of the span in ctx, or "".
func TraceID(ctx context.Context) string {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// SetError records err on span and marks it failed. A nil err is ignored.
func SetError(span trace.Span, err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	span.SetAttributes(attribute.Bool("error", true), attribute.String("error.message", msg))
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}
