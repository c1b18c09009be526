package telemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.trai.ch/whence/internal/core/ports"
)

// Provider hands out tracers. A disabled Provider returns no-op tracers.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider creates a Provider that reports spans to logger when enabled.
func NewProvider(logger ports.Logger, enabled bool) *Provider {
	if !enabled {
		return &Provider{}
	}
	return &Provider{
		tp: sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
			sdktrace.WithSpanProcessor(NewBridge(logger)),
		),
	}
}

// Tracer returns a tracer for the named instrumentation scope.
func (p *Provider) Tracer(name string) trace.Tracer {
	if p.tp == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return p.tp.Tracer(name)
}

// Shutdown flushes and stops the underlying provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}
