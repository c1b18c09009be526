// Package telemetry turns resolver spans into debug log lines.
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/whence/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge implements sdktrace.SpanProcessor by writing a summary of every finished span to a Logger.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{
		logger: logger,
	}
}

// OnStart does nothing; spans are reported once they end.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration, status, attributes and events.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}
	b.logger.Debug(Summarize(s))
}

// Summarize renders a span as a single line followed by one indented line per event.
func Summarize(s sdktrace.ReadOnlySpan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "span %s %s", s.Name(), s.EndTime().Sub(s.StartTime()).Round(time.Microsecond))

	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "error"
		}
		b.WriteString(" failed: " + desc)
	} else {
		b.WriteString(" ok")
	}

	for _, attr := range s.Attributes() {
		fmt.Fprintf(&b, " %s=%s", attr.Key, attr.Value.Emit())
	}

	for _, event := range s.Events() {
		b.WriteString("\n  event " + event.Name)
		for _, attr := range event.Attributes {
			fmt.Fprintf(&b, " %s=%s", attr.Key, attr.Value.Emit())
		}
	}
	return b.String()
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
