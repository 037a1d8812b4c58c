// Package tracing exports frame-level OpenTelemetry spans for the
// event loop, sitting next to the prometheus bridge in metrics.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"

	fluffyruntime "github.com/odvcencio/fluffyui/runtime"
)

const tracerName = "github.com/odvcencio/fluffyui/runtime"

// TracerProvider holds the OpenTelemetry tracer provider.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
}

// NewTracerProvider creates a tracer provider exporting to w. The
// terminal owns stdout while a session runs, so hosts pass a file or
// stderr, never the tty.
func NewTracerProvider(serviceName string, w io.Writer) (*TracerProvider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)

	return &TracerProvider{provider: provider}, nil
}

// Shutdown flushes and stops the tracer provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.provider.Shutdown(ctx)
}

// Tracer returns the tracer for the event core.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StatsSource supplies snapshots, typically (*runtime.App).Stats.
type StatsSource func() fluffyruntime.Stats

// FrameTracer opens one span per loop frame, annotated at frame end
// with the queue snapshot. Its hooks run on the loop goroutine.
type FrameTracer struct {
	tracer trace.Tracer
	source StatsSource
	span   trace.Span
}

// NewFrameTracer creates a frame tracer. A nil source skips the stats
// attributes.
func NewFrameTracer(source StatsSource) *FrameTracer {
	return &FrameTracer{tracer: Tracer(), source: source}
}

// Options returns the runtime options that install the tracer's
// pre/post-frame hooks.
func (f *FrameTracer) Options() []fluffyruntime.Option {
	return []fluffyruntime.Option{
		fluffyruntime.WithPreFrameHook(f.begin),
		fluffyruntime.WithPostFrameHook(f.end),
	}
}

func (f *FrameTracer) begin() {
	_, f.span = f.tracer.Start(context.Background(), "frame")
}

func (f *FrameTracer) end() {
	if f.span == nil {
		return
	}
	if f.source != nil {
		s := f.source()
		f.span.SetAttributes(
			AttrQueueDepth.Int(s.Queued),
			AttrQueueDropped.Int64(int64(s.Dropped)),
			AttrQueuePeak.Int(s.PeakDepth),
			AttrTicksPending.Int(s.PendingTicks),
			AttrTimersActive.Int(s.ActiveTimers),
		)
	}
	f.span.End()
	f.span = nil
}

// Common attribute keys for event-core tracing.
var (
	AttrQueueDepth   = attribute.Key("fluffyui.queue.depth")
	AttrQueueDropped = attribute.Key("fluffyui.queue.dropped")
	AttrQueuePeak    = attribute.Key("fluffyui.queue.peak")
	AttrTicksPending = attribute.Key("fluffyui.ticks.pending")
	AttrTimersActive = attribute.Key("fluffyui.timers.active")
)
