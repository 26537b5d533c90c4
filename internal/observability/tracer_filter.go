package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// hotPathSpans are dropped unless Config.TraceVerbose is set.
var hotPathSpans = map[string]bool{
	"importcheck.checker.file": true,
}

// filteringTracerProvider wraps a real TracerProvider and replaces hot-path
// spans with no-op spans.
type filteringTracerProvider struct {
	embedded.TracerProvider

	delegate trace.TracerProvider
	noop     trace.TracerProvider
	suppress map[string]bool
}

// NewFilteringTracerProvider wraps delegate so that per-file spans are
// replaced with no-op spans while run-level spans are preserved.
func NewFilteringTracerProvider(delegate trace.TracerProvider) trace.TracerProvider {
	return &filteringTracerProvider{
		delegate: delegate,
		noop:     nooptrace.NewTracerProvider(),
		suppress: hotPathSpans,
	}
}

// Tracer returns a tracer that filters suppressed span names.
func (f *filteringTracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return &filteringTracer{
		delegate: f.delegate.Tracer(name, opts...),
		noop:     f.noop.Tracer(name, opts...),
		suppress: f.suppress,
	}
}

// filteringTracer wraps a real Tracer and returns noop spans for
// suppressed span names while delegating everything else.
type filteringTracer struct {
	embedded.Tracer

	delegate trace.Tracer
	noop     trace.Tracer
	suppress map[string]bool
}

// Start creates a span, returning a noop span for suppressed names.
func (f *filteringTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if f.suppress[name] {
		return f.noop.Start(ctx, name, opts...)
	}

	return f.delegate.Start(ctx, name, opts...)
}
