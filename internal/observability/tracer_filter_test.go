package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/importcheck/internal/observability"
)

func newTestProvider() (*tracetest.InMemoryExporter, trace.TracerProvider) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	return exporter, tp
}

func TestFilteringProvider_SuppressesFileSpans(t *testing.T) {
	t.Parallel()

	exporter, base := newTestProvider()
	tracer := observability.NewFilteringTracerProvider(base).Tracer("importcheck.checker")

	_, runSpan := tracer.Start(context.Background(), "importcheck.checker.run")
	_, fileSpan := tracer.Start(context.Background(), "importcheck.checker.file")
	fileSpan.End()
	runSpan.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "only the run span should be exported")
	assert.Equal(t, "importcheck.checker.run", spans[0].Name)
}

func TestFilteringProvider_SuppressedSpanKeepsParentContext(t *testing.T) {
	t.Parallel()

	_, base := newTestProvider()
	tracer := observability.NewFilteringTracerProvider(base).Tracer("importcheck.checker")

	ctx, parent := tracer.Start(context.Background(), "importcheck.checker.run")
	defer parent.End()

	childCtx, child := tracer.Start(ctx, "importcheck.checker.file")
	defer child.End()

	assert.Equal(t, parent.SpanContext().TraceID(), trace.SpanContextFromContext(childCtx).TraceID())
}
