package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/importcheck/internal/observability"
)

func TestInit_NoopWhenNoEndpoint(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Logger)
	assert.NotNil(t, providers.Shutdown)

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_NoopSpanIsValid(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	ctx, span := providers.Tracer.Start(context.Background(), "test-op")
	defer span.End()

	assert.NotNil(t, ctx)
	assert.NotNil(t, span)
}

func TestInit_LoggerHonorsLevelAndOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogOutput = &buf
	cfg.LogLevel = slog.LevelWarn

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	providers.Logger.Info("hidden")
	providers.Logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "service=importcheck")
}

func TestInit_WithResourceAttributes(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = "1.2.3"
	cfg.Environment = "test"
	cfg.Mode = observability.ModePatch

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, observability.ParseOTLPHeaders(""))
	assert.Nil(t, observability.ParseOTLPHeaders("garbage"))
	assert.Equal(t,
		map[string]string{"authorization": "Bearer x", "tenant": "web"},
		observability.ParseOTLPHeaders("authorization=Bearer x, tenant = web"),
	)
}

func TestInit_MetricReadersReceiveRecords(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()

	cfg := observability.DefaultConfig()
	cfg.MetricReaders = []sdkmetric.Reader{reader}

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	metrics, err := observability.NewCheckMetrics(providers.Meter)
	require.NoError(t, err)

	metrics.RecordRun(context.Background(), observability.RunStats{FilesScanned: 2})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.NotEmpty(t, rm.ScopeMetrics)
	assert.Equal(t, "importcheck", rm.ScopeMetrics[0].Scope.Name)
}
