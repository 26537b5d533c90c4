package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// scopeName names the tracer and meter handed to commands.
const scopeName = "importcheck"

// Providers holds what a command needs to emit telemetry.
type Providers struct {
	Tracer trace.Tracer
	Meter  metric.Meter
	Logger *slog.Logger

	// Shutdown flushes exporters. Call it once before the process exits.
	Shutdown func(ctx context.Context) error
}

type shutdownFunc func(ctx context.Context) error

// Init builds the tracer, meter and logger for one command invocation.
// Tracing is exported only with an OTLP endpoint. Metrics are recorded when
// an endpoint or at least one extra reader is configured; otherwise both
// are no-ops.
func Init(cfg Config) (Providers, error) {
	providers := Providers{
		Tracer:   nooptrace.NewTracerProvider().Tracer(scopeName),
		Meter:    noopmetric.NewMeterProvider().Meter(scopeName),
		Logger:   buildLogger(cfg),
		Shutdown: func(context.Context) error { return nil },
	}

	if cfg.OTLPEndpoint == "" && len(cfg.MetricReaders) == 0 {
		return providers, nil
	}

	ctx := context.Background()

	res, err := resource.New(ctx, resource.WithAttributes(resourceAttributes(cfg)...))
	if err != nil {
		return Providers{}, fmt.Errorf("build otel resource: %w", err)
	}

	var shutdowns []shutdownFunc

	if cfg.OTLPEndpoint != "" {
		tp, tpErr := newTracerProvider(ctx, cfg, res)
		if tpErr != nil {
			return Providers{}, tpErr
		}

		shutdowns = append(shutdowns, tp.Shutdown)

		var provider trace.TracerProvider = tp
		if !cfg.TraceVerbose {
			provider = NewFilteringTracerProvider(tp)
		}

		providers.Tracer = provider.Tracer(scopeName)
	}

	mp, err := newMeterProvider(ctx, cfg, res)
	if err != nil {
		return Providers{}, errors.Join(err, shutdownAll(ctx, shutdowns))
	}

	shutdowns = append(shutdowns, mp.Shutdown)
	providers.Meter = mp.Meter(scopeName)

	timeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultShutdownTimeoutSec * time.Second
	}

	providers.Shutdown = func(shutdownCtx context.Context) error {
		deadlineCtx, cancel := context.WithTimeout(shutdownCtx, timeout)
		defer cancel()

		return shutdownAll(deadlineCtx, shutdowns)
	}

	return providers, nil
}

func shutdownAll(ctx context.Context, shutdowns []shutdownFunc) error {
	errs := make([]error, 0, len(shutdowns))
	for _, shutdown := range shutdowns {
		errs = append(errs, shutdown(ctx))
	}

	return errors.Join(errs...)
}

func resourceAttributes(cfg Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.Environment))
	}

	if cfg.Mode != "" {
		attrs = append(attrs, attribute.String("app.mode", string(cfg.Mode)))
	}

	return attrs
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	if len(cfg.OTLPHeaders) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.OTLPHeaders))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	sampler := sdktrace.ParentBased(sdktrace.AlwaysSample())
	if cfg.DebugTrace {
		sampler = sdktrace.AlwaysSample()
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	), nil
}

func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := make([]sdkmetric.Option, 0, len(cfg.MetricReaders)+2)
	opts = append(opts, sdkmetric.WithResource(res))

	for _, reader := range cfg.MetricReaders {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	if cfg.OTLPEndpoint != "" {
		exporterOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
		}

		if len(cfg.OTLPHeaders) > 0 {
			exporterOpts = append(exporterOpts, otlpmetricgrpc.WithHeaders(cfg.OTLPHeaders))
		}

		exporter, err := otlpmetricgrpc.New(ctx, exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("create metric exporter: %w", err)
		}

		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	return sdkmetric.NewMeterProvider(opts...), nil
}

func buildLogger(cfg Config) *slog.Logger {
	out := cfg.LogOutput
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var inner slog.Handler = slog.NewTextHandler(out, handlerOpts)
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(out, handlerOpts)
	}

	return slog.New(NewTracingHandler(inner, cfg))
}

// ParseOTLPHeaders parses OTEL_EXPORTER_OTLP_HEADERS ("k=v,k=v"). Pairs
// without '=' are ignored; nil means nothing usable was found.
func ParseOTLPHeaders(raw string) map[string]string {
	if raw == "" {
		return nil
	}

	headers := make(map[string]string)

	for pair := range strings.SplitSeq(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if len(headers) == 0 {
		return nil
	}

	return headers
}
