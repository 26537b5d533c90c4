package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// metricBuilder creates instruments from one meter and keeps the first
// creation error, so a constructor checks for failure once at the end.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

func newMetricBuilder(mt metric.Meter) *metricBuilder {
	return &metricBuilder{meter: mt}
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	inst, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return inst
}

// histogram uses the SDK default buckets when bounds is empty.
func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{metric.WithDescription(desc), metric.WithUnit(unit)}
	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}

	inst, err := b.meter.Float64Histogram(name, opts...)
	b.setErr(name, err)

	return inst
}

func (b *metricBuilder) setErr(name string, err error) {
	if err == nil || b.err != nil {
		return
	}

	b.err = fmt.Errorf("create instrument %s: %w", name, err)
}
