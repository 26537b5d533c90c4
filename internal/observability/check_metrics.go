package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesScanned   = "importcheck.files.scanned"
	metricFilesSkipped   = "importcheck.files.skipped"
	metricBytesScanned   = "importcheck.bytes.scanned"
	metricImportsChecked = "importcheck.imports.checked"
	metricImportsBare    = "importcheck.imports.bare"
	metricImportsMissing = "importcheck.imports.missing"
	metricStatCacheHits  = "importcheck.stat_cache.hits"
	metricStatCacheMiss  = "importcheck.stat_cache.misses"
	metricRunDuration    = "importcheck.run.duration"

	attrReason = "reason"
	attrForm   = "form"
)

// runDurationBoundaries covers small component folders up to monorepo walks.
var runDurationBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// CheckMetrics holds OTel instruments for import check runs.
type CheckMetrics struct {
	filesScanned   metric.Int64Counter
	filesSkipped   metric.Int64Counter
	bytesScanned   metric.Int64Counter
	importsChecked metric.Int64Counter
	importsBare    metric.Int64Counter
	importsMissing metric.Int64Counter
	cacheHits      metric.Int64Counter
	cacheMisses    metric.Int64Counter
	runDuration    metric.Float64Histogram
}

// RunStats holds the statistics for a single check run, decoupled from checker types.
type RunStats struct {
	FilesScanned   int
	BytesScanned   int64
	SkippedBy      map[string]int
	ImportsChecked int
	BareImports    int
	MissingBy      map[string]int
	CacheHits      int64
	CacheMisses    int64
	Duration       time.Duration
}

// NewCheckMetrics creates check metric instruments from the given meter.
func NewCheckMetrics(mt metric.Meter) (*CheckMetrics, error) {
	b := newMetricBuilder(mt)

	cm := &CheckMetrics{
		filesScanned:   b.counter(metricFilesScanned, "Source files scanned for imports", "{file}"),
		filesSkipped:   b.counter(metricFilesSkipped, "Source files skipped by reason", "{file}"),
		bytesScanned:   b.counter(metricBytesScanned, "Bytes of source read", "By"),
		importsChecked: b.counter(metricImportsChecked, "Alias and relative specifiers resolved", "{import}"),
		importsBare:    b.counter(metricImportsBare, "Package specifiers left unchecked", "{import}"),
		importsMissing: b.counter(metricImportsMissing, "Specifiers that did not resolve, by form", "{import}"),
		cacheHits:      b.counter(metricStatCacheHits, "Existence lookups served from the run cache", "{lookup}"),
		cacheMisses:    b.counter(metricStatCacheMiss, "Existence lookups that hit the filesystem", "{lookup}"),
		runDuration: b.histogram(metricRunDuration, "Wall time of a check run", "s",
			runDurationBoundaries...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return cm, nil
}

// RecordRun records the statistics of a completed run.
// Safe to call on a nil receiver (no-op).
func (cm *CheckMetrics) RecordRun(ctx context.Context, stats RunStats) {
	if cm == nil {
		return
	}

	cm.filesScanned.Add(ctx, int64(stats.FilesScanned))
	cm.bytesScanned.Add(ctx, stats.BytesScanned)
	cm.importsChecked.Add(ctx, int64(stats.ImportsChecked))
	cm.importsBare.Add(ctx, int64(stats.BareImports))
	cm.cacheHits.Add(ctx, stats.CacheHits)
	cm.cacheMisses.Add(ctx, stats.CacheMisses)
	cm.runDuration.Record(ctx, stats.Duration.Seconds())

	for reason, n := range stats.SkippedBy {
		cm.filesSkipped.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrReason, reason)))
	}

	for form, n := range stats.MissingBy {
		cm.importsMissing.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrForm, form)))
	}
}
