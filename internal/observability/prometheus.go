package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// TextfileExporter collects OTel metrics into a private Prometheus registry
// and writes them in the text exposition format, for node_exporter's
// textfile collector or CI artifact upload.
type TextfileExporter struct {
	registry *prometheus.Registry
	reader   sdkmetric.Reader
}

// NewTextfileExporter creates an exporter backed by its own registry.
func NewTextfileExporter() (*TextfileExporter, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &TextfileExporter{registry: registry, reader: exporter}, nil
}

// Reader returns the metric reader to attach via Config.MetricReaders.
func (te *TextfileExporter) Reader() sdkmetric.Reader {
	return te.reader
}

// WriteFile gathers current metric values and atomically writes them to path.
func (te *TextfileExporter) WriteFile(path string) error {
	err := prometheus.WriteToTextfile(path, te.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
