// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for importcheck commands.
package observability

import (
	"io"
	"log/slog"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// AppMode identifies the command the binary was launched with.
type AppMode string

const (
	// ModeCheck is the import check command.
	ModeCheck AppMode = "check"
	// ModePatch is the patch command.
	ModePatch AppMode = "patch"
)

const (
	// defaultServiceName is the default OTel service name.
	defaultServiceName = "importcheck"

	// defaultShutdownTimeoutSec is the default shutdown timeout in seconds.
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment (e.g. "ci", "dev").
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export; providers become no-op.
	OTLPEndpoint string

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporter.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// DebugTrace forces 100% trace sampling when true.
	DebugTrace bool

	// TraceVerbose keeps per-file spans. When false, only run-level spans are exported.
	TraceVerbose bool

	// MetricReaders are attached to the meter provider in addition to the
	// OTLP reader, e.g. the Prometheus textfile exporter.
	MetricReaders []sdkmetric.Reader

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON enables JSON-formatted log output.
	LogJSON bool

	// LogOutput receives log records. Nil means stderr.
	LogOutput io.Writer

	// ShutdownTimeoutSec is the maximum seconds to wait for flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config with sensible defaults for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCheck,
		LogLevel:           slog.LevelWarn,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
