// Package config provides YAML-based project configuration for importcheck.
package config

// Check defaults.
const (
	DefaultCheckAliasPrefix   = "@/"
	DefaultCheckMaxFileSize   = ""
	DefaultCheckSkipVendor    = false
	DefaultCheckStatCacheSize = 4096
)

// DefaultCheckExtensions lists the source suffixes that are scanned for imports.
var DefaultCheckExtensions = []string{".ts", ".tsx"}

// Output defaults.
const (
	DefaultOutputFormat        = "text"
	DefaultOutputColor         = "auto"
	DefaultOutputFailOnMissing = false
	DefaultOutputSummary       = false
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "warn"
	DefaultLoggingFormat = "text"
)

// Telemetry defaults.
const (
	DefaultTelemetryOTLPEndpoint = ""
	DefaultTelemetryOTLPInsecure = false
	DefaultTelemetryEnvironment  = ""
)
