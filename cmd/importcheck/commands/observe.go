// Package commands implements CLI command handlers for importcheck.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importcheck/internal/config"
	"github.com/Sumatoshi-tech/importcheck/internal/observability"
	"github.com/Sumatoshi-tech/importcheck/pkg/version"
)

// Standard OpenTelemetry exporter variables, honored over config values.
const (
	envOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOTLPHeaders  = "OTEL_EXPORTER_OTLP_HEADERS"
	envOTLPInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
)

type observabilityInit func(cfg observability.Config) (observability.Providers, error)

// logFlags are the verbosity flags shared by every command.
type logFlags struct {
	verbose bool
	quiet   bool
}

func (lf *logFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&lf.verbose, "verbose", "v", false, "Log debug details to stderr")
	cmd.Flags().BoolVarP(&lf.quiet, "quiet", "q", false, "Log errors only")
}

func (lf *logFlags) level(configured slog.Level) slog.Level {
	switch {
	case lf.verbose:
		return slog.LevelDebug
	case lf.quiet:
		return slog.LevelError
	default:
		return configured
	}
}

// buildObservabilityConfig merges the loaded config, the OTEL_* environment
// and the verbosity flags.
func buildObservabilityConfig(
	cfg *config.Config, mode observability.AppMode, flags logFlags, logOutput io.Writer,
) (observability.Config, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.Mode = mode
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.LogLevel = flags.level(level)
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.LogOutput = logOutput

	if endpoint := os.Getenv(envOTLPEndpoint); endpoint != "" {
		obsCfg.OTLPEndpoint = endpoint
	}

	if os.Getenv(envOTLPInsecure) == "true" {
		obsCfg.OTLPInsecure = true
	}

	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv(envOTLPHeaders))

	return obsCfg, nil
}

// shutdownProviders flushes telemetry, logging rather than returning a
// failure so it never masks the command result.
func shutdownProviders(providers observability.Providers) {
	if providers.Shutdown == nil {
		return
	}

	shutdownErr := providers.Shutdown(context.Background())
	if shutdownErr != nil && providers.Logger != nil {
		providers.Logger.Warn("telemetry shutdown failed", "error", shutdownErr)
	}
}

func providerLogger(providers observability.Providers) *slog.Logger {
	if providers.Logger != nil {
		return providers.Logger
	}

	return slog.New(slog.DiscardHandler)
}
