package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
)

// Config is the top-level configuration struct for importcheck.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Check     CheckConfig     `mapstructure:"check"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// CheckConfig holds the import resolution knobs.
type CheckConfig struct {
	Extensions    []string `mapstructure:"extensions"`
	AliasPrefix   string   `mapstructure:"alias_prefix"`
	MaxFileSize   string   `mapstructure:"max_file_size"`
	SkipVendor    bool     `mapstructure:"skip_vendor"`
	StatCacheSize int      `mapstructure:"stat_cache_size"`
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	Format        string `mapstructure:"format"`
	Color         string `mapstructure:"color"`
	FailOnMissing bool   `mapstructure:"fail_on_missing"`
	Summary       bool   `mapstructure:"summary"`
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	Environment  string `mapstructure:"environment"`
}

// Supported values for enumerated settings.
var (
	validColorModes    = []string{"auto", "always", "never"}
	validLogFormats    = []string{"text", "json"}
	validOutputFormats = []string{"text", "json", "yaml", "table", "tree"}
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidExtension indicates an extension that does not start with a dot.
	ErrInvalidExtension = errors.New("check.extensions entries must start with '.'")
	// ErrEmptyExtensions indicates that no source extension is configured.
	ErrEmptyExtensions = errors.New("check.extensions must not be empty")
	// ErrEmptyAliasPrefix indicates the alias prefix is blank.
	ErrEmptyAliasPrefix = errors.New("check.alias_prefix must not be empty")
	// ErrInvalidMaxFileSize indicates the max file size cannot be parsed.
	ErrInvalidMaxFileSize = errors.New("check.max_file_size is not a valid size")
	// ErrInvalidStatCacheSize indicates the stat cache size is negative.
	ErrInvalidStatCacheSize = errors.New("check.stat_cache_size must be non-negative")
	// ErrInvalidOutputFormat indicates an unknown report format.
	ErrInvalidOutputFormat = errors.New("output.format is not supported")
	// ErrInvalidColorMode indicates an unknown color mode.
	ErrInvalidColorMode = errors.New("output.color must be auto, always or never")
	// ErrInvalidLogLevel indicates an unknown slog level.
	ErrInvalidLogLevel = errors.New("logging.level is not a valid level")
	// ErrInvalidLogFormat indicates an unknown log format.
	ErrInvalidLogFormat = errors.New("logging.format must be text or json")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	checkErr := c.validateCheck()
	if checkErr != nil {
		return checkErr
	}

	return c.validateOutput()
}

func (c *Config) validateCheck() error {
	if len(c.Check.Extensions) == 0 {
		return ErrEmptyExtensions
	}

	for _, ext := range c.Check.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
	}

	if c.Check.AliasPrefix == "" {
		return ErrEmptyAliasPrefix
	}

	_, sizeErr := c.MaxFileSizeBytes()
	if sizeErr != nil {
		return sizeErr
	}

	if c.Check.StatCacheSize < 0 {
		return ErrInvalidStatCacheSize
	}

	return nil
}

func (c *Config) validateOutput() error {
	if !slices.Contains(validOutputFormats, c.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, c.Output.Format)
	}

	if !slices.Contains(validColorModes, c.Output.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColorMode, c.Output.Color)
	}

	_, levelErr := c.LogLevel()
	if levelErr != nil {
		return levelErr
	}

	if !slices.Contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	return nil
}

// MaxFileSizeBytes parses check.max_file_size. Empty or "0" means unlimited and returns 0.
func (c *Config) MaxFileSizeBytes() (int64, error) {
	trimmed := strings.TrimSpace(c.Check.MaxFileSize)
	if trimmed == "" || trimmed == "0" {
		return 0, nil
	}

	parsed, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidMaxFileSize, c.Check.MaxFileSize, err)
	}

	return int64(parsed), nil //nolint:gosec // sizes above MaxInt64 are not realistic.
}

// LogLevel parses logging.level into an slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Logging.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return level, nil
}
