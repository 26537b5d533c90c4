package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importcheck/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".importcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, config.DefaultCheckExtensions, cfg.Check.Extensions)
	assert.Equal(t, config.DefaultCheckAliasPrefix, cfg.Check.AliasPrefix)
	assert.Equal(t, config.DefaultCheckMaxFileSize, cfg.Check.MaxFileSize)
	assert.Equal(t, config.DefaultCheckSkipVendor, cfg.Check.SkipVendor)
	assert.Equal(t, config.DefaultCheckStatCacheSize, cfg.Check.StatCacheSize)
	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.Format)
	assert.Equal(t, config.DefaultOutputColor, cfg.Output.Color)
	assert.Equal(t, config.DefaultOutputFailOnMissing, cfg.Output.FailOnMissing)
	assert.Equal(t, config.DefaultLoggingLevel, cfg.Logging.Level)
	assert.Equal(t, config.DefaultLoggingFormat, cfg.Logging.Format)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	content := `check:
  extensions: [".ts", ".tsx", ".mts"]
  alias_prefix: "~/"
  max_file_size: "2MB"
  skip_vendor: true
  stat_cache_size: 128
output:
  format: table
  color: never
  fail_on_missing: true
  summary: true
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: "localhost:4317"
  otlp_insecure: true
  environment: ci
`

	cfg, err := config.LoadConfig(writeConfig(t, content))
	require.NoError(t, err)

	assert.Equal(t, []string{".ts", ".tsx", ".mts"}, cfg.Check.Extensions)
	assert.Equal(t, "~/", cfg.Check.AliasPrefix)
	assert.True(t, cfg.Check.SkipVendor)
	assert.Equal(t, 128, cfg.Check.StatCacheSize)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Equal(t, "never", cfg.Output.Color)
	assert.True(t, cfg.Output.FailOnMissing)
	assert.True(t, cfg.Output.Summary)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.Equal(t, "ci", cfg.Telemetry.Environment)

	size, sizeErr := cfg.MaxFileSizeBytes()
	require.NoError(t, sizeErr)
	assert.Equal(t, int64(2_000_000), size)
}

func TestLoadConfig_InvalidYAML_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "check: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_InvalidValue_ReturnsValidationError(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "output:\n  format: html\n"))
	require.ErrorIs(t, err, config.ErrInvalidOutputFormat)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("IMPORTCHECK_OUTPUT_FORMAT", "json")

	cfg, err := config.LoadConfig(writeConfig(t, "output:\n  format: table\n"))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
}
