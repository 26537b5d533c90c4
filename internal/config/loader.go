package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".importcheck"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for importcheck settings.
const envPrefix = "IMPORTCHECK"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// dotenvFile is loaded into the process environment before viper reads it.
const dotenvFile = ".env"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
// A .env file in CWD, when present, feeds IMPORTCHECK_* variables.
func LoadConfig(configPath string) (*Config, error) {
	envErr := godotenv.Load(dotenvFile)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotenvFile, envErr)
	}

	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("check.extensions", DefaultCheckExtensions)
	viperCfg.SetDefault("check.alias_prefix", DefaultCheckAliasPrefix)
	viperCfg.SetDefault("check.max_file_size", DefaultCheckMaxFileSize)
	viperCfg.SetDefault("check.skip_vendor", DefaultCheckSkipVendor)
	viperCfg.SetDefault("check.stat_cache_size", DefaultCheckStatCacheSize)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.color", DefaultOutputColor)
	viperCfg.SetDefault("output.fail_on_missing", DefaultOutputFailOnMissing)
	viperCfg.SetDefault("output.summary", DefaultOutputSummary)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.format", DefaultLoggingFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultTelemetryOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultTelemetryOTLPInsecure)
	viperCfg.SetDefault("telemetry.environment", DefaultTelemetryEnvironment)
}
