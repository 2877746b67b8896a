package config

import (
	"os"
	"regexp"

	"github.com/spf13/viper"

	"github.com/hireloop/questgen/internal/types"
)

// envVarPattern matches ${VAR_NAME} references in config values.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Loader handles loading configuration from files.
type Loader interface {
	Load(path string) (*Config, error)
	LoadWithDefaults(path string) (*Config, error)
}

// viperLoader implements Loader using Viper.
type viperLoader struct {
	validator Validator
}

// NewLoader creates a new Loader instance.
func NewLoader(validator Validator) Loader {
	return &viperLoader{validator: validator}
}

// Load loads configuration from the specified file path. Returns an error if
// the file doesn't exist or cannot be parsed. Missing sections fall back to
// defaults before validation.
func (l *viperLoader) Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read config file", err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}

	interpolateConfig(cfg)

	if err := l.validator.Validate(cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_VALIDATION_FAILED, "configuration validation failed", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration from the specified file path. If the
// file doesn't exist, the default configuration is returned.
func (l *viperLoader) LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := l.validator.Validate(cfg); err != nil {
			return nil, types.WrapError(types.CONFIG_VALIDATION_FAILED, "default configuration invalid", err)
		}
		return cfg, nil
	}
	return l.Load(path)
}

// interpolateConfig expands ${ENV_VAR} references in the string fields that
// commonly carry secrets or deployment-specific values.
func interpolateConfig(cfg *Config) {
	cfg.LLM.APIKey = interpolateEnv(cfg.LLM.APIKey)
	cfg.LLM.BaseURL = interpolateEnv(cfg.LLM.BaseURL)
	cfg.Storage.DatabasePath = interpolateEnv(cfg.Storage.DatabasePath)
	cfg.Storage.JobsDir = interpolateEnv(cfg.Storage.JobsDir)
	cfg.Storage.PolicyDir = interpolateEnv(cfg.Storage.PolicyDir)
	cfg.Telemetry.Endpoint = interpolateEnv(cfg.Telemetry.Endpoint)
}

// interpolateEnv replaces ${VAR} references with the value of the
// corresponding environment variable. Unset variables expand to the empty
// string, matching shell semantics.
func interpolateEnv(value string) string {
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}
