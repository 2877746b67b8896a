package config

import "time"

// Config is the root configuration for questgen.
type Config struct {
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Workflow  WorkflowConfig  `yaml:"workflow" mapstructure:"workflow"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// LLMConfig configures the language-model backend used for generation.
type LLMConfig struct {
	// Provider selects the backend: "openai", "anthropic", "ollama", "mock".
	Provider string `yaml:"provider" mapstructure:"provider" validate:"required,oneof=openai anthropic ollama mock"`

	// Model is the provider-specific model identifier.
	Model string `yaml:"model" mapstructure:"model" validate:"required"`

	// APIKey authenticates against the provider. Supports ${ENV} interpolation.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint. Used for OpenAI-compatible
	// services (Groq and friends).
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	Temperature float64       `yaml:"temperature" mapstructure:"temperature" validate:"min=0,max=2"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens" validate:"min=1"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"min=1"`
}

// WorkflowConfig holds the tunables of the generation pipeline. The counts
// and bounds are configurable rather than constants: debug runs use looser
// settings than production.
type WorkflowConfig struct {
	// MaxRetries caps the total retry attempts per invocation.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries" validate:"min=0"`

	// MinQuestions is the hard lower bound for a valid question set.
	MinQuestions int `yaml:"min_questions" mapstructure:"min_questions" validate:"min=1"`

	// TargetQuestions is the desired set size; counts between MinQuestions
	// and TargetQuestions pass validation with a warning.
	TargetQuestions int `yaml:"target_questions" mapstructure:"target_questions" validate:"min=1"`

	// MinQuestionLength / MaxQuestionLength bound per-question text length
	// in characters.
	MinQuestionLength int `yaml:"min_question_length" mapstructure:"min_question_length" validate:"min=0"`
	MaxQuestionLength int `yaml:"max_question_length" mapstructure:"max_question_length"`

	// MaxConcurrent limits simultaneous invocations dispatched by the runner.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent" validate:"min=1"`

	// DispatchRate limits new invocations per second (0 disables limiting).
	DispatchRate float64 `yaml:"dispatch_rate" mapstructure:"dispatch_rate" validate:"min=0"`
}

// StorageConfig locates the sqlite database and the questions output tree.
type StorageConfig struct {
	// DatabasePath is the sqlite file holding jobs, candidates, and policies.
	DatabasePath string `yaml:"database_path" mapstructure:"database_path" validate:"required"`

	// JobsDir is the root under which per-job question files are written.
	JobsDir string `yaml:"jobs_dir" mapstructure:"jobs_dir" validate:"required"`

	// PolicyDir optionally holds JSON policy files used when the database
	// has no policies.
	PolicyDir string `yaml:"policy_dir" mapstructure:"policy_dir"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level" mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Format is "text" or "json".
	Format string `yaml:"format" mapstructure:"format" validate:"required,oneof=text json"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint (host:port).
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Insecure disables TLS on the exporter connection.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`

	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
}
