package config

import "time"

// Default returns the default configuration. Values mirror production
// settings; debug deployments override the workflow bounds in their config
// file.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.1,
			MaxTokens:   4000,
			Timeout:     60 * time.Second,
		},
		Workflow: WorkflowConfig{
			MaxRetries:        2,
			MinQuestions:      8,
			TargetQuestions:   12,
			MinQuestionLength: 20,
			MaxQuestionLength: 2000,
			MaxConcurrent:     8,
			DispatchRate:      0,
		},
		Storage: StorageConfig{
			DatabasePath: "questgen.db",
			JobsDir:      "storage/jobs",
			PolicyDir:    "storage/policies",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "localhost:4317",
			Insecure:    true,
			ServiceName: "questgen",
		},
	}
}
