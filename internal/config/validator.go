package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks a Config for internal consistency.
type Validator interface {
	Validate(cfg *Config) error
}

// validatorImpl implements Validator using go-playground/validator.
type validatorImpl struct {
	validate *validator.Validate
}

// NewValidator creates the standard config validator.
func NewValidator() Validator {
	return &validatorImpl{
		validate: validator.New(),
	}
}

// Validate validates the configuration and returns detailed error messages.
func (v *validatorImpl) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	// Struct tag validation first.
	err := v.validate.Struct(cfg)
	if err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validation error: %w", err)
		}

		var errorMessages []string
		for _, e := range validationErrs {
			errorMessages = append(errorMessages, formatValidationError(e))
		}

		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errorMessages, "\n  - "))
	}

	// Cross-field checks the struct tags cannot express.
	if cfg.Workflow.TargetQuestions < cfg.Workflow.MinQuestions {
		return fmt.Errorf("configuration validation failed:\n  - workflow.target_questions must be at least min_questions (got: %d, min_questions: %d)",
			cfg.Workflow.TargetQuestions, cfg.Workflow.MinQuestions)
	}

	if cfg.Workflow.MaxQuestionLength > 0 && cfg.Workflow.MaxQuestionLength < cfg.Workflow.MinQuestionLength {
		return fmt.Errorf("configuration validation failed:\n  - workflow.max_question_length must be at least min_question_length (got: %d, min_question_length: %d)",
			cfg.Workflow.MaxQuestionLength, cfg.Workflow.MinQuestionLength)
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return fmt.Errorf("configuration validation failed:\n  - telemetry.endpoint must be non-empty when telemetry is enabled")
	}

	return nil
}

// formatValidationError formats a single validation error with field path and details.
func formatValidationError(e validator.FieldError) string {
	fieldPath := formatFieldPath(e.Namespace())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldPath)
	case "min":
		return fmt.Sprintf("%s must be at least %s (got: %v)", fieldPath, e.Param(), e.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got: %v)", fieldPath, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", fieldPath, e.Param(), e.Value())
	case "url":
		return fmt.Sprintf("%s must be a valid URL (got: %v)", fieldPath, e.Value())
	default:
		return fmt.Sprintf("%s failed validation '%s' (got: %v)", fieldPath, e.Tag(), e.Value())
	}
}

// formatFieldPath converts validator namespace to a more readable field path.
// Example: "Config.Workflow.MaxRetries" -> "workflow.max_retries"
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) <= 1 {
		return namespace
	}

	// Skip the first part (struct name) and convert to lowercase with underscores.
	result := make([]string, 0, len(parts)-1)
	for i := 1; i < len(parts); i++ {
		result = append(result, camelToSnake(parts[i]))
	}

	return strings.Join(result, ".")
}

// camelToSnake converts CamelCase to snake_case. Acronym runs stay together,
// so "LLM" becomes "llm" and "BaseURL" becomes "base_url".
func camelToSnake(s string) string {
	runes := []rune(s)
	var result strings.Builder
	for i, r := range runes {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
