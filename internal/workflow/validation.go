package workflow

import (
	"fmt"
	"strings"
)

// RecognizedQuestionTypes are the canonical labels the generation prompt asks
// for. Type matching is case-insensitive so "behavioral" and "Behavioral"
// count as the same type.
var RecognizedQuestionTypes = []string{
	"Behavioral",
	"Technical",
	"Situational",
	"Policy/Compliance",
	"Cultural Fit",
	"Gap Analysis",
	"Curveball",
}

// ValidationConfig carries the quality bounds the validator enforces.
type ValidationConfig struct {
	// MinQuestions is the hard floor; fewer questions fail validation.
	MinQuestions int
	// TargetQuestions is the desired count; counts between MinQuestions
	// and TargetQuestions pass with a warning.
	TargetQuestions int
	// MinTypeCoverage is the minimum number of distinct recognized
	// question types that must appear in the set.
	MinTypeCoverage int
	// MinTextLength and MaxTextLength bound each question's text.
	MinTextLength int
	MaxTextLength int
}

// ValidationResult is the validator's verdict over one question set.
// Violations cause the set to be rejected; Warnings are advisory only.
type ValidationResult struct {
	Valid        bool
	Count        int
	TypeCoverage int
	Violations   []string
	Warnings     []string
}

// Summary joins the violations into a single message suitable for the
// state's error field.
func (r ValidationResult) Summary() string {
	return strings.Join(r.Violations, "; ")
}

// Validator checks a generated question set against the configured quality
// bounds. Validate is a pure function of its input: it performs no IO, never
// mutates the questions, and returns the same verdict for the same set every
// time.
type Validator struct {
	cfg ValidationConfig
}

// defaultMinTypeCoverage guards against single-type question sets.
const defaultMinTypeCoverage = 2

// NewValidator creates a validator with the given bounds.
func NewValidator(cfg ValidationConfig) *Validator {
	if cfg.MinTypeCoverage <= 0 {
		cfg.MinTypeCoverage = defaultMinTypeCoverage
	}
	return &Validator{cfg: cfg}
}

// Validate inspects the question set and reports every violation found, not
// just the first one.
func (v *Validator) Validate(questions []Question) ValidationResult {
	result := ValidationResult{Count: len(questions)}

	if len(questions) < v.cfg.MinQuestions {
		result.Violations = append(result.Violations,
			fmt.Sprintf("expected at least %d questions, got %d", v.cfg.MinQuestions, len(questions)))
	} else if len(questions) < v.cfg.TargetQuestions {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("question count %d is below the target of %d", len(questions), v.cfg.TargetQuestions))
	}

	recognized := make(map[string]struct{}, len(RecognizedQuestionTypes))
	for _, t := range RecognizedQuestionTypes {
		recognized[strings.ToLower(t)] = struct{}{}
	}

	seenTypes := make(map[string]struct{})
	for i, q := range questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			result.Violations = append(result.Violations,
				fmt.Sprintf("question %d: missing question_text", i+1))
		} else {
			if n := len(q.QuestionText); n < v.cfg.MinTextLength {
				result.Violations = append(result.Violations,
					fmt.Sprintf("question %d: text length %d is below the minimum of %d", i+1, n, v.cfg.MinTextLength))
			} else if n > v.cfg.MaxTextLength {
				result.Violations = append(result.Violations,
					fmt.Sprintf("question %d: text length %d exceeds the maximum of %d", i+1, n, v.cfg.MaxTextLength))
			}
		}

		if strings.TrimSpace(q.QuestionType) == "" {
			result.Violations = append(result.Violations,
				fmt.Sprintf("question %d: missing question_type", i+1))
		} else {
			key := strings.ToLower(strings.TrimSpace(q.QuestionType))
			if _, ok := recognized[key]; ok {
				seenTypes[key] = struct{}{}
			} else {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("question %d: unrecognized question_type %q", i+1, q.QuestionType))
			}
		}

		if strings.TrimSpace(q.Objective) == "" {
			result.Violations = append(result.Violations,
				fmt.Sprintf("question %d: missing objective", i+1))
		}
	}

	result.TypeCoverage = len(seenTypes)
	if result.TypeCoverage < v.cfg.MinTypeCoverage {
		result.Violations = append(result.Violations,
			fmt.Sprintf("expected at least %d distinct question types, got %d", v.cfg.MinTypeCoverage, result.TypeCoverage))
	}

	result.Valid = len(result.Violations) == 0
	return result
}
