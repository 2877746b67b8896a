package workflow

import (
	"encoding/json"

	"github.com/hireloop/questgen/internal/llm"
	"github.com/hireloop/questgen/internal/types"
)

// Question is one generated interview question. QuestionText, QuestionType
// and Objective are the required fields; anything else the model emits
// (policy references, difficulty hints) is preserved in Metadata.
type Question struct {
	QuestionText string
	QuestionType string
	Objective    string
	Metadata     map[string]any
}

// ParseQuestions decodes a JSON payload into question records. The payload
// must be a JSON array of objects; anything else is rejected with a
// non-retryable parse error that names the actual shape encountered.
func ParseQuestions(payload string) ([]Question, error) {
	var top any
	if err := json.Unmarshal([]byte(payload), &top); err != nil {
		return nil, types.NewError(llm.ErrResponseParseFailed, "response is not valid JSON")
	}
	items, ok := top.([]any)
	if !ok {
		return nil, types.NewError(llm.ErrResponseParseFailed, "response is not a JSON array")
	}

	questions := make([]Question, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, types.NewError(llm.ErrResponseParseFailed, "array element is not a JSON object")
		}
		q := Question{}
		for key, value := range record {
			switch key {
			case "question_text":
				q.QuestionText, _ = value.(string)
			case "question_type":
				q.QuestionType, _ = value.(string)
			case "objective":
				q.Objective, _ = value.(string)
			default:
				if q.Metadata == nil {
					q.Metadata = make(map[string]any)
				}
				q.Metadata[key] = value
			}
		}
		questions = append(questions, q)
	}
	return questions, nil
}
