package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/questgen/internal/llm"
	"github.com/hireloop/questgen/internal/types"
)

func TestParseQuestionsDecodesRecords(t *testing.T) {
	payload := `[
		{"question_text": "Walk me through your largest migration.", "question_type": "Technical", "objective": "Gauge migration experience."},
		{"question_text": "How would you handle a policy conflict?", "question_type": "Policy/Compliance", "objective": "Test policy awareness.", "policy_reference": "Code of Conduct"}
	]`

	questions, err := ParseQuestions(payload)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "Walk me through your largest migration.", questions[0].QuestionText)
	assert.Equal(t, "Technical", questions[0].QuestionType)
	assert.Nil(t, questions[0].Metadata)

	assert.Equal(t, "Policy/Compliance", questions[1].QuestionType)
	assert.Equal(t, "Code of Conduct", questions[1].Metadata["policy_reference"])
}

func TestParseQuestionsRejectsInvalidJSON(t *testing.T) {
	_, err := ParseQuestions("this is not json")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.NewError(llm.ErrResponseParseFailed, ""))
	assert.Contains(t, err.Error(), "not valid JSON")
}

func TestParseQuestionsRejectsNonArray(t *testing.T) {
	_, err := ParseQuestions(`{"question_text": "only one"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a JSON array")
}

func TestParseQuestionsRejectsNonObjectElement(t *testing.T) {
	_, err := ParseQuestions(`["just a string"]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a JSON object")
}

func TestParseQuestionsAcceptsEmptyArray(t *testing.T) {
	questions, err := ParseQuestions("[]")
	require.NoError(t, err)
	assert.Empty(t, questions)
}
