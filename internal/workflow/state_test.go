package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStateInitialFields(t *testing.T) {
	s := NewState(testInput(), 2)

	assert.False(t, s.InvocationID.IsZero())
	assert.Equal(t, StatusPending, s.Status)
	assert.Equal(t, FailureNone, s.FailureKind)
	assert.Equal(t, 0, s.RetryCount)
	assert.Equal(t, 2, s.MaxRetries)
	assert.Equal(t, 7, s.JobID)
	assert.Equal(t, 42, s.CandidateID)
}

func TestWithFailureDoesNotMutateReceiver(t *testing.T) {
	original := NewState(testInput(), 2)

	failed := original.withFailure(FailureModel, "model call failed")

	assert.Equal(t, StatusError, failed.Status)
	assert.Equal(t, FailureModel, failed.FailureKind)
	assert.Equal(t, "model call failed", failed.ErrorMessage)

	assert.Equal(t, StatusPending, original.Status)
	assert.Equal(t, FailureNone, original.FailureKind)
}

func TestRetriesExhausted(t *testing.T) {
	s := State{RetryCount: 1, MaxRetries: 2}
	assert.False(t, s.RetriesExhausted())

	s.RetryCount = 2
	assert.True(t, s.RetriesExhausted())
}

func TestResultFromTerminalStates(t *testing.T) {
	saved := State{
		Status:            StatusQuestionsSaved,
		Questions:         makeQuestions(12),
		QuestionsFilePath: "storage/jobs/7_engineering/questions.csv",
		RetryCount:        1,
	}
	result := saved.Result()
	assert.True(t, result.Success)
	assert.Equal(t, 12, result.QuestionsCount)
	assert.Equal(t, "storage/jobs/7_engineering/questions.csv", result.QuestionsFilePath)
	assert.Equal(t, 1, result.RetryCount)
	assert.Empty(t, result.ErrorMessage)

	failed := State{
		Status:       StatusFailed,
		ErrorMessage: "question generation failed",
		RetryCount:   2,
	}
	result = failed.Result()
	assert.False(t, result.Success)
	assert.Equal(t, "question generation failed", result.ErrorMessage)
	assert.Equal(t, 2, result.RetryCount)
	assert.Zero(t, result.QuestionsCount)
}
