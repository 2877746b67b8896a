package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestgenError_Error(t *testing.T) {
	err := NewError(POLICY_NOT_FOUND, "no policy with id pol-7")
	assert.Equal(t, "[POLICY_NOT_FOUND] no policy with id pol-7", err.Error())

	wrapped := WrapError(STORE_QUERY_FAILED, "query candidates", errors.New("db locked"))
	assert.Equal(t, "[STORE_QUERY_FAILED] query candidates: db locked", wrapped.Error())
}

func TestQuestgenError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapError(QUESTIONS_WRITE_FAILED, "write csv", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestQuestgenError_IsMatchesByCode(t *testing.T) {
	a := NewError(CANDIDATE_NOT_FOUND, "candidate 3 missing")
	b := NewError(CANDIDATE_NOT_FOUND, "different message")
	c := NewError(JOB_NOT_FOUND, "job 3 missing")

	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
	assert.False(t, a.Is(fmt.Errorf("plain error")))
}

func TestNewRetryableError(t *testing.T) {
	err := NewRetryableError(WORKFLOW_INTERNAL_FAILURE, "transient")
	assert.True(t, err.Retryable)

	var qErr *QuestgenError
	require.ErrorAs(t, error(err), &qErr)
	assert.Equal(t, WORKFLOW_INTERNAL_FAILURE, qErr.Code)
}

func TestID_RoundTrip(t *testing.T) {
	id := NewID()
	require.False(t, id.IsZero())

	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseID_Invalid(t *testing.T) {
	_, err := ParseID("")
	assert.Error(t, err)

	_, err = ParseID("not-a-uuid")
	assert.Error(t, err)
}
