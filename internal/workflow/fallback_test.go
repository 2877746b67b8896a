package workflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/questgen/internal/llm/providers"
	"github.com/hireloop/questgen/internal/store"
)

func TestFallbackGeneratesWithoutValidation(t *testing.T) {
	// Three questions would never pass the validator; the fallback path
	// accepts whatever parses.
	provider := providers.NewMockProvider([]string{
		questionsPayload(t, 3, "Technical"),
	})
	statuses := &stubStatuses{}
	writer := &stubWriter{}

	f := NewFallback(testPipelineConfig(), provider, &stubPolicies{}, statuses, writer, nil)
	result := f.Generate(context.Background(), testInput())

	require.True(t, result.Success)
	assert.Equal(t, 3, result.QuestionsCount)
	assert.Equal(t, 1, provider.CallCount())
	assert.Equal(t, []string{store.CandidateStatusGenerated}, statuses.recorded())
}

func TestFallbackProceedsWithoutPolicies(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		questionsPayload(t, 3, "Technical"),
	})
	policies := &stubPolicies{err: fmt.Errorf("store unreachable")}

	f := NewFallback(testPipelineConfig(), provider, policies, &stubStatuses{}, &stubWriter{}, nil)
	result := f.Generate(context.Background(), testInput())

	assert.True(t, result.Success)
	assert.Equal(t, 1, provider.CallCount())
}

func TestFallbackDoesNotRetry(t *testing.T) {
	provider := providers.NewMockProvider([]string{"still not json"})
	statuses := &stubStatuses{}

	f := NewFallback(testPipelineConfig(), provider, &stubPolicies{}, statuses, &stubWriter{}, nil)
	result := f.Generate(context.Background(), testInput())

	require.False(t, result.Success)
	assert.Equal(t, 1, provider.CallCount())
	assert.Equal(t, []string{store.CandidateStatusError}, statuses.recorded())
}
