package workflow

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/questgen/internal/llm/providers"
	"github.com/hireloop/questgen/internal/store"
)

type stubPolicies struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

func (s *stubPolicies) LoadPolicies(ctx context.Context, policyID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type panickingPolicies struct{}

func (panickingPolicies) LoadPolicies(ctx context.Context, policyID string) (string, error) {
	panic("policy store corrupted")
}

type stubStatuses struct {
	mu      sync.Mutex
	err     error
	updates []string
}

func (s *stubStatuses) UpdateCandidateStatus(ctx context.Context, candidateID int, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.updates = append(s.updates, status)
	return nil
}

func (s *stubStatuses) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.updates))
	copy(out, s.updates)
	return out
}

type stubWriter struct {
	mu     sync.Mutex
	err    error
	path   string
	writes int
	last   []Question
}

func (s *stubWriter) Write(ctx context.Context, jobID int, jobCategory string, candidateID int, questions []Question) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.last = questions
	if s.err != nil {
		return "", s.err
	}
	if s.path == "" {
		return fmt.Sprintf("storage/jobs/%d/questions_%d.csv", jobID, candidateID), nil
	}
	return s.path, nil
}

func testPipelineConfig() Config {
	return Config{
		MaxRetries:      2,
		TargetQuestions: 12,
		Model:           "mock-model",
		Temperature:     0.1,
		MaxTokens:       4000,
		LLMTimeout:      time.Minute,
		Validation:      testValidationConfig(),
	}
}

func testInput() Input {
	return Input{
		JobID:       7,
		CandidateID: 42,
		Job: map[string]any{
			"name":        "Backend Engineer",
			"category":    "Engineering",
			"description": "Design and operate Go services for the hiring platform.",
		},
		Candidate: map[string]any{
			"name":   "Jordan Reyes",
			"resume": "Six years building distributed systems in Go and Postgres.",
		},
	}
}

func questionsPayload(t *testing.T, count int, questionTypes ...string) string {
	t.Helper()
	questions := makeQuestions(count, questionTypes...)
	payload := "["
	for i, q := range questions {
		if i > 0 {
			payload += ","
		}
		payload += fmt.Sprintf(
			`{"question_text": %q, "question_type": %q, "objective": %q}`,
			q.QuestionText, q.QuestionType, q.Objective)
	}
	return payload + "]"
}

func TestPipelineSuccess(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		questionsPayload(t, 12, "Behavioral", "Technical", "Situational"),
	})
	policies := &stubPolicies{text: "**Policy: Code of Conduct**\nBe decent."}
	statuses := &stubStatuses{}
	writer := &stubWriter{}

	p := NewPipeline(testPipelineConfig(), provider, policies, statuses, writer)
	result := p.Execute(context.Background(), testInput())

	require.True(t, result.Success)
	assert.Equal(t, StatusQuestionsSaved, result.Status)
	assert.Equal(t, 12, result.QuestionsCount)
	assert.Equal(t, 0, result.RetryCount)
	assert.NotEmpty(t, result.QuestionsFilePath)
	assert.False(t, result.Internal())

	assert.Equal(t, 1, provider.CallCount())
	assert.Equal(t, 1, writer.writes)
	assert.Equal(t, []string{
		store.CandidateStatusGenerating,
		store.CandidateStatusGenerated,
	}, statuses.recorded())
}

func TestPipelinePromptIncludesPolicies(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		questionsPayload(t, 12, "Behavioral", "Technical"),
	})
	policies := &stubPolicies{text: "**Policy: Remote Work**\nCore hours are 10 to 4."}

	p := NewPipeline(testPipelineConfig(), provider, policies, &stubStatuses{}, &stubWriter{})
	result := p.Execute(context.Background(), testInput())
	require.True(t, result.Success)

	calls := provider.Calls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Request.Messages, 1)
	assert.Contains(t, calls[0].Request.Messages[0].Content, "Core hours are 10 to 4.")
	assert.Equal(t, "mock-model", calls[0].Request.Model)
}

func TestPipelineCodeFencedResponseIsAccepted(t *testing.T) {
	fenced := "```json\n" + questionsPayload(t, 12, "Behavioral", "Technical") + "\n```"
	provider := providers.NewMockProvider([]string{fenced})

	p := NewPipeline(testPipelineConfig(), provider, &stubPolicies{}, &stubStatuses{}, &stubWriter{})
	result := p.Execute(context.Background(), testInput())

	assert.True(t, result.Success)
	assert.Equal(t, 12, result.QuestionsCount)
}

func TestPipelineUnparseableResponsesExhaustRetries(t *testing.T) {
	// The mock repeats its last response, so every attempt returns prose.
	provider := providers.NewMockProvider([]string{"I could not produce questions, sorry."})
	statuses := &stubStatuses{}
	writer := &stubWriter{}

	p := NewPipeline(testPipelineConfig(), provider, &stubPolicies{}, statuses, writer)
	result := p.Execute(context.Background(), testInput())

	require.False(t, result.Success)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, 2, result.RetryCount)
	assert.Contains(t, result.ErrorMessage, "no valid JSON found")

	// Initial attempt plus two retries, each resuming at the LLM call.
	assert.Equal(t, 3, provider.CallCount())
	assert.Equal(t, 0, writer.writes)

	recorded := statuses.recorded()
	require.NotEmpty(t, recorded)
	assert.Equal(t, store.CandidateStatusError, recorded[len(recorded)-1])
}

func TestPipelineLargeRetryBudgetExhaustsThroughErrorHandler(t *testing.T) {
	// A large configured retry budget must play out in full and still end
	// at the error handler, not trip the internal step bound partway.
	provider := providers.NewMockProvider([]string{"I could not produce questions, sorry."})
	statuses := &stubStatuses{}
	writer := &stubWriter{}

	cfg := testPipelineConfig()
	cfg.MaxRetries = 40

	p := NewPipeline(cfg, provider, &stubPolicies{}, statuses, writer)
	result := p.Execute(context.Background(), testInput())

	require.False(t, result.Success)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, 40, result.RetryCount)
	assert.Contains(t, result.ErrorMessage, "no valid JSON found")

	// Initial attempt plus the whole retry budget, each resuming at the
	// LLM call.
	assert.Equal(t, 41, provider.CallCount())
	assert.Equal(t, 0, writer.writes)

	// The candidate must not be left parked in the in-progress status.
	recorded := statuses.recorded()
	require.NotEmpty(t, recorded)
	assert.Equal(t, store.CandidateStatusError, recorded[len(recorded)-1])
}

func TestPipelineValidationFailureRetriesFromBuildPrompt(t *testing.T) {
	// First attempt is under the minimum; the retry regenerates and gets a
	// passing set of 10 questions across two types.
	provider := providers.NewMockProvider([]string{
		questionsPayload(t, 5, "Technical"),
		questionsPayload(t, 10, "Behavioral", "Technical"),
	})
	policies := &stubPolicies{}
	writer := &stubWriter{}

	p := NewPipeline(testPipelineConfig(), provider, policies, &stubStatuses{}, writer)
	result := p.Execute(context.Background(), testInput())

	require.True(t, result.Success)
	assert.Equal(t, 10, result.QuestionsCount)
	assert.Equal(t, 1, result.RetryCount)

	// Quality retries rebuild the prompt but do not re-gather data.
	assert.Equal(t, 2, provider.CallCount())
	assert.Equal(t, 1, policies.calls)
	assert.Equal(t, 1, writer.writes)
}

func TestPipelineModelRetryKeepsPrompt(t *testing.T) {
	payload := questionsPayload(t, 12, "Behavioral", "Technical")
	provider := providers.NewMockProvider([]string{"not json", payload})
	policies := &stubPolicies{}

	p := NewPipeline(testPipelineConfig(), provider, policies, &stubStatuses{}, &stubWriter{})
	result := p.Execute(context.Background(), testInput())

	require.True(t, result.Success)
	assert.Equal(t, 1, result.RetryCount)

	// Both attempts must carry the identical prompt: the retry resumed at
	// the LLM call without rebuilding anything.
	calls := provider.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0].Request.Messages, calls[1].Request.Messages)
	assert.Equal(t, 1, policies.calls)
}

func TestPipelinePersistenceFailureIsNotRetried(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		questionsPayload(t, 12, "Behavioral", "Technical"),
	})
	statuses := &stubStatuses{}
	writer := &stubWriter{err: fmt.Errorf("disk full")}

	p := NewPipeline(testPipelineConfig(), provider, &stubPolicies{}, statuses, writer)
	result := p.Execute(context.Background(), testInput())

	require.False(t, result.Success)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, 0, result.RetryCount)
	assert.Contains(t, result.ErrorMessage, "disk full")
	assert.Equal(t, 1, provider.CallCount())
	assert.Equal(t, 1, writer.writes)
}

func TestPipelineMissingJobDataFailsWithoutModelCall(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		questionsPayload(t, 12, "Behavioral", "Technical"),
	})

	in := testInput()
	in.Job = nil

	p := NewPipeline(testPipelineConfig(), provider, &stubPolicies{}, &stubStatuses{}, &stubWriter{})
	result := p.Execute(context.Background(), in)

	require.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "job data is missing")
	assert.Equal(t, 0, provider.CallCount())
	// Input failures are retried by re-gathering, so the budget is spent.
	assert.Equal(t, 2, result.RetryCount)
}

func TestPipelineMissingResumeIsInputFailure(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		questionsPayload(t, 12, "Behavioral", "Technical"),
	})
	policies := &stubPolicies{}

	in := testInput()
	in.Candidate = map[string]any{"name": "Jordan Reyes"}

	p := NewPipeline(testPipelineConfig(), provider, policies, &stubStatuses{}, &stubWriter{})
	result := p.Execute(context.Background(), in)

	require.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "resume is missing")
	assert.Equal(t, 0, provider.CallCount())
	// Every retry re-gathers data before rebuilding the prompt.
	assert.Equal(t, 3, policies.calls)
}

func TestPipelinePolicyLoadFailureIsInputFailure(t *testing.T) {
	provider := providers.NewMockProvider([]string{
		questionsPayload(t, 12, "Behavioral", "Technical"),
	})
	policies := &stubPolicies{err: fmt.Errorf("store unreachable")}
	statuses := &stubStatuses{}

	p := NewPipeline(testPipelineConfig(), provider, policies, statuses, &stubWriter{})
	result := p.Execute(context.Background(), testInput())

	require.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "store unreachable")
	assert.Equal(t, 0, provider.CallCount())
	assert.Equal(t, 3, policies.calls)
}

func TestPipelineRecoversFromPanic(t *testing.T) {
	provider := providers.NewMockProvider(nil)

	p := NewPipeline(testPipelineConfig(), provider, panickingPolicies{}, &stubStatuses{}, &stubWriter{})
	result := p.Execute(context.Background(), testInput())

	require.False(t, result.Success)
	assert.True(t, result.Internal())
	assert.Equal(t, "internal workflow failure", result.ErrorMessage)
}

func TestPipelineZeroRetriesFailsImmediately(t *testing.T) {
	provider := providers.NewMockProvider([]string{"not json"})

	cfg := testPipelineConfig()
	cfg.MaxRetries = 0

	p := NewPipeline(cfg, provider, &stubPolicies{}, &stubStatuses{}, &stubWriter{})
	result := p.Execute(context.Background(), testInput())

	require.False(t, result.Success)
	assert.Equal(t, 0, result.RetryCount)
	assert.Equal(t, 1, provider.CallCount())
}
