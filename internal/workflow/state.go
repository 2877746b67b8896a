package workflow

import (
	"github.com/hireloop/questgen/internal/types"
)

// Status labels the pipeline's progress. Every node transitions the status
// forward or to StatusError; StatusQuestionsSaved and StatusFailed are
// terminal.
type Status string

const (
	StatusPending            Status = "pending"
	StatusDataGathered       Status = "data_gathered"
	StatusPromptBuilt        Status = "prompt_built"
	StatusLLMCalled          Status = "llm_called"
	StatusQuestionsParsed    Status = "questions_parsed"
	StatusQuestionsValidated Status = "questions_validated"
	StatusQuestionsSaved     Status = "questions_saved"
	StatusRetrying           Status = "retrying"
	StatusError              Status = "error"
	StatusFailed             Status = "failed"
)

// Input is the caller-supplied request for one generation invocation.
// Job and Candidate are opaque snapshots; the pipeline reads but never
// mutates them.
type Input struct {
	JobID       int
	CandidateID int
	PolicyID    string
	Job         map[string]any
	Candidate   map[string]any
}

// State is the record threaded through the pipeline. Nodes receive it by
// value and return a modified copy, so no two nodes ever alias the same
// mutable record. One State exists per invocation and is discarded when the
// invocation terminates.
type State struct {
	// Identity
	InvocationID types.ID
	JobID        int
	CandidateID  int
	PolicyID     string

	// Input snapshots, never mutated
	Job       map[string]any
	Candidate map[string]any

	// Derived fields, each populated by exactly one node
	Policies          string
	Prompt            string
	LLMResponse       string
	Questions         []Question
	Validation        *ValidationResult
	QuestionsFilePath string

	// Control fields
	Status       Status
	ErrorMessage string
	FailureKind  FailureKind
	RetryCount   int
	MaxRetries   int
	ShouldRetry  bool
}

// NewState creates the initial state for one invocation.
func NewState(in Input, maxRetries int) State {
	return State{
		InvocationID: types.NewID(),
		JobID:        in.JobID,
		CandidateID:  in.CandidateID,
		PolicyID:     in.PolicyID,
		Job:          in.Job,
		Candidate:    in.Candidate,
		Status:       StatusPending,
		MaxRetries:   maxRetries,
	}
}

// withFailure marks the state as failed with the given kind and message.
// Retry bookkeeping is left untouched; the routers decide what happens next.
func (s State) withFailure(kind FailureKind, message string) State {
	s.Status = StatusError
	s.FailureKind = kind
	s.ErrorMessage = message
	return s
}

// RetriesExhausted reports whether another retry attempt would exceed the
// configured maximum.
func (s State) RetriesExhausted() bool {
	return s.RetryCount >= s.MaxRetries
}

// Result collapses a terminal state into the invocation result record.
func (s State) Result() Result {
	if s.Status == StatusQuestionsSaved {
		return Result{
			Success:           true,
			Status:            s.Status,
			QuestionsCount:    len(s.Questions),
			QuestionsFilePath: s.QuestionsFilePath,
			RetryCount:        s.RetryCount,
		}
	}
	return Result{
		Success:      false,
		Status:       s.Status,
		ErrorMessage: s.ErrorMessage,
		RetryCount:   s.RetryCount,
	}
}
