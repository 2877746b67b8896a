package providers

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hireloop/questgen/internal/llm"
	"github.com/hireloop/questgen/internal/types"
)

// MockCall records a single request made against the mock provider.
type MockCall struct {
	Request llm.CompletionRequest
}

// MockProvider implements llm.Provider for testing. It replays a fixed list
// of canned responses (or errors) in order and records every call. The last
// response is repeated once the list is exhausted.
type MockProvider struct {
	mu            sync.Mutex
	responses     []string
	errs          []error
	responseIndex int
	calls         []MockCall
}

// NewMockProvider creates a new mock provider with the given canned responses.
func NewMockProvider(responses []string) *MockProvider {
	return &MockProvider{
		responses: responses,
	}
}

// NewMockProviderWithErrors creates a mock whose i-th call returns errs[i]
// when non-nil, otherwise responses[i].
func NewMockProviderWithErrors(responses []string, errs []error) *MockProvider {
	return &MockProvider{
		responses: responses,
		errs:      errs,
	}
}

// Name returns the provider name.
func (p *MockProvider) Name() string {
	return "mock"
}

// Complete returns the next canned response or error.
func (p *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, MockCall{Request: req})

	idx := p.responseIndex
	p.responseIndex++

	if idx < len(p.errs) && p.errs[idx] != nil {
		return nil, p.errs[idx]
	}

	if len(p.responses) == 0 {
		return nil, types.NewError(llm.ErrCompletionFailed, "mock provider has no responses configured")
	}
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}

	return &llm.CompletionResponse{
		ID:      uuid.New().String(),
		Model:   req.Model,
		Message: llm.NewAssistantMessage(p.responses[idx]),
	}, nil
}

// Calls returns a copy of the recorded calls.
func (p *MockProvider) Calls() []MockCall {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]MockCall, len(p.calls))
	copy(out, p.calls)
	return out
}

// CallCount returns the number of completion calls made.
func (p *MockProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}
