package llm

import "context"

// Provider defines the interface that all LLM backends implement. It is a
// unified abstraction over the hosted and local services used for question
// generation (OpenAI and compatible endpoints, Anthropic, Ollama).
type Provider interface {
	// Name returns the provider name (e.g., "openai", "anthropic", "ollama").
	Name() string

	// Complete sends a completion request and returns the full response.
	// This is a blocking call; callers dispatch it on their own goroutine
	// and bound it with the context deadline.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
