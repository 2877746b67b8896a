package llm

import "fmt"

// Role identifies the author of a message in a completion request.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single message in a completion conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// CompletionRequest describes a single completion call to a provider.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Validate checks if the completion request is valid.
func (r CompletionRequest) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("at least one message is required")
	}
	if r.Temperature < 0 || r.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", r.Temperature)
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative, got %d", r.MaxTokens)
	}
	return nil
}

// TokenUsage contains token accounting for a completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the provider-agnostic result of a completion call.
type CompletionResponse struct {
	// ID is a unique identifier for this completion.
	ID string `json:"id"`

	// Model is the model that generated this response.
	Model string `json:"model"`

	// Message is the assistant's response message.
	Message Message `json:"message"`

	// Usage contains token usage statistics where the provider reports them.
	Usage TokenUsage `json:"usage"`
}

// Content returns the textual payload of the assistant message.
func (r *CompletionResponse) Content() string {
	if r == nil {
		return ""
	}
	return r.Message.Content
}
