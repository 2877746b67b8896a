package llm

// ProviderConfig carries the settings needed to construct a provider.
type ProviderConfig struct {
	// Provider selects the backend implementation.
	Provider string

	// DefaultModel is used when a request does not name a model.
	DefaultModel string

	// APIKey authenticates against hosted providers. Falls back to the
	// provider's conventional environment variable when empty.
	APIKey string

	// BaseURL overrides the provider endpoint. For the openai provider this
	// enables OpenAI-compatible services such as Groq.
	BaseURL string
}
