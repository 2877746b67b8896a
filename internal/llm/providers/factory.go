package providers

import (
	"fmt"

	"github.com/hireloop/questgen/internal/llm"
	"github.com/hireloop/questgen/internal/types"
)

// NewProvider constructs the provider named by cfg.Provider.
func NewProvider(cfg llm.ProviderConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "anthropic":
		return NewAnthropicProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	case "mock":
		return NewMockProvider(nil), nil
	default:
		return nil, types.NewError(llm.ErrProviderNotFound,
			fmt.Sprintf("unknown provider %q", cfg.Provider))
	}
}
