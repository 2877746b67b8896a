package providers

import (
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"github.com/hireloop/questgen/internal/llm"
)

// toSchemaMessages converts questgen messages to langchaingo MessageContent.
func toSchemaMessages(messages []llm.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))

	for _, msg := range messages {
		var role llms.ChatMessageType
		switch msg.Role {
		case llm.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case llm.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}

		result = append(result, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	return result
}

// buildCallOptions maps request tunables onto langchaingo call options.
func buildCallOptions(req llm.CompletionRequest) []llms.CallOption {
	var opts []llms.CallOption

	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	return opts
}

// fromLangchainResponse converts a langchaingo response to a questgen response.
func fromLangchainResponse(resp *llms.ContentResponse, model string) *llm.CompletionResponse {
	out := &llm.CompletionResponse{
		ID:    uuid.New().String(),
		Model: model,
	}
	if resp == nil || len(resp.Choices) == 0 {
		return out
	}

	choice := resp.Choices[0]
	out.Message = llm.NewAssistantMessage(choice.Content)

	if choice.GenerationInfo != nil {
		if v, ok := choice.GenerationInfo["PromptTokens"].(int); ok {
			out.Usage.PromptTokens = v
		}
		if v, ok := choice.GenerationInfo["CompletionTokens"].(int); ok {
			out.Usage.CompletionTokens = v
		}
		if v, ok := choice.GenerationInfo["TotalTokens"].(int); ok {
			out.Usage.TotalTokens = v
		}
	}

	return out
}
