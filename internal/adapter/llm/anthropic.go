package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms/anthropic"

	"sahtein/internal/domain"
)

// AnthropicClient talks to the Anthropic messages API.
type AnthropicClient struct {
	model *anthropic.LLM
}

// NewAnthropicClient builds a client for the given model.
func NewAnthropicClient(apiKey, model string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, errors.New("llm: anthropic api key is required")
	}

	m, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("llm: create anthropic client: %w", err)
	}
	return &AnthropicClient{model: m}, nil
}

// ChatCompletion implements domain.LLMClient. The messages API has no JSON
// response mode; JSON-format calls get an extra instruction appended to the
// system prompt instead.
func (c *AnthropicClient) ChatCompletion(ctx context.Context, messages []domain.ChatMessage, format domain.ResponseFormat, opts domain.CompletionOptions) (string, error) {
	if format == domain.FormatJSON {
		messages = append([]domain.ChatMessage{{
			Role:    "system",
			Content: "Réponds uniquement avec un objet JSON valide, sans texte autour.",
		}}, messages...)
	}

	resp, err := c.model.GenerateContent(ctx, toMessageContent(messages), buildCallOptions(opts)...)
	if err != nil {
		return "", fmt.Errorf("llm: anthropic completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: anthropic returned no choices")
	}
	return resp.Choices[0].Content, nil
}
