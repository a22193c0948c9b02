// Package llm provides the model clients behind the refinement hook: an
// OpenAI-compatible client, an Anthropic client, and a deterministic mock
// for tests and offline runs. Provider selection happens in New.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"sahtein/internal/domain"
)

// OpenAIClient talks to the OpenAI chat completion API, or any
// OpenAI-compatible endpoint when a base URL is set.
type OpenAIClient struct {
	model llms.Model
}

// NewOpenAIClient builds a client for the given model. baseURL may be empty.
func NewOpenAIClient(apiKey, model, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("llm: openai api key is required")
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	m, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("llm: create openai client: %w", err)
	}
	return &OpenAIClient{model: m}, nil
}

// ChatCompletion implements domain.LLMClient.
func (c *OpenAIClient) ChatCompletion(ctx context.Context, messages []domain.ChatMessage, format domain.ResponseFormat, opts domain.CompletionOptions) (string, error) {
	callOpts := buildCallOptions(opts)
	if format == domain.FormatJSON {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	resp, err := c.model.GenerateContent(ctx, toMessageContent(messages), callOpts...)
	if err != nil {
		return "", fmt.Errorf("llm: openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: openai returned no choices")
	}
	return resp.Choices[0].Content, nil
}

func toMessageContent(messages []domain.ChatMessage) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		role := llms.ChatMessageTypeHuman
		switch m.Role {
		case "system":
			role = llms.ChatMessageTypeSystem
		case "assistant":
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, m.Content))
	}
	return content
}

func buildCallOptions(opts domain.CompletionOptions) []llms.CallOption {
	var callOpts []llms.CallOption
	if opts.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}
	return callOpts
}
