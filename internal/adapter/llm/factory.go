package llm

import (
	"fmt"

	"sahtein/internal/domain"
	"sahtein/internal/infra/config"
)

// New builds the client for the configured provider. The "mock" provider
// needs no credentials and is the default for development and tests.
func New(cfg *config.Config) (domain.LLMClient, error) {
	switch cfg.LLMProvider {
	case "mock":
		return NewMockClient(), nil
	case "openai":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.LLMModel, "")
	case "anthropic":
		return NewAnthropicClient(cfg.AnthropicAPIKey, cfg.LLMModel)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.LLMProvider)
	}
}
