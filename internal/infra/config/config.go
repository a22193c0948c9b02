package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all recognized settings, populated from environment variables.
type Config struct {
	Env  string
	Port string

	// Data paths
	ArticlesPath       string
	RecipesPath        string
	GoldenExamplesPath string

	// LLM
	LLMProvider     string
	LLMModel        string
	LLMTemperature  float64
	LLMMaxTokens    int
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Retrieval
	RetrievalTopK          int
	RerankTopK             int
	MinSimilarityThreshold float64

	// Content guard
	MaxResponseWords       int
	MaxResponseWordsRecipe int
	MaxEmojis              int
	AllowedURLDomain       string

	// HTTP
	ChatRateLimit float64
}

// Load reads configuration from the environment, falling back to defaults.
func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		ArticlesPath:       getEnv("OLJ_ARTICLES_PATH", "data/olj_recette_liban_a_table.json"),
		RecipesPath:        getEnv("RECIPES_PATH", "data/data_base_2.json"),
		GoldenExamplesPath: getEnv("GOLDEN_EXAMPLES_PATH", "data/golden_data_base.json"),

		LLMProvider:     getEnv("LLM_PROVIDER", "mock"),
		LLMModel:        getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTemperature:  getEnvFloat("LLM_TEMPERATURE", 0.1),
		LLMMaxTokens:    getEnvInt("LLM_MAX_TOKENS", 500),
		OpenAIAPIKey:    getSecret("OPENAI_API_KEY", "OPENAI_API_KEY_FILE", ""),
		AnthropicAPIKey: getSecret("ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY_FILE", ""),

		RetrievalTopK:          getEnvInt("RETRIEVAL_TOP_K", 10),
		RerankTopK:             getEnvInt("RERANK_TOP_K", 3),
		MinSimilarityThreshold: getEnvFloat("MIN_SIMILARITY_THRESHOLD", 0.3),

		MaxResponseWords:       getEnvInt("MAX_RESPONSE_WORDS", 150),
		MaxResponseWordsRecipe: getEnvInt("MAX_RESPONSE_WORDS_RECIPE", 500),
		MaxEmojis:              getEnvInt("MAX_EMOJIS", 3),
		AllowedURLDomain:       getEnv("ALLOWED_URL_DOMAIN", "https://www.lorientlejour.com"),

		ChatRateLimit: getEnvFloat("CHAT_RATE_LIMIT", 5),
	}
}

// Validate checks that configured values are usable.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "mock", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLMProvider)
	}
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("retrieval top-k must be positive (got %d)", c.RetrievalTopK)
	}
	if c.RerankTopK <= 0 {
		return fmt.Errorf("rerank top-k must be positive (got %d)", c.RerankTopK)
	}
	if c.MinSimilarityThreshold < 0 || c.MinSimilarityThreshold > 1 {
		return fmt.Errorf("min similarity threshold must be in [0,1] (got %f)", c.MinSimilarityThreshold)
	}
	if c.MaxEmojis < 0 {
		return fmt.Errorf("max emojis must be >= 0 (got %d)", c.MaxEmojis)
	}
	if c.AllowedURLDomain == "" {
		return fmt.Errorf("allowed url domain must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
