package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahtein/internal/infra/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mock", cfg.LLMProvider)
	assert.Equal(t, 10, cfg.RetrievalTopK)
	assert.Equal(t, 3, cfg.RerankTopK)
	assert.InDelta(t, 0.3, cfg.MinSimilarityThreshold, 1e-9)
	assert.Equal(t, 150, cfg.MaxResponseWords)
	assert.Equal(t, 500, cfg.MaxResponseWordsRecipe)
	assert.Equal(t, 3, cfg.MaxEmojis)
	assert.Equal(t, "https://www.lorientlejour.com", cfg.AllowedURLDomain)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("RETRIEVAL_TOP_K", "25")
	t.Setenv("MIN_SIMILARITY_THRESHOLD", "0.5")

	cfg := config.Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 25, cfg.RetrievalTopK)
	assert.InDelta(t, 0.5, cfg.MinSimilarityThreshold, 1e-9)
}

func TestLoadIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "beaucoup")

	cfg := config.Load()

	assert.Equal(t, 10, cfg.RetrievalTopK)
}

func TestValidate(t *testing.T) {
	valid := config.Load()
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown provider", func(c *config.Config) { c.LLMProvider = "bard" }},
		{"zero top-k", func(c *config.Config) { c.RetrievalTopK = 0 }},
		{"negative rerank top-k", func(c *config.Config) { c.RerankTopK = -1 }},
		{"similarity above one", func(c *config.Config) { c.MinSimilarityThreshold = 1.5 }},
		{"negative emoji cap", func(c *config.Config) { c.MaxEmojis = -1 }},
		{"empty domain", func(c *config.Config) { c.AllowedURLDomain = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Load()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSecretFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("sk-test-123\n"), 0o600))

	t.Setenv("OPENAI_API_KEY_FILE", path)

	cfg := config.Load()
	assert.Equal(t, "sk-test-123", cfg.OpenAIAPIKey)
}
