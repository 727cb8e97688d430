package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.GenerationHost)
	assert.NotEmpty(t, cfg.EmbeddingModel)
	assert.NotEmpty(t, cfg.GenerationModel)
	assert.Equal(t, "none", cfg.Token)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("options override defaults", func(t *testing.T) {
		cfg := NewConfig(
			WithHost("http://llm.internal:9100"),
			WithEmbeddingModel("text-embedding-3-small"),
			WithGenerationModel("gpt-4o-mini"),
			WithToken("sk-test"),
		)
		assert.Equal(t, "http://llm.internal:9100", cfg.EmbeddingHost)
		assert.Equal(t, "http://llm.internal:9100", cfg.GenerationHost)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "gpt-4o-mini", cfg.GenerationModel)
		assert.Equal(t, "sk-test", cfg.Token)
	})

	t.Run("split hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed.internal"),
			WithGenerationHost("http://gen.internal"),
		)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://embed.internal/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://gen.internal/v1", cfg.GenerationHost)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"keeps existing v1", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
			assert.Equal(t, tt.want, cfg.GenerationHost)
		})
	}

	t.Run("empty token falls back to none", func(t *testing.T) {
		cfg := NewConfig(WithToken(""))
		cfg.Normalize()
		assert.Equal(t, "none", cfg.Token)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"missing generation host", func(c *Config) { c.GenerationHost = "" }},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"missing generation model", func(c *Config) { c.GenerationModel = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
