package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"EMBEDDING_PROVIDER", "RAG_CANDIDATE_STRATEGY", "RAG_ENFORCE_EMBEDDING_MODEL",
		"EMBED_MAX_ATTEMPTS", "RAG_EMBEDDING_CACHE_TTL", "OTEL_ENABLED", "EMBED_REQUEUE_AFTER",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := FromEnv()

	assert.Equal(t, "openai", cfg.Ai.EmbeddingProvider)
	assert.Equal(t, "overfetch", cfg.Rag.CandidateStrategy)
	assert.Equal(t, 3, cfg.Rag.EmbedMaxAttempts)
	assert.False(t, cfg.Rag.EnforceEmbeddingModel)
	assert.Equal(t, time.Hour, cfg.Rag.EmbeddingCacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.Rag.EmbedRequeueAfter)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "ollama")
	t.Setenv("RAG_CANDIDATE_STRATEGY", "pgvector")
	t.Setenv("RAG_ENFORCE_EMBEDDING_MODEL", "true")
	t.Setenv("EMBED_MAX_ATTEMPTS", "5")
	t.Setenv("RAG_EMBEDDING_CACHE_TTL", "90s")
	t.Setenv("EMBED_REQUEUE_AFTER", "0s")
	t.Setenv("GO_ENV", "production")

	cfg := FromEnv()

	assert.Equal(t, "ollama", cfg.Ai.EmbeddingProvider)
	assert.Equal(t, "pgvector", cfg.Rag.CandidateStrategy)
	assert.True(t, cfg.Rag.EnforceEmbeddingModel)
	assert.Equal(t, 5, cfg.Rag.EmbedMaxAttempts)
	assert.Equal(t, 90*time.Second, cfg.Rag.EmbeddingCacheTTL)
	assert.Zero(t, cfg.Rag.EmbedRequeueAfter)
	assert.True(t, cfg.IsProduction())
}

func TestFromEnv_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("EMBED_MAX_ATTEMPTS", "many")
	t.Setenv("RAG_ENFORCE_EMBEDDING_MODEL", "maybe")

	cfg := FromEnv()

	assert.Equal(t, 3, cfg.Rag.EmbedMaxAttempts)
	assert.False(t, cfg.Rag.EnforceEmbeddingModel)
}
