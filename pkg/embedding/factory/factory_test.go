package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantModel string
		wantErr   bool
	}{
		{"openai default model", Options{Provider: "openai", APIKey: "k"}, "text-embedding-3-small", false},
		{"empty provider means openai", Options{APIKey: "k", Model: "text-embedding-3-large"}, "text-embedding-3-large", false},
		{"openai without key", Options{Provider: "openai"}, "", true},
		{"ollama", Options{Provider: "ollama", Model: "nomic-embed-text"}, "nomic-embed-text", false},
		{"jina without key", Options{Provider: "jina"}, "", true},
		{"unknown", Options{Provider: "cohere", APIKey: "k"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewEmbeddingProvider(context.Background(), tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, p.Model())
		})
	}
}
