package factory

import (
	"context"
	"fmt"

	"knowledge-rag-be/pkg/embedding"
	"knowledge-rag-be/pkg/embedding/jina"
)

type Options struct {
	Provider      string // "openai", "ollama", "gemini" or "jina"
	Model         string
	Dimension     int
	APIKey        string
	OpenAIBaseURL string
	OllamaBaseURL string
}

func NewEmbeddingProvider(ctx context.Context, opts Options) (embedding.Provider, error) {
	switch opts.Provider {
	case "", "openai":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires an API key")
		}
		return embedding.NewOpenAIProvider(opts.APIKey, opts.OpenAIBaseURL, opts.Model), nil
	case "ollama":
		baseURL := opts.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return embedding.NewOllamaProvider(baseURL, opts.Model), nil
	case "gemini":
		p, err := embedding.NewGeminiProvider(ctx, opts.APIKey, opts.Model, opts.Dimension)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "jina":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("jina embedding provider requires an API key")
		}
		return jina.NewProvider(opts.APIKey, opts.Model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", opts.Provider)
	}
}
