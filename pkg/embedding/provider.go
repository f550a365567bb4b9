package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var ErrEmptyEmbedding = errors.New("embedding provider returned no vectors")

// Provider turns texts into dense vectors. One output per input, same order.
// Model names the embedding model so stored vectors can be tagged with it.
type Provider interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// EmbedQuery embeds a single text and returns its vector.
func EmbedQuery(ctx context.Context, p Provider, text string) ([]float32, error) {
	vectors, err := p.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, ErrEmptyEmbedding
	}
	return vectors[0], nil
}

func checkCount(provider string, want, got int) error {
	if want != got {
		return fmt.Errorf("%s embedding: expected %d vectors, got %d", provider, want, got)
	}
	return nil
}

// normalizeVector scales vec to unit length. A zero vector is returned as is.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
