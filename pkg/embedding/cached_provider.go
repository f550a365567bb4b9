package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Cache stores vectors by key. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Set(ctx context.Context, key string, vector []float32) error
}

// CachedProvider memoises vectors per model and text. Cache errors count as
// misses so a broken cache never fails an embedding call.
type CachedProvider struct {
	next  Provider
	cache Cache
}

func NewCachedProvider(next Provider, cache Cache) *CachedProvider {
	return &CachedProvider{next: next, cache: cache}
}

func (p *CachedProvider) Model() string {
	return p.next.Model()
}

func (p *CachedProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if v, ok, err := p.cache.Get(ctx, p.key(text)); err == nil && ok {
			vectors[i] = v
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	fresh, err := p.next.EmbedDocuments(ctx, missing)
	if err != nil {
		return nil, err
	}
	if err := checkCount(p.next.Model(), len(missing), len(fresh)); err != nil {
		return nil, err
	}

	for j, v := range fresh {
		vectors[missingIdx[j]] = v
		_ = p.cache.Set(ctx, p.key(missing[j]), v)
	}
	return vectors, nil
}

func (p *CachedProvider) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embedding:" + p.next.Model() + ":" + hex.EncodeToString(sum[:])
}
