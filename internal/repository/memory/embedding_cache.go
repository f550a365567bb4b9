package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// EmbeddingCache keeps query vectors in process memory.
type EmbeddingCache struct {
	cache *cache.Cache
}

func NewEmbeddingCache(ttl time.Duration) *EmbeddingCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &EmbeddingCache{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (c *EmbeddingCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	if x, found := c.cache.Get(key); found {
		return x.([]float32), true, nil
	}
	return nil, false, nil
}

func (c *EmbeddingCache) Set(_ context.Context, key string, vector []float32) error {
	c.cache.Set(key, vector, cache.DefaultExpiration)
	return nil
}

func (c *EmbeddingCache) ItemCount() int {
	return c.cache.ItemCount()
}
