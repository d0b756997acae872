package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"veginReco/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingCache wraps an Embedder with a Redis read-through cache. Redis
// failures degrade to a direct call.
type EmbeddingCache struct {
	client *redis.Client
	next   Embedder
	model  string
	ttl    time.Duration
}

func NewEmbeddingCache(client *redis.Client, next Embedder, model string, ttl time.Duration) *EmbeddingCache {
	return &EmbeddingCache{
		client: client,
		next:   next,
		model:  model,
		ttl:    ttl,
	}
}

// key format: "embedding:{model}:{sha256(text)}"
func embeddingKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("embedding:%s:%s", model, hex.EncodeToString(sum[:]))
}

func (c *EmbeddingCache) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	key := embeddingKey(c.model, text)

	if vec, ok := c.get(ctx, key); ok {
		return vec, nil
	}

	vec, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, vec)
	return vec, nil
}

func (c *EmbeddingCache) get(ctx context.Context, key string) ([]float32, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("embedding cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal(val, &vec); err != nil || len(vec) == 0 {
		logger.Warn("embedding cache entry unreadable", "key", key)
		return nil, false
	}
	return vec, true
}

func (c *EmbeddingCache) set(ctx context.Context, key string, vec []float32) {
	raw, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warn("embedding cache write failed", "key", key, "error", err)
	}
}
