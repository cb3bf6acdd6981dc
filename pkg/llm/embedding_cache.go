package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/docvault/pkg/utils/json"
)

// CachedEmbeddingProvider stores embeddings in Redis keyed by a hash of
// the model and text. Redis failures degrade to calling the provider.
type CachedEmbeddingProvider struct {
	provider EmbeddingProvider
	redis    goredis.Cmdable
	ttl      time.Duration
	prefix   string
}

var _ EmbeddingProvider = (*CachedEmbeddingProvider)(nil)

// NewCachedEmbeddingProvider wraps provider. model scopes the keys so a
// model change never serves vectors of another dimension.
func NewCachedEmbeddingProvider(provider EmbeddingProvider, redis goredis.Cmdable, model string, ttl time.Duration) *CachedEmbeddingProvider {
	return &CachedEmbeddingProvider{
		provider: provider,
		redis:    redis,
		ttl:      ttl,
		prefix:   "docvault:emb:" + provider.Name() + ":" + model + ":",
	}
}

func (c *CachedEmbeddingProvider) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *CachedEmbeddingProvider) get(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			logger.Warnw("embedding cache read failed", "error", err.Error())
		}
		return nil, false
	}

	var embedding []float32
	if err := json.Unmarshal(data, &embedding); err != nil {
		logger.Warnw("dropping corrupt cached embedding", "key", key, "error", err.Error())
		_ = c.redis.Del(ctx, key).Err()
		return nil, false
	}
	return embedding, true
}

func (c *CachedEmbeddingProvider) set(ctx context.Context, key string, embedding []float32) {
	data, err := json.Marshal(embedding)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warnw("embedding cache write failed", "error", err.Error())
	}
}

// EmbedSingle returns the cached embedding or computes and stores it.
func (c *CachedEmbeddingProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)
	if e, ok := c.get(ctx, key); ok {
		logger.Debugw("embedding cache hit", "key", key)
		return e, nil
	}

	embedding, err := c.provider.EmbedSingle(ctx, text)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, embedding)
	return embedding, nil
}

// Embed serves cached texts from Redis and sends only the misses to the
// provider, in one call.
func (c *CachedEmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		if e, ok := c.get(ctx, c.key(text)); ok {
			embeddings[i] = e
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}
	if len(missTexts) == 0 {
		return embeddings, nil
	}

	computed, err := c.provider.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for i, idx := range missIdx {
		embeddings[idx] = computed[i]
		c.set(ctx, c.key(missTexts[i]), computed[i])
	}
	logger.Debugw("embedding cache batch", "total", len(texts), "misses", len(missTexts))
	return embeddings, nil
}

// Name returns the wrapped provider name.
func (c *CachedEmbeddingProvider) Name() string {
	return c.provider.Name() + "-cached"
}
