// Package embcache memoizes query embeddings keyed by normalized query
// text, isolating the engine from the concrete embedding backend.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hireloop/skillmatch/internal/db"
	"github.com/hireloop/skillmatch/internal/domain"
	"github.com/hireloop/skillmatch/internal/textnorm"
)

var cacheKeyPrefix = domain.KeyPrefix + "emb_cache:"

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// clearer is implemented by stores that support a full cache reset.
type clearer interface {
	Clear()
}

// CachedEmbedder caches query embeddings in a key-value store. Batched
// embedding is an uncached passthrough — batch results are consumed
// directly by the ranking pass.
type CachedEmbedder struct {
	inner      domain.Embedder
	batch      domain.BatchEmbedder
	store      store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching adapter around an embedding provider.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Embedder,
	s store,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// QueryEmbedding returns the cached vector for a query, or normalizes the
// text, calls the provider once, and stores the result. The cache key is
// the trimmed, lowercased query. No internal retry: provider failures
// surface to the caller.
func (c *CachedEmbedder) QueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	key := c.cacheKey(query)

	if vec, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return vec, nil
	}

	c.incCache("miss")

	result, err := c.inner.Embed(ctx, textnorm.Normalize(query))
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	c.putToCache(ctx, key, result.Embedding)
	return result.Embedding, nil
}

// WithBatchSource routes catalog batches through a separate embedder.
// Query instructions prepended on the query chain must not leak into
// catalog texts.
func (c *CachedEmbedder) WithBatchSource(be domain.BatchEmbedder) *CachedEmbedder {
	c.batch = be
	return c
}

// BatchEmbed vectorizes catalog texts in one provider call, uncached.
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if c.batch != nil {
		res, err := c.batch.BatchEmbed(ctx, texts)
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		return res, nil
	}

	if be, ok := c.inner.(domain.BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		return res, nil
	}

	res, err := domain.BatchFallback(ctx, c.inner, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed fallback: %w", err)
	}
	return res, nil
}

// ClearCache resets the cache when the backing store supports it. Used for
// test isolation and forced refresh.
func (c *CachedEmbedder) ClearCache() {
	if cl, ok := c.store.(clearer); ok {
		cl.Clear()
	}
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the trimmed, lowercased query so one entry exists per
// distinct normalized key.
func (c *CachedEmbedder) cacheKey(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	h := sha256.Sum256([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedEmbedder) getFromCache(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vec, err := bytesToVector(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return vec, true
}

func (c *CachedEmbedder) putToCache(ctx context.Context, key string, vec []float32) {
	data := vectorToCacheBytes(vec)
	if err := c.store.Set(ctx, key, data); err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

func vectorToCacheBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding cache data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
