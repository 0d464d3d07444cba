package embcache

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/hireloop/skillmatch/internal/domain"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

type batchMockEmbedder struct {
	mockEmbedder
	batchCalls int
}

func (m *batchMockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = m.result.Embedding
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings}, nil
}

func TestQueryEmbedding_CacheHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}}
	c := New(inner, NewMemoryStore(), nil, zap.NewNop())

	first, err := c.QueryEmbedding(context.Background(), "Python Developer")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := c.QueryEmbedding(context.Background(), "Python Developer")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (second served from cache)", inner.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached vector differs: %v vs %v", first, second)
	}
}

func TestQueryEmbedding_KeyNormalization(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	c := New(inner, NewMemoryStore(), nil, zap.NewNop())

	_, _ = c.QueryEmbedding(context.Background(), "  Java Developer ")
	_, _ = c.QueryEmbedding(context.Background(), "java developer")

	if inner.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (keys normalize to the same entry)", inner.calls)
	}
}

func TestQueryEmbedding_ProviderError(t *testing.T) {
	provErr := errors.New("upstream down")
	inner := &mockEmbedder{err: provErr}
	c := New(inner, NewMemoryStore(), nil, zap.NewNop())

	if _, err := c.QueryEmbedding(context.Background(), "query"); !errors.Is(err, provErr) {
		t.Errorf("err = %v, want wrapped provider error", err)
	}
	if inner.calls != 1 {
		t.Errorf("provider calls = %d, want 1 (no internal retry)", inner.calls)
	}
}

func TestClearCache(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	store := NewMemoryStore()
	c := New(inner, store, nil, zap.NewNop())

	_, _ = c.QueryEmbedding(context.Background(), "query")
	if store.Len() != 1 {
		t.Fatalf("cache entries = %d, want 1", store.Len())
	}

	c.ClearCache()
	if store.Len() != 0 {
		t.Errorf("cache entries after clear = %d, want 0", store.Len())
	}

	_, _ = c.QueryEmbedding(context.Background(), "query")
	if inner.calls != 2 {
		t.Errorf("provider calls = %d, want 2 after clear", inner.calls)
	}
}

func TestBatchEmbed_NativeBatch(t *testing.T) {
	inner := &batchMockEmbedder{
		mockEmbedder: mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.5}}},
	}
	c := New(inner, NewMemoryStore(), nil, zap.NewNop())

	res, err := c.BatchEmbed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Errorf("embeddings = %d, want 3", len(res.Embeddings))
	}
	if inner.batchCalls != 1 {
		t.Errorf("batch calls = %d, want 1 (one provider call per batch)", inner.batchCalls)
	}
	if inner.calls != 0 {
		t.Errorf("single-embed calls = %d, want 0", inner.calls)
	}
}

func TestBatchEmbed_FallbackWithoutNativeBatch(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.5}}}
	c := New(inner, NewMemoryStore(), nil, zap.NewNop())

	res, err := c.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}
	if len(res.Embeddings) != 2 {
		t.Errorf("embeddings = %d, want 2", len(res.Embeddings))
	}
	if inner.calls != 2 {
		t.Errorf("single-embed calls = %d, want 2", inner.calls)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.75}
	got, err := bytesToVector(vectorToCacheBytes(vec))
	if err != nil {
		t.Fatalf("bytesToVector: %v", err)
	}
	if !reflect.DeepEqual(got, vec) {
		t.Errorf("round trip = %v, want %v", got, vec)
	}

	if _, err := bytesToVector([]byte{1, 2, 3}); err == nil {
		t.Error("misaligned bytes accepted")
	}
}
