package embedding

import (
	"context"
	"errors"
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

type mockStore struct {
	counters map[string]int64
}

func newMockStore() *mockStore {
	return &mockStore{counters: map[string]int64{}}
}

func (m *mockStore) IncrBy(_ context.Context, key string, val int64) error {
	m.counters[key] += val
	return nil
}

func (m *mockStore) Get(_ context.Context, key string) (int64, error) {
	return m.counters[key], nil
}

func TestMetered_RecordsUsage(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}, TotalTokens: 7}}
	store := newMockStore()
	m := NewMetered(inner, "test", 0, false, zap.NewNop()).WithStore(context.Background(), store)

	if _, err := m.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if _, err := m.Embed(context.Background(), "text"); err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if m.Used() != 14 {
		t.Errorf("Used() = %d, want 14", m.Used())
	}
	if len(store.counters) != 1 {
		t.Fatalf("counter keys = %d, want 1", len(store.counters))
	}
	for _, v := range store.counters {
		if v != 14 {
			t.Errorf("persisted = %d, want 14", v)
		}
	}
}

func TestMetered_RejectsOverLimit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}, TotalTokens: 10}}
	m := NewMetered(inner, "test", 10, true, zap.NewNop())

	if _, err := m.Embed(context.Background(), "first"); err != nil {
		t.Fatalf("first embed: %v", err)
	}
	_, err := m.Embed(context.Background(), "second")
	if !errors.Is(err, domain.ErrEmbeddingQuotaExceeded) {
		t.Errorf("err = %v, want ErrEmbeddingQuotaExceeded", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1 (second rejected before provider)", inner.calls)
	}
}

func TestMetered_WarnModeAllowsOverLimit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}, TotalTokens: 10}}
	m := NewMetered(inner, "test", 10, false, zap.NewNop())

	_, _ = m.Embed(context.Background(), "first")
	if _, err := m.Embed(context.Background(), "second"); err != nil {
		t.Errorf("warn mode rejected: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
}

func TestMetered_BatchFallbackWithoutNativeBatch(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}, TotalTokens: 3}}
	m := NewMetered(inner, "test", 0, false, zap.NewNop())

	res, err := m.BatchEmbed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Errorf("embeddings = %d, want 3", len(res.Embeddings))
	}
	if m.Used() != 9 {
		t.Errorf("Used() = %d, want 9", m.Used())
	}
}
