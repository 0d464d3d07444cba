package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hireloop/skillmatch/internal/db"
	"github.com/hireloop/skillmatch/internal/domain"
)

type mockKV struct {
	data    map[string][]byte
	lastTTL time.Duration
}

func newMockKV() *mockKV {
	return &mockKV{data: map[string][]byte{}}
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

func TestSaveAndLoad(t *testing.T) {
	kv := newMockKV()
	s := New(kv, time.Hour)

	snap := Snapshot{
		Query: "java developer",
		Results: []domain.Assessment{
			{ID: "a1", Title: "Java Backend Test", URL: "https://example.com/a1"},
		},
	}
	if err := s.Save(context.Background(), "sess-1", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if kv.lastTTL != time.Hour {
		t.Errorf("ttl = %v, want 1h", kv.lastTTL)
	}

	got, err := s.Load(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Query != "java developer" || len(got.Results) != 1 || got.Results[0].ID != "a1" {
		t.Errorf("loaded snapshot = %+v", got)
	}
	if got.SavedAt.IsZero() {
		t.Error("SavedAt not stamped")
	}
}

func TestLoad_Missing(t *testing.T) {
	s := New(newMockKV(), time.Hour)
	if _, err := s.Load(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}
