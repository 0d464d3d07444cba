package embcache

import (
	"context"
	"sync"

	"github.com/hireloop/skillmatch/internal/db"
)

// MemoryStore is a process-local, session-scoped cache backend. Entries
// are add-only; last writer for a key wins, which is harmless because the
// same key always maps to the same recomputed vector.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Get returns the cached value or db.ErrKeyNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.entries[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return data, nil
}

// Set stores a value.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Clear drops every entry.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string][]byte)
}

// Len reports the number of cached entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
