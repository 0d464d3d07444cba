// Package session keeps a per-session snapshot of the last query and its
// results for back/forward navigation continuity. Not a durable store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hireloop/skillmatch/internal/db"
	"github.com/hireloop/skillmatch/internal/domain"
)

var sessionKeyPrefix = domain.KeyPrefix + "session:"

// kv is the consumer interface for session persistence (ISP).
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Snapshot is the serialized last search of one session.
type Snapshot struct {
	Query   string              `json:"query"`
	Results []domain.Assessment `json:"results"`
	SavedAt time.Time           `json:"saved_at"`
}

// Store persists session snapshots in the key-value store with a TTL.
type Store struct {
	kv  kv
	ttl time.Duration
}

// New creates a session store. ttl bounds how long a snapshot outlives the
// session that wrote it.
func New(kv kv, ttl time.Duration) *Store {
	return &Store{kv: kv, ttl: ttl}
}

// Save overwrites the snapshot for a session.
func (s *Store) Save(ctx context.Context, sessionID string, snap Snapshot) error {
	snap.SavedAt = time.Now().UTC()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session snapshot: %w", err)
	}
	if err := s.kv.SetWithTTL(ctx, sessionKeyPrefix+sessionID, data, s.ttl); err != nil {
		return fmt.Errorf("store session snapshot: %w", err)
	}
	return nil
}

// Load returns the snapshot for a session, or domain.ErrSessionNotFound.
func (s *Store) Load(ctx context.Context, sessionID string) (Snapshot, error) {
	data, err := s.kv.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return Snapshot{}, domain.ErrSessionNotFound
		}
		return Snapshot{}, fmt.Errorf("load session snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode session snapshot: %w", err)
	}
	return snap, nil
}
