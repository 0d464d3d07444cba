// Package usage persists embedding token counters in the key-value store.
package usage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hireloop/skillmatch/internal/db"
	"github.com/hireloop/skillmatch/internal/domain"
)

var usageKeyPrefix = domain.KeyPrefix + "usage:"

// kv is the consumer interface for usage counters (ISP).
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Store implements embedding.UsageStore on top of the KV store
// (INCRBY + GET, keys expire after ttl).
type Store struct {
	kv  kv
	ttl time.Duration
}

// New creates a usage store. ttl should comfortably outlive one counting
// period (48h works for daily counters).
func New(kv kv, ttl time.Duration) *Store {
	return &Store{kv: kv, ttl: ttl}
}

// IncrBy atomically increments the counter and sets its TTL once.
func (s *Store) IncrBy(ctx context.Context, key string, val int64) error {
	fullKey := usageKeyPrefix + key
	if err := s.kv.IncrBy(ctx, fullKey, val); err != nil {
		return fmt.Errorf("usage INCRBY %s: %w", fullKey, err)
	}
	// NX keeps the original expiry across repeated increments.
	if err := s.kv.Expire(ctx, fullKey, s.ttl, true); err != nil {
		return fmt.Errorf("usage EXPIRE %s: %w", fullKey, err)
	}
	return nil
}

// Get returns the current counter value, 0 when the key does not exist.
func (s *Store) Get(ctx context.Context, key string) (int64, error) {
	data, err := s.kv.Get(ctx, usageKeyPrefix+key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("usage GET %s: %w", key, err)
	}

	val, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("usage parse %s: %w", key, err)
	}
	return val, nil
}
