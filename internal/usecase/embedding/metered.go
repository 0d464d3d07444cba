// Package embedding decorates embedding providers with token metering.
package embedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/skillmatch/internal/domain"
)

// UsageStore persists daily token counters. Implementations must be
// idempotent (IncrBy can be called repeatedly).
type UsageStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// MeteredEmbedder wraps an embedder with a daily token budget. The hot
// path (the limit check) is in-memory only; counter persistence is
// write-behind so store latency never blocks a search.
type MeteredEmbedder struct {
	inner      domain.Embedder
	provider   string
	dailyLimit int64
	reject     bool
	store      UsageStore
	logger     *zap.Logger

	mu           sync.Mutex
	used         int64
	lastDayReset time.Time
}

// NewMetered creates a metered embedder. dailyLimit 0 means unlimited.
// When reject is false the limit only produces warnings.
func NewMetered(
	inner domain.Embedder, provider string,
	dailyLimit int64, reject bool, logger *zap.Logger,
) *MeteredEmbedder {
	return &MeteredEmbedder{
		inner:        inner,
		provider:     provider,
		dailyLimit:   dailyLimit,
		reject:       reject,
		logger:       logger,
		lastDayReset: truncateToDay(time.Now().UTC()),
	}
}

// WithStore attaches persistence and loads the current day's counter.
func (m *MeteredEmbedder) WithStore(ctx context.Context, store UsageStore) *MeteredEmbedder {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = store
	if val, err := store.Get(ctx, m.dayKey(time.Now().UTC())); err == nil {
		m.used = val
	} else {
		m.logger.Warn("Failed to load embedding usage from store", zap.Error(err))
	}
	return m
}

// Embed checks the budget, delegates, and records consumed tokens.
func (m *MeteredEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := m.check(); err != nil {
		return domain.EmbeddingResult{}, err
	}

	result, err := m.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("metered embed: %w", err)
	}

	m.record(int64(result.TotalTokens))
	return result, nil
}

// BatchEmbed checks the budget once for the whole batch.
func (m *MeteredEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if err := m.check(); err != nil {
		return domain.BatchEmbeddingResult{}, err
	}

	var result domain.BatchEmbeddingResult
	var err error
	if be, ok := m.inner.(domain.BatchEmbedder); ok {
		result, err = be.BatchEmbed(ctx, texts)
	} else {
		result, err = domain.BatchFallback(ctx, m.inner, texts)
	}
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("metered batch embed: %w", err)
	}

	m.record(int64(result.TotalTokens))
	return result, nil
}

// HealthCheck delegates to the inner embedder when it supports checks.
func (m *MeteredEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := m.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// Used returns today's token consumption.
func (m *MeteredEmbedder) Used() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetIfNeeded()
	return m.used
}

func (m *MeteredEmbedder) check() error {
	if m.dailyLimit <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetIfNeeded()

	if m.used < m.dailyLimit {
		return nil
	}
	if m.reject {
		return domain.ErrEmbeddingQuotaExceeded
	}
	m.logger.Warn("Daily embedding token budget exceeded",
		zap.String("provider", m.provider),
		zap.Int64("used", m.used),
		zap.Int64("limit", m.dailyLimit),
	)
	return nil
}

func (m *MeteredEmbedder) record(tokens int64) {
	if tokens <= 0 {
		return
	}

	m.mu.Lock()
	m.resetIfNeeded()
	m.used += tokens
	store := m.store
	key := m.dayKey(time.Now().UTC())
	m.mu.Unlock()

	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := store.IncrBy(ctx, key, tokens); err != nil {
		m.logger.Warn("Failed to persist embedding usage", zap.String("key", key), zap.Error(err))
	}
}

func (m *MeteredEmbedder) resetIfNeeded() {
	today := truncateToDay(time.Now().UTC())
	if today.After(m.lastDayReset) {
		m.used = 0
		m.lastDayReset = today
	}
}

func (m *MeteredEmbedder) dayKey(t time.Time) string {
	return fmt.Sprintf("%s:daily:%s", m.provider, t.Format("2006-01-02"))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
