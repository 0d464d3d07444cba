// Package catalog loads assessment records from the row-store and keeps a
// session-scoped in-memory snapshot.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hireloop/skillmatch/internal/domain"
)

var rowKeyPrefix = domain.KeyPrefix + "assessment:"

// store is the consumer interface for catalog access (ISP).
type store interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo maps raw catalog rows into assessment records. The catalog is
// fetched once and cached for the session; Reset forces a reload.
type Repo struct {
	store  store
	logger *zap.Logger

	mu       sync.Mutex
	snapshot []domain.Assessment
	loaded   bool
}

// New creates a catalog repository.
func New(s store, logger *zap.Logger) *Repo {
	return &Repo{store: s, logger: logger}
}

// LoadAll returns the full catalog snapshot, fetching it from the store on
// first use. Rows missing a title or a link are discarded. A fetch failure
// or a catalog with no usable rows is a data-load error.
func (r *Repo) LoadAll(ctx context.Context) ([]domain.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return r.snapshot, nil
	}

	keys, err := r.store.Scan(ctx, rowKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("%w: scan rows: %w", domain.ErrDataLoad, err)
	}
	// SCAN order is unspecified; sort for a stable catalog order.
	sort.Strings(keys)

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch rows: %w", domain.ErrDataLoad, err)
	}

	items := make([]domain.Assessment, 0, len(rows))
	for i, row := range rows {
		a, ok := mapRow(strings.TrimPrefix(keys[i], rowKeyPrefix), row)
		if !ok {
			r.logger.Warn("Discarding catalog row without title or url",
				zap.String("key", keys[i]))
			continue
		}
		items = append(items, a)
	}

	if len(rows) > 0 && len(items) == 0 {
		return nil, fmt.Errorf("%w: no usable rows in %d fetched", domain.ErrDataLoad, len(rows))
	}

	r.snapshot = items
	r.loaded = true
	r.logger.Info("Catalog loaded", zap.Int("records", len(items)))
	return r.snapshot, nil
}

// Save writes one assessment row and invalidates the snapshot. Returns
// true when the row did not exist before.
func (r *Repo) Save(ctx context.Context, a domain.Assessment) (bool, error) {
	if strings.TrimSpace(a.ID) == "" || strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.URL) == "" {
		return false, fmt.Errorf("%w: assessment id, title and url are required", domain.ErrInvalidRequest)
	}

	key := rowKeyPrefix + a.ID
	existed, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check row: %w", err)
	}

	if err := r.store.HSet(ctx, key, rowFields(a)); err != nil {
		return false, fmt.Errorf("write row: %w", err)
	}

	r.Reset()
	return !existed, nil
}

// Delete removes one assessment row and invalidates the snapshot.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, rowKeyPrefix+id); err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	r.Reset()
	return nil
}

// Reset drops the cached snapshot; the next LoadAll refetches.
func (r *Repo) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = nil
	r.loaded = false
}

// rowFields serializes an assessment into the hash row format mapRow
// reads back. List and vector fields are stored as JSON.
func rowFields(a domain.Assessment) map[string]string {
	fields := map[string]string{
		"title":            a.Title,
		"description":      a.Description,
		"url":              a.URL,
		"remote_support":   strconv.FormatBool(a.RemoteSupport),
		"adaptive_support": strconv.FormatBool(a.AdaptiveSupport),
		"duration_minutes": strconv.Itoa(a.DurationMinutes),
		"downloads":        strconv.Itoa(a.Downloads),
	}
	for name, list := range map[string][]string{
		"test_types": a.TestTypes,
		"job_levels": a.JobLevels,
		"languages":  a.Languages,
	} {
		if len(list) == 0 {
			continue
		}
		if data, err := json.Marshal(list); err == nil {
			fields[name] = string(data)
		}
	}
	if len(a.Embedding) > 0 {
		if data, err := json.Marshal(a.Embedding); err == nil {
			fields["embedding"] = string(data)
		}
	}
	return fields
}

// mapRow converts one raw hash row into an assessment record. Numeric
// fields fall back to defaults rather than failing the row.
func mapRow(id string, row map[string]string) (domain.Assessment, bool) {
	title := strings.TrimSpace(row["title"])
	url := strings.TrimSpace(row["url"])
	if title == "" || url == "" {
		return domain.Assessment{}, false
	}

	a := domain.Assessment{
		ID:              id,
		Title:           title,
		Description:     row["description"],
		URL:             url,
		RemoteSupport:   parseBool(row["remote_support"]),
		AdaptiveSupport: parseBool(row["adaptive_support"]),
		TestTypes:       parseList(row["test_types"]),
		JobLevels:       parseList(row["job_levels"]),
		Languages:       parseList(row["languages"]),
		DurationMinutes: parseIntDefault(row["duration_minutes"], domain.DefaultDurationMinutes),
		Downloads:       parseIntDefault(row["downloads"], 0),
		Embedding:       parseVector(row["embedding"]),
	}
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = domain.DefaultDurationMinutes
	}
	if a.Downloads < 0 {
		a.Downloads = 0
	}
	return a, true
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func parseIntDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// parseList accepts a JSON string array or a comma-separated list.
func parseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var out []string
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return out
		}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseVector reads a JSON float array. Malformed vectors are dropped —
// the record then scores 0 on similarity instead of erroring.
func parseVector(s string) []float32 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var vec []float32
	if err := json.Unmarshal([]byte(s), &vec); err != nil {
		return nil
	}
	return vec
}
