package skillmatch

import (
	"context"
	"fmt"
	"time"
)

// CatalogService manages assessment records.
type CatalogService struct {
	repo catalogAccess
	obs  *observer
}

// Upsert writes an assessment record. Returns true when it was created
// rather than updated.
func (s *CatalogService) Upsert(ctx context.Context, a Assessment) (created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog_upsert", start, err) }()

	created, err = s.repo.Save(ctx, assessmentToDomain(a))
	if err != nil {
		return false, fmt.Errorf("catalog upsert: %w", err)
	}
	return created, nil
}

// Delete removes an assessment record.
func (s *CatalogService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog_delete", start, err) }()

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("catalog delete: %w", err)
	}
	return nil
}

// List returns the full catalog.
func (s *CatalogService) List(ctx context.Context) (items []Assessment, err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog_list", start, err) }()

	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog list: %w", err)
	}
	return assessmentsFromDomain(records), nil
}

// Refresh drops the in-memory catalog snapshot; the next read refetches
// from the store.
func (s *CatalogService) Refresh() {
	s.repo.Reset()
}

// SessionService reads and writes per-session search snapshots.
type SessionService struct {
	store sessionAccess
	obs   *observer
}

// Session is a stored search snapshot.
type Session struct {
	Query   string
	Results []Assessment
	SavedAt time.Time
}

// Load returns the last search recorded for a session, or
// ErrSessionNotFound.
func (s *SessionService) Load(ctx context.Context, sessionID string) (sess Session, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session_load", start, err) }()

	snap, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Session{}, fmt.Errorf("session load: %w", err)
	}
	return Session{
		Query:   snap.Query,
		Results: assessmentsFromDomain(snap.Results),
		SavedAt: snap.SavedAt,
	}, nil
}
