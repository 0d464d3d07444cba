package skillmatch

import (
	"context"
	"fmt"
	"time"

	"github.com/hireloop/skillmatch/internal/domain"
	sessionrepo "github.com/hireloop/skillmatch/internal/repository/session"
)

// SearchBuilder accumulates filters for one search call.
// Zero-value filters are "don't care"; the engine still extracts
// constraints it finds in the query text itself.
type SearchBuilder struct {
	client    *Client
	query     string
	sessionID string
	filters   domain.QueryFilters
}

// Search starts a search for a free-text query.
func (c *Client) Search(query string) *SearchBuilder {
	return &SearchBuilder{client: c, query: query}
}

// MaxDuration keeps only assessments at or under the given length.
func (b *SearchBuilder) MaxDuration(minutes int) *SearchBuilder {
	b.filters.MaxDurationMinutes = &minutes
	return b
}

// Remote requires (or forbids) remote proctoring support.
func (b *SearchBuilder) Remote(v bool) *SearchBuilder {
	b.filters.Remote = &v
	return b
}

// Adaptive requires (or forbids) adaptive testing support.
func (b *SearchBuilder) Adaptive(v bool) *SearchBuilder {
	b.filters.Adaptive = &v
	return b
}

// TestTypes keeps assessments matching any of the given type labels.
func (b *SearchBuilder) TestTypes(types ...string) *SearchBuilder {
	b.filters.TestTypes = types
	return b
}

// Skills boosts assessments covering the given skills. Skills influence
// ranking only and never exclude a candidate.
func (b *SearchBuilder) Skills(skills ...string) *SearchBuilder {
	b.filters.RequiredSkills = skills
	return b
}

// Session records the result under the given session ID for later
// retrieval via Sessions().Load.
func (b *SearchBuilder) Session(id string) *SearchBuilder {
	b.sessionID = id
	return b
}

// Do runs the search.
func (b *SearchBuilder) Do(ctx context.Context) (results []Assessment, err error) {
	start := time.Now()
	defer func() { b.client.obs.observe("search", start, err) }()

	items, err := b.client.searchSvc.Search(ctx, b.query, b.filters)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	if b.sessionID != "" {
		snap := sessionrepo.Snapshot{Query: b.query, Results: items}
		if serr := b.client.sessions.Save(ctx, b.sessionID, snap); serr != nil {
			b.client.obs.observe("session_save", start, serr)
		}
	}

	return assessmentsFromDomain(items), nil
}
