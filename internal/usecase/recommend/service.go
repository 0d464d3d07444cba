// Package recommend sequences hard filtering, vector search, keyword
// search, and degraded fallbacks into one resilient search operation.
package recommend

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hireloop/skillmatch/internal/domain"
	"github.com/hireloop/skillmatch/internal/intent"
	"github.com/hireloop/skillmatch/internal/metrics"
	"github.com/hireloop/skillmatch/internal/textnorm"
	"github.com/hireloop/skillmatch/internal/usecase/ranking"
)

// relaxThreshold: below this many strictly-filtered candidates the
// specialized path relaxes to duration-only filtering, and the vector path
// supplements its results with keyword search.
const relaxThreshold = 3

// fallbackLimit caps the catalog-wide last-resort result list.
const fallbackLimit = 5

// Service is the filter and fallback orchestrator. Stateless per call:
// each Search works against its own catalog snapshot and freshly computed
// candidate embeddings.
type Service struct {
	catalog CatalogLoader
	embed   Vectorizer
	ranker  *ranking.Engine
	logger  *zap.Logger
}

// New creates the orchestrator.
func New(catalog CatalogLoader, embed Vectorizer, ranker *ranking.Engine, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, embed: embed, ranker: ranker, logger: logger}
}

// Search returns ranked assessments for a free-text query and optional
// explicit filters. An empty result list means "no match"; an error means
// the search itself failed (catalog unavailable). Embedding provider
// failures never escape — they degrade to keyword search.
func (s *Service) Search(
	ctx context.Context, query string, filters domain.QueryFilters,
) ([]domain.Assessment, error) {
	items, err := s.catalog.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(items) == 0 {
		return []domain.Assessment{}, nil
	}

	hints := intent.ExtractFilters(query)
	merged := filters.Merge(hints)
	filtered := applyFilters(items, merged)

	// Specialized queries (tech skill or explicit duration in the text)
	// prefer literal keyword matching over vector similarity.
	specialized := len(hints.RequiredSkills) > 0 || hints.MaxDurationMinutes != nil
	if specialized {
		if results := s.keywordPath(items, filtered, query, merged); len(results) > 0 {
			metrics.SearchStageTotal.WithLabelValues(metrics.StageKeyword, metrics.OutcomeHit).Inc()
			return results, nil
		}
		metrics.SearchStageTotal.WithLabelValues(metrics.StageKeyword, metrics.OutcomeMiss).Inc()
	}

	results := s.vectorPath(ctx, query, filtered, merged)

	if len(results) == 0 {
		results = s.catalogFallback(items, merged)
		outcome := metrics.OutcomeMiss
		if len(results) > 0 {
			outcome = metrics.OutcomeHit
		}
		metrics.SearchStageTotal.WithLabelValues(metrics.StageFallback, outcome).Inc()
	}
	return results, nil
}

// keywordPath runs keyword search against the strictly filtered set,
// relaxing to duration-only filtering when fewer than three candidates
// survive. When the duration bound itself excludes the whole catalog,
// keyword search runs catalog-wide and the duration-closeness bonus
// takes over as a preference instead of a cutoff.
func (s *Service) keywordPath(
	items, filtered []domain.Assessment, query string, merged domain.QueryFilters,
) []domain.Assessment {
	candidates := filtered
	if len(candidates) < relaxThreshold {
		candidates = applyFilters(items, merged.DurationOnly())
	}
	if len(candidates) == 0 {
		candidates = items
	}

	scored := ranking.KeywordSearch(candidates, query, merged.RequiredSkills, merged.MaxDurationMinutes)
	return s.ranker.Rank(scored)
}

// vectorPath embeds the query and the filtered candidates, applies the
// dynamic similarity threshold, and ranks the survivors. Provider failures
// and thin result sets degrade to keyword search over the same candidates.
func (s *Service) vectorPath(
	ctx context.Context, query string, filtered []domain.Assessment, merged domain.QueryFilters,
) []domain.Assessment {
	results, err := s.vectorSearch(ctx, query, filtered)
	if err != nil {
		s.logger.Warn("Vector search failed, falling back to keyword search", zap.Error(err))
		metrics.SearchStageTotal.WithLabelValues(metrics.StageVector, metrics.OutcomeError).Inc()
		scored := ranking.KeywordSearch(filtered, query, merged.RequiredSkills, merged.MaxDurationMinutes)
		return s.ranker.Rank(scored)
	}

	if len(results) < relaxThreshold {
		scored := ranking.KeywordSearch(filtered, query, merged.RequiredSkills, merged.MaxDurationMinutes)
		if kw := s.ranker.Rank(scored); len(kw) > len(results) {
			metrics.SearchStageTotal.WithLabelValues(metrics.StageKeyword, metrics.OutcomeHit).Inc()
			return kw
		}
	}

	metrics.SearchStageTotal.WithLabelValues(metrics.StageVector, metrics.OutcomeHit).Inc()
	return results
}

func (s *Service) vectorSearch(
	ctx context.Context, query string, candidates []domain.Assessment,
) ([]domain.Assessment, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	queryVec, err := s.embed.QueryEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	vectors, err := s.candidateVectors(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("candidate embeddings: %w", err)
	}

	scored := s.ranker.ScoreCandidates(candidates, vectors, queryVec)
	scored = s.ranker.ApplyThreshold(scored, s.ranker.Threshold(textnorm.Normalize(query)))
	return s.ranker.Rank(scored), nil
}

// candidateVectors returns one vector per candidate, index-aligned. Stored
// embeddings are used as-is; the rest are batch-embedded in a single
// provider call. Catalog records are never mutated.
func (s *Service) candidateVectors(
	ctx context.Context, candidates []domain.Assessment,
) ([][]float32, error) {
	vectors := make([][]float32, len(candidates))
	var missing []int
	var texts []string
	for i, c := range candidates {
		if ranking.ValidEmbedding(c.Embedding) {
			vectors[i] = c.Embedding
			continue
		}
		missing = append(missing, i)
		texts = append(texts, embeddingText(&c))
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	res, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
			domain.ErrEmbeddingProviderError, len(res.Embeddings), len(texts))
	}
	for j, i := range missing {
		vectors[i] = res.Embeddings[j]
	}
	return vectors, nil
}

// catalogFallback is the guaranteed last stage: up to five catalog-wide
// candidates respecting the extracted duration bound, preferring technical
// types when tech skills were detected.
func (s *Service) catalogFallback(items []domain.Assessment, merged domain.QueryFilters) []domain.Assessment {
	within := func(a domain.Assessment) bool {
		return merged.MaxDurationMinutes == nil || a.DurationMinutes <= *merged.MaxDurationMinutes
	}

	var out []domain.Assessment
	if len(merged.RequiredSkills) > 0 {
		for _, a := range items {
			if within(a) && a.HasTechnicalType() {
				out = append(out, a)
				if len(out) == fallbackLimit {
					return out
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	for _, a := range items {
		if within(a) {
			out = append(out, a)
			if len(out) == fallbackLimit {
				break
			}
		}
	}
	return out
}

func applyFilters(items []domain.Assessment, f domain.QueryFilters) []domain.Assessment {
	out := make([]domain.Assessment, 0, len(items))
	for _, a := range items {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// embeddingText builds the text embedded for a catalog record.
func embeddingText(a *domain.Assessment) string {
	return textnorm.Normalize(strings.TrimSpace(a.Title + ". " + a.Description))
}
