// Package ranking scores assessment candidates against a query, by vector
// similarity with a dynamic threshold and by keyword overlap.
package ranking

import (
	"sort"

	"go.uber.org/zap"

	"github.com/hireloop/skillmatch/internal/domain"
	"github.com/hireloop/skillmatch/internal/textnorm"
)

// MaxResults caps every ranked result list.
const MaxResults = 10

// Dynamic threshold parameters: longer queries tolerate lower similarity.
const (
	thresholdBase    = 0.7
	thresholdFloor   = 0.4
	thresholdPerWord = 0.02
)

// Engine ranks assessment candidates.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a ranking engine.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// ScoreCandidates pairs each candidate with its cosine similarity to the
// query vector, preserving catalog order. Candidates without a valid
// vector score exactly 0.
func (e *Engine) ScoreCandidates(
	candidates []domain.Assessment, vectors [][]float32, queryVector []float32,
) []domain.ScoredAssessment {
	scored := make([]domain.ScoredAssessment, 0, len(candidates))
	for i, c := range candidates {
		var vec []float32
		if i < len(vectors) {
			vec = vectors[i]
		}
		score := 0.0
		if ValidEmbedding(vec) {
			score = CosineSimilarity(vec, queryVector)
		} else if vec != nil {
			e.logger.Warn("Invalid stored embedding, scoring as 0",
				zap.String("assessment_id", c.ID))
		}
		scored = append(scored, domain.ScoredAssessment{Assessment: c, Score: score})
	}
	return scored
}

// Threshold returns the minimum similarity for the given normalized query:
// max(0.4, 0.7 - 0.02 * wordCount).
func (e *Engine) Threshold(normalizedQuery string) float64 {
	t := thresholdBase - thresholdPerWord*float64(textnorm.WordCount(normalizedQuery))
	if t < thresholdFloor {
		return thresholdFloor
	}
	return t
}

// ApplyThreshold drops candidates scoring below the threshold.
func (e *Engine) ApplyThreshold(scored []domain.ScoredAssessment, threshold float64) []domain.ScoredAssessment {
	kept := scored[:0:0]
	for _, s := range scored {
		if s.Score >= threshold {
			kept = append(kept, s)
		}
	}
	return kept
}

// Rank sorts candidates by descending score, ties broken by original
// order, and truncates to MaxResults.
func (e *Engine) Rank(scored []domain.ScoredAssessment) []domain.Assessment {
	ordered := make([]domain.ScoredAssessment, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	if len(ordered) > MaxResults {
		ordered = ordered[:MaxResults]
	}
	out := make([]domain.Assessment, len(ordered))
	for i, s := range ordered {
		out[i] = s.Assessment
	}
	return out
}
