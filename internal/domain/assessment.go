package domain

import "strings"

// KeyPrefix namespaces every key the service writes to the store.
const KeyPrefix = "skillmatch:"

// DefaultDurationMinutes is assumed for catalog rows without a duration field.
const DefaultDurationMinutes = 45

// Assessment is one purchasable skills-assessment product from the catalog.
// Records are loaded once per session and never mutated afterwards.
type Assessment struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	RemoteSupport   bool      `json:"remote_support"`
	AdaptiveSupport bool      `json:"adaptive_support"`
	TestTypes       []string  `json:"test_types"`
	JobLevels       []string  `json:"job_levels"`
	Languages       []string  `json:"languages"`
	DurationMinutes int       `json:"duration_minutes"`
	Downloads       int       `json:"downloads"`
	Embedding       []float32 `json:"embedding,omitempty"`
}

// SearchText builds the lowercased haystack used by keyword scoring:
// title, description, test types, and job levels.
func (a *Assessment) SearchText() string {
	parts := make([]string, 0, 4)
	parts = append(parts, a.Title, a.Description)
	parts = append(parts, a.TestTypes...)
	parts = append(parts, a.JobLevels...)
	return strings.ToLower(strings.Join(parts, " "))
}

// HasTechnicalType reports whether any test type mentions a technical,
// coding, or skills category.
func (a *Assessment) HasTechnicalType() bool {
	for _, t := range a.TestTypes {
		lt := strings.ToLower(t)
		if strings.Contains(lt, "technical") ||
			strings.Contains(lt, "coding") ||
			strings.Contains(lt, "skill") {
			return true
		}
	}
	return false
}

// ScoredAssessment pairs a record with a relevance score for one ranking
// pass. Cosine scores live in [-1, 1], keyword scores are additive.
type ScoredAssessment struct {
	Assessment Assessment
	Score      float64
}
