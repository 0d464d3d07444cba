package skillmatch

import (
	"context"

	"github.com/hireloop/skillmatch/internal/domain"
)

// Assessment is one skills-assessment product from the catalog.
type Assessment struct {
	ID              string
	Title           string
	Description     string
	URL             string
	RemoteSupport   bool
	AdaptiveSupport bool
	TestTypes       []string
	JobLevels       []string
	Languages       []string
	DurationMinutes int
	Downloads       int
	Embedding       []float32
}

// Embedder vectorizes text. Implement this to plug in a custom provider.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

func assessmentFromDomain(a domain.Assessment) Assessment {
	return Assessment{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		URL:             a.URL,
		RemoteSupport:   a.RemoteSupport,
		AdaptiveSupport: a.AdaptiveSupport,
		TestTypes:       a.TestTypes,
		JobLevels:       a.JobLevels,
		Languages:       a.Languages,
		DurationMinutes: a.DurationMinutes,
		Downloads:       a.Downloads,
		Embedding:       a.Embedding,
	}
}

func assessmentToDomain(a Assessment) domain.Assessment {
	return domain.Assessment{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		URL:             a.URL,
		RemoteSupport:   a.RemoteSupport,
		AdaptiveSupport: a.AdaptiveSupport,
		TestTypes:       a.TestTypes,
		JobLevels:       a.JobLevels,
		Languages:       a.Languages,
		DurationMinutes: a.DurationMinutes,
		Downloads:       a.Downloads,
		Embedding:       a.Embedding,
	}
}

func assessmentsFromDomain(items []domain.Assessment) []Assessment {
	out := make([]Assessment, len(items))
	for i, a := range items {
		out[i] = assessmentFromDomain(a)
	}
	return out
}
