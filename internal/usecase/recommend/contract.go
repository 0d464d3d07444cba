package recommend

import (
	"context"

	"github.com/hireloop/skillmatch/internal/domain"
)

// CatalogLoader loads the full assessment catalog snapshot.
type CatalogLoader interface {
	LoadAll(ctx context.Context) ([]domain.Assessment, error)
}

// Vectorizer produces the query embedding (cached) and batch embeddings
// for catalog texts (uncached, one provider call per batch).
type Vectorizer interface {
	QueryEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
