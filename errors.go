package skillmatch

import "github.com/hireloop/skillmatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDataLoad               = domain.ErrDataLoad
	ErrSessionNotFound        = domain.ErrSessionNotFound
	ErrInvalidRequest         = domain.ErrInvalidRequest
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
