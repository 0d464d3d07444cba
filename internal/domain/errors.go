package domain

import "errors"

var (
	// ErrDataLoad signals that the catalog could not be loaded. It
	// propagates out of Search — the engine never guesses a partial catalog.
	ErrDataLoad = errors.New("catalog data load failed")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	// Caught at the vector-search stage and converted into a keyword fallback.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding token budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrSessionNotFound signals a missing session snapshot.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidRequest signals a malformed API request.
	ErrInvalidRequest = errors.New("invalid request")
)
