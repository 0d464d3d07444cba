// Package httpemb is an embedding provider for self-hosted vectorizer
// endpoints that speak plain JSON over HTTP.
package httpemb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/skillmatch/internal/domain"
	"github.com/hireloop/skillmatch/internal/metrics"
)

const maxResponseBytes = 32 << 20

// Embedder vectorizes text via a plain HTTP embeddings endpoint.
type Embedder struct {
	client   *http.Client
	endpoint string
	model    string
	provider string
	logger   *zap.Logger
}

// Config holds the endpoint settings.
type Config struct {
	Endpoint string
	Model    string
	Provider string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewEmbedder creates a plain-HTTP embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Embedder{
		client:   &http.Client{Timeout: timeout},
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

type embeddingRequest struct {
	Inputs []string `json:"inputs"`
	Model  string   `json:"model,omitempty"`
}

// Embed implements domain.Embedder for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vectors, err := e.request(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: vectors[0]}, nil
}

// BatchEmbed vectorizes all texts in one request, index-aligned.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	vectors, err := e.request(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err
	}
	return domain.BatchEmbeddingResult{Embeddings: vectors}, nil
}

func (e *Embedder) request(ctx context.Context, inputs []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingRequest{Inputs: inputs, Model: e.model})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := e.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, e.model, "transport_error").Inc()
		return nil, fmt.Errorf("embedding request: %v: %w", err, domain.ErrEmbeddingProviderError)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, e.model, "read_error").Inc()
		return nil, fmt.Errorf("read embedding response: %v: %w", err, domain.ErrEmbeddingProviderError)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, e.model, "api_error").Inc()
		return nil, fmt.Errorf("embedding API status %d: %w", resp.StatusCode, domain.ErrEmbeddingProviderError)
	}

	vectors, err := decodeVectors(data)
	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, e.model, "malformed_response").Inc()
		return nil, err
	}
	if len(vectors) != len(inputs) {
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, e.model, "count_mismatch").Inc()
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d inputs: %w",
			len(vectors), len(inputs), domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, e.model).Observe(duration.Seconds())
	return vectors, nil
}

// decodeVectors normalizes the two supported payload shapes at the
// boundary: a bare array of vectors, or the array wrapped under "data".
// Everything else is a provider error — the rest of the engine only ever
// sees validated vectors.
func decodeVectors(data []byte) ([][]float32, error) {
	var bare [][]float32
	if err := json.Unmarshal(data, &bare); err == nil && bare != nil {
		return bare, nil
	}

	var wrapped struct {
		Data [][]float32 `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}

	return nil, fmt.Errorf("malformed embedding payload: %w", domain.ErrEmbeddingProviderError)
}

// HealthCheck probes the endpoint with an empty request. Any well-formed
// HTTP response below 500 counts as available.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("embedding endpoint unreachable: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("embedding endpoint status %d", resp.StatusCode)
	}
	return nil
}
