package httpemb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/hireloop/skillmatch/internal/domain"
)

func testEmbedder(url string) *Embedder {
	return NewEmbedder(&Config{
		Endpoint: url,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

func TestBatchEmbed_BareArrayShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[[0.1, 0.2], [0.3, 0.4]]`))
	}))
	defer srv.Close()

	res, err := testEmbedder(srv.URL).BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}
	if len(res.Embeddings) != 2 || res.Embeddings[1][0] != 0.3 {
		t.Errorf("embeddings = %v", res.Embeddings)
	}
}

func TestBatchEmbed_WrappedDataShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": [[1], [2]]}`))
	}))
	defer srv.Close()

	res, err := testEmbedder(srv.URL).BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}
	if len(res.Embeddings) != 2 || res.Embeddings[0][0] != 1 {
		t.Errorf("embeddings = %v", res.Embeddings)
	}
}

func TestBatchEmbed_MalformedPayload(t *testing.T) {
	payloads := []string{
		`{"vectors": [[1]]}`,
		`"not vectors at all"`,
		`{"data": "oops"}`,
	}
	for _, p := range payloads {
		payload := p
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(payload))
		}))

		_, err := testEmbedder(srv.URL).BatchEmbed(context.Background(), []string{"a"})
		srv.Close()
		if !errors.Is(err, domain.ErrEmbeddingProviderError) {
			t.Errorf("payload %s: err = %v, want ErrEmbeddingProviderError", payload, err)
		}
	}
}

func TestBatchEmbed_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[[1]]`))
	}))
	defer srv.Close()

	_, err := testEmbedder(srv.URL).BatchEmbed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("err = %v, want ErrEmbeddingProviderError", err)
	}
}

func TestEmbed_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testEmbedder(srv.URL).Embed(context.Background(), "a")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("err = %v, want ErrEmbeddingProviderError", err)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed) // below 500 counts as alive
	}))
	defer srv.Close()

	if err := testEmbedder(srv.URL).HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	if err := testEmbedder(down.URL).HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck passed against a 500 endpoint")
	}
}
