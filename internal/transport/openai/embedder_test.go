package openai

import (
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hireloop/skillmatch/internal/domain"
)

func TestParseAPIError_WrapsProviderSentinel(t *testing.T) {
	cases := []error{
		&openai.APIError{HTTPStatusCode: 429, Message: "rate limited"},
		&openai.RequestError{HTTPStatusCode: 502, Body: []byte("bad gateway")},
		errors.New("dial tcp: connection refused"),
	}
	for _, in := range cases {
		if got := parseAPIError(in); !errors.Is(got, domain.ErrEmbeddingProviderError) {
			t.Errorf("parseAPIError(%v) = %v, want ErrEmbeddingProviderError", in, got)
		}
	}
}
