package skillmatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string

	embedder      Embedder
	openAIKey     string
	openAIBaseURL string
	openAIModel   string
	dimensions    int

	sessionTTL time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCredentials sets the Redis username for ACL-enabled instances.
func WithCredentials(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithEmbedder sets a custom text embedding provider. Without one,
// searches run on keyword matching alone.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithOpenAI enables semantic ranking via an OpenAI-compatible embedding
// API. baseURL may be empty for the default endpoint.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIKey = apiKey
		c.openAIBaseURL = baseURL
		c.openAIModel = model
	})
}

// WithVectorDimensions requests a specific embedding dimension from the
// provider. 0 uses the model default.
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithSessionTTL bounds how long session snapshots are retained.
// Default: one hour.
func WithSessionTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.sessionTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

func internalLogger(cfg *clientConfig) *zap.Logger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return zap.NewNop()
}
