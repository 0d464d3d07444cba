package skillmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hireloop/skillmatch/internal/db"
	dbRedis "github.com/hireloop/skillmatch/internal/db/redis"
	"github.com/hireloop/skillmatch/internal/domain"
	catalogrepo "github.com/hireloop/skillmatch/internal/repository/catalog"
	"github.com/hireloop/skillmatch/internal/repository/embcache"
	sessionrepo "github.com/hireloop/skillmatch/internal/repository/session"
	openaiEmb "github.com/hireloop/skillmatch/internal/transport/openai"
	healthuc "github.com/hireloop/skillmatch/internal/usecase/health"
	"github.com/hireloop/skillmatch/internal/usecase/ranking"
	"github.com/hireloop/skillmatch/internal/usecase/recommend"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for test substitution.
type searchUseCase interface {
	Search(ctx context.Context, query string, filters domain.QueryFilters) ([]domain.Assessment, error)
}

type catalogAccess interface {
	LoadAll(ctx context.Context) ([]domain.Assessment, error)
	Save(ctx context.Context, a domain.Assessment) (bool, error)
	Delete(ctx context.Context, id string) error
	Reset()
}

type sessionAccess interface {
	Save(ctx context.Context, sessionID string, snap sessionrepo.Snapshot) error
	Load(ctx context.Context, sessionID string) (sessionrepo.Snapshot, error)
}

// Client is the skillmatch SDK entry point.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	catalog   catalogAccess
	sessions  sessionAccess
	healthSvc healthUseCase
	obs       *observer
}

// New creates a skillmatch Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{sessionTTL: time.Hour}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("skillmatch: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("skillmatch: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("skillmatch: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	logger := internalLogger(cfg)

	catalog := catalogrepo.New(store, logger)
	engine := ranking.NewEngine(logger)

	// Without an embedder the vector stage always fails over to keyword
	// matching, so searches still work.
	var domEmb domain.Embedder = noopEmbedder{}
	switch {
	case cfg.embedder != nil:
		domEmb = &embedderAdapter{inner: cfg.embedder}
	case cfg.openAIKey != "":
		domEmb = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.openAIKey,
			BaseURL:    cfg.openAIBaseURL,
			Model:      cfg.openAIModel,
			Dimensions: cfg.dimensions,
			Provider:   "openai",
			Logger:     logger,
		})
	}
	vectorizer := embcache.New(domEmb, store, nil, logger)

	searchSvc := recommend.New(catalog, vectorizer, engine, logger)
	sessions := sessionrepo.New(store, cfg.sessionTTL)

	var checker healthuc.EmbeddingChecker
	if hc, ok := domEmb.(domain.HealthChecker); ok {
		checker = hc
	}
	healthSvc := healthuc.New(store, checker)

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		catalog:   catalog,
		sessions:  sessions,
		healthSvc: healthSvc,
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Catalog returns the catalog management service.
func (c *Client) Catalog() *CatalogService {
	return &CatalogService{repo: c.catalog, obs: c.obs}
}

// Sessions returns the session snapshot service.
func (c *Client) Sessions() *SessionService {
	return &SessionService{store: c.sessions, obs: c.obs}
}

// embedderAdapter wraps the public Embedder to satisfy domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"skillmatch: embedder not configured (use WithEmbedder or WithOpenAI for semantic ranking)",
	)
}
