package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hireloop/skillmatch/internal/config"
	"github.com/hireloop/skillmatch/internal/db"
	dbRedis "github.com/hireloop/skillmatch/internal/db/redis"
	"github.com/hireloop/skillmatch/internal/domain"
	logpkg "github.com/hireloop/skillmatch/internal/logger"
	"github.com/hireloop/skillmatch/internal/metrics"
	catalogrepo "github.com/hireloop/skillmatch/internal/repository/catalog"
	"github.com/hireloop/skillmatch/internal/repository/embcache"
	sessionrepo "github.com/hireloop/skillmatch/internal/repository/session"
	usagerepo "github.com/hireloop/skillmatch/internal/repository/usage"
	chiTransport "github.com/hireloop/skillmatch/internal/transport/chi"
	"github.com/hireloop/skillmatch/internal/transport/httpemb"
	openaiEmb "github.com/hireloop/skillmatch/internal/transport/openai"
	embeddinguc "github.com/hireloop/skillmatch/internal/usecase/embedding"
	healthuc "github.com/hireloop/skillmatch/internal/usecase/health"
	"github.com/hireloop/skillmatch/internal/usecase/ranking"
	"github.com/hireloop/skillmatch/internal/usecase/recommend"
	"github.com/hireloop/skillmatch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting skillmatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Build embedder chain — composition root
	metered := buildMeteredEmbedder(ctx, cfg.Embedding, store, logger)

	// Query instruction applies only to queries, never to catalog texts.
	var queryEmbedder domain.Embedder = metered
	if cfg.Embedding.QueryInstruction != "" {
		queryEmbedder = domain.NewInstructionEmbedder(metered, cfg.Embedding.QueryInstruction)
	}

	vectorizer := embcache.New(queryEmbedder, store, metrics.EmbeddingCacheTotal, logger).
		WithBatchSource(metered)

	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories and use case services
	catalog := catalogrepo.New(store, logger)
	sessions := sessionrepo.New(store, time.Duration(cfg.Session.TTLSec)*time.Second)
	engine := ranking.NewEngine(logger)
	searchSvc := recommend.New(catalog, vectorizer, engine, logger)
	healthSvc := healthuc.New(store, metered)

	server := chiTransport.NewServer(searchSvc, catalog, sessions, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildMeteredEmbedder assembles provider -> metering. The metered layer
// persists daily token counters in the store when a budget is configured.
func buildMeteredEmbedder(
	ctx context.Context,
	embCfg config.EmbeddingConfig,
	store db.Store,
	logger *zap.Logger,
) *embeddinguc.MeteredEmbedder {
	var base domain.Embedder
	switch embCfg.Provider {
	case "http":
		base = httpemb.NewEmbedder(&httpemb.Config{
			Endpoint: embCfg.Endpoint,
			Model:    embCfg.Model,
			Provider: embCfg.Provider,
			Logger:   logger,
		})
	default:
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     embCfg.APIKey,
			BaseURL:    embCfg.BaseURL,
			Model:      embCfg.Model,
			Dimensions: embCfg.Dimensions,
			Provider:   embCfg.Provider,
			Logger:     logger,
		})
	}

	reject := embCfg.Budget.Action == "reject"
	metered := embeddinguc.NewMetered(base, embCfg.Provider, embCfg.Budget.DailyTokenLimit, reject, logger)
	if embCfg.Budget.DailyTokenLimit > 0 {
		usageStore := usagerepo.New(store, 48*time.Hour)
		metered.WithStore(ctx, usageStore)
	}
	return metered
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.WithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
