package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hireloop/skillmatch/internal/domain"
	logpkg "github.com/hireloop/skillmatch/internal/logger"
	"github.com/hireloop/skillmatch/internal/repository/session"
	healthuc "github.com/hireloop/skillmatch/internal/usecase/health"
)

// Recommender runs a recommendation search.
type Recommender interface {
	Search(ctx context.Context, query string, filters domain.QueryFilters) ([]domain.Assessment, error)
}

// CatalogLister exposes the full assessment catalog.
type CatalogLister interface {
	LoadAll(ctx context.Context) ([]domain.Assessment, error)
}

// SessionStore persists and restores per-session search snapshots.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, snap session.Snapshot) error
	Load(ctx context.Context, sessionID string) (session.Snapshot, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API.
type Server struct {
	search        Recommender
	catalog       CatalogLister
	sessions      SessionStore
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. sessions may be nil, which
// disables session snapshots.
func NewServer(
	search Recommender,
	catalog CatalogLister,
	sessions SessionStore,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		catalog:  catalog,
		sessions: sessions,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, codeSessionNotFound),
		sentinelHandler(domain.ErrDataLoad, http.StatusBadGateway, codeDataLoadFailed),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded, http.StatusPaymentRequired, codeEmbeddingQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// Routes mounts all API handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/recommend", s.Recommend)
	r.Get("/api/v1/assessments", s.ListAssessments)
	r.Get("/api/v1/sessions/{sessionID}", s.GetSession)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// RecommendRequest is the POST /recommend body.
type RecommendRequest struct {
	Query     string              `json:"query"`
	SessionID string              `json:"session_id,omitempty"`
	Filters   domain.QueryFilters `json:"filters"`
}

// RecommendResponse is the POST /recommend reply.
type RecommendResponse struct {
	Query   string              `json:"query"`
	Count   int                 `json:"count"`
	Results []domain.Assessment `json:"results"`
}

// Recommend handles POST /api/v1/recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Query is required")
		return
	}

	results, err := s.search.Search(r.Context(), req.Query, req.Filters)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	// Snapshot persistence is best-effort: a store hiccup must not fail
	// a search that already succeeded.
	if req.SessionID != "" && s.sessions != nil {
		snap := session.Snapshot{Query: req.Query, Results: results}
		if err := s.sessions.Save(r.Context(), req.SessionID, snap); err != nil {
			s.requestLogger(r).Warn("Failed to save session snapshot",
				zap.String("session_id", req.SessionID), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, RecommendResponse{
		Query:   req.Query,
		Count:   len(results),
		Results: results,
	})
}

// AssessmentListResponse is the GET /assessments reply.
type AssessmentListResponse struct {
	Items []domain.Assessment `json:"items"`
	Total int                 `json:"total"`
}

// ListAssessments handles GET /api/v1/assessments.
func (s *Server) ListAssessments(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.LoadAll(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AssessmentListResponse{Items: items, Total: len(items)})
}

// GetSession handles GET /api/v1/sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusNotFound, codeSessionNotFound, "sessions are disabled")
		return
	}

	snap, err := s.sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// HealthResponse is the GET /health reply.
type HealthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codeSessionNotFound        = "session_not_found"
	codeDataLoadFailed         = "data_load_failed"
	codeEmbeddingQuotaExceeded = "embedding_quota_exceeded"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeInternalError          = "internal_error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrSessionNotFound,
		domain.ErrDataLoad,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// requestLogger prefers the request-scoped logger attached by the
// middleware chain over the server's own.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logpkg.FromContextOr(r.Context(), s.logger)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
