// Package health aggregates component checks into the tri-state status
// reported on the health endpoint.
package health

import "context"

// Status is the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the embedding provider is down; keyword search
	// still works.
	Degraded Status = "degraded"
	// Unhealthy indicates the catalog store is unreachable; search cannot
	// serve results at all.
	Unhealthy Status = "error"
)

// CheckResult is an individual component check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store     StorePinger
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(store StorePinger, embedding EmbeddingChecker) *Service {
	return &Service{store: store, embedding: embedding}
}

// Check runs health checks against all components. The catalog store is
// load-bearing: its failure makes the whole service unhealthy. A failing
// embedding provider only degrades — vector search falls back to keyword
// matching.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.store.Ping(ctx); err != nil {
		checks["catalog_store"] = CheckError
		status = Unhealthy
	} else {
		checks["catalog_store"] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["embedding"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
