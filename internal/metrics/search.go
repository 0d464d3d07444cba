package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search stage labels.
const (
	StageVector   = "vector"
	StageKeyword  = "keyword"
	StageFallback = "fallback"

	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// SearchStageTotal counts which pipeline stage produced (or failed to
// produce) the result set of a search call.
var SearchStageTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "skillmatch",
		Name:      "search_stage_total",
		Help:      "Search pipeline stage outcomes",
	},
	[]string{"stage", "outcome"},
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchStageTotal)
	searchMetricsRegistered = true
}
