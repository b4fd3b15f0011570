package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation and dashboard Prometheus metrics.
var (
	RecommendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_requests_total",
			Help:      "Recommendation provider calls by source and outcome",
		},
		[]string{"source", "status"}, // source: "alternate" / "local"; status: "ok" / "empty" / "error"
	)

	RecommendFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_fallbacks_total",
			Help:      "Times a provider was skipped in favour of the next one",
		},
		[]string{"from", "reason"}, // reason: "error" / "empty"
	)

	RecommendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommend_duration_seconds",
			Help:      "Recommendation provider latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"source"},
	)

	DashboardSectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_sections_total",
			Help:      "Dashboard section outcomes",
		},
		[]string{"section", "state"}, // state: "ok" / "empty" / "error"
	)

	MemoTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memo_total",
			Help:      "In-memory memo lookups",
		},
		[]string{"cache", "result"}, // "hit" / "miss" / "shared"
	)
)

var recommendMetricsRegistered bool

// RegisterRecommendMetrics registers recommendation and dashboard metrics. Must be called once from main.
func RegisterRecommendMetrics() {
	if recommendMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecommendRequestsTotal)
	prometheus.MustRegister(RecommendFallbacksTotal)
	prometheus.MustRegister(RecommendDuration)
	prometheus.MustRegister(DashboardSectionsTotal)
	prometheus.MustRegister(MemoTotal)
	recommendMetricsRegistered = true
}
