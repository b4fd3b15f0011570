package metrics

import "github.com/prometheus/client_golang/prometheus"

// Content generation Prometheus metrics.
var (
	ContentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_requests_total",
			Help:      "Total number of content generation requests",
		},
		[]string{"kind", "model", "status"},
	)

	ContentRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "content_request_duration_seconds",
			Help:      "Content generation request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"kind", "model"},
	)

	ContentTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_tokens_total",
			Help:      "Total tokens consumed by content generation",
		},
		[]string{"model", "type"}, // "prompt" / "completion"
	)

	ContentErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_errors_total",
			Help:      "Total content generation errors",
		},
		[]string{"kind", "model", "error_type"},
	)

	ContentBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "content_budget_tokens_remaining",
			Help:      "Remaining content token budget",
		},
		[]string{"model", "period"},
	)

	ContentCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_cache_total",
			Help:      "Content cache hits and misses",
		},
		[]string{"kind", "result"}, // "hit" / "miss"
	)
)

var contentMetricsRegistered bool

// RegisterContentMetrics registers content generation metrics. Must be called once from main.
func RegisterContentMetrics() {
	if contentMetricsRegistered {
		return
	}
	prometheus.MustRegister(ContentRequestsTotal)
	prometheus.MustRegister(ContentRequestDuration)
	prometheus.MustRegister(ContentTokensTotal)
	prometheus.MustRegister(ContentErrorsTotal)
	prometheus.MustRegister(ContentBudgetTokensRemaining)
	prometheus.MustRegister(ContentCacheTotal)
	contentMetricsRegistered = true
}
