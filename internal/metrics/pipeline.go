package metrics

import "github.com/prometheus/client_golang/prometheus"

// Review pipeline Prometheus metrics.
var (
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Review page fetches by outcome",
		},
		[]string{"outcome"}, // ok, transport, status, blocked, empty, parse
	)

	FetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Review page fetch duration in seconds, warm-up included",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 6, 8, 10, 15},
		},
	)

	FetchFragments = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_fragments",
			Help:      "Review fragments extracted per successful fetch",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	ScorerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scorer_requests_total",
			Help:      "Sentiment scorer calls",
		},
		[]string{"backend", "status"},
	)

	ScorerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scorer_duration_seconds",
			Help:      "Sentiment scorer call duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"backend"},
	)

	VibesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vibes_total",
			Help:      "Classified texts by vibe",
		},
		[]string{"source", "vibe"}, // source: text, review
	)

	SpamVerdictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spam_verdicts_total",
			Help:      "Spam classifier verdicts by label",
		},
		[]string{"label"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers fetch, scorer and classifier metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(FetchTotal)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(FetchFragments)
	prometheus.MustRegister(ScorerRequestsTotal)
	prometheus.MustRegister(ScorerDuration)
	prometheus.MustRegister(VibesTotal)
	prometheus.MustRegister(SpamVerdictsTotal)
	pipelineMetricsRegistered = true
}
