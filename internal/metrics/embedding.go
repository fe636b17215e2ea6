package metrics

import "github.com/prometheus/client_golang/prometheus"

// EmbeddingMetrics tracks calls to the embedding provider.
type EmbeddingMetrics struct {
	Requests  *prometheus.CounterVec
	Duration  prometheus.Histogram
	Tokens    *prometheus.CounterVec
	Errors    *prometheus.CounterVec
	CacheHits prometheus.Counter
	CacheMiss prometheus.Counter
}

// RegisterEmbeddingMetrics registers and returns embedding metrics.
func RegisterEmbeddingMetrics(reg prometheus.Registerer) *EmbeddingMetrics {
	m := &EmbeddingMetrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stonesoup",
				Name:      "embedding_requests_total",
				Help:      "Total number of embedding requests by model",
			},
			[]string{"model"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "stonesoup",
				Name:      "embedding_request_duration_seconds",
				Help:      "Embedding request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		Tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stonesoup",
				Name:      "embedding_tokens_total",
				Help:      "Total number of tokens consumed by embedding requests",
			},
			[]string{"model", "kind"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stonesoup",
				Name:      "embedding_errors_total",
				Help:      "Total number of failed embedding requests",
			},
			[]string{"model"},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "stonesoup",
				Name:      "embedding_cache_hits_total",
				Help:      "Total number of embedding cache hits",
			},
		),
		CacheMiss: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "stonesoup",
				Name:      "embedding_cache_misses_total",
				Help:      "Total number of embedding cache misses",
			},
		),
	}

	reg.MustRegister(m.Requests, m.Duration, m.Tokens, m.Errors, m.CacheHits, m.CacheMiss)
	return m
}
