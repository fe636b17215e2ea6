package metrics

import "github.com/prometheus/client_golang/prometheus"

// SearchMetrics tracks search request outcomes.
type SearchMetrics struct {
	Requests  *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	Degraded  *prometheus.CounterVec
	Results   prometheus.Histogram
	Summaries *prometheus.CounterVec
}

// RegisterSearchMetrics registers and returns search metrics.
func RegisterSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	m := &SearchMetrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stonesoup",
				Name:      "search_requests_total",
				Help:      "Total number of search requests by mode, scope and status",
			},
			[]string{"mode", "scope", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stonesoup",
				Name:      "search_duration_seconds",
				Help:      "Search execution duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"mode", "scope"},
		),
		Degraded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stonesoup",
				Name:      "search_degraded_total",
				Help:      "Total number of degraded search subsystem failures",
			},
			[]string{"subsystem"},
		),
		Results: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "stonesoup",
				Name:      "search_results_count",
				Help:      "Number of results returned per search",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
		),
		Summaries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stonesoup",
				Name:      "search_summaries_total",
				Help:      "Total number of AI summary generations by outcome",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(m.Requests, m.Duration, m.Degraded, m.Results, m.Summaries)
	return m
}
