package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Latency of one full recommendation pipeline run (retrieve -> rerank -> top-k)
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reco_recommend_latency_seconds",
		Help:    "Latency of the recommendation pipeline",
		Buckets: prometheus.DefBuckets,
	})

	RecommendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_recommend_requests_total",
		Help: "Total number of recommendation pipeline runs by outcome",
	}, []string{"outcome"})

	// Latency of the external scoring model call
	ScoringLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reco_scoring_latency_seconds",
		Help:    "Latency of the learned scoring model",
		Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1},
	})

	registerOnce sync.Once
)

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RecommendLatency,
			RecommendRequests,
			ScoringLatency,
		)
	})
}
