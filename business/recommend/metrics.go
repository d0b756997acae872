package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CandidatesRetrievedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reco_candidates_retrieved_total",
			Help: "Count of candidates returned by similarity search, by category.",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(CandidatesRetrievedTotal)
}
