package xai

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TaggedDocumentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "xai_tagged_documents_total",
			Help: "Count of catalog documents that received new explanation keywords.",
		},
	)

	TaggerBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xai_tagger_batches_total",
			Help: "Count of bulk keyword commits by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(TaggedDocumentsTotal, TaggerBatchesTotal)
}
