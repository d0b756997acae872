package fusion

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FusionAssessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fusion_assessments_total",
			Help: "Count of skin assessments by mode (fused or survey_only) and resulting skin type.",
		},
		[]string{"mode", "skin_type"},
	)
)

func init() {
	prometheus.MustRegister(FusionAssessmentsTotal)
}
