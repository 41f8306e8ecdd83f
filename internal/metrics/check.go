package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values for check and inspect counters.
const (
	OutcomeOk  = "ok"
	OutcomeErr = "err"
)

// Subscription check Prometheus metrics.
var (
	CheckTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "subwatch",
			Name:      "check_total",
			Help:      "Total number of per-subscription checks",
		},
		[]string{"outcome"},
	)

	CheckBatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "subwatch",
			Name:      "check_batch_duration_seconds",
			Help:      "Duration of a full roster check",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	InspectTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "subwatch",
			Name:      "inspect_total",
			Help:      "Total number of ad-hoc link inspections",
		},
		[]string{"outcome"},
	)
)

var checkMetricsRegistered bool

// RegisterCheckMetrics registers Prometheus check metrics. Must be called once from main.
func RegisterCheckMetrics() {
	if checkMetricsRegistered {
		return
	}
	prometheus.MustRegister(CheckTotal)
	prometheus.MustRegister(CheckBatchDuration)
	prometheus.MustRegister(InspectTotal)
	checkMetricsRegistered = true
}
