package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	bridgeAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ibtbridge",
			Subsystem: "bridge",
			Name:      "attempts_total",
			Help:      "Total number of bridge attempts",
		},
		[]string{"direction", "status"}, // done, partial_failure, failed
	)

	// Partial failures get their own counter: burned-but-not-minted value
	// is the one state that needs an operator.
	bridgePartialFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ibtbridge",
			Subsystem: "bridge",
			Name:      "partial_failures_total",
			Help:      "Bridge attempts where the burn confirmed but the mint failed",
		},
		[]string{"direction"},
	)

	bridgeStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ibtbridge",
			Subsystem: "bridge",
			Name:      "step_duration_seconds",
			Help:      "Time spent per ledger operation including confirmation wait",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"ledger", "op"}, // burn, mint
	)
)

// RecordBridgeOutcome counts one finished bridge attempt.
func RecordBridgeOutcome(direction, status string) {
	bridgeAttemptsTotal.WithLabelValues(direction, status).Inc()
	if status == "partial_failure" {
		bridgePartialFailuresTotal.WithLabelValues(direction).Inc()
	}
}

// ObserveBridgeStep records the duration of one burn or mint.
func ObserveBridgeStep(ledger, op string, seconds float64) {
	bridgeStepDuration.WithLabelValues(ledger, op).Observe(seconds)
}
