// Package metrics provides Prometheus metrics for the verification engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all verification engine metrics.
type Metrics struct {
	VerificationsTotal *prometheus.CounterVec // Verification outcomes by result (verified, not_found, invalid_input)
	LookupDuration     prometheus.Histogram   // End-to-end ledger lookup latency
	LedgerSubmitsTotal *prometheus.CounterVec // Ledger submissions by mode and result
	RoleDenialsTotal   *prometheus.CounterVec // Gate denials by operation
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certledger_verifications_total",
			Help: "Total number of verification requests by outcome",
		}, []string{"outcome"}),

		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "certledger_lookup_duration_seconds",
			Help:    "Duration of ledger lookups during verification",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		LedgerSubmitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certledger_ledger_submits_total",
			Help: "Total number of ledger submissions by mode and result",
		}, []string{"mode", "result"}),

		RoleDenialsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "certledger_role_denials_total",
			Help: "Total number of permission denials by gated operation",
		}, []string{"operation"}),
	}
}

// ObserveVerification records one verification outcome.
func (m *Metrics) ObserveVerification(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.VerificationsTotal.WithLabelValues(outcome).Inc()
	m.LookupDuration.Observe(duration.Seconds())
}

// ObserveSubmit records one ledger submission attempt.
func (m *Metrics) ObserveSubmit(mode, result string) {
	if m == nil {
		return
	}
	m.LedgerSubmitsTotal.WithLabelValues(mode, result).Inc()
}

// ObserveDenial records one gate denial.
func (m *Metrics) ObserveDenial(operation string) {
	if m == nil {
		return
	}
	m.RoleDenialsTotal.WithLabelValues(operation).Inc()
}
