// Package metrics holds the Prometheus metrics for the portal.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration pipeline. All methods
// are nil-safe so tests can pass a nil *Metrics.
type Metrics struct {
	// Registration outcomes: "approved" or a rejection reason.
	Registrations *prometheus.CounterVec

	// Admission task results: "applied", "skipped", "failed", "dropped".
	AdmissionTasks *prometheus.CounterVec

	// Full request handling latency.
	RequestDuration prometheus.Histogram
}

// New creates all portal metrics registered on the default registry.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trwhitelist_registrations_total",
			Help: "Registration submissions by outcome",
		}, []string{"outcome"}),

		AdmissionTasks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trwhitelist_admission_tasks_total",
			Help: "Whitelist admission tasks by result",
		}, []string{"result"}),

		RequestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trwhitelist_request_duration_seconds",
			Help:    "Duration of portal HTTP request handling",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementRegistration records a registration outcome.
func (m *Metrics) IncrementRegistration(outcome string) {
	if m != nil {
		m.Registrations.WithLabelValues(outcome).Inc()
	}
}

// IncrementAdmission records an admission task result.
func (m *Metrics) IncrementAdmission(result string) {
	if m != nil {
		m.AdmissionTasks.WithLabelValues(result).Inc()
	}
}

// ObserveRequestDuration records the duration of one HTTP exchange.
func (m *Metrics) ObserveRequestDuration(d time.Duration) {
	if m != nil {
		m.RequestDuration.Observe(d.Seconds())
	}
}
