// Package metrics records per-run counters for changelog generation and writes
// them in the Prometheus text exposition format.
//
// The generator is a batch job, so nothing is served over HTTP. When a
// metrics file is configured the collected values are written once at the end
// of the run, suitable for the node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "gnosisvpn_release"
	metricsSubsystem = "changelog"
)

// Request outcomes used as the "outcome" label.
const (
	OutcomeSuccess   = "success"
	OutcomeThrottled = "throttled"
	OutcomeError     = "error"
)

// Metrics holds the collectors for a single run. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// requestsTotal counts API requests by repository and outcome.
	requestsTotal *prometheus.CounterVec

	// throttleRetriesTotal counts backoff sleeps caused by throttling.
	throttleRetriesTotal *prometheus.CounterVec

	// entries tracks changelog entries collected per component.
	entries *prometheus.GaugeVec
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "api_requests_total",
				Help:      "Total number of hosting API requests by repository and outcome",
			},
			[]string{"repository", "outcome"},
		),

		throttleRetriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "throttle_retries_total",
				Help:      "Total number of retries caused by API throttling",
			},
			[]string{"repository"},
		),

		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "entries",
				Help:      "Number of changelog entries collected per component",
			},
			[]string{"component"},
		),
	}

	m.registry.MustRegister(m.requestsTotal, m.throttleRetriesTotal, m.entries)
	return m
}

// ObserveRequest records one API request attempt.
func (m *Metrics) ObserveRequest(repository, outcome string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(repository, outcome).Inc()
}

// ObserveThrottle records one throttling retry.
func (m *Metrics) ObserveThrottle(repository string) {
	if m == nil {
		return
	}
	m.throttleRetriesTotal.WithLabelValues(repository).Inc()
}

// SetEntries records the number of entries collected for a component.
func (m *Metrics) SetEntries(component string, n int) {
	if m == nil {
		return
	}
	m.entries.WithLabelValues(component).Set(float64(n))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteFile writes all collected metrics to path atomically.
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
