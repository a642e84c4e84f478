// Package metrics holds the Prometheus instruments of the nodecfg service.
// Collectors are registered on a dedicated registry so several servers (and
// tests) can coexist in one process.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-nodeconfig/pkg/validation"
)

// Outcome labels.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Metrics groups the service instruments.
type Metrics struct {
	registry *prometheus.Registry

	Validations *prometheus.CounterVec
	FieldErrors *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// New creates the instruments and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nodecfg_validations_total",
				Help: "Validation requests by node kind and outcome.",
			}, []string{"kind", "outcome"}),
		FieldErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nodecfg_field_errors_total",
				Help: "Field errors reported by node kind and issue kind.",
			}, []string{"kind", "issue"}),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nodecfg_validation_duration_seconds",
				Help:    "Time spent validating one value set.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			}, []string{"kind"}),
	}
	m.registry.MustRegister(
		m.Validations,
		m.FieldErrors,
		m.Duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one validation pass.
func (m *Metrics) Observe(kind string, issues []validation.Issue, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeValid
	if len(issues) > 0 {
		outcome = OutcomeInvalid
	}
	m.Validations.WithLabelValues(kind, outcome).Inc()
	for _, issue := range issues {
		m.FieldErrors.WithLabelValues(kind, string(issue.Kind)).Inc()
	}
	m.Duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
