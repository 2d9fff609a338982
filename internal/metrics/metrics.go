package metrics

import (
	"github.com/drakos74/rvm/internal/rvm"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports the training progress to prometheus.
// It implements rvm.Observer and can follow several runs at once.
type Metrics struct {
	prometheus Prometheus
}

// NewWithRegistry creates metrics registered on the given registry.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	return &Metrics{
		prometheus: NewPrometheusMetrics(registerer),
	}
}

// Iteration records one step of the training loop.
func (m *Metrics) Iteration(it rvm.Iteration) {
	variant := string(it.Variant)
	m.prometheus.Iterations.WithLabelValues(variant).Inc()
	m.prometheus.Pruned.WithLabelValues(variant).Add(float64(it.Pruned))
	m.prometheus.Weights.WithLabelValues(variant).Set(float64(it.Weights))
	m.prometheus.Metric.WithLabelValues(variant).Set(it.Metric)
}

// Done records the outcome of a training run.
func (m *Metrics) Done(report rvm.Report) {
	variant := string(report.Variant)
	m.prometheus.Fits.WithLabelValues(variant, report.Status.String()).Inc()
	m.prometheus.Duration.WithLabelValues(variant).Observe(report.Duration.Seconds())
}
