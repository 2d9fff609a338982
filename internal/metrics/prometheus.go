package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rvm"

// Prometheus holds the training collectors, labelled by variant.
type Prometheus struct {
	Iterations *prometheus.CounterVec
	Pruned     *prometheus.CounterVec
	Weights    *prometheus.GaugeVec
	Metric     *prometheus.GaugeVec
	Fits       *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewPrometheusMetrics creates and registers the training collectors.
func NewPrometheusMetrics(registerer prometheus.Registerer) Prometheus {
	factory := promauto.With(registerer)
	return Prometheus{
		Iterations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Total number of evidence maximisation iterations",
		}, []string{"variant"}),
		Pruned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pruned_total",
			Help:      "Total number of pruned basis functions",
		}, []string{"variant"}),
		Weights: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "weights",
			Help:      "Number of active weights after the last iteration",
		}, []string{"variant"}),
		Metric: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "convergence_metric",
			Help:      "Log evidence or log posterior after the last iteration",
		}, []string{"variant"}),
		Fits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fits_total",
			Help:      "Total number of finished training runs",
		}, []string{"variant", "status"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fit_duration_seconds",
			Help:      "Duration of the training runs in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60},
		}, []string{"variant"}),
	}
}
