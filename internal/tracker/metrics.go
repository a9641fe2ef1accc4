package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by the service.
type Metrics struct {
	Reconciliations    *prometheus.CounterVec
	CommentTransitions *prometheus.CounterVec
	ClassifierFailures prometheus.Counter
	SweepDuration      prometheus.Histogram
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Reconciliations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tubetracker_reconciliations_total",
				Help: "Video reconciliations, by outcome.",
			},
			[]string{"outcome"},
		),
		CommentTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tubetracker_comment_transitions_total",
				Help: "Comment lifecycle events recorded, by action.",
			},
			[]string{"action"},
		),
		ClassifierFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tubetracker_classifier_failures_total",
				Help: "Sentiment batches skipped because the classifier failed.",
			},
		),
		SweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tubetracker_sweep_duration_seconds",
				Help:    "Duration of fleet-wide sync sweeps.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
			},
		),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.Reconciliations,
		m.CommentTransitions,
		m.ClassifierFailures,
		m.SweepDuration,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
