package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/andig/evopt/core/metrics"
)

// PromSink records optimization runs in Prometheus metrics.
type PromSink struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPromSink registers solve metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evopt_solves_total",
		Help: "Total number of optimization runs",
	}, []string{"status", "strategy"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evopt_solve_duration_seconds",
		Help:    "Wall time of model build plus solve",
		Buckets: prometheus.DefBuckets,
	}, []string{"status", "strategy"})

	if err := reg.Register(solves); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solves = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{solves: solves, duration: duration}, nil
}

// RecordSolve increments the solve counter and observes the run duration.
func (s *PromSink) RecordSolve(rec coremetrics.SolveRecord) error {
	s.solves.WithLabelValues(rec.Status, rec.Strategy).Inc()
	s.duration.WithLabelValues(rec.Status, rec.Strategy).Observe(rec.Duration.Seconds())
	return nil
}
