// Package metrics counts evaluations and solves for the /metrics endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kobzarvs/qcalc/internal/engine"
	"github.com/kobzarvs/qcalc/internal/eval"
	"github.com/kobzarvs/qcalc/internal/solver"
)

// Metrics implements engine.Observer.
type Metrics struct {
	registry    *prometheus.Registry
	evaluations *prometheus.CounterVec
	solves      *prometheus.CounterVec
	iterations  prometheus.Histogram
}

var _ engine.Observer = (*Metrics)(nil)

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qcalc_evaluations_total",
				Help: "Committed expressions by outcome",
			},
			[]string{"outcome"},
		),
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qcalc_solves_total",
				Help: "Equations solved by mode and result kind",
			},
			[]string{"mode", "kind"},
		),
		iterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "qcalc_solver_iterations",
				Help:    "Newton iterations per linear solve",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 60},
			},
		),
	}
	m.registry.MustRegister(m.evaluations, m.solves, m.iterations)
	return m
}

// outcomeLabel maps a commit result to the outcome label.
func outcomeLabel(err *eval.Error) string {
	if err == nil {
		return "ok"
	}
	return err.Kind.String()
}

func (m *Metrics) Evaluated(out engine.Outcome) {
	m.evaluations.WithLabelValues(outcomeLabel(out.Err)).Inc()
}

func (m *Metrics) Solved(mode solver.Mode, res solver.Result) {
	m.solves.WithLabelValues(mode.String(), res.Kind.String()).Inc()
	if res.Kind == solver.KindLinear && res.Iterations > 0 {
		m.iterations.Observe(float64(res.Iterations))
	}
}

// Registry exposes the collectors, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
