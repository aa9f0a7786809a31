// Package metrics exports simplefsm machine activity as Prometheus metrics.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/librescoot/simplefsm"
)

// Result label values for the resolutions counter
const (
	ResultOK          = "ok"
	ResultTimeout     = "timeout"
	ResultOutOfBounds = "out_of_bounds"
	ResultIncomplete  = "incomplete"
	ResultError       = "error"
)

// Observer counts transitions and resolution outcomes. Attach it with simplefsm.WithObserver.
type Observer struct {
	transitions *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	chainLength prometheus.Histogram
	stateName   func(simplefsm.StateID) string
}

// Option configures an Observer
type Option func(*Observer)

// WithStateNames labels states using fn instead of their decimal identifier
func WithStateNames(fn func(simplefsm.StateID) string) Option {
	return func(o *Observer) {
		o.stateName = fn
	}
}

// New creates an Observer and registers its collectors with reg
func New(reg prometheus.Registerer, namespace string, opts ...Option) (*Observer, error) {
	o := &Observer{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fsm_transitions_total",
			Help:      "Committed state transitions",
		}, []string{"from", "to"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fsm_resolutions_total",
			Help:      "Start, event and force-stop calls by outcome",
		}, []string{"op", "result"}),
		chainLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fsm_chain_length",
			Help:      "Transitions executed per resolution",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
		}),
		stateName: simplefsm.StateID.String,
	}
	for _, opt := range opts {
		opt(o)
	}

	for _, c := range []prometheus.Collector{o.transitions, o.resolutions, o.chainLength} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register fsm metrics: %w", err)
		}
	}
	return o, nil
}

func (o *Observer) StateChanged(from, to simplefsm.StateID) {
	o.transitions.WithLabelValues(o.stateName(from), o.stateName(to)).Inc()
}

func (o *Observer) Resolved(op simplefsm.Op, _ simplefsm.StateID, transitions uint, err error) {
	o.resolutions.WithLabelValues(string(op), Result(err)).Inc()
	if op != simplefsm.OpForceStop {
		o.chainLength.Observe(float64(transitions))
	}
}

// Result maps an engine error to its result label
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, simplefsm.ErrTimeout):
		return ResultTimeout
	case errors.Is(err, simplefsm.ErrOutOfBounds):
		return ResultOutOfBounds
	case errors.Is(err, simplefsm.ErrIncomplete):
		return ResultIncomplete
	}
	return ResultError
}
