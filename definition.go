package simplefsm

import (
	"fmt"
)

// Definition builds a Config state by state
type Definition[C, E any] struct {
	states         map[StateID]*Delegate[C, E]
	initial        StateID
	initialSet     bool
	maxTransitions uint
	context        C
}

// NewDefinition creates a new FSM definition builder
func NewDefinition[C, E any]() *Definition[C, E] {
	return &Definition[C, E]{
		states:         make(map[StateID]*Delegate[C, E]),
		maxTransitions: DefaultMaxTransitions,
	}
}

// State adds a state. Callbacks not set by an option keep the machine in id.
// Declaring the same id twice replaces the earlier declaration.
func (d *Definition[C, E]) State(id StateID, opts ...StateOption[C, E]) *Definition[C, E] {
	s := &Delegate[C, E]{
		OnEntry: Stay[C, E](id),
		OnEvent: Ignore[C, E](id),
		OnExit:  Stay[C, E](id),
	}
	for _, opt := range opts {
		opt(s)
	}
	d.states[id] = s
	return d
}

// Initial sets the initial state
func (d *Definition[C, E]) Initial(id StateID) *Definition[C, E] {
	d.initial = id
	d.initialSet = true
	return d
}

// MaxTransitions sets the transition ceiling
func (d *Definition[C, E]) MaxTransitions(n uint) *Definition[C, E] {
	d.maxTransitions = n
	return d
}

// Context sets the value passed to every callback
func (d *Definition[C, E]) Context(ctx C) *Definition[C, E] {
	d.context = ctx
	return d
}

// Config assembles the delegate table. States are indexed by id; ids skipped below the
// highest declared one become empty slots that fail validation.
func (d *Definition[C, E]) Config() (Config[C, E], error) {
	if !d.initialSet {
		return Config[C, E]{}, fmt.Errorf("%w: no initial state defined", ErrInvalidConfig)
	}
	if _, ok := d.states[d.initial]; !ok {
		return Config[C, E]{}, fmt.Errorf("%w: initial state %d not defined", ErrInvalidConfig, d.initial)
	}

	var count uint
	for id := range d.states {
		count = max(count, uint(id)+1)
	}

	delegates := make([]Delegate[C, E], count)
	for id, s := range d.states {
		delegates[id] = *s
	}

	cfg := Config[C, E]{
		Context:            d.context,
		Delegates:          delegates,
		StateCount:         count,
		InitialState:       d.initial,
		MaxTransitionCount: d.maxTransitions,
	}
	if err := cfg.Validate(); err != nil {
		return Config[C, E]{}, err
	}
	return cfg, nil
}

// Build creates a Machine from the definition
func (d *Definition[C, E]) Build(opts ...Option) (*Machine[C, E], error) {
	cfg, err := d.Config()
	if err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	return New(cfg, opts...)
}
