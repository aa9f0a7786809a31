package simplefsm

import (
	"fmt"
	"log/slog"
)

// Machine is the runtime FSM instance. The zero value is an uninitialised machine;
// call Init (or use New) before Start.
//
// A Machine is not safe for concurrent use. Callbacks must not call Start, OnEvent
// or ForceStop on the machine that invoked them. See Locked for a serialized wrapper.
type Machine[C, E any] struct {
	config      Config[C, E]
	current     StateID
	initialised bool
	started     bool

	logger    *slog.Logger
	observers []Observer
}

// Option is a functional option for configuring a Machine
type Option func(*machineOptions)

type machineOptions struct {
	logger    *slog.Logger
	observers []Observer
}

// WithLogger sets the logger for the machine
func WithLogger(logger *slog.Logger) Option {
	return func(o *machineOptions) {
		o.logger = logger
	}
}

// WithObserver adds an observer notified of state changes and resolution outcomes
func WithObserver(obs Observer) Option {
	return func(o *machineOptions) {
		o.observers = append(o.observers, obs)
	}
}

// WithStateChangeCallback sets a callback invoked after each committed state change
func WithStateChangeCallback(fn func(from, to StateID)) Option {
	return WithObserver(StateChangeFunc(fn))
}

// New validates cfg and returns an initialised, stopped machine
func New[C, E any](cfg Config[C, E], opts ...Option) (*Machine[C, E], error) {
	m := &Machine[C, E]{}
	m.SetOptions(opts...)
	if err := m.Init(cfg); err != nil {
		return nil, err
	}
	return m, nil
}

// SetOptions applies options to the machine. Observers are appended to any already set.
func (m *Machine[C, E]) SetOptions(opts ...Option) {
	o := machineOptions{logger: m.logger, observers: m.observers}
	for _, opt := range opts {
		opt(&o)
	}
	m.logger = o.logger
	m.observers = o.observers
}

// Init validates and copies cfg, leaving the machine stopped at the initial state.
// No callbacks are invoked. A rejected configuration leaves the machine untouched,
// so Init can also be used to fully reset a running machine.
func (m *Machine[C, E]) Init(cfg Config[C, E]) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.config = cfg.clone()
	m.current = m.config.InitialState
	m.started = false
	m.initialised = true
	return nil
}

// Deinit drops the configuration. Until the next Init every call reports ErrNotInitialised.
// No callbacks are invoked.
func (m *Machine[C, E]) Deinit() {
	if !m.initialised {
		return
	}
	m.current = m.config.InitialState
	m.started = false
	m.initialised = false
	m.config = Config[C, E]{}
}

// Start enters the initial state and resolves any transitions its entry handler requests.
// Calling Start on a running machine returns ErrAlreadyStarted and runs nothing.
// If resolution fails the machine is left stopped.
func (m *Machine[C, E]) Start() error {
	if !m.initialised {
		return ErrNotInitialised
	}
	if m.started {
		return ErrAlreadyStarted
	}

	m.started = true
	m.current = m.config.InitialState

	m.log().Debug("entering initial state", "state", m.current)
	next := m.config.Delegates[m.current].OnEntry(m, m.config.Context)

	if err := m.resolve(OpStart, next); err != nil {
		m.started = false
		return err
	}
	return nil
}

// OnEvent passes event to the current state and resolves the transitions it requests.
// On failure the machine stays started at the last state the resolver entered.
func (m *Machine[C, E]) OnEvent(event E) error {
	if !m.initialised {
		return ErrNotInitialised
	}
	if !m.started {
		return ErrNotStarted
	}

	m.log().Debug("dispatching event", "state", m.current)
	next := m.config.Delegates[m.current].OnEvent(m, event, m.config.Context)

	return m.resolve(OpEvent, next)
}

// ForceStop runs the exit handler of the current state and stops the machine.
// The handler's requested state is not honoured; if it asked to leave, ErrIncomplete
// is returned. The machine is stopped either way.
func (m *Machine[C, E]) ForceStop() error {
	if !m.initialised {
		return ErrNotInitialised
	}
	if !m.started {
		return ErrNotStarted
	}

	state := m.current
	m.log().Debug("exiting state (forced)", "state", state)
	next := m.config.Delegates[state].OnExit(m, m.config.Context)
	m.started = false

	var err error
	if next != state {
		err = fmt.Errorf("%w: state %d requested %d on exit", ErrIncomplete, state, next)
	}
	m.notifyResolved(OpForceStop, state, 0, err)
	return err
}

// CurrentState returns the last state the machine committed to. The value is always
// returned; the error is ErrNotStarted while the machine is stopped and
// ErrNotInitialised before Init or after Deinit.
func (m *Machine[C, E]) CurrentState() (StateID, error) {
	if !m.initialised {
		return m.current, ErrNotInitialised
	}
	if !m.started {
		return m.current, ErrNotStarted
	}
	return m.current, nil
}

// Started reports whether the machine is running
func (m *Machine[C, E]) Started() bool {
	return m.started
}

// StateCount returns the number of states in the current configuration
func (m *Machine[C, E]) StateCount() uint {
	return m.config.StateCount
}

func (m *Machine[C, E]) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return Logger
}
