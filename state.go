package simplefsm

// EntryExitHandler runs when a state is entered or exited.
// Returning the state it ran for means "stay"; any other value requests a transition.
type EntryExitHandler[C, E any] func(m *Machine[C, E], ctx C) StateID

// EventHandler runs when an event is dispatched to the current state
type EventHandler[C, E any] func(m *Machine[C, E], event E, ctx C) StateID

// Delegate holds the three callbacks of one state. All of them are required.
type Delegate[C, E any] struct {
	OnEntry EntryExitHandler[C, E]
	OnEvent EventHandler[C, E]
	OnExit  EntryExitHandler[C, E]
}

// missing returns the name of the first absent callback, or "" when the delegate is complete
func (d Delegate[C, E]) missing() string {
	switch {
	case d.OnEntry == nil:
		return "on_entry"
	case d.OnEvent == nil:
		return "on_event"
	case d.OnExit == nil:
		return "on_exit"
	}
	return ""
}

// StateOption is a functional option for configuring a Delegate
type StateOption[C, E any] func(*Delegate[C, E])

// WithOnEntry sets the entry handler for the state
func WithOnEntry[C, E any](fn EntryExitHandler[C, E]) StateOption[C, E] {
	return func(d *Delegate[C, E]) {
		d.OnEntry = fn
	}
}

// WithOnEvent sets the event handler for the state
func WithOnEvent[C, E any](fn EventHandler[C, E]) StateOption[C, E] {
	return func(d *Delegate[C, E]) {
		d.OnEvent = fn
	}
}

// WithOnExit sets the exit handler for the state
func WithOnExit[C, E any](fn EntryExitHandler[C, E]) StateOption[C, E] {
	return func(d *Delegate[C, E]) {
		d.OnExit = fn
	}
}

// Stay returns an entry/exit handler that never requests a transition away from id
func Stay[C, E any](id StateID) EntryExitHandler[C, E] {
	return func(*Machine[C, E], C) StateID {
		return id
	}
}

// Ignore returns an event handler that keeps the machine in id for every event
func Ignore[C, E any](id StateID) EventHandler[C, E] {
	return func(*Machine[C, E], E, C) StateID {
		return id
	}
}

// GoTo returns an entry/exit handler that always requests target
func GoTo[C, E any](target StateID) EntryExitHandler[C, E] {
	return func(*Machine[C, E], C) StateID {
		return target
	}
}
