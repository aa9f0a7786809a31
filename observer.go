package simplefsm

// Observer is notified by a Machine as it runs. Calls happen synchronously on the
// goroutine driving the machine, after the engine state has been updated.
type Observer interface {
	// StateChanged is called after each committed transition
	StateChanged(from, to StateID)
	// Resolved is called once per Start, OnEvent and ForceStop that reached the callbacks.
	// err is nil on a clean settle.
	Resolved(op Op, state StateID, transitions uint, err error)
}

// StateChangeFunc adapts a function to an Observer that only watches state changes
type StateChangeFunc func(from, to StateID)

func (f StateChangeFunc) StateChanged(from, to StateID) {
	f(from, to)
}

func (f StateChangeFunc) Resolved(Op, StateID, uint, error) {}

func (m *Machine[C, E]) notifyChange(from, to StateID) {
	for _, obs := range m.observers {
		obs.StateChanged(from, to)
	}
}

func (m *Machine[C, E]) notifyResolved(op Op, state StateID, transitions uint, err error) {
	for _, obs := range m.observers {
		obs.Resolved(op, state, transitions, err)
	}
}
