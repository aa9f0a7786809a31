// Package fsmtest provides scripted state delegates for testing code built on simplefsm.
//
// A Script plays back queued return values for each callback of each state and records
// every invocation, so tests can assert the exact callback order:
//
//	s := fsmtest.NewScript[any, int]("A", "B", "C")
//	s.Entry(0, 1).Entry(1, 2)
//	m, _ := simplefsm.New(s.Config(0, 100, nil))
//	m.Start()
//	s.AssertCalls(t, "A.entry", "A.exit", "B.entry", "B.exit", "C.entry")
package fsmtest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/librescoot/simplefsm"
)

// Kind names the callback of a recorded call
type Kind string

const (
	KindEntry Kind = "entry"
	KindEvent Kind = "event"
	KindExit  Kind = "exit"
)

// Call is one recorded callback invocation
type Call[C, E any] struct {
	State   simplefsm.StateID
	Kind    Kind
	Event   E // Zero unless Kind is KindEvent
	Context C
}

// Script is a delegate table whose callbacks return queued values.
// A callback with an empty queue repeats the last value it returned, or stays in its
// own state if nothing was ever queued.
type Script[C, E any] struct {
	names   []string
	queues  map[Kind][][]simplefsm.StateID
	last    map[Kind][]simplefsm.StateID
	calls   []Call[C, E]
	machine *simplefsm.Machine[C, E]
}

// NewScript creates a script with one state per name. State i is named names[i].
func NewScript[C, E any](names ...string) *Script[C, E] {
	s := &Script[C, E]{
		names:  names,
		queues: make(map[Kind][][]simplefsm.StateID),
		last:   make(map[Kind][]simplefsm.StateID),
	}
	for _, k := range []Kind{KindEntry, KindEvent, KindExit} {
		s.queues[k] = make([][]simplefsm.StateID, len(names))
		s.last[k] = make([]simplefsm.StateID, len(names))
		for i := range names {
			s.last[k][i] = simplefsm.StateID(i)
		}
	}
	return s
}

// Entry queues return values for the entry handler of state id
func (s *Script[C, E]) Entry(id simplefsm.StateID, returns ...simplefsm.StateID) *Script[C, E] {
	return s.queue(KindEntry, id, returns)
}

// Event queues return values for the event handler of state id
func (s *Script[C, E]) Event(id simplefsm.StateID, returns ...simplefsm.StateID) *Script[C, E] {
	return s.queue(KindEvent, id, returns)
}

// Exit queues return values for the exit handler of state id
func (s *Script[C, E]) Exit(id simplefsm.StateID, returns ...simplefsm.StateID) *Script[C, E] {
	return s.queue(KindExit, id, returns)
}

func (s *Script[C, E]) queue(k Kind, id simplefsm.StateID, returns []simplefsm.StateID) *Script[C, E] {
	s.queues[k][id] = append(s.queues[k][id], returns...)
	return s
}

func (s *Script[C, E]) next(k Kind, id simplefsm.StateID) simplefsm.StateID {
	q := s.queues[k][id]
	if len(q) > 0 {
		s.last[k][id] = q[0]
		s.queues[k][id] = q[1:]
	}
	return s.last[k][id]
}

func (s *Script[C, E]) record(m *simplefsm.Machine[C, E], c Call[C, E]) {
	s.machine = m
	s.calls = append(s.calls, c)
}

// Delegates returns the delegate table backed by this script
func (s *Script[C, E]) Delegates() []simplefsm.Delegate[C, E] {
	delegates := make([]simplefsm.Delegate[C, E], len(s.names))
	for i := range s.names {
		id := simplefsm.StateID(i)
		delegates[i] = simplefsm.Delegate[C, E]{
			OnEntry: func(m *simplefsm.Machine[C, E], ctx C) simplefsm.StateID {
				s.record(m, Call[C, E]{State: id, Kind: KindEntry, Context: ctx})
				return s.next(KindEntry, id)
			},
			OnEvent: func(m *simplefsm.Machine[C, E], event E, ctx C) simplefsm.StateID {
				s.record(m, Call[C, E]{State: id, Kind: KindEvent, Event: event, Context: ctx})
				return s.next(KindEvent, id)
			},
			OnExit: func(m *simplefsm.Machine[C, E], ctx C) simplefsm.StateID {
				s.record(m, Call[C, E]{State: id, Kind: KindExit, Context: ctx})
				return s.next(KindExit, id)
			},
		}
	}
	return delegates
}

// Config returns a configuration using the script's delegates
func (s *Script[C, E]) Config(initial simplefsm.StateID, maxTransitions uint, ctx C) simplefsm.Config[C, E] {
	return simplefsm.Config[C, E]{
		Context:            ctx,
		Delegates:          s.Delegates(),
		StateCount:         uint(len(s.names)),
		InitialState:       initial,
		MaxTransitionCount: maxTransitions,
	}
}

// Name returns the script name of id, or its number if it is out of range
func (s *Script[C, E]) Name(id simplefsm.StateID) string {
	if int(id) < len(s.names) {
		return s.names[id]
	}
	return fmt.Sprintf("#%d", id)
}

// Calls returns the recorded invocations as "<state>.<kind>" strings
func (s *Script[C, E]) Calls() []string {
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, s.Name(c.State)+"."+string(c.Kind))
	}
	return out
}

// Recorded returns the raw recorded invocations
func (s *Script[C, E]) Recorded() []Call[C, E] {
	return append([]Call[C, E](nil), s.calls...)
}

// Machine returns the machine passed to the most recent callback, or nil
func (s *Script[C, E]) Machine() *simplefsm.Machine[C, E] {
	return s.machine
}

// Reset forgets recorded calls. Queued return values are kept.
func (s *Script[C, E]) Reset() {
	s.calls = nil
	s.machine = nil
}

// AssertCalls checks that exactly the given calls were recorded, in order
func (s *Script[C, E]) AssertCalls(t testing.TB, want ...string) bool {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	return assert.Equal(t, want, s.Calls())
}
