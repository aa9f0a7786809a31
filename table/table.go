// Package table builds simplefsm machines from declarative redirect tables.
//
// A table lists states by name. Each state may request a follow-up state on entry,
// divert the destination on exit, and map event names to target states. Anything
// left unset keeps the machine where it is. Targets of the form "!N" name the raw
// state identifier N, which allows tables that deliberately point outside the
// state list.
package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/librescoot/simplefsm"
)

// ErrInvalidTable reports a table that cannot be compiled
var ErrInvalidTable = errors.New("invalid table")

// rawPrefix marks a target given as a numeric state identifier
const rawPrefix = "!"

// State describes one state of a table
type State struct {
	Name   string            `yaml:"name" toml:"name"`
	Entry  string            `yaml:"entry,omitempty" toml:"entry,omitempty"`
	Exit   string            `yaml:"exit,omitempty" toml:"exit,omitempty"`
	Events map[string]string `yaml:"events,omitempty" toml:"events,omitempty"`
}

// Table is a complete machine description
type Table struct {
	Initial        string  `yaml:"initial" toml:"initial"`
	MaxTransitions uint    `yaml:"max_transitions,omitempty" toml:"max_transitions,omitempty"`
	States         []State `yaml:"states" toml:"states"`
}

// Trace collects the callbacks run by a compiled table, as "<state>.<callback>" strings
type Trace struct {
	Calls []string
}

func (t *Trace) add(state, call string) {
	t.Calls = append(t.Calls, state+"."+call)
}

// Index returns the identifier of the named state
func (t *Table) Index(name string) (simplefsm.StateID, bool) {
	for i, s := range t.States {
		if s.Name == name {
			return simplefsm.StateID(i), true
		}
	}
	return 0, false
}

// Name returns the name of id, or its raw form if id is not in the table
func (t *Table) Name(id simplefsm.StateID) string {
	if int(id) < len(t.States) {
		return t.States[id].Name
	}
	return rawPrefix + id.String()
}

// Validate checks names and targets
func (t *Table) Validate() error {
	if len(t.States) == 0 {
		return fmt.Errorf("%w: no states", ErrInvalidTable)
	}

	seen := make(map[string]bool, len(t.States))
	for i, s := range t.States {
		if s.Name == "" {
			return fmt.Errorf("%w: state %d has no name", ErrInvalidTable, i)
		}
		if strings.HasPrefix(s.Name, rawPrefix) {
			return fmt.Errorf("%w: state name %q uses reserved prefix %q", ErrInvalidTable, s.Name, rawPrefix)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate state %q", ErrInvalidTable, s.Name)
		}
		seen[s.Name] = true
	}

	if t.Initial == "" {
		return fmt.Errorf("%w: no initial state defined", ErrInvalidTable)
	}
	if !seen[t.Initial] {
		return fmt.Errorf("%w: initial state %q not defined", ErrInvalidTable, t.Initial)
	}

	for _, s := range t.States {
		if _, err := t.target(s.Entry); err != nil {
			return fmt.Errorf("%w: state %q entry: %w", ErrInvalidTable, s.Name, err)
		}
		if _, err := t.target(s.Exit); err != nil {
			return fmt.Errorf("%w: state %q exit: %w", ErrInvalidTable, s.Name, err)
		}
		for ev, to := range s.Events {
			if _, err := t.target(to); err != nil {
				return fmt.Errorf("%w: state %q event %q: %w", ErrInvalidTable, s.Name, ev, err)
			}
		}
	}
	return nil
}

// target resolves a target reference. The empty reference resolves to -1 (stay).
func (t *Table) target(ref string) (int, error) {
	if ref == "" {
		return -1, nil
	}
	if raw, ok := strings.CutPrefix(ref, rawPrefix); ok {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("bad raw target %q: %w", ref, err)
		}
		return int(n), nil
	}
	if id, ok := t.Index(ref); ok {
		return int(id), nil
	}
	return 0, fmt.Errorf("undefined target %q", ref)
}

// Compile validates the table and produces a machine configuration whose callbacks
// record into trace
func (t *Table) Compile(trace *Trace) (simplefsm.Config[*Trace, string], error) {
	if err := t.Validate(); err != nil {
		return simplefsm.Config[*Trace, string]{}, err
	}

	delegates := make([]simplefsm.Delegate[*Trace, string], len(t.States))
	for i, s := range t.States {
		delegates[i] = t.delegate(simplefsm.StateID(i), s)
	}

	initial, _ := t.Index(t.Initial)
	maxTransitions := t.MaxTransitions
	if maxTransitions == 0 {
		maxTransitions = simplefsm.DefaultMaxTransitions
	}

	return simplefsm.Config[*Trace, string]{
		Context:            trace,
		Delegates:          delegates,
		StateCount:         uint(len(t.States)),
		InitialState:       initial,
		MaxTransitionCount: maxTransitions,
	}, nil
}

func (t *Table) delegate(id simplefsm.StateID, s State) simplefsm.Delegate[*Trace, string] {
	resolve := func(ref string) simplefsm.StateID {
		n, _ := t.target(ref)
		if n < 0 {
			return id
		}
		return simplefsm.StateID(n)
	}

	entry := resolve(s.Entry)
	exit := resolve(s.Exit)
	events := make(map[string]simplefsm.StateID, len(s.Events))
	for ev, to := range s.Events {
		events[ev] = resolve(to)
	}

	return simplefsm.Delegate[*Trace, string]{
		OnEntry: func(_ *simplefsm.Machine[*Trace, string], tr *Trace) simplefsm.StateID {
			tr.add(s.Name, "entry")
			return entry
		},
		OnEvent: func(_ *simplefsm.Machine[*Trace, string], ev string, tr *Trace) simplefsm.StateID {
			tr.add(s.Name, "event("+ev+")")
			if to, ok := events[ev]; ok {
				return to
			}
			return id
		},
		OnExit: func(_ *simplefsm.Machine[*Trace, string], tr *Trace) simplefsm.StateID {
			tr.add(s.Name, "exit")
			return exit
		},
	}
}
