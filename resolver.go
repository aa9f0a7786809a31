package simplefsm

// resolve chains exit/entry pairs until an entry handler asks to stay, a handler
// requests a state outside the table, or MaxTransitionCount transitions have run.
//
// Each transition is: exit(current), then enter either the exit handler's request (if
// it asked to go elsewhere) or next. Reaching the ceiling reports ErrTimeout even when
// the last entry handler settled.
func (m *Machine[C, E]) resolve(op Op, next StateID) error {
	var transitions uint

	for next != m.current {
		from := m.current

		m.log().Debug("exiting state", "state", from, "requested", next)
		target := m.config.Delegates[from].OnExit(m, m.config.Context)
		if target == from {
			target = next
		} else {
			m.log().Debug("exit handler redirected", "state", from, "requested", next, "redirect", target)
		}

		if uint(target) >= m.config.StateCount {
			return m.fail(op, target, transitions, ErrOutOfBounds)
		}

		m.current = target
		m.notifyChange(from, target)

		m.log().Debug("entering state", "state", target, "from", from)
		next = m.config.Delegates[target].OnEntry(m, m.config.Context)

		transitions++
		if transitions >= m.config.MaxTransitionCount {
			return m.fail(op, next, transitions, ErrTimeout)
		}
	}

	m.log().Debug("settled", "op", op, "state", m.current, "transitions", transitions)
	m.notifyResolved(op, m.current, transitions, nil)
	return nil
}

func (m *Machine[C, E]) fail(op Op, target StateID, transitions uint, kind error) error {
	err := &TransitionError{
		Op:          op,
		State:       m.current,
		Target:      target,
		Transitions: transitions,
		Err:         kind,
	}
	m.log().Debug("resolution failed", "op", op, "state", m.current, "target", target, "transitions", transitions, "error", kind)
	m.notifyResolved(op, m.current, transitions, err)
	return err
}
