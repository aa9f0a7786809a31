package simplefsm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig reports a structurally bad Config
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrMissingCallback reports a delegate slot without one of its callbacks.
	// Errors wrapping it also match ErrInvalidConfig.
	ErrMissingCallback = fmt.Errorf("%w: missing callback", ErrInvalidConfig)
	// ErrNotInitialised reports a call on a machine that was never initialised or was deinitialised
	ErrNotInitialised = errors.New("machine not initialised")
	// ErrNotStarted reports a call that needs a running machine
	ErrNotStarted = errors.New("machine not started")
	// ErrAlreadyStarted is returned by Start on a running machine. It is benign: nothing ran.
	ErrAlreadyStarted = errors.New("machine already started")
	// ErrOutOfBounds reports a callback requesting a state outside the delegate table
	ErrOutOfBounds = errors.New("state out of bounds")
	// ErrTimeout reports that the transition ceiling was reached before the machine settled
	ErrTimeout = errors.New("transition limit reached")
	// ErrIncomplete reports a forced stop whose exit handler requested another state
	ErrIncomplete = errors.New("stop incomplete")
)

// TransitionError describes a failed resolution. It wraps ErrOutOfBounds or ErrTimeout.
type TransitionError struct {
	Op          Op
	State       StateID // State the machine was left at
	Target      StateID // Offending target for ErrOutOfBounds, last request for ErrTimeout
	Transitions uint    // Transitions executed before the failure
	Err         error
}

func (e *TransitionError) Error() string {
	if errors.Is(e.Err, ErrOutOfBounds) {
		return fmt.Sprintf("%s: %v: state %d requested %d after %d transitions", e.Op, e.Err, e.State, e.Target, e.Transitions)
	}
	return fmt.Sprintf("%s: %v: %d transitions, at state %d requesting %d", e.Op, e.Err, e.Transitions, e.State, e.Target)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
