package simplefsm

import (
	"fmt"
	"slices"
)

// Config is the static description of a machine. Init copies it, so the caller may
// reuse or modify its Config afterwards.
type Config[C, E any] struct {
	Context            C // Passed unchanged to every callback
	Delegates          []Delegate[C, E]
	StateCount         uint
	InitialState       StateID
	MaxTransitionCount uint // Ceiling on transitions per Start or OnEvent call
}

// Validate checks the configuration. Failures wrap ErrInvalidConfig; missing delegates
// or callbacks wrap ErrMissingCallback.
func (c *Config[C, E]) Validate() error {
	if c.StateCount == 0 {
		return fmt.Errorf("%w: state count is zero", ErrInvalidConfig)
	}
	if c.MaxTransitionCount == 0 {
		return fmt.Errorf("%w: max transition count is zero", ErrInvalidConfig)
	}
	if uint(c.InitialState) >= c.StateCount {
		return fmt.Errorf("%w: initial state %d not below state count %d", ErrInvalidConfig, c.InitialState, c.StateCount)
	}
	if uint(len(c.Delegates)) < c.StateCount {
		return fmt.Errorf("%w: %d delegates for %d states", ErrMissingCallback, len(c.Delegates), c.StateCount)
	}
	for i := uint(0); i < c.StateCount; i++ {
		if name := c.Delegates[i].missing(); name != "" {
			return fmt.Errorf("%w: state %d has no %s handler", ErrMissingCallback, i, name)
		}
	}
	return nil
}

// clone copies the configuration, keeping only the first StateCount delegates
func (c *Config[C, E]) clone() Config[C, E] {
	out := *c
	out.Delegates = slices.Clone(c.Delegates[:c.StateCount])
	return out
}
