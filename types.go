package simplefsm

import (
	"log/slog"
	"strconv"
)

// StateID identifies a state by its index in the delegate table
type StateID uint

// String returns the decimal form of the identifier
func (id StateID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Op names the public call that triggered a resolution
type Op string

const (
	OpStart     Op = "start"
	OpEvent     Op = "event"
	OpForceStop Op = "force_stop"
)

// DefaultMaxTransitions is the ceiling used by Definition when none is set
const DefaultMaxTransitions uint = 100

// Logger is the default logger used when none is provided
var Logger = slog.Default()
