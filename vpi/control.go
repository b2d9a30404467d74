package vpi

import (
	"fmt"

	"github.com/wippyai/sim-vpi/errors"
)

// DiagnosticLevel selects what the simulator prints when it stops or
// finishes.
type DiagnosticLevel int32

const (
	DiagnosticNone            DiagnosticLevel = 0
	DiagnosticTimeAndLocation DiagnosticLevel = 1
	DiagnosticStatistics      DiagnosticLevel = 2
)

// Native vpi_control operations.
const (
	controlStop   int32 = 66
	controlFinish int32 = 67
	controlReset  int32 = 68
)

var controlNames = map[int32]string{
	controlStop:   "stop",
	controlFinish: "finish",
	controlReset:  "reset",
}

// Stop suspends the simulation as $stop does.
func (s *Session) Stop(level DiagnosticLevel) error {
	return s.control(controlStop, level)
}

// Finish ends the simulation as $finish does.
func (s *Session) Finish(level DiagnosticLevel) error {
	return s.control(controlFinish, level)
}

// Reset restarts the simulation from time zero.
func (s *Session) Reset(level DiagnosticLevel) error {
	return s.control(controlReset, level)
}

func (s *Session) control(op int32, level DiagnosticLevel) error {
	s.guard.Check("Session." + controlNames[op])
	if level < DiagnosticNone || level > DiagnosticStatistics {
		return errors.InvalidInput(errors.OpControl, fmt.Sprintf("diagnostic level %d out of range", level))
	}
	s.call(errors.OpControl)
	if !s.native.Control(op, int32(level)) {
		return s.failure(errors.OpControl, fmt.Sprintf("simulator rejected %s", controlNames[op]))
	}
	return nil
}
