package vpi

import (
	"github.com/wippyai/sim-vpi/errors"
)

// lastError polls the native last-error record after a fallible call and
// translates it. A nil result means the call succeeded.
func (s *Session) lastError(op errors.Op) error {
	var info ErrorInfo
	level := s.native.ChkError(&info)
	if level == 0 {
		return nil
	}
	err := translateError(op, level, &info)
	s.metrics.NativeError(string(op), string(err.Kind))
	return err
}

// failure reports a native call that signalled failure through its return
// value. The last-error record is consulted first; when it is empty the
// failure is unclassified.
func (s *Session) failure(op errors.Op, detail string) error {
	if err := s.lastError(op); err != nil {
		return err
	}
	s.metrics.NativeError(string(op), string(errors.KindUnknownSimulator))
	return errors.UnknownSimulator(op, detail)
}

// translateError decodes a native error record. Every string is copied out
// of the borrowed buffers before returning.
func translateError(op errors.Op, level int32, info *ErrorInfo) *errors.Error {
	state, err := errors.DecodeState(info.State)
	if err != nil {
		return errors.EnumConversion(op, info.State, "State")
	}
	code := info.Level
	if code == 0 {
		code = level
	}
	severity, err := errors.DecodeSeverity(code)
	if err != nil {
		return errors.EnumConversion(op, code, "Severity")
	}
	return errors.Simulator(op, errors.Diagnostic{
		State:    state,
		Severity: severity,
		Message:  string(info.Message),
		Product:  string(info.Product),
		Code:     string(info.Code),
		File:     string(info.File),
		Line:     info.Line,
	})
}
