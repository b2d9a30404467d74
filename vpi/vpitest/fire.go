package vpitest

import (
	"github.com/wippyai/sim-vpi/vpi"
)

// Callbacks returns the live registrations in registration order.
func (s *Sim) Callbacks() []vpi.RawHandle {
	return append([]vpi.RawHandle(nil), s.cbOrder...)
}

// Callback returns the stored descriptor of a registration.
func (s *Sim) Callback(cb vpi.RawHandle) (*vpi.CallbackData, bool) {
	d, ok := s.callbacks[cb]
	return d, ok
}

// Fire invokes a registration's routine with its stored descriptor, the way
// a simulator does when the trigger condition occurs. One-shot reasons are
// retired afterwards. It returns false for unknown registrations.
func (s *Sim) Fire(cb vpi.RawHandle) bool {
	return s.FireWith(cb, nil)
}

// FireWith is Fire with a hook that may fill event fields (object, time,
// value) on a copy of the descriptor before the routine runs.
func (s *Sim) FireWith(cb vpi.RawHandle, fill func(*vpi.CallbackData)) bool {
	d, ok := s.callbacks[cb]
	if !ok {
		return false
	}
	ev := *d
	if fill != nil {
		fill(&ev)
	}
	ev.Routine(&ev)
	if vpi.CallbackReason(d.Reason).OneShot() {
		s.dropCallback(cb)
	}
	return true
}

// FireReason fires every live registration with the given reason and returns
// how many ran.
func (s *Sim) FireReason(reason vpi.CallbackReason) int {
	n := 0
	for _, h := range s.Callbacks() {
		d, ok := s.callbacks[h]
		if !ok || d.Reason != reason.Code() {
			continue
		}
		s.Fire(h)
		n++
	}
	return n
}
