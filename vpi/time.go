package vpi

import (
	"fmt"

	"github.com/wippyai/sim-vpi/errors"
)

// TimeKind selects the representation of a Time.
type TimeKind int32

const (
	TimeScaledReal TimeKind = 1 // vpiScaledRealTime
	TimeSim        TimeKind = 2 // vpiSimTime
	TimeSuppress   TimeKind = 3 // vpiSuppressTime
)

var timeKindNames = map[TimeKind]string{
	TimeScaledReal: "ScaledReal",
	TimeSim:        "Sim",
	TimeSuppress:   "Suppress",
}

// DecodeTimeKind maps a native code to its TimeKind.
func DecodeTimeKind(code int32) (TimeKind, error) {
	k := TimeKind(code)
	if _, ok := timeKindNames[k]; !ok {
		return 0, errors.EnumConversion(errors.OpDecode, code, "TimeKind")
	}
	return k, nil
}

// Code returns the native integer constant.
func (k TimeKind) Code() int32 { return int32(k) }

func (k TimeKind) String() string {
	if name, ok := timeKindNames[k]; ok {
		return name
	}
	return "TimeKind(?)"
}

// Time is a simulation time. Sim is meaningful for TimeSim, Real for
// TimeScaledReal; a suppressed time carries neither.
type Time struct {
	Sim  uint64
	Real float64
	Kind TimeKind
}

// SimTime returns a time in simulator ticks.
func SimTime(ticks uint64) Time {
	return Time{Kind: TimeSim, Sim: ticks}
}

// ScaledRealTime returns a time in the timescale of the target object.
func ScaledRealTime(t float64) Time {
	return Time{Kind: TimeScaledReal, Real: t}
}

// SuppressTime returns a time that asks the simulator not to report one.
func SuppressTime() Time {
	return Time{Kind: TimeSuppress}
}

func (t Time) String() string {
	switch t.Kind {
	case TimeSim:
		return fmt.Sprintf("%d", t.Sim)
	case TimeScaledReal:
		return fmt.Sprintf("%g", t.Real)
	case TimeSuppress:
		return "suppressed"
	}
	return "Time(?)"
}

func (t Time) raw() RawTime {
	return RawTime{
		Type: int32(t.Kind),
		High: uint32(t.Sim >> 32),
		Low:  uint32(t.Sim),
		Real: t.Real,
	}
}

func timeFromRaw(r RawTime) (Time, error) {
	kind, err := DecodeTimeKind(r.Type)
	if err != nil {
		return Time{}, err
	}
	t := Time{Kind: kind}
	switch kind {
	case TimeSim:
		t.Sim = uint64(r.High)<<32 | uint64(r.Low)
	case TimeScaledReal:
		t.Real = r.Real
	}
	return t, nil
}
