package vpi

import "github.com/wippyai/sim-vpi/errors"

// CallbackReason is the trigger condition of a callback registration.
type CallbackReason int32

const (
	ReasonValueChange            CallbackReason = 1
	ReasonStmt                   CallbackReason = 2
	ReasonForce                  CallbackReason = 3
	ReasonRelease                CallbackReason = 4
	ReasonAtStartOfSimTime       CallbackReason = 5
	ReasonReadWriteSynch         CallbackReason = 6
	ReasonReadOnlySynch          CallbackReason = 7
	ReasonNextSimTime            CallbackReason = 8
	ReasonAfterDelay             CallbackReason = 9
	ReasonEndOfCompile           CallbackReason = 10
	ReasonStartOfSimulation      CallbackReason = 11
	ReasonEndOfSimulation        CallbackReason = 12
	ReasonError                  CallbackReason = 13
	ReasonTchkViolation          CallbackReason = 14
	ReasonStartOfSave            CallbackReason = 15
	ReasonEndOfSave              CallbackReason = 16
	ReasonStartOfRestart         CallbackReason = 17
	ReasonEndOfRestart           CallbackReason = 18
	ReasonStartOfReset           CallbackReason = 19
	ReasonEndOfReset             CallbackReason = 20
	ReasonEnterInteractive       CallbackReason = 21
	ReasonExitInteractive        CallbackReason = 22
	ReasonInteractiveScopeChange CallbackReason = 23
	ReasonUnresolvedSystf        CallbackReason = 24
	ReasonAssign                 CallbackReason = 25
	ReasonDeassign               CallbackReason = 26
	ReasonDisable                CallbackReason = 27
	ReasonPLIError               CallbackReason = 28
	ReasonSignal                 CallbackReason = 29
	ReasonNBASynch               CallbackReason = 30
	ReasonAtEndOfSimTime         CallbackReason = 31
)

var reasonNames = map[CallbackReason]string{
	ReasonValueChange:            "ValueChange",
	ReasonStmt:                   "Stmt",
	ReasonForce:                  "Force",
	ReasonRelease:                "Release",
	ReasonAtStartOfSimTime:       "AtStartOfSimTime",
	ReasonReadWriteSynch:         "ReadWriteSynch",
	ReasonReadOnlySynch:          "ReadOnlySynch",
	ReasonNextSimTime:            "NextSimTime",
	ReasonAfterDelay:             "AfterDelay",
	ReasonEndOfCompile:           "EndOfCompile",
	ReasonStartOfSimulation:      "StartOfSimulation",
	ReasonEndOfSimulation:        "EndOfSimulation",
	ReasonError:                  "Error",
	ReasonTchkViolation:          "TchkViolation",
	ReasonStartOfSave:            "StartOfSave",
	ReasonEndOfSave:              "EndOfSave",
	ReasonStartOfRestart:         "StartOfRestart",
	ReasonEndOfRestart:           "EndOfRestart",
	ReasonStartOfReset:           "StartOfReset",
	ReasonEndOfReset:             "EndOfReset",
	ReasonEnterInteractive:       "EnterInteractive",
	ReasonExitInteractive:        "ExitInteractive",
	ReasonInteractiveScopeChange: "InteractiveScopeChange",
	ReasonUnresolvedSystf:        "UnresolvedSystf",
	ReasonAssign:                 "Assign",
	ReasonDeassign:               "Deassign",
	ReasonDisable:                "Disable",
	ReasonPLIError:               "PLIError",
	ReasonSignal:                 "Signal",
	ReasonNBASynch:               "NBASynch",
	ReasonAtEndOfSimTime:         "AtEndOfSimTime",
}

// CallbackReasons lists every member of the closed set.
func CallbackReasons() []CallbackReason {
	out := make([]CallbackReason, 0, len(reasonNames))
	for r := ReasonValueChange; r <= ReasonAtEndOfSimTime; r++ {
		out = append(out, r)
	}
	return out
}

// DecodeCallbackReason maps a native code to its CallbackReason.
func DecodeCallbackReason(code int32) (CallbackReason, error) {
	r := CallbackReason(code)
	if _, ok := reasonNames[r]; !ok {
		return 0, errors.EnumConversion(errors.OpDecode, code, "CallbackReason")
	}
	return r, nil
}

// Code returns the native integer constant.
func (r CallbackReason) Code() int32 { return int32(r) }

func (r CallbackReason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "CallbackReason(?)"
}

// timeDriven reports whether the reason is scheduled by simulation time and
// therefore needs a time specification.
func (r CallbackReason) timeDriven() bool {
	switch r {
	case ReasonAtStartOfSimTime, ReasonReadWriteSynch, ReasonReadOnlySynch,
		ReasonNextSimTime, ReasonAfterDelay, ReasonAtEndOfSimTime:
		return true
	}
	return false
}

// OneShot reports whether the simulator retires a registration for this
// reason after firing it once.
func (r CallbackReason) OneShot() bool {
	return r.timeDriven()
}

// objectDriven reports whether the reason watches a specific object.
func (r CallbackReason) objectDriven() bool {
	switch r {
	case ReasonValueChange, ReasonForce, ReasonRelease:
		return true
	}
	return false
}
