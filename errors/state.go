package errors

// State is the simulator phase reported in a last-error record.
type State int32

const (
	StateCompile State = 1 // vpiCompile
	StatePLI     State = 2 // vpiPLI
	StateRun     State = 3 // vpiRun
)

var stateNames = map[State]string{
	StateCompile: "Compile",
	StatePLI:     "PLI",
	StateRun:     "Run",
}

// DecodeState converts a native state code, failing for codes outside the set.
func DecodeState(code int32) (State, error) {
	s := State(code)
	if _, ok := stateNames[s]; !ok {
		return 0, EnumConversion(OpDecode, code, "State")
	}
	return s, nil
}

// Code returns the native integer constant.
func (s State) Code() int32 { return int32(s) }

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "State(?)"
}

// Severity is the error level reported in a last-error record.
type Severity int32

const (
	SeverityNotice   Severity = 1 // vpiNotice
	SeverityWarning  Severity = 2 // vpiWarning
	SeverityError    Severity = 3 // vpiError
	SeveritySystem   Severity = 4 // vpiSystem
	SeverityInternal Severity = 5 // vpiInternal
)

var severityNames = map[Severity]string{
	SeverityNotice:   "Notice",
	SeverityWarning:  "Warning",
	SeverityError:    "Error",
	SeveritySystem:   "System",
	SeverityInternal: "Internal",
}

// DecodeSeverity converts a native level code, failing for codes outside the set.
func DecodeSeverity(code int32) (Severity, error) {
	s := Severity(code)
	if _, ok := severityNames[s]; !ok {
		return 0, EnumConversion(OpDecode, code, "Severity")
	}
	return s, nil
}

// Code returns the native integer constant.
func (s Severity) Code() int32 { return int32(s) }

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "Severity(?)"
}

// States lists every member of the State closed set.
func States() []State {
	return []State{StateCompile, StatePLI, StateRun}
}

// Severities lists every member of the Severity closed set.
func Severities() []Severity {
	return []Severity{SeverityNotice, SeverityWarning, SeverityError, SeveritySystem, SeverityInternal}
}
