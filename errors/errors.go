package errors

import (
	"fmt"
	"strings"
)

// Op names the boundary operation during which the error occurred
type Op string

const (
	OpIterate     Op = "iterate"      // child enumeration
	OpScan        Op = "scan"         // cursor advance
	OpGet         Op = "get"          // integer property query
	OpGetString   Op = "get_str"      // string property query
	OpHandle      Op = "handle"       // one-to-one relationship / lookup by name
	OpCompare     Op = "compare"      // object comparison
	OpValue       Op = "value"        // value query
	OpRegister    Op = "register_cb"  // callback registration
	OpRemove      Op = "remove_cb"    // callback removal
	OpControl     Op = "control"      // stop/finish/reset
	OpInfo        Op = "info"         // simulator info query
	OpPrint       Op = "print"        // simulator text output
	OpFlush       Op = "flush"        // simulator output flush
	OpDecode      Op = "decode"       // closed set decoding
	OpLoad        Op = "load"         // backend loading
	OpRun         Op = "run"          // guest simulation run
	OpConfig      Op = "config"       // configuration
	OpTrampoline  Op = "trampoline"   // callback dispatch
	OpLastError   Op = "chk_error"    // last-error query itself
	OpUnsupported Op = "unsupported"  // backend lacks the entry point
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownSimulator      Kind = "unknown_simulator"
	KindSimulator             Kind = "simulator"
	KindEnumConversion        Kind = "enum_conversion"
	KindOther                 Kind = "other"
	KindInvalidCallbackConfig Kind = "invalid_callback_config"
	KindInvalidInput          Kind = "invalid_input"
)

// Diagnostic is a classified native error record. Every string is owned by
// the Go heap; nothing here points into native memory.
type Diagnostic struct {
	Message  string
	Product  string
	Code     string
	File     string
	State    State
	Severity Severity
	Line     int32
}

// Error is the structured error type used throughout the library
type Error struct {
	Value      any
	Cause      error
	Diagnostic *Diagnostic
	Op         Op
	Kind       Kind
	Enum       string
	Detail     string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	switch e.Kind {
	case KindUnknownSimulator:
		b.WriteString(": unknown or unclassified error from the simulator")
	case KindEnumConversion:
		fmt.Fprintf(&b, ": could not convert %v (i32) to %s", e.Value, e.Enum)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if d := e.Diagnostic; d != nil {
		fmt.Fprintf(&b, ": state=%s severity=%s message=%q product=%q code=%q file=%q line=%d",
			d.State, d.Severity, d.Message, d.Product, d.Code, d.File, d.Line)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. An empty Op in the target
// matches any operation.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return (t.Op == "" || e.Op == t.Op) && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Enum sets the name of the closed set that failed to decode
func (b *Builder) Enum(name string) *Builder {
	b.err.Enum = name
	return b
}

// Diagnostic attaches a classified native record
func (b *Builder) Diagnostic(d Diagnostic) *Builder {
	b.err.Diagnostic = &d
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// UnknownSimulator creates an unclassified native error
func UnknownSimulator(op Op, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindUnknownSimulator,
		Detail: detail,
	}
}

// Simulator creates a classified native error
func Simulator(op Op, d Diagnostic) *Error {
	return &Error{
		Op:         op,
		Kind:       KindSimulator,
		Diagnostic: &d,
	}
}

// EnumConversion creates a closed set decode failure
func EnumConversion(op Op, value int32, enum string) *Error {
	return &Error{
		Op:    op,
		Kind:  KindEnumConversion,
		Value: value,
		Enum:  enum,
	}
}

// Other wraps a failure from a supporting facility
func Other(op Op, cause error) *Error {
	return &Error{
		Op:    op,
		Kind:  KindOther,
		Cause: cause,
	}
}

// InvalidCallbackConfig creates a callback builder validation error
func InvalidCallbackConfig(detail string, args ...any) *Error {
	return New(OpRegister, KindInvalidCallbackConfig).Detail(detail, args...).Build()
}

// InvalidInput creates an invalid input error
func InvalidInput(op Op, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(op Op, kind Kind, cause error, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// DiagnosticOf returns the classified record carried by err, if any.
func DiagnosticOf(err error) (Diagnostic, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Diagnostic != nil {
			return *e.Diagnostic, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return Diagnostic{}, false
}
