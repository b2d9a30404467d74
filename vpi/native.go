package vpi

// RawHandle is an opaque simulator-owned identifier. Zero is the null handle.
// This package never dereferences it; it is only stored and passed back.
type RawHandle uintptr

// Routine is the trampoline ABI: the native runtime invokes it with the
// descriptor of the registration that fired.
type Routine func(data *CallbackData) int32

// CallbackData is the native callback descriptor.
type CallbackData struct {
	Routine Routine
	Time    *RawTime
	Value   *RawValue
	Obj     RawHandle
	// UserData is the opaque slot handed back on every invocation. This
	// package stores a registry handle here, never a Go pointer.
	UserData uintptr
	Reason   int32
	Index    int32
}

// RawTime mirrors the native time record.
type RawTime struct {
	Real float64
	Type int32
	High uint32
	Low  uint32
}

// RawVector is one 32-bit word of a four-state vector value.
type RawVector struct {
	Aval uint32
	Bval uint32
}

// RawStrength is one bit of a strength value.
type RawStrength struct {
	Logic int32
	S0    int32
	S1    int32
}

// RawValue mirrors the native value record. Str, Vector and Strength may
// alias native-owned buffers and are only valid until the next native call.
type RawValue struct {
	Str      []byte
	Vector   []RawVector
	Strength []RawStrength
	Time     RawTime
	Real     float64
	Format   int32
	Scalar   int32
	Integer  int32
}

// ErrorInfo mirrors the native last-error record. The byte slices are
// borrowed from the native layer and must be copied before the next call.
type ErrorInfo struct {
	Message []byte
	Product []byte
	Code    []byte
	File    []byte
	State   int32
	Level   int32
	Line    int32
}

// VlogInfo mirrors the native tool information record. All slices are
// borrowed.
type VlogInfo struct {
	Argv    [][]byte
	Product []byte
	Version []byte
}

// Native is the procedural simulator interface this package wraps. It is not
// reentrant, not thread-safe, and phase-gated; implementations perform no
// checks of their own. Every method maps to one C entry point of the IEEE
// 1364 VPI.
type Native interface {
	// Iterate begins a child enumeration; a zero ref searches the roots.
	// A zero result means there are no matching objects.
	Iterate(objType int32, ref RawHandle) RawHandle

	// Scan advances an iteration cursor; zero means exhausted, after which
	// the cursor is no longer valid.
	Scan(iterator RawHandle) RawHandle

	Get(prop int32, obj RawHandle) int32
	Get64(prop int32, obj RawHandle) int64

	// GetStr returns a borrowed view of a property string, or nil when the
	// native layer returned a null pointer.
	GetStr(prop int32, obj RawHandle) []byte

	// Handle follows a one-to-one relationship.
	Handle(objType int32, ref RawHandle) RawHandle
	HandleByName(name string, scope RawHandle) RawHandle

	CompareObjects(a, b RawHandle) bool
	GetValue(obj RawHandle, value *RawValue)

	RegisterCallback(data *CallbackData) RawHandle
	RemoveCallback(cb RawHandle) bool

	// ChkError fills info from the last native call and returns its error
	// level, or 0 when that call succeeded.
	ChkError(info *ErrorInfo) int32

	Control(op int32, diag int32) bool

	// WriteText writes text to the simulator output and returns the number
	// of bytes written, or a negative value on failure.
	WriteText(text []byte) int32
	Flush() int32

	VlogInfo(info *VlogInfo) bool
}
