// Package errors provides structured error types for the sim-vpi library.
//
// Errors are categorized by Op (which boundary operation failed) and Kind
// (error category). Simulator-classified failures carry a Diagnostic copied
// out of the native last-error record.
//
// The four categories of failure a caller can observe are:
//
//	unknown_simulator  native call failed, last-error query had nothing to say
//	simulator          native call failed with a full diagnostic record
//	enum_conversion    an integer from the native layer is not in a closed set
//	other              a supporting facility failed (string validation, I/O)
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.OpGet, errors.KindUnknownSimulator).
//		Detail("property %s is not boolean", prop).
//		Value(raw).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.EnumConversion(errors.OpGet, 42, "ObjectType")
//	err := errors.Simulator(errors.OpScan, diag)
//
// All errors implement the standard error interface and support errors.Is/As.
//
// Misuse of the native interface (calling it during startup or from the wrong
// thread) is never reported through this package. Those are programming
// errors and panic; see package guard.
package errors
