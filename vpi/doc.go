// Package vpi is a safe layer over the IEEE 1364 Verilog Procedural
// Interface, the non-reentrant, phase-gated C interface simulators expose
// to plugins.
//
// A Session wraps one Native implementation. Every operation that reaches
// the simulator first checks the session's guard: the startup phase must be
// over and the caller must be the designated simulation thread. Misuse
// panics with a *guard.Violation. Native failures are returned as
// *errors.Error values built from the simulator's last-error record.
//
// Loader glue drives the lifecycle:
//
//	s := vpi.New(native, vpi.WithLogger(log))
//	s.MarkMainThread()
//	s.RunStartupRoutines(func(st *vpi.Startup) {
//	    st.Register(st.NewCallback(vpi.ReasonStartOfSimulation).Call(onStart))
//	})
//
// After startup, objects are reached through iterators and lookups:
//
//	it, err := s.IterateRoots(vpi.ObjModule)
//	if err != nil {
//	    return err
//	}
//	for mod := range it.All() {
//	    name, _ := mod.FullName()
//	    s.Printf("%s\n", name)
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
//
// # Callbacks
//
// A registration's closure lives in the session's registry. The native
// descriptor carries only the registry handle in its user-data slot, and the
// trampoline looks the closure up on every invocation, so closures may fire
// any number of times. A registration is released by RemoveCallback or, for
// everything still live, by Session.Close at simulation teardown. One-shot
// reasons (see CallbackReason.OneShot) fire once: the simulator retires them
// and the trampoline releases their slot after the closure returns, so a
// later RemoveCallback on them fails.
//
// # Handles
//
// ObjectHandle values are never freed explicitly; native handle disposal is
// left to the simulator. Equality goes through vpi_compare_objects.
package vpi
