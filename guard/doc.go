// Package guard enforces the two global invariants the native simulator
// interface assumes but never checks: that the startup (configuration) phase
// has completed, and that calls come from the single designated thread.
//
// A Guard holds two independent one-shot latches:
//
//	startup finished   set once by the loader glue after every startup routine returns
//	main thread        set once with the identity of the simulation thread
//
// Setting a latch twice is a programming error and panics. The Assert methods
// panic with a *Violation when their latch is unset, or when the calling
// thread is not the recorded one:
//
//	g := guard.New()
//	g.MarkMainThread(guard.CurrentThread())
//	// ... run startup routines ...
//	g.MarkStartupFinished()
//
//	g.AssertNotInStartup("vpi_scan")
//	g.AssertOnMainThread("vpi_scan")
//
// Thread identity defaults to the operating system thread id. Native
// callbacks arrive on the simulator's own thread, and goroutines that call
// into the simulator must hold runtime.LockOSThread for the check to be
// meaningful. Tests substitute a simulated identity with WithThreadID.
package guard
