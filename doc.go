// Package simvpi is a safe Go layer over the IEEE 1364 Verilog Procedural
// Interface (VPI): the C API a logic simulator exposes to plugins for
// walking the design hierarchy, reading values, registering callbacks and
// writing to the simulator transcript.
//
// # Architecture Overview
//
//	simvpi/
//	├── vpi/             Session, handles, iterators, callbacks, output
//	│   └── vpitest/     In-memory simulator for tests
//	├── guard/           Startup-phase and main-thread latches
//	├── registry/        Generation-tagged handle table for callback closures
//	├── errors/          Classified errors and simulator diagnostics
//	├── metrics/         Prometheus collector for native calls and callbacks
//	├── config/          YAML configuration, logger and session options
//	├── cvpi/            cgo backend and vlog_startup_routines (tag vpi)
//	├── wasmsim/         Simulator compiled to WebAssembly, run under wazero
//	└── cmd/
//	    ├── run/         Runs a wasm simulator, prints or browses the hierarchy
//	    └── plugin/      Loadable VPI plugin (tag vpi, c-shared)
//
// # Safety Model
//
// The native interface is neither reentrant nor thread-safe and is
// phase-gated: during startup only callback registration is legal. Every
// operation in package vpi checks two one-shot latches held by a guard.Guard
// and panics with *guard.Violation on misuse. Runtime failures reported by
// the simulator come back as *errors.Error values.
//
// Callback closures never cross the native boundary. Each registration is
// stored in a registry.Table and the native descriptor carries only the
// table handle; a single trampoline resolves it when the simulator fires.
//
// # Quick Start
//
//	s := vpi.New(native)
//	s.MarkMainThread()
//	s.RunStartupRoutines(func(st *vpi.Startup) {
//	    st.Register(st.NewCallback(vpi.ReasonStartOfSimulation).Call(func(vpi.CallbackEvent) {
//	        it, _ := s.IterateRoots(vpi.ObjModule)
//	        for top := range it.All() {
//	            name, _ := top.Name()
//	            s.Printf("top: %s\n", name)
//	        }
//	    }))
//	})
package simvpi
