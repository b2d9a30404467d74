// Package wasmsim runs a simulator compiled to WebAssembly under wazero and
// exposes it as a vpi.Native.
//
// The guest exports its linear memory, malloc and free, the vpi_* entry
// points it implements, and sim_run. Pointers are wasm32 offsets and handles
// are i32 values. Descriptors use the wasm32 layouts of vpi_user.h:
//
//	t_cb_data          28 bytes  reason obj time value index user_data
//	s_vpi_time         24 bytes  type high low real@16
//	s_vpi_error_info   28 bytes  state level message product code file line
//	s_vpi_vlog_info    16 bytes  argc argv product version
//	s_vpi_value        16 bytes  format union@8
//
// Guest function pointers cannot reach the host, so the cb_rtn field is
// left zero. When a registration fires the guest calls the host import
//
//	vpi_host.callback(cb_data_ptr i32) -> i32
//
// with the descriptor it was given. The host reads the user data from it and
// dispatches to the routine the registration was made with.
//
// An entry point the guest does not export, a trap, or an out-of-bounds
// pointer is reported by the next ChkError as a classified error from
// product "wasmsim".
//
//	sim, err := wasmsim.Load(ctx, wasmBytes, &wasmsim.Config{EnableWASI: true})
//	if err != nil {
//	    return err
//	}
//	defer sim.Close(ctx)
//
//	s := vpi.New(sim)
//	s.MarkMainThread()
//	s.RunStartupRoutines(routines...)
//	return sim.Run(ctx)
package wasmsim
