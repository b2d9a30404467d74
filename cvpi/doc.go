// Package cvpi is the cgo backend of the vpi package: it links against the
// simulator's vpi_user.h entry points and exports vlog_startup_routines, so
// the package built with -buildmode=c-shared loads as a VPI plugin.
//
// The backend is only compiled with the vpi build tag. The simulator's
// include directory must be on the C include path and unresolved vpi_*
// symbols must be allowed at link time; they are bound when the simulator
// loads the library:
//
//	CGO_CFLAGS="$(iverilog-vpi --cflags)" \
//	CGO_LDFLAGS="-Wl,--unresolved-symbols=ignore-all" \
//	go build -tags vpi -buildmode=c-shared -o plugin.vpi ./cmd/simvpi-plugin
//
// Plugins add their startup routines from an init function:
//
//	func init() {
//		cvpi.Register(func(st *vpi.Startup) {
//			st.Register(st.NewCallback(vpi.ReasonStartOfSimulation).Call(onStart))
//		})
//	}
//
// The configuration file named by SIM_VPI_CONFIG controls logging, metrics
// and callback reclamation.
package cvpi
