//go:build vpi

package cvpi

/*
#include "shim.h"
*/
import "C"

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/sim-vpi/config"
	"github.com/wippyai/sim-vpi/vpi"
)

var (
	native  *Native
	current atomic.Pointer[vpi.Session]
)

// Current returns the session of this process, or nil before the simulator
// ran the startup hook.
func Current() *vpi.Session {
	return current.Load()
}

//export goStartup
func goStartup() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sim-vpi: %v, using defaults\n", err)
		cfg = config.Default()
	}
	native = newNative()
	s, err := Start(native, cfg, prometheus.DefaultRegisterer, pending...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sim-vpi: %v\n", err)
		return
	}
	current.Store(s)
}

// goTrampoline dispatches a fired descriptor. A one-shot registration is
// released once its routine returns.
//
//export goTrampoline
func goTrampoline(d C.p_cb_data) C.PLI_INT32 {
	if native == nil {
		return 0
	}
	ud := uintptr(C.shim_cb_user_data(d))
	r, ok := native.routines[ud]
	if !ok {
		return 0
	}
	data := &vpi.CallbackData{
		Routine:  r.fn,
		Obj:      handle(C.shim_cb_obj(d)),
		UserData: ud,
		Reason:   int32(d.reason),
		Index:    int32(d.index),
	}
	if d.time != nil {
		t := readTime(d.time)
		data.Time = &t
	}
	if d.value != nil {
		var v vpi.RawValue
		readValue(d.value, sizeOf(int32(d.value.format), data.Obj), &v)
		data.Value = &v
	}
	rc := r.fn(data)
	if vpi.CallbackReason(data.Reason).OneShot() {
		native.release(r.handle)
	}
	return C.PLI_INT32(rc)
}
