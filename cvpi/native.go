//go:build vpi

package cvpi

/*
#cgo CFLAGS: -I/usr/include/iverilog -I/usr/local/include/iverilog
#include <string.h>
#include "shim.h"
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/sim-vpi/vpi"
)

const propSize = C.PLI_INT32(vpi.PropSize)

// registration is the C memory backing one registered descriptor.
type registration struct {
	data     C.p_cb_data
	userData uintptr
}

// routine is what the trampoline resolves descriptor user data to.
type routine struct {
	fn     vpi.Routine
	handle vpi.RawHandle
}

// Native calls the simulator's VPI entry points through the C shim. It holds
// no locks: the session guard confines every call to the main thread.
type Native struct {
	routines map[uintptr]routine
	regs     map[vpi.RawHandle]registration
}

var _ vpi.Native = (*Native)(nil)

func newNative() *Native {
	return &Native{
		routines: make(map[uintptr]routine),
		regs:     make(map[vpi.RawHandle]registration),
	}
}

func raw(h vpi.RawHandle) C.uintptr_t {
	return C.uintptr_t(h)
}

func handle(h C.uintptr_t) vpi.RawHandle {
	return vpi.RawHandle(h)
}

// borrow views a NUL-terminated C string without copying. Nil maps to nil.
func borrow(p unsafe.Pointer) []byte {
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), int(C.strlen((*C.char)(p))))
}

func (n *Native) Iterate(objType int32, ref vpi.RawHandle) vpi.RawHandle {
	return handle(C.shim_iterate(C.PLI_INT32(objType), raw(ref)))
}

func (n *Native) Scan(iterator vpi.RawHandle) vpi.RawHandle {
	return handle(C.shim_scan(raw(iterator)))
}

func (n *Native) Get(prop int32, obj vpi.RawHandle) int32 {
	return int32(C.shim_get(C.PLI_INT32(prop), raw(obj)))
}

func (n *Native) Get64(prop int32, obj vpi.RawHandle) int64 {
	return int64(C.shim_get64(C.PLI_INT32(prop), raw(obj)))
}

func (n *Native) GetStr(prop int32, obj vpi.RawHandle) []byte {
	return borrow(unsafe.Pointer(C.shim_get_str(C.PLI_INT32(prop), raw(obj))))
}

func (n *Native) Handle(objType int32, ref vpi.RawHandle) vpi.RawHandle {
	return handle(C.shim_handle(C.PLI_INT32(objType), raw(ref)))
}

func (n *Native) HandleByName(name string, scope vpi.RawHandle) vpi.RawHandle {
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))
	return handle(C.shim_handle_by_name(cs, raw(scope)))
}

func (n *Native) CompareObjects(a, b vpi.RawHandle) bool {
	return C.shim_compare(raw(a), raw(b)) != 0
}

func (n *Native) GetValue(obj vpi.RawHandle, value *vpi.RawValue) {
	size := sizeOf(value.Format, obj)
	cv := C.p_vpi_value(C.calloc(1, C.sizeof_s_vpi_value))
	defer C.free(unsafe.Pointer(cv))
	cv.format = C.PLI_INT32(value.Format)
	C.shim_get_value(raw(obj), cv)
	readValue(cv, size, value)
}

// RegisterCallback copies the descriptor into C memory that stays allocated
// until the registration is removed.
func (n *Native) RegisterCallback(data *vpi.CallbackData) vpi.RawHandle {
	d := C.p_cb_data(C.calloc(1, C.sizeof_s_cb_data))
	d.reason = C.PLI_INT32(data.Reason)
	d.index = C.PLI_INT32(data.Index)
	if t := data.Time; t != nil {
		ct := C.p_vpi_time(C.calloc(1, C.sizeof_s_vpi_time))
		ct._type = C.PLI_INT32(t.Type)
		ct.high = C.PLI_UINT32(t.High)
		ct.low = C.PLI_UINT32(t.Low)
		ct.real = C.double(t.Real)
		d.time = ct
	}
	if v := data.Value; v != nil {
		cv := C.p_vpi_value(C.calloc(1, C.sizeof_s_vpi_value))
		cv.format = C.PLI_INT32(v.Format)
		d.value = cv
	}

	h := handle(C.shim_register_cb(d, raw(data.Obj), C.uintptr_t(data.UserData)))
	if h == 0 {
		freeData(d)
		return 0
	}
	n.routines[data.UserData] = routine{fn: data.Routine, handle: h}
	n.regs[h] = registration{data: d, userData: data.UserData}
	return h
}

func (n *Native) RemoveCallback(cb vpi.RawHandle) bool {
	if C.shim_remove_cb(raw(cb)) == 0 {
		return false
	}
	n.release(cb)
	return true
}

// release forgets a registration the simulator no longer holds and frees its
// descriptor.
func (n *Native) release(cb vpi.RawHandle) {
	reg, ok := n.regs[cb]
	if !ok {
		return
	}
	delete(n.regs, cb)
	delete(n.routines, reg.userData)
	freeData(reg.data)
}

func freeData(d C.p_cb_data) {
	if d.time != nil {
		C.free(unsafe.Pointer(d.time))
	}
	if d.value != nil {
		C.free(unsafe.Pointer(d.value))
	}
	C.free(unsafe.Pointer(d))
}

func (n *Native) ChkError(info *vpi.ErrorInfo) int32 {
	ci := C.p_vpi_error_info(C.calloc(1, C.sizeof_s_vpi_error_info))
	defer C.free(unsafe.Pointer(ci))
	level := int32(C.vpi_chk_error(ci))
	if level == 0 {
		*info = vpi.ErrorInfo{}
		return 0
	}
	*info = vpi.ErrorInfo{
		Message: borrow(unsafe.Pointer(ci.message)),
		Product: borrow(unsafe.Pointer(ci.product)),
		Code:    borrow(unsafe.Pointer(ci.code)),
		File:    borrow(unsafe.Pointer(ci.file)),
		State:   int32(ci.state),
		Level:   int32(ci.level),
		Line:    int32(ci.line),
	}
	return level
}

func (n *Native) Control(op int32, diag int32) bool {
	return C.shim_control(C.PLI_INT32(op), C.PLI_INT32(diag)) != 0
}

// WriteText prints text through a "%s" format so the simulator never
// interprets it as a format string.
func (n *Native) WriteText(text []byte) int32 {
	cs := C.CString(string(text))
	defer C.free(unsafe.Pointer(cs))
	return int32(C.shim_write(cs))
}

func (n *Native) Flush() int32 {
	return int32(C.shim_flush())
}

func (n *Native) VlogInfo(info *vpi.VlogInfo) bool {
	ci := C.p_vpi_vlog_info(C.calloc(1, C.sizeof_s_vpi_vlog_info))
	defer C.free(unsafe.Pointer(ci))
	if C.vpi_get_vlog_info(ci) == 0 {
		return false
	}
	*info = vpi.VlogInfo{
		Product: borrow(unsafe.Pointer(ci.product)),
		Version: borrow(unsafe.Pointer(ci.version)),
	}
	if ci.argc > 0 && ci.argv != nil {
		argv := unsafe.Slice(ci.argv, int(ci.argc))
		info.Argv = make([][]byte, len(argv))
		for i, arg := range argv {
			info.Argv[i] = borrow(unsafe.Pointer(arg))
		}
	}
	return true
}

func readTime(t C.p_vpi_time) vpi.RawTime {
	return vpi.RawTime{
		Type: int32(t._type),
		High: uint32(t.high),
		Low:  uint32(t.low),
		Real: float64(t.real),
	}
}

// sizeOf returns the bit width needed to decode a vector or strength value of
// obj, and 0 for every other format. It must run before the value fetch so
// the fetch stays the last call vpi_chk_error reports on.
func sizeOf(format int32, obj vpi.RawHandle) int {
	switch vpi.ValueFormat(format) {
	case vpi.FormatVector, vpi.FormatStrength:
		return int(C.shim_get(propSize, raw(obj)))
	}
	return 0
}

// readValue decodes an s_vpi_value. Vector and strength arrays hold bits
// entries of the object's width.
func readValue(cv C.p_vpi_value, bits int, v *vpi.RawValue) {
	*v = vpi.RawValue{Format: int32(cv.format)}
	switch vpi.ValueFormat(cv.format) {
	case vpi.FormatBinStr, vpi.FormatOctStr, vpi.FormatDecStr, vpi.FormatHexStr, vpi.FormatString:
		v.Str = borrow(unsafe.Pointer(C.shim_value_str(cv)))
	case vpi.FormatScalar:
		v.Scalar = int32(C.shim_value_scalar(cv))
	case vpi.FormatInt:
		v.Integer = int32(C.shim_value_int(cv))
	case vpi.FormatReal:
		v.Real = float64(C.shim_value_real(cv))
	case vpi.FormatTime:
		if t := C.shim_value_time(cv); t != nil {
			v.Time = readTime(t)
		}
	case vpi.FormatVector:
		p := C.shim_value_vector(cv)
		if p == nil || bits <= 0 {
			return
		}
		words := unsafe.Slice(p, (bits+31)/32)
		v.Vector = make([]vpi.RawVector, len(words))
		for i, w := range words {
			v.Vector[i] = vpi.RawVector{Aval: uint32(w.aval), Bval: uint32(w.bval)}
		}
	case vpi.FormatStrength:
		p := C.shim_value_strength(cv)
		if p == nil || bits <= 0 {
			return
		}
		vals := unsafe.Slice(p, bits)
		v.Strength = make([]vpi.RawStrength, len(vals))
		for i, s := range vals {
			v.Strength[i] = vpi.RawStrength{Logic: int32(s.logic), S0: int32(s.s0), S1: int32(s.s1)}
		}
	}
}
