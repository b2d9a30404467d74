package wasmsim

import (
	"encoding/binary"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/sim-vpi/vpi"
)

var _ vpi.Native = (*Sim)(nil)

func handle(res uint64) vpi.RawHandle {
	return vpi.RawHandle(api.DecodeU32(res))
}

func h32(h vpi.RawHandle) uint64 {
	return uint64(uint32(h))
}

func i32(v int32) uint64 {
	return api.EncodeI32(v)
}

func (s *Sim) Iterate(objType int32, ref vpi.RawHandle) vpi.RawHandle {
	res, _ := s.call("vpi_iterate", i32(objType), h32(ref))
	return handle(res)
}

func (s *Sim) Scan(iterator vpi.RawHandle) vpi.RawHandle {
	res, _ := s.call("vpi_scan", h32(iterator))
	return handle(res)
}

func (s *Sim) Get(prop int32, obj vpi.RawHandle) int32 {
	res, ok := s.call("vpi_get", i32(prop), h32(obj))
	if !ok {
		return -1
	}
	return api.DecodeI32(res)
}

func (s *Sim) Get64(prop int32, obj vpi.RawHandle) int64 {
	res, ok := s.call("vpi_get64", i32(prop), h32(obj))
	if !ok {
		return -1
	}
	return int64(res)
}

// GetStr returns a view of guest memory, valid until the next guest call.
func (s *Sim) GetStr(prop int32, obj vpi.RawHandle) []byte {
	res, ok := s.call("vpi_get_str", i32(prop), h32(obj))
	if !ok {
		return nil
	}
	str, err := s.mem.cstring(api.DecodeU32(res))
	if err != nil {
		s.fail(err)
		return nil
	}
	return str
}

func (s *Sim) Handle(objType int32, ref vpi.RawHandle) vpi.RawHandle {
	res, _ := s.call("vpi_handle", i32(objType), h32(ref))
	return handle(res)
}

func (s *Sim) HandleByName(name string, scope vpi.RawHandle) vpi.RawHandle {
	s.hostErr = nil
	ptr, err := s.cstring([]byte(name))
	if err != nil {
		s.fail(err)
		return 0
	}
	defer s.free(ptr)
	res, _ := s.call("vpi_handle_by_name", uint64(ptr), h32(scope))
	return handle(res)
}

func (s *Sim) CompareObjects(a, b vpi.RawHandle) bool {
	res, ok := s.call("vpi_compare_objects", h32(a), h32(b))
	return ok && api.DecodeI32(res) != 0
}

func (s *Sim) GetValue(obj vpi.RawHandle, value *vpi.RawValue) {
	s.hostErr = nil
	ptr := s.scratch + scratchValueOff
	record := make([]byte, valueSize)
	binary.LittleEndian.PutUint32(record[valueFormatOff:], uint32(value.Format))
	if err := s.mem.write(ptr, record); err != nil {
		s.fail(err)
		return
	}
	// Sized first so the fetch is the last guest call ChkError reports on.
	bits, err := s.sizeOf(value.Format, obj)
	if err != nil {
		s.fail(err)
		return
	}
	if _, ok := s.call("vpi_get_value", h32(obj), uint64(ptr)); !ok {
		return
	}
	if err := s.readValue(ptr, bits, value); err != nil {
		s.fail(err)
	}
}

// sizeOf returns the object's vpiSize when format decodes into an array
// sized by it, and 0 otherwise.
func (s *Sim) sizeOf(format int32, obj vpi.RawHandle) (int32, error) {
	if format != formatVector && format != formatStrength {
		return 0, nil
	}
	res, err := s.invoke("vpi_get", i32(propSize), h32(obj))
	if err != nil {
		return 0, err
	}
	return api.DecodeI32(res), nil
}

// RegisterCallback copies the descriptor into guest memory. The copy stays
// allocated until the registration is removed, since a guest may keep the
// pointer rather than the contents.
func (s *Sim) RegisterCallback(data *vpi.CallbackData) vpi.RawHandle {
	s.hostErr = nil
	allocs, ptr, err := s.writeCallbackData(data)
	if err != nil {
		s.free(allocs...)
		s.fail(err)
		return 0
	}
	res, ok := s.call("vpi_register_cb", uint64(ptr))
	h := api.DecodeU32(res)
	if !ok || h == 0 {
		s.free(allocs...)
		return 0
	}
	userData := uint32(data.UserData)
	s.routines[userData] = routine{fn: data.Routine, handle: h}
	s.regs[h] = registration{allocs: allocs, userData: userData}
	return vpi.RawHandle(h)
}

func (s *Sim) RemoveCallback(cb vpi.RawHandle) bool {
	res, ok := s.call("vpi_remove_cb", h32(cb))
	if !ok || api.DecodeI32(res) == 0 {
		return false
	}
	s.release(uint32(cb))
	return true
}

// release forgets a registration the guest no longer holds and frees its
// descriptor.
func (s *Sim) release(h uint32) {
	reg, ok := s.regs[h]
	if !ok {
		return
	}
	delete(s.regs, h)
	delete(s.routines, reg.userData)
	s.free(reg.allocs...)
}

// ChkError reports a pending host-side failure first, then the guest's own
// record. A guest without vpi_chk_error never reports guest errors.
func (s *Sim) ChkError(info *vpi.ErrorInfo) int32 {
	if e := s.hostErr; e != nil {
		s.hostErr = nil
		*info = vpi.ErrorInfo{
			Message: []byte(e.message),
			Product: []byte("wasmsim"),
			State:   stateRun,
			Level:   levelError,
		}
		return levelError
	}

	ptr := s.scratch + scratchErrorOff
	res, err := s.invoke("vpi_chk_error", uint64(ptr))
	if err != nil {
		return 0
	}
	level := api.DecodeI32(res)
	if level == 0 {
		*info = vpi.ErrorInfo{}
		return 0
	}
	if err := s.readErrorInfo(ptr, info); err != nil {
		*info = vpi.ErrorInfo{
			Message: []byte(err.Error()),
			Product: []byte("wasmsim"),
			State:   stateRun,
			Level:   level,
		}
	}
	return level
}

func (s *Sim) Control(op int32, diag int32) bool {
	res, ok := s.call("vpi_control", i32(op), i32(diag))
	return ok && api.DecodeI32(res) != 0
}

func (s *Sim) WriteText(text []byte) int32 {
	s.hostErr = nil
	ptr, err := s.cstring(text)
	if err != nil {
		s.fail(err)
		return -1
	}
	defer s.free(ptr)
	res, ok := s.call("vpi_write", uint64(ptr), uint64(len(text)))
	if !ok {
		return -1
	}
	return api.DecodeI32(res)
}

func (s *Sim) Flush() int32 {
	res, ok := s.call("vpi_flush")
	if !ok {
		return -1
	}
	return api.DecodeI32(res)
}

func (s *Sim) VlogInfo(info *vpi.VlogInfo) bool {
	ptr := s.scratch + scratchVlogOff
	res, ok := s.call("vpi_get_vlog_info", uint64(ptr))
	if !ok || api.DecodeI32(res) == 0 {
		return false
	}
	if err := s.readVlogInfo(ptr, info); err != nil {
		s.fail(err)
		return false
	}
	return true
}

func (s *Sim) writeCallbackData(data *vpi.CallbackData) (allocs []uint32, ptr uint32, err error) {
	ptr, err = s.malloc(cbDataSize)
	if err != nil {
		return nil, 0, err
	}
	allocs = append(allocs, ptr)

	var timePtr, valuePtr uint32
	if data.Time != nil {
		if timePtr, err = s.malloc(timeSize); err != nil {
			return allocs, 0, err
		}
		allocs = append(allocs, timePtr)
		if err = s.writeTime(timePtr, data.Time); err != nil {
			return allocs, 0, err
		}
	}
	if data.Value != nil {
		if valuePtr, err = s.malloc(valueSize); err != nil {
			return allocs, 0, err
		}
		allocs = append(allocs, valuePtr)
		if err = s.mem.write(valuePtr, make([]byte, valueSize)); err != nil {
			return allocs, 0, err
		}
		if err = s.mem.writeU32(valuePtr+valueFormatOff, uint32(data.Value.Format)); err != nil {
			return allocs, 0, err
		}
	}

	fields := []struct {
		off uint32
		v   uint32
	}{
		{cbReasonOff, uint32(data.Reason)},
		{cbRoutineOff, 0},
		{cbObjOff, uint32(data.Obj)},
		{cbTimeOff, timePtr},
		{cbValueOff, valuePtr},
		{cbIndexOff, uint32(data.Index)},
		{cbUserDataOff, uint32(data.UserData)},
	}
	for _, f := range fields {
		if err = s.mem.writeU32(ptr+f.off, f.v); err != nil {
			return allocs, 0, err
		}
	}
	return allocs, ptr, nil
}

func (s *Sim) readCallbackData(ptr uint32) (*vpi.CallbackData, error) {
	var raw [cbDataSize / 4]uint32
	for i := range raw {
		v, err := s.mem.readU32(ptr + uint32(i*4))
		if err != nil {
			return nil, err
		}
		raw[i] = v
	}
	data := &vpi.CallbackData{
		Reason:   int32(raw[cbReasonOff/4]),
		Obj:      vpi.RawHandle(raw[cbObjOff/4]),
		Index:    int32(raw[cbIndexOff/4]),
		UserData: uintptr(raw[cbUserDataOff/4]),
	}
	if p := raw[cbTimeOff/4]; p != 0 {
		t, err := s.readTime(p)
		if err != nil {
			return nil, err
		}
		data.Time = &t
	}
	if p := raw[cbValueOff/4]; p != 0 {
		format, err := s.mem.readI32(p + valueFormatOff)
		if err != nil {
			return nil, err
		}
		bits, err := s.sizeOf(format, data.Obj)
		if err != nil {
			return nil, err
		}
		v := &vpi.RawValue{}
		if err := s.readValue(p, bits, v); err != nil {
			return nil, err
		}
		data.Value = v
	}
	return data, nil
}

func (s *Sim) writeTime(ptr uint32, t *vpi.RawTime) error {
	if err := s.mem.writeU32(ptr+timeTypeOff, uint32(t.Type)); err != nil {
		return err
	}
	if err := s.mem.writeU32(ptr+timeHighOff, t.High); err != nil {
		return err
	}
	if err := s.mem.writeU32(ptr+timeLowOff, t.Low); err != nil {
		return err
	}
	return s.mem.writeF64(ptr+timeRealOff, t.Real)
}

func (s *Sim) readTime(ptr uint32) (vpi.RawTime, error) {
	var t vpi.RawTime
	var err error
	if t.Type, err = s.mem.readI32(ptr + timeTypeOff); err != nil {
		return t, err
	}
	if t.High, err = s.mem.readU32(ptr + timeHighOff); err != nil {
		return t, err
	}
	if t.Low, err = s.mem.readU32(ptr + timeLowOff); err != nil {
		return t, err
	}
	t.Real, err = s.mem.readF64(ptr + timeRealOff)
	return t, err
}

// readValue decodes an s_vpi_value. Vector and strength arrays hold bits
// elements, the object's vpiSize.
func (s *Sim) readValue(ptr uint32, bits int32, v *vpi.RawValue) error {
	format, err := s.mem.readI32(ptr + valueFormatOff)
	if err != nil {
		return err
	}
	*v = vpi.RawValue{Format: format}
	union := ptr + valueUnionOff

	switch format {
	case formatBinStr, formatOctStr, formatDecStr, formatHexStr, formatString:
		p, err := s.mem.readU32(union)
		if err != nil {
			return err
		}
		v.Str, err = s.mem.cstring(p)
		return err
	case formatScalar:
		v.Scalar, err = s.mem.readI32(union)
		return err
	case formatInt:
		v.Integer, err = s.mem.readI32(union)
		return err
	case formatReal:
		v.Real, err = s.mem.readF64(union)
		return err
	case formatTime:
		p, err := s.mem.readU32(union)
		if err != nil {
			return err
		}
		if p != 0 {
			v.Time, err = s.readTime(p)
		}
		return err
	case formatVector, formatStrength:
		p, err := s.mem.readU32(union)
		if err != nil || p == 0 {
			return err
		}
		if bits <= 0 {
			return fmt.Errorf("object size %d", bits)
		}
		if format == formatVector {
			v.Vector = make([]vpi.RawVector, (bits+31)/32)
			for i := range v.Vector {
				off := p + uint32(i)*vecvalSize
				if v.Vector[i].Aval, err = s.mem.readU32(off); err != nil {
					return err
				}
				if v.Vector[i].Bval, err = s.mem.readU32(off + 4); err != nil {
					return err
				}
			}
			return nil
		}
		v.Strength = make([]vpi.RawStrength, bits)
		for i := range v.Strength {
			off := p + uint32(i)*strengthvalSize
			st := &v.Strength[i]
			if st.Logic, err = s.mem.readI32(off); err != nil {
				return err
			}
			if st.S0, err = s.mem.readI32(off + 4); err != nil {
				return err
			}
			if st.S1, err = s.mem.readI32(off + 8); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func (s *Sim) readErrorInfo(ptr uint32, info *vpi.ErrorInfo) error {
	var err error
	*info = vpi.ErrorInfo{}
	if info.State, err = s.mem.readI32(ptr + errStateOff); err != nil {
		return err
	}
	if info.Level, err = s.mem.readI32(ptr + errLevelOff); err != nil {
		return err
	}
	if info.Line, err = s.mem.readI32(ptr + errLineOff); err != nil {
		return err
	}
	strs := []struct {
		off uint32
		dst *[]byte
	}{
		{errMessageOff, &info.Message},
		{errProductOff, &info.Product},
		{errCodeOff, &info.Code},
		{errFileOff, &info.File},
	}
	for _, f := range strs {
		p, err := s.mem.readU32(ptr + f.off)
		if err != nil {
			return err
		}
		if *f.dst, err = s.mem.cstring(p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sim) readVlogInfo(ptr uint32, info *vpi.VlogInfo) error {
	argc, err := s.mem.readI32(ptr + vlogArgcOff)
	if err != nil {
		return err
	}
	argv, err := s.mem.readU32(ptr + vlogArgvOff)
	if err != nil {
		return err
	}
	*info = vpi.VlogInfo{Argv: make([][]byte, 0, max(argc, 0))}
	for i := int32(0); i < argc; i++ {
		p, err := s.mem.readU32(argv + uint32(i)*4)
		if err != nil {
			return err
		}
		arg, err := s.mem.cstring(p)
		if err != nil {
			return err
		}
		info.Argv = append(info.Argv, arg)
	}
	strs := []struct {
		off uint32
		dst *[]byte
	}{
		{vlogProductOff, &info.Product},
		{vlogVersionOff, &info.Version},
	}
	for _, f := range strs {
		p, err := s.mem.readU32(ptr + f.off)
		if err != nil {
			return err
		}
		if *f.dst, err = s.mem.cstring(p); err != nil {
			return err
		}
	}
	return nil
}
