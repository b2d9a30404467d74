package wasmsim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/sim-vpi/errors"
	"github.com/wippyai/sim-vpi/guard"
	"github.com/wippyai/sim-vpi/vpi"
)

// Minimal guest assembler.

func uleb(n uint32) []byte {
	var out []byte
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func section(id byte, items ...[]byte) []byte {
	body := uleb(uint32(len(items)))
	for _, it := range items {
		body = append(body, it...)
	}
	out := append([]byte{id}, uleb(uint32(len(body)))...)
	return append(out, body...)
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func body(code ...byte) []byte {
	fn := append([]byte{0x00}, code...) // no locals
	return append(uleb(uint32(len(fn))), fn...)
}

type guestFunc struct {
	name string
	typ  byte
	code []byte
}

const (
	typeI32toI32    = 0 // (i32) -> i32
	typeVoid        = 1 // () -> ()
	typeI32         = 2 // (i32) -> ()
	typeI32I32toI32 = 3 // (i32, i32) -> i32
	typeI32I32      = 4 // (i32, i32) -> ()
)

// Instructions used by the guests below.
var (
	opLoad  = []byte{0x28, 0x02, 0x00} // i32.load align=4
	opStore = []byte{0x36, 0x02, 0x00} // i32.store align=4
	opCopy  = []byte{0xfc, 0x0a, 0x00, 0x00}
	opAdd   = []byte{0x6a}
	opSub   = []byte{0x6b}
	opMul   = []byte{0x6c}
	opEnd   = []byte{0x0b}
)

func i32const(v int32) []byte {
	return append([]byte{0x41}, sleb(v)...)
}

func local(i byte) []byte {
	return []byte{0x20, i}
}

// Fixture memory the guests read from. Tests seed it after Load; the bump
// heap starts at 1024 and never reaches it.
const (
	fixFlag   = 0x8000 // pending guest error level
	fixScan   = 0x8004 // scan countdown
	fixWrite  = 0x8008 // pointer passed to the last vpi_write
	fixError  = 0x8010 // s_vpi_error_info returned by vpi_chk_error
	fixVlog   = 0x8040 // s_vpi_vlog_info returned by vpi_get_vlog_info
	fixSizes  = 0x8100 // vpiSize, indexed by handle
	fixValues = 0x8200 // s_vpi_value records, indexed by handle

	strMessage = 0x9000
	strProduct = 0x9040
	strCode    = 0x9080
	strFile    = 0x90c0
	strVersion = 0x9100
	strArg0    = 0x9140
	strArg1    = 0x9180
	strBin     = 0x91c0
	strName    = 0x9200
	arrArgv    = 0x9240
	recTime    = 0x9280
	arrVector  = 0x92c0
	arrStrngth = 0x9300
)

var (
	fnMalloc = guestFunc{"malloc", typeI32toI32, []byte{
		0x23, 0x00, // global.get $heap
		0x23, 0x00, // global.get $heap
		0x20, 0x00, // local.get $size
		0x6a,       // i32.add
		0x24, 0x00, // global.set $heap
		0x0b,
	}}
	fnFree       = guestFunc{"free", typeI32, []byte{0x0b}}
	fnRegisterCb = guestFunc{"vpi_register_cb", typeI32toI32, []byte{
		0x20, 0x00, // local.get $cb_data
		0x24, 0x01, // global.set $cb
		0x41, 0x07, // i32.const 7
		0x0b,
	}}
	fnSimRun = guestFunc{"sim_run", typeVoid, []byte{
		0x23, 0x01, 0x10, 0x00, 0x1a, // callback($cb), drop
		0x23, 0x01, 0x10, 0x00, 0x1a, // callback($cb), drop
		0x0b,
	}}
	fnChkError = guestFunc{"vpi_chk_error", typeI32toI32, []byte{0x41, 0x00, 0x0b}}

	// vpi_chk_error reporting the fixture record once per raised flag.
	fnChkErrorRecord = guestFunc{"vpi_chk_error", typeI32toI32, cat(
		i32const(fixFlag), opLoad,
		[]byte{0x45, 0x04, 0x40}, // i32.eqz, if
		i32const(0), []byte{0x0f}, // return 0
		opEnd,
		local(0), i32const(fixError), i32const(errorInfoSize), opCopy,
		i32const(fixFlag), opLoad,
		i32const(fixFlag), i32const(0), opStore,
		opEnd,
	)}
	// vpi_get_value(obj, p) copies the union of fixValues[obj].
	fnGetValue = guestFunc{"vpi_get_value", typeI32I32, cat(
		local(1), i32const(valueUnionOff), opAdd,
		local(0), i32const(valueSize), opMul, i32const(fixValues+valueUnionOff), opAdd,
		i32const(valueSize-valueUnionOff), opCopy,
		opEnd,
	)}
	// vpi_get_value that raises an error and leaves the record alone.
	fnGetValueRaises = guestFunc{"vpi_get_value", typeI32I32, cat(
		i32const(fixFlag), i32const(levelError), opStore,
		opEnd,
	)}
	// vpi_get(prop, obj) returns fixSizes[obj].
	fnGetSize = guestFunc{"vpi_get", typeI32I32toI32, cat(
		local(1), i32const(4), opMul, i32const(fixSizes), opAdd, opLoad,
		opEnd,
	)}
	// vpi_get that clears the pending error and reports 8 bits.
	fnGetClears = guestFunc{"vpi_get", typeI32I32toI32, cat(
		i32const(fixFlag), i32const(0), opStore,
		i32const(8),
		opEnd,
	)}
	fnGetStr = guestFunc{"vpi_get_str", typeI32I32toI32, cat(i32const(strName), opEnd)}
	fnWrite  = guestFunc{"vpi_write", typeI32I32toI32, cat(
		i32const(fixWrite), local(0), opStore,
		local(1),
		opEnd,
	)}
	fnVlogInfo = guestFunc{"vpi_get_vlog_info", typeI32toI32, cat(
		local(0), i32const(fixVlog), i32const(vlogInfoSize), opCopy,
		i32const(1),
		opEnd,
	)}
	fnIterate = guestFunc{"vpi_iterate", typeI32I32toI32, cat(i32const(9), opEnd)}
	// vpi_scan counts fixScan down and returns it, so 3 yields 2, 1, then null.
	fnScan = guestFunc{"vpi_scan", typeI32toI32, cat(
		i32const(fixScan),
		i32const(fixScan), opLoad, i32const(1), opSub,
		opStore,
		i32const(fixScan), opLoad,
		opEnd,
	)}
)

// guest assembles a module importing vpi_host.callback and exporting memory
// plus fns. It keeps a bump heap pointer in global 0 and the last registered
// descriptor in global 1.
func guest(fns ...guestFunc) []byte {
	types := section(1,
		[]byte{0x60, 0x01, 0x7f, 0x01, 0x7f},
		[]byte{0x60, 0x00, 0x00},
		[]byte{0x60, 0x01, 0x7f, 0x00},
		[]byte{0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f},
		[]byte{0x60, 0x02, 0x7f, 0x7f, 0x00},
	)
	imports := section(2, cat(name(HostModule), name("callback"), []byte{0x00, typeI32toI32}))

	var funcs, exports, code [][]byte
	exports = append(exports, cat(name("memory"), []byte{0x02, 0x00}))
	for i, fn := range fns {
		funcs = append(funcs, []byte{fn.typ})
		exports = append(exports, cat(name(fn.name), []byte{0x00}, uleb(uint32(i+1))))
		code = append(code, body(fn.code...))
	}

	mem := section(5, []byte{0x00, 0x01})
	globals := section(6,
		[]byte{0x7f, 0x01, 0x41, 0x80, 0x08, 0x0b}, // mut i32 = 1024
		[]byte{0x7f, 0x01, 0x41, 0x00, 0x0b},       // mut i32 = 0
	)

	return cat(
		[]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00},
		types,
		imports,
		section(3, funcs...),
		mem,
		globals,
		section(7, exports...),
		section(10, code...),
	)
}

func load(t *testing.T, fns ...guestFunc) *Sim {
	t.Helper()
	ctx := context.Background()
	sim, err := Load(ctx, guest(fns...), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sim.Close(ctx) })
	return sim
}

func poke(t *testing.T, sim *Sim, addr uint32, words ...uint32) {
	t.Helper()
	for i, w := range words {
		require.NoError(t, sim.mem.writeU32(addr+uint32(i*4), w))
	}
}

func pokeString(t *testing.T, sim *Sim, addr uint32, str string) {
	t.Helper()
	require.NoError(t, sim.mem.write(addr, append([]byte(str), 0)))
}

// seed fills the fixture memory. Handles 1 to 7 carry a value in each
// decoded format.
func seed(t *testing.T, sim *Sim) {
	t.Helper()
	poke(t, sim, fixFlag, 0, 3, 0)

	for addr, str := range map[uint32]string{
		strMessage: "no value in this format",
		strProduct: "guestsim",
		strCode:    "E42",
		strFile:    "top.v",
		strVersion: "1.2",
		strArg0:    "sim",
		strArg1:    "+trace",
		strBin:     "0101",
		strName:    "count",
	} {
		pokeString(t, sim, addr, str)
	}
	poke(t, sim, fixError, stateRun, levelError, strMessage, strProduct, strCode, strFile, 17)
	poke(t, sim, arrArgv, strArg0, strArg1)
	poke(t, sim, fixVlog, 2, arrArgv, strProduct, strVersion)

	poke(t, sim, recTime, 2, 1, 10)
	poke(t, sim, arrVector, 0xdeadbeef, 0, 0x5, 0x2)
	poke(t, sim, arrStrngth, 1, 0x20, 0x40, 2, 0x08, 0x01)
	poke(t, sim, fixSizes+6*4, 40)
	poke(t, sim, fixSizes+7*4, 2)

	union := func(obj uint32) uint32 { return fixValues + obj*valueSize + valueUnionOff }
	poke(t, sim, union(1), strBin)
	poke(t, sim, union(2), 3)
	poke(t, sim, union(3), uint32(0xffffffd6)) // -42
	require.NoError(t, sim.mem.writeF64(union(4), 2.5))
	poke(t, sim, union(5), recTime)
	poke(t, sim, union(6), arrVector)
	poke(t, sim, union(7), arrStrngth)
}

func newSession(sim *Sim) *vpi.Session {
	s := vpi.New(sim, vpi.WithGuard(guard.New(guard.WithThreadID(func() uint64 { return 1 }))))
	s.MarkMainThread()
	return s
}

func TestLoad_RequiresAllocator(t *testing.T) {
	_, err := Load(context.Background(), guest(fnFree, fnSimRun), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Op: errors.OpLoad, Kind: errors.KindInvalidInput})
	assert.Contains(t, err.Error(), "malloc")

	_, err = Load(context.Background(), []byte("not wasm"), nil)
	assert.ErrorIs(t, err, &errors.Error{Op: errors.OpLoad, Kind: errors.KindOther})
}

func TestSim_CallbackFromGuest(t *testing.T) {
	sim := load(t, fnMalloc, fnFree, fnRegisterCb, fnSimRun, fnChkError)
	s := newSession(sim)

	var events []vpi.CallbackEvent
	s.RunStartupRoutines(func(st *vpi.Startup) {
		cb, err := st.Register(st.NewCallback(vpi.ReasonAfterDelay).
			At(vpi.SimTime(1<<32 + 10)).
			Index(3).
			Call(func(ev vpi.CallbackEvent) { events = append(events, ev) }))
		require.NoError(t, err)
		assert.Equal(t, vpi.RawHandle(7), cb.Raw())
	})

	// The guest fires the descriptor twice; the second time the one-shot
	// registration is already released.
	require.NoError(t, sim.Run(context.Background()))

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, vpi.ReasonAfterDelay, ev.Reason)
	assert.Equal(t, vpi.SimTime(1<<32+10), ev.Time)
	assert.Equal(t, int32(3), ev.Index)
	assert.Nil(t, ev.Object)
	assert.Nil(t, ev.Value)

	assert.Empty(t, sim.regs)
	assert.Empty(t, sim.routines)
	assert.Zero(t, s.LiveCallbacks())
}

func TestSim_DescriptorLayout(t *testing.T) {
	sim := load(t, fnMalloc, fnFree, fnRegisterCb, fnChkError)

	data := &vpi.CallbackData{
		Reason:   vpi.ReasonReadOnlySynch.Code(),
		Obj:      0x44,
		Index:    9,
		UserData: 0x01000002,
		Time:     &vpi.RawTime{Type: vpi.TimeSim.Code(), High: 1, Low: 2},
		Routine:  func(*vpi.CallbackData) int32 { return 0 },
	}
	require.Equal(t, vpi.RawHandle(7), sim.RegisterCallback(data))

	reg, ok := sim.regs[7]
	require.True(t, ok)
	ptr := reg.allocs[0]

	got, err := sim.readCallbackData(ptr)
	require.NoError(t, err)
	assert.Equal(t, data.Reason, got.Reason)
	assert.Equal(t, data.Obj, got.Obj)
	assert.Equal(t, data.Index, got.Index)
	assert.Equal(t, data.UserData, got.UserData)
	require.NotNil(t, got.Time)
	assert.Equal(t, *data.Time, *got.Time)

	routine, err := sim.mem.readU32(ptr + cbRoutineOff)
	require.NoError(t, err)
	assert.Zero(t, routine)
}

func TestSim_MissingExportIsClassified(t *testing.T) {
	sim := load(t, fnMalloc, fnFree, fnRegisterCb, fnSimRun, fnChkError)
	s := newSession(sim)
	s.RunStartupRoutines()

	_, err := s.IterateRoots(vpi.ObjModule)
	require.Error(t, err)
	d, ok := errors.DiagnosticOf(err)
	require.True(t, ok)
	assert.Equal(t, "wasmsim", d.Product)
	assert.Equal(t, errors.StateRun, d.State)
	assert.Equal(t, errors.SeverityError, d.Severity)
	assert.Contains(t, d.Message, "vpi_iterate")

	_, err = s.Printer().WriteString("hello")
	d, ok = errors.DiagnosticOf(err)
	require.True(t, ok)
	assert.Contains(t, d.Message, "vpi_write")

	// The record is consumed by the query that reported it.
	var info vpi.ErrorInfo
	assert.Zero(t, sim.ChkError(&info))
}

func TestSim_RunRequiresExport(t *testing.T) {
	sim := load(t, fnMalloc, fnFree)
	err := sim.Run(context.Background())
	assert.ErrorIs(t, err, &errors.Error{Op: errors.OpRun, Kind: errors.KindInvalidInput})
}

func TestSim_UnknownUserDataIgnored(t *testing.T) {
	sim := load(t, fnMalloc, fnFree, fnRegisterCb, fnSimRun, fnChkError)

	fired := 0
	data := &vpi.CallbackData{
		Reason:   vpi.ReasonEndOfSimulation.Code(),
		UserData: 5,
		Routine:  func(*vpi.CallbackData) int32 { fired++; return 0 },
	}
	require.NotZero(t, sim.RegisterCallback(data))
	delete(sim.routines, 5)

	require.NoError(t, sim.Run(context.Background()))
	assert.Zero(t, fired)
}

func TestSim_FailedValueFetchIsReported(t *testing.T) {
	sim := load(t, fnMalloc, fnFree, fnGetValueRaises, fnGetClears, fnChkErrorRecord)
	seed(t, sim)
	s := newSession(sim)
	s.RunStartupRoutines()

	// A pointer left in the shared record by an earlier vector read.
	poke(t, sim, sim.scratch+scratchValueOff+valueUnionOff, 4096)

	v, err := s.FromRaw(6).Value(vpi.FormatVector)
	require.Error(t, err)
	assert.Empty(t, v.Vector)
	d, ok := errors.DiagnosticOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.Diagnostic{
		State:    errors.StateRun,
		Severity: errors.SeverityError,
		Message:  "no value in this format",
		Product:  "guestsim",
		Code:     "E42",
		File:     "top.v",
		Line:     17,
	}, d)

	var info vpi.ErrorInfo
	assert.Zero(t, sim.ChkError(&info))
}

func TestSim_ValueFormats(t *testing.T) {
	sim := load(t, fnMalloc, fnFree, fnGetValue, fnGetSize, fnChkErrorRecord)
	seed(t, sim)
	s := newSession(sim)
	s.RunStartupRoutines()

	tests := []struct {
		name   string
		obj    vpi.RawHandle
		format vpi.ValueFormat
		want   vpi.Value
	}{
		{"bin string", 1, vpi.FormatBinStr, vpi.Value{Format: vpi.FormatBinStr, Str: "0101"}},
		{"string", 1, vpi.FormatString, vpi.Value{Format: vpi.FormatString, Str: "0101"}},
		{"scalar", 2, vpi.FormatScalar, vpi.Value{Format: vpi.FormatScalar, Scalar: vpi.ScalarX}},
		{"int", 3, vpi.FormatInt, vpi.Value{Format: vpi.FormatInt, Int: -42}},
		{"real", 4, vpi.FormatReal, vpi.Value{Format: vpi.FormatReal, Real: 2.5}},
		{"time", 5, vpi.FormatTime, vpi.Value{Format: vpi.FormatTime, Time: vpi.SimTime(1<<32 + 10)}},
		{"vector", 6, vpi.FormatVector, vpi.Value{Format: vpi.FormatVector, Vector: []vpi.VectorWord{
			{Aval: 0xdeadbeef, Bval: 0},
			{Aval: 0x5, Bval: 0x2},
		}}},
		{"strength", 7, vpi.FormatStrength, vpi.Value{Format: vpi.FormatStrength, Strength: []vpi.Strength{
			{Logic: vpi.Scalar1, S0: 0x20, S1: 0x40},
			{Logic: vpi.ScalarZ, S0: 0x08, S1: 0x01},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FromRaw(tt.obj).Value(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSim_SimulatorInfo(t *testing.T) {
	sim := load(t, fnMalloc, fnFree, fnVlogInfo, fnChkErrorRecord)
	seed(t, sim)
	s := newSession(sim)
	s.RunStartupRoutines()

	info, err := s.Info()
	require.NoError(t, err)
	assert.Equal(t, vpi.SimulatorInfo{
		Product:   "guestsim",
		Version:   "1.2",
		Arguments: []string{"sim", "+trace"},
	}, info)
}

func TestSim_NamesOutputAndScan(t *testing.T) {
	sim := load(t, fnMalloc, fnFree, fnGetStr, fnWrite, fnIterate, fnScan, fnChkErrorRecord)
	seed(t, sim)
	s := newSession(sim)
	s.RunStartupRoutines()

	name, err := s.FromRaw(2).Name()
	require.NoError(t, err)
	assert.Equal(t, "count", name)

	n, err := s.Printer().WriteString("hello\n")
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	ptr, err := sim.mem.readU32(fixWrite)
	require.NoError(t, err)
	text, err := sim.mem.cstring(ptr)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(text))

	it, err := s.IterateRoots(vpi.ObjModule)
	require.NoError(t, err)
	handles, err := it.Collect()
	require.NoError(t, err)
	require.Len(t, handles, 2)
	assert.Equal(t, vpi.RawHandle(2), handles[0].Raw())
	assert.Equal(t, vpi.RawHandle(1), handles[1].Raw())
	assert.True(t, it.Exhausted())
}
