package vpi_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/sim-vpi/guard"
	"github.com/wippyai/sim-vpi/vpi"
	"github.com/wippyai/sim-vpi/vpi/vpitest"
)

const (
	mainThread  uint64 = 1
	otherThread uint64 = 2
)

// threads simulates the calling thread so one goroutine can play both the
// simulation thread and a foreign one.
type threads struct {
	cur atomic.Uint64
}

func (th *threads) id() uint64 { return th.cur.Load() }
func (th *threads) set(id uint64) { th.cur.Store(id) }

type harness struct {
	s       *vpi.Session
	sim     *vpitest.Sim
	threads *threads
}

// newHarness returns a session in the run phase on the simulated main thread.
func newHarness(t *testing.T, opts ...vpi.Option) *harness {
	t.Helper()
	h := newStartupHarness(t, opts...)
	h.s.MarkStartupFinished()
	return h
}

// newStartupHarness returns a session still in the startup phase.
func newStartupHarness(t *testing.T, opts ...vpi.Option) *harness {
	t.Helper()
	th := &threads{}
	th.set(mainThread)
	sim := vpitest.New()
	opts = append([]vpi.Option{vpi.WithGuard(guard.New(guard.WithThreadID(th.id)))}, opts...)
	s := vpi.New(sim, opts...)
	s.MarkMainThread()
	t.Cleanup(func() { _ = s.Close() })
	return &harness{s: s, sim: sim, threads: th}
}

func violation(t *testing.T, fn func()) *guard.Violation {
	t.Helper()
	var got *guard.Violation
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected panic")
			v, ok := r.(*guard.Violation)
			require.True(t, ok, "panic value %T is not *guard.Violation", r)
			got = v
		}()
		fn()
	}()
	return got
}

// design builds a small hierarchy:
//
//	top (module)
//	  clk (net), rst (net), data (reg)
//	  u0 (module)
//	    q (reg)
//	bench (module)
func design(sim *vpitest.Sim) (top, u0 *vpitest.Object) {
	top = sim.AddRoot(vpi.ObjModule, "top")
	top.AddChild(vpi.ObjNet, "clk")
	top.AddChild(vpi.ObjNet, "rst")
	top.AddChild(vpi.ObjReg, "data").SetInt(vpi.PropSize, 8)
	u0 = top.AddChild(vpi.ObjModule, "u0")
	u0.AddChild(vpi.ObjReg, "q")
	sim.AddRoot(vpi.ObjModule, "bench")
	return top, u0
}
