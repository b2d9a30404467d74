package vpi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/sim-vpi/vpi"
)

func TestStartup_RegistersAndFinishes(t *testing.T) {
	h := newStartupHarness(t)

	var order []string
	started := 0
	h.s.RunStartupRoutines(
		func(st *vpi.Startup) {
			order = append(order, "first")
			_, err := st.Register(st.NewCallback(vpi.ReasonStartOfSimulation).
				Call(func(vpi.CallbackEvent) { started++ }))
			require.NoError(t, err)
		},
		nil,
		func(st *vpi.Startup) {
			order = append(order, "second")
			assert.Same(t, h.s, st.Session())
		},
	)

	assert.Equal(t, []string{"first", "second"}, order)
	assert.True(t, h.s.Guard().StartupFinished())
	assert.Equal(t, 1, h.s.LiveCallbacks())

	assert.Equal(t, 1, h.sim.FireReason(vpi.ReasonStartOfSimulation))
	assert.Equal(t, 1, started)
}

func TestStartup_RunOnce(t *testing.T) {
	h := newStartupHarness(t)
	h.s.RunStartupRoutines()

	v := violation(t, func() { h.s.RunStartupRoutines() })
	assert.Equal(t, "Session.RunStartupRoutines", v.Op)
	violation(t, h.s.MarkStartupFinished)
}

func TestStartup_RegisterAfterStartupPanics(t *testing.T) {
	h := newStartupHarness(t)

	var kept *vpi.Startup
	h.s.RunStartupRoutines(func(st *vpi.Startup) { kept = st })

	b := kept.NewCallback(vpi.ReasonEndOfSimulation).Call(func(vpi.CallbackEvent) {})
	v := violation(t, func() { _, _ = kept.Register(b) })
	assert.Equal(t, "Startup.Register", v.Op)
}

func TestStartup_OffMainThreadPanics(t *testing.T) {
	h := newStartupHarness(t)
	h.threads.set(otherThread)

	violation(t, func() { h.s.RunStartupRoutines() })
	assert.False(t, h.s.Guard().StartupFinished())
}

func TestStartup_MainThreadOnce(t *testing.T) {
	h := newStartupHarness(t)
	violation(t, h.s.MarkMainThread)
}
