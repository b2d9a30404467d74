package guard

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simThreads hands out simulated thread identities so a single goroutine can
// act as two threads.
type simThreads struct {
	mu  sync.Mutex
	cur uint64
}

func (s *simThreads) set(id uint64) {
	s.mu.Lock()
	s.cur = id
	s.mu.Unlock()
}

func (s *simThreads) id() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

func violation(t *testing.T, fn func()) *Violation {
	t.Helper()
	var got *Violation
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected panic")
			v, ok := r.(*Violation)
			require.True(t, ok, "panic value %T is not *Violation", r)
			got = v
		}()
		fn()
	}()
	return got
}

func TestGuard_PhaseLatch(t *testing.T) {
	g := New()

	assert.False(t, g.StartupFinished())
	v := violation(t, func() { g.AssertNotInStartup("vpi_scan") })
	assert.Equal(t, "vpi_scan", v.Op)
	assert.Contains(t, v.Error(), "startup routine")

	assert.NotPanics(t, func() { g.AssertInStartup("register") })

	g.MarkStartupFinished()
	assert.True(t, g.StartupFinished())
	assert.NotPanics(t, func() { g.AssertNotInStartup("vpi_scan") })

	violation(t, func() { g.AssertInStartup("register") })
	violation(t, g.MarkStartupFinished)
}

func TestGuard_ThreadLatch(t *testing.T) {
	threads := &simThreads{cur: 1}
	g := New(WithThreadID(threads.id))

	v := violation(t, func() { g.AssertOnMainThread("vpi_get") })
	assert.Contains(t, v.Reason, "not been recorded")

	g.MarkCurrentThread()
	id, ok := g.MainThread()
	require.True(t, ok)
	assert.Equal(t, uint64(1), id)
	assert.True(t, g.OnMainThread())
	assert.NotPanics(t, func() { g.AssertOnMainThread("vpi_get") })

	threads.set(2)
	assert.False(t, g.OnMainThread())
	v = violation(t, func() { g.AssertOnMainThread("vpi_get") })
	assert.Contains(t, v.Reason, "thread 2")

	threads.set(1)
	assert.NotPanics(t, func() { g.AssertOnMainThread("vpi_get") })

	violation(t, func() { g.MarkMainThread(3) })
	violation(t, func() { New().MarkMainThread(0) })
}

func TestGuard_Check(t *testing.T) {
	threads := &simThreads{cur: 10}

	tests := []struct {
		name    string
		setup   func(g *Guard)
		thread  uint64
		wantErr bool
	}{
		{name: "nothing set", setup: func(*Guard) {}, thread: 10, wantErr: true},
		{name: "thread only", setup: func(g *Guard) { g.MarkMainThread(10) }, thread: 10, wantErr: true},
		{name: "startup only", setup: func(g *Guard) { g.MarkStartupFinished() }, thread: 10, wantErr: true},
		{
			name: "both set, main thread",
			setup: func(g *Guard) {
				g.MarkMainThread(10)
				g.MarkStartupFinished()
			},
			thread: 10,
		},
		{
			name: "both set, other thread",
			setup: func(g *Guard) {
				g.MarkMainThread(10)
				g.MarkStartupFinished()
			},
			thread:  11,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			threads.set(10)
			g := New(WithThreadID(threads.id))
			tt.setup(g)
			threads.set(tt.thread)
			if tt.wantErr {
				violation(t, func() { g.Check("op") })
			} else {
				assert.NotPanics(t, func() { g.Check("op") })
			}
		})
	}
}

func TestCurrentThread_StableWhenLocked(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	a := CurrentThread()
	b := CurrentThread()
	assert.NotZero(t, a)
	assert.Equal(t, a, b)
}
