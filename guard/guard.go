package guard

import (
	"fmt"
	"sync/atomic"
)

// Violation is the panic value raised when the native interface is misused.
// It indicates a defect in the calling code, not a runtime condition.
type Violation struct {
	Op     string
	Reason string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Op, v.Reason)
}

// Guard is the phase/thread latch pair for one simulator process.
type Guard struct {
	threadID        func() uint64
	mainThread      atomic.Uint64
	startupFinished atomic.Bool
}

// Option configures a Guard.
type Option func(*Guard)

// WithThreadID replaces the thread identity source. The function must never
// return zero.
func WithThreadID(fn func() uint64) Option {
	return func(g *Guard) {
		g.threadID = fn
	}
}

// New creates a Guard with both latches unset.
func New(opts ...Option) *Guard {
	g := &Guard{threadID: CurrentThread}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Thread returns the identity of the calling thread as seen by this guard.
func (g *Guard) Thread() uint64 {
	return g.threadID()
}

// MarkStartupFinished sets the startup latch. It must be called exactly once,
// by the trusted entry point that finished running every startup routine.
func (g *Guard) MarkStartupFinished() {
	if !g.startupFinished.CompareAndSwap(false, true) {
		panic(&Violation{Op: "MarkStartupFinished", Reason: "startup phase already marked finished"})
	}
}

// MarkMainThread records id as the only thread allowed to call the native
// interface.
func (g *Guard) MarkMainThread(id uint64) {
	if id == 0 {
		panic(&Violation{Op: "MarkMainThread", Reason: "thread id 0 is reserved"})
	}
	if !g.mainThread.CompareAndSwap(0, id) {
		panic(&Violation{Op: "MarkMainThread", Reason: fmt.Sprintf("main thread already recorded as %d", g.mainThread.Load())})
	}
}

// MarkCurrentThread records the calling thread as the main thread.
func (g *Guard) MarkCurrentThread() {
	g.MarkMainThread(g.threadID())
}

// StartupFinished reports whether the startup latch is set.
func (g *Guard) StartupFinished() bool {
	return g.startupFinished.Load()
}

// MainThread returns the recorded main thread, if any.
func (g *Guard) MainThread() (uint64, bool) {
	id := g.mainThread.Load()
	return id, id != 0
}

// OnMainThread reports whether the latch is set and matches the caller.
func (g *Guard) OnMainThread() bool {
	id := g.mainThread.Load()
	return id != 0 && id == g.threadID()
}

// AssertNotInStartup panics if the startup phase has not finished.
func (g *Guard) AssertNotInStartup(op string) {
	if !g.startupFinished.Load() {
		panic(&Violation{Op: op, Reason: "cannot be called during a startup routine"})
	}
}

// AssertInStartup panics once the startup phase has finished.
func (g *Guard) AssertInStartup(op string) {
	if g.startupFinished.Load() {
		panic(&Violation{Op: op, Reason: "can only be called during a startup routine"})
	}
}

// AssertOnMainThread panics if no main thread is recorded or the caller is
// a different thread.
func (g *Guard) AssertOnMainThread(op string) {
	id := g.mainThread.Load()
	if id == 0 {
		panic(&Violation{Op: op, Reason: "main thread has not been recorded"})
	}
	if cur := g.threadID(); cur != id {
		panic(&Violation{Op: op, Reason: fmt.Sprintf("called from thread %d, main thread is %d", cur, id)})
	}
}

// Check runs both assertions. Every native-call-issuing operation calls it
// first.
func (g *Guard) Check(op string) {
	g.AssertNotInStartup(op)
	g.AssertOnMainThread(op)
}
