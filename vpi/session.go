package vpi

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/sim-vpi/errors"
	"github.com/wippyai/sim-vpi/guard"
	"github.com/wippyai/sim-vpi/metrics"
	"github.com/wippyai/sim-vpi/registry"
)

// Session binds one Native implementation to its guard, callback registry
// and output lock. A simulator process has exactly one session.
type Session struct {
	native    Native
	guard     *guard.Guard
	logger    *zap.Logger
	metrics   *metrics.Collector
	callbacks *registry.Table[*registration]
	printer   *Printer
	closed    atomic.Bool
	// keep disables reclamation in Close.
	keep bool

	// printMu serializes native text output. It is the only mutex in the
	// session.
	printMu sync.Mutex
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The package Logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGuard supplies an existing guard, typically one with a simulated
// thread identity in tests.
func WithGuard(g *guard.Guard) Option {
	return func(s *Session) {
		if g != nil {
			s.guard = g
		}
	}
}

// WithMetrics attaches a Prometheus collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Session) {
		s.metrics = c
	}
}

// WithoutReclaim makes Close leave every registration in place, so
// closures stay reachable for as long as the simulator may fire them.
func WithoutReclaim() Option {
	return func(s *Session) {
		s.keep = true
	}
}

// New creates a session over native. Both guard latches start unset.
func New(native Native, opts ...Option) *Session {
	if native == nil {
		panic("vpi: nil Native")
	}
	s := &Session{
		native:    native,
		logger:    Logger(),
		callbacks: registry.NewTable[*registration](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.guard == nil {
		s.guard = guard.New()
	}
	s.printer = &Printer{s: s}
	s.callbacks.Subscribe(registry.ObserverFunc(s.onCallbackEvent))
	return s
}

// onCallbackEvent keeps the live-registration gauge current and logs
// registrations reclaimed by Close.
func (s *Session) onCallbackEvent(e registry.Event) {
	s.metrics.SetCallbacksLive(s.callbacks.Len())
	if e.Type != registry.EventReclaimed {
		return
	}
	if reg, ok := e.Value.(*registration); ok {
		s.logger.Debug("callback reclaimed",
			zap.Stringer("reason", reg.reason),
			zap.Uint32("slot", uint32(e.Handle)),
			zap.Stringer("registration", reg.id))
	}
}

// Guard returns the session's phase/thread guard.
func (s *Session) Guard() *guard.Guard {
	return s.guard
}

// Native returns the wrapped native implementation.
func (s *Session) Native() Native {
	return s.native
}

// MarkMainThread records the calling thread as the designated simulation
// thread. Loader glue calls it exactly once; a second call panics.
func (s *Session) MarkMainThread() {
	s.guard.MarkCurrentThread()
	id, _ := s.guard.MainThread()
	s.logger.Debug("main thread recorded", zap.Uint64("thread", id))
}

// MarkStartupFinished sets the startup latch. Loader glue calls it exactly
// once after every startup routine returned; RunStartupRoutines does so
// itself.
func (s *Session) MarkStartupFinished() {
	s.guard.MarkStartupFinished()
	s.logger.Debug("startup finished", zap.Int("callbacks", s.callbacks.Len()))
}

// LiveCallbacks returns the number of registrations held by the session.
func (s *Session) LiveCallbacks() int {
	return s.callbacks.Len()
}

// Close reclaims every callback registration still held by the session. It
// issues no native calls: the simulator is assumed to be tearing down.
// Trampoline invocations after Close find no registration and are ignored.
// Sessions created WithoutReclaim keep their registrations.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.keep {
		s.callbacks.Each(func(slot registry.Handle, reg *registration) bool {
			s.logger.Debug("callback kept",
				zap.Stringer("reason", reg.reason),
				zap.Uint32("slot", uint32(slot)),
				zap.Stringer("registration", reg.id))
			return true
		})
		s.logger.Debug("session closed", zap.Int("kept", s.callbacks.Len()))
		return nil
	}
	n := s.callbacks.Close()
	s.logger.Debug("session closed", zap.Int("reclaimed", n))
	return nil
}

// FromRaw wraps a native handle obtained outside this package, such as the
// systf handle of a system task. A null handle is a caller bug and panics.
func (s *Session) FromRaw(raw RawHandle) *ObjectHandle {
	return s.fromRaw(raw)
}

func (s *Session) fromRaw(raw RawHandle) *ObjectHandle {
	if raw == 0 {
		panic(&guard.Violation{Op: "FromRaw", Reason: "null native handle"})
	}
	return &ObjectHandle{s: s, raw: raw}
}

// call accounts one native boundary call.
func (s *Session) call(op errors.Op) {
	s.metrics.NativeCall(string(op))
}
