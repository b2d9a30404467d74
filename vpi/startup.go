package vpi

import (
	"go.uber.org/zap"
)

// StartupRoutine runs once during the configuration phase, before the
// simulation starts. Only registration calls are legal from it.
type StartupRoutine func(*Startup)

// Startup is the configuration-phase context handed to startup routines.
type Startup struct {
	s *Session
}

// Session returns the session being configured.
func (st *Startup) Session() *Session {
	return st.s
}

// NewCallback starts a registration; pass the builder to Register.
func (st *Startup) NewCallback(reason CallbackReason) *CallbackBuilder {
	return st.s.NewCallback(reason)
}

// Register registers a callback during the configuration phase. It panics
// after startup has finished or off the designated thread.
func (st *Startup) Register(b *CallbackBuilder) (*ObjectHandle, error) {
	st.s.guard.AssertInStartup("Startup.Register")
	st.s.guard.AssertOnMainThread("Startup.Register")
	return st.s.register(b)
}

// RunStartupRoutines runs every routine in order on the designated thread and
// then marks startup finished. It may be called once; loader glue calls it
// from the simulator's startup hook.
func (s *Session) RunStartupRoutines(routines ...StartupRoutine) {
	s.guard.AssertInStartup("Session.RunStartupRoutines")
	s.guard.AssertOnMainThread("Session.RunStartupRoutines")

	st := &Startup{s: s}
	for i, routine := range routines {
		if routine == nil {
			continue
		}
		s.logger.Debug("running startup routine", zap.Int("index", i))
		routine(st)
	}
	s.MarkStartupFinished()
}
