package cvpi

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/wippyai/sim-vpi/config"
	"github.com/wippyai/sim-vpi/vpi"
)

var pending []vpi.StartupRoutine

// Register queues startup routines for the simulator's startup hook. It must
// be called before the simulator loads the plugin, typically from init.
func Register(r ...vpi.StartupRoutine) {
	pending = append(pending, r...)
}

// Start builds the session for native from cfg, records the calling thread as
// the main thread and runs routines. It registers an end-of-simulation
// callback that closes the session and flushes the logger, which also
// becomes the vpi package logger.
func Start(native vpi.Native, cfg *config.Config, reg prometheus.Registerer, routines ...vpi.StartupRoutine) (*vpi.Session, error) {
	logger, err := cfg.BuildLogger()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.SessionOptions(logger, reg)
	if err != nil {
		return nil, err
	}
	vpi.SetLogger(logger)

	s := vpi.New(native, opts...)
	s.MarkMainThread()

	teardown := func(st *vpi.Startup) {
		cb := st.NewCallback(vpi.ReasonEndOfSimulation).Call(func(vpi.CallbackEvent) {
			_ = s.Close()
			_ = logger.Sync()
		})
		if _, err := st.Register(cb); err != nil {
			logger.Warn("end of simulation hook not registered", zap.Error(err))
		}
	}
	s.RunStartupRoutines(append([]vpi.StartupRoutine{teardown}, routines...)...)
	logger.Info("plugin started",
		zap.Int("routines", len(routines)),
		zap.Int("callbacks", s.LiveCallbacks()))
	return s, nil
}
