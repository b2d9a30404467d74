package vpi

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package logger used by sessions created without
// WithLogger. It is a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger replaces the package logger. Call it before creating sessions.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// NewSimulatorLogger returns a logger that writes console-encoded entries to
// the simulator's own output through the session printer. Entries logged
// during startup are dropped by the printer with an error reported to zap's
// internal error output.
func NewSimulatorLogger(s *Session, level zapcore.LevelEnabler) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), s.Printer(), level)
	return zap.New(core)
}
