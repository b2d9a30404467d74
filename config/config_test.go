package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/sim-vpi/errors"
	"github.com/wippyai/sim-vpi/guard"
	"github.com/wippyai/sim-vpi/vpi"
	"github.com/wippyai/sim-vpi/vpi/vpitest"
)

const sample = `
log:
  level: debug
  development: true
metrics:
  enabled: true
  namespace: sim
callbacks:
  reclaim: never
wasm:
  module: sim.wasm
  args: [sim, +trace]
  memory_limit_pages: 256
  wasi: true
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "sim", cfg.Metrics.Namespace)
	assert.Equal(t, ReclaimNever, cfg.Callbacks.Reclaim)
	assert.Equal(t, "sim.wasm", cfg.Wasm.Module)

	wc := cfg.WasmSimConfig()
	assert.Equal(t, []string{"sim", "+trace"}, wc.Args)
	assert.Equal(t, uint32(256), wc.MemoryLimitPages)
	assert.True(t, wc.EnableWASI)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Parse([]byte("metrics:\n  enabled: true\n"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ReclaimTeardown, cfg.Callbacks.Reclaim)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "logging:\n  level: info\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad reclaim", "callbacks:\n  reclaim: sometimes\n"},
		{"memory limit", "wasm:\n  memory_limit_pages: 70000\n"},
		{"not yaml", "log: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, &errors.Error{Op: errors.OpConfig, Kind: errors.KindInvalidInput})
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, &errors.Error{Op: errors.OpConfig, Kind: errors.KindOther})

	t.Setenv(EnvPath, path)
	cfg, err = LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Metrics.Enabled)

	t.Setenv(EnvPath, "")
	cfg, err = LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestBuildLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	l, err := cfg.BuildLogger()
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestSessionOptions(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	opts, err := cfg.SessionOptions(zap.NewNop(), reg)
	require.NoError(t, err)

	sim := vpitest.New()
	opts = append(opts, vpi.WithGuard(guard.New(guard.WithThreadID(func() uint64 { return 1 }))))
	s := vpi.New(sim, opts...)
	s.MarkMainThread()
	s.RunStartupRoutines()

	_, err = s.NewCallback(vpi.ReasonEndOfSimulation).Call(func(vpi.CallbackEvent) {}).Register()
	require.NoError(t, err)

	// reclaim: never
	require.NoError(t, s.Close())
	assert.Equal(t, 1, s.LiveCallbacks())

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() == "sim_vpi_callbacks_registered" {
			found = true
		}
	}
	assert.True(t, found)

	// Registering the same collector twice reuses it.
	_, err = cfg.SessionOptions(zap.NewNop(), reg)
	assert.NoError(t, err)
}

func TestSimulatorLogger(t *testing.T) {
	sim := vpitest.New()
	s := vpi.New(sim, vpi.WithGuard(guard.New(guard.WithThreadID(func() uint64 { return 1 }))))
	s.MarkMainThread()
	s.RunStartupRoutines()

	fallback := zap.NewNop()
	cfg := Default()
	assert.Same(t, fallback, cfg.SimulatorLogger(s, fallback))

	cfg.Log.Simulator = true
	cfg.SimulatorLogger(s, fallback).Info("to transcript")
	assert.Contains(t, sim.Output(), "to transcript")
}
