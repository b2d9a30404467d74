// Package config loads the YAML configuration of a simulator plugin and
// turns it into a logger, session options and wasm backend settings.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/sim-vpi/errors"
	"github.com/wippyai/sim-vpi/metrics"
	"github.com/wippyai/sim-vpi/vpi"
	"github.com/wippyai/sim-vpi/wasmsim"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "SIM_VPI_CONFIG"

// Callback reclamation policies.
const (
	ReclaimTeardown = "teardown" // Session.Close releases every registration
	ReclaimNever    = "never"    // registrations live as long as the process
)

// Config is the plugin configuration.
type Config struct {
	Log       LogConfig      `yaml:"log"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Callbacks CallbackConfig `yaml:"callbacks"`
	Wasm      WasmConfig     `yaml:"wasm"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development,omitempty"`
	// Simulator routes log output to the simulator transcript instead of
	// stderr once the session is running.
	Simulator bool `yaml:"simulator,omitempty"`
}

// MetricsConfig controls the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace,omitempty"`
}

// CallbackConfig controls callback registration lifetime.
type CallbackConfig struct {
	Reclaim string `yaml:"reclaim"`
}

// WasmConfig configures the WebAssembly backend.
type WasmConfig struct {
	Module           string   `yaml:"module,omitempty"`
	Name             string   `yaml:"name,omitempty"`
	Args             []string `yaml:"args,omitempty"`
	MemoryLimitPages uint32   `yaml:"memory_limit_pages,omitempty"`
	WASI             bool     `yaml:"wasi,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:       LogConfig{Level: "info"},
		Callbacks: CallbackConfig{Reclaim: ReclaimTeardown},
	}
}

// Load reads and validates a YAML file. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.OpConfig, errors.KindOther, err, fmt.Sprintf("read %s", path))
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.OpConfig, errors.KindInvalidInput, err, fmt.Sprintf("load %s", path))
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by EnvPath, or returns Default when the
// variable is unset.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvPath)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes and validates YAML. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.OpConfig, errors.KindInvalidInput, err, "parse yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.InvalidInput(errors.OpConfig, fmt.Sprintf("log.level: %v", err))
	}
	switch c.Callbacks.Reclaim {
	case ReclaimTeardown, ReclaimNever:
	default:
		return errors.InvalidInput(errors.OpConfig,
			fmt.Sprintf("callbacks.reclaim: %q is not %q or %q", c.Callbacks.Reclaim, ReclaimTeardown, ReclaimNever))
	}
	if c.Wasm.MemoryLimitPages > 65536 {
		return errors.InvalidInput(errors.OpConfig, "wasm.memory_limit_pages: exceeds 65536")
	}
	return nil
}

// BuildLogger builds the stderr logger described by the log section.
func (c *Config) BuildLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.InvalidInput(errors.OpConfig, fmt.Sprintf("log.level: %v", err))
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	l, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(errors.OpConfig, errors.KindOther, err, "build logger")
	}
	return l, nil
}

// SimulatorLogger returns a logger writing to the simulator transcript when
// log.simulator is set, and fallback otherwise.
func (c *Config) SimulatorLogger(s *vpi.Session, fallback *zap.Logger) *zap.Logger {
	if !c.Log.Simulator {
		return fallback
	}
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	return vpi.NewSimulatorLogger(s, level)
}

// SessionOptions returns the vpi options for this configuration. A metrics
// collector is registered against reg when metrics are enabled.
func (c *Config) SessionOptions(logger *zap.Logger, reg prometheus.Registerer) ([]vpi.Option, error) {
	opts := []vpi.Option{vpi.WithLogger(logger)}
	if c.Metrics.Enabled {
		collector, err := metrics.NewCollector(reg, c.Metrics.Namespace)
		if err != nil {
			return nil, errors.Wrap(errors.OpConfig, errors.KindOther, err, "register metrics")
		}
		opts = append(opts, vpi.WithMetrics(collector))
	}
	if c.Callbacks.Reclaim == ReclaimNever {
		opts = append(opts, vpi.WithoutReclaim())
	}
	return opts, nil
}

// WasmSimConfig returns the wasm backend configuration.
func (c *Config) WasmSimConfig() *wasmsim.Config {
	return &wasmsim.Config{
		Name:             c.Wasm.Name,
		Args:             c.Wasm.Args,
		MemoryLimitPages: c.Wasm.MemoryLimitPages,
		EnableWASI:       c.Wasm.WASI,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
	}
}
