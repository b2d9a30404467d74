// Package metrics records boundary-call activity of a vpi session in
// Prometheus form.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles the Prometheus metrics for one simulator session. A nil
// *Collector is valid and records nothing.
type Collector struct {
	NativeCalls    *prometheus.CounterVec
	NativeErrors   *prometheus.CounterVec
	CallbacksFired *prometheus.CounterVec
	CallbacksLive  prometheus.Gauge
	OutputBytes    prometheus.Counter
}

// NewCollector registers the metrics against reg, defaulting to the global
// registry when nil. Namespace prefixes every metric name and may be empty.
func NewCollector(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	calls, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vpi_native_calls_total",
		Help:      "Native interface calls issued, labeled by operation.",
	}, []string{"op"}), "vpi_native_calls_total")
	if err != nil {
		return nil, err
	}

	errs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vpi_native_errors_total",
		Help:      "Errors translated from the native last-error record, labeled by operation and kind.",
	}, []string{"op", "kind"}), "vpi_native_errors_total")
	if err != nil {
		return nil, err
	}

	fired, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vpi_callbacks_fired_total",
		Help:      "Callback trampoline invocations, labeled by callback reason.",
	}, []string{"reason"}), "vpi_callbacks_fired_total")
	if err != nil {
		return nil, err
	}

	live, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "vpi_callbacks_registered",
		Help:      "Callback registrations currently held in the session registry.",
	}), "vpi_callbacks_registered")
	if err != nil {
		return nil, err
	}

	out, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vpi_output_bytes_total",
		Help:      "Bytes written to the simulator output.",
	}), "vpi_output_bytes_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		NativeCalls:    calls,
		NativeErrors:   errs,
		CallbacksFired: fired,
		CallbacksLive:  live,
		OutputBytes:    out,
	}, nil
}

// NativeCall counts one native entry point invocation.
func (c *Collector) NativeCall(op string) {
	if c == nil {
		return
	}
	c.NativeCalls.WithLabelValues(op).Inc()
}

// NativeError counts one translated error.
func (c *Collector) NativeError(op, kind string) {
	if c == nil {
		return
	}
	c.NativeErrors.WithLabelValues(op, kind).Inc()
}

// CallbackFired counts one trampoline dispatch.
func (c *Collector) CallbackFired(reason string) {
	if c == nil {
		return
	}
	c.CallbacksFired.WithLabelValues(reason).Inc()
}

// SetCallbacksLive updates the registration gauge.
func (c *Collector) SetCallbacksLive(n int) {
	if c == nil {
		return
	}
	c.CallbacksLive.Set(float64(n))
}

// Output counts bytes written to the simulator output.
func (c *Collector) Output(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.OutputBytes.Add(float64(n))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
