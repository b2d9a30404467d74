//go:build vpi

// Command plugin is a loadable VPI plugin that reports the simulator and the
// top-level modules at start of simulation. Build it with
//
//	go build -tags vpi -buildmode=c-shared -o sim-vpi.vpi ./cmd/plugin
//
// and load it with the simulator's plugin flag (iverilog: vvp -M. -msim-vpi).
package main

import "C"

import (
	"go.uber.org/zap"

	"github.com/wippyai/sim-vpi/cvpi"
	"github.com/wippyai/sim-vpi/vpi"
)

func init() {
	cvpi.Register(func(st *vpi.Startup) {
		s := st.Session()
		cb := st.NewCallback(vpi.ReasonStartOfSimulation).Call(func(vpi.CallbackEvent) {
			if info, err := s.Info(); err != nil {
				vpi.Logger().Warn("simulator info unavailable", zap.Error(err))
			} else {
				_ = s.Printf("sim-vpi: %s %s\n", info.Product, info.Version)
			}
			it, err := s.IterateRoots(vpi.ObjModule)
			if err != nil {
				_ = s.Printf("sim-vpi: %v\n", err)
				return
			}
			for top := range it.All() {
				if name, err := top.FullName(); err == nil {
					_ = s.Printf("sim-vpi: top module %s\n", name)
				}
			}
		})
		if _, err := st.Register(cb); err != nil {
			vpi.Logger().Warn("start of simulation hook not registered", zap.Error(err))
		}
	})
}

func main() {}
