package vpi

import (
	"github.com/wippyai/sim-vpi/errors"
)

// SimulatorInfo describes the running simulator.
type SimulatorInfo struct {
	Product   string
	Version   string
	Arguments []string
}

// Info queries the simulator's command line, product name and version.
func (s *Session) Info() (SimulatorInfo, error) {
	s.guard.Check("Session.Info")
	var raw VlogInfo
	s.call(errors.OpInfo)
	if !s.native.VlogInfo(&raw) {
		return SimulatorInfo{}, s.failure(errors.OpInfo, "simulator info unavailable")
	}
	info := SimulatorInfo{
		Product:   string(raw.Product),
		Version:   string(raw.Version),
		Arguments: make([]string, len(raw.Argv)),
	}
	for i, arg := range raw.Argv {
		info.Arguments[i] = string(arg)
	}
	return info, nil
}
