package wasmsim

import (
	"context"
	"fmt"
	"io"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/sim-vpi/errors"
	"github.com/wippyai/sim-vpi/vpi"
)

const (
	// HostModule is the import module the guest calls back into.
	HostModule = "vpi_host"
	// RunExport is the guest entry point that runs the simulation.
	RunExport = "sim_run"

	mallocExport = "malloc"
	freeExport   = "free"
)

// Config holds configuration for loading a guest simulator.
type Config struct {
	// Stdout and Stderr receive the guest's WASI output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer

	// Name is the guest module name. Empty means anonymous.
	Name string

	// Args is the guest's WASI argv, also what a guest typically reports
	// through vpi_get_vlog_info.
	Args []string

	// MemoryLimitPages sets the maximum guest memory in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32

	// EnableWASI instantiates wasi_snapshot_preview1 for guests built
	// against a libc.
	EnableWASI bool
}

// Sim is a vpi.Native backed by a simulator compiled to WebAssembly. Like
// the interface it implements it is single-threaded: every method must be
// called from the goroutine driving Run, or before Run.
type Sim struct {
	ctx     context.Context
	runtime wazero.Runtime
	module  api.Module
	mem     *memory
	logger  *zap.Logger

	// routines maps descriptor user data to the routine it was registered
	// with; the guest hands the descriptor back, never the Go function.
	routines map[uint32]routine
	// regs maps a registration handle to its user data and the guest
	// allocations backing its descriptor.
	regs map[uint32]registration

	hostErr *hostError
	scratch uint32
}

type registration struct {
	allocs   []uint32
	userData uint32
}

type routine struct {
	fn     vpi.Routine
	handle uint32
}

// hostError is a failure detected on the host side of a call, reported
// through ChkError like a guest error.
type hostError struct {
	message string
}

// Load compiles and instantiates a guest simulator. ctx is used for every
// guest call made outside Run.
func Load(ctx context.Context, wasmBytes []byte, cfg *Config) (*Sim, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	s := &Sim{
		ctx:      ctx,
		runtime:  r,
		logger:   Logger(),
		routines: make(map[uint32]routine),
		regs:     make(map[uint32]registration),
	}

	if err := s.instantiate(ctx, wasmBytes, cfg); err != nil {
		_ = r.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Sim) instantiate(ctx context.Context, wasmBytes []byte, cfg *Config) error {
	if cfg.EnableWASI {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, s.runtime); err != nil {
			return errors.Wrap(errors.OpLoad, errors.KindOther, err, "instantiate WASI")
		}
	}

	_, err := s.runtime.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(s.hostCallback),
			[]api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).
		Export("callback").
		Instantiate(ctx)
	if err != nil {
		return errors.Wrap(errors.OpLoad, errors.KindOther, err, "instantiate host module")
	}

	compiled, err := s.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return errors.Wrap(errors.OpLoad, errors.KindOther, err, "compile guest")
	}

	modCfg := wazero.NewModuleConfig().
		WithName(cfg.Name).
		WithStartFunctions("_initialize")
	if len(cfg.Args) > 0 {
		modCfg = modCfg.WithArgs(cfg.Args...)
	}
	if cfg.Stdout != nil {
		modCfg = modCfg.WithStdout(cfg.Stdout)
	}
	if cfg.Stderr != nil {
		modCfg = modCfg.WithStderr(cfg.Stderr)
	}

	mod, err := s.runtime.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return errors.Wrap(errors.OpLoad, errors.KindOther, err, "instantiate guest")
	}
	s.module = mod

	if mod.Memory() == nil {
		return errors.New(errors.OpLoad, errors.KindInvalidInput).Detail("guest exports no memory").Build()
	}
	s.mem = &memory{mem: mod.Memory()}

	for _, name := range []string{mallocExport, freeExport} {
		if mod.ExportedFunction(name) == nil {
			return errors.New(errors.OpLoad, errors.KindInvalidInput).Detail("guest does not export %s", name).Build()
		}
	}

	s.scratch, err = s.malloc(scratchSize)
	if err != nil {
		return errors.Wrap(errors.OpLoad, errors.KindOther, err, "allocate scratch")
	}
	return nil
}

// Run calls the guest's sim_run export and returns when the simulation
// ends. Callbacks fire on the calling goroutine while Run is active.
func (s *Sim) Run(ctx context.Context) error {
	fn := s.module.ExportedFunction(RunExport)
	if fn == nil {
		return errors.New(errors.OpRun, errors.KindInvalidInput).Detail("guest does not export %s", RunExport).Build()
	}
	prev := s.ctx
	s.ctx = ctx
	defer func() { s.ctx = prev }()

	if _, err := fn.Call(ctx); err != nil {
		return errors.Wrap(errors.OpRun, errors.KindOther, err, "guest simulation trapped")
	}
	return nil
}

// Close releases the runtime and the guest.
func (s *Sim) Close(ctx context.Context) error {
	return s.runtime.Close(ctx)
}

// Module returns the guest module instance.
func (s *Sim) Module() api.Module {
	return s.module
}

// hostCallback implements vpi_host.callback(cb_data_ptr) -> i32. A one-shot
// registration is released once its routine returns.
func (s *Sim) hostCallback(ctx context.Context, _ api.Module, stack []uint64) {
	ptr := api.DecodeU32(stack[0])
	stack[0] = 0

	prev := s.ctx
	s.ctx = ctx
	defer func() { s.ctx = prev }()

	data, err := s.readCallbackData(ptr)
	if err != nil {
		s.logger.Error("read callback descriptor", zap.Uint32("ptr", ptr), zap.Error(err))
		return
	}
	r, ok := s.routines[uint32(data.UserData)]
	if !ok {
		s.logger.Warn("guest fired an unregistered callback", zap.Uint32("ptr", ptr), zap.Int32("reason", data.Reason))
		return
	}
	data.Routine = r.fn
	stack[0] = api.EncodeI32(r.fn(data))
	if vpi.CallbackReason(data.Reason).OneShot() {
		s.release(r.handle)
	}
}

// invoke calls a guest export without touching the host error state.
func (s *Sim) invoke(name string, params ...uint64) (uint64, error) {
	fn := s.module.ExportedFunction(name)
	if fn == nil {
		return 0, fmt.Errorf("guest does not export %s", name)
	}
	res, err := fn.Call(s.ctx, params...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if len(res) == 0 {
		return 0, nil
	}
	return res[0], nil
}

// call is invoke for vpi entry points: it starts a fresh error state and
// records host-side failures for ChkError.
func (s *Sim) call(name string, params ...uint64) (uint64, bool) {
	s.hostErr = nil
	res, err := s.invoke(name, params...)
	if err != nil {
		s.fail(err)
		return 0, false
	}
	return res, true
}

func (s *Sim) fail(err error) {
	s.hostErr = &hostError{message: err.Error()}
	s.logger.Debug("guest call failed", zap.Error(err))
}

func (s *Sim) malloc(size uint32) (uint32, error) {
	res, err := s.invoke(mallocExport, uint64(size))
	if err != nil {
		return 0, err
	}
	ptr := api.DecodeU32(res)
	if ptr == 0 {
		return 0, fmt.Errorf("guest malloc(%d) returned null", size)
	}
	return ptr, nil
}

func (s *Sim) free(ptrs ...uint32) {
	for _, ptr := range ptrs {
		if ptr == 0 {
			continue
		}
		if _, err := s.invoke(freeExport, uint64(ptr)); err != nil {
			s.logger.Warn("guest free failed", zap.Uint32("ptr", ptr), zap.Error(err))
		}
	}
}

// cstring copies s into guest memory with a NUL terminator.
func (s *Sim) cstring(str []byte) (uint32, error) {
	ptr, err := s.malloc(uint32(len(str)) + 1)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, len(str)+1)
	copy(buf, str)
	if err := s.mem.write(ptr, buf); err != nil {
		s.free(ptr)
		return 0, err
	}
	return ptr, nil
}
