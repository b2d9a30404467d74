package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/sim-vpi/config"
	"github.com/wippyai/sim-vpi/vpi"
	"github.com/wippyai/sim-vpi/wasmsim"
)

func init() {
	// Every native call must come from the thread recorded at startup.
	runtime.LockOSThread()
}

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to simulator wasm module (overrides wasm.module)")
		configFile  = flag.String("config", "", "Path to YAML config (default $"+config.EnvPath+")")
		cliArgs     = flag.String("argv", "", "Simulator arguments (comma-separated)")
		hierarchy   = flag.Bool("hier", false, "Print the design hierarchy at start of simulation")
		interactive = flag.Bool("i", false, "Browse the design hierarchy after the run (TUI)")
	)
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *wasmFile != "" {
		cfg.Wasm.Module = *wasmFile
	}
	if *cliArgs != "" {
		cfg.Wasm.Args = strings.Split(*cliArgs, ",")
	}
	if cfg.Wasm.Module == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -wasm <sim.wasm> [-config file.yaml] [-argv a,b] [-hier]")
		fmt.Fprintln(os.Stderr, "       run -wasm <sim.wasm> -i  (browse hierarchy after the run)")
		os.Exit(1)
	}
	if *interactive && !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: -i needs a terminal on stdout")
		os.Exit(1)
	}

	tree, err := run(cfg, *hierarchy, *interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(cfg.Wasm.Module, tree); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

// run loads the simulator, registers the start-of-simulation hook and runs
// the guest to completion. The hierarchy is walked at start of simulation
// when it is printed or browsed later.
func run(cfg *config.Config, printTree, keepTree bool) ([]*node, error) {
	ctx := context.Background()

	logger, err := cfg.BuildLogger()
	if err != nil {
		return nil, err
	}
	defer func() { _ = logger.Sync() }()
	wasmsim.SetLogger(logger.Named("wasmsim"))

	data, err := os.ReadFile(cfg.Wasm.Module)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	sim, err := wasmsim.Load(ctx, data, cfg.WasmSimConfig())
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	defer sim.Close(ctx)

	opts, err := cfg.SessionOptions(logger.Named("vpi"), prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	s := vpi.New(sim, opts...)
	defer s.Close()
	s.MarkMainThread()

	var (
		tree    []*node
		walkErr error
	)
	s.RunStartupRoutines(func(st *vpi.Startup) {
		cb := st.NewCallback(vpi.ReasonStartOfSimulation).Call(func(vpi.CallbackEvent) {
			reportStart(s, cfg.SimulatorLogger(s, logger), logger)
			if !printTree && !keepTree {
				return
			}
			tree, walkErr = snapshot(s)
			if walkErr == nil && printTree {
				walkErr = writeTree(s.Printer(), tree)
			}
		})
		if _, err := st.Register(cb); err != nil {
			logger.Warn("start of simulation hook not registered", zap.Error(err))
		}
	})

	if err := sim.Run(ctx); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, fmt.Errorf("walk hierarchy: %w", walkErr)
	}
	return tree, nil
}

// reportStart logs the simulator identity to simLog. A failed query is
// logged to logger and does not stop the run.
func reportStart(s *vpi.Session, simLog, logger *zap.Logger) {
	info, err := s.Info()
	if err != nil {
		logger.Warn("simulator info unavailable", zap.Error(err))
		return
	}
	simLog.Info("simulation started",
		zap.String("product", info.Product),
		zap.String("version", info.Version),
		zap.Strings("args", info.Arguments))
}
