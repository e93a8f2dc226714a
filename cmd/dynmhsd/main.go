package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/dynmhs/dynmhs/pkg/config"
	"github.com/dynmhs/dynmhs/pkg/daemon"
	"github.com/dynmhs/dynmhs/pkg/handlers"
	"github.com/dynmhs/dynmhs/pkg/logging"
	"github.com/dynmhs/dynmhs/pkg/mapping"
	"github.com/dynmhs/dynmhs/pkg/mode"
	"github.com/dynmhs/dynmhs/pkg/queue"
	"github.com/dynmhs/dynmhs/pkg/rtnl"
	"github.com/dynmhs/dynmhs/pkg/sequencer"
)

// version is stamped at build time via -ldflags; it defaults to "dev" so a
// plain `go build` still produces a runnable binary.
var version = "dev"

func printVersion() {
	fmt.Printf("Dynamic Multi-Homing Setup (DynMHS), Version %s\n", version)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "dynmhsd: %v\n", r)
			os.Exit(1)
		}
	}()

	os.Exit(mainImpl(mainImplParams{
		args:              os.Args[1:],
		parseConfig:       config.Parse,
		newLogger:         logging.New,
		openSocket:        rtnl.Open,
		newShutdownSignal: daemon.NewShutdownSignal,
	}))
}

// mainImplParams collects mainImpl's dependencies as functions, the same
// struct-of-funcs pattern the daemon's DI seams elsewhere use, so tests can
// substitute fakes without touching global state.
type mainImplParams struct {
	args              []string
	parseConfig       func([]string) (*config.Config, error)
	newLogger         func(level int, color bool, file string) (logr.Logger, func() error, error)
	openSocket        func() (*rtnl.Socket, error)
	newShutdownSignal func() (*daemon.ShutdownSignal, error)
}

func mainImpl(params mainImplParams) int {
	cfg, err := params.parseConfig(params.args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dynmhsd: %v\n", err)
		return 1
	}
	if cfg.Help {
		flag.CommandLine.SetOutput(os.Stdout)
		fmt.Println("Usage: dynmhsd [flags]")
		return 1
	}
	if cfg.Version {
		printVersion()
		return 0
	}

	log, closeLog, err := params.newLogger(cfg.LogLevel, cfg.LogColor, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dynmhsd: logger: %v\n", err)
		return 1
	}
	defer closeLog()

	printVersion()
	log.Info("starting", "managed interfaces", len(cfg.Mappings))

	mp, err := mapping.New(cfg.Mappings)
	if err != nil {
		log.Error(err, "invalid mapping configuration")
		return 1
	}

	socket, err := params.openSocket()
	if err != nil {
		log.Error(err, "failed to open control channel")
		return 1
	}

	sig, err := params.newShutdownSignal()
	if err != nil {
		log.Error(err, "failed to install shutdown signal handler")
		socket.Close()
		return 1
	}
	defer sig.Close()

	seq := sequencer.New()
	q := queue.New()
	m := mode.Undefined
	dispatcher := handlers.New(mp, seq, q, &m, log)
	controller := daemon.NewController(socket, seq, q, dispatcher, &m, log)

	if err := controller.Bootstrap(); err != nil {
		log.Error(err, "bootstrap failed")
		socket.Close()
		return 1
	}

	loop := daemon.NewLoop(socket, sig, dispatcher, q, log)
	if err := loop.Run(); err != nil {
		log.Error(err, "event loop exited with an error")
		// A steady-state failure is still fatal, but shutdown runs anyway,
		// best-effort, so whatever rules and cloned routes are already
		// installed get swept before the process exits (spec.md §7).
		if shutdownErr := controller.Shutdown(); shutdownErr != nil {
			log.Error(shutdownErr, "shutdown sweep after event loop failure also failed")
		}
		return 1
	}

	if err := controller.Shutdown(); err != nil {
		log.Error(err, "shutdown sweep failed")
		return 1
	}

	log.Info("stopped cleanly")
	return 0
}
