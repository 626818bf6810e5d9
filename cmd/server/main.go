package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/injector"
)

func main() {
	var (
		configPath string
		listenAddr string
		scenePath  string
		logLevel   string
		tickRate   int
		substeps   int
		console    bool
	)

	flag.StringVar(&configPath, "config", "", "YAML configuration file")
	flag.StringVar(&listenAddr, "listen", "", "HTTP listen address (overrides config)")
	flag.StringVar(&scenePath, "scene", "", "YAML or JSON scene file (overrides config)")
	flag.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flag.IntVar(&tickRate, "tick-rate", 0, "simulation ticks per second (overrides config)")
	flag.IntVar(&substeps, "substeps", 0, "physics substeps per tick (overrides config)")
	flag.BoolVar(&console, "console", false, "human-readable log output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rigid2d - 2D rigid body simulation server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := injector.DefaultConfig()
	if configPath != "" {
		loaded, err := injector.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}
	if scenePath != "" {
		cfg.Scene = scenePath
	}
	if logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}
		cfg.Log.Level = level
	}
	if tickRate > 0 {
		cfg.Sim.TickRate = tickRate
	}
	if substeps > 0 {
		cfg.Sim.Substeps = substeps
	}
	if console {
		cfg.Log.Console = true
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(2)
	}

	app, cleanup, err := injector.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing application:", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx); err != nil {
		app.Logger.Error("Application failed", log.Error(err))
		cleanup()
		os.Exit(1)
	}
}
