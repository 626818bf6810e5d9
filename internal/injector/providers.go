package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/rigid2d/internal/core/events/bus"
	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/core/systems/physics"
	"github.com/zeusync/rigid2d/internal/scene"
	"github.com/zeusync/rigid2d/internal/server"
	"github.com/zeusync/rigid2d/internal/sim"
)

var ProviderSet = wire.NewSet(
	wire.FieldsOf(new(Config), "Log", "Sim", "Server"),
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideScene,
	ProvideWorld,
	bus.New,
	sim.NewRunner,
	wire.Bind(new(server.Simulation), new(*sim.Runner)),
	server.NewServer,
	NewApp,
)

// ProvideLogger builds the process logger and flushes it on cleanup.
func ProvideLogger(cfg LogConfig) (*log.Logger, func()) {
	logger := log.NewWithOptions(log.Options{Level: cfg.Level, Console: cfg.Console, Sampling: !cfg.Console})
	return logger, func() { _ = logger.Sync() }
}

func ProvideScene(cfg Config) (*scene.Config, error) {
	if cfg.Scene == "" {
		return scene.Default(), nil
	}
	return scene.LoadFile(cfg.Scene)
}

func ProvideWorld(sc *scene.Config, logger log.Log) (*physics.World, error) {
	return sc.NewWorld(logger)
}
