package injector

import (
	"context"

	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/server"
	"github.com/zeusync/rigid2d/internal/sim"
	"github.com/zeusync/rigid2d/pkg/concurrent"
)

// App runs the simulation and the server that streams it.
type App struct {
	Runner *sim.Runner
	Server *server.Server
	Logger log.Log
}

func NewApp(runner *sim.Runner, srv *server.Server, logger log.Log) *App {
	return &App{Runner: runner, Server: srv, Logger: logger}
}

// Run blocks until ctx is done or either component fails.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("Application starting")
	defer a.Logger.Info("Application stopped")

	return concurrent.Run(ctx, a.Runner.Run, a.Server.Serve)
}
