//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
)

// InitializeApp assembles the application from cfg.
func InitializeApp(cfg Config) (*App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
