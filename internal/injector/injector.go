//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"context"

	"github.com/google/wire"

	"github.com/zeusync/tileworld/internal/core/config"
)

func InitializeRuntime(ctx context.Context, cfg *config.Config) (*Runtime, func(), error) {
	wire.Build(TerminalSet)
	return nil, nil, nil
}
