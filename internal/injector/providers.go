package injector

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/google/wire"

	"github.com/zeusync/tileworld/internal/app"
	"github.com/zeusync/tileworld/internal/core/config"
	"github.com/zeusync/tileworld/internal/core/events/bus"
	"github.com/zeusync/tileworld/internal/core/level"
	"github.com/zeusync/tileworld/internal/core/level/loader"
	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/core/system"
	"github.com/zeusync/tileworld/internal/core/systems/collision"
	"github.com/zeusync/tileworld/internal/core/systems/input"
	"github.com/zeusync/tileworld/internal/core/triggers"
	"github.com/zeusync/tileworld/internal/render/terminal"
)

// CoreSet builds the simulation without any terminal.
var CoreSet = wire.NewSet(
	ProvideLogger,
	ProvideBusObserver,
	ProvideBus,
	ProvideCollision,
	ProvideInput,
	ProvideWorld,
	ProvideRules,
	ProvideLevels,
	app.New,
)

// TerminalSet adds the tcell screen, renderer and input source.
var TerminalSet = wire.NewSet(
	CoreSet,
	ProvideSource,
	wire.Bind(new(input.Source), new(*terminal.Source)),
	ProvideScreen,
	ProvideRenderer,
	wire.Struct(new(Runtime), "*"),
)

// Runtime is everything main needs to run the game in a terminal.
type Runtime struct {
	App       *app.App
	Logger    *log.Logger
	Events    *bus.LogObserver
	Collision *collision.Manager
	Renderer  *terminal.Renderer
	Source    *terminal.Source
	Screen    tcell.Screen
}

func ProvideLogger(cfg *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOutputs(level, cfg.LogFile), nil
}

func ProvideBusObserver(logger *log.Logger) *bus.LogObserver {
	return bus.NewLogObserver(logger)
}

func ProvideBus(logger *log.Logger, obs *bus.LogObserver) bus.EventBus {
	b := bus.New(logger)
	b.AddObserver(obs)
	return b
}

func ProvideCollision(logger *log.Logger) *collision.Manager {
	return collision.New(logger)
}

func ProvideInput(src input.Source, logger *log.Logger) *input.Manager {
	return input.New(src, logger)
}

func ProvideWorld(cfg *config.Config, logger *log.Logger, b bus.EventBus, in *input.Manager, col *collision.Manager) (*system.World, error) {
	return system.New(
		system.WithLogger(logger),
		system.WithBus(b),
		system.WithTickRate(cfg.TickRate),
		system.WithSystems(in, col),
	)
}

func ProvideRules(cfg *config.Config, b bus.EventBus, logger *log.Logger) (*triggers.RuleSet, error) {
	return triggers.Compile(cfg.Colors, triggers.NewRegistry(b), logger)
}

func ProvideLevels(ctx context.Context, cfg *config.Config, rules *triggers.RuleSet, logger *log.Logger) (*level.Library, error) {
	opts, err := cfg.LoaderOptions(logger)
	if err != nil {
		return nil, err
	}
	opts.Rule = rules.Apply
	return loader.LoadAll(ctx, cfg.Levels.Dir, opts)
}

func ProvideSource() *terminal.Source {
	return terminal.NewSource(terminal.DefaultCellWidth, terminal.DefaultCellHeight)
}

func ProvideScreen() (tcell.Screen, func(), error) {
	screen, err := terminal.Open()
	if err != nil {
		return nil, nil, err
	}
	return screen, screen.Fini, nil
}

func ProvideRenderer(screen tcell.Screen, logger *log.Logger) *terminal.Renderer {
	return terminal.NewRenderer(screen, terminal.DefaultCellWidth, terminal.DefaultCellHeight, logger)
}
