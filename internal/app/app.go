package app

import (
	"context"
	"fmt"
	"image/color"
	"slices"

	"github.com/zeusync/tileworld/internal/core/config"
	"github.com/zeusync/tileworld/internal/core/events/bus"
	"github.com/zeusync/tileworld/internal/core/level"
	"github.com/zeusync/tileworld/internal/core/models"
	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/core/system"
	"github.com/zeusync/tileworld/internal/core/systems/input"
	"github.com/zeusync/tileworld/internal/core/systems/physics"
	"github.com/zeusync/tileworld/internal/core/triggers"
)

const (
	// PlayState is the engine state the levels are played in.
	PlayState = "play"

	// EventExit is published by "event:exit" tiles and advances to the
	// next level by name.
	EventExit = triggers.EventPrefix + "exit"

	// EventLevelChanged is published after a level switch with the level
	// name as data.
	EventLevelChanged = "level.changed"
)

var playerColor = color.RGBA{R: 0x1e, G: 0x90, B: 0xff, A: 0xff}

// App wires the loaded levels and the controllable player into a world.
type App struct {
	cfg    *config.Config
	logger log.Log
	world  *system.World
	input  *input.Manager
	levels *level.Library

	state   *system.EngineState
	player  *models.Entity
	current string
	sub     bus.Subscription
}

func New(cfg *config.Config, logger *log.Logger, world *system.World, in *input.Manager, levels *level.Library) *App {
	var l log.Log = log.Provide()
	if logger != nil {
		l = logger
	}
	if levels == nil {
		levels = level.NewLibrary()
	}
	return &App{
		cfg:    cfg,
		logger: l.With(log.String("component", "app")),
		world:  world,
		input:  in,
		levels: levels,
	}
}

func (a *App) World() *system.World       { return a.world }
func (a *App) Player() *models.Entity     { return a.player }
func (a *App) State() *system.EngineState { return a.state }

// Level is the name of the level being played, empty before Setup or when
// no level was available.
func (a *App) Level() string { return a.current }

// Setup pushes the play state, creates the player and loads the start
// level. The level becomes live on the first tick.
func (a *App) Setup() error {
	p := a.cfg.Player
	a.player = models.NewMovable(p.X, p.Y, p.Size, p.Size, physics.V(1, 0),
		models.WithName("player"),
		models.WithLogger(a.logger),
	)
	a.player.SetShape(models.ShapeEllipse)
	a.player.SetColor(playerColor)
	a.player.SetVisible(true)
	a.player.PushState(input.NewControl(a.input, p.Speed))

	a.state = system.NewEngineState(PlayState)
	a.world.PushState(a.state)
	a.world.Follow(a.player)

	sub, err := a.world.Bus().Subscribe(EventExit, func(bus.Event) error {
		return a.NextLevel()
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", EventExit, err)
	}
	a.sub = sub

	name, ok := a.startLevel()
	if !ok {
		a.logger.Warn("No level to start with", log.String("dir", a.cfg.Levels.Dir))
		a.state.AddObj(a.player)
		return nil
	}
	return a.ChangeLevel(name)
}

func (a *App) startLevel() (string, bool) {
	if a.cfg.StartLevel != "" {
		return a.cfg.StartLevel, true
	}
	names := a.levels.Names()
	if len(names) == 0 {
		return "", false
	}
	return names[0], true
}

// ChangeLevel wipes the play state and queues the named level plus the
// player at its start position. Safe to call from inside a tick.
func (a *App) ChangeLevel(name string) error {
	if a.state == nil {
		return ErrNotSetUp
	}
	lvl, ok := a.levels.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrLevelNotFound, name)
	}

	a.state.WipeState()
	lvl.Load(a.state)

	a.player.SetPos(a.cfg.Player.X, a.cfg.Player.Y)
	a.player.Movement().Refresh()
	a.player.Movement().SetActiveCheckpoint(nil)
	a.state.AddObj(a.player)

	a.current = name
	a.logger.Info("Level started", log.String("level", name), log.Int("objects", lvl.Len()))
	if err := a.world.Bus().Publish(bus.NewEvent(EventLevelChanged, "app", name)); err != nil {
		a.logger.Warn("Level change handler failed", log.Error(err))
	}
	return nil
}

// NextLevel moves to the level following the current one by name, wrapping
// around after the last.
func (a *App) NextLevel() error {
	names := a.levels.Names()
	if len(names) == 0 {
		return fmt.Errorf("%w: library is empty", ErrLevelNotFound)
	}
	i := slices.Index(names, a.current)
	return a.ChangeLevel(names[(i+1)%len(names)])
}

// Run drives the world until ctx is done or the world is stopped.
func (a *App) Run(ctx context.Context, r system.Renderer) error {
	if a.state == nil {
		return ErrNotSetUp
	}
	defer func() { _ = a.sub.Cancel() }()
	return a.world.Run(ctx, r)
}
