package system

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/tileworld/internal/core/events/bus"
	"github.com/zeusync/tileworld/internal/core/models"
	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/core/systems"
	"github.com/zeusync/tileworld/internal/core/systems/collision"
	"github.com/zeusync/tileworld/internal/core/systems/physics"
)

type recorder struct {
	name     string
	phase    systems.ExecutionPhase
	priority systems.Priority
	log      *[]string
	err      error
	seen     int
}

func (p *recorder) Name() string                  { return p.name }
func (p *recorder) Phase() systems.ExecutionPhase { return p.phase }
func (p *recorder) Priority() systems.Priority    { return p.priority }
func (p *recorder) Update(ctx systems.Context) error {
	*p.log = append(*p.log, p.name)
	p.seen = len(ctx.Entities())
	return p.err
}

type translateCanvas struct {
	dx, dy float64
	rects  int
}

func (c *translateCanvas) Save()    {}
func (c *translateCanvas) Restore() {}
func (c *translateCanvas) Translate(x, y float64) {
	if c.rects == 0 && c.dx == 0 && c.dy == 0 {
		c.dx, c.dy = x, y
	}
}
func (c *translateCanvas) Rotate(float64)                                {}
func (c *translateCanvas) FillRect(_, _, _, _ float64, _ color.Color)    { c.rects++ }
func (c *translateCanvas) FillEllipse(_, _, _, _ float64, _ color.Color) {}
func (c *translateCanvas) DrawImage(_ image.Image, _, _, _, _ float64)   {}

func newWorld(t *testing.T, opts ...Option) *World {
	t.Helper()
	w, err := New(append([]Option{WithLogger(log.NewNop())}, opts...)...)
	require.NoError(t, err)
	return w
}

func TestTickWithoutStateFails(t *testing.T) {
	w := newWorld(t)
	assert.ErrorIs(t, w.Tick(), ErrNoEngineState)
	assert.ErrorIs(t, w.AddObj(models.New(0, 0, 1, 1, physics.V(1, 0))), ErrNoEngineState)
}

func TestInvalidTickRate(t *testing.T) {
	_, err := New(WithTickRate(0))
	assert.ErrorIs(t, err, ErrInvalidTickRate)
}

func TestSystemsRunInPhaseAndPriorityOrder(t *testing.T) {
	var order []string
	w := newWorld(t, WithSystems(
		&recorder{name: "collide", phase: systems.PhasePostUpdate, priority: systems.PriorityNormal, log: &order},
		&recorder{name: "input", phase: systems.PhasePreUpdate, priority: systems.PriorityNormal, log: &order},
		&recorder{name: "ai", phase: systems.PhaseUpdate, priority: systems.PriorityLow, log: &order},
		&recorder{name: "physics", phase: systems.PhaseUpdate, priority: systems.PriorityHigh, log: &order},
	))
	w.PushState(NewEngineState("play"))

	require.NoError(t, w.Tick())
	assert.Equal(t, []string{"input", "physics", "ai", "collide"}, order)
	assert.Equal(t, []string{"input", "physics", "ai", "collide", "camera"}, w.Systems())
	assert.Equal(t, uint64(1), w.Frame())
}

func TestDuplicateSystemIsRejected(t *testing.T) {
	var order []string
	w := newWorld(t)
	require.NoError(t, w.AddSystem(&recorder{name: "x", log: &order}))
	assert.ErrorIs(t, w.AddSystem(&recorder{name: "x", log: &order}), ErrSystemExists)
	require.NoError(t, w.RemoveSystem("x"))
	assert.ErrorIs(t, w.RemoveSystem("x"), ErrSystemNotFound)
}

func TestSystemErrorsDoNotStopTheTick(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	w := newWorld(t, WithSystems(
		&recorder{name: "bad", phase: systems.PhasePreUpdate, log: &order, err: boom},
		&recorder{name: "good", phase: systems.PhasePostUpdate, log: &order},
	))
	w.PushState(NewEngineState("play"))

	err := w.Tick()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"bad", "good"}, order)
}

func TestPostUpdateSeesEntitiesAddedThisTick(t *testing.T) {
	var order []string
	pre := &recorder{name: "pre", phase: systems.PhasePreUpdate, log: &order}
	post := &recorder{name: "post", phase: systems.PhasePostUpdate, log: &order}
	w := newWorld(t, WithSystems(pre, post))
	w.PushState(NewEngineState("play"))

	require.NoError(t, w.AddObj(models.New(0, 0, 1, 1, physics.V(1, 0))))
	require.NoError(t, w.Tick())

	assert.Zero(t, pre.seen)
	assert.Equal(t, 1, post.seen)
	assert.Len(t, w.Entities(), 1)
}

func TestTickResolvesCollisions(t *testing.T) {
	w := newWorld(t, WithSystems(collision.New(log.NewNop())))
	state := NewEngineState("play")
	w.PushState(state)

	mover := models.NewMovable(0, 0, 10, 10, physics.V(1, 0))
	wall := models.New(12, 0, 10, 10, physics.V(1, 0))
	state.AddObj(mover)
	state.AddObj(wall)
	require.NoError(t, w.Tick())

	mover.Movement().Move(physics.V(5, 0))
	require.NoError(t, w.Tick())
	assert.Equal(t, physics.V(0, 0), mover.Position())
}

func TestEngineStateStack(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := bus.New(log.NewNop())
	w := newWorld(t, WithLogger(log.FromZap(zap.New(core))), WithBus(b))

	var events []string
	_, _ = b.Subscribe(EventStatePushed, func(e bus.Event) error {
		events = append(events, "push "+e.Data.(string))
		return nil
	})
	_, _ = b.Subscribe(EventStatePopped, func(e bus.Event) error {
		events = append(events, "pop "+e.Data.(string))
		return nil
	})

	game, menu := NewEngineState("game"), NewEngineState("menu")
	w.PushState(game)
	w.PushState(menu)
	assert.Same(t, menu, w.CurrentState())
	assert.Equal(t, 2, w.StateDepth())

	s, ok := w.PopState()
	require.True(t, ok)
	assert.Same(t, menu, s)
	assert.Same(t, game, w.CurrentState())

	_, _ = w.PopState()
	s, ok = w.PopState()
	assert.False(t, ok)
	assert.Nil(t, s)
	assert.Equal(t, 1, logs.FilterMessage("No engine state to pop").Len())

	assert.Equal(t, []string{"push game", "push menu", "pop menu", "pop game"}, events)
}

func TestStateTransitionInsideTick(t *testing.T) {
	w := newWorld(t)
	game, pause := NewEngineState("game"), NewEngineState("pause")
	w.PushState(game)

	e := models.New(0, 0, 1, 1, physics.V(1, 0))
	e.PushState(&countingState{onUpdate: func() { w.PushState(pause) }})
	game.AddObj(e)

	require.NoError(t, w.Tick())
	require.NoError(t, w.Tick())
	assert.Same(t, pause, w.CurrentState())
}

func TestHandlersPublishedInsideTickMayUseWorld(t *testing.T) {
	w := newWorld(t)
	game := NewEngineState("game")
	w.PushState(game)

	var (
		seen  int
		frame uint64
	)
	_, err := w.Bus().Subscribe("door.opened", func(bus.Event) error {
		seen = len(w.Entities())
		frame = w.Frame()
		w.Follow(nil)
		_, _ = w.System("camera")
		return nil
	})
	require.NoError(t, err)

	e := models.New(0, 0, 1, 1, physics.V(1, 0))
	e.PushState(&countingState{onUpdate: func() {
		_ = w.Bus().Publish(bus.NewEvent("door.opened", "test", nil))
	}})
	game.AddObj(e)
	require.NoError(t, w.Tick())

	done := make(chan error, 1)
	go func() { done <- w.Tick() }()

	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("tick did not return")
	}
	assert.Equal(t, 1, seen)
	assert.Equal(t, uint64(2), frame, "handlers run after the frame completes")
}

func TestTickReturnsHandlerErrors(t *testing.T) {
	w := newWorld(t)
	game := NewEngineState("game")
	w.PushState(game)

	boom := errors.New("boom")
	_, _ = w.Bus().Subscribe("fail", func(bus.Event) error { return boom })

	e := models.New(0, 0, 1, 1, physics.V(1, 0))
	e.PushState(&countingState{onUpdate: func() {
		_ = w.Bus().Publish(bus.NewEvent("fail", "test", nil))
	}})
	game.AddObj(e)
	require.NoError(t, w.Tick())

	assert.ErrorIs(t, w.Tick(), boom)
}

func TestCameraFollowsAndRenderTranslates(t *testing.T) {
	w := newWorld(t)
	state := NewEngineState("play")
	w.PushState(state)

	player := models.NewMovable(100, 50, 10, 10, physics.V(1, 0))
	player.SetVisible(true)
	player.SetShape(models.ShapeRect)
	state.AddObj(player)
	w.Follow(player)

	require.NoError(t, w.Tick())
	assert.Equal(t, physics.V(100, 50), w.Camera().Position())

	canvas := &translateCanvas{}
	w.Render(canvas, 80, 60)
	assert.Equal(t, -60.0, canvas.dx)
	assert.Equal(t, -20.0, canvas.dy)
	assert.Equal(t, 1, canvas.rects)

	views := w.Snapshot()
	require.Len(t, views, 1)
	assert.Equal(t, player.ID(), views[0].ID)
	assert.Equal(t, physics.Rect{X: 100, Y: 50, W: 10, H: 10}, views[0].Bounds)
}

type countingRenderer struct {
	mu     sync.Mutex
	frames int
	stopAt int
}

func (r *countingRenderer) Render(w *World) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	if r.frames == r.stopAt {
		w.Stop()
	}
	return nil
}

func TestRunRendersAfterEveryTickUntilStopped(t *testing.T) {
	w := newWorld(t, WithTickRate(1000))
	w.PushState(NewEngineState("play"))

	r := &countingRenderer{stopAt: 3}
	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background(), r) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("world did not stop")
	}
	assert.Equal(t, 3, r.frames)
	assert.Equal(t, uint64(3), w.Frame())
	assert.False(t, w.Running())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	w := newWorld(t, WithTickRate(1000))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, w.Run(ctx, nil))
	assert.False(t, w.Running())
}
