package system

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/tileworld/internal/core/events/bus"
	"github.com/zeusync/tileworld/internal/core/models"
	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/core/systems"
	"github.com/zeusync/tileworld/pkg/sequence"
)

// Events published on the world's bus. The event data is the engine state
// name.
const (
	EventStatePushed = "engine.state.pushed"
	EventStatePopped = "engine.state.popped"
)

const DefaultTickRate = 60

// Renderer draws the world after each tick of Run.
type Renderer interface {
	Render(w *World) error
}

// World is the simulation context: the engine-state stack, the registered
// systems and the camera.
//
// Tick is the only writer of the live entity registry and the camera. It
// holds the write lock for the whole tick; Render, Snapshot and Entities
// take the read lock, so a renderer on another goroutine always sees a
// completed tick. The lock is not reentrant: systems, object states and
// triggers must not call the locking methods. Bus events published during
// a tick are delivered once the lock is released, so bus handlers may.
//
// The engine-state stack has its own lock so triggers and object states may
// push and pop engine states from inside a tick. A transition made during a
// tick takes effect from the next one.
type World struct {
	mu       sync.RWMutex
	registry registry
	camera   *Camera
	frame    uint64

	stateMu sync.RWMutex
	states  *sequence.Stack[*EngineState]

	tickRate int
	running  atomic.Bool

	bus    bus.EventBus
	logger log.Log
}

type Option func(*World)

func WithLogger(logger log.Log) Option {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithBus(b bus.EventBus) Option {
	return func(w *World) {
		if b != nil {
			w.bus = b
		}
	}
}

// WithTickRate sets how many ticks per second Run performs.
func WithTickRate(hz int) Option {
	return func(w *World) { w.tickRate = hz }
}

// WithSystems registers systems at construction. Duplicates are logged and
// skipped.
func WithSystems(list ...systems.System) Option {
	return func(w *World) {
		for _, s := range list {
			if err := w.registry.add(s); err != nil {
				w.logger.Warn("System not registered", log.String("system", s.Name()), log.Error(err))
			}
		}
	}
}

func New(opts ...Option) (*World, error) {
	w := &World{
		camera:   NewCamera(),
		states:   sequence.NewStack[*EngineState](),
		tickRate: DefaultTickRate,
		logger:   log.Provide(),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.tickRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTickRate, w.tickRate)
	}
	w.logger = w.logger.With(log.String("component", "world"))
	if w.bus == nil {
		w.bus = bus.New(w.logger)
	}
	if _, ok := w.registry.get(w.camera.Name()); !ok {
		_ = w.registry.add(w.camera)
	}

	return w, nil
}

func (w *World) Bus() bus.EventBus { return w.bus }
func (w *World) Camera() *Camera   { return w.camera }
func (w *World) TickRate() int     { return w.tickRate }

// Follow points the camera at e under the world lock. Not for use inside a
// tick; call it from a bus handler instead.
func (w *World) Follow(e *models.Entity) {
	w.mu.Lock()
	w.camera.Follow(e)
	w.mu.Unlock()
}

// Frame is the number of completed ticks.
func (w *World) Frame() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.frame
}

func (w *World) AddSystem(s systems.System) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.registry.add(s)
}

func (w *World) RemoveSystem(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.registry.remove(name)
}

func (w *World) System(name string) (systems.System, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.registry.get(name)
}

// Systems lists system names in execution order.
func (w *World) Systems() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.registry.names()
}

// PushState makes s the active engine state.
func (w *World) PushState(s *EngineState) {
	if s == nil {
		return
	}
	w.stateMu.Lock()
	w.states.Push(s)
	w.stateMu.Unlock()

	w.publish(EventStatePushed, s.Name())
}

// PopState removes the active engine state. An empty stack is logged and
// yields ok=false.
func (w *World) PopState() (*EngineState, bool) {
	w.stateMu.Lock()
	s, ok := w.states.Pop()
	w.stateMu.Unlock()

	if !ok {
		w.logger.Warn("No engine state to pop")
		return nil, false
	}

	w.publish(EventStatePopped, s.Name())
	return s, true
}

// CurrentState is the active engine state, or nil.
func (w *World) CurrentState() *EngineState {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	s, _ := w.states.Peek()
	return s
}

func (w *World) StateDepth() int {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	return w.states.Len()
}

// AddObj enqueues e on the active engine state.
func (w *World) AddObj(e *models.Entity) error {
	s := w.CurrentState()
	if s == nil {
		return ErrNoEngineState
	}
	s.AddObj(e)
	return nil
}

// RemoveObj enqueues the removal of e from the active engine state.
func (w *World) RemoveObj(e *models.Entity) error {
	s := w.CurrentState()
	if s == nil {
		return ErrNoEngineState
	}
	s.RemoveObj(e)
	return nil
}

// Entities returns a copy of the active engine state's live list. Systems
// read the live list through their Context instead.
func (w *World) Entities() []*models.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if s := w.CurrentState(); s != nil {
		return s.Entities()
	}
	return nil
}

// Snapshot returns render views of the live entities.
func (w *World) Snapshot() []models.View {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := w.CurrentState()
	if s == nil {
		return nil
	}
	live := s.live()
	out := make([]models.View, len(live))
	for i, e := range live {
		out[i] = e.View()
	}
	return out
}

// Tick runs one simulation step: pre-update systems (input), the active
// engine state, update and post-update systems (collision), then render
// phase systems (camera). Events published meanwhile reach their handlers
// after the step. System and handler errors are logged, joined and
// returned; they do not stop the tick.
func (w *World) Tick() error {
	w.bus.Hold()
	err := w.step()
	return errors.Join(err, w.bus.Release())
}

func (w *World) step() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := w.CurrentState()
	if state == nil {
		return ErrNoEngineState
	}

	ctx := &tickContext{state: state, dt: 1 / float64(w.tickRate), frame: w.frame}

	err := w.runPhase(systems.PhasePreUpdate, ctx)
	state.Update()
	err = errors.Join(err,
		w.runPhase(systems.PhaseUpdate, ctx),
		w.runPhase(systems.PhasePostUpdate, ctx),
		w.runPhase(systems.PhaseRender, ctx),
	)

	w.frame++
	return err
}

func (w *World) runPhase(phase systems.ExecutionPhase, ctx systems.Context) error {
	var all error
	for _, s := range w.registry.phase(phase) {
		if err := s.Update(ctx); err != nil {
			w.logger.Error("System update failed",
				log.String("system", s.Name()),
				log.Stringer("phase", phase),
				log.Error(err),
			)
			all = errors.Join(all, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return all
}

// Render draws the live entities through the camera onto c.
func (w *World) Render(c models.Canvas, screenW, screenH float64) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := w.CurrentState()
	if s == nil {
		return
	}

	dx, dy := w.camera.Transform(screenW, screenH)
	c.Save()
	defer c.Restore()
	c.Translate(dx, dy)

	for _, e := range s.live() {
		e.Draw(c)
	}
}

// Run ticks at the configured rate and renders synchronously after every
// tick until Stop is called or ctx is done. A missing engine state is
// logged once and the loop keeps waiting for one.
func (w *World) Run(ctx context.Context, r Renderer) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer w.running.Store(false)

	w.logger.Info("World started", log.Int("tick_rate", w.tickRate))
	defer func() {
		w.logger.Info("World stopped", log.Uint64("frames", w.Frame()))
	}()

	ticker := time.NewTicker(time.Second / time.Duration(w.tickRate))
	defer ticker.Stop()

	idle := false
	for w.running.Load() {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		err := w.Tick()
		switch {
		case errors.Is(err, ErrNoEngineState):
			if !idle {
				w.logger.Warn("No engine state to update")
			}
			idle = true
			continue
		case err != nil:
			w.logger.Debug("Tick finished with errors", log.Error(err))
		}
		idle = false

		if r != nil {
			if err = r.Render(w); err != nil {
				w.logger.Error("Render failed", log.Error(err))
			}
		}
	}
	return nil
}

// Stop clears the running flag; Run returns after the current tick.
func (w *World) Stop() { w.running.Store(false) }

func (w *World) Running() bool { return w.running.Load() }

func (w *World) publish(typ, name string) {
	if err := w.bus.Publish(bus.NewEvent(typ, "world", name)); err != nil {
		w.logger.Warn("Event delivery failed", log.String("event", typ), log.Error(err))
	}
}

type tickContext struct {
	state *EngineState
	dt    float64
	frame uint64
}

func (c *tickContext) Entities() []*models.Entity { return c.state.live() }
func (c *tickContext) DeltaTime() float64         { return c.dt }
func (c *tickContext) Frame() uint64              { return c.frame }
