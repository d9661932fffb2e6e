package models

import (
	"image"
	"image/color"
	"math"

	"github.com/google/uuid"
	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/core/systems/physics"
	"github.com/zeusync/tileworld/pkg/sequence"
)

var _ physics.Box = (*Entity)(nil)

// Entity is a positioned, sized and oriented world object with a stack of
// behaviour states. Movable entities additionally carry a Movement component.
//
// Entities are not safe for concurrent use; the owning world serialises
// access.
type Entity struct {
	id   uuid.UUID
	name string

	position physics.Vec
	forward  physics.Vec
	right    physics.Vec

	width  float64
	height float64

	visible     bool
	solid       bool
	triggerable bool
	triggers    []Trigger

	shape Shape
	color color.RGBA
	image image.Image

	states   *sequence.Stack[ObjectState]
	movement *Movement

	logger log.Log
}

// Option configures an Entity at construction.
type Option func(*Entity)

// WithMovement gives the entity the movement capability used by collision
// resolution.
func WithMovement() Option {
	return func(e *Entity) {
		e.movement = newMovement(e.position)
	}
}

// WithName attaches a human-readable name used in logs.
func WithName(name string) Option {
	return func(e *Entity) { e.name = name }
}

// WithLogger sets the logger used for soft failures such as popping an empty
// state stack.
func WithLogger(logger log.Log) Option {
	return func(e *Entity) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an entity at (x, y) with the given size and facing. The entity
// starts invisible, solid, not triggerable, black and without a state.
func New(x, y, w, h float64, forward physics.Vec, opts ...Option) *Entity {
	if forward.Dim() != 2 {
		forward = physics.V(1, 0)
	}
	e := &Entity{
		id:       uuid.New(),
		position: physics.V(x, y),
		forward:  forward.Clone(),
		solid:    true,
		color:    color.RGBA{A: 0xff},
		states:   sequence.NewStack[ObjectState](),
		logger:   log.Provide(),
	}
	e.right = physics.Rotate(e.forward, math.Pi/2)
	e.SetWidth(w)
	e.SetHeight(h)

	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(log.Stringer("entity", e.id))

	return e
}

// NewMovable is shorthand for New with WithMovement.
func NewMovable(x, y, w, h float64, forward physics.Vec, opts ...Option) *Entity {
	return New(x, y, w, h, forward, append(opts, WithMovement())...)
}

func (e *Entity) ID() uuid.UUID { return e.id }
func (e *Entity) Name() string  { return e.name }

// Position returns the live position vector. Mutating it moves the entity.
func (e *Entity) Position() physics.Vec { return e.position }

// SetPosition copies p into the entity position.
func (e *Entity) SetPosition(p physics.Vec) { e.position.Copy(p) }

func (e *Entity) SetPos(x, y float64) {
	e.position[0] = x
	e.position[1] = y
}

func (e *Entity) X() float64 { return e.position[0] }
func (e *Entity) Y() float64 { return e.position[1] }

func (e *Entity) Width() float64  { return e.width }
func (e *Entity) Height() float64 { return e.height }

// SetWidth clamps negative and non-finite input to zero.
func (e *Entity) SetWidth(w float64) {
	if !(w > 0) || math.IsInf(w, 1) {
		w = 0
	}
	e.width = w
}

// SetHeight clamps negative and non-finite input to zero.
func (e *Entity) SetHeight(h float64) {
	if !(h > 0) || math.IsInf(h, 1) {
		h = 0
	}
	e.height = h
}

// Center returns a fresh vector at the middle of the bounding box.
func (e *Entity) Center() physics.Vec {
	return e.Bounds().Center()
}

func (e *Entity) Bounds() physics.Rect {
	return physics.Rect{X: e.position[0], Y: e.position[1], W: e.width, H: e.height}
}

// Forward is the facing direction.
func (e *Entity) Forward() physics.Vec { return e.forward }

// Right is Forward rotated by +90 degrees.
func (e *Entity) Right() physics.Vec { return e.right }

func (e *Entity) SetForward(v physics.Vec) {
	if v.Dim() != 2 {
		return
	}
	e.forward = v.Clone()
	e.right = physics.Rotate(e.forward, math.Pi/2)
}

func (e *Entity) Visible() bool           { return e.visible }
func (e *Entity) SetVisible(visible bool) { e.visible = visible }

// Solid entities revert movers that overlap them. Triggers fire regardless.
func (e *Entity) Solid() bool         { return e.solid }
func (e *Entity) SetSolid(solid bool) { e.solid = solid }

func (e *Entity) Shape() Shape             { return e.shape }
func (e *Entity) SetShape(s Shape)         { e.shape = s }
func (e *Entity) Color() color.RGBA        { return e.color }
func (e *Entity) SetColor(c color.RGBA)    { e.color = c }
func (e *Entity) Image() image.Image       { return e.image }
func (e *Entity) SetImage(img image.Image) { e.image = img }

// Triggerable reports whether collisions fire this entity's triggers.
func (e *Entity) Triggerable() bool { return e.triggerable }

// SetTriggerable toggles trigger support. Turning it on starts a fresh,
// empty trigger list.
func (e *Entity) SetTriggerable(triggerable bool) {
	e.triggerable = triggerable
	if triggerable {
		e.triggers = make([]Trigger, 0, 1)
	} else {
		e.triggers = nil
	}
}

// AddTrigger binds t to the entity and appends it to the trigger list.
func (e *Entity) AddTrigger(t Trigger) {
	if t == nil {
		return
	}
	if !e.triggerable {
		e.logger.Warn("Trigger added to non-triggerable entity, ignored")
		return
	}
	e.triggers = append(e.triggers, t)
	t.Attach(e)
}

func (e *Entity) RemoveTrigger(t Trigger) {
	for i, existing := range e.triggers {
		if existing == t {
			e.triggers = append(e.triggers[:i], e.triggers[i+1:]...)
			return
		}
	}
}

// Triggers returns a copy of the trigger list in firing order.
func (e *Entity) Triggers() []Trigger {
	out := make([]Trigger, len(e.triggers))
	copy(out, e.triggers)
	return out
}

// PushState pushes s and, when s is not nil, binds it to the entity and
// enters it. Pushing nil parks the entity without a running state.
func (e *Entity) PushState(s ObjectState) {
	e.states.Push(s)
	if s != nil {
		s.Attach(e)
		s.Enter()
	}
}

// PopState removes the top state and exits it. An empty stack is reported in
// the log and yields ok=false.
func (e *Entity) PopState() (ObjectState, bool) {
	s, ok := e.states.Pop()
	if !ok {
		e.logger.Warn("No state to pop off entity")
		return nil, false
	}
	if s != nil {
		s.Exit()
	}
	return s, true
}

// CurrentState is the top of the state stack, or nil.
func (e *Entity) CurrentState() ObjectState {
	s, _ := e.states.Peek()
	return s
}

// StateDepth is the number of entries on the state stack, nil entries
// included.
func (e *Entity) StateDepth() int { return e.states.Len() }

// Running reports whether the entity currently has a state to update.
func (e *Entity) Running() bool { return e.CurrentState() != nil }

// Update advances the current state, if any.
func (e *Entity) Update() {
	if s := e.CurrentState(); s != nil {
		s.Update()
	}
}

// Draw renders the entity in its local frame: origin at the entity center,
// rotated to its forward vector. Invisible entities draw nothing.
func (e *Entity) Draw(c Canvas) {
	if !e.visible {
		return
	}

	c.Save()
	defer c.Restore()

	c.Translate(e.position[0]+e.width/2, e.position[1]+e.height/2)
	c.Rotate(e.forward.Angle())

	x, y := -e.width/2, -e.height/2
	switch {
	case e.image != nil:
		c.DrawImage(e.image, x, y, e.width, e.height)
	case e.shape == ShapeRect:
		c.FillRect(x, y, e.width, e.height, e.color)
	case e.shape == ShapeEllipse:
		c.FillEllipse(x, y, e.width, e.height, e.color)
	}

	if s := e.CurrentState(); s != nil {
		s.DrawEffects(c)
	}
}

// Colliding is the open-interval AABB overlap test against o.
func (e *Entity) Colliding(o *Entity) bool {
	return e.Bounds().Overlaps(o.Bounds())
}

// Contains reports whether the point lies strictly inside the bounding box.
func (e *Entity) Contains(x, y float64) bool {
	return e.Bounds().Contains(x, y)
}

// Movable reports whether the entity carries the movement capability.
func (e *Entity) Movable() bool { return e.movement != nil }

// Movement returns the movement component, or nil for static entities.
func (e *Entity) Movement() *Movement { return e.movement }

func (e *Entity) String() string {
	if e.name != "" {
		return e.name
	}
	return e.id.String()
}
