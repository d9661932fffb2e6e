package systems

import (
	"github.com/zeusync/tileworld/internal/core/models"
)

// System is one manager run by the world loop at a fixed point of every
// tick. Input polling runs before the engine state advances, collision
// resolution after it.
type System interface {
	Name() string
	Phase() ExecutionPhase
	Priority() Priority
	Update(ctx Context) error
}

// Context is what a system sees of the world during a tick. The entity list
// is the live registry of the active engine state and must not be retained
// past the call.
type Context interface {
	Entities() []*models.Entity
	DeltaTime() float64
	Frame() uint64
}

// Priority orders systems that share a phase; higher runs first.
type Priority uint16

const (
	PriorityLowest  Priority = 100
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// ExecutionPhase defines when a system runs
type ExecutionPhase uint8

const (
	PhasePreUpdate ExecutionPhase = iota
	PhaseUpdate
	PhasePostUpdate
	PhaseRender
)

func (p ExecutionPhase) String() string {
	switch p {
	case PhasePreUpdate:
		return "pre_update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post_update"
	case PhaseRender:
		return "render"
	default:
		return "unknown"
	}
}
