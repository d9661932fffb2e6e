package models

import "github.com/zeusync/tileworld/internal/core/systems/physics"

// Movement is the optional capability that lets collision resolution undo a
// step. Every Move records the position it started from; Revert goes back
// to it.
type Movement struct {
	position   physics.Vec
	previous   physics.Vec
	checkpoint *Entity
}

func newMovement(position physics.Vec) *Movement {
	return &Movement{
		position: position,
		previous: position.Clone(),
	}
}

// Move records the current position and then displaces it by delta.
func (m *Movement) Move(delta physics.Vec) {
	m.previous.Copy(m.position)
	m.position.Add(delta)
}

// Revert restores the position recorded by the last Move.
func (m *Movement) Revert() {
	m.position.Copy(m.previous)
}

// Refresh makes the current position the revert target.
func (m *Movement) Refresh() {
	m.previous.Copy(m.position)
}

// PreviousPosition returns a copy of the revert target.
func (m *Movement) PreviousPosition() physics.Vec {
	return m.previous.Clone()
}

// ActiveCheckpoint is the last checkpoint entity the mover touched.
func (m *Movement) ActiveCheckpoint() *Entity { return m.checkpoint }

func (m *Movement) SetActiveCheckpoint(checkpoint *Entity) {
	m.checkpoint = checkpoint
}
