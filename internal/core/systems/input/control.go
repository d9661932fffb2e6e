package input

import (
	"github.com/zeusync/tileworld/internal/core/models"
	"github.com/zeusync/tileworld/internal/core/systems/physics"
)

// Bindings maps the four movement directions to keys.
type Bindings struct {
	Up, Down, Left, Right rune
}

// DefaultBindings is WASD.
func DefaultBindings() Bindings {
	return Bindings{Up: 'W', Down: 'S', Left: 'A', Right: 'D'}
}

// Control is an object state that steers a movable owner from the pressed
// keys, Speed world units per tick along each held direction. It turns the
// owner to face the direction of travel.
type Control struct {
	models.BaseState

	Input    *Manager
	Speed    float64
	Bindings Bindings
}

func NewControl(in *Manager, speed float64) *Control {
	return &Control{Input: in, Speed: speed, Bindings: DefaultBindings()}
}

func (c *Control) Update() {
	owner := c.Owner()
	if owner == nil || !owner.Movable() || c.Input == nil {
		return
	}

	delta := physics.NewVec(2)
	if c.Input.KeyPressed(c.Bindings.Up) {
		delta[1] -= 1
	}
	if c.Input.KeyPressed(c.Bindings.Down) {
		delta[1] += 1
	}
	if c.Input.KeyPressed(c.Bindings.Left) {
		delta[0] -= 1
	}
	if c.Input.KeyPressed(c.Bindings.Right) {
		delta[0] += 1
	}

	if delta.Mag() == 0 {
		owner.Movement().Refresh()
		return
	}

	delta.SetMag(c.Speed)
	owner.SetForward(physics.Normalize(delta))
	owner.Movement().Move(delta)
}
