package system

import (
	"github.com/zeusync/tileworld/internal/core/models"
	"github.com/zeusync/tileworld/internal/core/systems"
	"github.com/zeusync/tileworld/internal/core/systems/physics"
)

var _ systems.System = (*Camera)(nil)

// Camera is the point of the world shown at the centre of the screen. With
// a follow target set it snaps to the target's position once per tick, in
// the render phase.
type Camera struct {
	position physics.Vec
	follow   *models.Entity
}

func NewCamera() *Camera {
	return &Camera{position: physics.NewVec(2)}
}

func (c *Camera) Name() string                  { return "camera" }
func (c *Camera) Phase() systems.ExecutionPhase { return systems.PhaseRender }
func (c *Camera) Priority() systems.Priority    { return systems.PriorityNormal }

func (c *Camera) Update(systems.Context) error {
	if c.follow != nil {
		c.SnapTo(c.follow.Position())
	}
	return nil
}

// Follow sets the entity to track. Nil stops tracking and leaves the camera
// where it is.
func (c *Camera) Follow(e *models.Entity) { c.follow = e }

func (c *Camera) Following() *models.Entity { return c.follow }

func (c *Camera) SnapTo(p physics.Vec) { c.position.Copy(p) }

// Position returns a copy of the camera position.
func (c *Camera) Position() physics.Vec { return c.position.Clone() }

// Transform is the translation from world to screen coordinates for a
// screen of the given size.
func (c *Camera) Transform(screenW, screenH float64) (dx, dy float64) {
	t := physics.Scale(c.position, -1)
	t.Add(physics.V(screenW/2, screenH/2))
	return t[0], t[1]
}
