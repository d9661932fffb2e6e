package models

import (
	"image"
	"image/color"

	"github.com/google/uuid"
	"github.com/zeusync/tileworld/internal/core/systems/physics"
)

// View is a detached copy of the parts of an entity a renderer or other
// read-only consumer needs. It stays valid after the simulation moves on.
type View struct {
	ID      uuid.UUID
	Name    string
	Bounds  physics.Rect
	Angle   float64
	Visible bool
	Solid   bool
	Movable bool
	Running bool
	Shape   Shape
	Color   color.RGBA
	Image   image.Image
}

func (e *Entity) View() View {
	return View{
		ID:      e.id,
		Name:    e.name,
		Bounds:  e.Bounds(),
		Angle:   e.forward.Angle(),
		Visible: e.visible,
		Solid:   e.solid,
		Movable: e.Movable(),
		Running: e.Running(),
		Shape:   e.shape,
		Color:   e.color,
		Image:   e.image,
	}
}
