package triggers

import (
	"github.com/zeusync/tileworld/internal/core/events/bus"
	"github.com/zeusync/tileworld/internal/core/models"
)

// EventPrefix is prepended to an Event trigger's name to form the bus event
// type.
const EventPrefix = "trigger."

// Checkpoint records its owner as the active checkpoint of every mover that
// touches it.
type Checkpoint struct {
	models.BaseTrigger
}

func (c *Checkpoint) Action(other *models.Entity, _ *models.CollisionBuffer) {
	if other == nil || !other.Movable() {
		return
	}
	other.Movement().SetActiveCheckpoint(c.Owner())
}

// Respawn sends a mover back to its active checkpoint, standing on top of
// it, and makes that spot its new revert target. Movers without a
// checkpoint are left alone.
type Respawn struct {
	models.BaseTrigger
}

func (r *Respawn) Action(other *models.Entity, _ *models.CollisionBuffer) {
	if other == nil || !other.Movable() {
		return
	}
	m := other.Movement()
	cp := m.ActiveCheckpoint()
	if cp == nil {
		return
	}
	other.SetPos(cp.X(), cp.Y()-other.Height())
	m.Refresh()
}

// Hit is the payload of the bus event published by an Event trigger.
type Hit struct {
	Owner *models.Entity
	Other *models.Entity
	Face  models.Face
}

// Event publishes EventPrefix+Name on the bus for every collision of its
// owner. Face is the owner's struck edge.
type Event struct {
	models.BaseTrigger

	Name string
	Bus  bus.EventBus
}

func (e *Event) Action(other *models.Entity, buf *models.CollisionBuffer) {
	if e.Bus == nil {
		return
	}

	hit := Hit{Owner: e.Owner(), Other: other}
	if buf != nil {
		if buf.Obj1 == e.Owner() {
			hit.Face = buf.Face1()
		} else {
			hit.Face = buf.Face2()
		}
	}

	// Delivery failures are logged by the bus.
	_ = e.Bus.Publish(bus.NewEvent(EventPrefix+e.Name, e.Owner().String(), hit))
}
