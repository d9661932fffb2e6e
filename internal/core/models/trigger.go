package models

// Trigger is an action bound to one entity and fired every time its owner
// collides with something, whether or not either side is solid.
type Trigger interface {
	Attach(owner *Entity)
	Action(other *Entity, buf *CollisionBuffer)
}

// TriggerFunc adapts a plain function into a Trigger. All TriggerFunc values
// share one concrete type, so level optimisation treats them as equal.
type TriggerFunc func(owner, other *Entity, buf *CollisionBuffer)

type funcTrigger struct {
	BaseTrigger
	fn TriggerFunc
}

// NewTriggerFunc wraps fn.
func NewTriggerFunc(fn TriggerFunc) Trigger {
	return &funcTrigger{fn: fn}
}

func (t *funcTrigger) Action(other *Entity, buf *CollisionBuffer) {
	t.fn(t.Owner(), other, buf)
}

// BaseTrigger stores the owning entity.
type BaseTrigger struct {
	owner *Entity
}

func (t *BaseTrigger) Attach(owner *Entity) { t.owner = owner }

func (t *BaseTrigger) Owner() *Entity { return t.owner }
