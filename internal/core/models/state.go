package models

// ObjectState is one behaviour layer of an entity's state machine.
//
// Lifecycle: Attach and Enter run once when the state is pushed, Update runs
// once per tick while the state is on top of the stack, DrawEffects runs
// during rendering in the entity's local frame (origin at its center, rotated
// to its forward vector) and Exit runs once when the state is popped.
type ObjectState interface {
	Attach(owner *Entity)
	Enter()
	Update()
	DrawEffects(c Canvas)
	Exit()
}

// BaseState provides the binding and no-op lifecycle hooks. Embed it and
// override what the state needs.
type BaseState struct {
	owner *Entity
}

func (s *BaseState) Attach(owner *Entity) { s.owner = owner }

// Owner is the entity the state is currently bound to.
func (s *BaseState) Owner() *Entity { return s.owner }

func (s *BaseState) Enter()             {}
func (s *BaseState) Update()            {}
func (s *BaseState) DrawEffects(Canvas) {}
func (s *BaseState) Exit()              {}
