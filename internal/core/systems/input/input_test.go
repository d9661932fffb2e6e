package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/tileworld/internal/core/models"
	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/core/systems/physics"
)

type queue struct {
	batches [][]Event
}

func (q *queue) Drain() []Event {
	if len(q.batches) == 0 {
		return nil
	}
	next := q.batches[0]
	q.batches = q.batches[1:]
	return next
}

func TestKeysAreCaseInsensitiveAndReleased(t *testing.T) {
	src := &queue{batches: [][]Event{
		{{Kind: KeyDown, Key: 'w'}},
		nil,
		{{Kind: KeyUp, Key: 'W'}},
	}}
	m := New(src, log.NewNop())

	m.Poll()
	assert.True(t, m.KeyPressed('W'))
	assert.True(t, m.KeyPressed('w'))

	m.Poll()
	assert.True(t, m.KeyPressed('w'), "held until released")

	m.Poll()
	assert.False(t, m.KeyPressed('w'))
}

func TestMouseTracking(t *testing.T) {
	src := &queue{batches: [][]Event{
		{{Kind: MouseMove, X: 10, Y: 20}, {Kind: MouseDown, Button: 1}},
		{{Kind: MouseMove, X: 30, Y: 40}, {Kind: MouseUp, Button: 1}},
	}}
	m := New(src, log.NewNop())

	m.Poll()
	assert.Equal(t, physics.V(10, 20), m.MousePosition())
	assert.True(t, m.ButtonPressed(1))

	m.Poll()
	assert.Equal(t, physics.V(10, 20), m.PreviousMousePosition())
	assert.Equal(t, physics.V(30, 40), m.MousePosition())
	assert.False(t, m.ButtonPressed(1))

	world := m.MouseWorldPosition(physics.V(100, 100), 60, 80)
	assert.Equal(t, physics.V(100, 100), world)
}

func TestControlMovesOwner(t *testing.T) {
	src := &queue{batches: [][]Event{
		{{Kind: KeyDown, Key: 'd'}},
		{{Kind: KeyUp, Key: 'd'}},
	}}
	m := New(src, log.NewNop())

	player := models.NewMovable(0, 0, 10, 10, physics.V(1, 0))
	player.PushState(NewControl(m, 4))

	m.Poll()
	player.Update()
	assert.Equal(t, physics.V(4, 0), player.Position())
	assert.Equal(t, physics.V(0, 0), player.Movement().PreviousPosition())

	m.Poll()
	player.Update()
	assert.Equal(t, physics.V(4, 0), player.Position())
	assert.Equal(t, physics.V(4, 0), player.Movement().PreviousPosition(), "idle ticks refresh the revert target")
}
