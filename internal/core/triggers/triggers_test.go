package triggers

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/tileworld/internal/core/events/bus"
	"github.com/zeusync/tileworld/internal/core/models"
	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/core/systems/collision"
	"github.com/zeusync/tileworld/internal/core/systems/physics"
)

func wall(x, y float64) *models.Entity {
	return models.New(x, y, 20, 20, physics.V(1, 0))
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.RGBA{
		"#ff0000":   {R: 0xff, A: 0xff},
		"00FF00":    {G: 0xff, A: 0xff},
		"#00f":      {B: 0xff, A: 0xff},
		" #ffa500 ": {R: 0xff, G: 0xa5, A: 0xff},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "#ff00", "#gg0000", "red"} {
		_, err := ParseColor(bad)
		assert.ErrorIs(t, err, ErrInvalidColor, bad)
	}
}

func TestRegistryBuiltins(t *testing.T) {
	reg := NewRegistry(nil)
	assert.Equal(t, []string{"checkpoint", "event", "hidden", "passable", "respawn", "solid"}, reg.Names())

	_, err := reg.New("teleport")
	assert.ErrorIs(t, err, ErrUnknownTrigger)

	_, err = reg.New("event")
	assert.ErrorIs(t, err, ErrMissingArg)

	rule, err := reg.New("passable")
	require.NoError(t, err)
	e := wall(0, 0)
	rule(e)
	assert.False(t, e.Solid())
}

func TestCompileAndApply(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := bus.New(log.NewNop())

	rs, err := Compile(map[string][]string{
		"#ff0000": {"checkpoint", "event:lava", "passable"},
		"#0000ff": {"teleport", "hidden"},
	}, NewRegistry(b), log.FromZap(zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, 2, rs.Len())
	assert.Equal(t, 1, logs.FilterMessage("Color rule skipped").Len())

	red := rs.Apply(wall(0, 0), color.RGBA{R: 0xff, A: 0xff})
	assert.False(t, red.Solid())
	require.True(t, red.Triggerable())
	ts := red.Triggers()
	require.Len(t, ts, 2)
	assert.IsType(t, &Checkpoint{}, ts[0])
	assert.IsType(t, &Event{}, ts[1])

	blue := rs.Apply(wall(0, 0), color.RGBA{B: 0xff, A: 0xff})
	assert.False(t, blue.Visible())

	plain := wall(0, 0)
	plain.SetVisible(true)
	out := rs.Apply(plain, color.RGBA{G: 0xff, A: 0xff})
	assert.Same(t, plain, out)
	assert.True(t, out.Visible())
	assert.True(t, out.Solid())
	assert.False(t, out.Triggerable())
}

func TestCompileRejectsBadColor(t *testing.T) {
	_, err := Compile(map[string][]string{"nope": {"hidden"}}, NewRegistry(nil), log.NewNop())
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestCompileRejectsTwoSpellingsOfOneColor(t *testing.T) {
	_, err := Compile(map[string][]string{
		"#ff0000": {"passable"},
		"#FF0000": {"solid"},
	}, NewRegistry(nil), log.NewNop())
	require.ErrorIs(t, err, ErrDuplicateColor)
	assert.Contains(t, err.Error(), `"#FF0000" and "#ff0000"`)
}

func TestCheckpointAndRespawnThroughCollisions(t *testing.T) {
	rs, err := Compile(map[string][]string{
		"#00ff00": {"checkpoint"},
		"#ff0000": {"respawn", "passable"},
	}, NewRegistry(nil), log.NewNop())
	require.NoError(t, err)

	start := rs.Apply(wall(0, 100), color.RGBA{G: 0xff, A: 0xff})
	lava := rs.Apply(wall(200, 100), color.RGBA{R: 0xff, A: 0xff})
	player := models.NewMovable(5, 95, 10, 10, physics.V(1, 0))

	m := collision.New(log.NewNop())
	entities := []*models.Entity{player, start, lava}

	m.Resolve(entities)
	assert.Same(t, start, player.Movement().ActiveCheckpoint())

	player.Movement().Move(physics.V(200, 0))
	m.Resolve(entities)
	assert.Equal(t, physics.V(0, 90), player.Position(), "respawned on top of the checkpoint")
	assert.Equal(t, physics.V(0, 90), player.Movement().PreviousPosition())
}

func TestRespawnWithoutCheckpointIsNoop(t *testing.T) {
	r := &Respawn{}
	r.Attach(wall(0, 0))
	player := models.NewMovable(3, 4, 10, 10, physics.V(1, 0))

	r.Action(player, nil)
	r.Action(wall(0, 0), nil)
	assert.Equal(t, physics.V(3, 4), player.Position())
}

func TestEventTriggerPublishesHit(t *testing.T) {
	b := bus.New(log.NewNop())
	var hits []Hit
	_, err := b.Subscribe("trigger.door", func(e bus.Event) error {
		hits = append(hits, e.Data.(Hit))
		return nil
	})
	require.NoError(t, err)

	rule, err := NewRegistry(b).New("event:door")
	require.NoError(t, err)
	door := wall(10, 0)
	door.SetSolid(false)
	rule(door)

	player := models.NewMovable(0, 0, 15, 20, physics.V(1, 0))
	collision.New(log.NewNop()).Resolve([]*models.Entity{player, door})

	require.Len(t, hits, 1)
	assert.Same(t, door, hits[0].Owner)
	assert.Same(t, player, hits[0].Other)
	assert.Equal(t, models.FaceLeft, hits[0].Face)
}
