package collision

import (
	"sync/atomic"

	"github.com/zeusync/tileworld/internal/core/models"
	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/core/systems"
	"github.com/zeusync/tileworld/internal/core/systems/physics"
)

var _ systems.System = (*Manager)(nil)

// Stats are cumulative counters of the resolution passes run so far.
type Stats struct {
	Passes     uint64
	Pairs      uint64
	Collisions uint64
	Reverts    uint64
	Triggered  uint64
}

// Manager runs the pairwise detect, resolve and trigger pass over an entity
// list once per tick.
type Manager struct {
	logger log.Log

	passes     atomic.Uint64
	pairs      atomic.Uint64
	collisions atomic.Uint64
	reverts    atomic.Uint64
	triggered  atomic.Uint64
}

func New(logger log.Log) *Manager {
	if logger == nil {
		logger = log.Provide()
	}
	return &Manager{
		logger: logger.With(log.String("component", "collision")),
	}
}

func (m *Manager) Name() string                  { return "collision" }
func (m *Manager) Phase() systems.ExecutionPhase { return systems.PhasePostUpdate }
func (m *Manager) Priority() systems.Priority    { return systems.PriorityNormal }

// Update resolves the live entity list of the tick.
func (m *Manager) Update(ctx systems.Context) error {
	m.Resolve(ctx.Entities())
	return nil
}

// Resolve tests every movable entity against every other entity of the list.
// When both sides of an overlapping pair are solid the mover is reverted to
// its previous position; the other side is only ever reverted during its
// own turn as the mover. Triggers on either side fire on every overlap,
// solid or not.
func (m *Manager) Resolve(entities []*models.Entity) {
	m.passes.Add(1)

	for _, a := range entities {
		if a == nil || !a.Movable() {
			continue
		}
		for _, b := range entities {
			if b == nil || a == b {
				continue
			}
			m.pairs.Add(1)

			buf := models.NewCollisionBuffer(a, b)
			if !physics.Overlapping(a, b) {
				continue
			}
			m.collisions.Add(1)

			if a.Solid() && b.Solid() {
				a.Movement().Revert()
				m.reverts.Add(1)
			}

			m.fire(a, b, buf)
			m.fire(b, a, buf)
		}
	}
}

func (m *Manager) fire(owner, other *models.Entity, buf *models.CollisionBuffer) {
	if !owner.Triggerable() {
		return
	}
	for _, t := range owner.Triggers() {
		t.Action(other, buf)
		m.triggered.Add(1)
	}
}

func (m *Manager) Stats() Stats {
	return Stats{
		Passes:     m.passes.Load(),
		Pairs:      m.pairs.Load(),
		Collisions: m.collisions.Load(),
		Reverts:    m.reverts.Load(),
		Triggered:  m.triggered.Load(),
	}
}

// LogStats writes the current counters at debug level.
func (m *Manager) LogStats() {
	s := m.Stats()
	m.logger.Debug("Collision stats",
		log.Uint64("passes", s.Passes),
		log.Uint64("pairs", s.Pairs),
		log.Uint64("collisions", s.Collisions),
		log.Uint64("reverts", s.Reverts),
		log.Uint64("triggered", s.Triggered),
	)
}
