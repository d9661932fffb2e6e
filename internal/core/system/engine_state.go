package system

import (
	"sync"

	"github.com/zeusync/tileworld/internal/core/models"
)

// EngineState is one layer of the engine's state machine (a menu, a level in
// play). It owns the live entity list and two pending-edit queues.
//
// AddObj and RemoveObj only enqueue. The live list changes exclusively inside
// Update, after every entity that was live at the start of the call has been
// updated: first the pending removals are applied, then the pending additions
// are appended.
//
// The queues may be fed from any goroutine, including from triggers and
// object states running inside Update. The live list belongs to the
// goroutine driving Update.
type EngineState struct {
	name     string
	entities []*models.Entity

	mu       sync.Mutex
	toAdd    []*models.Entity
	toRemove []*models.Entity
}

func NewEngineState(name string) *EngineState {
	return &EngineState{name: name}
}

func (s *EngineState) Name() string { return s.name }

// AddObj schedules e to join the live list at the end of the next Update.
func (s *EngineState) AddObj(e *models.Entity) {
	if e == nil {
		return
	}
	s.mu.Lock()
	s.toAdd = append(s.toAdd, e)
	s.mu.Unlock()
}

// RemoveObj schedules e to leave the live list during the next Update.
func (s *EngineState) RemoveObj(e *models.Entity) {
	if e == nil {
		return
	}
	s.mu.Lock()
	s.toRemove = append(s.toRemove, e)
	s.mu.Unlock()
}

// WipeState drops pending edits and schedules every live entity for removal.
// The live list itself is untouched until the next Update.
func (s *EngineState) WipeState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toAdd = s.toAdd[:0]
	s.toRemove = append(s.toRemove[:0], s.entities...)
}

// Update advances the state by one tick.
func (s *EngineState) Update() {
	live := s.entities[:len(s.entities):len(s.entities)]
	for _, e := range live {
		e.Update()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.toRemove {
		s.removeFirst(e)
	}
	clear(s.toRemove)
	s.toRemove = s.toRemove[:0]

	s.entities = append(s.entities, s.toAdd...)
	clear(s.toAdd)
	s.toAdd = s.toAdd[:0]
}

func (s *EngineState) removeFirst(e *models.Entity) {
	for i, existing := range s.entities {
		if existing == e {
			copy(s.entities[i:], s.entities[i+1:])
			s.entities[len(s.entities)-1] = nil
			s.entities = s.entities[:len(s.entities)-1]
			return
		}
	}
}

// Entities returns a copy of the live list in registration order.
func (s *EngineState) Entities() []*models.Entity {
	out := make([]*models.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// live exposes the list itself to the tick's systems.
func (s *EngineState) live() []*models.Entity { return s.entities }

func (s *EngineState) Len() int { return len(s.entities) }

// Pending reports the number of queued additions and removals.
func (s *EngineState) Pending() (adds, removes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.toAdd), len(s.toRemove)
}
