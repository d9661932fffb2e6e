package level

import (
	"github.com/zeusync/tileworld/internal/core/models"
)

// Registry receives the entities of a loaded level. An engine state is one.
type Registry interface {
	AddObj(e *models.Entity)
}

// Level is the ordered entity list decoded from one level source.
//
// Load hands the entities themselves, not copies, to the registry. Loading
// the same level twice puts the same entities into play twice.
type Level struct {
	name    string
	objects []*models.Entity
}

func New(name string) *Level {
	return &Level{name: name}
}

func (l *Level) Name() string { return l.name }

// Add appends e in scan order.
func (l *Level) Add(e *models.Entity) {
	if e == nil {
		return
	}
	l.objects = append(l.objects, e)
}

// Objects returns a copy of the entity list.
func (l *Level) Objects() []*models.Entity {
	out := make([]*models.Entity, len(l.objects))
	copy(out, l.objects)
	return out
}

func (l *Level) Len() int { return len(l.objects) }

// Load enqueues every entity of the level into dst.
func (l *Level) Load(dst Registry) {
	for _, e := range l.Objects() {
		dst.AddObj(e)
	}
}
