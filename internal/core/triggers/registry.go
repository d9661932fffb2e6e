package triggers

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/zeusync/tileworld/internal/core/events/bus"
	"github.com/zeusync/tileworld/internal/core/models"
)

// Rule applies one named behaviour to a decoded level entity.
type Rule func(e *models.Entity)

// Factory builds a rule from the argument after the colon in a rule name
// such as "event:door". arg is empty when there is no colon.
type Factory func(arg string) (Rule, error)

// Registry maps rule names to factories. It starts with the built-in rules:
//
//	passable       the entity stops being solid
//	hidden         the entity stops being drawn
//	checkpoint     adds a Checkpoint trigger
//	respawn        adds a Respawn trigger
//	event:<name>   adds an Event trigger publishing trigger.<name>
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry(b bus.EventBus) *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.Register("passable", static(func(e *models.Entity) { e.SetSolid(false) }))
	r.Register("solid", static(func(e *models.Entity) { e.SetSolid(true) }))
	r.Register("hidden", static(func(e *models.Entity) { e.SetVisible(false) }))
	r.Register("checkpoint", static(func(e *models.Entity) { attach(e, &Checkpoint{}) }))
	r.Register("respawn", static(func(e *models.Entity) { attach(e, &Respawn{}) }))
	r.Register("event", func(arg string) (Rule, error) {
		if arg == "" {
			return nil, fmt.Errorf("%w: event needs a name", ErrMissingArg)
		}
		return func(e *models.Entity) { attach(e, &Event{Name: arg, Bus: b}) }, nil
	})

	return r
}

// Register adds or replaces a rule factory.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	r.factories[name] = factory
	r.mu.Unlock()
}

// New resolves "name" or "name:arg" into a rule.
func (r *Registry) New(rule string) (Rule, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(rule), ":")

	r.mu.RLock()
	f := r.factories[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTrigger, name)
	}
	return f(arg)
}

// Names lists the registered rule names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

func static(rule Rule) Factory {
	return func(string) (Rule, error) { return rule, nil }
}

// attach makes e triggerable without dropping triggers it already has.
func attach(e *models.Entity, t models.Trigger) {
	if !e.Triggerable() {
		e.SetTriggerable(true)
	}
	e.AddTrigger(t)
}
