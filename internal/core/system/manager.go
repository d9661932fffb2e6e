package system

import (
	"fmt"
	"sort"

	"github.com/zeusync/tileworld/internal/core/systems"
)

// registry keeps the world's systems ordered by phase, then by descending
// priority, then by registration order.
type registry struct {
	list []systems.System
}

func (r *registry) add(s systems.System) error {
	if _, ok := r.get(s.Name()); ok {
		return fmt.Errorf("%w: %s", ErrSystemExists, s.Name())
	}
	r.list = append(r.list, s)
	sort.SliceStable(r.list, func(i, j int) bool {
		a, b := r.list[i], r.list[j]
		if a.Phase() != b.Phase() {
			return a.Phase() < b.Phase()
		}
		return a.Priority() > b.Priority()
	})
	return nil
}

func (r *registry) remove(name string) error {
	for i, s := range r.list {
		if s.Name() == name {
			r.list = append(r.list[:i], r.list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
}

func (r *registry) get(name string) (systems.System, bool) {
	for _, s := range r.list {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

func (r *registry) names() []string {
	out := make([]string, len(r.list))
	for i, s := range r.list {
		out[i] = s.Name()
	}
	return out
}

func (r *registry) phase(p systems.ExecutionPhase) []systems.System {
	var out []systems.System
	for _, s := range r.list {
		if s.Phase() == p {
			out = append(out, s)
		}
	}
	return out
}
