package level

import (
	"slices"
	"sync"
)

// Library holds loaded levels by name.
type Library struct {
	mu     sync.RWMutex
	levels map[string]*Level
}

func NewLibrary() *Library {
	return &Library{levels: make(map[string]*Level)}
}

// Put stores l under its name, replacing any level of the same name.
func (lib *Library) Put(l *Level) {
	if l == nil {
		return
	}
	lib.mu.Lock()
	lib.levels[l.Name()] = l
	lib.mu.Unlock()
}

func (lib *Library) Get(name string) (*Level, bool) {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	l, ok := lib.levels[name]
	return l, ok
}

// Names lists the stored level names in sorted order.
func (lib *Library) Names() []string {
	lib.mu.RLock()
	names := make([]string, 0, len(lib.levels))
	for name := range lib.levels {
		names = append(names, name)
	}
	lib.mu.RUnlock()

	slices.Sort(names)
	return names
}

func (lib *Library) Len() int {
	lib.mu.RLock()
	defer lib.mu.RUnlock()
	return len(lib.levels)
}
