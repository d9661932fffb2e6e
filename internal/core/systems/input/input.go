package input

import (
	"sync"
	"unicode"

	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/core/systems"
	"github.com/zeusync/tileworld/internal/core/systems/physics"
)

var _ systems.System = (*Manager)(nil)

// EventKind distinguishes the device events a Source produces.
type EventKind uint8

const (
	KeyDown EventKind = iota
	KeyUp
	MouseMove
	MouseDown
	MouseUp
)

// Event is one raw device event. Key is set for key events, X and Y for
// mouse events in screen coordinates, Button for mouse button events.
type Event struct {
	Kind   EventKind
	Key    rune
	X, Y   float64
	Button int
}

// Source hands over the events collected since the previous call.
type Source interface {
	Drain() []Event
}

// Manager keeps the pressed state of keys and mouse buttons plus the mouse
// position. It polls its source once per tick, before the engine state
// advances.
type Manager struct {
	mu     sync.RWMutex
	source Source
	logger log.Log

	keys          map[rune]bool
	buttons       map[int]bool
	mouse         physics.Vec
	previousMouse physics.Vec
}

func New(source Source, logger log.Log) *Manager {
	if logger == nil {
		logger = log.Provide()
	}
	return &Manager{
		source:        source,
		logger:        logger.With(log.String("component", "input")),
		keys:          make(map[rune]bool),
		buttons:       make(map[int]bool),
		mouse:         physics.NewVec(2),
		previousMouse: physics.NewVec(2),
	}
}

func (m *Manager) Name() string                  { return "input" }
func (m *Manager) Phase() systems.ExecutionPhase { return systems.PhasePreUpdate }
func (m *Manager) Priority() systems.Priority    { return systems.PriorityHighest }

func (m *Manager) Update(systems.Context) error {
	m.Poll()
	return nil
}

// Poll drains the source and applies its events in order.
func (m *Manager) Poll() {
	var events []Event
	if m.source != nil {
		events = m.source.Drain()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.previousMouse.Copy(m.mouse)
	for _, ev := range events {
		switch ev.Kind {
		case KeyDown:
			m.keys[unicode.ToUpper(ev.Key)] = true
		case KeyUp:
			delete(m.keys, unicode.ToUpper(ev.Key))
		case MouseMove:
			m.mouse[0], m.mouse[1] = ev.X, ev.Y
		case MouseDown:
			m.buttons[ev.Button] = true
		case MouseUp:
			delete(m.buttons, ev.Button)
		default:
			m.logger.Debug("Unknown input event", log.Int("kind", int(ev.Kind)))
		}
	}
}

// KeyPressed is case-insensitive.
func (m *Manager) KeyPressed(key rune) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.keys[unicode.ToUpper(key)]
}

func (m *Manager) ButtonPressed(button int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.buttons[button]
}

// MousePosition returns a copy of the mouse position in screen coordinates.
func (m *Manager) MousePosition() physics.Vec {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mouse.Clone()
}

func (m *Manager) PreviousMousePosition() physics.Vec {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previousMouse.Clone()
}

// MouseWorldPosition maps the mouse into world coordinates for a camera
// centred on cameraPos over a screen of the given size.
func (m *Manager) MouseWorldPosition(cameraPos physics.Vec, screenW, screenH float64) physics.Vec {
	world := physics.Add(cameraPos, m.MousePosition())
	world.Subtract(physics.V(screenW/2, screenH/2))
	return world
}
