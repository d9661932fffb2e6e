package terminal

import (
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/tileworld/internal/core/systems/input"
)

// DefaultKeyHold is how long a key counts as held after its last press or
// auto-repeat. Terminals report no key releases.
const DefaultKeyHold = 150 * time.Millisecond

// Source turns tcell events into input events. Key releases are synthesised
// once a key has not repeated for the hold duration. Escape and Ctrl-C close
// Quit instead of producing events.
type Source struct {
	mu      sync.Mutex
	pending []tcell.Event
	held    map[rune]time.Time
	buttons tcell.ButtonMask

	cellW, cellH float64
	hold         time.Duration
	now          func() time.Time

	quit     chan struct{}
	quitOnce sync.Once
}

func NewSource(cellW, cellH float64) *Source {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	return &Source{
		held:  make(map[rune]time.Time),
		cellW: cellW,
		cellH: cellH,
		hold:  DefaultKeyHold,
		now:   time.Now,
		quit:  make(chan struct{}),
	}
}

// Listen polls screen until it is finalised.
func (s *Source) Listen(screen tcell.Screen) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		s.Push(ev)
	}
}

// Push queues a tcell event for the next Drain.
func (s *Source) Push(ev tcell.Event) {
	if k, ok := ev.(*tcell.EventKey); ok {
		if k.Key() == tcell.KeyEscape || k.Key() == tcell.KeyCtrlC {
			s.quitOnce.Do(func() { close(s.quit) })
			return
		}
	}
	s.mu.Lock()
	s.pending = append(s.pending, ev)
	s.mu.Unlock()
}

// Quit is closed when the user asks to leave.
func (s *Source) Quit() <-chan struct{} { return s.quit }

func (s *Source) Drain() []input.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var out []input.Event

	for _, ev := range s.pending {
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() != tcell.KeyRune {
				continue
			}
			r := unicode.ToUpper(ev.Rune())
			if _, down := s.held[r]; !down {
				out = append(out, input.Event{Kind: input.KeyDown, Key: r})
			}
			s.held[r] = now
		case *tcell.EventMouse:
			out = s.mouse(out, ev)
		}
	}
	s.pending = s.pending[:0]

	for r, last := range s.held {
		if now.Sub(last) >= s.hold {
			delete(s.held, r)
			out = append(out, input.Event{Kind: input.KeyUp, Key: r})
		}
	}
	return out
}

var mouseButtons = [...]tcell.ButtonMask{tcell.Button1, tcell.Button2, tcell.Button3}

func (s *Source) mouse(out []input.Event, ev *tcell.EventMouse) []input.Event {
	col, row := ev.Position()
	x := (float64(col) + 0.5) * s.cellW
	y := (float64(row) + 0.5) * s.cellH
	out = append(out, input.Event{Kind: input.MouseMove, X: x, Y: y})

	pressed := ev.Buttons()
	for i, b := range mouseButtons {
		was, is := s.buttons&b != 0, pressed&b != 0
		switch {
		case is && !was:
			out = append(out, input.Event{Kind: input.MouseDown, X: x, Y: y, Button: i})
		case was && !is:
			out = append(out, input.Event{Kind: input.MouseUp, X: x, Y: y, Button: i})
		}
	}
	s.buttons = pressed
	return out
}
