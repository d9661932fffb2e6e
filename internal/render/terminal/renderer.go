package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/core/system"
)

var _ system.Renderer = (*Renderer)(nil)

// Renderer draws the world onto a tcell screen after every tick.
type Renderer struct {
	screen tcell.Screen
	canvas *Canvas
	logger log.Log
}

func NewRenderer(screen tcell.Screen, cellW, cellH float64, logger log.Log) *Renderer {
	if logger == nil {
		logger = log.Provide()
	}
	return &Renderer{
		screen: screen,
		canvas: NewCanvas(screen, cellW, cellH),
		logger: logger.With(log.String("component", "terminal")),
	}
}

// Open initialises a terminal screen with mouse reporting enabled.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	return screen, nil
}

func (r *Renderer) Canvas() *Canvas { return r.canvas }

func (r *Renderer) Render(w *system.World) error {
	r.screen.Clear()
	r.canvas.Reset()

	width, height := r.canvas.Size()
	w.Render(r.canvas, width, height)

	r.screen.Show()
	return nil
}

// Close restores the terminal.
func (r *Renderer) Close() {
	r.screen.Fini()
	r.logger.Debug("Screen closed")
}
