package terminal

import (
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/tileworld/internal/core/models"
	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/core/system"
	"github.com/zeusync/tileworld/internal/core/systems/input"
	"github.com/zeusync/tileworld/internal/core/systems/physics"
)

type cell struct{ col, row int }

// grid records painted cells.
type grid struct {
	cols, rows int
	cells      map[cell]tcell.Style
}

func newGrid(cols, rows int) *grid {
	return &grid{cols: cols, rows: rows, cells: make(map[cell]tcell.Style)}
}

func (g *grid) Size() (int, int) { return g.cols, g.rows }

func (g *grid) SetContent(x, y int, _ rune, _ []rune, style tcell.Style) {
	g.cells[cell{x, y}] = style
}

func (g *grid) painted() []cell {
	var out []cell
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if _, ok := g.cells[cell{col, row}]; ok {
				out = append(out, cell{col, row})
			}
		}
	}
	return out
}

var red = color.RGBA{R: 0xff, A: 0xff}

func TestCanvasFillRect(t *testing.T) {
	g := newGrid(8, 4)
	c := NewCanvas(g, 10, 20)

	c.FillRect(0, 0, 20, 20, red)
	assert.Equal(t, []cell{{0, 0}, {1, 0}}, g.painted())
	assert.Equal(t, tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xff, 0, 0)), g.cells[cell{0, 0}])
}

func TestCanvasTranslateSaveRestore(t *testing.T) {
	g := newGrid(8, 4)
	c := NewCanvas(g, 10, 20)

	c.Save()
	c.Translate(30, 40)
	c.FillRect(0, 0, 10, 20, red)
	c.Restore()
	c.FillRect(0, 0, 10, 20, red)

	assert.Equal(t, []cell{{0, 0}, {3, 2}}, g.painted())
}

func TestCanvasRotate(t *testing.T) {
	g := newGrid(8, 4)
	c := NewCanvas(g, 10, 20)

	c.Translate(40, 40)
	c.Rotate(math.Pi / 2)
	c.FillRect(-20, -10, 40, 20, red)

	assert.Equal(t, []cell{{3, 1}, {4, 1}, {3, 2}, {4, 2}}, g.painted())
}

func TestCanvasClipsToScreen(t *testing.T) {
	g := newGrid(2, 2)
	c := NewCanvas(g, 10, 20)

	c.FillRect(-100, -100, 1000, 1000, red)
	assert.Len(t, g.painted(), 4)
}

func TestCanvasSmallShapePaintsCenterCell(t *testing.T) {
	g := newGrid(4, 4)
	c := NewCanvas(g, 10, 20)

	c.FillRect(12, 2, 4, 4, red)
	assert.Equal(t, []cell{{1, 0}}, g.painted())
}

func TestCanvasSkipsTransparent(t *testing.T) {
	g := newGrid(4, 4)
	c := NewCanvas(g, 10, 20)

	c.FillRect(0, 0, 40, 80, color.RGBA{})
	c.FillEllipse(0, 0, 40, 80, nil)
	assert.Empty(t, g.painted())
}

func TestCanvasFillEllipse(t *testing.T) {
	g := newGrid(5, 5)
	c := NewCanvas(g, 10, 10)

	c.FillEllipse(0, 0, 50, 50, red)
	painted := g.painted()
	assert.Contains(t, painted, cell{2, 2})
	assert.NotContains(t, painted, cell{0, 0})
	assert.NotContains(t, painted, cell{4, 4})
}

func TestCanvasDrawImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, red)

	g := newGrid(4, 1)
	c := NewCanvas(g, 10, 20)
	c.DrawImage(img, 0, 0, 40, 20)

	assert.Equal(t, []cell{{0, 0}, {1, 0}}, g.painted(), "the transparent half is skipped")
}

func TestSourceKeys(t *testing.T) {
	s := NewSource(10, 20)
	now := time.Unix(0, 0)
	s.now = func() time.Time { return now }

	s.Push(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone))
	assert.Equal(t, []input.Event{{Kind: input.KeyDown, Key: 'W'}}, s.Drain())

	now = now.Add(DefaultKeyHold / 2)
	s.Push(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone))
	assert.Empty(t, s.Drain(), "auto-repeat keeps the key held")

	now = now.Add(DefaultKeyHold)
	assert.Equal(t, []input.Event{{Kind: input.KeyUp, Key: 'W'}}, s.Drain())
	assert.Empty(t, s.Drain())
}

func TestSourceQuit(t *testing.T) {
	s := NewSource(10, 20)
	s.Push(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	s.Push(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))

	select {
	case <-s.Quit():
	default:
		t.Fatal("quit not signalled")
	}
	assert.Empty(t, s.Drain())
}

func TestSourceMouse(t *testing.T) {
	s := NewSource(10, 20)

	s.Push(tcell.NewEventMouse(2, 1, tcell.Button1, tcell.ModNone))
	s.Push(tcell.NewEventMouse(3, 1, tcell.ButtonNone, tcell.ModNone))

	assert.Equal(t, []input.Event{
		{Kind: input.MouseMove, X: 25, Y: 30},
		{Kind: input.MouseDown, X: 25, Y: 30, Button: 0},
		{Kind: input.MouseMove, X: 35, Y: 30},
		{Kind: input.MouseUp, X: 35, Y: 30, Button: 0},
	}, s.Drain())
}

func TestSourceFeedsInputManager(t *testing.T) {
	s := NewSource(10, 20)
	m := input.New(s, log.NewNop())

	s.Push(tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone))
	m.Poll()
	assert.True(t, m.KeyPressed('d'))
}

func TestRendererDrawsWorldThroughCamera(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(8, 4)

	w, err := system.New(system.WithLogger(log.NewNop()))
	require.NoError(t, err)
	w.PushState(system.NewEngineState("test"))

	tile := models.New(0, 0, 20, 20, physics.V(1, 0))
	tile.SetShape(models.ShapeRect)
	tile.SetVisible(true)
	tile.SetColor(red)
	require.NoError(t, w.AddObj(tile))
	require.NoError(t, w.Tick())

	r := NewRenderer(screen, 10, 20, log.NewNop())
	require.NoError(t, r.Render(w))

	cells, cols, _ := screen.GetContents()
	painted := map[cell]bool{}
	for i, c := range cells {
		if len(c.Runes) > 0 && c.Runes[0] == block {
			painted[cell{i % cols, i / cols}] = true
		}
	}
	// Camera at the origin centers the world origin on the 80x80 screen.
	assert.Equal(t, map[cell]bool{{4, 2}: true, {5, 2}: true}, painted)
}
