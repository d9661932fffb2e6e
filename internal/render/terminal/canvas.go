package terminal

import (
	"image"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/tileworld/pkg/sequence"
)

const (
	// DefaultCellWidth and DefaultCellHeight are the world units covered by
	// one terminal cell. Cells are about twice as tall as they are wide.
	DefaultCellWidth  = 10.0
	DefaultCellHeight = 20.0

	block = '█'
)

// affine maps local coordinates to screen world units:
// x' = a*x + c*y + e, y' = b*x + d*y + f.
type affine struct {
	a, b, c, d, e, f float64
}

var identity = affine{a: 1, d: 1}

func (m affine) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

func (m affine) invert(x, y float64) (float64, float64, bool) {
	det := m.a*m.d - m.b*m.c
	if det == 0 {
		return 0, 0, false
	}
	x, y = x-m.e, y-m.f
	return (m.d*x - m.c*y) / det, (-m.b*x + m.a*y) / det, true
}

// Surface is the part of a tcell screen the canvas paints on.
type Surface interface {
	Size() (int, int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// Canvas rasterises world drawing calls onto tcell cells. Every cell whose
// center falls inside a shape is painted with a full block in the shape's
// color.
type Canvas struct {
	screen       Surface
	cellW, cellH float64
	transform    affine
	saved        *sequence.Stack[affine]
}

func NewCanvas(screen Surface, cellW, cellH float64) *Canvas {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	return &Canvas{
		screen:    screen,
		cellW:     cellW,
		cellH:     cellH,
		transform: identity,
		saved:     sequence.NewStack[affine](),
	}
}

// Size is the screen size in world units.
func (c *Canvas) Size() (float64, float64) {
	cols, rows := c.screen.Size()
	return float64(cols) * c.cellW, float64(rows) * c.cellH
}

// Reset drops any unbalanced Save.
func (c *Canvas) Reset() {
	c.transform = identity
	c.saved = sequence.NewStack[affine]()
}

func (c *Canvas) Save() { c.saved.Push(c.transform) }

func (c *Canvas) Restore() {
	if m, ok := c.saved.Pop(); ok {
		c.transform = m
	}
}

func (c *Canvas) Translate(x, y float64) {
	m := &c.transform
	m.e += m.a*x + m.c*y
	m.f += m.b*x + m.d*y
}

func (c *Canvas) Rotate(rad float64) {
	if rad == 0 {
		return
	}
	sin, cos := math.Sincos(rad)
	m := c.transform
	c.transform = affine{
		a: m.a*cos + m.c*sin,
		b: m.b*cos + m.d*sin,
		c: m.c*cos - m.a*sin,
		d: m.d*cos - m.b*sin,
		e: m.e,
		f: m.f,
	}
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	style, ok := styleOf(col)
	if !ok {
		return
	}
	c.fill(x, y, w, h, func(float64, float64) (tcell.Style, bool) {
		return style, true
	})
}

func (c *Canvas) FillEllipse(x, y, w, h float64, col color.Color) {
	style, ok := styleOf(col)
	if !ok || w <= 0 || h <= 0 {
		return
	}
	rx, ry := w/2, h/2
	cx, cy := x+rx, y+ry
	c.fill(x, y, w, h, func(lx, ly float64) (tcell.Style, bool) {
		dx, dy := (lx-cx)/rx, (ly-cy)/ry
		return style, dx*dx+dy*dy <= 1
	})
}

// DrawImage samples img at each covered cell center. Transparent pixels
// leave the cell untouched.
func (c *Canvas) DrawImage(img image.Image, x, y, w, h float64) {
	if img == nil || w <= 0 || h <= 0 {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	c.fill(x, y, w, h, func(lx, ly float64) (tcell.Style, bool) {
		px := b.Min.X + int((lx-x)/w*float64(b.Dx()))
		py := b.Min.Y + int((ly-y)/h*float64(b.Dy()))
		return styleOf(img.At(min(px, b.Max.X-1), min(py, b.Max.Y-1)))
	})
}

// fill paints the cells of the local rectangle (x, y, w, h) for which shade
// reports true. A shape smaller than a cell still paints the cell holding
// its center.
func (c *Canvas) fill(x, y, w, h float64, shade func(lx, ly float64) (tcell.Style, bool)) {
	if w <= 0 || h <= 0 {
		return
	}
	cols, rows := c.screen.Size()

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		sx, sy := c.transform.apply(p[0], p[1])
		minX, maxX = math.Min(minX, sx), math.Max(maxX, sx)
		minY, maxY = math.Min(minY, sy), math.Max(maxY, sy)
	}

	col0 := max(0, int(math.Floor(minX/c.cellW)))
	col1 := min(cols, int(math.Ceil(maxX/c.cellW)))
	row0 := max(0, int(math.Floor(minY/c.cellH)))
	row1 := min(rows, int(math.Ceil(maxY/c.cellH)))

	painted := false
	for row := row0; row < row1; row++ {
		for col := col0; col < col1; col++ {
			lx, ly, ok := c.transform.invert((float64(col)+0.5)*c.cellW, (float64(row)+0.5)*c.cellH)
			if !ok || lx < x || lx >= x+w || ly < y || ly >= y+h {
				continue
			}
			if style, ok := shade(lx, ly); ok {
				c.screen.SetContent(col, row, block, nil, style)
				painted = true
			}
		}
	}
	if painted {
		return
	}

	lx, ly := x+w/2, y+h/2
	sx, sy := c.transform.apply(lx, ly)
	col, row := int(math.Floor(sx/c.cellW)), int(math.Floor(sy/c.cellH))
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return
	}
	if style, ok := shade(lx, ly); ok {
		c.screen.SetContent(col, row, block, nil, style)
	}
}

func styleOf(col color.Color) (tcell.Style, bool) {
	if col == nil {
		return tcell.StyleDefault, false
	}
	r, g, b, a := col.RGBA()
	if a == 0 {
		return tcell.StyleDefault, false
	}
	fg := tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
	return tcell.StyleDefault.Foreground(fg), true
}
