package loader

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/zeusync/tileworld/internal/core/level"
	"github.com/zeusync/tileworld/internal/core/models"
	"github.com/zeusync/tileworld/internal/core/systems/physics"
)

const DefaultTileSize = 20

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// ColorRule attaches game semantics to a freshly decoded wall of the given
// color and returns the entity to keep; nil drops it. Rules run concurrently
// across files and must not share mutable state.
type ColorRule func(e *models.Entity, c color.RGBA) *models.Entity

// Walls is the rule that keeps every wall as decoded.
func Walls(e *models.Entity, _ color.RGBA) *models.Entity { return e }

// ScanOrder selects how a scan position (row i, column j) maps to a pixel.
// Rows always advance over the image height and give the entity Y, columns
// over the width and give the entity X.
type ScanOrder uint8

const (
	// ScanRowMajor samples pixel (x=j, y=i).
	ScanRowMajor ScanOrder = iota
	// ScanLegacyTransposed samples pixel (x=i, y=j), the indexing older
	// level files were authored against. Square images decode transposed;
	// non-square images run out of bounds.
	ScanLegacyTransposed
)

func (o ScanOrder) String() string {
	switch o {
	case ScanRowMajor:
		return "row_major"
	case ScanLegacyTransposed:
		return "legacy_transposed"
	default:
		return fmt.Sprintf("ScanOrder(%d)", uint8(o))
	}
}

func ParseScanOrder(s string) (ScanOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "row_major":
		return ScanRowMajor, nil
	case "legacy_transposed":
		return ScanLegacyTransposed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScanOrder, s)
	}
}

// Decode turns a level raster into a level of wall entities. Each maximal
// horizontal run of one non-white color inside a row becomes a TileSize high
// rectangle spanning the run, positioned at (runStart, row) * TileSize. The
// entity is visible, solid and filled with the run color before the color
// rule sees it. Alpha is ignored.
//
// The level is returned as decoded; callers optimize it.
func Decode(name string, img image.Image, opts Options) (*level.Level, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	opts = opts.withDefaults()
	if opts.TileSize <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTileSize, opts.TileSize)
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	sample := func(i, j int) (color.RGBA, error) {
		x, y := j, i
		if opts.ScanOrder == ScanLegacyTransposed {
			x, y = i, j
		}
		if x >= width || y >= height {
			return color.RGBA{}, fmt.Errorf("%w: (%d,%d) in %dx%d image", ErrPixelOutOfBounds, x, y, width, height)
		}
		return opaque(img.At(b.Min.X+x, b.Min.Y+y)), nil
	}

	l := level.New(name)
	emit := func(row, start, end int, c color.RGBA) {
		if e := makeObject(row, start, end, c, opts); e != nil {
			l.Add(e)
		}
	}

	for i := 0; i < height; i++ {
		previous := white
		start := 0
		for j := 0; j < width; j++ {
			c, err := sample(i, j)
			if err != nil {
				return nil, err
			}

			switch {
			case c == white:
				if previous != white {
					emit(i, start, j, previous)
				}
			case c != previous:
				if previous != white {
					emit(i, start, j, previous)
				}
				start = j
			}
			previous = c
		}
		if previous != white {
			emit(i, start, width, previous)
		}
	}

	return l, nil
}

func makeObject(row, start, end int, c color.RGBA, opts Options) *models.Entity {
	ts := opts.TileSize
	e := models.New(
		float64(start)*ts, float64(row)*ts,
		float64(end-start)*ts, ts,
		physics.V(1, 0),
		models.WithLogger(opts.Logger),
	)
	e.SetShape(models.ShapeRect)
	e.SetVisible(true)
	e.SetColor(c)

	return opts.Rule(e, c)
}

// opaque drops alpha without premultiplying, so transparent pixels keep
// their stored RGB.
func opaque(c color.Color) color.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: 0xff}
}
