package loader

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/zeusync/tileworld/internal/core/level"
	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/pkg/concurrent"
	"github.com/zeusync/tileworld/pkg/sequence"
)

const (
	DefaultDir     = "./assets/levels"
	DefaultExt     = ".png"
	DefaultWorkers = 4
)

// Source opens a level raster by path.
type Source func(path string) (image.Image, error)

// DecodeFile is the default Source. It understands PNG, GIF, JPEG, BMP,
// TIFF and WebP.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

type Options struct {
	TileSize  float64
	ScanOrder ScanOrder
	Rule      ColorRule
	Source    Source
	// Ext selects the files LoadAll reads from a directory.
	Ext     string
	Workers int
	Logger  log.Log
}

func DefaultOptions() Options {
	return Options{
		TileSize:  DefaultTileSize,
		ScanOrder: ScanRowMajor,
		Rule:      Walls,
		Source:    DecodeFile,
		Ext:       DefaultExt,
		Workers:   DefaultWorkers,
		Logger:    log.Provide(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TileSize == 0 {
		o.TileSize = d.TileSize
	}
	if o.Rule == nil {
		o.Rule = d.Rule
	}
	if o.Source == nil {
		o.Source = d.Source
	}
	if o.Ext == "" {
		o.Ext = d.Ext
	}
	if o.Workers == 0 {
		o.Workers = d.Workers
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}

// LoadFile reads, decodes and optimizes one level. The level is named after
// the file without its extension.
func LoadFile(path string, opts Options) (*level.Level, error) {
	opts = opts.withDefaults()

	img, err := opts.Source(path)
	if err != nil {
		return nil, err
	}

	l, err := Decode(levelName(path), img, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	decoded := l.Len()
	merged := l.Optimize()
	opts.Logger.Debug("Level decoded",
		log.String("level", l.Name()),
		log.Int("decoded", decoded),
		log.Int("merged", merged),
	)
	return l, nil
}

// LoadAll loads every file in dir carrying the configured extension, with
// at most Workers files in flight. A file that fails to load is logged and
// skipped; only an unreadable directory or a cancelled context fail the
// call.
func LoadAll(ctx context.Context, dir string, opts Options) (*level.Library, error) {
	opts = opts.withDefaults()
	logger := opts.Logger.With(log.String("component", "loader"), log.String("dir", dir))
	opts.Logger = logger

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read level dir: %w", err)
	}

	files := sequence.From(entries).Filter(func(e fs.DirEntry) bool {
		return !e.IsDir() && strings.HasSuffix(e.Name(), opts.Ext)
	})

	lib := level.NewLibrary()
	err = concurrent.Concurrent(ctx, files, opts.Workers, func(ctx context.Context, e fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		l, err := LoadFile(filepath.Join(dir, e.Name()), opts)
		if err != nil {
			logger.Warn("Level decode failed", log.String("file", e.Name()), log.Error(err))
			return nil
		}
		lib.Put(l)
		return nil
	})
	if err != nil {
		return lib, err
	}
	if err = ctx.Err(); err != nil {
		return lib, err
	}

	logger.Info("Levels loaded", log.Int("count", lib.Len()))
	return lib, nil
}

func levelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
