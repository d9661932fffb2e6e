package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/tileworld/internal/core/level/loader"
	"github.com/zeusync/tileworld/internal/core/observability/log"
	"github.com/zeusync/tileworld/internal/core/triggers"
)

// Config is the tileworld runtime configuration.
type Config struct {
	LogLevel   string              `json:"log_level" yaml:"log_level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,enum=fatal,default=info"`
	LogFile    string              `json:"log_file" yaml:"log_file" jsonschema:"default=tileworld.log,description=Path the JSON log is written to"`
	TickRate   int                 `json:"tick_rate" yaml:"tick_rate" jsonschema:"minimum=1,default=60,description=Simulation and render cadence in ticks per second"`
	TileSize   float64             `json:"tile_size" yaml:"tile_size" jsonschema:"minimum=0,exclusiveMinimum=true,default=20,description=World units per level pixel"`
	Levels     LevelsConfig        `json:"levels" yaml:"levels"`
	Colors     map[string][]string `json:"colors,omitempty" yaml:"colors,omitempty" jsonschema:"description=Level pixel color (#rrggbb) to ordered rule names"`
	StartLevel string              `json:"start_level,omitempty" yaml:"start_level,omitempty" jsonschema:"description=Level loaded first; defaults to the first level by name"`
	Player     PlayerConfig        `json:"player" yaml:"player"`
}

// LevelsConfig locates level rasters.
type LevelsConfig struct {
	Dir       string `json:"dir" yaml:"dir" jsonschema:"default=./assets/levels"`
	Ext       string `json:"ext" yaml:"ext" jsonschema:"default=.png"`
	Workers   int    `json:"workers" yaml:"workers" jsonschema:"minimum=1,default=4"`
	ScanOrder string `json:"scan_order" yaml:"scan_order" jsonschema:"enum=row_major,enum=legacy_transposed,default=row_major"`
}

// PlayerConfig places the controllable entity.
type PlayerConfig struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Size  float64 `json:"size" yaml:"size" jsonschema:"minimum=0,exclusiveMinimum=true,default=16"`
	Speed float64 `json:"speed" yaml:"speed" jsonschema:"minimum=0,exclusiveMinimum=true,default=4"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		LogFile:  "tileworld.log",
		TickRate: 60,
		TileSize: loader.DefaultTileSize,
		Levels: LevelsConfig{
			Dir:       loader.DefaultDir,
			Ext:       loader.DefaultExt,
			Workers:   loader.DefaultWorkers,
			ScanOrder: loader.ScanRowMajor.String(),
		},
		Colors: DefaultColors(),
		Player: PlayerConfig{
			X:     20,
			Y:     20,
			Size:  16,
			Speed: 4,
		},
	}
}

// DefaultColors maps red to respawning lava, green to checkpoints and blue
// to level exits.
func DefaultColors() map[string][]string {
	return map[string][]string{
		"#ff0000": {"respawn", "passable"},
		"#00ff00": {"checkpoint", "passable"},
		"#0000ff": {"event:exit", "passable"},
	}
}

// Load decodes YAML over the defaults and validates the result. A colors
// table replaces the default one as a whole.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	c.Colors = nil
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if c.Colors == nil {
		c.Colors = DefaultColors()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		bad("log_level: %v", err)
	}
	if c.LogFile == "" {
		bad("log_file is required")
	}
	if c.TickRate <= 0 {
		bad("tick_rate must be positive, got %d", c.TickRate)
	}
	if c.TileSize <= 0 {
		bad("tile_size must be positive, got %v", c.TileSize)
	}
	if c.Levels.Dir == "" {
		bad("levels.dir is required")
	}
	if c.Levels.Ext == "" {
		bad("levels.ext is required")
	}
	if c.Levels.Workers <= 0 {
		bad("levels.workers must be positive, got %d", c.Levels.Workers)
	}
	if _, err := loader.ParseScanOrder(c.Levels.ScanOrder); err != nil {
		bad("levels.scan_order: %v", err)
	}
	spelled := make(map[color.RGBA]string, len(c.Colors))
	for _, hex := range slices.Sorted(maps.Keys(c.Colors)) {
		rgba, err := triggers.ParseColor(hex)
		if err != nil {
			bad("colors: %v", err)
			continue
		}
		if prev, ok := spelled[rgba]; ok {
			bad("colors: %q and %q name the same color", prev, hex)
			continue
		}
		spelled[rgba] = hex
	}
	if c.Player.Size <= 0 {
		bad("player.size must be positive, got %v", c.Player.Size)
	}
	if c.Player.Speed <= 0 {
		bad("player.speed must be positive, got %v", c.Player.Speed)
	}

	return errors.Join(errs...)
}

// LoaderOptions maps the level settings onto decoder options. The color
// rule is left to the caller.
func (c *Config) LoaderOptions(logger log.Log) (loader.Options, error) {
	order, err := loader.ParseScanOrder(c.Levels.ScanOrder)
	if err != nil {
		return loader.Options{}, err
	}
	opts := loader.DefaultOptions()
	opts.TileSize = c.TileSize
	opts.ScanOrder = order
	opts.Ext = c.Levels.Ext
	opts.Workers = c.Levels.Workers
	if logger != nil {
		opts.Logger = logger
	}
	return opts, nil
}
