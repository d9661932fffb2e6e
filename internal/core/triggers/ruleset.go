package triggers

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"maps"
	"slices"
	"strings"

	"github.com/zeusync/tileworld/internal/core/models"
	"github.com/zeusync/tileworld/internal/core/observability/log"
)

// RuleSet is a per-color list of rules, usable as a level decoder color
// rule. Colors without rules keep the plain wall.
type RuleSet struct {
	rules map[color.RGBA][]Rule
}

// Compile resolves a color table such as {"#ff0000": ["respawn", "passable"]}
// against reg. Malformed colors and two spellings of one color fail the
// call; unknown or malformed rule names are logged and skipped.
func Compile(colors map[string][]string, reg *Registry, logger log.Log) (*RuleSet, error) {
	if logger == nil {
		logger = log.Provide()
	}
	logger = logger.With(log.String("component", "triggers"))

	rs := &RuleSet{rules: make(map[color.RGBA][]Rule, len(colors))}
	spelled := make(map[color.RGBA]string, len(colors))
	for _, hexColor := range slices.Sorted(maps.Keys(colors)) {
		c, err := ParseColor(hexColor)
		if err != nil {
			return nil, err
		}
		if prev, ok := spelled[c]; ok {
			return nil, fmt.Errorf("%w: %q and %q", ErrDuplicateColor, prev, hexColor)
		}
		spelled[c] = hexColor

		for _, name := range colors[hexColor] {
			rule, err := reg.New(name)
			if err != nil {
				logger.Warn("Color rule skipped",
					log.String("color", hexColor),
					log.String("rule", name),
					log.Error(err),
				)
				continue
			}
			rs.rules[c] = append(rs.rules[c], rule)
		}
	}
	return rs, nil
}

// Apply runs the rules of c on e in configured order.
func (rs *RuleSet) Apply(e *models.Entity, c color.RGBA) *models.Entity {
	for _, rule := range rs.rules[c] {
		rule(e)
	}
	return e
}

// Len is the number of colors with at least one rule.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// ParseColor reads "#rrggbb", "rrggbb" or "#rgb" into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) == 3 {
		raw = string([]byte{raw[0], raw[0], raw[1], raw[1], raw[2], raw[2]})
	}
	if len(raw) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	b, err := hex.DecodeString(raw)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q: %w", ErrInvalidColor, s, err)
	}
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
}
