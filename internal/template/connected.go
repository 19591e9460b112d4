package template

import (
	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/sprite"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

// ConnectedTemplate is a grid of neighbour masks laid out like the sprite
// sheet it describes: cell i pairs with the i-th sprite output.
type ConnectedTemplate struct {
	name   string
	width  int
	height int
	masks  []tiles.Configuration
}

// NewConnectedTemplate returns a template of empty masks.
func NewConnectedTemplate(name string, width, height int) *ConnectedTemplate {
	t := &ConnectedTemplate{name: name}
	t.Resize(width, height)
	return t
}

// Name returns the template name.
func (t *ConnectedTemplate) Name() string { return t.name }

// Size returns the grid size.
func (t *ConnectedTemplate) Size() (width, height int) { return t.width, t.height }

// Resize changes the grid size. Sizes are clamped to at least 1. Any change
// of size clears every mask.
func (t *ConnectedTemplate) Resize(width, height int) {
	width = max(width, 1)
	height = max(height, 1)
	if width == t.width && height == t.height {
		return
	}
	t.width, t.height = width, height
	t.masks = make([]tiles.Configuration, width*height)
}

// At returns the mask of cell (x, y); y counts rows from the top.
func (t *ConnectedTemplate) At(x, y int) tiles.Configuration {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return 0
	}
	return t.masks[y*t.width+x]
}

// Set stores a normalized mask at (x, y).
func (t *ConnectedTemplate) Set(x, y int, mask tiles.Configuration) error {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return errors.InvalidArgumentf("cell (%d,%d) outside %dx%d template", x, y, t.width, t.height)
	}
	t.masks[y*t.width+x] = mask.Normalize()
	return nil
}

// Masks returns all masks row by row, top row first.
func (t *ConnectedTemplate) Masks() []tiles.Configuration {
	return append([]tiles.Configuration(nil), t.masks...)
}

// Rules pairs outputs with masks in order. Extra outputs or masks are
// ignored.
func (t *ConnectedTemplate) Rules(outputs []*sprite.Output) []tiles.ConnectedRule {
	n := min(len(outputs), len(t.masks))
	rules := make([]tiles.ConnectedRule, n)
	for i := range rules {
		rules[i] = tiles.NewConnectedRule(outputs[i], t.masks[i])
	}
	return rules
}
