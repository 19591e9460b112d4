// Package template holds the authoring grids that tile groups are generated
// from: a RuleTemplate paints tile types on a grid and derives one rule per
// interior cell, a ConnectedTemplate lays out one neighbour mask per sprite.
package template

import (
	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/sprite"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

// Point is a template cell. Y counts rows from the top.
type Point struct {
	X, Y int
}

// RuleTemplate is a grid of tile type ids (or tiles.SlotAny/tiles.SlotNone).
// Every cell holding a type whose generation flag is on gets a compact rule
// index; indices, positions and the rule set count are recomputed on every
// edit.
type RuleTemplate struct {
	name     string
	width    int
	height   int
	count    int
	generate []bool
	colors   []string
	elements []int

	indices   []int
	positions []Point
}

// NewRuleTemplate returns a width x height template for count tile types
// with every cell set to tiles.SlotNone and generation enabled for all types.
func NewRuleTemplate(name string, width, height, count int) *RuleTemplate {
	t := &RuleTemplate{name: name}
	t.SetCount(count)
	t.Resize(width, height)
	return t
}

// Name returns the template name.
func (t *RuleTemplate) Name() string { return t.name }

// Size returns the grid size.
func (t *RuleTemplate) Size() (width, height int) { return t.width, t.height }

// Count returns the number of tile types.
func (t *RuleTemplate) Count() int { return t.count }

// Resize changes the grid size, keeping the overlapping top-left cells.
// Sizes are clamped to at least 1.
func (t *RuleTemplate) Resize(width, height int) {
	width = max(width, 1)
	height = max(height, 1)

	elements := make([]int, width*height)
	for i := range elements {
		x, y := i%width, i/width
		elements[i] = tiles.SlotNone
		if x < t.width && y < t.height {
			elements[i] = t.elements[y*t.width+x]
		}
	}
	t.width, t.height, t.elements = width, height, elements
	t.reindex()
}

// SetCount changes the number of tile types. New types generate rules by
// default; cells holding a removed type become tiles.SlotNone.
func (t *RuleTemplate) SetCount(count int) {
	count = max(count, 1)

	generate := make([]bool, count)
	colors := make([]string, count)
	for i := range generate {
		generate[i] = true
		if i < len(t.generate) {
			generate[i] = t.generate[i]
			colors[i] = t.colors[i]
		}
	}
	t.count, t.generate, t.colors = count, generate, colors

	for i, e := range t.elements {
		if e >= count {
			t.elements[i] = tiles.SlotNone
		}
	}
	t.reindex()
}

// Element returns the value at (x, y), or tiles.SlotNone out of range.
func (t *RuleTemplate) Element(x, y int) int {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return tiles.SlotNone
	}
	return t.elements[y*t.width+x]
}

// SetElement paints (x, y) with a type id, tiles.SlotAny or tiles.SlotNone.
func (t *RuleTemplate) SetElement(x, y, value int) error {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return errors.InvalidArgumentf("cell (%d,%d) outside %dx%d template", x, y, t.width, t.height)
	}
	if value < tiles.SlotNone || value >= t.count {
		return errors.InvalidArgumentf("element %d outside [%d,%d)", value, tiles.SlotNone, t.count)
	}
	t.elements[y*t.width+x] = value
	t.reindex()
	return nil
}

// Generate reports whether rules are generated for type id.
func (t *RuleTemplate) Generate(id int) bool {
	return id >= 0 && id < t.count && t.generate[id]
}

// SetGenerate toggles rule generation for type id.
func (t *RuleTemplate) SetGenerate(id int, on bool) error {
	if id < 0 || id >= t.count {
		return errors.InvalidArgumentf("type %d outside [0,%d)", id, t.count)
	}
	t.generate[id] = on
	t.reindex()
	return nil
}

// Color returns the display colour of type id.
func (t *RuleTemplate) Color(id int) string {
	if id < 0 || id >= t.count {
		return ""
	}
	return t.colors[id]
}

// SetColor sets the display colour of type id. Colours are only used to
// draw the template.
func (t *RuleTemplate) SetColor(id int, color string) error {
	if id < 0 || id >= t.count {
		return errors.InvalidArgumentf("type %d outside [0,%d)", id, t.count)
	}
	t.colors[id] = color
	return nil
}

// Indices returns the rule index of every cell, -1 for cells that do not
// produce a rule.
func (t *RuleTemplate) Indices() []int {
	return append([]int(nil), t.indices...)
}

// Positions returns the cells that produce rules, in index order.
func (t *RuleTemplate) Positions() []Point {
	return append([]Point(nil), t.positions...)
}

// RuleSetsCount is the number of cells that produce rules, and so the
// number of outputs RuleSets needs.
func (t *RuleTemplate) RuleSetsCount() int { return len(t.positions) }

func (t *RuleTemplate) reindex() {
	if len(t.elements) == 0 {
		t.indices, t.positions = nil, nil
		return
	}

	t.indices = make([]int, len(t.elements))
	t.positions = t.positions[:0]
	for i, e := range t.elements {
		if e < 0 || e >= t.count || !t.generate[e] {
			t.indices[i] = -1
			continue
		}
		t.indices[i] = len(t.positions)
		t.positions = append(t.positions, Point{X: i % t.width, Y: i / t.width})
	}
}

// RuleCell is one generated rule before an output is attached: the template
// cell, the tile type it belongs to, its output index and its neighbour
// slots in tiles.Directions order.
type RuleCell struct {
	At    Point
	Type  int
	Index int
	Slots [8]int
}

// RuleCells lists the rules the template generates, one per interior indexed
// cell, scanning rows top first. The row above a cell is its Top neighbour.
func (t *RuleTemplate) RuleCells() []RuleCell {
	var cells []RuleCell
	w, el := t.width, t.elements
	for r := 1; r < t.height-1; r++ {
		for c := 1; c < w-1; c++ {
			i := r*w + c
			if el[i] < 0 || t.indices[i] < 0 {
				continue
			}
			cells = append(cells, RuleCell{
				At:    Point{X: c, Y: r},
				Type:  el[i],
				Index: t.indices[i],
				Slots: [8]int{
					el[(r-1)*w+c],   // top
					el[(r-1)*w+c+1], // top right
					el[r*w+c+1],     // right
					el[(r+1)*w+c+1], // bottom right
					el[(r+1)*w+c],   // bottom
					el[(r+1)*w+c-1], // bottom left
					el[r*w+c-1],     // left
					el[(r-1)*w+c-1], // top left
				},
			})
		}
	}
	return cells
}

// RuleSets attaches outputs to RuleCells: the rule of a cell with index k
// shows outputs[k]. The result holds one rule list per tile type.
func (t *RuleTemplate) RuleSets(outputs []*sprite.Output) ([][]tiles.Rule, error) {
	if len(outputs) < t.RuleSetsCount() {
		return nil, errors.InvalidArgumentf("template %q needs %d outputs, got %d", t.name, t.RuleSetsCount(), len(outputs))
	}

	sets := make([][]tiles.Rule, t.count)
	for _, cell := range t.RuleCells() {
		sets[cell.Type] = append(sets[cell.Type], tiles.NewRule(outputs[cell.Index], cell.Slots[:]...))
	}
	return sets, nil
}
