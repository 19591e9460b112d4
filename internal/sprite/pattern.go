package sprite

// Pattern is a fixed width x height grid of outputs. Cells are addressed
// with (0, 0) at the bottom-left.
type Pattern struct {
	name   string
	width  int
	height int
	cells  []*Output // row-major, top row first
}

// PatternSpec is the input for one pattern of a group. Cells are listed row
// by row starting with the top row.
type PatternSpec struct {
	Name  string
	Cells []*Output
}

// PatternGroup owns patterns that all share one size.
type PatternGroup struct {
	name     string
	width    int
	height   int
	patterns []*Pattern
}

// NewPatternGroup builds a group in one step. Width and height are clamped
// to at least 1; extra cells are dropped and missing cells stay empty.
func NewPatternGroup(name string, width, height int, specs ...PatternSpec) *PatternGroup {
	width = max(width, 1)
	height = max(height, 1)

	g := &PatternGroup{name: name, width: width, height: height}
	for _, spec := range specs {
		p := &Pattern{
			name:   spec.Name,
			width:  width,
			height: height,
			cells:  make([]*Output, width*height),
		}
		copy(p.cells, spec.Cells)
		g.patterns = append(g.patterns, p)
	}
	return g
}

// Name returns the group name.
func (g *PatternGroup) Name() string { return g.name }

// Size returns the shared pattern size.
func (g *PatternGroup) Size() (width, height int) { return g.width, g.height }

// Patterns returns the patterns in declaration order.
func (g *PatternGroup) Patterns() []*Pattern {
	out := make([]*Pattern, len(g.patterns))
	copy(out, g.patterns)
	return out
}

// Pattern finds a pattern by name.
func (g *PatternGroup) Pattern(name string) (*Pattern, bool) {
	for _, p := range g.patterns {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// Name returns the pattern name.
func (p *Pattern) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Size returns the pattern size, at least 1x1. A nil or zero pattern is
// 1x1 with no cells.
func (p *Pattern) Size() (width, height int) {
	if p == nil {
		return 1, 1
	}
	return max(p.width, 1), max(p.height, 1)
}

// At returns the output at (x, y), or nil when out of range.
func (p *Pattern) At(x, y int) *Output {
	if p == nil || x < 0 || y < 0 || x >= p.width || y >= p.height {
		return nil
	}
	return p.cells[(p.height-1-y)*p.width+x]
}

// Rows returns the cells row by row, top row first.
func (p *Pattern) Rows() [][]*Output {
	if p == nil {
		return nil
	}
	rows := make([][]*Output, p.height)
	for r := range rows {
		rows[r] = make([]*Output, p.width)
		copy(rows[r], p.cells[r*p.width:(r+1)*p.width])
	}
	return rows
}
