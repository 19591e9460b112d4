package template

import (
	"fmt"

	"github.com/f3rmion/tilesmith/internal/sprite"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

// TileSpec names a generated tile and its collider.
type TileSpec struct {
	Name     string
	Collider tiles.Collider
}

// SimpleTiles pairs tile specs with outputs, one simple tile each.
func SimpleTiles(specs []TileSpec, outputs []*sprite.Output) []tiles.SimpleSpec {
	n := min(len(specs), len(outputs))
	out := make([]tiles.SimpleSpec, n)
	for i := range out {
		out[i] = tiles.SimpleSpec{Name: specs[i].Name, Collider: specs[i].Collider, Output: outputs[i]}
	}
	return out
}

// RuleTiles generates one rule tile per template type. specs[i] names type
// i; types without a spec are named "<template>_<i>" with no collider.
func RuleTiles(t *RuleTemplate, specs []TileSpec, outputs []*sprite.Output) ([]tiles.RuleTileSpec, error) {
	sets, err := t.RuleSets(outputs)
	if err != nil {
		return nil, err
	}

	out := make([]tiles.RuleTileSpec, t.Count())
	for i := range out {
		spec := TileSpec{Name: fmt.Sprintf("%s_%d", t.Name(), i)}
		if i < len(specs) {
			spec = specs[i]
		}
		out[i] = tiles.RuleTileSpec{Name: spec.Name, Collider: spec.Collider, Rules: sets[i]}
	}
	return out, nil
}

// Patterns slices outputs into count patterns of width x height, row by row
// with the top row first. Patterns are named "<name>_<i>"; a short output
// list leaves trailing cells empty.
func Patterns(name string, width, height, count int, outputs []*sprite.Output) *sprite.PatternGroup {
	width = max(width, 1)
	height = max(height, 1)
	size := width * height

	specs := make([]sprite.PatternSpec, max(count, 0))
	for i := range specs {
		lo := min(i*size, len(outputs))
		hi := min(lo+size, len(outputs))
		specs[i] = sprite.PatternSpec{
			Name:  fmt.Sprintf("%s_%d", name, i),
			Cells: outputs[lo:hi],
		}
	}
	return sprite.NewPatternGroup(name, width, height, specs...)
}
