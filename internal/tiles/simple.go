package tiles

import "github.com/f3rmion/tilesmith/internal/sprite"

// SimpleTile always shows the same output regardless of its neighbours.
type SimpleTile struct {
	name     string
	collider Collider
	output   *sprite.Output
}

func (t *SimpleTile) Name() string       { return t.name }
func (t *SimpleTile) Collider() Collider { return t.collider }

// Output returns the fixed output.
func (t *SimpleTile) Output() *sprite.Output { return t.output }

// DefaultSprite is the output resolved at the origin.
func (t *SimpleTile) DefaultSprite() sprite.Sprite {
	return t.output.Resolve(sprite.Position{}, 0)
}
