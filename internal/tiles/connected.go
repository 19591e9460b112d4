package tiles

import "github.com/f3rmion/tilesmith/internal/sprite"

// A connected group always holds the visible tile followed by its invisible
// sibling.
const (
	visibleIndex   = 0
	invisibleIndex = 1
)

// ConnectedRule shows Output when every neighbour in Mask is connected.
type ConnectedRule struct {
	Output *sprite.Output
	Mask   Configuration
}

// NewConnectedRule normalizes mask.
func NewConnectedRule(out *sprite.Output, mask Configuration) ConnectedRule {
	return ConnectedRule{Output: out, Mask: mask.Normalize()}
}

// ConnectedTile picks its sprite from the set of neighbours holding the
// same tile (or the group's invisible sibling).
type ConnectedTile struct {
	name      string
	collider  Collider
	group     int
	invisible bool
	rules     []ConnectedRule
}

func (t *ConnectedTile) Name() string       { return t.name }
func (t *ConnectedTile) Collider() Collider { return t.collider }

// Invisible reports whether this is the group's invisible sibling.
func (t *ConnectedTile) Invisible() bool { return t.invisible }

// Rules returns the ordered rule list.
func (t *ConnectedTile) Rules() []ConnectedRule {
	return append([]ConnectedRule(nil), t.rules...)
}

// DefaultSprite is the first rule's output at the origin.
func (t *ConnectedTile) DefaultSprite() sprite.Sprite {
	if len(t.rules) == 0 {
		return sprite.None
	}
	return t.rules[0].Output.Resolve(sprite.Position{}, 0)
}

// matchConnected picks the rule whose mask is contained in the cell's
// configuration with the fewest differing bits. Ties go to the earlier rule.
func matchConnected(rules []ConnectedRule, self, invisible TileID, pos sprite.Position, tm Tilemap) Match {
	m := Match{Rule: -1}
	if len(rules) == 0 {
		return m
	}

	m.Config = ConfigurationAt(tm, pos, self, invisible)
	best := 9
	for i, r := range rules {
		if !m.Config.Contains(r.Mask) {
			continue
		}
		if d := m.Config.Distance(r.Mask); d < best {
			best = d
			m.Rule = i
		}
	}
	if m.Rule >= 0 {
		m.Output = rules[m.Rule].Output
	}
	return m
}
