package tiles

import "github.com/f3rmion/tilesmith/internal/sprite"

// Special neighbour slot values. Values >= 0 name a tile of the same group.
const (
	SlotAny  = -1
	SlotNone = -2
)

// Rule shows Output when all 8 neighbour slots are satisfied.
type Rule struct {
	Output   *sprite.Output
	slots    [8]int
	anyCount int
}

// NewRule builds a rule from up to 8 slot values in Directions order.
// Missing slots are SlotNone and values below SlotNone count as SlotNone.
func NewRule(out *sprite.Output, slots ...int) Rule {
	r := Rule{Output: out}
	for i := range r.slots {
		v := SlotNone
		if i < len(slots) && slots[i] >= SlotNone {
			v = slots[i]
		}
		r.slots[i] = v
		if v == SlotAny {
			r.anyCount++
		}
	}
	return r
}

// Slots returns the slot values in Directions order.
func (r Rule) Slots() [8]int { return r.slots }

// Slot returns the value for direction d.
func (r Rule) Slot(d Direction) int { return r.slots[d&7] }

// AnyCount is the number of SlotAny slots.
func (r Rule) AnyCount() int { return r.anyCount }

// satisfied checks every slot against the neighbours of pos. group maps a
// slot id to the tile registered under it.
func (r Rule) satisfied(group []TileID, pos sprite.Position, tm Tilemap) bool {
	for _, d := range Directions {
		want := r.slots[d]
		if want == SlotAny {
			continue
		}

		dx, dy := d.Offset()
		got := tm.Tile(pos.Add(dx, dy))
		switch {
		case want == SlotNone:
			if got != NoTile {
				return false
			}
		case want >= len(group):
			return false
		case got != group[want]:
			return false
		}
	}
	return true
}

// RuleTile picks the most specific fully satisfied rule.
type RuleTile struct {
	name     string
	collider Collider
	group    int
	index    int
	rules    []Rule
}

func (t *RuleTile) Name() string       { return t.name }
func (t *RuleTile) Collider() Collider { return t.collider }

// Index is the slot id other rules of the group use for this tile.
func (t *RuleTile) Index() int { return t.index }

// Rules returns the ordered rule list.
func (t *RuleTile) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// DefaultSprite is the first rule's output at the origin.
func (t *RuleTile) DefaultSprite() sprite.Sprite {
	if len(t.rules) == 0 {
		return sprite.None
	}
	return t.rules[0].Output.Resolve(sprite.Position{}, 0)
}

// matchRules picks the satisfied rule with the fewest SlotAny slots. Ties go
// to the earlier rule.
func matchRules(rules []Rule, group []TileID, pos sprite.Position, tm Tilemap) Match {
	m := Match{Rule: -1}
	best := len(Directions) + 1
	for i, r := range rules {
		if r.anyCount >= best || !r.satisfied(group, pos, tm) {
			continue
		}
		best = r.anyCount
		m.Rule = i
	}
	if m.Rule >= 0 {
		m.Output = rules[m.Rule].Output
	}
	return m
}
