package tiles

import (
	"strings"

	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/sprite"
)

// Tile keys are "<group>/<tile>". A connected group exposes these two.
const (
	VisibleName   = "visible"
	InvisibleName = "invisible"
)

// SimpleSpec describes one tile of a simple group.
type SimpleSpec struct {
	Name     string
	Collider Collider
	Output   *sprite.Output
}

// RuleTileSpec describes one tile of a rule group. Its position in the
// group is the slot id rules use to refer to it.
type RuleTileSpec struct {
	Name     string
	Collider Collider
	Rules    []Rule
}

// Builder assembles a Tileset in one pass. The first error sticks and is
// returned by Build.
type Builder struct {
	ts  *Tileset
	err error
}

// NewBuilder starts an empty tileset.
func NewBuilder(name string) *Builder {
	return &Builder{ts: &Tileset{name: name, ids: make(map[string]TileID)}}
}

// AddPatterns registers a sprite pattern group.
func (b *Builder) AddPatterns(g *sprite.PatternGroup) *Builder {
	if b.err == nil && g != nil {
		b.ts.patterns = append(b.ts.patterns, g)
	}
	return b
}

// AddSimpleGroup adds a group of fixed-output tiles.
func (b *Builder) AddSimpleGroup(name string, specs ...SimpleSpec) *Builder {
	if !b.startGroup(name) {
		return b
	}

	g := Group{Name: name, Kind: GroupSimple}
	for _, s := range specs {
		id, ok := b.add(name, s.Name, &SimpleTile{name: s.Name, collider: s.Collider, output: s.Output})
		if !ok {
			return b
		}
		g.Tiles = append(g.Tiles, id)
	}
	b.ts.groups = append(b.ts.groups, g)
	return b
}

// AddConnectedGroup adds a visible connected tile with the given rules and
// its invisible sibling. Rule masks are normalized.
func (b *Builder) AddConnectedGroup(name string, collider Collider, rules ...ConnectedRule) *Builder {
	if !b.startGroup(name) {
		return b
	}

	index := len(b.ts.groups)
	normalized := make([]ConnectedRule, len(rules))
	for i, r := range rules {
		normalized[i] = NewConnectedRule(r.Output, r.Mask)
	}

	visible, ok := b.add(name, VisibleName, &ConnectedTile{
		name:     VisibleName,
		collider: collider,
		group:    index,
		rules:    normalized,
	})
	if !ok {
		return b
	}
	invisible, ok := b.add(name, InvisibleName, &ConnectedTile{
		name:      InvisibleName,
		collider:  ColliderNone,
		group:     index,
		invisible: true,
	})
	if !ok {
		return b
	}

	g := Group{Name: name, Kind: GroupConnected, Tiles: make([]TileID, 2)}
	g.Tiles[visibleIndex] = visible
	g.Tiles[invisibleIndex] = invisible
	b.ts.groups = append(b.ts.groups, g)
	return b
}

// AddRuleGroup adds rule tiles. Tile i answers to slot id i.
func (b *Builder) AddRuleGroup(name string, specs ...RuleTileSpec) *Builder {
	if !b.startGroup(name) {
		return b
	}

	index := len(b.ts.groups)
	g := Group{Name: name, Kind: GroupRule}
	for i, s := range specs {
		id, ok := b.add(name, s.Name, &RuleTile{
			name:     s.Name,
			collider: s.Collider,
			group:    index,
			index:    i,
			rules:    append([]Rule(nil), s.Rules...),
		})
		if !ok {
			return b
		}
		g.Tiles = append(g.Tiles, id)
	}
	b.ts.groups = append(b.ts.groups, g)
	return b
}

// Build returns the finished tileset.
func (b *Builder) Build() (*Tileset, error) {
	if b.err != nil {
		return nil, b.err
	}
	ts := b.ts
	b.ts = nil
	b.err = errors.FailedPrecondition("builder already used")
	return ts, nil
}

func (b *Builder) startGroup(name string) bool {
	if b.err != nil {
		return false
	}
	if err := validName(name); err != nil {
		b.err = errors.Wrapf(err, "group %q", name)
		return false
	}
	for _, g := range b.ts.groups {
		if g.Name == name {
			b.err = errors.AlreadyExistsf("group %q already defined", name)
			return false
		}
	}
	return true
}

func (b *Builder) add(group, name string, t Tile) (TileID, bool) {
	if err := validName(name); err != nil {
		b.err = errors.Wrapf(err, "tile in group %q", group)
		return NoTile, false
	}
	key := group + "/" + name
	if _, dup := b.ts.ids[key]; dup {
		b.err = errors.AlreadyExistsf("tile %q already defined", key)
		return NoTile, false
	}

	id := TileID(len(b.ts.tiles))
	b.ts.tiles = append(b.ts.tiles, t)
	b.ts.keys = append(b.ts.keys, key)
	b.ts.ids[key] = id
	return id, true
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.InvalidArgument("name cannot be empty")
	}
	if strings.Contains(name, "/") {
		return errors.InvalidArgumentf("name %q cannot contain '/'", name)
	}
	return nil
}
