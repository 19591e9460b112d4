// Package tiles resolves which sprite a placed tile shows, based on the
// identity of its 8 neighbours.
//
// A Tileset owns every tile in a flat arena. Tiles are referred to by TileID
// (their arena index) and know their group only by index, so groups and
// tiles never hold owning references to each other. Resolution is pure and
// may run concurrently as long as the Tilemap supports concurrent reads.
package tiles

import (
	"fmt"
	"strings"

	"github.com/f3rmion/tilesmith/internal/sprite"
)

// TileID identifies a tile within its Tileset.
type TileID int

// NoTile is the identity of an empty cell.
const NoTile TileID = -1

// Tilemap is the neighbour lookup supplied by the host grid.
type Tilemap interface {
	Tile(pos sprite.Position) TileID
}

// TilemapFunc adapts a function to Tilemap.
type TilemapFunc func(pos sprite.Position) TileID

// Tile implements Tilemap.
func (f TilemapFunc) Tile(pos sprite.Position) TileID { return f(pos) }

// Collider is the physics shape hint handed back to the host.
type Collider uint8

const (
	ColliderNone Collider = iota
	ColliderSprite
	ColliderGrid
)

var colliderNames = [...]string{"none", "sprite", "grid"}

func (c Collider) String() string {
	if int(c) < len(colliderNames) {
		return colliderNames[c]
	}
	return fmt.Sprintf("collider(%d)", c)
}

// ParseCollider parses "none", "sprite" or "grid". The empty string is none.
func ParseCollider(s string) (Collider, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return ColliderNone, nil
	}
	for i, n := range colliderNames {
		if n == name {
			return Collider(i), nil
		}
	}
	return ColliderNone, fmt.Errorf("unknown collider %q", s)
}

// Tile is the capability every autotile variant provides. Sprite selection
// is dispatched by the owning Tileset on the concrete variant.
type Tile interface {
	Name() string
	Collider() Collider
	DefaultSprite() sprite.Sprite
}

// TileData is what the host needs to draw and collide a cell.
type TileData struct {
	Sprite   sprite.Sprite
	Collider Collider
}

// GroupKind identifies the variant of a tile group.
type GroupKind uint8

const (
	GroupSimple GroupKind = iota
	GroupConnected
	GroupRule
)

func (k GroupKind) String() string {
	switch k {
	case GroupSimple:
		return "simple"
	case GroupConnected:
		return "connected"
	case GroupRule:
		return "rule"
	}
	return fmt.Sprintf("group(%d)", k)
}

// Group describes one group of the tileset.
type Group struct {
	Name  string
	Kind  GroupKind
	Tiles []TileID
}

// Match is the outcome of matching a tile against its neighbourhood.
type Match struct {
	Rule   int           // index of the winning rule, -1 when none matched or the tile has no rules
	Config Configuration // neighbourhood, connected tiles only
	Output *sprite.Output
}

// Tileset is an immutable collection of tile groups and sprite patterns.
type Tileset struct {
	name     string
	tiles    []Tile
	keys     []string
	ids      map[string]TileID
	groups   []Group
	patterns []*sprite.PatternGroup
}

// Name returns the tileset name.
func (ts *Tileset) Name() string { return ts.name }

// Len returns the number of tiles.
func (ts *Tileset) Len() int { return len(ts.tiles) }

// Tile returns the tile with the given id.
func (ts *Tileset) Tile(id TileID) (Tile, bool) {
	if id < 0 || int(id) >= len(ts.tiles) {
		return nil, false
	}
	return ts.tiles[id], true
}

// Key returns the "group/tile" key of id, or "" for unknown ids.
func (ts *Tileset) Key(id TileID) string {
	if id < 0 || int(id) >= len(ts.keys) {
		return ""
	}
	return ts.keys[id]
}

// Lookup finds a tile by its "group/tile" key.
func (ts *Tileset) Lookup(key string) (TileID, bool) {
	id, ok := ts.ids[key]
	return id, ok
}

// Keys returns all tile keys in id order.
func (ts *Tileset) Keys() []string {
	out := make([]string, len(ts.keys))
	copy(out, ts.keys)
	return out
}

// Groups returns the tile groups in declaration order.
func (ts *Tileset) Groups() []Group {
	out := make([]Group, len(ts.groups))
	for i, g := range ts.groups {
		g.Tiles = append([]TileID(nil), g.Tiles...)
		out[i] = g
	}
	return out
}

// PatternGroups returns the sprite pattern groups.
func (ts *Tileset) PatternGroups() []*sprite.PatternGroup {
	out := make([]*sprite.PatternGroup, len(ts.patterns))
	copy(out, ts.patterns)
	return out
}

// Match evaluates the tile placed at pos against its neighbours.
func (ts *Tileset) Match(id TileID, pos sprite.Position, tm Tilemap) Match {
	tile, ok := ts.Tile(id)
	if !ok {
		return Match{Rule: -1}
	}

	switch t := tile.(type) {
	case *SimpleTile:
		return Match{Rule: -1, Output: t.output}
	case *ConnectedTile:
		invisible := ts.groups[t.group].Tiles[invisibleIndex]
		return matchConnected(t.rules, id, invisible, pos, tm)
	case *RuleTile:
		return matchRules(t.rules, ts.groups[t.group].Tiles, pos, tm)
	}
	return Match{Rule: -1}
}

// Output returns the sprite output the tile at pos resolves to.
func (ts *Tileset) Output(id TileID, pos sprite.Position, tm Tilemap) *sprite.Output {
	return ts.Match(id, pos, tm).Output
}

// TileData resolves sprite and collider for the tile at pos. When nothing
// matches the sprite is None; the default sprite is a preview icon only.
func (ts *Tileset) TileData(id TileID, pos sprite.Position, tm Tilemap, salt int) TileData {
	tile, ok := ts.Tile(id)
	if !ok {
		return TileData{}
	}
	return TileData{
		Sprite:   ts.Output(id, pos, tm).Resolve(pos, salt),
		Collider: tile.Collider(),
	}
}

// Animation returns the animation of the tile at pos, if it has one.
func (ts *Tileset) Animation(id TileID, pos sprite.Position, tm Tilemap, salt int) (sprite.Animation, bool) {
	return ts.Output(id, pos, tm).Animation(pos, salt)
}
