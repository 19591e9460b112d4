// Package tilemap stores tile placements: an in-memory Grid the resolver
// reads neighbours from, and Snapshot persistence through a Store.
package tilemap

import (
	"github.com/f3rmion/tilesmith/internal/sprite"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

// Grid is a bounded single-layer tilemap with (0, 0) at the bottom-left.
// Everything outside the bounds, and every layer other than z = 0, is
// empty.
type Grid struct {
	width  int
	height int
	cells  []tiles.TileID
}

// NewGrid returns an empty width x height grid.
func NewGrid(width, height int) *Grid {
	width = max(width, 0)
	height = max(height, 0)
	g := &Grid{width: width, height: height, cells: make([]tiles.TileID, width*height)}
	for i := range g.cells {
		g.cells[i] = tiles.NoTile
	}
	return g
}

// Size returns the grid size.
func (g *Grid) Size() (width, height int) { return g.width, g.height }

// Tile implements tiles.Tilemap.
func (g *Grid) Tile(pos sprite.Position) tiles.TileID {
	if pos.Z != 0 {
		return tiles.NoTile
	}
	return g.At(pos.X, pos.Y)
}

// At returns the tile at (x, y).
func (g *Grid) At(x, y int) tiles.TileID {
	if !g.inside(x, y) {
		return tiles.NoTile
	}
	return g.cells[y*g.width+x]
}

// Set places id at (x, y) and returns the cells whose sprite may change.
// It reports false when (x, y) is outside the grid.
func (g *Grid) Set(x, y int, id tiles.TileID) ([9]sprite.Position, bool) {
	if !g.inside(x, y) {
		return [9]sprite.Position{}, false
	}
	if id < 0 {
		id = tiles.NoTile
	}
	g.cells[y*g.width+x] = id
	return tiles.RefreshArea(sprite.Position{X: x, Y: y}), true
}

// Count returns the number of occupied cells.
func (g *Grid) Count() int {
	n := 0
	for _, id := range g.cells {
		if id != tiles.NoTile {
			n++
		}
	}
	return n
}

func (g *Grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}
