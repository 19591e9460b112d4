// Package scene binds a tileset to a placed grid and resolves what every
// cell shows.
package scene

import (
	"context"
	"log/slog"
	"sync"

	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/sprite"
	"github.com/f3rmion/tilesmith/internal/tilemap"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

// Scene is a named grid resolved against a tileset with a salt.
type Scene struct {
	Name    string
	Tileset *tiles.Tileset
	Grid    *tilemap.Grid
	Salt    int
}

// Cell is the resolved state of one grid cell.
type Cell struct {
	X, Y int
	ID   tiles.TileID
	Key  string
	// Rule is the index of the matched rule, -1 for simple tiles or when
	// nothing matched.
	Rule      int
	Data      tiles.TileData
	Animation sprite.Animation
	Animated  bool
}

// Frame holds every cell, row by row with the bottom row first.
type Frame struct {
	Width, Height int
	Cells         []Cell
}

// At returns the cell at (x, y). Callers stay inside the frame.
func (f *Frame) At(x, y int) Cell {
	return f.Cells[y*f.Width+x]
}

// New binds a tileset and grid.
func New(name string, ts *tiles.Tileset, g *tilemap.Grid, salt int) *Scene {
	return &Scene{Name: name, Tileset: ts, Grid: g, Salt: salt}
}

// Load reads the named snapshot from store and resolves its keys against ts.
func Load(ctx context.Context, store tilemap.Store, ts *tiles.Tileset, name string) (*Scene, error) {
	snap, err := store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	g, err := snap.Grid(ts)
	if err != nil {
		return nil, errors.Wrapf(err, "map %s", name)
	}
	return New(snap.Name, ts, g, snap.Salt), nil
}

// Snapshot copies the grid into its persisted form.
func (s *Scene) Snapshot() *tilemap.Snapshot {
	return tilemap.NewSnapshot(s.Name, s.Salt, s.Grid, s.Tileset)
}

// Save writes the scene to store.
func (s *Scene) Save(ctx context.Context, store tilemap.Store) error {
	return store.Save(ctx, s.Snapshot())
}

// Cell resolves (x, y).
func (s *Scene) Cell(x, y int) Cell {
	pos := sprite.Position{X: x, Y: y}
	id := s.Grid.At(x, y)
	c := Cell{X: x, Y: y, ID: id, Key: s.Tileset.Key(id), Rule: -1}
	tile, ok := s.Tileset.Tile(id)
	if !ok {
		return c
	}

	m := s.Tileset.Match(id, pos, s.Grid)
	c.Rule = m.Rule
	c.Data = tiles.TileData{
		Sprite:   m.Output.Resolve(pos, s.Salt),
		Collider: tile.Collider(),
	}
	c.Animation, c.Animated = m.Output.Animation(pos, s.Salt)
	return c
}

// Resolve resolves every cell. Rows are resolved concurrently; the grid
// must not change until Resolve returns.
func (s *Scene) Resolve(ctx context.Context) (*Frame, error) {
	w, h := s.Grid.Size()
	f := &Frame{Width: w, Height: h, Cells: make([]Cell, w*h)}

	var wg sync.WaitGroup
	for y := 0; y < h; y++ {
		wg.Add(1)
		go func(y int) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			for x := 0; x < w; x++ {
				f.Cells[y*w+x] = s.Cell(x, y)
			}
		}(y)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slog.Debug("scene resolved", "name", s.Name, "width", w, "height", h)
	return f, nil
}

// Set places a tile and re-resolves the affected cells into f. It returns
// the cells that were refreshed.
func (s *Scene) Set(f *Frame, x, y int, id tiles.TileID) []Cell {
	area, ok := s.Grid.Set(x, y, id)
	if !ok {
		return nil
	}

	var refreshed []Cell
	for _, p := range area {
		if p.X < 0 || p.Y < 0 || p.X >= f.Width || p.Y >= f.Height {
			continue
		}
		c := s.Cell(p.X, p.Y)
		f.Cells[p.Y*f.Width+p.X] = c
		refreshed = append(refreshed, c)
	}
	return refreshed
}

// Counts tallies placed tiles by key.
func (f *Frame) Counts() map[string]int {
	counts := make(map[string]int)
	for _, c := range f.Cells {
		if c.Key != "" {
			counts[c.Key]++
		}
	}
	return counts
}
