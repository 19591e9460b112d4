package tilemap

import (
	"time"

	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

// Snapshot is the stored form of a tilemap. Cells hold tile keys
// ("group/tile", "" for empty) row by row, bottom row first, so a snapshot
// stays valid when the tileset is rebuilt and ids shift.
type Snapshot struct {
	Name      string    `json:"name"`
	Salt      int       `json:"salt"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Cells     []string  `json:"cells"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSnapshot captures g using the keys of ts.
func NewSnapshot(name string, salt int, g *Grid, ts *tiles.Tileset) *Snapshot {
	w, h := g.Size()
	s := &Snapshot{Name: name, Salt: salt, Width: w, Height: h, Cells: make([]string, w*h)}
	for i, id := range g.cells {
		s.Cells[i] = ts.Key(id)
	}
	return s
}

// Validate checks the snapshot shape.
func (s *Snapshot) Validate() error {
	if s == nil {
		return errors.InvalidArgument("snapshot cannot be nil")
	}
	if s.Name == "" {
		return errors.InvalidArgument("snapshot name cannot be empty")
	}
	if s.Width < 0 || s.Height < 0 {
		return errors.InvalidArgumentf("snapshot %q has negative size %dx%d", s.Name, s.Width, s.Height)
	}
	if len(s.Cells) != s.Width*s.Height {
		return errors.InvalidArgumentf("snapshot %q has %d cells, want %d", s.Name, len(s.Cells), s.Width*s.Height)
	}
	return nil
}

// Key returns the tile key at (x, y), "" when empty or out of range.
func (s *Snapshot) Key(x, y int) string {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return ""
	}
	return s.Cells[y*s.Width+x]
}

// Count returns the number of occupied cells.
func (s *Snapshot) Count() int {
	n := 0
	for _, k := range s.Cells {
		if k != "" {
			n++
		}
	}
	return n
}

// Grid resolves the stored keys against ts. Unknown keys fail with a
// NotFound error.
func (s *Snapshot) Grid(ts *tiles.Tileset) (*Grid, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	g := NewGrid(s.Width, s.Height)
	for i, key := range s.Cells {
		if key == "" {
			continue
		}
		id, ok := ts.Lookup(key)
		if !ok {
			return nil, errors.NotFoundf("tile %q is not in tileset %q", key, ts.Name()).
				WithMeta("x", i%s.Width).
				WithMeta("y", i/s.Width)
		}
		g.cells[i] = id
	}
	return g, nil
}
