package tilemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/sprite"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

func testTileset(t *testing.T) *tiles.Tileset {
	t.Helper()
	ts, err := tiles.NewBuilder("test").
		AddSimpleGroup("props",
			tiles.SimpleSpec{Name: "bush", Output: sprite.Single("bush")},
			tiles.SimpleSpec{Name: "rock", Collider: tiles.ColliderGrid, Output: sprite.Single("rock")},
		).
		AddConnectedGroup("grass", tiles.ColliderGrid).
		Build()
	require.NoError(t, err)
	return ts
}

func mustLookup(t *testing.T, ts *tiles.Tileset, key string) tiles.TileID {
	t.Helper()
	id, ok := ts.Lookup(key)
	require.True(t, ok, key)
	return id
}

func TestGridBounds(t *testing.T) {
	g := NewGrid(3, 2)

	area, ok := g.Set(2, 1, 7)
	require.True(t, ok)
	assert.Contains(t, area, sprite.Position{X: 3, Y: 2})
	assert.Equal(t, tiles.TileID(7), g.Tile(sprite.Position{X: 2, Y: 1}))

	assert.Equal(t, tiles.NoTile, g.Tile(sprite.Position{X: 2, Y: 1, Z: 1}))
	assert.Equal(t, tiles.NoTile, g.At(-1, 0))
	assert.Equal(t, tiles.NoTile, g.At(3, 0))

	_, ok = g.Set(3, 0, 1)
	assert.False(t, ok)

	g.Set(2, 1, -5)
	assert.Equal(t, tiles.NoTile, g.At(2, 1))
	assert.Equal(t, 0, g.Count())
}

func TestSnapshotRoundTrip(t *testing.T) {
	ts := testTileset(t)
	g := NewGrid(2, 2)
	g.Set(0, 0, mustLookup(t, ts, "props/rock"))
	g.Set(1, 1, mustLookup(t, ts, "grass/invisible"))

	snap := NewSnapshot("yard", 3, g, ts)
	assert.Equal(t, []string{"props/rock", "", "", "grass/invisible"}, snap.Cells)
	assert.Equal(t, 2, snap.Count())
	assert.Equal(t, "grass/invisible", snap.Key(1, 1))
	assert.Equal(t, "", snap.Key(2, 2))

	back, err := snap.Grid(ts)
	require.NoError(t, err)
	assert.Equal(t, g.cells, back.cells)
}

func TestSnapshotGridUnknownKey(t *testing.T) {
	ts := testTileset(t)
	snap := &Snapshot{Name: "x", Width: 2, Height: 1, Cells: []string{"", "water/visible"}}

	_, err := snap.Grid(ts)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 1, errors.GetMeta(err)["x"])
}

func TestSnapshotValidate(t *testing.T) {
	testCases := []struct {
		name string
		snap *Snapshot
	}{
		{name: "nil", snap: nil},
		{name: "no name", snap: &Snapshot{}},
		{name: "negative size", snap: &Snapshot{Name: "a", Width: -1}},
		{name: "wrong cell count", snap: &Snapshot{Name: "a", Width: 2, Height: 2, Cells: []string{""}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, errors.IsInvalidArgument(tc.snap.Validate()))
		})
	}
}
