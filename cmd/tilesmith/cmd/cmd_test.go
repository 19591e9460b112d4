package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/f3rmion/tilesmith/internal/config"
	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/sprite"
	"github.com/f3rmion/tilesmith/internal/tilemap"
	"github.com/f3rmion/tilesmith/internal/tilemap/mock"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

func writeExamples(t *testing.T) (tileset, mapFile string) {
	t.Helper()
	dir := t.TempDir()
	tileset = filepath.Join(dir, "tileset.yaml")
	mapFile = filepath.Join(dir, "map.yaml")
	require.NoError(t, os.WriteFile(tileset, []byte(tilesetTemplate), 0644))
	require.NoError(t, os.WriteFile(mapFile, []byte(mapTemplate), 0644))
	return tileset, mapFile
}

func newSaltFlag(args ...string) *saltFlag {
	cmd := &cobra.Command{Use: "x"}
	f := addSaltFlag(cmd)
	_ = cmd.ParseFlags(args)
	return f
}

func TestExampleFilesResolve(t *testing.T) {
	tileset, mapFile := writeExamples(t)

	_, ts, warnings, err := loadTileset(tileset)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	_, ok := ts.Lookup("fence/visible")
	assert.True(t, ok)

	sc, err := fileScene(tileset, mapFile, newSaltFlag(), &config.Settings{})(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "meadow", sc.Name)
	assert.Equal(t, 1, sc.Salt)

	f, err := sc.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10, f.Width)
	require.Equal(t, 6, f.Height)

	testCases := []struct {
		name string
		x, y int
		want sprite.Sprite
	}{
		{name: "fence left end", x: 0, y: 1, want: "fence_left"},
		{name: "fence middle", x: 2, y: 1, want: "fence_middle"},
		{name: "fence right end", x: 4, y: 1, want: "fence_right"},
		{name: "cliff left", x: 2, y: 5, want: "cliff_left"},
		{name: "cliff middle", x: 3, y: 5, want: "cliff_middle"},
		{name: "cliff right", x: 4, y: 5, want: "cliff_right"},
		{name: "bush", x: 8, y: 0, want: "bush"},
		{name: "wall pattern", x: 0, y: 0, want: "brick_bl"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.At(tc.x, tc.y).Data.Sprite)
		})
	}
	assert.Equal(t, tiles.ColliderGrid, f.At(3, 5).Data.Collider)
	assert.True(t, f.At(7, 3).Animated)
}

func TestSaltFlagPick(t *testing.T) {
	assert.Equal(t, 5, newSaltFlag().pick(5, 9))
	assert.Equal(t, 9, newSaltFlag().pick(0, 9))
	assert.Equal(t, 0, newSaltFlag("--salt", "0").pick(5, 9))
	assert.Equal(t, 3, newSaltFlag("--salt=3").pick(5, 9))
}

func TestSaveMapFileRoundTrip(t *testing.T) {
	tileset, mapFile := writeExamples(t)
	load := fileScene(tileset, mapFile, newSaltFlag(), &config.Settings{})
	sc, err := load(context.Background())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, saveMapFile(out)(context.Background(), sc.Snapshot()))

	again, err := fileScene(tileset, out, newSaltFlag(), &config.Settings{})(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sc.Salt, again.Salt)
	assert.Equal(t, sc.Grid.Count(), again.Grid.Count())
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			assert.Equal(t, sc.Tileset.Key(sc.Grid.At(x, y)), again.Tileset.Key(again.Grid.At(x, y)), "%d,%d", x, y)
		}
	}
}

func TestSaveMapFileKeepsFileSalt(t *testing.T) {
	tileset, mapFile := writeExamples(t)
	sc, err := fileScene(tileset, mapFile, newSaltFlag("--salt=7"), &config.Settings{})(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, sc.Salt)

	require.NoError(t, saveMapFile(mapFile)(context.Background(), sc.Snapshot()))

	md, err := config.LoadMap(mapFile)
	require.NoError(t, err)
	assert.Equal(t, 1, md.Salt)
}

func TestSaveMapFileNewFileUsesSceneSalt(t *testing.T) {
	tileset, mapFile := writeExamples(t)
	sc, err := fileScene(tileset, mapFile, newSaltFlag("--salt=7"), &config.Settings{})(context.Background())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "new.yaml")
	require.NoError(t, saveMapFile(out)(context.Background(), sc.Snapshot()))

	md, err := config.LoadMap(out)
	require.NoError(t, err)
	assert.Equal(t, 7, md.Salt)
}

func TestSaveStoredKeepsStoredSalt(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)

	snap := &tilemap.Snapshot{Name: "yard", Salt: 7, Width: 1, Height: 1, Cells: []string{""}}
	store.EXPECT().Load(ctx, "yard").Return(&tilemap.Snapshot{Name: "yard", Salt: 4}, nil)
	store.EXPECT().Save(ctx, snap).Return(nil)

	require.NoError(t, saveStored(store)(ctx, snap))
	assert.Equal(t, 4, snap.Salt)
}

func TestSaveStoredNewMap(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)

	snap := &tilemap.Snapshot{Name: "yard", Salt: 7, Width: 1, Height: 1, Cells: []string{""}}
	store.EXPECT().Load(ctx, "yard").Return(nil, errors.NotFound("map not found"))
	store.EXPECT().Save(ctx, snap).Return(nil)

	require.NoError(t, saveStored(store)(ctx, snap))
	assert.Equal(t, 7, snap.Salt)
}
