package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/tilemap"
)

func TestMapSnapshot(t *testing.T) {
	m := &MapDoc{
		Name:   "m",
		Salt:   2,
		Legend: map[string]string{"#": "grass/visible", "~": "water/still"},
		Rows:   []string{"#.", "#~~"},
	}

	s, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 3, s.Width)
	assert.Equal(t, 2, s.Height)
	assert.Equal(t, 2, s.Salt)
	assert.Equal(t, []string{
		"grass/visible", "water/still", "water/still", // y = 0
		"grass/visible", "", "", // y = 1
	}, s.Cells)
}

func TestMapSnapshotErrors(t *testing.T) {
	_, err := (&MapDoc{Rows: []string{"ab"}, Legend: map[string]string{"a": "x/y"}}).Snapshot()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Equal(t, 1, errors.GetMeta(err)["x"])

	_, err = (&MapDoc{Legend: map[string]string{"ab": "x/y"}}).Snapshot()
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestMapLegendOverridesDot(t *testing.T) {
	s, err := (&MapDoc{Rows: []string{"."}, Legend: map[string]string{".": "sand/visible"}}).Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []string{"sand/visible"}, s.Cells)
}

func TestMapDocFromSnapshot(t *testing.T) {
	s := &tilemap.Snapshot{
		Name: "m", Salt: 1, Width: 2, Height: 2,
		Cells: []string{"b/t", "", "a/t", "b/t"},
	}

	doc, err := MapDocFromSnapshot(s)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"#": "a/t", "a": "b/t"}, doc.Legend)
	assert.Equal(t, []string{"#a", "a."}, doc.Rows)

	back, err := doc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, s.Cells, back.Cells)
	assert.Equal(t, s.Salt, back.Salt)
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()

	s, err := LoadSettings(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, s.Store)
	assert.Equal(t, 6, s.CellWidth)
	assert.Contains(t, s.SQLitePath, dir)

	v := viper.New()
	v.Set("store", "redis")
	v.Set("fps", 12)
	s, err = LoadSettings(v, dir)
	require.NoError(t, err)
	assert.Equal(t, StoreRedis, s.Store)
	assert.Equal(t, 12, s.FPS)

	v = viper.New()
	v.Set("store", "postgres")
	_, err = LoadSettings(v, dir)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestLoadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, saveYAML(dir+"/settings.yaml", "settings", map[string]any{
		"store":      "redis",
		"redis_addr": "cache:6379",
		"salt":       9,
	}))

	s, err := LoadSettings(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", s.RedisAddr)
	assert.Equal(t, 9, s.Salt)
	assert.Equal(t, 8, s.FPS)
}
