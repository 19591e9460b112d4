package tiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/tilesmith/internal/sprite"
)

func TestNormalizeIsIdempotent(t *testing.T) {
	for i := 0; i < 256; i++ {
		c := Configuration(i)
		once := c.Normalize()
		require.Equal(t, once, once.Normalize(), "configuration %08b", i)
	}
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   Configuration
		want Configuration
	}{
		{name: "lone diagonal clears", in: TopRight.Bit(), want: 0},
		{name: "diagonal needs both edges", in: Top.Bit() | TopRight.Bit(), want: Top.Bit()},
		{name: "supported diagonal stays", in: Top.Bit() | Right.Bit() | TopRight.Bit(), want: Top.Bit() | Right.Bit() | TopRight.Bit()},
		{name: "bottom left needs bottom", in: Left.Bit() | BottomLeft.Bit(), want: Left.Bit()},
		{name: "full stays full", in: 0xFF, want: 0xFF},
		{name: "edges only", in: Top.Bit() | Bottom.Bit(), want: Top.Bit() | Bottom.Bit()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestNewConfigurationNormalizes(t *testing.T) {
	assert.Equal(t, Configuration(0), NewConfiguration(TopRight))
	assert.Equal(t, Top.Bit()|Right.Bit()|TopRight.Bit(), NewConfiguration(Top, Right, TopRight))
}

func TestDirectionOffsets(t *testing.T) {
	want := map[Direction][2]int{
		Top: {0, 1}, TopRight: {1, 1}, Right: {1, 0}, BottomRight: {1, -1},
		Bottom: {0, -1}, BottomLeft: {-1, -1}, Left: {-1, 0}, TopLeft: {-1, 1},
	}
	for d, off := range want {
		dx, dy := d.Offset()
		assert.Equal(t, off, [2]int{dx, dy}, d.String())
	}
}

func TestConfigurationBits(t *testing.T) {
	assert.Equal(t, Configuration(1), Top.Bit())
	assert.Equal(t, Configuration(1<<3), BottomRight.Bit())
	assert.Equal(t, Configuration(1<<7), TopLeft.Bit())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("Top-Right")
	require.NoError(t, err)
	assert.Equal(t, TopRight, d)

	_, err = ParseDirection("up")
	assert.Error(t, err)
}

func TestConfigurationString(t *testing.T) {
	assert.Equal(t, "none", Configuration(0).String())
	assert.Equal(t, "top|right|top_left", (Top.Bit() | Right.Bit() | TopLeft.Bit()).String())
}

func TestRefreshArea(t *testing.T) {
	area := RefreshArea(sprite.Position{X: 5, Y: 5, Z: 2})

	seen := map[sprite.Position]bool{}
	for _, p := range area {
		assert.Equal(t, 2, p.Z)
		assert.LessOrEqual(t, abs(p.X-5), 1)
		assert.LessOrEqual(t, abs(p.Y-5), 1)
		seen[p] = true
	}
	assert.Len(t, seen, 9)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
