package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/tilesmith/internal/errors"
	"github.com/f3rmion/tilesmith/internal/sprite"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

func singles(names ...string) []*sprite.Output {
	out := make([]*sprite.Output, len(names))
	for i, n := range names {
		out[i] = sprite.Single(sprite.Sprite(n))
	}
	return out
}

func paint(t *testing.T, tpl *RuleTemplate, rows [][]int) {
	t.Helper()
	for y, row := range rows {
		for x, v := range row {
			require.NoError(t, tpl.SetElement(x, y, v))
		}
	}
}

func TestRuleTemplateReindex(t *testing.T) {
	tpl := NewRuleTemplate("strip", 3, 1, 1)
	paint(t, tpl, [][]int{{tiles.SlotNone, 0, tiles.SlotAny}})

	assert.Equal(t, []int{-1, 0, -1}, tpl.Indices())
	assert.Equal(t, 1, tpl.RuleSetsCount())
	assert.Equal(t, []Point{{X: 1, Y: 0}}, tpl.Positions())
}

func TestRuleTemplateDefaults(t *testing.T) {
	tpl := NewRuleTemplate("d", 0, -2, 0)

	w, h := tpl.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
	assert.Equal(t, 1, tpl.Count())
	assert.True(t, tpl.Generate(0))
	assert.Equal(t, tiles.SlotNone, tpl.Element(0, 0))
	assert.Equal(t, 0, tpl.RuleSetsCount())
}

func TestRuleTemplateGenerateFlag(t *testing.T) {
	tpl := NewRuleTemplate("g", 3, 1, 2)
	paint(t, tpl, [][]int{{0, 1, 0}})
	assert.Equal(t, []int{0, 1, 2}, tpl.Indices())

	require.NoError(t, tpl.SetGenerate(0, false))
	assert.Equal(t, []int{-1, 0, -1}, tpl.Indices())
	assert.Equal(t, []Point{{X: 1, Y: 0}}, tpl.Positions())

	require.NoError(t, tpl.SetGenerate(0, true))
	assert.Equal(t, []int{0, 1, 2}, tpl.Indices())
	assert.Equal(t, 3, tpl.RuleSetsCount())
}

func TestRuleTemplateReindexIsIdempotent(t *testing.T) {
	tpl := NewRuleTemplate("i", 2, 2, 1)
	paint(t, tpl, [][]int{{0, tiles.SlotAny}, {0, 0}})

	before := tpl.Indices()
	tpl.reindex()
	tpl.reindex()
	assert.Equal(t, before, tpl.Indices())
}

func TestRuleTemplateResizeKeepsOverlap(t *testing.T) {
	tpl := NewRuleTemplate("r", 2, 2, 1)
	paint(t, tpl, [][]int{{0, 0}, {tiles.SlotAny, 0}})

	tpl.Resize(3, 1)
	assert.Equal(t, 0, tpl.Element(0, 0))
	assert.Equal(t, 0, tpl.Element(1, 0))
	assert.Equal(t, tiles.SlotNone, tpl.Element(2, 0))
	assert.Equal(t, []int{0, 1, -1}, tpl.Indices())
}

func TestRuleTemplateSetCountDropsRemovedTypes(t *testing.T) {
	tpl := NewRuleTemplate("c", 2, 1, 3)
	paint(t, tpl, [][]int{{2, 1}})
	require.NoError(t, tpl.SetGenerate(1, false))
	require.NoError(t, tpl.SetColor(1, "#ff0000"))

	tpl.SetCount(2)
	assert.Equal(t, tiles.SlotNone, tpl.Element(0, 0))
	assert.Equal(t, 1, tpl.Element(1, 0))
	assert.False(t, tpl.Generate(1))
	assert.Equal(t, "#ff0000", tpl.Color(1))
	assert.Equal(t, 0, tpl.RuleSetsCount())
}

func TestRuleTemplateRejectsBadInput(t *testing.T) {
	tpl := NewRuleTemplate("bad", 2, 2, 1)

	assert.True(t, errors.IsInvalidArgument(tpl.SetElement(2, 0, 0)))
	assert.True(t, errors.IsInvalidArgument(tpl.SetElement(0, 0, 1)))
	assert.True(t, errors.IsInvalidArgument(tpl.SetElement(0, 0, -3)))
	assert.True(t, errors.IsInvalidArgument(tpl.SetGenerate(4, true)))
	assert.True(t, errors.IsInvalidArgument(tpl.SetColor(-1, "#fff")))
}

func TestRuleSetsFromInteriorCells(t *testing.T) {
	tpl := NewRuleTemplate("cliff", 3, 3, 2)
	paint(t, tpl, [][]int{
		{tiles.SlotNone, 0, tiles.SlotAny},
		{1, 0, tiles.SlotNone},
		{tiles.SlotNone, tiles.SlotNone, 0},
	})
	require.Equal(t, []int{-1, 0, -1, 1, 2, -1, -1, -1, 3}, tpl.Indices())

	outputs := singles("o0", "o1", "o2", "o3")
	sets, err := tpl.RuleSets(outputs)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	require.Len(t, sets[0], 1)
	assert.Empty(t, sets[1])

	rule := sets[0][0]
	assert.Same(t, outputs[2], rule.Output)
	assert.Equal(t, [8]int{
		0,              // top
		tiles.SlotAny,  // top right
		tiles.SlotNone, // right
		0,              // bottom right
		tiles.SlotNone, // bottom
		tiles.SlotNone, // bottom left
		1,              // left
		tiles.SlotNone, // top left
	}, rule.Slots())
	assert.Equal(t, 1, rule.AnyCount())
}

func TestRuleSetsNeedsEnoughOutputs(t *testing.T) {
	tpl := NewRuleTemplate("short", 3, 3, 1)
	paint(t, tpl, [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}})

	_, err := tpl.RuleSets(singles("only", "two"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestRuleTiles(t *testing.T) {
	tpl := NewRuleTemplate("cliff", 3, 3, 2)
	paint(t, tpl, [][]int{
		{tiles.SlotNone, tiles.SlotNone, tiles.SlotNone},
		{tiles.SlotNone, 1, tiles.SlotNone},
		{tiles.SlotNone, tiles.SlotNone, tiles.SlotNone},
	})

	specs, err := RuleTiles(tpl, []TileSpec{{Name: "rock", Collider: tiles.ColliderGrid}}, singles("center"))
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, "rock", specs[0].Name)
	assert.Equal(t, tiles.ColliderGrid, specs[0].Collider)
	assert.Empty(t, specs[0].Rules)

	assert.Equal(t, "cliff_1", specs[1].Name)
	require.Len(t, specs[1].Rules, 1)

	ts, err := tiles.NewBuilder("t").AddRuleGroup("cliff", specs...).Build()
	require.NoError(t, err)
	id, ok := ts.Lookup("cliff/cliff_1")
	require.True(t, ok)

	lone := tiles.TilemapFunc(func(p sprite.Position) tiles.TileID {
		if p == (sprite.Position{}) {
			return id
		}
		return tiles.NoTile
	})
	assert.Equal(t, sprite.Sprite("center"), ts.TileData(id, sprite.Position{}, lone, 0).Sprite)
}

func TestConnectedTemplate(t *testing.T) {
	tpl := NewConnectedTemplate("blob", 2, 2)
	require.NoError(t, tpl.Set(1, 0, tiles.TopRight.Bit()|tiles.Top.Bit()))
	require.NoError(t, tpl.Set(0, 1, tiles.NewConfiguration(tiles.Left, tiles.Right)))

	assert.Equal(t, tiles.Top.Bit(), tpl.At(1, 0))
	assert.Equal(t, tiles.Configuration(0), tpl.At(5, 5))
	assert.True(t, errors.IsInvalidArgument(tpl.Set(2, 0, 0)))

	rules := tpl.Rules(singles("a", "b", "c"))
	require.Len(t, rules, 3)
	assert.Equal(t, tiles.Configuration(0), rules[0].Mask)
	assert.Equal(t, tiles.Top.Bit(), rules[1].Mask)
	assert.Equal(t, tiles.Left.Bit()|tiles.Right.Bit(), rules[2].Mask)

	assert.Len(t, tpl.Rules(singles("a", "b", "c", "d", "e")), 4)
}

func TestConnectedTemplateResizeClears(t *testing.T) {
	tpl := NewConnectedTemplate("blob", 2, 1)
	require.NoError(t, tpl.Set(0, 0, tiles.Top.Bit()))

	tpl.Resize(2, 1)
	assert.Equal(t, tiles.Top.Bit(), tpl.At(0, 0))

	tpl.Resize(3, 1)
	assert.Equal(t, []tiles.Configuration{0, 0, 0}, tpl.Masks())
}

func TestSimpleTiles(t *testing.T) {
	specs := SimpleTiles([]TileSpec{{Name: "a"}, {Name: "b", Collider: tiles.ColliderSprite}}, singles("x", "y", "z"))
	require.Len(t, specs, 2)
	assert.Equal(t, "b", specs[1].Name)
	assert.Equal(t, tiles.ColliderSprite, specs[1].Collider)
}

func TestPatterns(t *testing.T) {
	g := Patterns("brick", 2, 1, 3, singles("a0", "a1", "b0", "b1", "c0"))

	patterns := g.Patterns()
	require.Len(t, patterns, 3)
	assert.Equal(t, "brick_1", patterns[1].Name())
	assert.Equal(t, sprite.Sprite("b1"), patterns[1].At(1, 0).Resolve(sprite.Position{}, 0))
	assert.Equal(t, sprite.Sprite("c0"), patterns[2].At(0, 0).Resolve(sprite.Position{}, 0))
	assert.Nil(t, patterns[2].At(1, 0))
}

func TestRuleCellsSkipBorderAndDisabledTypes(t *testing.T) {
	tpl := NewRuleTemplate("edge", 4, 3, 2)
	paint(t, tpl, [][]int{
		{0, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 0},
	})

	cells := tpl.RuleCells()
	require.Len(t, cells, 2)
	assert.Equal(t, Point{X: 1, Y: 1}, cells[0].At)
	assert.Equal(t, 1, cells[0].Type)
	assert.Equal(t, Point{X: 2, Y: 1}, cells[1].At)
	assert.Equal(t, 1, cells[1].Slots[tiles.Left])

	require.NoError(t, tpl.SetGenerate(0, false))
	cells = tpl.RuleCells()
	require.Len(t, cells, 1)
	assert.Equal(t, 0, cells[0].Index)
}
