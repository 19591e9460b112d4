package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/tilesmith/internal/scene"
	"github.com/f3rmion/tilesmith/internal/sprite"
	"github.com/f3rmion/tilesmith/internal/tilemap"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

func testScene(t *testing.T, w, h int) *scene.Scene {
	t.Helper()
	ts, err := tiles.NewBuilder("meadow").
		AddSimpleGroup("props", tiles.SimpleSpec{Name: "rock", Collider: tiles.ColliderGrid, Output: sprite.Single("rock")}).
		AddConnectedGroup("water", tiles.ColliderNone,
			tiles.NewConnectedRule(sprite.Single("pond"), 0),
			tiles.NewConnectedRule(sprite.Animated([]sprite.Sprite{"w0", "w1"}, 2, 2, 0), tiles.Left.Bit()|tiles.Right.Bit()),
		).
		Build()
	require.NoError(t, err)
	return scene.New("lake", ts, tilemap.NewGrid(w, h), 0)
}

func newModel(t *testing.T, sc *scene.Scene, opts Options) Model {
	t.Helper()
	m, err := New(context.Background(), sc, opts)
	require.NoError(t, err)
	return m
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (m *Model) selectBrush(t *testing.T, k string) {
	t.Helper()
	for i, p := range m.palette {
		if p == k {
			m.brush = i
			return
		}
	}
	t.Fatalf("brush %s not in palette", k)
}

func TestViewBeforeAndAfterResize(t *testing.T) {
	m := newModel(t, testScene(t, 3, 2), Options{Copy: func(string) error { return nil }})
	assert.Equal(t, "Loading...", m.View())

	m, _ = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	assert.Contains(t, view, "meadow")
	assert.Contains(t, view, "lake 3x2")
}

func TestCursorIsClamped(t *testing.T) {
	m := newModel(t, testScene(t, 3, 2), Options{})
	m, _ = send(m, runes("h"), tea.KeyMsg{Type: tea.KeyDown})

	x, y := m.Cursor()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	m, _ = send(m, runes("k"), runes("k"), runes("l"), runes("l"), runes("l"))
	x, y = m.Cursor()
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, y)
}

func TestPaintAndErase(t *testing.T) {
	m := newModel(t, testScene(t, 3, 1), Options{})
	m.selectBrush(t, "water/visible")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("l"), tea.KeyMsg{Type: tea.KeyEnter}, runes("l"), tea.KeyMsg{Type: tea.KeyEnter})
	middle := m.Frame().At(1, 0)
	assert.Equal(t, "water/visible", middle.Key)
	assert.True(t, middle.Animated)

	m, _ = send(m, runes("h"), runes("x"))
	assert.Equal(t, "", m.Frame().At(1, 0).Key)
	assert.Equal(t, sprite.Sprite("pond"), m.Frame().At(0, 0).Data.Sprite)
}

func TestBrushWraps(t *testing.T) {
	m := newModel(t, testScene(t, 1, 1), Options{})
	require.Equal(t, "props/rock", m.Brush())

	m, _ = send(m, runes("["))
	assert.Equal(t, "water/invisible", m.Brush())

	m, _ = send(m, runes("]"))
	assert.Equal(t, "props/rock", m.Brush())
}

func TestPauseStopsClock(t *testing.T) {
	m := newModel(t, testScene(t, 1, 1), Options{FPS: 4})

	m, cmd := send(m, tickMsg{})
	assert.NotNil(t, cmd)
	assert.InDelta(t, 0.25, m.elapsed, 1e-9)

	m, _ = send(m, runes("p"), tickMsg{}, tickMsg{})
	assert.InDelta(t, 0.25, m.elapsed, 1e-9)
}

func TestCopyCell(t *testing.T) {
	var copied string
	m := newModel(t, testScene(t, 2, 1), Options{Copy: func(s string) error {
		copied = s
		return nil
	}})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("y"))
	assert.Equal(t, "(0,0) props/rock rock collider=grid rule=-1", copied)
	assert.Equal(t, "copied", m.status)

	m.opts.Copy = func(string) error { return errors.New("no clipboard") }
	m, _ = send(m, runes("y"))
	assert.EqualError(t, m.err, "no clipboard")
}

func TestReload(t *testing.T) {
	next := testScene(t, 5, 5)
	m := newModel(t, testScene(t, 2, 2), Options{
		Reload: func(context.Context) (*scene.Scene, error) { return next, nil },
	})
	m.selectBrush(t, "water/visible")
	m, _ = send(m, runes("k"), runes("l"))

	_, cmd := send(m, runes("r"))
	require.NotNil(t, cmd)
	m, _ = send(m, cmd())

	assert.Equal(t, 5, m.Frame().Width)
	assert.Equal(t, "reloaded", m.status)
	assert.Equal(t, "water/visible", m.Brush())
	x, y := m.Cursor()
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)
}

func TestReloadFailureKeepsScene(t *testing.T) {
	m := newModel(t, testScene(t, 2, 2), Options{
		Reload: func(context.Context) (*scene.Scene, error) { return nil, errors.New("bad yaml") },
	})
	before := m.Frame()

	_, cmd := send(m, runes("r"))
	m, _ = send(m, cmd())
	assert.Same(t, before, m.Frame())
	assert.EqualError(t, m.err, "bad yaml")
}

func TestReloadDisabledWithoutSource(t *testing.T) {
	m := newModel(t, testScene(t, 2, 2), Options{})
	_, cmd := send(m, runes("r"))
	assert.Nil(t, cmd)
}

func TestSave(t *testing.T) {
	var saved *tilemap.Snapshot
	sc := testScene(t, 2, 2)
	m := newModel(t, sc, Options{
		Save: func(_ context.Context, snap *tilemap.Snapshot) error {
			saved = snap
			return nil
		},
	})
	m.selectBrush(t, "props/rock")

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	// painting after the save key must not leak into the pending save
	m, _ = send(m, runes("l"), tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(m, cmd())

	require.NotNil(t, saved)
	assert.Equal(t, "lake", saved.Name)
	assert.Equal(t, "props/rock", saved.Key(0, 0))
	assert.Equal(t, "", saved.Key(1, 0))
	assert.Equal(t, "props/rock", sc.Tileset.Key(sc.Grid.At(1, 0)))
	assert.Equal(t, "saved lake", m.status)
}

func TestScrollFollowsCursor(t *testing.T) {
	m := newModel(t, testScene(t, 40, 40), Options{CellWidth: 4})
	m, _ = send(m, tea.WindowSizeMsg{Width: 70, Height: 20})

	cols, rows := m.viewSize()
	require.Equal(t, 8, cols)
	require.Equal(t, 12, rows)

	for range 10 {
		m, _ = send(m, runes("l"))
	}
	assert.Equal(t, 3, m.ox)
	assert.Equal(t, 0, m.oy)

	for range 15 {
		m, _ = send(m, runes("k"))
	}
	assert.Equal(t, 4, m.oy)
}

func TestWindow(t *testing.T) {
	sc := testScene(t, 4, 3)
	f, err := sc.Resolve(context.Background())
	require.NoError(t, err)

	sub := window(f, 2, 1, 5, 5)
	assert.Equal(t, 2, sub.Width)
	assert.Equal(t, 2, sub.Height)
	assert.Equal(t, 2, sub.At(0, 0).X)
	assert.Equal(t, 2, sub.At(1, 1).Y)
}

func TestMinimapToggle(t *testing.T) {
	m := newModel(t, testScene(t, 2, 2), Options{})
	m, _ = send(m, tea.WindowSizeMsg{Width: 80, Height: 24}, runes("m"))
	assert.True(t, m.minimap)
	assert.NotContains(t, m.View(), "·")
}
