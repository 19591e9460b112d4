package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/tilesmith/internal/clipboard"
	"github.com/f3rmion/tilesmith/internal/render"
	"github.com/f3rmion/tilesmith/internal/scene"
	"github.com/f3rmion/tilesmith/internal/tilemap"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

const sidebarWidth = 30

// Options configures the viewer.
type Options struct {
	// CellWidth is the number of terminal columns per map cell.
	CellWidth int
	// FPS is the animation tick rate.
	FPS int
	// Reload rebuilds the scene from its sources. Nil disables reloading.
	Reload func(ctx context.Context) (*scene.Scene, error)
	// Save persists a snapshot of the scene. Nil disables saving.
	Save func(ctx context.Context, snap *tilemap.Snapshot) error
	// Copy puts text on a clipboard. Defaults to the system clipboard.
	Copy func(string) error
	// Watcher triggers a reload when the source files change.
	Watcher *Watcher
}

// Messages
type tickMsg time.Time

type clearStatusMsg struct{}

type reloadedMsg struct {
	scene *scene.Scene
	frame *scene.Frame
	err   error
}

type savedMsg struct {
	err error
}

// Model is the Bubble Tea model of the viewer.
type Model struct {
	scene *scene.Scene
	frame *scene.Frame
	opts  Options

	keys keyMap
	help help.Model

	// Terminal dimensions
	width  int
	height int
	ready  bool

	// Cursor and scroll offset, in map coordinates (y up)
	cx, cy int
	ox, oy int

	elapsed float64
	paused  bool
	minimap bool

	palette []string
	brush   int

	status string
	err    error
}

// New resolves sc and returns a viewer for it.
func New(ctx context.Context, sc *scene.Scene, opts Options) (Model, error) {
	frame, err := sc.Resolve(ctx)
	if err != nil {
		return Model{}, err
	}

	opts.CellWidth = max(opts.CellWidth, 1)
	opts.FPS = max(opts.FPS, 1)
	if opts.Copy == nil {
		opts.Copy = clipboard.Write
	}

	keys := defaultKeyMap()
	keys.Reload.SetEnabled(opts.Reload != nil)
	keys.Save.SetEnabled(opts.Save != nil)

	return Model{
		scene:   sc,
		frame:   frame,
		opts:    opts,
		keys:    keys,
		help:    help.New(),
		palette: sc.Tileset.Keys(),
	}, nil
}

// Init starts the animation clock and the file watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick()}
	if m.opts.Watcher != nil {
		cmds = append(cmds, m.opts.Watcher.Next())
	}
	return tea.Batch(cmds...)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = max(m.width-sidebarWidth-8, 0)
		m.ready = true
		m.scrollToCursor()
		return m, nil

	case tickMsg:
		if !m.paused {
			m.elapsed += 1 / float64(m.opts.FPS)
		}
		return m, m.tick()

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case FileChangedMsg:
		m.status = "changed: " + msg.Path
		return m, tea.Batch(m.opts.Watcher.Next(), m.reload())

	case WatchErrorMsg:
		m.err = msg.Err
		return m, m.opts.Watcher.Next()

	case reloadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.scene = msg.scene
		m.frame = msg.frame
		m.err = nil
		m.setPalette(msg.scene.Tileset.Keys())
		m.clampCursor()
		m.scrollToCursor()
		m.status = "reloaded"
		return m, clearStatusAfter(2 * time.Second)

	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = "saved " + m.scene.Name
		return m, clearStatusAfter(2 * time.Second)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.PrevBrush):
		if n := len(m.palette); n > 0 {
			m.brush = (m.brush + n - 1) % n
		}
	case key.Matches(msg, m.keys.NextBrush):
		if n := len(m.palette); n > 0 {
			m.brush = (m.brush + 1) % n
		}
	case key.Matches(msg, m.keys.Paint):
		if id, ok := m.scene.Tileset.Lookup(m.Brush()); ok {
			m.scene.Set(m.frame, m.cx, m.cy, id)
		}
	case key.Matches(msg, m.keys.Erase):
		m.scene.Set(m.frame, m.cx, m.cy, tiles.NoTile)
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.Minimap):
		m.minimap = !m.minimap
	case key.Matches(msg, m.keys.Copy):
		if err := m.opts.Copy(m.describe(m.cursorCell())); err != nil {
			m.err = err
			return m, nil
		}
		m.status = "copied"
		return m, clearStatusAfter(2 * time.Second)
	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	}
	return m, nil
}

func (m Model) reload() tea.Cmd {
	if m.opts.Reload == nil {
		return nil
	}
	reload := m.opts.Reload
	return func() tea.Msg {
		ctx := context.Background()
		sc, err := reload(ctx)
		if err != nil {
			return reloadedMsg{err: err}
		}
		frame, err := sc.Resolve(ctx)
		return reloadedMsg{scene: sc, frame: frame, err: err}
	}
}

func (m Model) save() tea.Cmd {
	if m.opts.Save == nil {
		return nil
	}
	// snapshot here, not in the command
	save, snap := m.opts.Save, m.scene.Snapshot()
	return func() tea.Msg {
		return savedMsg{err: save(context.Background(), snap)}
	}
}

// setPalette replaces the brush palette, keeping the current brush when the
// new tileset still has it.
func (m *Model) setPalette(keys []string) {
	current := m.Brush()
	m.palette = keys
	m.brush = 0
	for i, k := range keys {
		if k == current {
			m.brush = i
			break
		}
	}
}

// Brush returns the key of the tile painted by the brush.
func (m Model) Brush() string {
	if m.brush < 0 || m.brush >= len(m.palette) {
		return ""
	}
	return m.palette[m.brush]
}

// Cursor returns the cursor position in map coordinates.
func (m Model) Cursor() (x, y int) { return m.cx, m.cy }

// Frame returns the resolved frame being shown.
func (m Model) Frame() *scene.Frame { return m.frame }

func (m *Model) moveCursor(dx, dy int) {
	m.cx += dx
	m.cy += dy
	m.clampCursor()
	m.scrollToCursor()
}

func (m *Model) clampCursor() {
	m.cx = min(max(m.cx, 0), max(m.frame.Width-1, 0))
	m.cy = min(max(m.cy, 0), max(m.frame.Height-1, 0))
}

// viewSize is the number of map columns and rows that fit the content area.
func (m Model) viewSize() (cols, rows int) {
	if !m.ready {
		return m.frame.Width, m.frame.Height
	}
	cols = max((m.width-sidebarWidth-8)/m.opts.CellWidth, 1)
	rows = max(m.height-8, 1)
	return cols, rows
}

func (m *Model) scrollToCursor() {
	cols, rows := m.viewSize()
	if m.cx < m.ox {
		m.ox = m.cx
	}
	if m.cx >= m.ox+cols {
		m.ox = m.cx - cols + 1
	}
	if m.cy < m.oy {
		m.oy = m.cy
	}
	if m.cy >= m.oy+rows {
		m.oy = m.cy - rows + 1
	}
	m.ox = min(max(m.ox, 0), max(m.frame.Width-cols, 0))
	m.oy = min(max(m.oy, 0), max(m.frame.Height-rows, 0))
}

func (m Model) cursorCell() scene.Cell {
	if m.frame.Width == 0 || m.frame.Height == 0 {
		return scene.Cell{ID: tiles.NoTile, Rule: -1}
	}
	return m.frame.At(m.cx, m.cy)
}

// describe is the one-line form of a cell used by the clipboard.
func (m Model) describe(c scene.Cell) string {
	if c.Key == "" {
		return fmt.Sprintf("(%d,%d) empty", c.X, c.Y)
	}
	s := render.SpriteAt(c, m.elapsed)
	return fmt.Sprintf("(%d,%d) %s %s collider=%s rule=%d", c.X, c.Y, c.Key, s, c.Data.Collider, c.Rule)
}

// window cuts the visible part out of f.
func window(f *scene.Frame, x0, y0, cols, rows int) *scene.Frame {
	cols = min(cols, f.Width-x0)
	rows = min(rows, f.Height-y0)
	sub := &scene.Frame{Width: cols, Height: rows, Cells: make([]scene.Cell, 0, cols*rows)}
	for y := y0; y < y0+rows; y++ {
		for x := x0; x < x0+cols; x++ {
			sub.Cells = append(sub.Cells, f.At(x, y))
		}
	}
	return sub
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	sidebar := SidebarStyle.
		Width(sidebarWidth).
		Height(m.height - 2).
		Render(m.renderInspector())

	var b strings.Builder
	b.WriteString(m.renderMap())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	content := ContentStyle.
		Width(m.width - sidebarWidth - 4).
		Height(m.height - 2).
		Render(b.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
}

func (m Model) renderMap() string {
	if m.frame.Width == 0 || m.frame.Height == 0 {
		return HelpStyle.Render("empty map")
	}
	if m.minimap {
		return MapBoxStyle.Render(render.Minimap(m.frame, m.elapsed))
	}

	cols, rows := m.viewSize()
	sub := window(m.frame, m.ox, m.oy, cols, rows)
	return MapBoxStyle.Render(render.Text(sub, render.TextOptions{
		CellWidth: m.opts.CellWidth,
		Time:      m.elapsed,
		Cursor:    [2]int{m.cx - m.ox, m.cy - m.oy},
		Highlight: true,
	}))
}

func (m Model) renderInspector() string {
	var lines []string
	lines = append(lines, SidebarTitleStyle.Render(m.scene.Tileset.Name()))

	row := func(label, value string) {
		lines = append(lines, LabelStyle.Render(label)+ValueStyle.Render(value))
	}

	row("Map", fmt.Sprintf("%s %dx%d", m.scene.Name, m.frame.Width, m.frame.Height))
	row("Salt", fmt.Sprint(m.scene.Salt))
	clock := fmt.Sprintf("%.1fs", m.elapsed)
	if m.paused {
		clock += " " + PausedStyle.Render("paused")
	}
	row("Time", clock)

	lines = append(lines, SectionStyle.Render("Cell"))
	c := m.cursorCell()
	row("Position", fmt.Sprintf("%d,%d", m.cx, m.cy))
	if c.Key == "" {
		row("Tile", "empty")
	} else {
		row("Tile", c.Key)
		if s := render.SpriteAt(c, m.elapsed); s != "" {
			row("Sprite", string(s))
		} else {
			row("Sprite", "none")
		}
		row("Collider", c.Data.Collider.String())
		if c.Rule >= 0 {
			row("Rule", fmt.Sprint(c.Rule))
		} else {
			row("Rule", "-")
		}
		if c.Animated {
			row("Frames", fmt.Sprint(len(c.Animation.Frames)))
			row("Speed", fmt.Sprintf("%.2f/s", c.Animation.Speed))
			row("Phase", fmt.Sprintf("%+.2fs", c.Animation.Phase))
		}
	}

	lines = append(lines, SectionStyle.Render("Brush"))
	if brush := m.Brush(); brush != "" {
		lines = append(lines, BrushStyle.Render(brush))
	} else {
		lines = append(lines, HelpStyle.Render("no tiles"))
	}

	if m.err != nil {
		lines = append(lines, "", ErrorStyle.Render(m.err.Error()))
	} else if m.status != "" {
		lines = append(lines, "", StatusStyle.Render(m.status))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Run starts the viewer on the terminal.
func Run(m Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}
