package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/tilesmith/internal/scene"
	"github.com/f3rmion/tilesmith/internal/sprite"
)

// Empty is drawn for cells without a sprite.
const Empty = "·"

var emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))

// TextOptions controls Text.
type TextOptions struct {
	// CellWidth is the number of terminal columns per cell.
	CellWidth int
	// Time selects the animation frame.
	Time float64
	// Cursor highlights one cell when Highlight is set.
	Cursor    [2]int
	Highlight bool
}

// Text draws the frame top row first, one coloured label per cell.
func Text(f *scene.Frame, opts TextOptions) string {
	width := max(opts.CellWidth, 1)

	var b strings.Builder
	for y := f.Height - 1; y >= 0; y-- {
		for x := 0; x < f.Width; x++ {
			cursor := opts.Highlight && opts.Cursor == [2]int{x, y}
			b.WriteString(cell(f.At(x, y), width, opts.Time, cursor))
		}
		if y > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cell(c scene.Cell, width int, t float64, cursor bool) string {
	s := SpriteAt(c, t)
	if s == "" {
		label := runewidth.FillRight(Empty, width)
		if cursor {
			return emptyStyle.Reverse(true).Render(label)
		}
		return emptyStyle.Render(label)
	}

	label := runewidth.FillRight(runewidth.Truncate(string(s), width, "…"), width)
	bg := Color(s)
	style := lipgloss.NewStyle().
		Background(lipglossColor(bg)).
		Foreground(lipglossColor(TextColor(bg)))
	if cursor {
		style = style.Reverse(true).Bold(true)
	}
	return style.Render(label)
}

// Minimap draws two map rows per terminal line with half blocks, one
// column per cell.
func Minimap(f *scene.Frame, t float64) string {
	var b strings.Builder
	for top := f.Height - 1; top >= 0; top -= 2 {
		for x := 0; x < f.Width; x++ {
			upper := SpriteAt(f.At(x, top), t)
			var lower sprite.Sprite
			if top > 0 {
				lower = SpriteAt(f.At(x, top-1), t)
			}
			b.WriteString(halfBlock(upper, lower))
		}
		if top > 1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func halfBlock(top, bottom sprite.Sprite) string {
	switch {
	case top != "" && bottom != "":
		return lipgloss.NewStyle().
			Foreground(lipglossColor(Color(top))).
			Background(lipglossColor(Color(bottom))).
			Render("▀")
	case top != "":
		return lipgloss.NewStyle().Foreground(lipglossColor(Color(top))).Render("▀")
	case bottom != "":
		return lipgloss.NewStyle().Foreground(lipglossColor(Color(bottom))).Render("▄")
	}
	return " "
}
