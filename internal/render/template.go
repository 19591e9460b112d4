package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/f3rmion/tilesmith/internal/sprite"
	"github.com/f3rmion/tilesmith/internal/template"
	"github.com/f3rmion/tilesmith/internal/tiles"
)

// TypeColor is the display colour of a rule template type: the template's
// own colour when it is valid hex, a generated one otherwise.
func TypeColor(t *template.RuleTemplate, id int) colorful.Color {
	if c, err := colorful.Hex(t.Color(id)); err == nil {
		return c
	}
	return Color(sprite.Sprite("type " + strconv.Itoa(id)))
}

// RuleTemplate draws the template elements top row first. Types are drawn
// as their id on the type colour, "*" is any and "." is none.
func RuleTemplate(t *template.RuleTemplate, cellWidth int) string {
	width := max(cellWidth, 1)
	w, h := t.Size()

	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := t.Element(x, y)
			switch v {
			case tiles.SlotAny:
				b.WriteString(emptyStyle.Render(runewidth.FillRight("*", width)))
			case tiles.SlotNone:
				b.WriteString(emptyStyle.Render(runewidth.FillRight(".", width)))
			default:
				bg := TypeColor(t, v)
				style := lipgloss.NewStyle().
					Background(lipglossColor(bg)).
					Foreground(lipglossColor(TextColor(bg)))
				if !t.Generate(v) {
					style = style.Faint(true)
				}
				b.WriteString(style.Render(runewidth.FillRight(strconv.Itoa(v), width)))
			}
		}
		if y < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// TemplateIndices draws the output index of every template cell, "-" for
// cells that take no output.
func TemplateIndices(t *template.RuleTemplate, cellWidth int) string {
	width := max(cellWidth, 1)
	w, _ := t.Size()
	indices := t.Indices()

	var b strings.Builder
	for i, idx := range indices {
		label := "-"
		if idx >= 0 {
			label = strconv.Itoa(idx)
		}
		b.WriteString(runewidth.FillLeft(label, width))
		if (i+1)%w == 0 && i < len(indices)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ConnectedTemplate draws every cell as a 3x3 glyph: the centre and each
// connected neighbour are filled.
func ConnectedTemplate(t *template.ConnectedTemplate) string {
	w, h := t.Size()

	var lines []string
	for y := 0; y < h; y++ {
		for dy := 1; dy >= -1; dy-- {
			var line strings.Builder
			for x := 0; x < w; x++ {
				mask := t.At(x, y)
				for dx := -1; dx <= 1; dx++ {
					line.WriteString(maskGlyph(mask, dx, dy))
				}
				if x < w-1 {
					line.WriteByte(' ')
				}
			}
			lines = append(lines, line.String())
		}
		if y < h-1 {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}

func maskGlyph(mask tiles.Configuration, dx, dy int) string {
	if dx == 0 && dy == 0 {
		return "█"
	}
	for _, d := range tiles.Directions {
		ox, oy := d.Offset()
		if ox == dx && oy == dy && mask.Has(d) {
			return "█"
		}
	}
	return "·"
}
