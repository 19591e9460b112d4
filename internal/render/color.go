// Package render draws resolved scenes: coloured text for terminals, half
// block minimaps and PNG images.
package render

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/f3rmion/tilesmith/internal/scene"
	"github.com/f3rmion/tilesmith/internal/sprite"
)

// Background is drawn behind empty cells.
var Background = colorful.Color{R: 0x1a / 255.0, G: 0x1a / 255.0, B: 0x2e / 255.0}

// Color returns a stable colour for a sprite name. Sprites with the same
// name always share a colour, across runs and machines.
func Color(s sprite.Sprite) colorful.Color {
	h := fnv.New32a()
	h.Write([]byte(s))
	sum := h.Sum32()

	hue := float64(sum % 360)
	sat := 0.45 + float64((sum>>9)%30)/100
	val := 0.70 + float64((sum>>17)%25)/100
	return colorful.Hsv(hue, sat, val)
}

// TextColor picks black or white, whichever reads better on bg.
func TextColor(bg colorful.Color) colorful.Color {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return colorful.Color{}
	}
	return colorful.Color{R: 1, G: 1, B: 1}
}

func lipglossColor(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Clamped().Hex())
}

// SpriteAt is the sprite a cell shows at time t. Animated cells play their
// animation; everything else is static.
func SpriteAt(c scene.Cell, t float64) sprite.Sprite {
	if c.Animated {
		return c.Animation.FrameAt(t)
	}
	return c.Data.Sprite
}
