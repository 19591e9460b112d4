package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/f3rmion/tilesmith/internal/scene"
)

// ImageOptions controls Image.
type ImageOptions struct {
	// CellSize is the edge of one cell in pixels.
	CellSize int
	// Time selects the animation frame.
	Time float64
	// Labels writes sprite names into cells that are wide enough.
	Labels bool
}

// DefaultCellSize fits a few label characters per cell.
const DefaultCellSize = 32

var face = basicfont.Face7x13

// Image paints every cell as a square in its sprite colour with the top row
// of the map at the top of the image.
func Image(f *scene.Frame, opts ImageOptions) *image.RGBA {
	size := opts.CellSize
	if size <= 0 {
		size = DefaultCellSize
	}

	img := image.NewRGBA(image.Rect(0, 0, f.Width*size, f.Height*size))
	draw.Draw(img, img.Bounds(), &image.Uniform{rgba(Background)}, image.Point{}, draw.Src)

	// one pixel gap between cells when there is room for it
	inset := 0
	if size >= 4 {
		inset = 1
	}

	for y := 0; y < f.Height; y++ {
		row := f.Height - 1 - y
		for x := 0; x < f.Width; x++ {
			s := SpriteAt(f.At(x, y), opts.Time)
			if s == "" {
				continue
			}
			bg := Color(s)
			r := image.Rect(x*size+inset, row*size+inset, (x+1)*size-inset, (row+1)*size-inset)
			draw.Draw(img, r, &image.Uniform{rgba(bg)}, image.Point{}, draw.Src)

			if opts.Labels {
				label(img, r, string(s), TextColor(bg))
			}
		}
	}
	return img
}

// label writes as much of text as fits on one line inside r.
func label(img *image.RGBA, r image.Rectangle, text string, c colorful.Color) {
	adv := face.Advance
	fit := (r.Dx() - 2) / adv
	if fit <= 0 || r.Dy() < face.Height {
		return
	}
	runes := []rune(text)
	if len(runes) > fit {
		runes = runes[:fit]
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(rgba(c)),
		Face: face,
		Dot:  fixed.P(r.Min.X+1, r.Min.Y+(r.Dy()+face.Ascent-face.Descent)/2),
	}
	d.DrawString(string(runes))
}

// WritePNG encodes Image(f, opts) as PNG.
func WritePNG(w io.Writer, f *scene.Frame, opts ImageOptions) error {
	return png.Encode(w, Image(f, opts))
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
