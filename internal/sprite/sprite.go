// Package sprite describes how a matched tile turns into a drawable frame.
//
// An Output is a tagged union: a single sprite, a weighted random choice, an
// animation, or a delegation into a tiled Pattern (optionally picked at random
// per pattern instance and optionally staggered like a brick wall). Outputs
// are immutable once built and safe for concurrent resolution.
package sprite

import "math"

// Sprite names a renderable image. The empty sprite means nothing is drawn.
type Sprite string

// None is the "no output" sprite.
const None Sprite = ""

// Position is a cell coordinate. Y grows upwards.
type Position struct {
	X, Y, Z int
}

// Add returns p moved by (dx, dy) on the same layer.
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy, Z: p.Z}
}

// Animation describes how a cell cycles through frames.
type Animation struct {
	Frames []Sprite
	Speed  float64 // frames per second
	Phase  float64 // start time offset in seconds
}

// FrameAt returns the frame shown at time t (seconds).
func (a Animation) FrameAt(t float64) Sprite {
	i := a.FrameIndex(t)
	if i < 0 {
		return None
	}
	return a.Frames[i]
}

// FrameIndex returns the index of the frame shown at time t, or -1 when
// there are no frames. A non-positive speed holds the first frame.
func (a Animation) FrameIndex(t float64) int {
	n := len(a.Frames)
	if n == 0 {
		return -1
	}
	if a.Speed <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}

	i := int(math.Floor((t-a.Phase)*a.Speed)) % n
	if i < 0 {
		i += n
	}
	return i
}
