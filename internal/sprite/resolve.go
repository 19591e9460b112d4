package sprite

import "github.com/f3rmion/tilesmith/internal/noise"

// Resolve returns the sprite drawn at pos. The salt is added to z before
// hashing.
// Animated outputs resolve to their first frame.
func (o *Output) Resolve(pos Position, salt int) Sprite {
	if o == nil {
		return None
	}

	switch o.kind {
	case KindSingle:
		return o.sprites[0]
	case KindRandomized:
		i := o.choose(noise.Choice.Sample(pos.X, pos.Y, pos.Z+salt))
		if i < 0 {
			return None
		}
		return o.sprites[i]
	case KindAnimated:
		if len(o.sprites) == 0 {
			return None
		}
		return o.sprites[0]
	case KindPattern, KindRandomizedPattern:
		cell, shifted := o.patternCell(pos, salt)
		return cell.Resolve(shifted, salt)
	}
	return None
}

// Animation returns the animation playing at pos, if any.
func (o *Output) Animation(pos Position, salt int) (Animation, bool) {
	if o == nil {
		return Animation{}, false
	}

	switch o.kind {
	case KindAnimated:
		if len(o.sprites) == 0 {
			return Animation{}, false
		}
		z := pos.Z + salt
		speed := noise.Choice.Sample(pos.X, pos.Y, z)*(o.maxSpeed-o.minSpeed) + o.minSpeed
		phase := (noise.Phase.Sample(pos.X, pos.Y, z)*2 - 1) * o.randomOffset
		frames := make([]Sprite, len(o.sprites))
		copy(frames, o.sprites)
		return Animation{Frames: frames, Speed: speed, Phase: phase}, true
	case KindPattern, KindRandomizedPattern:
		cell, shifted := o.patternCell(pos, salt)
		return cell.Animation(shifted, salt)
	}
	return Animation{}, false
}

// patternCell locates the pattern cell covering pos and returns it along
// with the staggered absolute position the cell must be resolved at.
func (o *Output) patternCell(pos Position, salt int) (*Output, Position) {
	if len(o.patterns) == 0 || o.patterns[0] == nil {
		return nil, pos
	}

	w, h := o.patterns[0].Size()
	px, py := floorDiv(pos.X, w), floorDiv(pos.Y, h)
	if o.vertical {
		pos.Y += o.offset * px
		py = floorDiv(pos.Y, h)
	} else {
		pos.X += o.offset * py
		px = floorDiv(pos.X, w)
	}
	lx, ly := pos.X-px*w, pos.Y-py*h

	p := o.patterns[0]
	if o.kind == KindRandomizedPattern {
		i := o.choose(noise.PatternChoice.Sample(px, py, pos.Z+salt))
		if i < 0 {
			return nil, pos
		}
		p = o.patterns[i]
	}
	return p.At(lx, ly), pos
}

// choose maps a sample in [0, 1) to a weighted entry index, or -1 when no
// entry has weight.
func (o *Output) choose(sample float64) int {
	if o.total <= 0 {
		return -1
	}

	r := sample * o.total
	var cum float64
	last := -1
	for i, w := range o.weights {
		if w <= 0 {
			continue
		}
		cum += w
		last = i
		if r <= cum {
			return i
		}
	}
	return last
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
