package sprite

import (
	"fmt"
	"math"
	"slices"
)

// Kind identifies the variant held by an Output.
type Kind uint8

const (
	KindSingle Kind = iota
	KindRandomized
	KindAnimated
	KindPattern
	KindRandomizedPattern
)

var kindNames = [...]string{
	KindSingle:            "single",
	KindRandomized:        "randomized",
	KindAnimated:          "animated",
	KindPattern:           "pattern",
	KindRandomizedPattern: "randomized_pattern",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Output describes how to produce the sprite for a matched cell.
// A nil *Output is valid and resolves to no output.
type Output struct {
	kind Kind

	sprites  []Sprite
	patterns []*Pattern
	weights  []float64
	total    float64

	minSpeed     float64
	maxSpeed     float64
	randomOffset float64

	offset   int
	vertical bool
}

// Single draws the same sprite everywhere.
func Single(s Sprite) *Output {
	return &Output{kind: KindSingle, sprites: []Sprite{s}}
}

// Randomized picks one sprite per cell with probability proportional to its
// weight. Sprites and weights are truncated to the shorter of the two and
// negative weights count as zero.
func Randomized(sprites []Sprite, weights []float64) *Output {
	n := min(len(sprites), len(weights))
	o := &Output{kind: KindRandomized, sprites: slices.Clone(sprites[:n])}
	o.setWeights(weights[:n])
	return o
}

// Animated cycles through frames. Each cell gets its own speed in
// [minSpeed, maxSpeed] and a start offset in [-randomOffset, randomOffset].
func Animated(frames []Sprite, minSpeed, maxSpeed, randomOffset float64) *Output {
	return &Output{
		kind:         KindAnimated,
		sprites:      slices.Clone(frames),
		minSpeed:     minSpeed,
		maxSpeed:     maxSpeed,
		randomOffset: randomOffset,
	}
}

// FromPattern tiles the plane with copies of p. Successive pattern rows are
// shifted right by offset cells, or successive pattern columns shifted up
// when vertical is set.
func FromPattern(p *Pattern, offset int, vertical bool) *Output {
	return &Output{
		kind:     KindPattern,
		patterns: []*Pattern{p},
		offset:   offset,
		vertical: vertical,
	}
}

// RandomizedPattern tiles the plane like FromPattern but picks one of the
// patterns for every pattern instance. All patterns are expected to share the
// size of the first one; see UniformPatterns.
func RandomizedPattern(patterns []*Pattern, weights []float64, offset int, vertical bool) *Output {
	n := min(len(patterns), len(weights))
	o := &Output{
		kind:     KindRandomizedPattern,
		patterns: slices.Clone(patterns[:n]),
		offset:   offset,
		vertical: vertical,
	}
	o.setWeights(weights[:n])
	return o
}

func (o *Output) setWeights(weights []float64) {
	o.weights = make([]float64, len(weights))
	o.total = 0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			w = 0
		}
		o.weights[i] = w
		o.total += w
	}
}

// WithWeights returns a copy of a Randomized or RandomizedPattern output
// using the new weights. Other kinds are returned unchanged.
func (o *Output) WithWeights(weights []float64) *Output {
	if o == nil {
		return nil
	}
	switch o.kind {
	case KindRandomized:
		return Randomized(o.sprites, weights)
	case KindRandomizedPattern:
		return RandomizedPattern(o.patterns, weights, o.offset, o.vertical)
	}
	return o
}

// WithSpeed returns a copy of an Animated output with new timing.
func (o *Output) WithSpeed(minSpeed, maxSpeed, randomOffset float64) *Output {
	if o == nil || o.kind != KindAnimated {
		return o
	}
	return Animated(o.sprites, minSpeed, maxSpeed, randomOffset)
}

// WithOffset returns a copy of a pattern output with a new stagger.
func (o *Output) WithOffset(offset int, vertical bool) *Output {
	if o == nil || (o.kind != KindPattern && o.kind != KindRandomizedPattern) {
		return o
	}
	c := *o
	c.offset = offset
	c.vertical = vertical
	return &c
}

// Kind reports the variant.
func (o *Output) Kind() Kind { return o.kind }

// Sprites returns the sprites (or animation frames).
func (o *Output) Sprites() []Sprite { return slices.Clone(o.sprites) }

// Patterns returns the referenced patterns.
func (o *Output) Patterns() []*Pattern { return slices.Clone(o.patterns) }

// Weights returns the clamped weights.
func (o *Output) Weights() []float64 { return slices.Clone(o.weights) }

// TotalWeight is the sum of Weights.
func (o *Output) TotalWeight() float64 { return o.total }

// Speed returns the animation speed range and random start offset.
func (o *Output) Speed() (minSpeed, maxSpeed, randomOffset float64) {
	return o.minSpeed, o.maxSpeed, o.randomOffset
}

// Offset returns the pattern stagger and its axis.
func (o *Output) Offset() (offset int, vertical bool) { return o.offset, o.vertical }

// UniformPatterns reports whether all patterns of a RandomizedPattern share
// one size. Resolution assumes they do.
func (o *Output) UniformPatterns() bool {
	if o == nil || len(o.patterns) < 2 {
		return true
	}
	w, h := o.patterns[0].Size()
	for _, p := range o.patterns[1:] {
		pw, ph := p.Size()
		if pw != w || ph != h {
			return false
		}
	}
	return true
}

func (o *Output) String() string {
	if o == nil {
		return "none"
	}
	switch o.kind {
	case KindSingle:
		return fmt.Sprintf("single(%s)", o.sprites[0])
	case KindRandomized:
		return fmt.Sprintf("randomized(%d sprites)", len(o.sprites))
	case KindAnimated:
		return fmt.Sprintf("animated(%d frames, %g-%g fps)", len(o.sprites), o.minSpeed, o.maxSpeed)
	case KindPattern:
		return fmt.Sprintf("pattern(%s)", o.patterns[0].Name())
	case KindRandomizedPattern:
		return fmt.Sprintf("randomized_pattern(%d patterns)", len(o.patterns))
	}
	return o.kind.String()
}
