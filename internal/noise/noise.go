// Package noise provides a stateless seeded spatial hash.
//
// The same (seed, x, y, z) always yields the same value on every machine, so
// callers can re-evaluate a cell at any time instead of storing random state.
package noise

const (
	golden  = 0x9E3779B97F4A7C15
	golden2 = 0x3C6EF372FE94F82A // 2*golden mod 2^64
	mixA    = 0xBF58476D1CE4E5B9
	mixB    = 0x94D049BB133111EB

	unit = 1.0 / (1 << 53)
)

// Sampler maps integer coordinates to pseudo-random values.
type Sampler struct {
	seed uint64
}

// Fixed samplers, one per purpose, so choices made for the same cell do not
// correlate with each other.
var (
	Choice        = New(69)    // weighted sprite choice, animation speed
	Phase         = New(420)   // animation phase
	PatternChoice = New(12321) // weighted pattern choice
)

// New returns a sampler for the given seed.
func New(seed int64) Sampler {
	return Sampler{seed: splitmix(uint64(seed) + golden)}
}

// Hash returns 64 well-mixed bits for (x, y, z).
func (s Sampler) Hash(x, y, z int) uint64 {
	h := s.seed
	h = splitmix(h ^ uint64(int64(x)))
	h = splitmix(h + golden ^ uint64(int64(y)))
	h = splitmix(h + golden2 ^ uint64(int64(z)))
	return h
}

// Sample returns a value in [0, 1) for (x, y, z).
func (s Sampler) Sample(x, y, z int) float64 {
	return float64(s.Hash(x, y, z)>>11) * unit
}

// splitmix is the splitmix64 output function.
func splitmix(h uint64) uint64 {
	h += golden
	h = (h ^ (h >> 30)) * mixA
	h = (h ^ (h >> 27)) * mixB
	return h ^ (h >> 31)
}
