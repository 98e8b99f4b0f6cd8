package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Rng is a small reseedable xorshift32 generator. Each emitter owns one;
// every spawned particle additionally captures a fresh draw from it as its
// InitialSeed, so per-particle property sampling can be replayed after a
// reload even though the emitter's own generator has since moved on.
type Rng struct {
	state uint32
}

// NewRng builds a generator from seed. A zero seed is replaced with a fixed
// non-zero constant since xorshift cannot recover from an all-zero state.
func NewRng(seed uint32) *Rng {
	r := &Rng{}
	r.Reseed(seed)
	return r
}

// Reseed resets the generator's state explicitly.
func (r *Rng) Reseed(seed uint32) {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	r.state = seed
}

// NextU32 advances the generator and returns the next raw value.
func (r *Rng) NextU32() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Uniform01 returns a value in [0, 1).
func (r *Rng) Uniform01() float32 {
	return float32(r.NextU32()>>8) / float32(1<<24)
}

// Uniform returns a value in [a, b).
func (r *Rng) Uniform(a, b float32) float32 {
	if a == b {
		return a
	}
	return a + (b-a)*r.Uniform01()
}

// UnitVector2D returns a uniformly distributed unit vector in the plane.
func (r *Rng) UnitVector2D() mgl32.Vec2 {
	theta := r.Uniform(0, 2*math.Pi)
	return mgl32.Vec2{float32(math.Cos(float64(theta))), float32(math.Sin(float64(theta)))}
}
