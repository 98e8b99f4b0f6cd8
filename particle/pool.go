package particle

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Particle is one short-lived simulated entity. The fields mirror spec.md
// §3's SoA-friendly record; storage is an array-of-structs for simplicity
// since the pool is capped at max_particle_count and never reallocates.
type Particle struct {
	Position mgl32.Vec2
	Velocity mgl32.Vec2
	Size     float32
	Rotation float32
	Color    mgl32.Vec4 // r,g,b,a in [0,1]

	TimeLeft float32
	MaxLife  float32

	// NormalizedAge is t_p as sampled this tick, before TimeLeft is
	// decremented. Rendering reuses it instead of recomputing from the
	// (already-decremented) TimeLeft, so animation and property sampling
	// agree on which age this tick's frame represents.
	NormalizedAge float32

	TileIndex   int32 // 0 means "no tile assigned"
	InitialSeed uint32
	SortKey     float32
}

// pool is a fixed-capacity arena of particle records for one emitter
// (spec.md §4.4). push/remove/sort are its only operations; capacity never
// changes except via resizePreserving during a reload.
type pool struct {
	particles []Particle
	live      int
}

func newPool(capacity int) *pool {
	return &pool{particles: make([]Particle, capacity)}
}

func (p *pool) capacity() int { return len(p.particles) }

func (p *pool) liveCount() int { return p.live }

// push appends a particle if there is room, returning false if the pool is
// at capacity (new spawns are silently dropped, per spec.md §4.4).
func (p *pool) push(particle Particle) bool {
	if p.live >= len(p.particles) {
		return false
	}
	p.particles[p.live] = particle
	p.live++
	return true
}

// remove swaps index i with the last live particle and shrinks live count by
// one. Ordering is recovered by the next sort pass.
func (p *pool) remove(i int) {
	last := p.live - 1
	p.particles[i] = p.particles[last]
	p.live--
}

// sortByKey performs a stable sort over [0, live) by ascending SortKey
// (spec.md invariant 5: equal keys preserve insertion order across ticks).
func (p *pool) sortByKey() {
	live := p.particles[:p.live]
	sort.SliceStable(live, func(a, b int) bool {
		return live[a].SortKey < live[b].SortKey
	})
}

// resizePreserving changes capacity, truncating live particles from the tail
// when shrinking (spec.md §4.11 reload semantics).
func (p *pool) resizePreserving(capacity int) {
	next := make([]Particle, capacity)
	n := p.live
	if n > capacity {
		n = capacity
	}
	copy(next, p.particles[:n])
	p.particles = next
	p.live = n
}
