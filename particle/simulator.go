package particle

import "github.com/go-gl/mathgl/mgl32"

// simulate runs one tick of C7 for every live particle in e (spec.md §4.7).
// Order matters (matches the original system's update loop, test_particle.cpp
// Once/ParticleLife/Animation): a particle is removed only once TimeLeft has
// already dropped to or below zero on a *previous* tick, so the tick in which
// it reaches zero still samples, integrates and renders it at its true
// pre-decrement age. TimeLeft -= dt always happens last, after sampling.
func (e *Emitter) simulate(dt float32, xform Transform, instanceScale float32, sortAxis SortAxis) {
	mods := e.proto.Modifiers

	// Modifier magnitudes are emitter-level curves sampled once per tick
	// against t_e, not once per particle — otherwise a Magnitude with
	// nonzero Spread would advance e.rng once per live particle and break
	// replay determinism (spec.md invariant 4).
	te := e.emitterNormalizedTime()
	mags := make([]float32, len(mods))
	for i, m := range mods {
		mags[i] = m.Magnitude.Evaluate(te, e.rng)
	}

	i := 0
	for i < e.pool.liveCount() {
		p := &e.pool.particles[i]

		if p.TimeLeft <= 0 {
			e.pool.remove(i)
			continue
		}

		tp := particleNormalizedAge(p)
		p.NormalizedAge = tp
		local := NewRng(p.InitialSeed)
		p.Size = e.proto.ParticleProperties[ParticlePropertyScale].Evaluate(tp, local)
		p.Color[0] = e.proto.ParticleProperties[ParticlePropertyRed].Evaluate(tp, local)
		p.Color[1] = e.proto.ParticleProperties[ParticlePropertyGreen].Evaluate(tp, local)
		p.Color[2] = e.proto.ParticleProperties[ParticlePropertyBlue].Evaluate(tp, local)
		p.Color[3] = e.proto.ParticleProperties[ParticlePropertyAlpha].Evaluate(tp, local)
		p.Rotation = e.proto.ParticleProperties[ParticlePropertyRotation].Evaluate(tp, local)

		p.Position = p.Position.Add(p.Velocity.Mul(dt))

		applyModifiers(mods, mags, p, dt, xform, instanceScale)

		p.SortKey = sortAxis.project(p.Position)

		p.TimeLeft -= dt

		i++
	}

	e.pool.sortByKey()
}

// particleNormalizedAge returns t_p = 1 - time_left/max_life, clamped to
// [0,1].
func particleNormalizedAge(p *Particle) float32 {
	if p.MaxLife <= 0 {
		return 1
	}
	return clamp01((p.MaxLife - p.TimeLeft) / p.MaxLife)
}

// SortAxis parameterizes the depth/camera axis used for back-to-front
// sorting (spec.md §9 Open Question). It defaults to the emitter-local Y
// axis; a host can supply an arbitrary 2D projection axis instead.
type SortAxis struct {
	axis mgl32.Vec2
}

// DefaultSortAxis returns the emitter-local Y axis.
func DefaultSortAxis() SortAxis {
	return SortAxis{axis: mgl32.Vec2{0, 1}}
}

// NewSortAxis builds a sort axis from an arbitrary (non-zero) 2D direction.
func NewSortAxis(x, y float32) SortAxis {
	v := mgl32.Vec2{x, y}
	if v.Len() == 0 {
		return DefaultSortAxis()
	}
	return SortAxis{axis: v.Normalize()}
}

func (s SortAxis) project(p mgl32.Vec2) float32 {
	if s.axis.Len() == 0 {
		s = DefaultSortAxis()
	}
	return p.Dot(s.axis)
}
