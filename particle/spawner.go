package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// spawn runs the rate-accumulator spawner for one tick (spec.md §4.6). It
// only produces particles while the emitter is Spawning. xform is the
// instance's world transform, applied to initial position/velocity only
// when the emitter's space is world. instVel is the instance's own world
// velocity this tick, added to a spawned particle's velocity only when the
// emitter prototype has inherit_velocity set.
func (e *Emitter) spawn(dt float32, xform Transform, instVel mgl32.Vec2) {
	if e.state != EmitterSpawning {
		return
	}

	te := e.emitterNormalizedTime()
	rate := e.proto.EmitterProperties[EmitterPropertySpawnRate].Evaluate(te, e.rng)

	e.spawnAcc += rate * dt
	n := int(math.Floor(float64(e.spawnAcc)))
	if n < 0 {
		n = 0
	}
	e.spawnAcc -= float32(n)

	room := e.pool.capacity() - e.pool.liveCount()
	if n > room {
		n = room
	}
	if n <= 0 {
		return
	}

	for i := 0; i < n; i++ {
		subDt := dt * float32(i) / float32(n)
		e.spawnOne(subDt, xform, instVel)
	}
}

func (e *Emitter) spawnOne(subDt float32, xform Transform, instVel mgl32.Vec2) {
	te := e.emitterNormalizedTime()

	// Emitter-properties: sampled at t_e against the emitter's own live,
	// persistently-advancing generator. Their results are baked into the
	// particle at spawn and never re-derived, so they need no replay story.
	life := e.proto.EmitterProperties[EmitterPropertyParticleLifeTime].Evaluate(te, e.rng)
	if life <= 0 {
		life = 0.0001
	}
	speed := e.proto.EmitterProperties[EmitterPropertyParticleStartSpeed].Evaluate(te, e.rng)
	dir := sampleConeDirection2D(e.proto.SpawnConeDegrees, e.rng)

	// The particle captures the next rng draw as its InitialSeed so that
	// particle-properties (re-evaluated every tick at t_p, see simulate) can
	// be replayed deterministically after a reload (spec.md §4.2, §9).
	seed := e.rng.NextU32()
	local := NewRng(seed)

	scale := e.proto.ParticleProperties[ParticlePropertyScale].Evaluate(0, local)
	r := e.proto.ParticleProperties[ParticlePropertyRed].Evaluate(0, local)
	g := e.proto.ParticleProperties[ParticlePropertyGreen].Evaluate(0, local)
	b := e.proto.ParticleProperties[ParticlePropertyBlue].Evaluate(0, local)
	a := e.proto.ParticleProperties[ParticlePropertyAlpha].Evaluate(0, local)
	rot := e.proto.ParticleProperties[ParticlePropertyRotation].Evaluate(0, local)
	pos := mgl32.Vec2{0, 0}
	vel := dir.Mul(speed)

	if e.proto.Space == SpaceWorld {
		pos = xform.ApplyPoint(pos)
		vel = xform.ApplyVector(vel)
	}
	if e.proto.InheritVelocity {
		vel = vel.Add(instVel)
	}
	// Integrate the sub-dt offset so particles spawned mid-tick are not all
	// stacked at the same position.
	pos = pos.Add(vel.Mul(subDt))

	p := Particle{
		Position:    pos,
		Velocity:    vel,
		Size:        scale,
		Rotation:    rot,
		Color:       mgl32.Vec4{r, g, b, a},
		TimeLeft:    life,
		MaxLife:     life,
		InitialSeed: seed,
	}
	e.pool.push(p)
}

// sampleConeDirection2D draws a direction within +/- coneDeg/2 of the local
// up axis (0,1), adapted from the teacher's 3D cone sampler
// (particles_ecs.go sampleDirection) down to the 2D plane.
func sampleConeDirection2D(coneDeg float32, rng *Rng) mgl32.Vec2 {
	if coneDeg <= 0 {
		return mgl32.Vec2{0, 1}
	}
	half := coneDeg * 0.5 * (math.Pi / 180)
	offset := rng.Uniform(-float32(half), float32(half))
	base := float32(math.Pi / 2)
	theta := base + offset
	return mgl32.Vec2{float32(math.Cos(float64(theta))), float32(math.Sin(float64(theta)))}
}
