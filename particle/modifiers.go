package particle

import "github.com/go-gl/mathgl/mgl32"

// applyModifiers runs an emitter's declared modifier list, in order, against
// one particle for one tick (spec.md §4.8). xform is the owning instance's
// world transform; it is applied to a world-space modifier's anchor point
// only — axes/directions are used exactly as declared regardless of
// instance orientation (confirmed by the AccelerationWorld/AccelerationEmitter
// scenarios, where rotating the instance does not change the resulting
// particle velocity). mags holds each modifier's Magnitude already sampled
// once for this tick (see simulate), so this runs with no rng of its own.
func applyModifiers(mods []ModifierPrototype, mags []float32, p *Particle, dt float32, xform Transform, instanceScale float32) {
	for i, m := range mods {
		anchor := m.Anchor
		if m.Space == SpaceWorld {
			anchor = xform.ApplyPoint(anchor)
		}
		maxDist := m.MaxDistance * instanceScale
		mag := mags[i]

		switch m.Kind {
		case ModifierAcceleration:
			applyAcceleration(m, p, dt, mag)
		case ModifierDrag:
			applyDrag(m, p, dt, mag)
		case ModifierRadial:
			applyRadial(p, dt, mag, m.Axis, anchor, maxDist)
		case ModifierVortex:
			applyVortex(p, dt, mag, m.Axis, anchor, maxDist)
		}
	}
}

func withinRange(p *Particle, anchor mgl32.Vec2, maxDist float32) bool {
	if maxDist <= 0 {
		return true
	}
	return p.Position.Sub(anchor).Len() <= maxDist
}

// applyAcceleration: v += magnitude*dt along the declared axis, or the
// modifier's local up axis (0,1) when no direction was declared. magnitude
// may itself be an animated spline, including negative values (deceleration
// and reversal), per spec.md's "Acceleration (animated)" row.
func applyAcceleration(m ModifierPrototype, p *Particle, dt, mag float32) {
	var axis mgl32.Vec2
	if m.Directional && m.Axis.Len() > 0 {
		axis = m.Axis.Normalize()
	} else {
		axis = mgl32.Vec2{0, 1}
	}
	p.Velocity = p.Velocity.Add(axis.Mul(mag * dt))
}

// applyDrag: v -= min(|v|, magnitude*dt)*v̂. Velocity clamps to zero, never
// flips sign, when magnitude*dt exceeds the current speed.
func applyDrag(m ModifierPrototype, p *Particle, dt, mag float32) {
	speed := p.Velocity.Len()
	if speed == 0 || mag <= 0 {
		return
	}
	dir := p.Velocity.Mul(1 / speed)
	reduce := mag * dt
	if reduce > speed {
		reduce = speed
	}
	p.Velocity = p.Velocity.Sub(dir.Mul(reduce))
}

// applyRadial: v += magnitude*(p-anchor)/|p-anchor|*dt, falling back to the
// declared axis when the particle sits exactly on the anchor.
func applyRadial(p *Particle, dt, mag float32, axis, anchor mgl32.Vec2, maxDist float32) {
	if !withinRange(p, anchor, maxDist) {
		return
	}
	delta := p.Position.Sub(anchor)
	dist := delta.Len()
	var dir mgl32.Vec2
	if dist == 0 {
		dir = forwardAxis(axis)
	} else {
		dir = delta.Mul(1 / dist)
	}
	p.Velocity = p.Velocity.Add(dir.Mul(mag * dt))
}

// applyVortex rotates (p-anchor) by 90 degrees in the plane for the
// tangential direction, falling back to the declared side axis at the
// anchor.
func applyVortex(p *Particle, dt, mag float32, axis, anchor mgl32.Vec2, maxDist float32) {
	if !withinRange(p, anchor, maxDist) {
		return
	}
	delta := p.Position.Sub(anchor)
	dist := delta.Len()
	var tangent mgl32.Vec2
	if dist == 0 {
		tangent = sideAxis(axis)
	} else {
		dir := delta.Mul(1 / dist)
		tangent = mgl32.Vec2{-dir[1], dir[0]}
	}
	p.Velocity = p.Velocity.Add(tangent.Mul(mag * dt))
}

func forwardAxis(axis mgl32.Vec2) mgl32.Vec2 {
	if axis.Len() == 0 {
		return mgl32.Vec2{0, 1}
	}
	return axis.Normalize()
}

func sideAxis(axis mgl32.Vec2) mgl32.Vec2 {
	if axis.Len() == 0 {
		return mgl32.Vec2{1, 0}
	}
	return axis.Normalize()
}
