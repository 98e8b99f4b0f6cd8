package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is an instance's world placement: 2D position, rotation (in
// radians) and a uniform scale. A full 3D position/orientation is flattened
// down to this plane since nothing in this engine ever leaves it.
type Transform struct {
	Position mgl32.Vec2
	Rotation float32
	Scale    float32
}

// IdentityTransform is the default, no-op placement.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

func rotate2D(v mgl32.Vec2, radians float32) mgl32.Vec2 {
	s, c := float32(math.Sin(float64(radians))), float32(math.Cos(float64(radians)))
	return mgl32.Vec2{v[0]*c - v[1]*s, v[0]*s + v[1]*c}
}

// ApplyPoint transforms a point from the instance's local frame to world
// space: scale, then rotate, then translate.
func (t Transform) ApplyPoint(p mgl32.Vec2) mgl32.Vec2 {
	return t.Position.Add(rotate2D(p.Mul(t.Scale), t.Rotation))
}

// ApplyVector transforms a direction/velocity (no translation).
func (t Transform) ApplyVector(v mgl32.Vec2) mgl32.Vec2 {
	return rotate2D(v.Mul(t.Scale), t.Rotation)
}
