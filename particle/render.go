package particle

import "github.com/go-gl/mathgl/mgl32"

// RenderConstant is one named shader-constant override collected for a
// batch's draw call (spec.md §6 RenderBatch signature).
type RenderConstant struct {
	NameHash uint64
	Value    mgl32.Vec4
}

// RenderBatchFunc is the host callback invoked once per visible emitter
// with the slice of the caller's vertex buffer it just wrote.
type RenderBatchFunc func(userctx any, material, texture uint64, blend BlendMode, vertexIndex, vertexCount int, constants []RenderConstant)

// renderEmitter writes e's live particles as camera-facing quads into
// buf[offset:], honoring xform (world placement) and instanceScale (applied
// to particle Size, spec.md §4.10). It returns the number of bytes written
// and the number of vertices emitted; writing stops at the last whole
// particle that fits (spec.md's truncate-on-overflow rule — partial quads
// are never emitted).
func renderEmitter(e *Emitter, buf []byte, offset int, xform Transform, instanceScale float32, fetchAnim FetchAnimationFunc, tileSource any) (written int, vertices int) {
	avail := len(buf) - offset
	maxParticles := avail / (6 * vertexSize)
	n := e.pool.liveCount()
	if n > maxParticles {
		n = maxParticles
	}

	var anim AnimationData
	haveAnim := false
	if tileSource != nil && fetchAnim != nil {
		data, res := fetchAnim(tileSource, e.proto.AnimationName)
		if res == FetchAnimationOK {
			anim = data
			haveAnim = true
		}
	}

	pos := offset
	for i := 0; i < n; i++ {
		p := &e.pool.particles[i]

		if haveAnim {
			// Use the age simulate() sampled this tick (pre-decrement), not a
			// fresh particleNormalizedAge(p) — TimeLeft has already been
			// decremented for this tick by the time Render runs, which would
			// shift every tile index one tick ahead.
			animateParticle(p, anim, p.NormalizedAge)
		}

		quad, ok := buildQuad(p, xform, instanceScale, anim, haveAnim)
		if !ok {
			continue
		}
		for _, v := range quad {
			v.encode(buf, pos)
			pos += vertexSize
			vertices++
		}
	}
	written = pos - offset
	return written, vertices
}

// buildQuad produces the 6 vertices (two triangles, spec.md's "N" winding:
// lower-left, upper-left, lower-right / lower-right, upper-left, upper-right)
// for one particle. ok is false when the particle has no tile assigned and
// an animation is in play (no geometry is emitted for it).
func buildQuad(p *Particle, xform Transform, instanceScale float32, anim AnimationData, haveAnim bool) ([6]Vertex, bool) {
	var quad [6]Vertex

	u0, v0, u1, v1 := float32(0), float32(0), float32(1), float32(1)
	widthFactor, heightFactor := float32(1), float32(1)
	if haveAnim {
		tu0, tv0, tu1, tv1, ok := tileTexCoords(anim, p.TileIndex)
		if !ok {
			return quad, false
		}
		u0, v0, u1, v1 = tu0, tv0, tu1, tv1
		if anim.TileWidth > 0 && anim.TileHeight > 0 {
			tw, th := float32(anim.TileWidth), float32(anim.TileHeight)
			if tw > th {
				heightFactor = th / tw
			} else {
				widthFactor = tw / th
			}
		}
	}

	half := p.Size * instanceScale * 0.5
	halfW, halfH := half*widthFactor, half*heightFactor

	corners := [4]mgl32.Vec2{
		{-halfW, -halfH}, // lower-left
		{-halfW, halfH},  // upper-left
		{halfW, -halfH},  // lower-right
		{halfW, halfH},   // upper-right
	}
	for i := range corners {
		corners[i] = rotate2D(corners[i], p.Rotation)
		corners[i] = corners[i].Add(p.Position)
		corners[i] = xform.ApplyPoint(corners[i])
	}

	uvs := [4][2]float32{{u0, v1}, {u0, v0}, {u1, v1}, {u1, v0}}
	colorBytes := premultiplyColor(p.Color)

	// v0=lower-left, v1=upper-left, v2=lower-right, v3=lower-right,
	// v4=upper-left, v5=upper-right.
	order := [6]int{0, 1, 2, 2, 1, 3}
	for i, ci := range order {
		c := corners[ci]
		uv := uvs[ci]
		quad[i] = Vertex{
			X: c[0], Y: c[1], Z: p.SortKey,
			U: quantizeUV(uv[0]), V: quantizeUV(uv[1]),
			R: colorBytes[0], G: colorBytes[1], B: colorBytes[2], A: colorBytes[3],
		}
	}
	return quad, true
}

func quantizeUV(f float32) uint16 {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return uint16(f * 65535)
}

// premultiplyColor converts a float RGBA in [0,1] to alpha-premultiplied
// RGBA8 (spec.md §6 step 3: "alpha premultiplied by emitter color").
func premultiplyColor(c mgl32.Vec4) [4]uint8 {
	a := c[3]
	return [4]uint8{
		quantizeByte(c[0] * a),
		quantizeByte(c[1] * a),
		quantizeByte(c[2] * a),
		quantizeByte(a),
	}
}

func quantizeByte(f float32) uint8 {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return uint8(f * 255)
}
