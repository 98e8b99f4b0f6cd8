package particle

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmitter_TruncatesToWholeQuadsWhenBufferTooSmall(t *testing.T) {
	proto := testPrototype()
	e := newEmitter(proto, 0, 1)
	for i := 0; i < 3; i++ {
		e.pool.push(Particle{Size: 1, Color: mgl32.Vec4{1, 1, 1, 1}, TimeLeft: 1, MaxLife: 1})
	}

	buf := make([]byte, VertexBufferSize(2))
	written, vertices := renderEmitter(e, buf, 0, IdentityTransform(), 1, nil, nil)

	assert.Equal(t, VertexBufferSize(2), written)
	assert.Equal(t, 12, vertices)
}

func TestRenderEmitter_WritesAllParticlesWhenBufferFits(t *testing.T) {
	proto := testPrototype()
	e := newEmitter(proto, 0, 1)
	for i := 0; i < 2; i++ {
		e.pool.push(Particle{Size: 1, Color: mgl32.Vec4{1, 1, 1, 1}, TimeLeft: 1, MaxLife: 1})
	}

	buf := make([]byte, VertexBufferSize(2))
	written, vertices := renderEmitter(e, buf, 0, IdentityTransform(), 1, nil, nil)

	assert.Equal(t, VertexBufferSize(2), written)
	assert.Equal(t, 12, vertices)
}

// Reproduces the OnceForward flipbook scenario (tiles 1..5, life=1.25,
// dt=0.25): simulate samples each tick's age before decrementing TimeLeft,
// and renderEmitter must reuse that same age (p.NormalizedAge) rather than
// recomputing from the now-decremented TimeLeft, or every tile would be one
// tick ahead of where it should be.
func TestRenderEmitter_AnimationTileMatchesPreDecrementAge(t *testing.T) {
	proto := testPrototype()
	proto.EmitterProperties[EmitterPropertyParticleLifeTime] = ConstantProperty(1.25, 0)
	e := newEmitter(proto, 0, 1)
	e.pool.push(Particle{Size: 1, Color: mgl32.Vec4{1, 1, 1, 1}, TimeLeft: 1.25, MaxLife: 1.25})

	anim := AnimationData{
		TexCoords: make([]float32, 5*4),
		StartTile: 1, EndTile: 5,
		Playback: AnimOnceForward,
	}
	fetch := func(tileSource any, animationHash uint64) (AnimationData, FetchAnimationResult) {
		return anim, FetchAnimationOK
	}

	wantTiles := []int32{1, 2, 3, 4, 5}
	buf := make([]byte, VertexBufferSize(1))
	for _, want := range wantTiles {
		e.simulate(0.25, IdentityTransform(), 1, DefaultSortAxis())
		_, _ = renderEmitter(e, buf, 0, IdentityTransform(), 1, fetch, struct{}{})
		require.Equal(t, want, e.pool.particles[0].TileIndex)
	}
}

func TestBuildQuad_NoAnimationUsesFullUnitUV(t *testing.T) {
	p := &Particle{Size: 2, Color: mgl32.Vec4{1, 0, 0, 1}}
	quad, ok := buildQuad(p, IdentityTransform(), 1, AnimationData{}, false)
	require.True(t, ok)

	var minU, maxU uint16 = 65535, 0
	for _, v := range quad {
		if v.U < minU {
			minU = v.U
		}
		if v.U > maxU {
			maxU = v.U
		}
	}
	assert.Equal(t, uint16(0), minU)
	assert.Equal(t, uint16(65535), maxU)
}

func TestBuildQuad_AppliesInstanceTransformTranslation(t *testing.T) {
	p := &Particle{Size: 1, Position: mgl32.Vec2{0, 0}, Color: mgl32.Vec4{1, 1, 1, 1}}
	xform := Transform{Position: mgl32.Vec2{10, 20}, Scale: 1}
	quad, ok := buildQuad(p, xform, 1, AnimationData{}, false)
	require.True(t, ok)

	for _, v := range quad {
		assert.InDelta(t, 10.0, v.X, 1.0)
		assert.InDelta(t, 20.0, v.Y, 1.0)
	}
}

// Mirrors the original VerifyVertexDims scenario (tile_width=2, tile_height=3,
// size=1): the longer tile axis keeps the full particle size, the shorter
// axis shrinks by the tile's aspect ratio, never the other way around.
func TestBuildQuad_NonSquareTileShrinksShorterAxis(t *testing.T) {
	p := &Particle{Size: 1, Position: mgl32.Vec2{0, 0}, Color: mgl32.Vec4{1, 1, 1, 1}, TileIndex: 1}
	anim := AnimationData{TexCoords: []float32{0, 0, 1, 1}, TileWidth: 2, TileHeight: 3}
	quad, ok := buildQuad(p, IdentityTransform(), 1, anim, true)
	require.True(t, ok)

	width := mgl32.Vec2{quad[0].X, quad[0].Y}.Sub(mgl32.Vec2{quad[2].X, quad[2].Y}).Len()
	height := mgl32.Vec2{quad[0].X, quad[0].Y}.Sub(mgl32.Vec2{quad[1].X, quad[1].Y}).Len()

	assert.InDelta(t, 2.0/3.0, width, 0.0001)
	assert.InDelta(t, 1.0, height, 0.0001)
}

func TestBuildQuad_WideTileShrinksHeight(t *testing.T) {
	p := &Particle{Size: 1, Position: mgl32.Vec2{0, 0}, Color: mgl32.Vec4{1, 1, 1, 1}, TileIndex: 1}
	anim := AnimationData{TexCoords: []float32{0, 0, 1, 1}, TileWidth: 4, TileHeight: 2}
	quad, ok := buildQuad(p, IdentityTransform(), 1, anim, true)
	require.True(t, ok)

	width := mgl32.Vec2{quad[0].X, quad[0].Y}.Sub(mgl32.Vec2{quad[2].X, quad[2].Y}).Len()
	height := mgl32.Vec2{quad[0].X, quad[0].Y}.Sub(mgl32.Vec2{quad[1].X, quad[1].Y}).Len()

	assert.InDelta(t, 1.0, width, 0.0001)
	assert.InDelta(t, 0.5, height, 0.0001)
}

// Mirrors the original VerifyVertexTexCoords scenario: the particle vertices
// are ordered like an "N" — v0 lower-left, v1 upper-left, v2 lower-right,
// v3 lower-right, v4 upper-left, v5 upper-right.
func TestBuildQuad_VertexOrderMatchesNWinding(t *testing.T) {
	p := &Particle{Size: 1, Position: mgl32.Vec2{0, 0}, Color: mgl32.Vec4{1, 1, 1, 1}, TileIndex: 1}
	anim := AnimationData{TexCoords: []float32{0.25, 0.5, 0.75, 1.0}}
	quad, ok := buildQuad(p, IdentityTransform(), 1, anim, true)
	require.True(t, ok)

	u0, v0, u1, v1 := quantizeUV(0.25), quantizeUV(0.5), quantizeUV(0.75), quantizeUV(1.0)
	want := [6][2]uint16{{u0, v1}, {u0, v0}, {u1, v1}, {u1, v1}, {u0, v0}, {u1, v0}}
	for i, w := range want {
		assert.Equal(t, w[0], quad[i].U, "vertex %d U", i)
		assert.Equal(t, w[1], quad[i].V, "vertex %d V", i)
	}

	assert.Less(t, quad[0].Y, quad[1].Y, "v0 (lower-left) must be below v1 (upper-left)")
	assert.Greater(t, quad[2].X, quad[0].X, "v2 (lower-right) must be right of v0 (lower-left)")
}

func TestBuildQuad_MissingTileSkipsGeometry(t *testing.T) {
	p := &Particle{Size: 1, TileIndex: 0, Color: mgl32.Vec4{1, 1, 1, 1}}
	anim := AnimationData{TexCoords: []float32{0, 0, 1, 1}}
	_, ok := buildQuad(p, IdentityTransform(), 1, anim, true)
	assert.False(t, ok)
}

func TestPremultiplyColor_ScalesRGBByAlpha(t *testing.T) {
	c := premultiplyColor(mgl32.Vec4{1, 1, 1, 0.5})
	assert.Equal(t, uint8(127), c[0])
	assert.Equal(t, uint8(127), c[3])
}

func TestQuantizeUV_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, uint16(0), quantizeUV(-1))
	assert.Equal(t, uint16(65535), quantizeUV(2))
}

func TestQuantizeByte_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, uint8(0), quantizeByte(-1))
	assert.Equal(t, uint8(255), quantizeByte(2))
}
