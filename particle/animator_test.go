package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnimateParticle_NoneAlwaysUsesStartTile(t *testing.T) {
	p := &Particle{}
	data := AnimationData{StartTile: 3, EndTile: 7, Playback: AnimNone}
	animateParticle(p, data, 0.5)
	assert.Equal(t, int32(3), p.TileIndex)
}

func TestAnimateParticle_OnceForwardAdvancesWithAge(t *testing.T) {
	p := &Particle{}
	data := AnimationData{StartTile: 1, EndTile: 4, Playback: AnimOnceForward}
	animateParticle(p, data, 0.0)
	assert.Equal(t, int32(1), p.TileIndex)

	animateParticle(p, data, 0.99)
	assert.Equal(t, int32(4), p.TileIndex)
}

func TestAnimateParticle_OnceBackwardReversesTileOrder(t *testing.T) {
	p := &Particle{}
	data := AnimationData{StartTile: 1, EndTile: 4, Playback: AnimOnceBackward}
	animateParticle(p, data, 0.0)
	assert.Equal(t, int32(4), p.TileIndex)
}

func TestAnimateParticle_LoopForwardWrapsByElapsedTimeAndFPS(t *testing.T) {
	p := &Particle{MaxLife: 2}
	data := AnimationData{StartTile: 1, EndTile: 2, FPS: 1, Playback: AnimLoopForward}
	// n=2 tiles; elapsed=tp*MaxLife. At tp=0 elapsed=0 -> tile 1.
	animateParticle(p, data, 0.0)
	assert.Equal(t, int32(1), p.TileIndex)
	// At tp=0.5, elapsed=1.0s * 1fps = idx 1 -> tile 2.
	animateParticle(p, data, 0.5)
	assert.Equal(t, int32(2), p.TileIndex)
	// At tp=1.0, elapsed=2.0s * 1fps = idx 2 % 2 = 0 -> tile 1 again.
	animateParticle(p, data, 1.0)
	assert.Equal(t, int32(1), p.TileIndex)
}

func TestAnimateParticle_PingPongReflectsAtEnds(t *testing.T) {
	p := &Particle{MaxLife: 3}
	data := AnimationData{StartTile: 1, EndTile: 3, FPS: 1, Playback: AnimPingPong}
	// n=3, cycle=4. idx sequence over elapsed=0,1,2,3 is 0,1,2,3 -> tiles 1,2,3,2.
	animateParticle(p, data, 0.0)
	assert.Equal(t, int32(1), p.TileIndex)
	animateParticle(p, data, 2.0/3.0)
	assert.Equal(t, int32(3), p.TileIndex)
	animateParticle(p, data, 1.0)
	assert.Equal(t, int32(2), p.TileIndex)
}

func TestAnimateParticle_DegenerateSingleTileRangeNeverDivides(t *testing.T) {
	p := &Particle{MaxLife: 1}
	data := AnimationData{StartTile: 5, EndTile: 5, FPS: 10, Playback: AnimPingPong}
	assert.NotPanics(t, func() {
		animateParticle(p, data, 0.5)
	})
	assert.Equal(t, int32(5), p.TileIndex)
}

func TestAnimateParticle_InvertedRangeFallsBackToStartTile(t *testing.T) {
	p := &Particle{}
	data := AnimationData{StartTile: 9, EndTile: 3, Playback: AnimLoopForward}
	animateParticle(p, data, 0.5)
	assert.Equal(t, int32(9), p.TileIndex)
}

func TestTileTexCoords_ZeroTileIsNeverValid(t *testing.T) {
	data := AnimationData{TexCoords: []float32{0, 0, 1, 1}}
	_, _, _, _, ok := tileTexCoords(data, 0)
	assert.False(t, ok)
}

func TestTileTexCoords_OutOfBoundsIndexIsRejected(t *testing.T) {
	data := AnimationData{TexCoords: []float32{0, 0, 1, 1}}
	_, _, _, _, ok := tileTexCoords(data, 5)
	assert.False(t, ok)
}

func TestTileTexCoords_ValidOneBasedIndexReturnsItsQuad(t *testing.T) {
	data := AnimationData{TexCoords: []float32{0, 0, 0.5, 0.5, 0.5, 0.5, 1, 1}}
	u0, v0, u1, v1, ok := tileTexCoords(data, 2)
	assert.True(t, ok)
	assert.Equal(t, float32(0.5), u0)
	assert.Equal(t, float32(0.5), v0)
	assert.Equal(t, float32(1), u1)
	assert.Equal(t, float32(1), v1)
}
