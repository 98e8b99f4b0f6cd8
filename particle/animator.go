package particle

import "math"

// PlaybackMode selects a flipbook animation's playback style (spec.md §4.9).
type PlaybackMode int

const (
	AnimNone PlaybackMode = iota
	AnimOnceForward
	AnimOnceBackward
	AnimLoopForward
	AnimLoopBackward
	AnimPingPong
)

// FetchAnimationResult is the outcome of a host FetchAnimation callback.
type FetchAnimationResult int

const (
	FetchAnimationOK FetchAnimationResult = iota
	FetchAnimationNotFound
	FetchAnimationUnknownError
)

// AnimationData is what the host's FetchAnimation callback returns (spec.md §6).
type AnimationData struct {
	Texture      any
	TexCoords    []float32 // (tile-1)*4 : (tile-1)*4+4 -> u0,v0,u1,v1 for 1-based tile
	TileWidth    uint32
	TileHeight   uint32
	StartTile    uint32 // 1-based
	EndTile      uint32 // 1-based, inclusive
	FPS          float32
	Playback     PlaybackMode
}

// FetchAnimationFunc is the host callback mapping a tile source + animation
// name hash to flipbook metadata.
type FetchAnimationFunc func(tileSource any, animationHash uint64) (AnimationData, FetchAnimationResult)

// animate updates p.TileIndex for one particle given fetched flipbook data
// (spec.md §4.9 table). tileIndex is 0 when no animation applies (no tile
// source, or the fetch failed) — the particle is still simulated but
// rendered with no tile (no vertices are emitted for it by the renderer).
func animateParticle(p *Particle, data AnimationData, tp float32) {
	n := int(data.EndTile) - int(data.StartTile) + 1
	if n <= 0 {
		p.TileIndex = int32(data.StartTile)
		return
	}

	switch data.Playback {
	case AnimNone:
		p.TileIndex = int32(data.StartTile)

	case AnimOnceForward:
		idx := int(math.Floor(float64(tp) * float64(n)))
		if idx >= n {
			idx = n - 1
		}
		p.TileIndex = int32(data.StartTile) + int32(idx)

	case AnimOnceBackward:
		idx := int(math.Floor(float64(tp) * float64(n)))
		if idx >= n {
			idx = n - 1
		}
		p.TileIndex = int32(data.EndTile) - int32(idx)

	case AnimLoopForward:
		elapsed := tp * p.MaxLife
		idx := int(math.Floor(float64(elapsed)*float64(data.FPS))) % n
		p.TileIndex = int32(data.StartTile) + int32(idx)

	case AnimLoopBackward:
		elapsed := tp * p.MaxLife
		idx := int(math.Floor(float64(elapsed)*float64(data.FPS))) % n
		p.TileIndex = int32(data.EndTile) - int32(idx)

	case AnimPingPong:
		cycle := 2 * (n - 1)
		if cycle <= 0 {
			p.TileIndex = int32(data.StartTile)
			return
		}
		elapsed := tp * p.MaxLife
		idx := int(math.Floor(float64(elapsed)*float64(data.FPS))) % cycle
		if idx < n {
			p.TileIndex = int32(data.StartTile) + int32(idx)
		} else {
			p.TileIndex = int32(data.EndTile) - int32(idx-(n-1))
		}
	}
}

// tileTexCoords returns (u0, v0, u1, v1) for a 1-based tile index.
func tileTexCoords(data AnimationData, tile int32) (u0, v0, u1, v1 float32, ok bool) {
	if tile <= 0 {
		return 0, 0, 0, 0, false
	}
	idx := int(tile-1) * 4
	if idx+4 > len(data.TexCoords) {
		return 0, 0, 0, 0, false
	}
	return data.TexCoords[idx], data.TexCoords[idx+1], data.TexCoords[idx+2], data.TexCoords[idx+3], true
}
