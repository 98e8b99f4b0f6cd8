package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_PushRespectsCapacity(t *testing.T) {
	p := newPool(2)
	assert.True(t, p.push(Particle{SortKey: 1}))
	assert.True(t, p.push(Particle{SortKey: 2}))
	assert.False(t, p.push(Particle{SortKey: 3}))
	assert.Equal(t, 2, p.liveCount())
}

func TestPool_RemoveSwapsWithTail(t *testing.T) {
	p := newPool(3)
	p.push(Particle{SortKey: 1})
	p.push(Particle{SortKey: 2})
	p.push(Particle{SortKey: 3})

	p.remove(0)
	require.Equal(t, 2, p.liveCount())
	assert.Equal(t, float32(3), p.particles[0].SortKey)
	assert.Equal(t, float32(2), p.particles[1].SortKey)
}

func TestPool_SortByKeyIsStableForTies(t *testing.T) {
	p := newPool(4)
	p.push(Particle{SortKey: 1, TileIndex: 1})
	p.push(Particle{SortKey: 1, TileIndex: 2})
	p.push(Particle{SortKey: 0, TileIndex: 3})

	p.sortByKey()

	require.Equal(t, 3, p.liveCount())
	assert.Equal(t, int32(3), p.particles[0].TileIndex)
	assert.Equal(t, int32(1), p.particles[1].TileIndex)
	assert.Equal(t, int32(2), p.particles[2].TileIndex)
}

func TestPool_ResizePreservingTruncatesTail(t *testing.T) {
	p := newPool(4)
	for i := 0; i < 4; i++ {
		p.push(Particle{SortKey: float32(i)})
	}
	p.resizePreserving(2)
	assert.Equal(t, 2, p.capacity())
	assert.Equal(t, 2, p.liveCount())
	assert.Equal(t, float32(0), p.particles[0].SortKey)
	assert.Equal(t, float32(1), p.particles[1].SortKey)
}

func TestPool_ResizePreservingGrows(t *testing.T) {
	p := newPool(1)
	p.push(Particle{SortKey: 9})
	p.resizePreserving(5)
	assert.Equal(t, 5, p.capacity())
	assert.Equal(t, 1, p.liveCount())
	assert.Equal(t, float32(9), p.particles[0].SortKey)
}
