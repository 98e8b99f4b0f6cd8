package particle

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVertexBufferSize_IsSixVerticesTimesStride(t *testing.T) {
	assert.Equal(t, 6*24, VertexBufferSize(1))
	assert.Equal(t, 6*24*10, VertexBufferSize(10))
}

func TestVertex_EncodeRoundTripsPosition(t *testing.T) {
	buf := make([]byte, vertexSize)
	v := Vertex{X: 1.5, Y: -2.5, Z: 0.25, U: 1000, V: 2000, R: 10, G: 20, B: 30, A: 40}
	v.encode(buf, 0)

	x := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:]))
	y := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:]))
	z := math.Float32frombits(binary.LittleEndian.Uint32(buf[8:]))
	assert.Equal(t, float32(1.5), x)
	assert.Equal(t, float32(-2.5), y)
	assert.Equal(t, float32(0.25), z)
}

func TestVertex_EncodeRoundTripsUVAndColor(t *testing.T) {
	buf := make([]byte, vertexSize)
	v := Vertex{U: 1000, V: 2000, R: 10, G: 20, B: 30, A: 40}
	v.encode(buf, 0)

	assert.Equal(t, uint16(1000), binary.LittleEndian.Uint16(buf[12:]))
	assert.Equal(t, uint16(2000), binary.LittleEndian.Uint16(buf[14:]))
	assert.Equal(t, byte(10), buf[16])
	assert.Equal(t, byte(20), buf[17])
	assert.Equal(t, byte(30), buf[18])
	assert.Equal(t, byte(40), buf[19])
}

func TestVertex_EncodeAtNonZeroOffsetDoesNotClobberNeighbors(t *testing.T) {
	buf := make([]byte, vertexSize*2)
	for i := range buf {
		buf[i] = 0xFF
	}
	v := Vertex{}
	v.encode(buf, vertexSize)
	for i := 0; i < vertexSize; i++ {
		assert.Equal(t, byte(0xFF), buf[i], "byte %d before offset should be untouched", i)
	}
}
