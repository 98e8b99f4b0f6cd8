package particle

import (
	"encoding/binary"
	"math"
)

// Vertex is the 24-byte-per-vertex wire layout written into the caller's
// vertex buffer (spec.md §6): position (f32 x,y,z), UV quantized to 16-bit
// fixed point, and an alpha-premultiplied RGBA8 color. The trailing 4 bytes
// pad the struct from 20 to 24 bytes, a multiple of 8; GPU upload paths
// prefer buffers whose per-vertex stride is a multiple of 8.
type Vertex struct {
	X, Y, Z float32
	U, V    uint16
	R, G, B, A uint8
	_pad    uint32
}

const vertexSize = 24

// VertexBufferSize returns the number of bytes needed to hold n particles'
// worth of quads (spec.md §6: 6 vertices per particle).
func VertexBufferSize(n int) int {
	return 6 * n * vertexSize
}

// encode writes v into buf[offset:offset+24] in little-endian order.
func (v Vertex) encode(buf []byte, offset int) {
	binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(buf[offset+4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(buf[offset+8:], math.Float32bits(v.Z))
	binary.LittleEndian.PutUint16(buf[offset+12:], v.U)
	binary.LittleEndian.PutUint16(buf[offset+14:], v.V)
	buf[offset+16] = v.R
	buf[offset+17] = v.G
	buf[offset+18] = v.B
	buf[offset+19] = v.A
	binary.LittleEndian.PutUint32(buf[offset+20:], 0)
}
