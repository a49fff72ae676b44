package render

import (
	"encoding/binary"
	"math"
)

// vertexStride matches the glyph pipeline's vertex layout: position
// vec2, uv vec2, color vec4, 32 bytes total.
const vertexStride = 32

// DrawList accumulates textured quads for one frame. Vertices are
// serialized ready for a vertex buffer upload; indices follow the
// 0,1,2 2,3,0 pattern per quad as uint32.
type DrawList struct {
	vertices []byte
	indices  []byte
	quads    int
}

// Quads returns the number of quads recorded.
func (dl *DrawList) Quads() int { return dl.quads }

// Vertices returns the serialized vertex data, 4 vertices per quad.
func (dl *DrawList) Vertices() []byte { return dl.vertices }

// Indices returns the serialized uint32 index data, 6 per quad.
func (dl *DrawList) Indices() []byte { return dl.indices }

// IndexCount returns the number of indices to draw.
func (dl *DrawList) IndexCount() int { return dl.quads * 6 }

// Reset clears the list, keeping capacity for the next frame.
func (dl *DrawList) Reset() {
	dl.vertices = dl.vertices[:0]
	dl.indices = dl.indices[:0]
	dl.quads = 0
}

// AppendQuad records one axis-aligned quad. Positions are NDC corners
// (x0,y0 top-left, x1,y1 bottom-right), UVs address the atlas texture.
func (dl *DrawList) AppendQuad(x0, y0, x1, y1, u0, v0, u1, v1 float32, color RGBA) {
	base := uint32(dl.quads * 4)
	dl.appendVertex(x0, y0, u0, v0, color)
	dl.appendVertex(x1, y0, u1, v0, color)
	dl.appendVertex(x1, y1, u1, v1, color)
	dl.appendVertex(x0, y1, u0, v1, color)

	for _, idx := range [6]uint32{0, 1, 2, 2, 3, 0} {
		dl.indices = binary.LittleEndian.AppendUint32(dl.indices, base+idx)
	}
	dl.quads++
}

func (dl *DrawList) appendVertex(x, y, u, v float32, color RGBA) {
	for _, f := range [8]float32{x, y, u, v, color[0], color[1], color[2], color[3]} {
		dl.vertices = binary.LittleEndian.AppendUint32(dl.vertices, math.Float32bits(f))
	}
}
