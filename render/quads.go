package render

import "github.com/chewxy/math32"

// MaxBatchVertices keeps every quad index addressable by a uint16.
const MaxBatchVertices = 65532

// QuadVertex is a screen-space vertex of an expanded line.
type QuadVertex struct {
	X, Y float32
}

// QuadBatch is one triangle list whose indices fit in uint16.
type QuadBatch struct {
	Vertices []QuadVertex
	Indices  []uint16
}

// Quads expands every line of m into a screen-space quad of the given pixel width on a
// w×h target. Zero-length lines produce nothing.
func Quads(m *LineMesh, w, h int, width float32) []QuadBatch {
	if m == nil || w <= 0 || h <= 0 {
		return nil
	}
	if width <= 0 {
		width = 1
	}
	half := width / 2

	var batches []QuadBatch
	var cur QuadBatch
	for i := 0; i < m.LineCount(); i++ {
		a, b, ok := m.Line(i)
		if !ok {
			continue
		}
		x0, y0 := NDCToScreen(a, w, h)
		x1, y1 := NDCToScreen(b, w, h)
		dx, dy := x1-x0, y1-y0
		l := math32.Hypot(dx, dy)
		if l < 1e-6 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half

		if len(cur.Vertices)+4 > MaxBatchVertices {
			batches = append(batches, cur)
			cur = QuadBatch{}
		}
		base := uint16(len(cur.Vertices))
		cur.Vertices = append(cur.Vertices,
			QuadVertex{X: x0 + nx, Y: y0 + ny},
			QuadVertex{X: x0 - nx, Y: y0 - ny},
			QuadVertex{X: x1 + nx, Y: y1 + ny},
			QuadVertex{X: x1 - nx, Y: y1 - ny},
		)
		cur.Indices = append(cur.Indices, base, base+1, base+2, base+1, base+3, base+2)
	}
	if len(cur.Vertices) > 0 {
		batches = append(batches, cur)
	}
	return batches
}
