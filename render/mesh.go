package render

import "snowflake/koch"

// LineMesh is the vertex/index buffer pair for one snowflake depth.
//
// Points holds x,y pairs in NDC. Indices holds vertex index pairs, each pair one line.
type LineMesh struct {
	Depth   int
	Points  []float32
	Indices []uint32
}

// BuildLineMesh generates the snowflake at depth and connects consecutive vertices.
func BuildLineMesh(depth int, tri koch.Triangle) *LineMesh {
	if depth < 0 {
		depth = 0
	}
	pts := koch.Snowflake(depth, tri)
	return &LineMesh{
		Depth:   depth,
		Points:  pts,
		Indices: koch.Indices(len(pts) / 2),
	}
}

func (m *LineMesh) VertexCount() int { return len(m.Points) / 2 }
func (m *LineMesh) IndexCount() int  { return len(m.Indices) }
func (m *LineMesh) LineCount() int   { return len(m.Indices) / 2 }

// Vertex returns vertex i.
func (m *LineMesh) Vertex(i int) koch.Point {
	return koch.Point{X: m.Points[2*i], Y: m.Points[2*i+1]}
}

// Line returns the endpoints of line i. ok is false when the line references a vertex
// outside the buffer.
func (m *LineMesh) Line(i int) (a, b koch.Point, ok bool) {
	i0 := int(m.Indices[2*i])
	i1 := int(m.Indices[2*i+1])
	n := m.VertexCount()
	if i0 >= n || i1 >= n {
		return koch.Point{}, koch.Point{}, false
	}
	return m.Vertex(i0), m.Vertex(i1), true
}

// NDCToScreen maps normalized device coordinates onto a w×h pixel grid with y down.
func NDCToScreen(p koch.Point, w, h int) (x, y float32) {
	x = (p.X*0.5 + 0.5) * float32(w)
	y = (1 - (p.Y*0.5 + 0.5)) * float32(h)
	return x, y
}
