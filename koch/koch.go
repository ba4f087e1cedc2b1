// Package koch generates Koch curve and snowflake geometry.
//
// All coordinates are float32 normalized device coordinates (x right, y up). The output
// is a flat vertex stream laid out the way it is uploaded to a GPU vertex buffer:
// x0, y0, x1, y1, ... with every depth-0 segment emitted as its two endpoints.
package koch

import "github.com/chewxy/math32"

// Point is a 2D point in normalized device coordinates.
type Point struct {
	X, Y float32
}

func P(x, y float32) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point   { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point   { return Point{X: p.X - q.X, Y: p.Y - q.Y} }
func (p Point) Mul(s float32) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Triangle holds the three snowflake anchors, walked a→b→c→a.
type Triangle [3]Point

// DefaultTriangle is a downward-pointing triangle that fits the unit viewport.
var DefaultTriangle = Triangle{P(-0.9, 0.5), P(0.9, 0.5), P(0, -0.9)}

// MaxDepth bounds the recursion; at depth 10 a snowflake already has 3·4^10 segments.
const MaxDepth = 10

// sin60 is the height of an equilateral triangle with unit side.
var sin60 = math32.Sqrt(3) / 2

// Curve appends the Koch curve from a to b at the given depth to dst and returns the
// extended slice. A negative depth is treated as 0.
func Curve(dst []float32, depth int, a, b Point) []float32 {
	if depth <= 0 {
		return append(dst, a.X, a.Y, b.X, b.Y)
	}

	d := b.Sub(a).Mul(1.0 / 3)
	p1 := a.Add(d)
	// Middle third rotated by +60° about p1: the peak of the bump.
	p2 := Point{
		X: a.X + 1.5*d.X - sin60*d.Y,
		Y: a.Y + sin60*d.X + 1.5*d.Y,
	}
	p3 := a.Add(d.Mul(2))

	dst = Curve(dst, depth-1, a, p1)
	dst = Curve(dst, depth-1, p1, p2)
	dst = Curve(dst, depth-1, p2, p3)
	return Curve(dst, depth-1, p3, b)
}

// Snowflake returns the three curves a→b, b→c and c→a of t at the given depth.
func Snowflake(depth int, t Triangle) []float32 {
	if depth < 0 {
		depth = 0
	}
	out := make([]float32, 0, FloatCount(depth))
	out = Curve(out, depth, t[0], t[1])
	out = Curve(out, depth, t[1], t[2])
	return Curve(out, depth, t[2], t[0])
}

// SegmentCount returns the number of depth-0 segments of a snowflake.
func SegmentCount(depth int) int {
	if depth < 0 {
		depth = 0
	}
	return 3 << (2 * uint(depth))
}

// VertexCount returns the number of 2D vertices Snowflake emits.
func VertexCount(depth int) int { return 2 * SegmentCount(depth) }

// FloatCount returns len(Snowflake(depth, t)).
func FloatCount(depth int) int { return 2 * VertexCount(depth) }

// Indices connects consecutive vertices pairwise: (0,1), (1,2), ... (n-2,n-1).
func Indices(vertexCount int) []uint32 {
	if vertexCount < 2 {
		return []uint32{}
	}
	out := make([]uint32, 0, 2*(vertexCount-1))
	for i := 0; i < vertexCount-1; i++ {
		out = append(out, uint32(i), uint32(i+1))
	}
	return out
}
