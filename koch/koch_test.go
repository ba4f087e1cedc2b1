package koch

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = float32(1e-5)

// points unpacks a flat vertex stream.
func points(flat []float32) []Point {
	out := make([]Point, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		out = append(out, Point{X: flat[i], Y: flat[i+1]})
	}
	return out
}

func dist(p, q Point) float32 { return math32.Hypot(q.X-p.X, q.Y-p.Y) }

func near(p, q Point, eps float32) bool {
	return math32.Abs(p.X-q.X) <= eps && math32.Abs(p.Y-q.Y) <= eps
}

func centroid(t Triangle) Point { return t[0].Add(t[1]).Add(t[2]).Mul(1.0 / 3) }

func TestCurveDepthZeroEmitsEndpoints(t *testing.T) {
	got := Curve(nil, 0, P(-1, 0), P(1, 0))
	assert.Equal(t, []float32{-1, 0, 1, 0}, got)
}

func TestCurveNegativeDepthTerminates(t *testing.T) {
	got := Curve(nil, -3, P(0, 0), P(1, 1))
	assert.Equal(t, []float32{0, 0, 1, 1}, got)
	assert.Len(t, Snowflake(-1, DefaultTriangle), FloatCount(0))
}

func TestCurveDepthOne(t *testing.T) {
	got := points(Curve(nil, 1, P(0, 0), P(3, 0)))
	require.Len(t, got, 8)

	want := []Point{
		P(0, 0), P(1, 0),
		P(1, 0), P(1.5, sin60),
		P(1.5, sin60), P(2, 0),
		P(2, 0), P(3, 0),
	}
	for i := range want {
		assert.Truef(t, near(got[i], want[i], tol), "vertex %d: got %v want %v", i, got[i], want[i])
	}
}

func TestCurveSegmentsHaveEqualLength(t *testing.T) {
	a, b := P(-0.9, 0.5), P(0.9, 0.5)
	for depth := 0; depth <= 4; depth++ {
		pts := points(Curve(nil, depth, a, b))
		want := dist(a, b)
		for i := 0; i < depth; i++ {
			want /= 3
		}
		for i := 0; i+1 < len(pts); i += 2 {
			assert.InDeltaf(t, want, dist(pts[i], pts[i+1]), 1e-4, "depth %d segment %d", depth, i/2)
		}
	}
}

func TestCurveIsContinuous(t *testing.T) {
	a, b := P(0, 0), P(1, 0)
	pts := points(Curve(nil, 3, a, b))
	require.NotEmpty(t, pts)
	assert.Equal(t, a, pts[0])
	assert.True(t, near(pts[len(pts)-1], b, tol))
	for i := 1; i+1 < len(pts); i += 2 {
		assert.Truef(t, near(pts[i], pts[i+1], tol), "gap after segment %d", i/2)
	}
}

func TestCurveAppends(t *testing.T) {
	prefix := []float32{42, 43}
	got := Curve(prefix, 0, P(0, 0), P(1, 0))
	assert.Equal(t, []float32{42, 43, 0, 0, 1, 0}, got)
}

func TestSnowflakeCounts(t *testing.T) {
	tests := []struct {
		depth    int
		segments int
	}{
		{0, 3},
		{1, 12},
		{2, 48},
		{3, 192},
		{5, 3072},
	}
	for _, tt := range tests {
		flat := Snowflake(tt.depth, DefaultTriangle)
		assert.Equal(t, tt.segments, SegmentCount(tt.depth))
		assert.Len(t, flat, FloatCount(tt.depth))
		assert.Equal(t, 4*tt.segments, len(flat))
		assert.Equal(t, len(flat), cap(flat), "depth %d should not reallocate", tt.depth)
	}
}

func TestSnowflakeDepthZeroIsTriangle(t *testing.T) {
	tri := DefaultTriangle
	got := points(Snowflake(0, tri))
	assert.Equal(t, []Point{tri[0], tri[1], tri[1], tri[2], tri[2], tri[0]}, got)
}

func TestSnowflakeBumpsPointOutward(t *testing.T) {
	tri := DefaultTriangle
	c := centroid(tri)
	pts := points(Snowflake(1, tri))
	for edge := 0; edge < 3; edge++ {
		a, b := tri[edge], tri[(edge+1)%3]
		mid := a.Add(b).Mul(0.5)
		peak := pts[edge*8+3]
		assert.Greaterf(t, dist(peak, c), dist(mid, c), "edge %d bump points inward", edge)
	}
}

func TestIndices(t *testing.T) {
	assert.Empty(t, Indices(0))
	assert.Empty(t, Indices(1))
	assert.Equal(t, []uint32{0, 1}, Indices(2))
	assert.Equal(t, []uint32{0, 1, 1, 2, 2, 3}, Indices(4))

	idx := Indices(VertexCount(2))
	assert.Len(t, idx, 2*(VertexCount(2)-1))
	assert.Equal(t, uint32(VertexCount(2)-1), idx[len(idx)-1])
}

func BenchmarkSnowflake(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Snowflake(7, DefaultTriangle)
	}
}
