package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/fieldplot/pkg/math"
)

// quad builds an upward-facing unit quad at height y, origin at (10, y, 10).
func quad(y float32) *Mesh {
	m := New(math.V3(10, y, 10), 4, 2)
	a := m.AddVertex(math.V3(10, y, 10), math.Vec2{X: 0, Y: 0})
	b := m.AddVertex(math.V3(11, y, 10), math.Vec2{X: 1, Y: 0})
	c := m.AddVertex(math.V3(11, y, 11), math.Vec2{X: 1, Y: 1})
	d := m.AddVertex(math.V3(10, y, 11), math.Vec2{X: 0, Y: 1})
	m.AddTriangle(a, c, b, false)
	m.AddTriangle(a, d, c, false)
	m.Finish()
	return m
}

func TestAddVertexIsLocal(t *testing.T) {
	m := quad(5)
	assert.Equal(t, math.Vec3{}, m.Vertices[0])
	assert.Equal(t, math.V3(1, 0, 1), m.Vertices[2])
	assert.Equal(t, math.V3(11, 5, 11), m.WorldVertices()[2])
}

func TestRecalculateNormalsFlat(t *testing.T) {
	m := quad(0)
	require.Len(t, m.Normals, 4)
	for i, n := range m.Normals {
		assert.True(t, n.ApproxEqual(math.Up, 1e-6), "normal %d = %v", i, n)
	}
}

func TestAddTriangleFlip(t *testing.T) {
	m := New(math.Vec3{}, 3, 1)
	a := m.AddVertex(math.V3(0, 0, 0), math.Vec2{})
	b := m.AddVertex(math.V3(0, 0, 1), math.Vec2{})
	c := m.AddVertex(math.V3(1, 0, 0), math.Vec2{})

	m.AddTriangle(a, b, c, false)
	up := m.FaceNormal(0)
	m.Triangles = m.Triangles[:0]
	m.AddTriangle(a, b, c, true)
	down := m.FaceNormal(0)

	assert.True(t, up.ApproxEqual(math.Up, 1e-6), "got %v", up)
	assert.True(t, down.ApproxEqual(math.Up.Scale(-1), 1e-6), "got %v", down)
}

func TestRecalculateNormalsAveragesSharedVertex(t *testing.T) {
	// Two faces folded along the Z axis: one tilted +X, one tilted -X.
	m := New(math.Vec3{}, 4, 2)
	a := m.AddVertex(math.V3(0, 1, 0), math.Vec2{})
	b := m.AddVertex(math.V3(0, 1, 1), math.Vec2{})
	l := m.AddVertex(math.V3(-1, 0, 0), math.Vec2{})
	r := m.AddVertex(math.V3(1, 0, 0), math.Vec2{})
	m.AddTriangle(a, l, b, false)
	m.AddTriangle(a, b, r, false)
	m.RecalculateNormals()

	assert.InDelta(t, 0, m.Normals[a].X, 1e-5)
	assert.Greater(t, m.Normals[a].Y, float32(0.9))
	assert.Less(t, m.Normals[l].X, float32(0))
	assert.Greater(t, m.Normals[r].X, float32(0))
}

func TestBounds(t *testing.T) {
	m := quad(3)
	assert.Equal(t, math.Vec3{}, m.Bounds.Min)
	assert.Equal(t, math.V3(1, 0, 1), m.Bounds.Max)
	assert.Equal(t, math.V3(10, 3, 10), m.WorldBounds().Min)
	assert.False(t, m.Bounds.IsEmpty())
	assert.True(t, EmptyBounds().IsEmpty())
	assert.Equal(t, math.V3(0.5, 0, 0.5), m.Bounds.Center())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, quad(0).Validate())

	bad := quad(0)
	bad.Triangles = append(bad.Triangles, 0, 1, 9)
	assert.True(t, errors.Is(bad.Validate(), ErrMalformed))

	short := quad(0)
	short.UVs = short.UVs[:3]
	assert.True(t, errors.Is(short.Validate(), ErrMalformed))

	partial := quad(0)
	partial.Triangles = partial.Triangles[:4]
	assert.True(t, errors.Is(partial.Validate(), ErrMalformed))
}

func TestInterleave(t *testing.T) {
	m := quad(0)
	data := m.Interleave()
	require.Len(t, data, 4*FloatsPerVertex)

	// Vertex 2: position (1,0,1), normal up, uv (1,1).
	v := data[2*FloatsPerVertex : 3*FloatsPerVertex]
	assert.Equal(t, []float32{1, 0, 1, 0, 1, 0, 1, 1}, v)
}

func TestRecalculateNormalsIsolatedVertex(t *testing.T) {
	build := func(flip bool) *Mesh {
		m := New(math.Vec3{}, 4, 1)
		a := m.AddVertex(math.V3(0, 0, 0), math.Vec2{})
		b := m.AddVertex(math.V3(0, 0, 1), math.Vec2{})
		c := m.AddVertex(math.V3(1, 0, 0), math.Vec2{})
		m.AddVertex(math.V3(5, 0, 5), math.Vec2{})
		m.AddTriangle(a, b, c, flip)
		m.RecalculateNormals()
		return m
	}

	up := build(false)
	assert.True(t, up.Normals[3].ApproxEqual(math.Up, 1e-6), "got %v", up.Normals[3])

	down := build(true)
	assert.True(t, down.Normals[0].ApproxEqual(math.Up.Scale(-1), 1e-6), "got %v", down.Normals[0])
	assert.True(t, down.Normals[3].ApproxEqual(math.Up.Scale(-1), 1e-6), "got %v", down.Normals[3])
}
