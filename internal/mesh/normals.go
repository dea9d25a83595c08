package mesh

import "github.com/Faultbox/fieldplot/pkg/math"

// RecalculateNormals sets each vertex normal to the normalized sum of the
// face normals of the triangles sharing it. Faces are weighted by area.
// Vertices with no usable faces get world up, or world down when the mesh as
// a whole faces down.
func (m *Mesh) RecalculateNormals() {
	sums := make([]math.Vec3, len(m.Vertices))
	var total math.Vec3
	for i := 0; i < m.TriangleCount(); i++ {
		ia, ib, ic := m.Triangles[i*3], m.Triangles[i*3+1], m.Triangles[i*3+2]
		a, b, c := m.Vertices[ia], m.Vertices[ib], m.Vertices[ic]
		face := b.Sub(a).Cross(c.Sub(a))
		sums[ia] = sums[ia].Add(face)
		sums[ib] = sums[ib].Add(face)
		sums[ic] = sums[ic].Add(face)
		total = total.Add(face)
	}

	fallback := math.Up
	if total.Y < 0 {
		fallback = math.Up.Scale(-1)
	}

	m.Normals = make([]math.Vec3, len(m.Vertices))
	for i, s := range sums {
		if s.Length() < 1e-8 {
			m.Normals[i] = fallback
			continue
		}
		m.Normals[i] = s.Normalize()
	}
}

// Interleave packs position, normal and UV per vertex for a GPU vertex
// buffer: 8 floats per vertex.
func (m *Mesh) Interleave() []float32 {
	if m.Normals == nil {
		m.RecalculateNormals()
	}
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for i, v := range m.Vertices {
		n := m.Normals[i]
		uv := m.UVs[i]
		out = append(out, v.X, v.Y, v.Z, n.X, n.Y, n.Z, uv.X, uv.Y)
	}
	return out
}

// FloatsPerVertex is the stride of Interleave in floats.
const FloatsPerVertex = 8
