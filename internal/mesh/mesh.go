// Package mesh holds the vertex, index and UV buffers produced by the shape
// builders and the terrain, ready for upload.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/fieldplot/pkg/math"
)

// ErrMalformed is returned by Validate for inconsistent buffers.
var ErrMalformed = errors.New("malformed mesh")

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyBounds returns inverted bounds that any Extend call replaces.
func EmptyBounds() Bounds {
	return Bounds{
		Min: math.Vec3{X: 1e30, Y: 1e30, Z: 1e30},
		Max: math.Vec3{X: -1e30, Y: -1e30, Z: -1e30},
	}
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p math.Vec3) {
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Min.Z = min(b.Min.Z, p.Z)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
	b.Max.Z = max(b.Max.Z, p.Z)
}

// IsEmpty reports whether b contains no points.
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X
}

// Size returns the extent along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Lerp(b.Max, 0.5)
}

// Translate returns b moved by offset.
func (b Bounds) Translate(offset math.Vec3) Bounds {
	return Bounds{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Mesh is a triangle mesh in local space relative to Origin. Each finalize
// produces a fresh Mesh; uploaded meshes are not mutated afterwards.
type Mesh struct {
	Origin    math.Vec3   // World position the local vertices are relative to
	Vertices  []math.Vec3 // Local positions
	Triangles []uint32    // Index triples
	UVs       []math.Vec2 // One per vertex
	Normals   []math.Vec3 // One per vertex, filled by RecalculateNormals
	Bounds    Bounds      // Local bounds, filled by RecalculateBounds

	// MissedSamples counts vertices whose ground projection missed and that
	// sit at a fallback position.
	MissedSamples int
}

// New creates an empty mesh with capacity for the given counts.
func New(origin math.Vec3, vertices, triangles int) *Mesh {
	return &Mesh{
		Origin:    origin,
		Vertices:  make([]math.Vec3, 0, vertices),
		UVs:       make([]math.Vec2, 0, vertices),
		Triangles: make([]uint32, 0, triangles*3),
	}
}

// AddVertex appends a vertex given in world space and returns its index.
func (m *Mesh) AddVertex(world math.Vec3, uv math.Vec2) uint32 {
	m.Vertices = append(m.Vertices, world.Sub(m.Origin))
	m.UVs = append(m.UVs, uv)
	return uint32(len(m.Vertices) - 1)
}

// AddTriangle appends triangle (a, b, c), or (a, c, b) when flip is set.
func (m *Mesh) AddTriangle(a, b, c uint32, flip bool) {
	if flip {
		b, c = c, b
	}
	m.Triangles = append(m.Triangles, a, b, c)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// Triangle returns the local positions of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c math.Vec3) {
	return m.Vertices[m.Triangles[i*3]], m.Vertices[m.Triangles[i*3+1]], m.Vertices[m.Triangles[i*3+2]]
}

// FaceNormal returns the unit normal of triangle i following its winding.
func (m *Mesh) FaceNormal(i int) math.Vec3 {
	a, b, c := m.Triangle(i)
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// WorldVertices returns the vertices translated to world space.
func (m *Mesh) WorldVertices() []math.Vec3 {
	out := make([]math.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Add(m.Origin)
	}
	return out
}

// WorldBounds returns Bounds translated to world space.
func (m *Mesh) WorldBounds() Bounds {
	return m.Bounds.Translate(m.Origin)
}

// Finish recomputes normals and bounds after assembly.
func (m *Mesh) Finish() {
	m.RecalculateNormals()
	m.RecalculateBounds()
}

// RecalculateBounds recomputes the local bounding box.
func (m *Mesh) RecalculateBounds() {
	b := EmptyBounds()
	for _, v := range m.Vertices {
		b.Extend(v)
	}
	m.Bounds = b
}

// Validate checks buffer consistency: whole triangles, in-range indices and
// one UV per vertex.
func (m *Mesh) Validate() error {
	if len(m.Triangles)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrMalformed, len(m.Triangles))
	}
	if len(m.UVs) != len(m.Vertices) {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrMalformed, len(m.UVs), len(m.Vertices))
	}
	if m.Normals != nil && len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrMalformed, len(m.Normals), len(m.Vertices))
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Triangles {
		if idx >= n {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrMalformed, idx, i, n)
		}
	}
	return nil
}
