package debug

import (
	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// BoundsWireframe creates line vertices for a wireframe box expanded by padding.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
func BoundsWireframe(b mesh.Bounds, padding float32) []float32 {
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	lo := b.Min.Sub(pad)
	hi := b.Max.Add(pad)
	minX, minY, minZ := lo.X, lo.Y, lo.Z
	maxX, maxY, maxZ := hi.X, hi.Y, hi.Z

	return []float32{
		// Bottom face (4 edges)
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face (4 edges)
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges (4 edges)
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding is the default padding for selection boxes.
const DefaultBBoxPadding = 0.25

// Polyline creates GL_LINES vertices joining consecutive points, lifted by
// lift so the line is not hidden by the surface under it. A closed polyline
// also joins the last point back to the first.
func Polyline(points []math.Vec3, closed bool, lift float32) []float32 {
	n := len(points)
	if n < 2 {
		return nil
	}
	segments := n - 1
	if closed && n > 2 {
		segments = n
	}
	out := make([]float32, 0, segments*6)
	for i := 0; i < segments; i++ {
		a := points[i]
		b := points[(i+1)%n]
		out = append(out, a.X, a.Y+lift, a.Z, b.X, b.Y+lift, b.Z)
	}
	return out
}
