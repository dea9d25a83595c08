package shape

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/ground"
	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/pkg/math"
	"github.com/Faultbox/fieldplot/pkg/spline"
)

// RingPolygon is the input of BuildRingPolygon: three rings of equal length
// from the outline inwards, and the centroid they were scaled towards.
type RingPolygon struct {
	Outer     []ground.Sample
	Inner     []ground.Sample
	Innermost []ground.Sample
	Centroid  ground.Sample

	// CloseToCentroid closes the hole with a fan to an extra centroid vertex
	// instead of a fan from the first innermost vertex.
	CloseToCentroid bool
}

// SignedArea returns the signed XZ area of the ring. It is positive when the
// ring turns from +X towards +Z.
func SignedArea(ring []ground.Sample) float32 {
	var sum float32
	for i := range ring {
		a := ring[i].Position
		b := ring[(i+1)%len(ring)].Position
		sum += a.X*b.Z - b.X*a.Z
	}
	return sum / 2
}

// BuildRingPolygon triangulates the three-ring polygon. Vertices are emitted
// as outer (0..N-1), inner (N..2N-1), innermost (2N..3N-1) and, when closing to
// the centroid, one last centroid vertex. Every triangle faces up regardless
// of the outline's direction, or down when invert is set.
func BuildRingPolygon(p RingPolygon, invert bool) (*mesh.Mesh, error) {
	n := len(p.Outer)
	if n < 3 {
		return nil, fmt.Errorf("ring of %d points: %w", n, ErrInsufficientPoints)
	}
	if len(p.Inner) != n || len(p.Innermost) != n {
		return nil, fmt.Errorf("outer %d, inner %d, innermost %d: %w",
			n, len(p.Inner), len(p.Innermost), ErrRingMismatch)
	}
	area := SignedArea(p.Outer)
	if area > -1e-6 && area < 1e-6 {
		return nil, fmt.Errorf("outline has no area: %w", ErrDegenerateShape)
	}
	// Strips and fans below follow the ring order, which faces down for a
	// positive-area ring.
	flip := (area > 0) != invert

	bounds := mesh.EmptyBounds()
	for _, ring := range [][]ground.Sample{p.Outer, p.Inner, p.Innermost} {
		for _, s := range ring {
			bounds.Extend(s.Position)
		}
	}
	size := bounds.Size()
	uv := func(v math.Vec3) math.Vec2 {
		var out math.Vec2
		if size.X > 0 {
			out.X = (v.X - bounds.Min.X) / size.X
		}
		if size.Z > 0 {
			out.Y = (v.Z - bounds.Min.Z) / size.Z
		}
		return out
	}

	vertices := 3 * n
	triangles := 4*n + n - 2
	if p.CloseToCentroid {
		vertices++
		triangles = 5 * n
	}
	m := mesh.New(p.Centroid.Position, vertices, triangles)
	for _, ring := range [][]ground.Sample{p.Outer, p.Inner, p.Innermost} {
		for _, s := range ring {
			m.AddVertex(s.Position, uv(s.Position))
		}
		m.MissedSamples += ground.CountMisses(ring)
	}

	u := uint32(n)
	strip := func(outer, inner uint32) {
		for i := uint32(0); i < u; i++ {
			next := (i + 1) % u
			m.AddTriangle(outer+i, outer+next, inner+i, flip)
			m.AddTriangle(outer+next, inner+next, inner+i, flip)
		}
	}
	strip(0, u)
	strip(u, 2*u)

	innermost := 2 * u
	if p.CloseToCentroid {
		c := m.AddVertex(p.Centroid.Position, uv(p.Centroid.Position))
		if !p.Centroid.Valid {
			m.MissedSamples++
		}
		for i := uint32(0); i < u; i++ {
			m.AddTriangle(c, innermost+i, innermost+(i+1)%u, flip)
		}
	} else {
		for i := uint32(1); i+1 < u; i++ {
			m.AddTriangle(innermost, innermost+i, innermost+i+1, flip)
		}
	}

	m.Finish()
	return m, nil
}

// Outline resamples control points along the closed spline and projects
// every sample onto the ground.
func (b *Builder) Outline(points []math.Vec3) []ground.Sample {
	return b.proj.ProjectAll(spline.Resample(points, b.settings.CurveSegmentsPerSpan, true))
}

// Freeform builds the three-ring polygon for a closed outline through the
// control points.
func (b *Builder) Freeform(points []math.Vec3) (*mesh.Mesh, error) {
	if len(points) < MinFreeformPoints {
		return nil, fmt.Errorf("freeform with %d points, need %d: %w",
			len(points), MinFreeformPoints, ErrInsufficientPoints)
	}

	outer := b.Outline(points)
	centroid := Centroid(outer, b.proj)

	s := b.settings
	rings, err := BuildRings(outer, centroid.Position, []float32{s.InnerLoopScale, s.InnermostLoopScale}, b.proj)
	if err != nil {
		return nil, err
	}

	m, err := BuildRingPolygon(RingPolygon{
		Outer:           outer,
		Inner:           rings[0],
		Innermost:       rings[1],
		Centroid:        centroid,
		CloseToCentroid: s.InnermostLoopScale < centroidEpsilon,
	}, s.InvertNormals)
	if err != nil {
		return nil, err
	}

	if m.MissedSamples > 0 {
		b.log.Warn("freeform samples missed ground", zap.Int("missed", m.MissedSamples))
	}
	b.log.Debug("freeform built",
		zap.Int("controlPoints", len(points)),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
	)
	return m, nil
}
