package shape

import (
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/ground"
	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// CircleRim returns the unprojected rim points of the circle around center
// passing through edge's horizontal distance, counter-clockwise by angle from
// +X, along with the radius.
func (b *Builder) CircleRim(center, edge math.Vec3) ([]math.Vec3, float32) {
	radius := center.HorizontalDistance(edge)
	segments := b.settings.CircleSegments

	rim := make([]math.Vec3, segments)
	for i := range rim {
		a := 2 * math32.Pi * float32(i) / float32(segments)
		rim[i] = math.Vec3{
			X: center.X + radius*math32.Cos(a),
			Y: center.Y,
			Z: center.Z + radius*math32.Sin(a),
		}
	}
	return rim, radius
}

// CircleSamples returns the center followed by the rim points, the positions
// slope validation checks for a circle.
func (b *Builder) CircleSamples(center, edge math.Vec3) []math.Vec3 {
	rim, _ := b.CircleRim(center, edge)
	return append([]math.Vec3{center}, rim...)
}

// Circle builds a triangle fan from the ground-projected center to a
// ground-projected rim.
func (b *Builder) Circle(center, edge math.Vec3) (*mesh.Mesh, error) {
	rim, radius := b.CircleRim(center, edge)
	if radius <= 0 {
		return nil, fmt.Errorf("circle radius %v: %w", radius, ErrDegenerateShape)
	}

	c := b.proj.Project(center)
	samples := make([]ground.Sample, len(rim))
	for i, p := range rim {
		samples[i] = b.proj.ProjectOr(p, p.WithY(c.Position.Y))
	}

	m := mesh.New(c.Position, len(rim)+1, len(rim))
	ci := m.AddVertex(c.Position, math.Vec2{X: 0.5, Y: 0.5})
	for i, s := range samples {
		a := 2 * math32.Pi * float32(i) / float32(len(rim))
		m.AddVertex(s.Position, math.Vec2{X: 0.5 + 0.5*math32.Cos(a), Y: 0.5 + 0.5*math32.Sin(a)})
	}

	// Rim runs counter-clockwise by angle, so (center, next, cur) faces up.
	n := uint32(len(rim))
	for i := uint32(0); i < n; i++ {
		cur := 1 + i
		next := 1 + (i+1)%n
		m.AddTriangle(ci, next, cur, b.settings.InvertNormals)
	}

	m.MissedSamples = ground.CountMisses(samples)
	if !c.Valid {
		m.MissedSamples++
	}
	m.Finish()

	b.log.Debug("circle built",
		zap.Float32("radius", radius),
		zap.Int("segments", len(rim)),
		zap.Int("missed", m.MissedSamples),
	)
	return m, nil
}
