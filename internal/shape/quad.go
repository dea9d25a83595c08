package shape

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/ground"
	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// QuadCorners returns the four corners of the axis-aligned rectangle spanned
// by start and end, ordered (min,min) (max,min) (max,max) (min,max) on XZ.
// All corners share the ground height under start.
func (b *Builder) QuadCorners(start, end math.Vec3) ([4]math.Vec3, ground.Sample) {
	base := b.proj.Project(start)
	y := base.Position.Y

	x0, x1 := min(start.X, end.X), max(start.X, end.X)
	z0, z1 := min(start.Z, end.Z), max(start.Z, end.Z)
	return [4]math.Vec3{
		{X: x0, Y: y, Z: z0},
		{X: x1, Y: y, Z: z0},
		{X: x1, Y: y, Z: z1},
		{X: x0, Y: y, Z: z1},
	}, base
}

// Quad builds the two-triangle rectangle between start and end.
func (b *Builder) Quad(start, end math.Vec3) (*mesh.Mesh, error) {
	corners, base := b.QuadCorners(start, end)
	size := corners[2].Sub(corners[0])
	if size.X == 0 || size.Z == 0 {
		return nil, fmt.Errorf("quad %vx%v: %w", size.X, size.Z, ErrDegenerateShape)
	}

	m := mesh.New(corners[0].Lerp(corners[2], 0.5), 4, 2)
	uvs := [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	for i, c := range corners {
		m.AddVertex(c, uvs[i])
	}

	invert := b.settings.InvertNormals
	m.AddTriangle(0, 2, 1, invert)
	m.AddTriangle(0, 3, 2, invert)

	if !base.Valid {
		m.MissedSamples = 1
	}
	m.Finish()

	b.log.Debug("quad built",
		zap.Float32("width", size.X),
		zap.Float32("depth", size.Z),
		zap.Int("missed", m.MissedSamples),
	)
	return m, nil
}
