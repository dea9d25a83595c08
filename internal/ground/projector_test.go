package ground_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/fieldplot/internal/engine/picking"
	"github.com/Faultbox/fieldplot/internal/engine/terrain"
	"github.com/Faultbox/fieldplot/internal/ground"
	"github.com/Faultbox/fieldplot/pkg/math"
)

func newProjector(caster ground.Raycaster, offset float32) *ground.Projector {
	return ground.NewProjector(caster, ground.Options{
		Layer:       ground.LayerGround,
		Offset:      offset,
		CastHeight:  500,
		MaxDistance: 1000,
	}, nil)
}

func TestProjectFlatWithOffset(t *testing.T) {
	p := newProjector(terrain.FlatPlane(2), 0.05)

	s := p.Project(math.Vec3{X: 3, Y: 99, Z: -4})
	require.True(t, s.Valid)
	assert.Equal(t, float32(3), s.Position.X)
	assert.Equal(t, float32(-4), s.Position.Z)
	assert.InDelta(t, 2.05, s.Position.Y, 1e-5)
}

func TestProjectIgnoresInputHeight(t *testing.T) {
	p := newProjector(terrain.FlatPlane(0), 0)

	a := p.Project(math.Vec3{X: 1, Y: -30, Z: 1})
	b := p.Project(math.Vec3{X: 1, Y: 300, Z: 1})
	assert.Equal(t, a, b)
}

func TestProjectMissKeepsFallback(t *testing.T) {
	plane := terrain.FlatPlane(0)
	plane.HalfExtent = 10
	p := newProjector(plane, 0)

	in := math.Vec3{X: 50, Y: 7, Z: 0}
	s := p.Project(in)
	assert.False(t, s.Valid)
	assert.Equal(t, in, s.Position)

	fallback := math.Vec3{X: 50, Y: 1, Z: 0}
	s = p.ProjectOr(in, fallback)
	assert.False(t, s.Valid)
	assert.Equal(t, fallback, s.Position)
}

func TestProjectRespectsLayer(t *testing.T) {
	fields := terrain.FlatPlane(5)
	fields.Layer = ground.LayerFields
	p := newProjector(ground.Multi{fields, terrain.FlatPlane(1)}, 0)

	s := p.Project(math.Vec3{})
	require.True(t, s.Valid)
	assert.InDelta(t, 1, s.Position.Y, 1e-5)
}

func TestProjectAll(t *testing.T) {
	plane := terrain.FlatPlane(0)
	plane.HalfExtent = 10
	p := newProjector(plane, 0)

	samples := p.ProjectAll([]math.Vec3{{X: 1}, {X: 20}, {X: -3}})
	require.Len(t, samples, 3)
	assert.Equal(t, 1, ground.CountMisses(samples))
	assert.Len(t, ground.Positions(samples), 3)
}

func TestSlopeValidation(t *testing.T) {
	p := newProjector(terrain.TiltedPlane(50), 0)
	pt := math.Vec3{X: 1, Z: 1}

	angle, ok := p.SlopeAngle(pt)
	require.True(t, ok)
	assert.InDelta(t, 50, angle, 0.01)

	assert.False(t, p.IsSlopeValid(pt, 45))
	assert.True(t, p.IsSlopeValid(pt, 60))
	assert.False(t, p.AllSlopesValid([]math.Vec3{pt, {X: 2}}, 45))
}

func TestSlopeFailsClosedOnMiss(t *testing.T) {
	p := newProjector(ground.RaycasterFunc(func(picking.Ray, float32, ground.LayerMask) (ground.Hit, bool) {
		return ground.Hit{}, false
	}), 0)

	for _, limit := range []float32{0, 30, 89, 180} {
		assert.False(t, p.IsSlopeValid(math.Vec3{}, limit), "limit %v", limit)
	}
}

func TestMultiClosestHit(t *testing.T) {
	m := ground.Multi{terrain.FlatPlane(1), nil, terrain.FlatPlane(4)}

	hit, ok := m.Raycast(picking.Down(0, 10, 0), 100, ground.LayerAll)
	require.True(t, ok)
	assert.InDelta(t, 4, hit.Point.Y, 1e-5)

	_, ok = ground.Multi{}.Raycast(picking.Down(0, 10, 0), 100, ground.LayerAll)
	assert.False(t, ok)
}

func TestParseLayer(t *testing.T) {
	m, err := ground.ParseLayer(" Ground ")
	require.NoError(t, err)
	assert.Equal(t, ground.LayerGround, m)

	m, err = ground.ParseLayer("all")
	require.NoError(t, err)
	assert.True(t, m.Has(ground.LayerFields))

	_, err = ground.ParseLayer("water")
	assert.Error(t, err)
}
