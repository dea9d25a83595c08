package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/fieldplot/internal/config"
	"github.com/Faultbox/fieldplot/internal/drawing"
	"github.com/Faultbox/fieldplot/internal/engine/picking"
	"github.com/Faultbox/fieldplot/internal/ground"
	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/pkg/math"
)

func flatConfig() *config.Config {
	cfg := config.Default()
	cfg.Terrain = config.TerrainConfig{SizeX: 64, SizeZ: 64, CellSize: 4}
	return cfg
}

func newScene(t *testing.T) *Scene {
	t.Helper()
	s, err := New(flatConfig())
	require.NoError(t, err)
	return s
}

func TestNewRejectsUnknownLayer(t *testing.T) {
	cfg := flatConfig()
	cfg.Drawing.GroundLayer = "water"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestPickGround(t *testing.T) {
	s := newScene(t)

	ray := picking.NewRay(math.Vec3{X: 3, Y: 50, Z: -5}, math.Vec3{Y: -1})
	p, ok := s.PickGround(ray)
	require.True(t, ok)
	assert.InDelta(t, 3, p.X, 1e-4)
	assert.InDelta(t, 0, p.Y, 1e-4)
	assert.InDelta(t, -5, p.Z, 1e-4)

	_, ok = s.PickGround(picking.NewRay(math.Vec3{X: 500, Y: 50}, math.Vec3{Y: -1}))
	assert.False(t, ok, "outside the terrain")
}

func TestFinishedFieldsDoNotStack(t *testing.T) {
	s := newScene(t)
	var handles drawing.MeshHandle
	up := drawing.UploaderFunc(func(m *mesh.Mesh) (drawing.MeshHandle, error) {
		handles++
		return handles, nil
	})
	coord := s.NewCoordinator(up, drawing.OptionsFromConfig(flatConfig().Drawing), nil)

	place := func() drawing.Result {
		sess, err := coord.Start(drawing.KindBox)
		require.NoError(t, err)
		require.NoError(t, sess.AddPoint(math.Vec3{X: -4, Z: -4}))
		require.NoError(t, sess.AddPoint(math.Vec3{X: 4, Z: 4}))
		res, err := sess.Finalize()
		require.NoError(t, err)
		return res
	}

	first := place()
	require.NotNil(t, first.Collider)
	assert.Equal(t, 1, s.Fields.Len())

	id, ok := s.PickField(picking.NewRay(math.Vec3{X: 1, Y: 50, Z: -2}, math.Vec3{Y: -1}))
	require.True(t, ok)
	assert.Equal(t, uint32(first.Handle), id)

	// The second box lands on the terrain, not on top of the first.
	second := place()
	assert.InDelta(t, first.Mesh.Origin.Y, second.Mesh.Origin.Y, 1e-4)
	assert.InDelta(t, 0.05, second.Mesh.Origin.Y, 1e-4)
}

func TestApply(t *testing.T) {
	s := newScene(t)
	cfg := flatConfig().Drawing
	cfg.GroundOffset = 1
	cfg.CircleSegments = 12
	require.NoError(t, s.Apply(cfg))

	assert.Equal(t, 12, s.Builder.Settings().CircleSegments)
	sample := s.Projector.Project(math.Vec3{X: 1, Y: 30, Z: 1})
	require.True(t, sample.Valid)
	assert.InDelta(t, 1, sample.Position.Y, 1e-4)
}

func TestApplyGroundLayer(t *testing.T) {
	s := newScene(t)
	down := picking.NewRay(math.Vec3{X: 3, Y: 50, Z: -5}, math.Vec3{Y: -1})

	cfg := flatConfig().Drawing
	cfg.GroundLayer = "fields"
	require.NoError(t, s.Apply(cfg))
	assert.Equal(t, ground.LayerFields, s.Projector.Options().Layer)
	_, ok := s.PickGround(down)
	assert.False(t, ok, "terrain is not on the fields layer")

	cfg.GroundLayer = "water"
	cfg.CircleSegments = 40
	assert.Error(t, s.Apply(cfg))
	assert.Equal(t, ground.LayerFields, s.Projector.Options().Layer)
	assert.NotEqual(t, 40, s.Builder.Settings().CircleSegments)
}

func TestRemoveField(t *testing.T) {
	s := newScene(t)
	coord := s.NewCoordinator(drawing.UploaderFunc(func(*mesh.Mesh) (drawing.MeshHandle, error) {
		return 7, nil
	}), drawing.Options{}, nil)

	sess, err := coord.Start(drawing.KindBox)
	require.NoError(t, err)
	require.NoError(t, sess.AddPoint(math.Vec3{X: -4, Z: -4}))
	require.NoError(t, sess.AddPoint(math.Vec3{X: 4, Z: 4}))
	_, err = sess.Finalize()
	require.NoError(t, err)

	ray := picking.NewRay(math.Vec3{X: 1, Y: 50, Z: -2}, math.Vec3{Y: -1})
	_, ok := s.PickField(ray)
	require.True(t, ok)

	assert.True(t, s.RemoveField(7))
	assert.Zero(t, s.Fields.Len())
	_, ok = s.PickField(ray)
	assert.False(t, ok)
	assert.False(t, s.RemoveField(7))
}
