package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/fieldplot/internal/config"
	"github.com/Faultbox/fieldplot/internal/engine/picking"
	"github.com/Faultbox/fieldplot/internal/ground"
	"github.com/Faultbox/fieldplot/pkg/math"
)

func TestHeightAtBilinear(t *testing.T) {
	h := NewFlat(1, 1, 10, 0)
	h.Set(1, 0, 10)
	h.Set(1, 1, 10)

	tests := []struct {
		x, z, want float32
	}{
		{0, 0, 0},
		{10, 0, 10},
		{5, 5, 5},
		{2.5, 9, 2.5},
	}
	for _, tt := range tests {
		got, ok := h.HeightAt(tt.x, tt.z)
		require.True(t, ok)
		assert.InDelta(t, tt.want, got, 1e-4, "HeightAt(%v, %v)", tt.x, tt.z)
	}

	_, ok := h.HeightAt(-1, 5)
	assert.False(t, ok)
	_, ok = h.HeightAt(5, 10.5)
	assert.False(t, ok)
}

func TestNormalAtRamp(t *testing.T) {
	// Rises 1 per unit along X: 45 degrees.
	h := NewFlat(1, 1, 10, 0)
	h.Set(1, 0, 10)
	h.Set(1, 1, 10)

	n := h.NormalAt(5, 5)
	assert.InDelta(t, 45, n.AngleTo(math.Up), 0.01)
	assert.Less(t, n.X, float32(0))

	flat := NewFlat(2, 2, 1, 3)
	assert.True(t, flat.NormalAt(1, 1).ApproxEqual(math.Up, 1e-6))
}

func TestRaycastVertical(t *testing.T) {
	h := NewFlat(4, 4, 1, 2)

	hit, ok := h.Raycast(picking.Down(1.5, 100, 2.5), 1000, ground.LayerGround)
	require.True(t, ok)
	assert.InDelta(t, 2, hit.Point.Y, 1e-5)
	assert.InDelta(t, 98, hit.Distance, 1e-4)
	assert.Equal(t, ground.LayerGround, hit.Layer)

	_, ok = h.Raycast(picking.Down(1.5, 100, 2.5), 50, ground.LayerGround)
	assert.False(t, ok, "max distance")

	_, ok = h.Raycast(picking.Down(1.5, 100, 2.5), 1000, ground.LayerFields)
	assert.False(t, ok, "layer mask")

	_, ok = h.Raycast(picking.Down(10, 100, 2.5), 1000, ground.LayerAll)
	assert.False(t, ok, "off grid")
}

func TestRaycastOblique(t *testing.T) {
	h := NewFlat(20, 20, 1, 1)
	ray := picking.NewRay(math.Vec3{X: 2, Y: 11, Z: 2}, math.Vec3{X: 1, Y: -1, Z: 1})

	hit, ok := h.Raycast(ray, 100, ground.LayerAll)
	require.True(t, ok)
	assert.InDelta(t, 1, hit.Point.Y, 1e-3)
	assert.InDelta(t, 12, hit.Point.X, 1e-2)
	assert.InDelta(t, 12, hit.Point.Z, 1e-2)
}

func TestFromConfig(t *testing.T) {
	cfg := config.TerrainConfig{SizeX: 20, SizeZ: 10, CellSize: 2, HillHeight: 0}
	h := FromConfig(cfg)

	assert.Equal(t, 10, h.CellsX)
	assert.Equal(t, 5, h.CellsZ)
	assert.Equal(t, math.Vec2{X: -10, Y: -5}, h.Origin)
	assert.True(t, h.Contains(0, 0))

	y, ok := h.HeightAt(0, 0)
	require.True(t, ok)
	assert.Equal(t, float32(0), y)

	cfg.HillHeight = 6
	cfg.HillFrequency = 0.1
	hilly := FromConfig(cfg)
	var nonZero bool
	for _, v := range hilly.Heights {
		if v != 0 {
			nonZero = true
		}
		assert.LessOrEqual(t, v, float32(6.01))
	}
	assert.True(t, nonZero)
}

func TestPlaneRaycast(t *testing.T) {
	p := FlatPlane(3)
	hit, ok := p.Raycast(picking.Down(5, 50, -5), 100, ground.LayerGround)
	require.True(t, ok)
	assert.InDelta(t, 3, hit.Point.Y, 1e-5)
	assert.True(t, hit.Normal.ApproxEqual(math.Up, 1e-6))

	p.HalfExtent = 2
	_, ok = p.Raycast(picking.Down(5, 50, -5), 100, ground.LayerGround)
	assert.False(t, ok)

	tilted := TiltedPlane(50)
	hit, ok = tilted.Raycast(picking.Down(0, 50, 0), 100, ground.LayerGround)
	require.True(t, ok)
	assert.InDelta(t, 50, hit.Normal.AngleTo(math.Up), 0.01)
}

func TestBuildMesh(t *testing.T) {
	h := NewFlat(3, 2, 1, 0)
	h.Origin = math.Vec2{X: -1, Y: -1}
	m := BuildMesh(h, 4)

	assert.Equal(t, 12, m.VertexCount())
	assert.Equal(t, 12, m.TriangleCount())
	require.NoError(t, m.Validate())

	for i := 0; i < m.TriangleCount(); i++ {
		assert.Greater(t, m.FaceNormal(i).Y, float32(0.99), "triangle %d", i)
	}
	wb := m.WorldBounds()
	assert.Equal(t, math.Vec3{X: -1, Z: -1}, wb.Min)
	assert.Equal(t, math.Vec3{X: 2, Z: 1}, wb.Max)
}
