package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/pkg/math"
)

func TestScreenRayThroughCenterHitsTarget(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 10, Z: -5}
	c.SetViewport(800, 600)

	ray := c.ScreenRay(400, 300, 800, 600)
	p, ok := ray.IntersectPlaneY(0)
	assert.True(t, ok)
	assert.InDelta(t, 10, p.X, 0.05)
	assert.InDelta(t, -5, p.Z, 0.05)
}

func TestZoomAndPitchClamp(t *testing.T) {
	c := NewOrbitCamera()

	c.HandleZoom(-1000)
	assert.Equal(t, c.MaxDistance, c.Distance)
	c.HandleZoom(0.99)
	c.HandleZoom(0.99)
	c.HandleZoom(0.99)
	assert.GreaterOrEqual(t, c.Distance, c.MinDistance)

	c.HandleDrag(0, 1e6)
	assert.Equal(t, c.MaxPitch, c.RotationX)
	c.HandleDrag(0, -1e6)
	assert.Equal(t, c.MinPitch, c.RotationX)
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(mesh.Bounds{Min: math.Vec3{X: -100, Z: -50}, Max: math.Vec3{X: 100, Y: 10, Z: 50}})

	assert.Equal(t, math.Vec3{Y: 5}, c.Center)
	assert.InDelta(t, 120, c.Distance, 1e-4)
}
