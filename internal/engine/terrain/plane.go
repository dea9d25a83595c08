package terrain

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/fieldplot/internal/engine/picking"
	"github.com/Faultbox/fieldplot/internal/ground"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// Plane is an analytic ground surface through Point with the given Normal.
// A positive HalfExtent limits it to a square of that half-size around Point
// (measured on X and Z); zero means unbounded.
type Plane struct {
	Point      math.Vec3
	Normal     math.Vec3
	HalfExtent float32
	Layer      ground.LayerMask
}

// FlatPlane returns an unbounded horizontal plane at height y on the ground layer.
func FlatPlane(y float32) *Plane {
	return &Plane{Point: math.Vec3{Y: y}, Normal: math.Up, Layer: ground.LayerGround}
}

// TiltedPlane returns an unbounded plane through the origin whose normal is
// tilted from up by deg degrees towards +X.
func TiltedPlane(deg float32) *Plane {
	r := math.DegToRad(deg)
	return &Plane{
		Normal: math.Vec3{X: math32.Sin(r), Y: math32.Cos(r)},
		Layer:  ground.LayerGround,
	}
}

// Raycast implements ground.Raycaster.
func (p *Plane) Raycast(ray picking.Ray, maxDistance float32, mask ground.LayerMask) (ground.Hit, bool) {
	if !mask.Has(p.Layer) {
		return ground.Hit{}, false
	}
	n := p.Normal.Normalize()
	denom := n.Dot(ray.Direction)
	if math32.Abs(denom) < 1e-6 {
		return ground.Hit{}, false
	}
	t := n.Dot(p.Point.Sub(ray.Origin)) / denom
	if t < 0 || t > maxDistance {
		return ground.Hit{}, false
	}
	hit := ray.At(t)
	if p.HalfExtent > 0 &&
		(math32.Abs(hit.X-p.Point.X) > p.HalfExtent || math32.Abs(hit.Z-p.Point.Z) > p.HalfExtent) {
		return ground.Hit{}, false
	}
	return ground.Hit{Point: hit, Normal: n, Distance: t, Layer: p.Layer}, true
}
