package ground

import (
	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/engine/picking"
	"github.com/Faultbox/fieldplot/internal/logger"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// Options configures a Projector.
type Options struct {
	Layer       LayerMask // Layers counted as ground
	Offset      float32   // Added to the hit height
	CastHeight  float32   // World Y rays start from
	MaxDistance float32   // Ray length
}

// Projector drops points onto the ground layer. It holds no per-call state;
// every query is a fresh raycast.
type Projector struct {
	caster Raycaster
	opts   Options
	log    *zap.Logger
}

// NewProjector creates a projector over caster. A nil logger uses the global one.
func NewProjector(caster Raycaster, opts Options, log *zap.Logger) *Projector {
	return &Projector{
		caster: caster,
		opts:   opts,
		log:    logger.OrNamed(log, "ground"),
	}
}

// Options returns the projector settings.
func (p *Projector) Options() Options {
	return p.opts
}

// SetOptions replaces the projector settings.
func (p *Projector) SetOptions(opts Options) {
	p.opts = opts
}

// Cast fires the downward ray for point and returns the raw hit.
func (p *Projector) Cast(point math.Vec3) (Hit, bool) {
	ray := picking.Down(point.X, p.opts.CastHeight, point.Z)
	return p.caster.Raycast(ray, p.opts.MaxDistance, p.opts.Layer)
}

// Project returns point dropped onto the ground. On a miss the point is
// returned unchanged with Valid false.
func (p *Projector) Project(point math.Vec3) Sample {
	return p.ProjectOr(point, point)
}

// ProjectOr is Project with a caller-supplied fallback position for misses.
func (p *Projector) ProjectOr(point, fallback math.Vec3) Sample {
	hit, ok := p.Cast(point)
	if !ok {
		p.log.Warn(ErrProjectionMiss.Error(),
			zap.Float32("x", point.X),
			zap.Float32("z", point.Z),
		)
		return Sample{Position: fallback, Valid: false}
	}
	return Sample{
		Position: math.Vec3{X: point.X, Y: hit.Point.Y + p.opts.Offset, Z: point.Z},
		Valid:    true,
	}
}

// ProjectAll projects every point.
func (p *Projector) ProjectAll(points []math.Vec3) []Sample {
	out := make([]Sample, len(points))
	for i, pt := range points {
		out[i] = p.Project(pt)
	}
	return out
}

// SlopeAngle returns the angle in degrees between the ground normal under
// point and world up.
func (p *Projector) SlopeAngle(point math.Vec3) (float32, bool) {
	hit, ok := p.Cast(point)
	if !ok {
		return 0, false
	}
	return hit.Normal.AngleTo(math.Up), true
}

// IsSlopeValid reports whether the ground under point is no steeper than
// maxAngleDeg. A miss is invalid.
func (p *Projector) IsSlopeValid(point math.Vec3, maxAngleDeg float32) bool {
	angle, ok := p.SlopeAngle(point)
	if !ok {
		return false
	}
	return angle <= maxAngleDeg
}

// AllSlopesValid reports whether every point passes IsSlopeValid. It stops at
// the first failure.
func (p *Projector) AllSlopesValid(points []math.Vec3, maxAngleDeg float32) bool {
	for _, pt := range points {
		if !p.IsSlopeValid(pt, maxAngleDeg) {
			return false
		}
	}
	return true
}
