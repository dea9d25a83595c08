package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Scale and segment limits enforced by Normalize.
const (
	MinCircleSegments = 8
	MinCurveSegments  = 2
	ScaleEpsilon      = 0.01
)

// Normalize clamps out-of-range drawing settings in place. Invalid
// configuration is never fatal: every adjustment is reported in the returned
// error (one entry per adjustment, see multierr.Errors) for the caller to log.
func (c *Config) Normalize() error {
	var notices error
	d := &c.Drawing

	adjust := func(field string, from, to any) {
		notices = multierr.Append(notices, fmt.Errorf("%s: %v adjusted to %v", field, from, to))
	}

	if d.GroundLayer == "" {
		adjust("ground_layer", `""`, "ground")
		d.GroundLayer = "ground"
	}
	if d.CircleSegments < MinCircleSegments {
		adjust("circle_segments", d.CircleSegments, MinCircleSegments)
		d.CircleSegments = MinCircleSegments
	}
	if d.CurveSegmentsPerSpan < MinCurveSegments {
		adjust("curve_segments_per_span", d.CurveSegmentsPerSpan, MinCurveSegments)
		d.CurveSegmentsPerSpan = MinCurveSegments
	}
	if d.MaxSlopeAngleDeg < 0 || d.MaxSlopeAngleDeg > 90 {
		to := clamp(d.MaxSlopeAngleDeg, 0, 90)
		adjust("max_slope_angle_deg", d.MaxSlopeAngleDeg, to)
		d.MaxSlopeAngleDeg = to
	}
	if d.InnerLoopScale <= 0 || d.InnerLoopScale > 1 {
		to := clamp(d.InnerLoopScale, ScaleEpsilon, 1)
		adjust("inner_loop_scale", d.InnerLoopScale, to)
		d.InnerLoopScale = to
	}
	if d.InnermostLoopScale < 0 {
		adjust("innermost_loop_scale", d.InnermostLoopScale, 0)
		d.InnermostLoopScale = 0
	}
	if d.InnermostLoopScale >= d.InnerLoopScale {
		to := max(d.InnerLoopScale-ScaleEpsilon, 0)
		adjust("innermost_loop_scale", d.InnermostLoopScale, to)
		d.InnermostLoopScale = to
	}
	if d.CastHeight <= 0 {
		def := Default().Drawing.CastHeight
		adjust("cast_height", d.CastHeight, def)
		d.CastHeight = def
	}
	if d.MaxCastDistance < d.CastHeight {
		to := d.CastHeight * 2
		adjust("max_cast_distance", d.MaxCastDistance, to)
		d.MaxCastDistance = to
	}
	if d.InvalidFeedbackDelay < 0 {
		adjust("invalid_feedback_delay", d.InvalidFeedbackDelay.Std(), 0)
		d.InvalidFeedbackDelay = 0
	}

	t := &c.Terrain
	if t.CellSize <= 0 {
		def := Default().Terrain.CellSize
		adjust("terrain.cell_size", t.CellSize, def)
		t.CellSize = def
	}
	if t.SizeX < t.CellSize {
		adjust("terrain.size_x", t.SizeX, t.CellSize)
		t.SizeX = t.CellSize
	}
	if t.SizeZ < t.CellSize {
		adjust("terrain.size_z", t.SizeZ, t.CellSize)
		t.SizeZ = t.CellSize
	}

	g := &c.Graphics
	switch g.ScreenshotFormat {
	case "png", "bmp":
	default:
		adjust("graphics.screenshot_format", g.ScreenshotFormat, "png")
		g.ScreenshotFormat = "png"
	}

	return notices
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
