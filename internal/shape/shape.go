// Package shape builds ground-conforming field meshes: axis-aligned quads,
// circles and freeform outlines extruded into three concentric rings.
package shape

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/config"
	"github.com/Faultbox/fieldplot/internal/ground"
	"github.com/Faultbox/fieldplot/internal/logger"
)

var (
	// ErrInsufficientPoints is returned when an outline has too few points to triangulate.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrDegenerateShape is returned for shapes without area.
	ErrDegenerateShape = errors.New("degenerate shape")
	// ErrInvalidScales is returned by BuildRings for scales outside [0,1] or not strictly decreasing.
	ErrInvalidScales = errors.New("invalid ring scales")
	// ErrRingMismatch is returned when the rings of a polygon differ in length.
	ErrRingMismatch = errors.New("ring length mismatch")
)

// MinCircleSegments is the fewest rim vertices a circle is built with.
const MinCircleSegments = config.MinCircleSegments

// MinFreeformPoints is the fewest control points a freeform outline needs.
const MinFreeformPoints = 3

// centroidEpsilon is how close to zero the innermost scale must be for the
// hole to be closed with an extra centroid vertex.
const centroidEpsilon = 1e-3

// Settings controls mesh generation.
type Settings struct {
	CircleSegments       int
	CurveSegmentsPerSpan int
	InnerLoopScale       float32
	InnermostLoopScale   float32
	InvertNormals        bool
}

// SettingsFromConfig extracts the mesh settings from the drawing config.
func SettingsFromConfig(cfg config.DrawingConfig) Settings {
	s := Settings{
		CircleSegments:       max(cfg.CircleSegments, MinCircleSegments),
		CurveSegmentsPerSpan: cfg.CurveSegmentsPerSpan,
		InvertNormals:        cfg.InvertNormals,
	}
	s.InnerLoopScale, s.InnermostLoopScale = ClampScales(cfg.InnerLoopScale, cfg.InnermostLoopScale)
	return s
}

// ClampScales enforces 0 <= innermost < inner <= 1. An innermost scale that
// is not below inner is pulled to inner-0.01, never below zero.
func ClampScales(inner, innermost float32) (float32, float32) {
	inner = min(max(inner, config.ScaleEpsilon), 1)
	innermost = max(innermost, 0)
	if innermost >= inner {
		innermost = max(inner-config.ScaleEpsilon, 0)
	}
	return inner, innermost
}

// Builder turns user input points into meshes, projecting every vertex onto
// the ground through its Projector.
type Builder struct {
	proj     *ground.Projector
	settings Settings
	log      *zap.Logger
}

// NewBuilder creates a builder. A nil logger uses the global one.
func NewBuilder(proj *ground.Projector, settings Settings, log *zap.Logger) *Builder {
	b := &Builder{proj: proj, log: logger.OrNamed(log, "shape")}
	b.SetSettings(settings)
	return b
}

// Projector returns the ground projector used for every vertex.
func (b *Builder) Projector() *ground.Projector {
	return b.proj
}

// Settings returns the active settings.
func (b *Builder) Settings() Settings {
	return b.settings
}

// SetSettings replaces the settings, clamping scales and segment counts.
func (b *Builder) SetSettings(s Settings) {
	s.CircleSegments = max(s.CircleSegments, MinCircleSegments)
	s.InnerLoopScale, s.InnermostLoopScale = ClampScales(s.InnerLoopScale, s.InnermostLoopScale)
	b.settings = s
}
