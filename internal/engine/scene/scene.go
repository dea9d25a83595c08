// Package scene assembles the ground a field is drawn on: the terrain
// heightfield, the colliders of finished fields and the drawing pipeline
// projecting onto them. It holds no GL state so headless builds share it.
package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/collider"
	"github.com/Faultbox/fieldplot/internal/config"
	"github.com/Faultbox/fieldplot/internal/drawing"
	"github.com/Faultbox/fieldplot/internal/engine/picking"
	"github.com/Faultbox/fieldplot/internal/engine/terrain"
	"github.com/Faultbox/fieldplot/internal/ground"
	"github.com/Faultbox/fieldplot/internal/logger"
	"github.com/Faultbox/fieldplot/internal/shape"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// pickDistance bounds pointer rays; it is longer than any camera distance.
const pickDistance = 5000

// Scene manages the terrain and the fields placed on it.
type Scene struct {
	Terrain   *terrain.Heightfield
	Fields    *collider.World
	Projector *ground.Projector
	Builder   *shape.Builder

	// ground is every raycast target; rays pick layers by mask.
	ground ground.Multi
	layer  ground.LayerMask
	log    *zap.Logger
}

// New builds the terrain described by cfg and a drawing pipeline over it.
func New(cfg *config.Config) (*Scene, error) {
	layer, err := ground.ParseLayer(cfg.Drawing.GroundLayer)
	if err != nil {
		return nil, fmt.Errorf("ground layer: %w", err)
	}
	return NewWithTerrain(terrain.FromConfig(cfg.Terrain), layer, cfg.Drawing), nil
}

// NewWithTerrain builds a scene over an existing heightfield.
func NewWithTerrain(h *terrain.Heightfield, layer ground.LayerMask, cfg config.DrawingConfig) *Scene {
	s := &Scene{
		Terrain: h,
		Fields:  collider.NewWorld(ground.LayerFields, nil),
		layer:   layer,
		log:     logger.Named("scene"),
	}
	s.ground = ground.Multi{h, s.Fields}

	s.Projector = ground.NewProjector(s.ground, ground.Options{
		Layer:       layer,
		Offset:      cfg.GroundOffset,
		CastHeight:  cfg.CastHeight,
		MaxDistance: cfg.MaxCastDistance,
	}, nil)
	s.Builder = shape.NewBuilder(s.Projector, shape.SettingsFromConfig(cfg), nil)

	lo, hi := h.HeightRange()
	s.log.Info("scene ready",
		zap.Int("cells_x", h.CellsX),
		zap.Int("cells_z", h.CellsZ),
		zap.Float32("min_height", lo),
		zap.Float32("max_height", hi),
		zap.Stringer("ground_layer", layer),
	)
	return s
}

// NewCoordinator creates a drawing coordinator whose finished fields get
// colliders in this scene.
func (s *Scene) NewCoordinator(uploader drawing.Uploader, opts drawing.Options, sched *drawing.Scheduler) *drawing.Coordinator {
	return drawing.NewCoordinator(s.Builder, opts, drawing.Deps{
		Uploader:  uploader,
		Colliders: s.Fields,
		Scheduler: sched,
	}, nil)
}

// Apply pushes reloaded drawing settings into the pipeline. Projection
// settings take effect on the next shape. An unknown ground layer rejects
// the whole update.
func (s *Scene) Apply(cfg config.DrawingConfig) error {
	layer, err := ground.ParseLayer(cfg.GroundLayer)
	if err != nil {
		return fmt.Errorf("ground layer: %w", err)
	}
	if layer != s.layer {
		s.log.Info("ground layer changed", zap.Stringer("from", s.layer), zap.Stringer("to", layer))
		s.layer = layer
	}

	s.Builder.SetSettings(shape.SettingsFromConfig(cfg))
	s.Projector.SetOptions(ground.Options{
		Layer:       s.layer,
		Offset:      cfg.GroundOffset,
		CastHeight:  cfg.CastHeight,
		MaxDistance: cfg.MaxCastDistance,
	})
	return nil
}

// PickGround returns where ray first hits the ground layer.
func (s *Scene) PickGround(ray picking.Ray) (math.Vec3, bool) {
	hit, ok := s.ground.Raycast(ray, pickDistance, s.layer)
	if !ok {
		return math.Vec3{}, false
	}
	return hit.Point, true
}

// PickField returns the id of the field under ray.
func (s *Scene) PickField(ray picking.Ray) (uint32, bool) {
	id, _, ok := s.Fields.Pick(ray, pickDistance, ground.LayerFields)
	return id, ok
}

// RemoveField drops the collider of field id so later shapes and picks no
// longer see it. It reports whether the field existed.
func (s *Scene) RemoveField(id uint32) bool {
	c, ok := s.Fields.Get(id)
	if !ok {
		return false
	}
	s.Fields.Remove(id)
	s.log.Info("field removed",
		zap.Uint32("id", id),
		zap.Int("triangles", len(c.Triangles)),
		zap.Int("remaining", s.Fields.Len()),
	)
	return true
}
