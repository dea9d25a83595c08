// Package collider keeps raycastable colliders for finalized fields so they
// can be picked and, on their own layer, stay out of ground projection.
package collider

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/engine/picking"
	"github.com/Faultbox/fieldplot/internal/ground"
	"github.com/Faultbox/fieldplot/internal/logger"
	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// ErrEmptyMesh is returned when a collider is requested for a mesh without triangles.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// Triangle is a world-space triangle with its precomputed normal.
type Triangle struct {
	V0, V1, V2 math.Vec3
	Normal     math.Vec3
}

// Collider is the collision shape of one field. Convex colliders are the
// world bounding box; others keep every triangle.
type Collider struct {
	ID        uint32
	Convex    bool
	Bounds    picking.AABB
	Triangles []Triangle
}

// World holds the colliders of all finalized fields.
type World struct {
	layer     ground.LayerMask
	colliders map[uint32]*Collider
	log       *zap.Logger
}

// NewWorld creates an empty world whose colliders sit on layer.
func NewWorld(layer ground.LayerMask, log *zap.Logger) *World {
	return &World{
		layer:     layer,
		colliders: make(map[uint32]*Collider),
		log:       logger.OrNamed(log, "collider"),
	}
}

// Create builds and registers the collider for mesh under id, replacing any
// previous collider with the same id.
func (w *World) Create(id uint32, m *mesh.Mesh, convex bool) (*Collider, error) {
	if m == nil || m.TriangleCount() == 0 {
		return nil, fmt.Errorf("collider %d: %w", id, ErrEmptyMesh)
	}

	wb := m.WorldBounds()
	c := &Collider{
		ID:     id,
		Convex: convex,
		Bounds: picking.AABB{Min: wb.Min, Max: wb.Max},
	}
	if !convex {
		c.Triangles = make([]Triangle, 0, m.TriangleCount())
		for i := 0; i < m.TriangleCount(); i++ {
			a, b, cc := m.Triangle(i)
			c.Triangles = append(c.Triangles, Triangle{
				V0:     a.Add(m.Origin),
				V1:     b.Add(m.Origin),
				V2:     cc.Add(m.Origin),
				Normal: m.FaceNormal(i),
			})
		}
	}

	w.colliders[id] = c
	w.log.Debug("collider created",
		zap.Uint32("id", id),
		zap.Bool("convex", convex),
		zap.Int("triangles", len(c.Triangles)),
	)
	return c, nil
}

// Remove drops the collider registered under id.
func (w *World) Remove(id uint32) {
	delete(w.colliders, id)
}

// Len returns the number of colliders.
func (w *World) Len() int {
	return len(w.colliders)
}

// Get returns the collider registered under id.
func (w *World) Get(id uint32) (*Collider, bool) {
	c, ok := w.colliders[id]
	return c, ok
}

// IDs returns the registered ids in ascending order.
func (w *World) IDs() []uint32 {
	ids := make([]uint32, 0, len(w.colliders))
	for id := range w.colliders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Raycast implements ground.Raycaster over every collider.
func (w *World) Raycast(ray picking.Ray, maxDistance float32, mask ground.LayerMask) (ground.Hit, bool) {
	_, hit, ok := w.Pick(ray, maxDistance, mask)
	return hit, ok
}

// Pick returns the id of the closest collider along ray and the hit.
func (w *World) Pick(ray picking.Ray, maxDistance float32, mask ground.LayerMask) (uint32, ground.Hit, bool) {
	if !mask.Has(w.layer) {
		return 0, ground.Hit{}, false
	}

	var (
		bestID  uint32
		best    ground.Hit
		found   bool
		closest = maxDistance
	)
	for _, id := range w.IDs() {
		c := w.colliders[id]
		hit, ok := c.raycast(ray, closest)
		if !ok {
			continue
		}
		hit.Layer = w.layer
		bestID, best, found, closest = id, hit, true, hit.Distance
	}
	return bestID, best, found
}

func (c *Collider) raycast(ray picking.Ray, maxDistance float32) (ground.Hit, bool) {
	boxT, ok := ray.IntersectAABB(c.Bounds)
	if !ok || boxT > maxDistance {
		return ground.Hit{}, false
	}
	if c.Convex {
		p := ray.At(boxT)
		return ground.Hit{Point: p, Normal: picking.AABBNormal(c.Bounds, p), Distance: boxT}, true
	}

	var (
		best  ground.Hit
		found bool
	)
	for _, tri := range c.Triangles {
		t, ok := ray.IntersectTriangle(tri.V0, tri.V1, tri.V2)
		if !ok || t > maxDistance || (found && t >= best.Distance) {
			continue
		}
		best = ground.Hit{Point: ray.At(t), Normal: tri.Normal, Distance: t}
		found = true
	}
	return best, found
}
