// Package ground projects points onto terrain with downward raycasts.
package ground

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/fieldplot/internal/engine/picking"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// ErrProjectionMiss is reported when a downward ray found no ground. It is a
// diagnostic: the sample keeps its fallback position.
var ErrProjectionMiss = errors.New("ground projection missed")

// LayerMask selects the collision layers a raycast considers.
type LayerMask uint32

// Layers known to the drawing tool.
const (
	LayerGround LayerMask = 1 << iota
	LayerFields

	LayerNone LayerMask = 0
	LayerAll  LayerMask = ^LayerMask(0)
)

var layerNames = map[string]LayerMask{
	"ground": LayerGround,
	"fields": LayerFields,
	"all":    LayerAll,
}

// ParseLayer resolves a layer name from configuration.
func ParseLayer(name string) (LayerMask, error) {
	if m, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return LayerNone, fmt.Errorf("unknown layer %q", name)
}

// Has reports whether m includes any layer of other.
func (m LayerMask) Has(other LayerMask) bool {
	return m&other != 0
}

// String returns the layer name, or the mask in hex for combinations.
func (m LayerMask) String() string {
	for name, v := range layerNames {
		if v == m {
			return name
		}
	}
	return fmt.Sprintf("0x%x", uint32(m))
}

// Hit describes where a ray met a surface.
type Hit struct {
	Point    math.Vec3
	Normal   math.Vec3
	Distance float32
	Layer    LayerMask
}

// Raycaster is the host physics query: the closest surface on any layer in
// mask within maxDistance along ray.
type Raycaster interface {
	Raycast(ray picking.Ray, maxDistance float32, mask LayerMask) (Hit, bool)
}

// RaycasterFunc adapts a function to Raycaster.
type RaycasterFunc func(ray picking.Ray, maxDistance float32, mask LayerMask) (Hit, bool)

// Raycast implements Raycaster.
func (f RaycasterFunc) Raycast(ray picking.Ray, maxDistance float32, mask LayerMask) (Hit, bool) {
	return f(ray, maxDistance, mask)
}

// Sample is a point whose height was replaced by terrain height plus offset
// when Valid, or a fallback position when the ray missed.
type Sample struct {
	Position math.Vec3
	Valid    bool
}

// Positions returns the positions of samples.
func Positions(samples []Sample) []math.Vec3 {
	out := make([]math.Vec3, len(samples))
	for i, s := range samples {
		out[i] = s.Position
	}
	return out
}

// CountMisses returns the number of samples whose projection missed.
func CountMisses(samples []Sample) int {
	n := 0
	for _, s := range samples {
		if !s.Valid {
			n++
		}
	}
	return n
}

// Multi raycasts against every member and returns the closest hit.
type Multi []Raycaster

// Raycast implements Raycaster.
func (m Multi) Raycast(ray picking.Ray, maxDistance float32, mask LayerMask) (Hit, bool) {
	var best Hit
	found := false
	for _, r := range m {
		if r == nil {
			continue
		}
		hit, ok := r.Raycast(ray, maxDistance, mask)
		if ok && (!found || hit.Distance < best.Distance) {
			best, found = hit, true
		}
	}
	return best, found
}
