package shape

import (
	"fmt"

	"github.com/Faultbox/fieldplot/internal/ground"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// Centroid returns the mean XZ of the outer ring, re-projected onto the
// ground. When that ray misses, the mean height of the ring is kept.
func Centroid(outer []ground.Sample, proj *ground.Projector) ground.Sample {
	if len(outer) == 0 {
		return ground.Sample{}
	}
	var sum math.Vec3
	for _, s := range outer {
		sum = sum.Add(s.Position)
	}
	mean := sum.Scale(1 / float32(len(outer)))
	return proj.ProjectOr(mean, mean)
}

// BuildRings returns one ring per scale, each point lerped from centroid
// towards the matching outer point and re-projected onto the ground. Scales
// must lie in [0,1] and be strictly decreasing.
func BuildRings(outer []ground.Sample, centroid math.Vec3, scales []float32, proj *ground.Projector) ([][]ground.Sample, error) {
	if err := checkScales(scales); err != nil {
		return nil, err
	}
	rings := make([][]ground.Sample, len(scales))
	for r, s := range scales {
		ring := make([]ground.Sample, len(outer))
		for i, p := range outer {
			raw := centroid.Lerp(p.Position, s)
			ring[i] = proj.ProjectOr(raw, raw)
		}
		rings[r] = ring
	}
	return rings, nil
}

func checkScales(scales []float32) error {
	prev := float32(1)
	for i, s := range scales {
		if s < 0 || s > 1 {
			return fmt.Errorf("scale %d is %v: %w", i, s, ErrInvalidScales)
		}
		if i > 0 && s >= prev {
			return fmt.Errorf("scale %d (%v) not below %v: %w", i, s, prev, ErrInvalidScales)
		}
		prev = s
	}
	return nil
}
