// Package spline resamples control points along uniform Catmull-Rom curves.
package spline

import (
	"github.com/Faultbox/fieldplot/pkg/math"
)

// MinSegments is the smallest usable number of samples per span.
const MinSegments = 2

// CatmullRom evaluates the uniform Catmull-Rom segment between p1 and p2 at t.
// The same cubic is applied to each axis independently.
func CatmullRom(p0, p1, p2, p3 math.Vec3, t float32) math.Vec3 {
	return math.Vec3{
		X: catmullRom(p0.X, p1.X, p2.X, p3.X, t),
		Y: catmullRom(p0.Y, p1.Y, p2.Y, p3.Y, t),
		Z: catmullRom(p0.Z, p1.Z, p2.Z, p3.Z, t),
	}
}

func catmullRom(p0, p1, p2, p3, t float32) float32 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// Pad returns the control points extended with phantom boundary points so that
// every consecutive 4-tuple describes one span.
//
// Closed curves wrap the last point to the front and the first two points to
// the back. Open curves duplicate the first and last points.
func Pad(points []math.Vec3, closed bool) []math.Vec3 {
	n := len(points)
	if n == 0 {
		return nil
	}
	padded := make([]math.Vec3, 0, n+3)
	if closed {
		padded = append(padded, points[n-1])
		padded = append(padded, points...)
		padded = append(padded, points[0], points[1%n])
		return padded
	}
	padded = append(padded, points[0])
	padded = append(padded, points...)
	padded = append(padded, points[n-1])
	return padded
}

// Resample returns points sampled along the Catmull-Rom curve through the
// given control points. Each span contributes segmentsPerSpan samples for
// t in [0,1); the first sample of every span after the first is skipped since
// it sits on the span boundary.
//
// Fewer than two control points yield nil. segmentsPerSpan below MinSegments
// is raised to MinSegments, otherwise the boundary skip would leave spans
// empty. Open curves additionally end on the last control point so the result
// spans the full curve. Resample is a pure function of its inputs.
func Resample(points []math.Vec3, segmentsPerSpan int, closed bool) []math.Vec3 {
	if len(points) < 2 {
		return nil
	}
	segmentsPerSpan = max(segmentsPerSpan, MinSegments)

	padded := Pad(points, closed)
	spans := len(padded) - 3
	step := 1 / float32(segmentsPerSpan)

	out := make([]math.Vec3, 0, spans*segmentsPerSpan+1)
	for s := 0; s < spans; s++ {
		p0, p1, p2, p3 := padded[s], padded[s+1], padded[s+2], padded[s+3]
		for i := 0; i < segmentsPerSpan; i++ {
			if s > 0 && i == 0 {
				continue
			}
			out = append(out, CatmullRom(p0, p1, p2, p3, float32(i)*step))
		}
	}
	if !closed {
		out = append(out, points[len(points)-1])
	}
	return out
}

// Len returns the number of points Resample produces for n control points.
func Len(n, segmentsPerSpan int, closed bool) int {
	if n < 2 {
		return 0
	}
	segmentsPerSpan = max(segmentsPerSpan, MinSegments)
	spans := n
	if !closed {
		spans = n - 1
	}
	total := spans*segmentsPerSpan - (spans - 1)
	if !closed {
		total++
	}
	return total
}
