// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/fieldplot/pkg/math"
)

// Sun is a directional light.
type Sun struct {
	Direction math.Vec3  // Unit vector pointing towards the sun
	Ambient   [3]float32 // Light applied regardless of facing
	Diffuse   [3]float32
}

// DefaultSun returns a late-morning sun from the south-east.
func DefaultSun() Sun {
	return Sun{
		Direction: SunDirection(135, 50),
		Ambient:   [3]float32{0.35, 0.35, 0.38},
		Diffuse:   [3]float32{0.75, 0.72, 0.65},
	}
}

// SunDirection converts an azimuth around Y (degrees, 0 towards +Z) and an
// elevation above the horizon (degrees) to a unit vector pointing towards the sun.
func SunDirection(azimuthDeg, elevationDeg float32) math.Vec3 {
	az := math.DegToRad(azimuthDeg)
	el := math.DegToRad(elevationDeg)

	cosEl := math32.Cos(el)
	return math.Vec3{
		X: cosEl * math32.Sin(az),
		Y: math32.Sin(el),
		Z: cosEl * math32.Cos(az),
	}
}

// Intensity returns the diffuse factor for a surface normal, clamped at zero.
func (s Sun) Intensity(normal math.Vec3) float32 {
	return max(normal.Normalize().Dot(s.Direction), 0)
}
