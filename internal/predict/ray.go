// Package predict implements spot prediction: solving the diffraction
// condition for candidate Miller indices, intersecting the diffracted
// rays with the detector and mapping rotation angles onto image frames.
package predict

import (
	"math"

	"spotpredict/internal/geom"
)

// Ray is one predicted diffracted beam. Angle is the rotation angle at
// which the reflection crosses the Ewald sphere (always 0 for stills).
// Entering distinguishes the two rotational solutions: true when the
// lattice point is moving into the sphere.
type Ray struct {
	S1       geom.Vec3
	Angle    float64
	Entering bool
}

const twoPi = 2 * math.Pi

func mod2Pi(phi float64) float64 {
	m := math.Mod(phi, twoPi)
	if m < 0 {
		m += twoPi
	}
	return m
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
