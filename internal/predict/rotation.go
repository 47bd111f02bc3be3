package predict

import (
	"math"

	"spotpredict/internal/geom"
	"spotpredict/internal/model"
	"spotpredict/internal/xtal"
)

// epsTangent is the relative width of the discriminant band treated as
// a grazing (tangent) Ewald-sphere crossing: crossings with
// |A^2+B^2-C^2| <= epsTangent*(A^2+B^2) are rejected, because the
// entering sense is undefined where the crossing rate vanishes.
const epsTangent = 1e-12

// RayPredictor solves the rotation-geometry diffraction condition for
// single Miller indices. Immutable; safe for concurrent use.
type RayPredictor struct {
	s0   geom.Vec3
	m2   geom.Vec3
	scan *model.Scan
}

// NewRayPredictor binds the incident wavevector s0, the unit rotation
// axis m2 and the scan whose oscillation range filters the solutions.
func NewRayPredictor(s0, m2 geom.Vec3, scan *model.Scan) *RayPredictor {
	return &RayPredictor{s0: s0, m2: m2.Norm(), scan: scan}
}

// Predict returns the 0, 1 or 2 rays produced by rotating the
// reciprocal-lattice point UB*h through the scan. The diffraction
// condition |s0 + R(phi)*r0| = |s0| reduces to
//
//	A*cos(phi) + B*sin(phi) = C
//
// with A = s0.r0_perp, B = s0.(m2 x r0), C = -(|r0|^2/2 + s0.r0_par),
// where r0_par and r0_perp split r0 along and across the axis. An
// index that never crosses the sphere yields an empty result; that is
// the common case, not an error.
func (rp *RayPredictor) Predict(h xtal.Miller, ub geom.Mat3) []Ray {
	r0 := ub.MulVec(h.Vec())
	para := rp.m2.Mul(rp.m2.Dot(r0))
	perp := r0.Sub(para)

	a := rp.s0.Dot(perp)
	b := rp.s0.Dot(rp.m2.Cross(r0))
	c := -(r0.Dot(r0)/2 + rp.s0.Dot(para))

	rho2 := a*a + b*b
	if rho2 == 0 {
		// r0 lies on the rotation axis: the point never moves
		return nil
	}
	if rho2-c*c <= epsTangent*rho2 {
		// no crossing, or a tangent one
		return nil
	}

	alpha := math.Atan2(b, a)
	delta := math.Acos(clamp(c/math.Sqrt(rho2), -1, 1))

	rays := make([]Ray, 0, 2)
	for _, root := range [2]float64{alpha + delta, alpha - delta} {
		phi := mod2Pi(root)
		if !rp.scan.IsAngleValid(phi) {
			continue
		}
		s1 := rp.s0.Add(r0.RotateAbout(rp.m2, phi))
		// d/dphi |s0 + R(phi)*r0|^2 = 2*(B*cos(phi) - A*sin(phi));
		// negative rate means the point is moving into the sphere.
		entering := b*math.Cos(phi)-a*math.Sin(phi) < 0
		rays = append(rays, Ray{S1: s1, Angle: phi, Entering: entering})
	}
	return rays
}
