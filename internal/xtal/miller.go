// Package xtal holds the crystallographic side of prediction: Miller
// indices, unit cells, space-group symmetry and the candidate index
// generator.
package xtal

import "spotpredict/internal/geom"

// Miller identifies a reciprocal-lattice point (diffraction order).
type Miller struct {
	H, K, L int
}

func (m Miller) IsZero() bool {
	return m.H == 0 && m.K == 0 && m.L == 0
}

// Vec returns the index as a float vector, ready for UB multiplication.
func (m Miller) Vec() geom.Vec3 {
	return geom.Vec3{X: float64(m.H), Y: float64(m.K), Z: float64(m.L)}
}
