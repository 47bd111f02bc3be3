// Package model holds the experiment geometry collaborators consumed by
// the prediction pipeline: beam, goniometer, scan and detector. All
// types are immutable after construction and safe to share between
// predictor instances.
package model

import (
	"fmt"

	"spotpredict/internal/geom"
)

// Beam describes the incident X-ray beam.
type Beam struct {
	direction  geom.Vec3 // unit, from source toward sample
	wavelength float64   // Angstrom
}

// NewBeam normalizes the propagation direction and validates the
// wavelength.
func NewBeam(direction geom.Vec3, wavelength float64) (*Beam, error) {
	if direction.Len() == 0 {
		return nil, fmt.Errorf("beam: zero direction")
	}
	if wavelength <= 0 {
		return nil, fmt.Errorf("beam: wavelength must be positive, got %g", wavelength)
	}
	return &Beam{direction: direction.Norm(), wavelength: wavelength}, nil
}

// S0 returns the incident wavevector: the beam direction scaled to
// magnitude 1/wavelength.
func (b *Beam) S0() geom.Vec3 {
	return b.direction.Mul(1 / b.wavelength)
}

func (b *Beam) Wavelength() float64 { return b.wavelength }

func (b *Beam) Direction() geom.Vec3 { return b.direction }
