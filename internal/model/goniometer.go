package model

import (
	"fmt"

	"spotpredict/internal/geom"
)

// Goniometer exposes the rotation axis of a scan experiment.
type Goniometer struct {
	axis geom.Vec3 // unit
}

func NewGoniometer(axis geom.Vec3) (*Goniometer, error) {
	if axis.Len() == 0 {
		return nil, fmt.Errorf("goniometer: zero rotation axis")
	}
	return &Goniometer{axis: axis.Norm()}, nil
}

// RotationAxis returns the unit rotation axis m2.
func (g *Goniometer) RotationAxis() geom.Vec3 { return g.axis }
