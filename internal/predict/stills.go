package predict

import (
	"spotpredict/internal/geom"
	"spotpredict/internal/xtal"
)

// StillsRayPredictor computes the diffracted ray of a static crystal:
// s1 = s0 + UB*h, no angle search and no elastic constraint (stills
// exposures are treated as an effectively continuous bandpass).
// Rejection happens only at the detector-intersection stage.
type StillsRayPredictor struct {
	s0 geom.Vec3
}

func NewStillsRayPredictor(s0 geom.Vec3) *StillsRayPredictor {
	return &StillsRayPredictor{s0: s0}
}

// Predict always returns exactly one ray. The angle is stored as 0 and
// the entering flag, which has no meaning without rotation, is fixed
// to false.
func (sp *StillsRayPredictor) Predict(h xtal.Miller, ub geom.Mat3) []Ray {
	return []Ray{{S1: sp.s0.Add(ub.MulVec(h.Vec()))}}
}
