package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotpredict/internal/geom"
	"spotpredict/internal/xtal"
)

func TestStillsRayIsExactSum(t *testing.T) {
	s0 := geom.Vec3{Z: -1}
	ub := geom.Mat3{M: [3][3]float64{
		{0.11, 0.005, -0.01},
		{0.002, 0.09, 0.004},
		{-0.003, 0.001, 0.13},
	}}
	sp := NewStillsRayPredictor(s0)

	for _, h := range []xtal.Miller{{H: 1}, {K: 2, L: -1}, {H: -3, K: 1, L: 4}} {
		rays := sp.Predict(h, ub)
		require.Len(t, rays, 1, "stills prediction always yields exactly one ray")
		r := rays[0]
		// s1 = s0 + UB*h exactly; no elastic-condition rescaling
		assert.Equal(t, s0.Add(ub.MulVec(h.Vec())), r.S1)
		assert.Zero(t, r.Angle)
		assert.False(t, r.Entering)
	}
}

func TestStillsNeverRejectsGeometrically(t *testing.T) {
	sp := NewStillsRayPredictor(geom.Vec3{Z: -1})
	// far off the Ewald sphere, still one ray
	rays := sp.Predict(xtal.Miller{H: 9, K: 9, L: 9}, geom.I3())
	require.Len(t, rays, 1)
}
