package xtal

import (
	"fmt"
	"math"

	"spotpredict/internal/geom"
)

// Crystal couples a unit cell, its space group and an orientation
// matrix U. UB maps Miller indices to laboratory-frame reciprocal
// vectors at zero rotation. Immutable once constructed.
type Crystal struct {
	Cell  UnitCell
	Group *SpaceGroup
	U     geom.Mat3
	B     geom.Mat3
}

// NewCrystal validates the orientation matrix (must be a proper
// rotation) and precomputes B from the cell.
func NewCrystal(cell UnitCell, group *SpaceGroup, u geom.Mat3) (*Crystal, error) {
	if group == nil {
		return nil, fmt.Errorf("crystal: nil space group")
	}
	// U must be orthonormal with determinant +1.
	ut := u.Transpose()
	p := ut.Mul(u)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			if math.Abs(p.M[r][c]-want) > 1e-6 {
				return nil, fmt.Errorf("crystal: orientation matrix is not orthonormal")
			}
		}
	}
	if det3(u) < 0 {
		return nil, fmt.Errorf("crystal: orientation matrix is a reflection (det < 0)")
	}
	b, err := cell.BMatrix()
	if err != nil {
		return nil, err
	}
	return &Crystal{Cell: cell, Group: group, U: u, B: b}, nil
}

// UB returns the combined setting matrix U·B.
func (c *Crystal) UB() geom.Mat3 {
	return c.U.Mul(c.B)
}

// DSpacing returns the resolution of a Miller index for this crystal.
func (c *Crystal) DSpacing(h Miller) float64 {
	return c.Cell.DSpacing(c.B, h)
}

func det3(a geom.Mat3) float64 {
	m := a.M
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}
