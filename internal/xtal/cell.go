package xtal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"spotpredict/internal/geom"
)

// UnitCell holds the six cell parameters: edge lengths in Angstrom and
// inter-axial angles in radians.
type UnitCell struct {
	A, B, C             float64
	Alpha, Beta, Gamma  float64
}

// NewUnitCell builds a unit cell from lengths in Angstrom and angles in
// degrees.
func NewUnitCell(a, b, c, alphaDeg, betaDeg, gammaDeg float64) (UnitCell, error) {
	cell := UnitCell{
		A: a, B: b, C: c,
		Alpha: alphaDeg * math.Pi / 180,
		Beta:  betaDeg * math.Pi / 180,
		Gamma: gammaDeg * math.Pi / 180,
	}
	if a <= 0 || b <= 0 || c <= 0 {
		return UnitCell{}, fmt.Errorf("unit cell: non-positive edge length (%g, %g, %g)", a, b, c)
	}
	for _, ang := range []float64{cell.Alpha, cell.Beta, cell.Gamma} {
		if ang <= 0 || ang >= math.Pi {
			return UnitCell{}, fmt.Errorf("unit cell: angle out of (0, 180) degrees")
		}
	}
	if cell.volumeFactor() <= 0 {
		return UnitCell{}, fmt.Errorf("unit cell: degenerate angles (%g, %g, %g deg)", alphaDeg, betaDeg, gammaDeg)
	}
	return cell, nil
}

// volumeFactor is V/(abc); non-positive for geometrically impossible angles.
func (u UnitCell) volumeFactor() float64 {
	ca, cb, cg := math.Cos(u.Alpha), math.Cos(u.Beta), math.Cos(u.Gamma)
	f := 1 - ca*ca - cb*cb - cg*cg + 2*ca*cb*cg
	if f <= 0 {
		return 0
	}
	return math.Sqrt(f)
}

// Volume returns the cell volume in cubic Angstrom.
func (u UnitCell) Volume() float64 {
	return u.A * u.B * u.C * u.volumeFactor()
}

// Orthogonalization returns the matrix whose columns are the real-space
// basis vectors a, b, c in a standard Cartesian setting (a along x,
// b in the xy plane).
func (u UnitCell) Orthogonalization() geom.Mat3 {
	ca, cb, cg := math.Cos(u.Alpha), math.Cos(u.Beta), math.Cos(u.Gamma)
	sg := math.Sin(u.Gamma)
	v := u.volumeFactor()
	return geom.Mat3{M: [3][3]float64{
		{u.A, u.B * cg, u.C * cb},
		{0, u.B * sg, u.C * (ca - cb*cg) / sg},
		{0, 0, u.C * v / sg},
	}}
}

// BMatrix returns the reciprocal-space orthogonalization matrix B: its
// columns are the reciprocal basis vectors a*, b*, c*, so B·(h,k,l)
// is the reciprocal-lattice vector of a Miller index at zero rotation.
// Computed as the inverse-transpose of the real-space basis.
func (u UnitCell) BMatrix() (geom.Mat3, error) {
	o := u.Orthogonalization()
	A := mat.NewDense(3, 3, []float64{
		o.M[0][0], o.M[0][1], o.M[0][2],
		o.M[1][0], o.M[1][1], o.M[1][2],
		o.M[2][0], o.M[2][1], o.M[2][2],
	})
	var inv mat.Dense
	if err := inv.Inverse(A); err != nil {
		return geom.Mat3{}, fmt.Errorf("unit cell: singular basis: %w", err)
	}
	var b geom.Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			b.M[r][c] = inv.At(c, r)
		}
	}
	return b, nil
}

// DSpacing returns the resolution d = 1/|B·h| of a Miller index, or
// +Inf for the zero index.
func (u UnitCell) DSpacing(b geom.Mat3, h Miller) float64 {
	if h.IsZero() {
		return math.Inf(1)
	}
	return 1 / b.MulVec(h.Vec()).Len()
}
