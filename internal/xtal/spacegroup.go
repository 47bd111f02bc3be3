package xtal

import (
	"fmt"
	"math"
	"strings"
)

// SymOp is one symmetry operator: an integer rotation part acting on
// row-vector Miller indices and a translation part in fractions of the
// cell.
type SymOp struct {
	R [3][3]int
	T [3]float64
}

// applyToIndex computes h·R (row-vector convention).
func (op SymOp) applyToIndex(h Miller) Miller {
	return Miller{
		H: h.H*op.R[0][0] + h.K*op.R[1][0] + h.L*op.R[2][0],
		K: h.H*op.R[0][1] + h.K*op.R[1][1] + h.L*op.R[2][1],
		L: h.H*op.R[0][2] + h.K*op.R[1][2] + h.L*op.R[2][2],
	}
}

// phaseShift returns h·t in cycles.
func (op SymOp) phaseShift(h Miller) float64 {
	return float64(h.H)*op.T[0] + float64(h.K)*op.T[1] + float64(h.L)*op.T[2]
}

// SpaceGroup is a set of symmetry operators, identity included.
type SpaceGroup struct {
	Symbol string
	Ops    []SymOp
}

// SystematicallyAbsent reports whether a reflection is forbidden by the
// translational symmetry: some operator fixes the index while shifting
// its phase by a non-integer number of cycles.
func (g *SpaceGroup) SystematicallyAbsent(h Miller) bool {
	for _, op := range g.Ops {
		if op.applyToIndex(h) != h {
			continue
		}
		shift := op.phaseShift(h)
		if math.Abs(shift-math.Round(shift)) > 1e-9 {
			return true
		}
	}
	return false
}

var identity = SymOp{R: [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}

var builtinGroups = map[string]*SpaceGroup{
	"P1": {Symbol: "P1", Ops: []SymOp{identity}},
	"P-1": {Symbol: "P-1", Ops: []SymOp{
		identity,
		{R: [3][3]int{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}},
	}},
	// 2(1) screw along b: 0k0 absent for odd k.
	"P21": {Symbol: "P21", Ops: []SymOp{
		identity,
		{R: [3][3]int{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}}, T: [3]float64{0, 0.5, 0}},
	}},
	// C centering: hkl absent for odd h+k.
	"C2": {Symbol: "C2", Ops: []SymOp{
		identity,
		{R: [3][3]int{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}}},
		{R: [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, T: [3]float64{0.5, 0.5, 0}},
		{R: [3][3]int{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}}, T: [3]float64{0.5, 0.5, 0}},
	}},
	// Three 2(1) screws: h00, 0k0, 00l absent for odd index.
	"P212121": {Symbol: "P212121", Ops: []SymOp{
		identity,
		{R: [3][3]int{{1, 0, 0}, {0, -1, 0}, {0, 0, -1}}, T: [3]float64{0.5, 0.5, 0}},
		{R: [3][3]int{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}}, T: [3]float64{0, 0.5, 0.5}},
		{R: [3][3]int{{-1, 0, 0}, {0, -1, 0}, {0, 0, 1}}, T: [3]float64{0.5, 0, 0.5}},
	}},
}

// LookupSpaceGroup resolves a Hermann-Mauguin symbol (spaces ignored,
// e.g. "P 21 21 21") to one of the built-in groups.
func LookupSpaceGroup(symbol string) (*SpaceGroup, error) {
	key := strings.ToUpper(strings.ReplaceAll(symbol, " ", ""))
	if g, ok := builtinGroups[key]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("space group %q not supported", symbol)
}
