package xtal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrthorhombicBMatrix(t *testing.T) {
	cell, err := NewUnitCell(10, 20, 40, 90, 90, 90)
	require.NoError(t, err)

	b, err := cell.BMatrix()
	require.NoError(t, err)

	// For an orthorhombic cell B is diagonal with 1/a, 1/b, 1/c.
	assert.InDelta(t, 0.1, b.M[0][0], 1e-12)
	assert.InDelta(t, 0.05, b.M[1][1], 1e-12)
	assert.InDelta(t, 0.025, b.M[2][2], 1e-12)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if r != c {
				assert.InDelta(t, 0, b.M[r][c], 1e-12)
			}
		}
	}

	assert.InDelta(t, 10*20*40, cell.Volume(), 1e-9)
	assert.InDelta(t, 10.0, cell.DSpacing(b, Miller{H: 1}), 1e-9)
	assert.InDelta(t, 5.0, cell.DSpacing(b, Miller{H: 2}), 1e-9)
	assert.True(t, math.IsInf(cell.DSpacing(b, Miller{}), 1))
}

func TestMonoclinicDSpacing(t *testing.T) {
	// beta = 100 degrees; check 0k0 is insensitive to beta while h0l is not
	cell, err := NewUnitCell(10, 15, 20, 90, 100, 90)
	require.NoError(t, err)
	b, err := cell.BMatrix()
	require.NoError(t, err)

	assert.InDelta(t, 15.0, cell.DSpacing(b, Miller{K: 1}), 1e-9)
	// d(100) = a sin(beta) for unique-b monoclinic
	assert.InDelta(t, 10*math.Sin(100*math.Pi/180), cell.DSpacing(b, Miller{H: 1}), 1e-9)
}

func TestUnitCellValidation(t *testing.T) {
	_, err := NewUnitCell(-1, 10, 10, 90, 90, 90)
	assert.Error(t, err)
	_, err = NewUnitCell(10, 10, 10, 0, 90, 90)
	assert.Error(t, err)
	// angle triple that cannot close a cell
	_, err = NewUnitCell(10, 10, 10, 170, 170, 170)
	assert.Error(t, err)
}
