package background

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedNSigmaGrowsWithSampleSize(t *testing.T) {
	assert.Zero(t, ExpectedNSigma(1))
	small := ExpectedNSigma(10)
	large := ExpectedNSigma(10000)
	assert.Greater(t, small, 1.0)
	assert.Greater(t, large, small)
	// erf(n/sqrt(2)) = 1 - 1/100 gives roughly 2.58 sigma
	assert.InDelta(t, 2.576, ExpectedNSigma(100), 0.01)
}

func TestIsNormallyDistributed(t *testing.T) {
	flat := []float64{9.8, 10.1, 10.0, 9.9, 10.2, 10.0}
	assert.True(t, IsNormallyDistributed(flat, 3.0))

	spiked := append(append([]float64{}, flat...), 1000)
	assert.False(t, IsNormallyDistributed(spiked, 3.0))

	constant := []float64{5, 5, 5, 5}
	assert.True(t, IsNormallyDistributed(constant, 3.0), "zero spread counts as normal")
}

func TestDiscriminateFlagsSpike(t *testing.T) {
	// bounded noise: the extreme of a uniform sample sits well inside
	// 3 sigma, so exactly the spikes get trimmed
	rng := rand.New(rand.NewSource(7))
	shoebox := make([]float64, 100)
	for i := range shoebox {
		shoebox[i] = 100 + 2*rng.Float64() - 1
	}
	// a bright peak in the middle of the box
	shoebox[40] = 500
	shoebox[41] = 450
	shoebox[42] = 380

	d, err := NewDiscriminator(10, 3.0)
	require.NoError(t, err)
	mask, err := d.DiscriminateAll(shoebox)
	require.NoError(t, err)

	for _, i := range []int{40, 41, 42} {
		assert.NotZero(t, mask[i]&MaskForeground, "pixel %d should be peak", i)
	}
	background := 0
	for i, m := range mask {
		if m&MaskBackground != 0 {
			background++
			assert.Zero(t, m&MaskForeground, "pixel %d flagged both ways", i)
		}
	}
	assert.Equal(t, 100, background)
}

func TestDiscriminateRespectsValidMask(t *testing.T) {
	shoebox := []float64{1, 2, 3, 1000, 2, 1, 2, 3, 2, 1, 2, 3}
	mask := make([]int, len(shoebox))
	for i := range mask {
		mask[i] = MaskValid
	}
	mask[3] = 0 // the hot pixel is already excluded

	d, err := NewDiscriminator(5, 5.0)
	require.NoError(t, err)
	require.NoError(t, d.Discriminate(shoebox, mask))
	assert.Zero(t, mask[3]&(MaskBackground|MaskForeground), "invalid pixels must stay unclassified")
}

func TestDiscriminatePreconditions(t *testing.T) {
	_, err := NewDiscriminator(0, 3)
	assert.Error(t, err)
	_, err = NewDiscriminator(5, 0)
	assert.Error(t, err)

	d, err := NewDiscriminator(10, 3)
	require.NoError(t, err)
	err = d.Discriminate([]float64{1, 2}, []int{MaskValid})
	assert.Error(t, err, "length mismatch")
	_, err = d.DiscriminateAll([]float64{1, 2, 3})
	assert.Error(t, err, "too few pixels")
}
