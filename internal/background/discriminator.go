// Package background separates background from peak pixels in a
// reflection shoebox using normal-distribution statistics: pixels are
// trimmed from the top of the intensity distribution until what
// remains looks normally distributed.
package background

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mask codes for shoebox pixels. Valid marks pixels eligible for
// classification; the discriminator adds Background or Foreground.
const (
	MaskValid      = 1 << 0
	MaskBackground = 1 << 1
	MaskForeground = 1 << 2
)

// ExpectedNSigma returns the spread, in standard deviations, that the
// extreme value of n normally distributed observations is expected to
// stay within: sqrt(2) * erfinv(1 - 1/n).
func ExpectedNSigma(n int) float64 {
	if n < 2 {
		return 0
	}
	return math.Sqrt2 * math.Erfinv(1-1/float64(n))
}

// maxAbsNSigma is the t-statistic of whichever of min/max deviates
// further from the mean.
func maxAbsNSigma(data []float64) float64 {
	mean, sdev := stat.MeanStdDev(data, nil)
	if sdev == 0 {
		return 0
	}
	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return math.Max((hi-mean)/sdev, (mean-lo)/sdev)
}

// IsNormallyDistributed checks that no observation deviates from the
// mean by more than nSigma standard deviations.
func IsNormallyDistributed(data []float64, nSigma float64) bool {
	return maxAbsNSigma(data) < nSigma
}

// Discriminator classifies shoebox pixels as background or peak.
type Discriminator struct {
	minData int
	nSigma  float64
}

// NewDiscriminator requires at least minData pixels to survive
// trimming and uses a fixed nSigma cutoff.
func NewDiscriminator(minData int, nSigma float64) (*Discriminator, error) {
	if minData <= 0 {
		return nil, fmt.Errorf("background: min data must be positive, got %d", minData)
	}
	if nSigma <= 0 {
		return nil, fmt.Errorf("background: n sigma must be positive, got %g", nSigma)
	}
	return &Discriminator{minData: minData, nSigma: nSigma}, nil
}

// Discriminate sorts the valid pixels by intensity and repeatedly
// drops the most intense one until the remainder is normally
// distributed (or minData is reached). Surviving pixels are flagged
// Background, trimmed ones Foreground. The mask is both input and
// output; shoebox and mask must have equal length.
func (d *Discriminator) Discriminate(shoebox []float64, mask []int) error {
	if len(shoebox) != len(mask) {
		return fmt.Errorf("background: shoebox has %d pixels, mask %d", len(shoebox), len(mask))
	}

	var indices []int
	for i, m := range mask {
		if m&MaskValid != 0 {
			indices = append(indices, i)
		}
	}
	if len(indices) < d.minData {
		return fmt.Errorf("background: %d valid pixels, need at least %d", len(indices), d.minData)
	}

	sort.Slice(indices, func(a, b int) bool {
		return shoebox[indices[a]] < shoebox[indices[b]]
	})
	pixels := make([]float64, len(indices))
	for i, idx := range indices {
		pixels[i] = shoebox[idx]
	}

	n := len(pixels)
	for ; n > d.minData; n-- {
		if IsNormallyDistributed(pixels[:n], d.nSigma) {
			break
		}
	}

	for i := 0; i < n; i++ {
		mask[indices[i]] |= MaskBackground
	}
	for i := n; i < len(indices); i++ {
		mask[indices[i]] |= MaskForeground
	}
	return nil
}

// DiscriminateAll treats every pixel as valid and returns a fresh mask.
func (d *Discriminator) DiscriminateAll(shoebox []float64) ([]int, error) {
	mask := make([]int, len(shoebox))
	for i := range mask {
		mask[i] = MaskValid
	}
	if err := d.Discriminate(shoebox, mask); err != nil {
		return nil, err
	}
	return mask, nil
}
