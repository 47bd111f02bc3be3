package model

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// Scan maps continuous rotation angle onto discrete image frames. The
// oscillation is a contiguous angular range starting at oscStart and
// advancing by oscWidth per frame; scans wider than a full turn record
// the same angle on more than one frame.
type Scan struct {
	imageStart int // number of the first frame
	numImages  int
	oscStart   float64 // radians
	oscWidth   float64 // radians per frame
}

// NewScan builds a scan from an image range and an oscillation given in
// degrees (start angle, width per frame).
func NewScan(imageStart, numImages int, oscStartDeg, oscWidthDeg float64) (*Scan, error) {
	if numImages <= 0 {
		return nil, fmt.Errorf("scan: need at least one image, got %d", numImages)
	}
	if oscWidthDeg <= 0 {
		return nil, fmt.Errorf("scan: oscillation width must be positive, got %g", oscWidthDeg)
	}
	return &Scan{
		imageStart: imageStart,
		numImages:  numImages,
		oscStart:   oscStartDeg * math.Pi / 180,
		oscWidth:   oscWidthDeg * math.Pi / 180,
	}, nil
}

func (s *Scan) ImageRange() (first, last int) {
	return s.imageStart, s.imageStart + s.numImages - 1
}

// OscillationRange returns the closed angular interval covered by the
// scan, in radians.
func (s *Scan) OscillationRange() (start, end float64) {
	return s.oscStart, s.oscStart + float64(s.numImages)*s.oscWidth
}

// IsAngleValid reports whether some 2*pi equivalent of phi lies inside
// the oscillation range.
func (s *Scan) IsAngleValid(phi float64) bool {
	return len(s.FramesForAngle(phi)) > 0
}

// FrameFromAngle converts an angle inside the oscillation range to a
// fractional frame number. No range check is performed.
func (s *Scan) FrameFromAngle(phi float64) float64 {
	return float64(s.imageStart) + (phi-s.oscStart)/s.oscWidth
}

// AngleFromFrame is the inverse of FrameFromAngle.
func (s *Scan) AngleFromFrame(frame float64) float64 {
	return s.oscStart + (frame-float64(s.imageStart))*s.oscWidth
}

// FramesForAngle returns the fractional frame numbers at which the
// angle phi is recorded: one per 2*pi equivalent of phi inside the
// oscillation range, in increasing order. Empty when the angle falls
// outside the scan.
func (s *Scan) FramesForAngle(phi float64) []float64 {
	start, end := s.OscillationRange()
	nmin := int(math.Ceil((start - phi) / twoPi))
	nmax := int(math.Floor((end - phi) / twoPi))
	var frames []float64
	for n := nmin; n <= nmax; n++ {
		frames = append(frames, s.FrameFromAngle(phi+float64(n)*twoPi))
	}
	return frames
}
