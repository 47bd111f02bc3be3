package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deg(d float64) float64 { return d * math.Pi / 180 }

func TestScanValidation(t *testing.T) {
	_, err := NewScan(1, 0, 0, 1)
	assert.Error(t, err)
	_, err = NewScan(1, 10, 0, -0.5)
	assert.Error(t, err)
}

func TestFramesForAngleSingle(t *testing.T) {
	// 90 frames of 1 degree starting at 0
	s, err := NewScan(1, 90, 0, 1)
	require.NoError(t, err)

	frames := s.FramesForAngle(deg(45.5))
	require.Len(t, frames, 1)
	assert.InDelta(t, 46.5, frames[0], 1e-9)

	// outside the recorded range: invisible
	assert.Empty(t, s.FramesForAngle(deg(91)))
	assert.Empty(t, s.FramesForAngle(deg(-1)))
	assert.False(t, s.IsAngleValid(deg(180)))
	assert.True(t, s.IsAngleValid(deg(10)))
}

func TestFramesForAngleWrapsFullTurns(t *testing.T) {
	// two full turns: every angle is recorded twice
	s, err := NewScan(0, 720, 0, 1)
	require.NoError(t, err)

	frames := s.FramesForAngle(deg(30))
	require.Len(t, frames, 2)
	assert.InDelta(t, 30, frames[0], 1e-9)
	assert.InDelta(t, 390, frames[1], 1e-9)
	assert.Less(t, frames[0], frames[1], "frames must be ordered")

	// an angle given above 2*pi maps back into the scan
	frames = s.FramesForAngle(deg(30) + 4*math.Pi)
	require.Len(t, frames, 2)
	assert.InDelta(t, 30, frames[0], 1e-9)
}

func TestFrameAngleRoundTrip(t *testing.T) {
	s, err := NewScan(100, 50, 10, 0.25)
	require.NoError(t, err)
	for _, frame := range []float64{100, 112.5, 149.9} {
		assert.InDelta(t, frame, s.FrameFromAngle(s.AngleFromFrame(frame)), 1e-9)
	}
	first, last := s.ImageRange()
	assert.Equal(t, 100, first)
	assert.Equal(t, 149, last)
}
