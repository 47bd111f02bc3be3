package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotpredict/internal/geom"
)

// flat 100x100 mm panel at z = -100 mm, centered on the beam axis,
// facing the sample
func beamCenteredPanel(t *testing.T, pxmm PxMmStrategy) *Panel {
	t.Helper()
	p, err := NewPanel("0",
		geom.Vec3{X: -50, Y: -50, Z: -100},
		geom.Vec3{X: 1}, geom.Vec3{Y: 1},
		geom.Vec2{X: 0.1, Y: 0.1}, [2]int{1000, 1000}, pxmm)
	require.NoError(t, err)
	return p
}

func TestPanelValidation(t *testing.T) {
	_, err := NewPanel("bad", geom.Vec3{}, geom.Vec3{}, geom.Vec3{Y: 1}, geom.Vec2{X: 0.1, Y: 0.1}, [2]int{10, 10}, nil)
	assert.Error(t, err)
	_, err = NewPanel("bad", geom.Vec3{}, geom.Vec3{X: 1}, geom.Vec3{X: 1}, geom.Vec2{X: 0.1, Y: 0.1}, [2]int{10, 10}, nil)
	assert.Error(t, err, "parallel axes must be rejected")
	_, err = NewPanel("bad", geom.Vec3{}, geom.Vec3{X: 1}, geom.Vec3{Y: 1}, geom.Vec2{}, [2]int{10, 10}, nil)
	assert.Error(t, err)
}

func TestPanelIntersect(t *testing.T) {
	p := beamCenteredPanel(t, nil)

	// straight down the beam axis hits the panel center
	mm, ok := p.Intersect(geom.Vec3{Z: -1})
	require.True(t, ok)
	assert.InDelta(t, 50, mm.X, 1e-9)
	assert.InDelta(t, 50, mm.Y, 1e-9)

	// behind the sample: no intersection
	_, ok = p.Intersect(geom.Vec3{Z: 1})
	assert.False(t, ok)

	// grazing along the panel plane: no intersection
	_, ok = p.Intersect(geom.Vec3{X: 1})
	assert.False(t, ok)

	// steep ray lands outside the active area
	_, ok = p.Intersect(geom.Vec3{X: 2, Z: -1})
	assert.False(t, ok)
}

func TestDetectorPrecedence(t *testing.T) {
	front := beamCenteredPanel(t, nil)
	back, err := NewPanel("1",
		geom.Vec3{X: -50, Y: -50, Z: -200},
		geom.Vec3{X: 1}, geom.Vec3{Y: 1},
		geom.Vec2{X: 0.1, Y: 0.1}, [2]int{1000, 1000}, nil)
	require.NoError(t, err)

	d, err := NewDetector(front, back)
	require.NoError(t, err)

	// both panels project onto the beam axis; the first one owns it
	id, _, ok := d.RayIntersection(geom.Vec3{Z: -1})
	require.True(t, ok)
	assert.Equal(t, 0, id)

	// a ray that misses everything
	_, _, ok = d.RayIntersection(geom.Vec3{Z: 1})
	assert.False(t, ok)
}

func TestSimplePxMmRoundTrip(t *testing.T) {
	p := beamCenteredPanel(t, nil)
	mm := geom.Vec2{X: 12.34, Y: 56.78}
	px := p.MillimeterToPixel(mm)
	assert.InDelta(t, 123.4, px.X, 1e-9)
	assert.InDelta(t, 567.8, px.Y, 1e-9)
	back := p.PixelToMillimeter(px)
	assert.InDelta(t, mm.X, back.X, 1e-12)
	assert.InDelta(t, mm.Y, back.Y, 1e-12)
}

func TestParallaxPxMmRoundTrip(t *testing.T) {
	// silicon-like sensor: mu = 0.35 /mm, 0.32 mm thick
	p := beamCenteredPanel(t, ParallaxPxMm{Mu: 0.35, T0: 0.32})

	for _, mm := range []geom.Vec2{{X: 50, Y: 50}, {X: 5, Y: 90}, {X: 99, Y: 1}} {
		px := p.MillimeterToPixel(mm)
		back := p.PixelToMillimeter(px)
		assert.InDelta(t, mm.X, back.X, 1e-6)
		assert.InDelta(t, mm.Y, back.Y, 1e-6)
	}
}

func TestParallaxShiftsObliqueRays(t *testing.T) {
	linear := beamCenteredPanel(t, nil)
	parallax := beamCenteredPanel(t, ParallaxPxMm{Mu: 0.35, T0: 0.32})

	// oblique impact far from the beam center
	mm := geom.Vec2{X: 90, Y: 50}
	shift := parallax.MillimeterToPixel(mm).Sub(linear.MillimeterToPixel(mm))
	assert.Greater(t, shift.X, 0.0, "oblique ray must shift outward along fast")
	assert.Less(t, shift.Len(), 20.0, "correction should stay in the few-pixel range")

	// a normal-incidence impact at the beam center has no in-plane shift
	center := geom.Vec2{X: 50, Y: 50}
	shift = parallax.MillimeterToPixel(center).Sub(linear.MillimeterToPixel(center))
	assert.InDelta(t, 0, shift.Len(), 1e-9)
}
