package model

import (
	"fmt"
	"math"

	"spotpredict/internal/geom"
)

// direction cosines below this threshold count as parallel to the
// panel plane
const epsGrazing = 1e-12

// PxMmStrategy converts between millimeter and pixel coordinates on a
// panel. Implementations may be non-linear.
type PxMmStrategy interface {
	MillimeterToPixel(p *Panel, mm geom.Vec2) geom.Vec2
	PixelToMillimeter(p *Panel, px geom.Vec2) geom.Vec2
}

// Panel is one planar sensing region of the detector. Origin is the
// laboratory position of pixel (0,0) in millimeters; Fast and Slow are
// the unit directions of increasing pixel coordinate.
type Panel struct {
	Name      string
	Origin    geom.Vec3
	Fast      geom.Vec3
	Slow      geom.Vec3
	PixelSize geom.Vec2 // mm per pixel along fast, slow
	ImageSize [2]int    // pixels along fast, slow

	pxmm PxMmStrategy
}

// NewPanel validates the geometry and attaches a conversion strategy
// (SimplePxMm when nil).
func NewPanel(name string, origin, fast, slow geom.Vec3, pixelSize geom.Vec2, imageSize [2]int, pxmm PxMmStrategy) (*Panel, error) {
	if fast.Len() == 0 || slow.Len() == 0 {
		return nil, fmt.Errorf("panel %s: zero axis", name)
	}
	fast, slow = fast.Norm(), slow.Norm()
	if math.Abs(fast.Dot(slow)) > 1e-9 {
		return nil, fmt.Errorf("panel %s: fast and slow axes not orthogonal", name)
	}
	if pixelSize.X <= 0 || pixelSize.Y <= 0 {
		return nil, fmt.Errorf("panel %s: non-positive pixel size", name)
	}
	if imageSize[0] <= 0 || imageSize[1] <= 0 {
		return nil, fmt.Errorf("panel %s: non-positive image size", name)
	}
	if pxmm == nil {
		pxmm = SimplePxMm{}
	}
	return &Panel{
		Name:      name,
		Origin:    origin,
		Fast:      fast,
		Slow:      slow,
		PixelSize: pixelSize,
		ImageSize: imageSize,
		pxmm:      pxmm,
	}, nil
}

// Normal returns the panel plane normal fast x slow.
func (p *Panel) Normal() geom.Vec3 {
	return p.Fast.Cross(p.Slow)
}

// SizeMM returns the active area extent in millimeters.
func (p *Panel) SizeMM() geom.Vec2 {
	return geom.Vec2{
		X: float64(p.ImageSize[0]) * p.PixelSize.X,
		Y: float64(p.ImageSize[1]) * p.PixelSize.Y,
	}
}

// LabCoord maps a millimeter coordinate on the panel to a laboratory
// position.
func (p *Panel) LabCoord(mm geom.Vec2) geom.Vec3 {
	return p.Origin.Add(p.Fast.Mul(mm.X)).Add(p.Slow.Mul(mm.Y))
}

// Intersect tests the ray from the sample origin along s1 against the
// panel's finite plane. ok is false for grazing rays, intersections
// behind the sample, and points outside the active area.
func (p *Panel) Intersect(s1 geom.Vec3) (geom.Vec2, bool) {
	n := p.Normal()
	den := s1.Dot(n)
	if math.Abs(den) < epsGrazing {
		return geom.Vec2{}, false
	}
	t := p.Origin.Dot(n) / den
	if t <= 0 {
		return geom.Vec2{}, false
	}
	rel := s1.Mul(t).Sub(p.Origin)
	mm := geom.Vec2{X: rel.Dot(p.Fast), Y: rel.Dot(p.Slow)}
	size := p.SizeMM()
	if mm.X < 0 || mm.X > size.X || mm.Y < 0 || mm.Y > size.Y {
		return geom.Vec2{}, false
	}
	return mm, true
}

func (p *Panel) MillimeterToPixel(mm geom.Vec2) geom.Vec2 {
	return p.pxmm.MillimeterToPixel(p, mm)
}

func (p *Panel) PixelToMillimeter(px geom.Vec2) geom.Vec2 {
	return p.pxmm.PixelToMillimeter(p, px)
}

// SimplePxMm is the linear conversion: millimeters divided by pixel
// size.
type SimplePxMm struct{}

func (SimplePxMm) MillimeterToPixel(p *Panel, mm geom.Vec2) geom.Vec2 {
	return geom.Vec2{X: mm.X / p.PixelSize.X, Y: mm.Y / p.PixelSize.Y}
}

func (SimplePxMm) PixelToMillimeter(p *Panel, px geom.Vec2) geom.Vec2 {
	return geom.Vec2{X: px.X * p.PixelSize.X, Y: px.Y * p.PixelSize.Y}
}

// ParallaxPxMm corrects for oblique absorption in the sensor layer: a
// photon entering the surface at millimeter position mm travels on
// average a further mean free path into the sensor before conversion,
// displacing the recorded centroid along the in-plane component of the
// ray direction. Mu is the linear attenuation coefficient (1/mm), T0
// the sensor thickness (mm).
type ParallaxPxMm struct {
	Mu float64
	T0 float64
}

// correction returns the in-plane centroid displacement (mm) for a
// photon arriving at the given millimeter position from the sample
// origin.
func (s ParallaxPxMm) correction(p *Panel, mm geom.Vec2) geom.Vec2 {
	d := p.LabCoord(mm).Norm()
	n := p.Normal()
	cosT := d.Dot(n)
	if cosT < 0 {
		cosT = -cosT
	}
	if cosT < epsGrazing || s.Mu <= 0 || s.T0 <= 0 {
		return geom.Vec2{}
	}
	// mean path length of a truncated exponential with rate Mu on
	// [0, T0/cosT]
	pathMax := s.T0 / cosT
	att := math.Exp(-s.Mu * pathMax)
	mean := 1/s.Mu - pathMax*att/(1-att)
	return geom.Vec2{X: d.Dot(p.Fast), Y: d.Dot(p.Slow)}.Mul(mean)
}

func (s ParallaxPxMm) MillimeterToPixel(p *Panel, mm geom.Vec2) geom.Vec2 {
	c := s.correction(p, mm)
	return geom.Vec2{
		X: (mm.X + c.X) / p.PixelSize.X,
		Y: (mm.Y + c.Y) / p.PixelSize.Y,
	}
}

func (s ParallaxPxMm) PixelToMillimeter(p *Panel, px geom.Vec2) geom.Vec2 {
	recorded := geom.Vec2{X: px.X * p.PixelSize.X, Y: px.Y * p.PixelSize.Y}
	// The correction is small and smooth; a few fixed-point rounds
	// recover the surface position to well below a pixel.
	mm := recorded
	for i := 0; i < 4; i++ {
		mm = recorded.Sub(s.correction(p, mm))
	}
	return mm
}

// Detector is an ordered list of panels. Panel order defines the
// intersection precedence when projected regions overlap.
type Detector struct {
	panels []*Panel
}

func NewDetector(panels ...*Panel) (*Detector, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("detector: no panels")
	}
	for i, p := range panels {
		if p == nil {
			return nil, fmt.Errorf("detector: nil panel at %d", i)
		}
	}
	return &Detector{panels: append([]*Panel(nil), panels...)}, nil
}

func (d *Detector) Len() int           { return len(d.panels) }
func (d *Detector) Panel(i int) *Panel { return d.panels[i] }

// RayIntersection returns the first panel struck by the ray along s1
// and the millimeter coordinate of impact. ok is false when the ray
// misses every panel; that is a valid geometric outcome, not an error.
func (d *Detector) RayIntersection(s1 geom.Vec3) (int, geom.Vec2, bool) {
	for i, p := range d.panels {
		if mm, ok := p.Intersect(s1); ok {
			return i, mm, true
		}
	}
	return 0, geom.Vec2{}, false
}
