// Package config loads experiment geometry descriptions from YAML and
// builds the corresponding model types.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"spotpredict/internal/geom"
	"spotpredict/internal/model"
	"spotpredict/internal/xtal"
)

type BeamCfg struct {
	Wavelength float64    `yaml:"wavelength"`
	Direction  [3]float64 `yaml:"direction"`
}

type GoniometerCfg struct {
	Axis [3]float64 `yaml:"axis"`
}

type ScanCfg struct {
	ImageRange  [2]int     `yaml:"image_range"` // first, last (inclusive)
	Oscillation [2]float64 `yaml:"oscillation"` // start, width per frame (degrees)
}

type PanelCfg struct {
	Name      string     `yaml:"name"`
	Origin    [3]float64 `yaml:"origin"`
	FastAxis  [3]float64 `yaml:"fast_axis"`
	SlowAxis  [3]float64 `yaml:"slow_axis"`
	PixelSize [2]float64 `yaml:"pixel_size"`
	ImageSize [2]int     `yaml:"image_size"`
	// optional sensor model; both set enables the parallax correction
	Thickness float64 `yaml:"thickness,omitempty"`
	Mu        float64 `yaml:"mu,omitempty"`
}

type DetectorCfg struct {
	Panels []PanelCfg `yaml:"panels"`
}

type CrystalCfg struct {
	UnitCell    [6]float64  `yaml:"unit_cell"` // a, b, c, alpha, beta, gamma (deg)
	SpaceGroup  string      `yaml:"space_group"`
	Orientation *[9]float64 `yaml:"orientation,omitempty"` // U, row-major; identity when absent
}

// Experiment is the YAML representation of one experiment. Goniometer
// and scan are optional: a stills experiment has neither.
type Experiment struct {
	Beam       BeamCfg        `yaml:"beam"`
	Goniometer *GoniometerCfg `yaml:"goniometer,omitempty"`
	Scan       *ScanCfg       `yaml:"scan,omitempty"`
	Detector   DetectorCfg    `yaml:"detector"`
	Crystal    CrystalCfg     `yaml:"crystal"`
}

// Models holds the built geometry collaborators. Goniometer and Scan
// are nil for stills experiments.
type Models struct {
	Beam       *model.Beam
	Goniometer *model.Goniometer
	Scan       *model.Scan
	Detector   *model.Detector
	Crystal    *xtal.Crystal
}

// Load reads and parses an experiment file.
func Load(path string) (*Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config read %s: %w", path, err)
	}
	var exp Experiment
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("config parse %s: %w", path, err)
	}
	return &exp, nil
}

func vec3(a [3]float64) geom.Vec3 { return geom.Vec3{X: a[0], Y: a[1], Z: a[2]} }

// Build validates the configuration and constructs the model types.
func (e *Experiment) Build() (*Models, error) {
	beam, err := model.NewBeam(vec3(e.Beam.Direction), e.Beam.Wavelength)
	if err != nil {
		return nil, err
	}

	var gonio *model.Goniometer
	if e.Goniometer != nil {
		if gonio, err = model.NewGoniometer(vec3(e.Goniometer.Axis)); err != nil {
			return nil, err
		}
	}

	var scan *model.Scan
	if e.Scan != nil {
		first, last := e.Scan.ImageRange[0], e.Scan.ImageRange[1]
		scan, err = model.NewScan(first, last-first+1, e.Scan.Oscillation[0], e.Scan.Oscillation[1])
		if err != nil {
			return nil, err
		}
	}

	panels := make([]*model.Panel, 0, len(e.Detector.Panels))
	for i, pc := range e.Detector.Panels {
		var pxmm model.PxMmStrategy
		if pc.Thickness > 0 && pc.Mu > 0 {
			pxmm = model.ParallaxPxMm{Mu: pc.Mu, T0: pc.Thickness}
		}
		name := pc.Name
		if name == "" {
			name = fmt.Sprintf("%d", i)
		}
		p, err := model.NewPanel(name, vec3(pc.Origin), vec3(pc.FastAxis), vec3(pc.SlowAxis),
			geom.Vec2{X: pc.PixelSize[0], Y: pc.PixelSize[1]},
			[2]int{pc.ImageSize[0], pc.ImageSize[1]}, pxmm)
		if err != nil {
			return nil, err
		}
		panels = append(panels, p)
	}
	detector, err := model.NewDetector(panels...)
	if err != nil {
		return nil, err
	}

	uc := e.Crystal.UnitCell
	cell, err := xtal.NewUnitCell(uc[0], uc[1], uc[2], uc[3], uc[4], uc[5])
	if err != nil {
		return nil, err
	}
	symbol := e.Crystal.SpaceGroup
	if symbol == "" {
		symbol = "P1"
	}
	group, err := xtal.LookupSpaceGroup(symbol)
	if err != nil {
		return nil, err
	}
	u := geom.I3()
	if e.Crystal.Orientation != nil {
		o := *e.Crystal.Orientation
		u = geom.Mat3{M: [3][3]float64{
			{o[0], o[1], o[2]},
			{o[3], o[4], o[5]},
			{o[6], o[7], o[8]},
		}}
	}
	crystal, err := xtal.NewCrystal(cell, group, u)
	if err != nil {
		return nil, err
	}

	return &Models{
		Beam:       beam,
		Goniometer: gonio,
		Scan:       scan,
		Detector:   detector,
		Crystal:    crystal,
	}, nil
}
