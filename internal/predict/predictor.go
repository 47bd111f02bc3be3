package predict

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"spotpredict/internal/geom"
	"spotpredict/internal/model"
	"spotpredict/internal/rtable"
	"spotpredict/internal/xtal"
)

// ErrNotSupported is returned by operations that are undefined for a
// geometry variant, such as exhaustive enumeration on stills.
var ErrNotSupported = errors.New("operation not supported for this experiment geometry")

// Column names used in the output table.
const (
	ColMiller   = "miller_index"
	ColPanel    = "panel"
	ColEntering = "entering"
	ColS1       = "s1"
	ColXYZPx    = "xyzcal.px"
	ColXYZMm    = "xyzcal.mm"
)

// chunkSize is the number of indices handed to a worker at a time.
const chunkSize = 1024

// Option configures a predictor.
type Option func(*options)

type options struct {
	log     *zap.Logger
	workers int
}

// WithLogger attaches a logger for run summaries.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithWorkers overrides the worker count (default runtime.NumCPU).
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop(), workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// predictionData holds the typed column handles of one output table.
type predictionData struct {
	hkl      *rtable.MillerColumn
	panel    *rtable.IntColumn
	entering *rtable.BoolColumn
	s1       *rtable.Vec3Column
	px       *rtable.Vec3Column
	mm       *rtable.Vec3Column
}

func newPredictionData(t *rtable.Table) predictionData {
	return predictionData{
		hkl:      t.Millers(ColMiller),
		panel:    t.Ints(ColPanel),
		entering: t.Bools(ColEntering),
		s1:       t.Vec3s(ColS1),
		px:       t.Vec3s(ColXYZPx),
		mm:       t.Vec3s(ColXYZMm),
	}
}

// rayPredictor is the per-geometry strategy shared by both
// orchestrator variants.
type rayPredictor interface {
	Predict(h xtal.Miller, ub geom.Mat3) []Ray
}

// pipeline is the shared index -> rays -> impact -> frames -> rows
// machinery. scan is nil for stills, in which case every surviving ray
// contributes one row at frame 0.
type pipeline struct {
	rays     rayPredictor
	detector *model.Detector
	scan     *model.Scan
	ub       geom.Mat3
}

func (pl *pipeline) appendForIndex(p predictionData, h xtal.Miller) {
	for _, ray := range pl.rays.Predict(h, pl.ub) {
		pl.appendForRay(p, h, ray)
	}
}

func (pl *pipeline) appendForRay(p predictionData, h xtal.Miller, ray Ray) {
	panel, mm, ok := pl.detector.RayIntersection(ray.S1)
	if !ok {
		// misses every panel: expected, contributes no rows
		return
	}
	px := pl.detector.Panel(panel).MillimeterToPixel(mm)

	frames := []float64{0}
	if pl.scan != nil {
		frames = pl.scan.FramesForAngle(ray.Angle)
	}
	for _, frame := range frames {
		p.hkl.Append(h)
		p.panel.Append(panel)
		p.entering.Append(ray.Entering)
		p.s1.Append(ray.S1)
		p.mm.Append(geom.Vec3{X: mm.X, Y: mm.Y, Z: ray.Angle})
		p.px.Append(geom.Vec3{X: px.X, Y: px.Y, Z: frame})
	}
}

// processChunk fills a private table for one slice of indices.
func (pl *pipeline) processChunk(hs []xtal.Miller) *rtable.Table {
	t := rtable.New()
	p := newPredictionData(t)
	for _, h := range hs {
		pl.appendForIndex(p, h)
	}
	return t
}

// ScanStaticPredictor predicts reflections for a rotation experiment
// with a crystal orientation fixed over the scan. Geometry
// collaborators are shared by reference and never mutated.
type ScanStaticPredictor struct {
	beam     *model.Beam
	detector *model.Detector
	gonio    *model.Goniometer
	scan     *model.Scan
	crystal  *xtal.Crystal
	opts     options
}

// NewScanStaticPredictor fails fast on missing collaborators; there is
// no partial construction.
func NewScanStaticPredictor(beam *model.Beam, detector *model.Detector, gonio *model.Goniometer, scan *model.Scan, crystal *xtal.Crystal, opts ...Option) (*ScanStaticPredictor, error) {
	switch {
	case beam == nil:
		return nil, fmt.Errorf("scan-static predictor: nil beam")
	case detector == nil:
		return nil, fmt.Errorf("scan-static predictor: nil detector")
	case gonio == nil:
		return nil, fmt.Errorf("scan-static predictor: nil goniometer")
	case scan == nil:
		return nil, fmt.Errorf("scan-static predictor: nil scan")
	case crystal == nil:
		return nil, fmt.Errorf("scan-static predictor: nil crystal")
	}
	return &ScanStaticPredictor{
		beam:     beam,
		detector: detector,
		gonio:    gonio,
		scan:     scan,
		crystal:  crystal,
		opts:     buildOptions(opts),
	}, nil
}

func (p *ScanStaticPredictor) pipeline() *pipeline {
	return &pipeline{
		rays:     NewRayPredictor(p.beam.S0(), p.gonio.RotationAxis(), p.scan),
		detector: p.detector,
		scan:     p.scan,
		ub:       p.crystal.UB(),
	}
}

// AllObservable enumerates every candidate Miller index down to the
// resolution limit dmin and predicts each one. A fresh index generator
// is created per call.
func (p *ScanStaticPredictor) AllObservable(dmin float64) (*rtable.Table, error) {
	gen, err := xtal.NewIndexGenerator(p.crystal, dmin)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	table, n, err := runParallel(p.pipeline(), p.opts.workers, generatorChunks(gen))
	if err != nil {
		return nil, err
	}
	p.logDone("all_observable", n, table, start)
	return table, nil
}

// Observed predicts a caller-supplied index list. Output rows appear
// in input order regardless of the worker count.
func (p *ScanStaticPredictor) Observed(hs []xtal.Miller) (*rtable.Table, error) {
	start := time.Now()
	table, n, err := runParallel(p.pipeline(), p.opts.workers, sliceChunks(hs))
	if err != nil {
		return nil, err
	}
	p.logDone("observed", n, table, start)
	return table, nil
}

func (p *ScanStaticPredictor) logDone(op string, indices int, table *rtable.Table, start time.Time) {
	rows, _ := table.Rows()
	p.opts.log.Debug("prediction finished",
		zap.String("op", op),
		zap.Int("indices", indices),
		zap.Int("rows", rows),
		zap.Duration("elapsed", time.Since(start)))
}

// StillsPredictor predicts reflections for a static-crystal exposure.
type StillsPredictor struct {
	beam     *model.Beam
	detector *model.Detector
	crystal  *xtal.Crystal
	opts     options
}

func NewStillsPredictor(beam *model.Beam, detector *model.Detector, crystal *xtal.Crystal, opts ...Option) (*StillsPredictor, error) {
	switch {
	case beam == nil:
		return nil, fmt.Errorf("stills predictor: nil beam")
	case detector == nil:
		return nil, fmt.Errorf("stills predictor: nil detector")
	case crystal == nil:
		return nil, fmt.Errorf("stills predictor: nil crystal")
	}
	return &StillsPredictor{
		beam:     beam,
		detector: detector,
		crystal:  crystal,
		opts:     buildOptions(opts),
	}, nil
}

// AllObservable is not defined without a rotation sweep tied to the
// exposure; it fails loudly rather than returning an empty table.
func (p *StillsPredictor) AllObservable(float64) (*rtable.Table, error) {
	return nil, fmt.Errorf("stills predictor: all_observable: %w", ErrNotSupported)
}

// Observed predicts a caller-supplied index list. Output rows appear
// in input order regardless of the worker count.
func (p *StillsPredictor) Observed(hs []xtal.Miller) (*rtable.Table, error) {
	pl := &pipeline{
		rays:     NewStillsRayPredictor(p.beam.S0()),
		detector: p.detector,
		ub:       p.crystal.UB(),
	}
	start := time.Now()
	table, n, err := runParallel(pl, p.opts.workers, sliceChunks(hs))
	if err != nil {
		return nil, err
	}
	rows, _ := table.Rows()
	p.opts.log.Debug("prediction finished",
		zap.String("op", "observed"),
		zap.Int("indices", n),
		zap.Int("rows", rows),
		zap.Duration("elapsed", time.Since(start)))
	return table, nil
}
