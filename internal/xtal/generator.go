package xtal

import "fmt"

// IndexGenerator is a cursor over the candidate Miller indices of a
// crystal down to a resolution limit, with systematic absences
// excluded. Each generator owns its own cursor state, so a fresh one
// must be created per prediction run.
type IndexGenerator struct {
	crystal *Crystal
	dmin    float64

	hmax, kmax, lmax int
	h, k, l          int
	done             bool
}

// NewIndexGenerator prepares a cursor over the index box implied by the
// cell edges and dmin. dmin must be positive.
func NewIndexGenerator(crystal *Crystal, dmin float64) (*IndexGenerator, error) {
	if crystal == nil {
		return nil, fmt.Errorf("index generator: nil crystal")
	}
	if dmin <= 0 {
		return nil, fmt.Errorf("index generator: dmin must be positive, got %g", dmin)
	}
	cell := crystal.Cell
	g := &IndexGenerator{
		crystal: crystal,
		dmin:    dmin,
		hmax:    int(cell.A/dmin) + 1,
		kmax:    int(cell.B/dmin) + 1,
		lmax:    int(cell.C/dmin) + 1,
	}
	g.h, g.k, g.l = -g.hmax, -g.kmax, -g.lmax-1 // one before the first candidate
	return g, nil
}

// Next returns the next candidate index, or ok=false once the search
// box is exhausted.
func (g *IndexGenerator) Next() (Miller, bool) {
	for !g.done {
		if !g.advance() {
			return Miller{}, false
		}
		h := Miller{H: g.h, K: g.k, L: g.l}
		if h.IsZero() {
			continue
		}
		if g.crystal.DSpacing(h) < g.dmin {
			continue
		}
		if g.crystal.Group.SystematicallyAbsent(h) {
			continue
		}
		return h, true
	}
	return Miller{}, false
}

func (g *IndexGenerator) advance() bool {
	g.l++
	if g.l > g.lmax {
		g.l = -g.lmax
		g.k++
		if g.k > g.kmax {
			g.k = -g.kmax
			g.h++
			if g.h > g.hmax {
				g.done = true
				return false
			}
		}
	}
	return true
}
