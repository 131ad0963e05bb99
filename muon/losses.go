package muon

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jfelsner/nulabels"
	"github.com/jfelsner/nulabels/geom"
)

// ErrBadBinWidth is returned for a loss bin width that is not positive and
// finite.
var ErrBadBinWidth = errors.New("muon: bin width must be positive")

// losses allows loss distances and energies to be sorted simultaneously,
// which the histogramming below requires.
type losses struct {
	ds, es []float64
}

func (l *losses) Len() int           { return len(l.ds) }
func (l *losses) Less(i, j int) bool { return l.ds[i] < l.ds[j] }
func (l *losses) Swap(i, j int) {
	l.ds[i], l.ds[j] = l.ds[j], l.ds[i]
	l.es[i], l.es[j] = l.es[j], l.es[i]
}

// BinnedEnergyLosses accumulates the energy losses of mu (its daughters in
// the tree) in bins of binWidth meters along an infinite extension of its
// track. The first bin starts where the infinite track enters hull, moved
// upstream by extendBoundary meters; the last regular bin ends past the
// exit crossing moved downstream by the same margin.
//
// Returns an empty slice when the infinite track misses the hull. With
// includeUnderOverflow the leading and trailing bin collect losses outside
// the extended crossing interval; otherwise those two bins are dropped.
//
// Returns ErrNotMuon for anything that is not a muon.
func BinnedEnergyLosses(
	tree *nulabels.Tree, hull *geom.ConvexHull, mu *nulabels.Particle,
	binWidth, extendBoundary float64, includeUnderOverflow bool,
) ([]float64, error) {
	if !IsMuon(mu) {
		return nil, ErrNotMuon
	}
	if binWidth <= 0 || math.IsNaN(binWidth) || math.IsInf(binWidth, 0) {
		return nil, ErrBadBinWidth
	}

	tmin, tmax, ok := trackIntersections(mu, hull)
	if !ok {
		return []float64{}, nil
	}

	binStart := geom.Along(mu.Pos, mu.Dir, tmin-extendBoundary)
	binEnd := geom.Along(mu.Pos, mu.Dir, tmax+extendBoundary)
	total := geom.Dist(binStart, binEnd)

	// Regular edges 0, w, 2w, ... covering the extended interval, plus
	// catch-all edges so that every loss lands in some bin.
	dividers := []float64{math.Inf(-1)}
	for x := 0.0; x < total+binWidth; x += binWidth {
		dividers = append(dividers, x)
	}
	dividers = append(dividers, math.Inf(1))

	ds := tree.Daughters(mu.ID)
	l := &losses{
		ds: make([]float64, len(ds)),
		es: make([]float64, len(ds)),
	}
	for i, d := range ds {
		l.ds[i] = geom.Dist(d.Pos, binStart)
		l.es[i] = d.Energy
	}
	sort.Sort(l)

	binned := stat.Histogram(nil, dividers, l.ds, l.es)

	// Distances are non-negative, so the leading catch-all bin is always
	// empty; the trailing one is the overflow.
	binned = binned[1:]
	if !includeUnderOverflow {
		binned = binned[1 : len(binned)-1]
	}
	return binned, nil
}
