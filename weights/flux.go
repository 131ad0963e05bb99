/*
Package weights turns generation information of simulated events into
per-flux event weights. The returned weights are rates in Hz; multiplying
by livetime gives expected event counts.
*/
package weights

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/table"

	"github.com/jfelsner/nulabels"
	"github.com/jfelsner/nulabels/interpolate"
)

// Kind classifies a flux component. Atmospheric components get the
// self-veto passing fraction and the component multipliers applied;
// astrophysical ones do not.
type Kind int

const (
	Astro Kind = iota
	Conventional
	Prompt
)

// Flux is a differential neutrino flux in 1/(GeV cm^2 s sr).
type Flux interface {
	// Flux evaluates the differential flux for the given species at
	// energy (GeV) and cosine of the zenith angle.
	Flux(t nulabels.ParticleType, energy, cosZenith float64) float64
	Name() string
	Kind() Kind
}

// PowerLaw is an isotropic single power law Phi0 * (E/Pivot)^-Gamma.
type PowerLaw struct {
	FluxName string
	Phi0     float64
	Pivot    float64
	Gamma    float64
}

func (p PowerLaw) Flux(_ nulabels.ParticleType, energy, _ float64) float64 {
	return p.Phi0 * math.Pow(energy/p.Pivot, -p.Gamma)
}

func (p PowerLaw) Name() string { return p.FluxName }
func (p PowerLaw) Kind() Kind   { return Astro }

// AstroE269 is the best-fit astrophysical flux with spectral index 2.69,
// per neutrino type.
func AstroE269() PowerLaw {
	return PowerLaw{FluxName: "astro_E269", Phi0: 2.09e-18, Pivot: 1e5, Gamma: 2.69}
}

// AstroE250 is the harder astrophysical benchmark with spectral index 2.5.
func AstroE250() PowerLaw {
	return PowerLaw{FluxName: "astro_E250", Phi0: 2.23e-18, Pivot: 1e5, Gamma: 2.5}
}

// TableFlux is an atmospheric flux tabulated on a (log10 energy, cos
// zenith) grid and evaluated by bilinear interpolation. Below
// ValidMinEnergy the tabulation is not trusted and Flux returns NaN.
type TableFlux struct {
	FluxName  string
	FluxKind  Kind
	interp    *interpolate.BiLinear
	minEnergy float64
}

// ValidMinEnergy is the lower energy bound of the atmospheric tables in
// GeV.
const ValidMinEnergy = 10.0

func (t *TableFlux) Flux(_ nulabels.ParticleType, energy, cosZenith float64) float64 {
	if energy < t.minEnergy {
		return math.NaN()
	}
	return t.interp.Eval(math.Log10(energy), cosZenith)
}

func (t *TableFlux) Name() string { return t.FluxName }
func (t *TableFlux) Kind() Kind   { return t.FluxKind }

// ErrBadFluxTable indicates a flux table file that does not form a complete
// rectangular grid.
var ErrBadFluxTable = errors.New("weights: flux table is not a complete grid")

// ReadFluxTable reads a whitespace-separated flux table with columns
// log10(E/GeV), cos(zenith), flux. The rows may come in any order but have
// to cover a full rectangular grid.
func ReadFluxTable(path, name string, kind Kind) (*TableFlux, error) {
	cols, err := table.ReadTable(path, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, fmt.Errorf("weights: reading flux table %s: %w", path, err)
	}
	les, czs, fluxes := cols[0], cols[1], cols[2]

	xs := uniqueSorted(les)
	ys := uniqueSorted(czs)
	if len(xs) < 2 || len(ys) < 2 || len(xs)*len(ys) != len(fluxes) {
		return nil, ErrBadFluxTable
	}

	vals := make([]float64, len(xs)*len(ys))
	seen := make([]bool, len(vals))
	for i := range fluxes {
		ix := sort.SearchFloat64s(xs, les[i])
		iy := sort.SearchFloat64s(ys, czs[i])
		idx := iy*len(xs) + ix
		if seen[idx] {
			return nil, ErrBadFluxTable
		}
		seen[idx] = true
		vals[idx] = fluxes[i]
	}
	for _, ok := range seen {
		if !ok {
			return nil, ErrBadFluxTable
		}
	}

	return &TableFlux{
		FluxName:  name,
		FluxKind:  kind,
		interp:    interpolate.NewBiLinear(xs, ys, vals),
		minEnergy: ValidMinEnergy,
	}, nil
}

func uniqueSorted(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Float64s(out)
	n := 0
	for i, x := range out {
		if i == 0 || x != out[n-1] {
			out[n] = x
			n++
		}
	}
	return out[:n]
}
