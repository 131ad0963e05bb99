/*
Package shower holds the shower parametrization that converts raw deposited
energy into electromagnetic-equivalent energy, i.e. the EM shower energy
that would produce the same light yield.

Electromagnetic species shower with scale 1 by definition. Hadronic species
follow a saturating mean fraction

	F(E) = 1 - (E/E0)^-m * (1 - f0)

which rises from f0 at E0 towards 1 at high energy: the higher the energy,
the more of a hadronic shower ends up in electromagnetic sub-showers.
*/
package shower

import (
	"math"

	"github.com/jfelsner/nulabels"
)

// ScaleFunc maps a particle type and its raw energy in GeV to the
// EM-equivalent scale factor. The canonical shower tables of the simulation
// chain satisfy this signature; EMScale is the built-in fallback.
type ScaleFunc func(t nulabels.ParticleType, energy float64) float64

// hadronParams are the fit parameters of the mean EM fraction for one
// hadronic species.
type hadronParams struct {
	e0, m, f0 float64
}

var hadronTable = map[nulabels.ParticleType]hadronParams{
	nulabels.PiPlus:  {0.18791678, 0.16267529, 0.30974123},
	nulabels.PiMinus: {0.19826506, 0.16218006, 0.31859323},
	nulabels.K0L:     {0.21687243, 0.16861530, 0.27724987},
	nulabels.KPlus:   {0.21687243, 0.16861530, 0.27724987},
	nulabels.KMinus:  {0.21687243, 0.16861530, 0.27724987},
	nulabels.PPlus:   {0.29579368, 0.19373018, 0.02455403},
	nulabels.PMinus:  {0.29579368, 0.19373018, 0.02455403},
	nulabels.Neutron: {0.66725124, 0.19263595, 0.04928698},
	nulabels.Hadrons: {0.18791678, 0.16267529, 0.30974123},
}

// EMScale returns the EM-equivalent scale factor for a particle of the
// given type and energy in GeV.
//
// Electromagnetic species (electrons, photons, neutral pions) return 1.
// Muons and taus return 1: their treatment as fully visible tracks is
// decided by the callers, not here. Neutrinos return 0, they carry no
// visible energy. Hadronic species follow the table above; species without
// an entry fall back to the aggregate hadron parametrization.
func EMScale(t nulabels.ParticleType, energy float64) float64 {
	switch {
	case t.IsNeutrino():
		return 0
	case t.IsMuon() || t.IsTau():
		return 1
	}
	switch t {
	case nulabels.EMinus, nulabels.EPlus, nulabels.Gamma, nulabels.Pi0:
		return 1
	}

	par, ok := hadronTable[t]
	if !ok {
		par = hadronTable[nulabels.Hadrons]
	}
	if energy <= par.e0 {
		// Below the turn-on the fit is not valid; the fraction has
		// saturated at its minimum.
		return par.f0
	}
	return 1 - math.Pow(energy/par.e0, -par.m)*(1-par.f0)
}
