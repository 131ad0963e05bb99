package weights

import (
	"errors"

	"github.com/jfelsner/nulabels"
)

// SurfaceZ is the z coordinate of the surface above the detector in
// detector coordinates; vertex depths are measured down from it.
const SurfaceZ = 1950.0

// GenInfo describes how a dataset was generated.
type GenInfo struct {
	NFiles        int
	NEventsPerRun int
	// TypeWeight is the generation probability of the simulated neutrino
	// type, 0.5 for the usual nu/nubar-symmetric generation. Zero means
	// 0.5.
	TypeWeight float64
}

// NGen returns the total number of generated events.
func (g GenInfo) NGen() float64 { return float64(g.NFiles * g.NEventsPerRun) }

func (g GenInfo) typeWeight() float64 {
	if g.TypeWeight == 0 {
		return 0.5
	}
	return g.TypeWeight
}

// Event carries the per-event quantities the weighting needs, taken from
// the primary and the generation record.
type Event struct {
	Type      nulabels.ParticleType
	Energy    float64 // GeV
	CosZenith float64
	VertexZ   float64 // detector coordinates, for the self-veto depth
	OneWeight float64 // GeV cm^2 sr
}

// PassingFraction is an atmospheric self-veto model: the fraction of
// atmospheric neutrinos at the given energy, direction and vertex depth
// that arrive without an accompanying detectable muon.
type PassingFraction func(t nulabels.ParticleType, energy, cosZenith, depth float64) float64

// UnityPassingFraction applies no self-veto.
func UnityPassingFraction(nulabels.ParticleType, float64, float64, float64) float64 {
	return 1
}

// ErrNoGeneration indicates a weighter without generation info.
var ErrNoGeneration = errors.New("weights: generation info with NGen == 0")

// Weighter computes per-flux weights for simulated neutrino events.
type Weighter struct {
	Fluxes []Flux
	Gen    GenInfo

	// Component multipliers applied to the atmospheric fluxes. Zero
	// values mean 1.
	ConvMultiplier   float64
	PromptMultiplier float64

	// Veto is applied to atmospheric components; nil means no self-veto.
	Veto PassingFraction
}

// WeightEvent returns the rate in Hz contributed by ev under each
// configured flux, keyed by flux name. Atmospheric components are scaled
// by their multiplier and the self-veto passing fraction.
func (w *Weighter) WeightEvent(ev Event) (map[string]float64, error) {
	ngen := w.Gen.NGen()
	if ngen == 0 {
		return nil, ErrNoGeneration
	}
	perGen := ev.OneWeight / (w.Gen.typeWeight() * ngen)
	depth := SurfaceZ - ev.VertexZ

	out := make(map[string]float64, len(w.Fluxes))
	for _, flux := range w.Fluxes {
		phi := flux.Flux(ev.Type, ev.Energy, ev.CosZenith)
		weight := phi * perGen

		switch flux.Kind() {
		case Conventional:
			weight *= mult(w.ConvMultiplier)
			if w.Veto != nil {
				weight *= w.Veto(ev.Type, ev.Energy, ev.CosZenith, depth)
			}
		case Prompt:
			weight *= mult(w.PromptMultiplier)
			if w.Veto != nil {
				weight *= w.Veto(ev.Type, ev.Energy, ev.CosZenith, depth)
			}
		}
		out[flux.Name()] = weight
	}
	return out, nil
}

// Meta returns the generation metadata recorded next to the weights.
func (w *Weighter) Meta() map[string]float64 {
	return map[string]float64{
		"n_files":          float64(w.Gen.NFiles),
		"n_events_per_run": float64(w.Gen.NEventsPerRun),
	}
}

func mult(m float64) float64 {
	if m == 0 {
		return 1
	}
	return m
}
