package cascade

import (
	"fmt"

	"github.com/jfelsner/nulabels"
	"github.com/jfelsner/nulabels/geom"
	"github.com/jfelsner/nulabels/neutrino"
	"github.com/jfelsner/nulabels/shower"
)

// EMEquivalent returns the electromagnetic-equivalent energy of p: its raw
// energy scaled by the shower model. A nil scale uses shower.EMScale.
func EMEquivalent(p *nulabels.Particle, scale shower.ScaleFunc) float64 {
	if scale == nil {
		scale = shower.EMScale
	}
	return p.Energy * scale(p.Type, p.Energy)
}

// Build locates the first neutrino interaction of primary inside vol and
// returns it condensed into a single cascade particle:
//
//   - type: the interacting neutrino's type
//   - direction: the primary's direction, preserving the original shower
//     axis even when the interacting neutrino's direction differs
//   - position, time: the interaction vertex (first daughter)
//   - length: the maximum extension of the interaction from that vertex
//   - energy: the summed visible energy of the interaction's daughters;
//     neutrino daughters are skipped (their energy is invisible), daughters
//     outside the in-ice location type are skipped, muons and taus count
//     with their full raw energy, everything else with its EM equivalent.
//     Energy carried off by neutrinos from prompt tau decays is not
//     accounted for.
//
// The returned particle is synthetic: it has no daughters and is not
// inserted into the tree. Build returns nil when no interaction neutrino is
// found or the interaction happens outside vol, the normal "no cascade in
// this event" outcome. A nil vol means the detector boundary extended by
// geom.DefaultExtendBoundary; a nil scale means shower.EMScale.
//
// Build panics when the tree is malformed: an interacting neutrino without
// daughters, or an interaction vertex outside vol after the locator said
// otherwise. Upstream selection is expected to make both impossible.
func Build(
	tree *nulabels.Tree, primary *nulabels.Particle,
	vol geom.Volume, scale shower.ScaleFunc,
) *nulabels.Particle {
	if vol == nil {
		vol = geom.DetectorVolume(geom.DefaultExtendBoundary)
	}

	nu := neutrino.Interaction(tree, primary, vol, false)
	if nu == nil || !nu.Type.IsNeutrino() {
		return nil
	}

	ds := tree.Daughters(nu.ID)
	if len(ds) == 0 {
		panic(fmt.Sprintf(
			"cascade: interacting neutrino %d of primary %d (%v) has no daughters",
			nu.ID, primary.ID, primary.Type))
	}
	if !vol.Contains(ds[0].Pos) {
		panic(fmt.Sprintf(
			"cascade: interaction vertex of primary %d (%v) at %v is outside the volume",
			primary.ID, primary.Type, ds[0].Pos))
	}

	casc := &nulabels.Particle{
		ID:     nulabels.NoParticle,
		Type:   nu.Type,
		Shape:  nulabels.Cascade,
		Loc:    nu.Loc,
		Dir:    primary.Dir,
		Pos:    ds[0].Pos,
		Time:   ds[0].Time,
		Length: InteractionExtensionLength(tree, nu),
	}

	var deposited float64
	for _, d := range ds {
		if d.Type.IsNeutrino() {
			// Invisible.
			continue
		}
		if d.Loc != nulabels.InIce {
			continue
		}
		if d.Type.IsMuon() || d.Type.IsTau() {
			deposited += d.Energy
		} else {
			deposited += EMEquivalent(d, scale)
		}
	}
	casc.Energy = deposited

	return casc
}

// DepositedEnergy returns the energy casc deposits inside vol under the
// all-or-nothing containment model: the full EM-equivalent energy when the
// cascade vertex is inside, 0 otherwise. Partial containment is not
// modeled.
//
// A particle synthesized by Build keeps its neutrino type but already
// carries EM-equivalent energy, so it counts with scale 1 rather than the
// neutrino scale of 0.
func DepositedEnergy(
	casc *nulabels.Particle, vol geom.Volume, scale shower.ScaleFunc,
) float64 {
	if vol == nil {
		vol = geom.DetectorVolume(geom.DefaultExtendBoundary)
	}
	if !vol.Contains(casc.Pos) {
		return 0
	}
	if casc.Shape == nulabels.Cascade && casc.Type.IsNeutrino() {
		return casc.Energy
	}
	return EMEquivalent(casc, scale)
}
