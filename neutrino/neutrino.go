/*
Package neutrino identifies the interaction neutrino of a simulated event:
the neutrino in a decay/interaction chain whose interaction produces the
visible energy deposit. A primary neutrino can oscillate or regenerate
through charged-current and neutral-current steps before it interacts for
good, so the identification has to descend the particle tree rather than
just look at the primary.
*/
package neutrino

import (
	"fmt"

	"github.com/jfelsner/nulabels"
	"github.com/jfelsner/nulabels/geom"
)

// Interaction returns the neutrino whose interaction vertex lies inside
// vol, starting from primary and descending pure regeneration steps (a
// neutrino whose only daughter is again a neutrino). It returns nil when
// primary is not a neutrino, when the chain ends without an interaction, or
// when the interaction vertex falls outside vol. A nil vol means the
// detector boundary extended by geom.DefaultExtendBoundary.
//
// With crossCheck enabled the result is compared against an independent
// scan for the first in-ice neutrino of the tree; a mismatch panics, since
// it means the simulation record is inconsistent.
func Interaction(
	tree *nulabels.Tree, primary *nulabels.Particle,
	vol geom.Volume, crossCheck bool,
) *nulabels.Particle {
	if primary == nil || !primary.Type.IsNeutrino() {
		return nil
	}
	if vol == nil {
		vol = geom.DetectorVolume(geom.DefaultExtendBoundary)
	}

	cur := primary
	for {
		ds := tree.Daughters(cur.ID)
		if len(ds) == 0 {
			// Left the simulation without interacting.
			return nil
		}
		if len(ds) == 1 && ds[0].Type.IsNeutrino() {
			// Oscillation/regeneration step with no visible products.
			cur = ds[0]
			continue
		}

		// A real interaction. Its vertex is the first daughter's position.
		if !vol.Contains(ds[0].Pos) {
			return nil
		}

		if crossCheck {
			if scanned := FirstInIce(tree); scanned == nil || scanned.ID != cur.ID {
				panic(fmt.Sprintf(
					"neutrino: interaction cross-check failed for primary %d (%v): got %v, scan found %v",
					primary.ID, primary.Type, cur.ID, scanned))
			}
		}
		return cur
	}
}

// FirstInIce returns the first neutrino in depth-first tree order whose
// location type is InIce, or nil if there is none.
func FirstInIce(tree *nulabels.Tree) *nulabels.Particle {
	var found *nulabels.Particle
	tree.Walk(func(p *nulabels.Particle) {
		if found == nil && p.Type.IsNeutrino() && p.Loc == nulabels.InIce {
			found = p
		}
	})
	return found
}
