/*
Package cascade builds the aggregate cascade label of a simulated event: it
locates the first in-volume neutrino interaction in the particle tree and
condenses the visible products into a single particle with a position,
direction, spatial extension, and total EM-equivalent energy.
*/
package cascade

import (
	"fmt"

	"github.com/jfelsner/nulabels"
	"github.com/jfelsner/nulabels/geom"
)

// MaxExtensionFrom returns the endpoint, among p's own endpoint and the
// endpoints of all its descendants, that lies farthest from vertex.
// Endpoints of particles without a defined length are their vertices.
//
// Exact distance ties go to the later-visited candidate (the comparison is
// >=, not >), which biases towards deeper daughters in traversal order.
// Existing label datasets were produced with this tie-break; changing it to
// a strict > would change outputs on tied trees.
//
// With considerSelfLength false, p's own endpoint does not compete and the
// result comes purely from the daughter subtree; calling it this way on a
// particle without daughters panics.
func MaxExtensionFrom(
	tree *nulabels.Tree, p *nulabels.Particle,
	vertex geom.Vec, considerSelfLength bool,
) geom.Vec {
	ext, ok := maxExtension(tree, p, vertex, considerSelfLength)
	if !ok {
		panic(fmt.Sprintf(
			"cascade: no extension candidates for particle %d (%v): "+
				"self length excluded and no daughters",
			p.ID, p.Type))
	}
	return ext
}

func maxExtension(
	tree *nulabels.Tree, p *nulabels.Particle,
	vertex geom.Vec, considerSelf bool,
) (geom.Vec, bool) {
	var maxExt geom.Vec
	var maxDist float64
	ok := false

	if considerSelf {
		maxExt = p.EndPos()
		maxDist = geom.Dist(vertex, maxExt)
		ok = true
	}

	for _, d := range tree.Daughters(p.ID) {
		ext, _ := maxExtension(tree, d, vertex, true)
		if dist := geom.Dist(vertex, ext); dist >= maxDist {
			maxDist, maxExt, ok = dist, ext, true
		}
	}
	return maxExt, ok
}

// InteractionExtensionLength returns the maximum extension of the first
// interaction of p, measured from the interaction vertex (the position of
// p's first daughter). It panics if p has no daughters.
func InteractionExtensionLength(tree *nulabels.Tree, p *nulabels.Particle) float64 {
	ds := tree.Daughters(p.ID)
	if len(ds) == 0 {
		panic(fmt.Sprintf(
			"cascade: particle %d (%v) has no daughters, no interaction vertex",
			p.ID, p.Type))
	}
	vertex := ds[0].Pos
	ext := MaxExtensionFrom(tree, p, vertex, false)
	return geom.Dist(vertex, ext)
}

// InteractionExtensionPos returns the position of the maximum extension of
// the first interaction of p. It needs at least two daughters: the first
// fixes the vertex and the search has to have another endpoint to win.
func InteractionExtensionPos(tree *nulabels.Tree, p *nulabels.Particle) geom.Vec {
	ds := tree.Daughters(p.ID)
	if len(ds) < 2 {
		panic(fmt.Sprintf(
			"cascade: particle %d (%v) has %d daughters, need at least 2",
			p.ID, p.Type, len(ds)))
	}
	return MaxExtensionFrom(tree, p, ds[0].Pos, false)
}
