/*
Package muon computes track labels for simulated muons: entry and exit
points through a convex volume, contained track length, timing and energy
along the track, and energy losses binned along an infinite extension of
the track.
*/
package muon

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jfelsner/nulabels"
	"github.com/jfelsner/nulabels/geom"
)

// C is the vacuum speed of light in m/ns. Muons at the energies of interest
// are fully relativistic, so track timing assumes speed C.
const C = 0.299792458

// Energy-loss parametrization dE/dx = a + b*E in ice, a in GeV/m and b in
// 1/m. Stands in for the propagator's stochastic loss tables; good to the
// tens-of-percent level, which is enough for labeling.
const (
	lossA = 0.24
	lossB = 3.3e-4
)

// lengthEps absorbs round-off when comparing intersection parameters
// against the track length.
const lengthEps = 1e-8

// ErrNotMuon is returned when a muon-only label is requested for another
// species.
var ErrNotMuon = errors.New("muon: particle is not a muon")

// IsMuon reports whether p is a muon or antimuon.
func IsMuon(p *nulabels.Particle) bool {
	return p != nil && p.Type.IsMuon()
}

// TimeAtDistance returns the time of mu after traveling distance meters
// from its vertex.
func TimeAtDistance(mu *nulabels.Particle, distance float64) float64 {
	return mu.Time + distance/C
}

// TimeAtPosition returns the time of mu at a position on its track. It
// returns NaN when the position is behind the vertex or not on the track
// axis. A position past the track's end still gets the time the muon would
// have had there.
func TimeAtPosition(mu *nulabels.Particle, pos geom.Vec) float64 {
	d := DistanceAlongTrack(mu.Pos, mu.Dir, pos)
	if d < 0 || math.IsNaN(d) {
		return math.NaN()
	}
	return TimeAtDistance(mu, d)
}

// DistanceAlongTrack returns the signed distance from vertex to the
// projection of point onto the track axis. Negative means the point lies
// behind the vertex. Returns NaN when the point is off the axis by more
// than about a degree as seen from the vertex.
func DistanceAlongTrack(vertex, dir, point geom.Vec) float64 {
	rel := r3.Sub(point, vertex)
	d := r3.Dot(rel, dir)
	resid := geom.Dist(point, geom.Along(vertex, dir, d))
	if resid > 1.5e-2*r3.Norm(rel) {
		return math.NaN()
	}
	return d
}

// ClosestApproach returns the point on mu's track closest to pos, clamped
// to the track's extent: positions before the vertex clamp to the vertex,
// positions past the end clamp to the endpoint.
func ClosestApproach(mu *nulabels.Particle, pos geom.Vec) geom.Vec {
	d := r3.Dot(r3.Sub(pos, mu.Pos), mu.Dir)
	if d < 0 {
		return mu.Pos
	}
	if mu.HasLength() && d > mu.Length {
		return mu.EndPos()
	}
	return geom.Along(mu.Pos, mu.Dir, d)
}

// trackIntersections clips mu's infinite track against hull. A graze of a
// corner or edge yields a degenerate interval; the track is re-clipped from
// a nudged vertex once, and counted as a miss if it stays degenerate.
func trackIntersections(mu *nulabels.Particle, hull *geom.ConvexHull) (tmin, tmax float64, ok bool) {
	tmin, tmax, ok = hull.Intersections(mu.Pos, mu.Dir)
	if ok && tmax-tmin < 1e-7 {
		eps := 1e-4
		shifted := geom.Along(mu.Pos, mu.Dir, eps)
		tmin, tmax, ok = hull.Intersections(shifted, mu.Dir)
		tmin, tmax = tmin+eps, tmax+eps
		if ok && tmax-tmin < 1e-7 {
			return 0, 0, false
		}
	}
	return tmin, tmax, ok
}

// EntryPoint returns the first point of mu's track inside hull: the vertex
// for a track starting inside, the first hull crossing otherwise. ok is
// false when the track misses the hull, starts after it, or stops before
// reaching it.
func EntryPoint(mu *nulabels.Particle, hull *geom.ConvexHull) (p geom.Vec, ok bool) {
	tmin, tmax, ok := trackIntersections(mu, hull)
	if !ok {
		return geom.Vec{}, false
	}
	switch {
	case tmin <= 0 && tmax >= 0:
		// Starting track.
		return mu.Pos, true
	case tmax < 0:
		// Hull is behind the vertex.
		return geom.Vec{}, false
	case mu.HasLength() && tmin > mu.Length+lengthEps:
		// Muon stops before the hull.
		return geom.Vec{}, false
	}
	return geom.Along(mu.Pos, mu.Dir, tmin), true
}

// ExitPoint returns the point where mu's track leaves hull: the stopping
// point for a muon ending inside, the second hull crossing otherwise. ok is
// false when the track never reaches the hull.
func ExitPoint(mu *nulabels.Particle, hull *geom.ConvexHull) (p geom.Vec, ok bool) {
	tmin, tmax, ok := trackIntersections(mu, hull)
	if !ok {
		return geom.Vec{}, false
	}
	switch {
	case tmax < 0:
		return geom.Vec{}, false
	case mu.HasLength() && tmin > mu.Length+lengthEps:
		return geom.Vec{}, false
	case mu.HasLength() && tmax > mu.Length+lengthEps:
		// Stopping track.
		return mu.EndPos(), true
	}
	return geom.Along(mu.Pos, mu.Dir, tmax), true
}

// IsStopping reports whether mu ends inside hull. A muon that never reaches
// the hull is not stopping; a starting muon that also ends inside is.
func IsStopping(mu *nulabels.Particle, hull *geom.ConvexHull) bool {
	tmin, tmax, ok := trackIntersections(mu, hull)
	if !ok || !mu.HasLength() {
		return false
	}
	if tmin > mu.Length+lengthEps || tmax < 0 {
		return false
	}
	return tmax > mu.Length+lengthEps
}

// Inside reports whether any part of mu's track lies inside hull.
func Inside(mu *nulabels.Particle, hull *geom.ConvexHull) bool {
	tmin, tmax, ok := trackIntersections(mu, hull)
	if !ok || tmax < 0 {
		return false
	}
	if mu.HasLength() && tmin > mu.Length+lengthEps {
		return false
	}
	return true
}

// TrackLengthInside returns the length of mu's track contained in hull, 0
// when the track misses it.
func TrackLengthInside(mu *nulabels.Particle, hull *geom.ConvexHull) float64 {
	tmin, tmax, ok := trackIntersections(mu, hull)
	if !ok {
		return 0
	}
	end := tmax
	if mu.HasLength() && mu.Length < end {
		end = mu.Length
	}
	switch {
	case tmin <= 0 && tmax >= 0:
		// Starting track.
		if end < 0 {
			return 0
		}
		return end
	case tmax < 0:
		return 0
	case mu.HasLength() && tmin > mu.Length+lengthEps:
		return 0
	}
	return end - tmin
}

// EnergyAtDistance returns mu's energy after traveling distance meters,
// under the continuous-slowing-down model dE/dx = a + b*E. Returns 0 once
// the muon has ranged out and NaN for a negative distance.
func EnergyAtDistance(mu *nulabels.Particle, distance float64) float64 {
	if distance < 0 || math.IsNaN(distance) {
		return math.NaN()
	}
	e := (mu.Energy+lossA/lossB)*math.Exp(-lossB*distance) - lossA/lossB
	if e < 0 {
		return 0
	}
	return e
}

// EnergyAtPosition returns mu's energy at a position on its track. Returns
// NaN when the position is behind the vertex or off the track axis, and 0
// past the end of the track.
func EnergyAtPosition(mu *nulabels.Particle, pos geom.Vec) float64 {
	d := DistanceAlongTrack(mu.Pos, mu.Dir, pos)
	if d < 0 || math.IsNaN(d) {
		return math.NaN()
	}
	if mu.HasLength() && d > mu.Length+lengthEps {
		return 0
	}
	return EnergyAtDistance(mu, d)
}

// EnergyDeposited returns the energy mu loses inside hull, 0 when the track
// misses it.
func EnergyDeposited(mu *nulabels.Particle, hull *geom.ConvexHull) float64 {
	tmin, tmax, ok := trackIntersections(mu, hull)
	if !ok {
		return 0
	}
	switch {
	case tmin <= 0 && tmax >= 0:
		return mu.Energy - EnergyAtDistance(mu, tmax)
	case tmax < 0:
		return 0
	}
	return EnergyAtDistance(mu, tmin) - EnergyAtDistance(mu, tmax)
}

// MostEnergeticInside returns the muon with the highest energy at its
// initial point inside hull, i.e. at its vertex for a starting muon or at
// the entry point otherwise. Returns nil when no candidate reaches the
// hull.
func MostEnergeticInside(muons []*nulabels.Particle, hull *geom.ConvexHull) *nulabels.Particle {
	var best *nulabels.Particle
	bestEnergy := 0.0
	for _, mu := range muons {
		entry, ok := EntryPoint(mu, hull)
		if !ok {
			continue
		}
		e := EnergyAtPosition(mu, entry)
		if e > bestEnergy {
			best, bestEnergy = mu, e
		}
	}
	return best
}

// MuonsInside returns the muons in tree whose tracks reach hull, in tree
// order.
func MuonsInside(tree *nulabels.Tree, hull *geom.ConvexHull) []*nulabels.Particle {
	var muons []*nulabels.Particle
	tree.Walk(func(p *nulabels.Particle) {
		if IsMuon(p) && Inside(p, hull) {
			muons = append(muons, p)
		}
	})
	return muons
}

// FirstDaughterOfNu descends from a muon neutrino to the muon produced by
// its charged-current interaction, stepping through neutral-current
// regeneration (the single daughter muon neutrino of an NC vertex). It
// returns nil for non-muon-neutrinos and for chains that never produce a
// muon. A vertex with more than one muon or more than one muon neutrino
// daughter panics: the simulation record is malformed.
func FirstDaughterOfNu(tree *nulabels.Tree, p *nulabels.Particle) *nulabels.Particle {
	if p == nil || (p.Type != nulabels.NuMu && p.Type != nulabels.NuMuBar) {
		return nil
	}
	ds := tree.Daughters(p.ID)
	if len(ds) == 0 {
		return nil
	}

	var muons, nus []*nulabels.Particle
	for _, d := range ds {
		switch {
		case d.Type.IsMuon():
			muons = append(muons, d)
		case d.Type == nulabels.NuMu || d.Type == nulabels.NuMuBar:
			nus = append(nus, d)
		}
	}
	if len(muons) > 0 {
		// CC interaction: nu + N -> mu + hadrons.
		if len(muons) != 1 {
			panic("muon: more than one muon daughter at a CC vertex")
		}
		return muons[0]
	}
	if len(nus) > 0 {
		// NC interaction: nu + N -> nu + hadrons.
		if len(nus) != 1 {
			panic("muon: more than one neutrino daughter at an NC vertex")
		}
		return FirstDaughterOfNu(tree, nus[0])
	}
	return nil
}
