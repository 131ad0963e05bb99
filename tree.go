package nulabels

import "fmt"

// ParticleID indexes a particle inside its Tree.
type ParticleID int

// NoParticle is the id of a particle that does not exist, e.g. the parent
// of a primary.
const NoParticle ParticleID = -1

// Tree is the particle forest of one simulated event. It owns all particle
// records for the lifetime of the event and is an arena: particles are
// identified by dense indices and each node keeps an ordered daughter list.
// Trees are built once by the record reader and only read afterwards.
type Tree struct {
	nodes     []Particle
	daughters [][]ParticleID
	parents   []ParticleID
	primaries []ParticleID
}

// NewTree returns an empty tree.
func NewTree() *Tree { return &Tree{} }

// Len returns the number of particles in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// AddPrimary inserts p as a new root of the forest and returns its id.
func (t *Tree) AddPrimary(p Particle) ParticleID {
	id := t.add(p, NoParticle)
	t.primaries = append(t.primaries, id)
	return id
}

// AddDaughter inserts p as the last daughter of parent and returns its id.
// It panics if parent is not in the tree.
func (t *Tree) AddDaughter(parent ParticleID, p Particle) ParticleID {
	t.check(parent)
	id := t.add(p, parent)
	t.daughters[parent] = append(t.daughters[parent], id)
	return id
}

func (t *Tree) add(p Particle, parent ParticleID) ParticleID {
	id := ParticleID(len(t.nodes))
	p.ID = id
	t.nodes = append(t.nodes, p)
	t.daughters = append(t.daughters, nil)
	t.parents = append(t.parents, parent)
	return id
}

// Particle returns the particle with the given id. The returned pointer is
// into the arena; it stays valid once the tree is fully built, but a later
// Add call may reallocate the arena and strand it.
func (t *Tree) Particle(id ParticleID) *Particle {
	t.check(id)
	return &t.nodes[id]
}

// Daughters returns the ordered direct daughters of id.
func (t *Tree) Daughters(id ParticleID) []*Particle {
	t.check(id)
	ds := make([]*Particle, len(t.daughters[id]))
	for i, d := range t.daughters[id] {
		ds[i] = &t.nodes[d]
	}
	return ds
}

// NumDaughters returns the number of direct daughters of id.
func (t *Tree) NumDaughters(id ParticleID) int {
	t.check(id)
	return len(t.daughters[id])
}

// Parent returns the parent of id, or nil for a primary.
func (t *Tree) Parent(id ParticleID) *Particle {
	t.check(id)
	if t.parents[id] == NoParticle {
		return nil
	}
	return &t.nodes[t.parents[id]]
}

// Primaries returns the roots of the forest in insertion order.
func (t *Tree) Primaries() []*Particle {
	ps := make([]*Particle, len(t.primaries))
	for i, id := range t.primaries {
		ps[i] = &t.nodes[id]
	}
	return ps
}

// Walk calls fn for every particle in the tree in depth-first order,
// primaries first.
func (t *Tree) Walk(fn func(p *Particle)) {
	var rec func(id ParticleID)
	rec = func(id ParticleID) {
		fn(&t.nodes[id])
		for _, d := range t.daughters[id] {
			rec(d)
		}
	}
	for _, id := range t.primaries {
		rec(id)
	}
}

func (t *Tree) check(id ParticleID) {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("nulabels: particle id %d not in tree of size %d",
			id, len(t.nodes)))
	}
}
