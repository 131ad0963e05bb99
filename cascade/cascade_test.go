package cascade

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jfelsner/nulabels"
	"github.com/jfelsner/nulabels/geom"
	"github.com/jfelsner/nulabels/shower"
)

func testVolume(t *testing.T) geom.Volume {
	hull, err := geom.NewPrism(
		[][2]float64{{-500, -500}, {500, -500}, {500, 500}, {-500, 500}},
		-500, 500,
	)
	if err != nil {
		t.Fatal(err.Error())
	}
	return hull
}

func TestMaxExtensionSingleTrack(t *testing.T) {
	tree := nulabels.NewTree()
	nu := tree.AddPrimary(nulabels.Particle{Type: nulabels.NuMu})
	tree.AddDaughter(nu, nulabels.Particle{
		Type:   nulabels.MuMinus,
		Pos:    geom.Vec{},
		Dir:    geom.Vec{X: 1},
		Length: 300,
	})

	ext := MaxExtensionFrom(tree, tree.Primaries()[0], geom.Vec{}, false)
	assert.InDelta(t, 300.0, ext.X, 1e-12)
	assert.InDelta(t, 0.0, ext.Y, 1e-12)
}

func TestMaxExtensionDeepDaughterWins(t *testing.T) {
	tree := nulabels.NewTree()
	nu := tree.AddPrimary(nulabels.Particle{Type: nulabels.NuMu})
	mu := tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.MuMinus, Dir: geom.Vec{X: 1}, Length: 100,
	})
	// A loss further out than the muon endpoint.
	tree.AddDaughter(mu, nulabels.Particle{
		Type: nulabels.EMinus, Pos: geom.Vec{X: 250},
	})
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.Hadrons, Pos: geom.Vec{X: 5},
	})

	ext := MaxExtensionFrom(tree, tree.Primaries()[0], geom.Vec{}, false)
	assert.InDelta(t, 250.0, ext.X, 1e-12)
}

func TestMaxExtensionTieGoesToLaterCandidate(t *testing.T) {
	// Two endpoints at the same distance from the vertex but in different
	// directions. The later one in traversal order wins.
	tree := nulabels.NewTree()
	nu := tree.AddPrimary(nulabels.Particle{Type: nulabels.NuMu})
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.EMinus, Pos: geom.Vec{X: 100},
	})
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.EPlus, Pos: geom.Vec{Y: 100},
	})

	ext := MaxExtensionFrom(tree, tree.Primaries()[0], geom.Vec{}, false)
	assert.InDelta(t, 0.0, ext.X, 1e-12)
	assert.InDelta(t, 100.0, ext.Y, 1e-12)
}

func TestMaxExtensionNoCandidatesPanics(t *testing.T) {
	tree := nulabels.NewTree()
	tree.AddPrimary(nulabels.Particle{Type: nulabels.NuMu})

	assert.Panics(t, func() {
		MaxExtensionFrom(tree, tree.Primaries()[0], geom.Vec{}, false)
	})
	assert.NotPanics(t, func() {
		MaxExtensionFrom(tree, tree.Primaries()[0], geom.Vec{}, true)
	}, "self endpoint should be a valid candidate")
}

func TestInteractionExtensionLength(t *testing.T) {
	tree := nulabels.NewTree()
	nu := tree.AddPrimary(nulabels.Particle{Type: nulabels.NuMu})
	// First daughter fixes the vertex.
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.Hadrons, Pos: geom.Vec{X: 10},
	})
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.MuMinus, Pos: geom.Vec{X: 10},
		Dir: geom.Vec{X: 1}, Length: 90,
	})

	l := InteractionExtensionLength(tree, tree.Primaries()[0])
	assert.InDelta(t, 90.0, l, 1e-12)

	pos := InteractionExtensionPos(tree, tree.Primaries()[0])
	assert.InDelta(t, 100.0, pos.X, 1e-12)
}

func buildCCEvent() (*nulabels.Tree, *nulabels.Particle) {
	tree := nulabels.NewTree()
	nu := tree.AddPrimary(nulabels.Particle{
		Type: nulabels.NuMu, Dir: geom.Vec{Z: -1}, Energy: 1e4,
		Loc: nulabels.InIce,
	})
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.MuMinus, Pos: geom.Vec{X: 10}, Time: 100,
		Dir: geom.Vec{X: 1}, Length: 200, Energy: 6000,
		Loc: nulabels.InIce,
	})
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.Hadrons, Pos: geom.Vec{X: 10}, Time: 100,
		Energy: 3000, Loc: nulabels.InIce,
	})
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.NuMu, Pos: geom.Vec{X: 10}, Time: 100,
		Energy: 1000, Loc: nulabels.InIce,
	})
	return tree, tree.Primaries()[0]
}

func TestBuild(t *testing.T) {
	vol := testVolume(t)
	tree, prim := buildCCEvent()

	casc := Build(tree, prim, vol, nil)
	if !assert.NotNil(t, casc) {
		return
	}

	assert.Equal(t, nulabels.NoParticle, casc.ID, "synthetic particle got a tree id")
	assert.Equal(t, nulabels.NuMu, casc.Type)
	assert.Equal(t, nulabels.Cascade, casc.Shape)
	assert.Equal(t, prim.Dir, casc.Dir, "cascade axis is not the primary direction")
	assert.InDelta(t, 10.0, casc.Pos.X, 1e-12)
	assert.InDelta(t, 100.0, casc.Time, 1e-12)
	assert.InDelta(t, 200.0, casc.Length, 1e-12, "extension is the muon track length")

	// Muon counts raw, the neutrino daughter not at all, hadrons EM-scaled.
	want := 6000.0 + 3000.0*shower.EMScale(nulabels.Hadrons, 3000)
	assert.InDelta(t, want, casc.Energy, 1e-9)
}

func TestBuildSkipsNonInIceDaughters(t *testing.T) {
	vol := testVolume(t)

	tree := nulabels.NewTree()
	nu := tree.AddPrimary(nulabels.Particle{
		Type: nulabels.NuE, Loc: nulabels.InIce,
	})
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.EMinus, Pos: geom.Vec{X: 10}, Energy: 500,
		Loc: nulabels.InIce,
	})
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.EMinus, Pos: geom.Vec{X: 10}, Energy: 500,
		Loc: nulabels.IceTop,
	})

	casc := Build(tree, tree.Primaries()[0], vol, nil)
	if assert.NotNil(t, casc) {
		assert.InDelta(t, 500.0, casc.Energy, 1e-12,
			"non-in-ice daughter counted")
	}
}

func TestBuildNilCases(t *testing.T) {
	vol := testVolume(t)

	// Muon primary.
	tree := nulabels.NewTree()
	tree.AddPrimary(nulabels.Particle{Type: nulabels.MuMinus})
	assert.Nil(t, Build(tree, tree.Primaries()[0], vol, nil))

	// Interaction outside the volume.
	tree = nulabels.NewTree()
	nu := tree.AddPrimary(nulabels.Particle{Type: nulabels.NuE})
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.EMinus, Pos: geom.Vec{X: 5000},
	})
	assert.Nil(t, Build(tree, tree.Primaries()[0], vol, nil))
}

func TestBuildCustomScale(t *testing.T) {
	vol := testVolume(t)
	tree, prim := buildCCEvent()

	half := func(nulabels.ParticleType, float64) float64 { return 0.5 }
	casc := Build(tree, prim, vol, half)
	if assert.NotNil(t, casc) {
		// Muon still counts raw; only the hadrons go through the scale.
		assert.InDelta(t, 6000.0+1500.0, casc.Energy, 1e-9)
	}
}

func TestEMEquivalent(t *testing.T) {
	e := &nulabels.Particle{Type: nulabels.EMinus, Energy: 123}
	assert.Equal(t, 123.0, EMEquivalent(e, nil))

	had := &nulabels.Particle{Type: nulabels.Hadrons, Energy: 100}
	want := 100 * shower.EMScale(nulabels.Hadrons, 100)
	assert.InDelta(t, want, EMEquivalent(had, nil), 1e-12)
	assert.Less(t, EMEquivalent(had, nil), had.Energy)
}

func TestDepositedEnergy(t *testing.T) {
	vol := testVolume(t)

	in := &nulabels.Particle{
		Type: nulabels.EMinus, Energy: 100, Pos: geom.Vec{X: 10},
	}
	out := &nulabels.Particle{
		Type: nulabels.EMinus, Energy: 100, Pos: geom.Vec{X: 5000},
	}
	assert.Equal(t, 100.0, DepositedEnergy(in, vol, nil))
	assert.Equal(t, 0.0, DepositedEnergy(out, vol, nil))
}

func TestDepositedEnergyOfBuiltCascade(t *testing.T) {
	// A built cascade keeps its neutrino type but its energy is already
	// EM-equivalent; containment has to return it in full, not apply the
	// neutrino scale of 0.
	vol := testVolume(t)
	tree, prim := buildCCEvent()

	casc := Build(tree, prim, vol, nil)
	if !assert.NotNil(t, casc) {
		return
	}
	assert.Greater(t, casc.Energy, 0.0)
	assert.Equal(t, casc.Energy, DepositedEnergy(casc, vol, nil))

	far := *casc
	far.Pos = geom.Vec{X: 5000}
	assert.Equal(t, 0.0, DepositedEnergy(&far, vol, nil))
}

func BenchmarkBuild(b *testing.B) {
	hull, err := geom.NewPrism(
		[][2]float64{{-500, -500}, {500, -500}, {500, 500}, {-500, 500}},
		-500, 500,
	)
	if err != nil {
		b.Fatal(err.Error())
	}
	tree, prim := buildCCEvent()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(tree, prim, hull, nil)
	}
}

func TestExtensionRoundTrip(t *testing.T) {
	// The distance from the vertex to the extension position equals the
	// extension length, whatever the tree shape.
	tree := nulabels.NewTree()
	nu := tree.AddPrimary(nulabels.Particle{Type: nulabels.NuTau})
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.TauMinus, Pos: geom.Vec{X: 3, Y: -2, Z: 1},
		Dir: geom.Vec{X: 1}, Length: 40,
	})
	tau := tree.Daughters(nu)[0]
	tree.AddDaughter(tau.ID, nulabels.Particle{
		Type: nulabels.Hadrons, Pos: geom.Vec{X: 60, Y: -2, Z: 1},
	})
	tree.AddDaughter(nu, nulabels.Particle{
		Type: nulabels.Hadrons, Pos: geom.Vec{X: 3, Y: -2, Z: 1},
	})

	prim := tree.Primaries()[0]
	vertex := tree.Daughters(nu)[0].Pos
	length := InteractionExtensionLength(tree, prim)
	pos := InteractionExtensionPos(tree, prim)
	assert.InDelta(t, length, geom.Dist(vertex, pos), 1e-12)
	assert.False(t, math.IsNaN(length))
}
