package labels

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jfelsner/nulabels"
	"github.com/jfelsner/nulabels/geom"
	"github.com/jfelsner/nulabels/weights"
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

func ccEvent() *nulabels.Tree {
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
	return tree
}

func TestFrameBooking(t *testing.T) {
	f := NewFrame(nulabels.NewTree())

	assert.NoError(t, f.Put("a", map[string]float64{"x": 1}))
	err := f.Put("a", map[string]float64{"x": 2})
	assert.ErrorIs(t, err, ErrKeyExists)

	m, ok := f.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1.0, m["x"], "duplicate booking overwrote the first")

	_, ok = f.Get("b")
	assert.False(t, ok)

	assert.NoError(t, f.Put("b", map[string]float64{}))
	assert.ElementsMatch(t, []string{"a", "b"}, f.Keys())
}

func TestCascadeLabels(t *testing.T) {
	mod := &CascadeLabels{Volume: testVolume(t)}
	f := NewFrame(ccEvent())

	if err := mod.Process(f); err != nil {
		t.Fatal(err.Error())
	}

	m, ok := f.Get("CascadeLabels")
	if !assert.True(t, ok) {
		return
	}
	assert.Equal(t, 1.0, m["exists"])
	assert.InDelta(t, 10.0, m["x"], 1e-12)
	assert.InDelta(t, 100.0, m["time"], 1e-12)
	assert.InDelta(t, 200.0, m["length"], 1e-12)
	assert.Equal(t, float64(nulabels.NuMu), m["particle_type"])
	// Down-going primary: zenith 0.
	assert.InDelta(t, 0.0, m["zenith"], 1e-12)
	assert.Greater(t, m["energy"], 6000.0)
}

func TestCascadeLabelsNoCascade(t *testing.T) {
	mod := &CascadeLabels{Volume: testVolume(t), OutputKey: "labels"}

	// Throughgoing neutrino, never interacts.
	tree := nulabels.NewTree()
	tree.AddPrimary(nulabels.Particle{Type: nulabels.NuE})
	f := NewFrame(tree)

	if err := mod.Process(f); err != nil {
		t.Fatal(err.Error())
	}
	m, ok := f.Get("labels")
	if assert.True(t, ok) {
		assert.Equal(t, map[string]float64{"exists": 0}, m)
	}

	// No neutrino primary at all.
	tree = nulabels.NewTree()
	tree.AddPrimary(nulabels.Particle{Type: nulabels.MuMinus})
	f = NewFrame(tree)
	if err := mod.Process(f); err != nil {
		t.Fatal(err.Error())
	}
	m, _ = f.Get("labels")
	assert.Equal(t, 0.0, m["exists"])
}

func TestWeightLabels(t *testing.T) {
	mod := &WeightLabels{
		Weighter: &weights.Weighter{
			Fluxes: []weights.Flux{weights.AstroE269()},
			Gen:    weights.GenInfo{NFiles: 10, NEventsPerRun: 100},
		},
	}

	f := NewFrame(ccEvent())
	f.MC = &weights.Event{
		Type: nulabels.NuMu, Energy: 1e5, CosZenith: -0.5, OneWeight: 1e8,
	}

	if err := mod.Process(f); err != nil {
		t.Fatal(err.Error())
	}

	m, ok := f.Get("weights")
	if assert.True(t, ok) {
		assert.Greater(t, m["astro_E269"], 0.0)
	}
	meta, ok := f.Get("weights_meta_info")
	if assert.True(t, ok) {
		assert.Equal(t, 10.0, meta["n_files"])
	}
}

func TestWeightLabelsSkipsWithoutMC(t *testing.T) {
	mod := &WeightLabels{Weighter: &weights.Weighter{}}
	f := NewFrame(nulabels.NewTree())

	assert.NoError(t, mod.Process(f))
	assert.Empty(t, f.Keys())
}

// recordModule books a constant, panics, or fails, depending on its mode.
type recordModule struct{ mode string }

func (m *recordModule) Name() string { return "record" }

func (m *recordModule) Process(f *Frame) error {
	switch m.mode {
	case "panic":
		if len(f.Tree.Primaries()) == 0 {
			panic("no primaries")
		}
	case "fail":
		if len(f.Tree.Primaries()) == 0 {
			return errors.New("no primaries")
		}
	}
	return f.Put("record", map[string]float64{"seen": 1})
}

func runPipeline(p *Pipeline, frames []*Frame) []*Frame {
	in := make(chan *Frame)
	go func() {
		for _, f := range frames {
			in <- f
		}
		close(in)
	}()
	out := []*Frame{}
	for f := range p.Run(in) {
		out = append(out, f)
	}
	return out
}

func TestPipeline(t *testing.T) {
	p := &Pipeline{Modules: []Module{&recordModule{}}, Workers: 4}

	frames := []*Frame{}
	for i := 0; i < 20; i++ {
		frames = append(frames, NewFrame(ccEvent()))
	}
	out := runPipeline(p, frames)

	assert.Len(t, out, 20)
	for _, f := range out {
		m, ok := f.Get("record")
		assert.True(t, ok)
		assert.Equal(t, 1.0, m["seen"])
	}
}

func TestPipelineDropsPanickingFrames(t *testing.T) {
	p := &Pipeline{Modules: []Module{&recordModule{mode: "panic"}}, Workers: 2}

	// One malformed frame among good ones; only it is dropped.
	frames := []*Frame{
		NewFrame(ccEvent()),
		NewFrame(nulabels.NewTree()),
		NewFrame(ccEvent()),
	}
	out := runPipeline(p, frames)
	assert.Len(t, out, 2)
}

func TestPipelineDropsFailingFrames(t *testing.T) {
	p := &Pipeline{Modules: []Module{&recordModule{mode: "fail"}}, Workers: 1}

	frames := []*Frame{
		NewFrame(nulabels.NewTree()),
		NewFrame(ccEvent()),
	}
	out := runPipeline(p, frames)
	assert.Len(t, out, 1)
}
