package labels

import (
	"math"

	"github.com/jfelsner/nulabels"
	"github.com/jfelsner/nulabels/cascade"
	"github.com/jfelsner/nulabels/geom"
	"github.com/jfelsner/nulabels/shower"
	"github.com/jfelsner/nulabels/weights"
)

// Module computes labels for one frame and books them.
type Module interface {
	Name() string
	Process(f *Frame) error
}

// CascadeLabels books the aggregate cascade of the first primary neutrino
// of each event. When no in-volume interaction exists the booked map only
// carries exists = 0, the normal outcome for events interacting elsewhere.
type CascadeLabels struct {
	// Volume the interaction has to happen in; nil means the detector
	// boundary extended by geom.DefaultExtendBoundary.
	Volume geom.Volume
	// Scale overrides the EM-equivalent model; nil means shower.EMScale.
	Scale shower.ScaleFunc
	// OutputKey defaults to "CascadeLabels".
	OutputKey string
}

func (m *CascadeLabels) Name() string { return "CascadeLabels" }

func (m *CascadeLabels) key() string {
	if m.OutputKey == "" {
		return "CascadeLabels"
	}
	return m.OutputKey
}

func (m *CascadeLabels) Process(f *Frame) error {
	var primary *nulabels.Particle
	for _, p := range f.Tree.Primaries() {
		if p.Type.IsNeutrino() {
			primary = p
			break
		}
	}

	var casc *nulabels.Particle
	if primary != nil {
		casc = cascade.Build(f.Tree, primary, m.Volume, m.Scale)
	}
	if casc == nil {
		return f.Put(m.key(), map[string]float64{"exists": 0})
	}

	return f.Put(m.key(), map[string]float64{
		"exists":       1,
		"x":            casc.Pos.X,
		"y":            casc.Pos.Y,
		"z":            casc.Pos.Z,
		"time":         casc.Time,
		"energy":       casc.Energy,
		"length":       casc.Length,
		"zenith":       zenith(casc.Dir),
		"azimuth":      azimuth(casc.Dir),
		"particle_type": float64(casc.Type),
	})
}

// WeightLabels books per-flux rates for frames that carry generation info.
type WeightLabels struct {
	Weighter *weights.Weighter
	// OutputKey defaults to "weights".
	OutputKey string
}

func (m *WeightLabels) Name() string { return "WeightLabels" }

func (m *WeightLabels) key() string {
	if m.OutputKey == "" {
		return "weights"
	}
	return m.OutputKey
}

func (m *WeightLabels) Process(f *Frame) error {
	if f.MC == nil {
		// Experimental or stripped frames carry no generation record.
		return nil
	}
	vals, err := m.Weighter.WeightEvent(*f.MC)
	if err != nil {
		return err
	}
	if err := f.Put(m.key(), vals); err != nil {
		return err
	}
	return f.Put(m.key()+"_meta_info", m.Weighter.Meta())
}

// zenith returns the angle the particle comes from: a particle moving
// straight down has zenith 0.
func zenith(dir geom.Vec) float64 {
	return math.Acos(-dir.Z)
}

func azimuth(dir geom.Vec) float64 {
	az := math.Atan2(-dir.Y, -dir.X)
	if az < 0 {
		az += 2 * math.Pi
	}
	return az
}
