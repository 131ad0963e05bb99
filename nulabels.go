// Package nulabels computes derived physics labels and event weights from
// neutrino-telescope Monte Carlo simulation records. The root package holds
// the particle record and the per-event particle tree that every other
// package reads from.
package nulabels

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ParticleType identifies a particle species by its PDG code. Generator
// specific codes (e.g. the aggregate hadron shower) use the extended
// negative range.
type ParticleType int32

const (
	Unknown  ParticleType = 0
	Gamma    ParticleType = 22
	EMinus   ParticleType = 11
	EPlus    ParticleType = -11
	MuMinus  ParticleType = 13
	MuPlus   ParticleType = -13
	TauMinus ParticleType = 15
	TauPlus  ParticleType = -15
	NuE      ParticleType = 12
	NuEBar   ParticleType = -12
	NuMu     ParticleType = 14
	NuMuBar  ParticleType = -14
	NuTau    ParticleType = 16
	NuTauBar ParticleType = -16
	Pi0      ParticleType = 111
	PiPlus   ParticleType = 211
	PiMinus  ParticleType = -211
	K0L      ParticleType = 130
	KPlus    ParticleType = 321
	KMinus   ParticleType = -321
	Neutron  ParticleType = 2112
	PPlus    ParticleType = 2212
	PMinus   ParticleType = -2212
	Hadrons  ParticleType = -2000001006
)

// IsNeutrino reports whether t is a neutrino of any flavor.
func (t ParticleType) IsNeutrino() bool {
	switch t {
	case NuE, NuEBar, NuMu, NuMuBar, NuTau, NuTauBar:
		return true
	}
	return false
}

// IsMuon reports whether t is a muon or antimuon.
func (t ParticleType) IsMuon() bool { return t == MuMinus || t == MuPlus }

// IsTau reports whether t is a tau or antitau.
func (t ParticleType) IsTau() bool { return t == TauMinus || t == TauPlus }

func (t ParticleType) String() string {
	switch t {
	case Gamma:
		return "Gamma"
	case EMinus:
		return "EMinus"
	case EPlus:
		return "EPlus"
	case MuMinus:
		return "MuMinus"
	case MuPlus:
		return "MuPlus"
	case TauMinus:
		return "TauMinus"
	case TauPlus:
		return "TauPlus"
	case NuE:
		return "NuE"
	case NuEBar:
		return "NuEBar"
	case NuMu:
		return "NuMu"
	case NuMuBar:
		return "NuMuBar"
	case NuTau:
		return "NuTau"
	case NuTauBar:
		return "NuTauBar"
	case Pi0:
		return "Pi0"
	case PiPlus:
		return "PiPlus"
	case PiMinus:
		return "PiMinus"
	case K0L:
		return "K0L"
	case KPlus:
		return "KPlus"
	case KMinus:
		return "KMinus"
	case Neutron:
		return "Neutron"
	case PPlus:
		return "PPlus"
	case PMinus:
		return "PMinus"
	case Hadrons:
		return "Hadrons"
	}
	return "Unknown"
}

// Shape describes how a particle deposits light.
type Shape int8

const (
	NullShape Shape = iota
	Primary
	Cascade
	Track
	Dark
)

func (s Shape) String() string {
	switch s {
	case Primary:
		return "Primary"
	case Cascade:
		return "Cascade"
	case Track:
		return "Track"
	case Dark:
		return "Dark"
	}
	return "Null"
}

// LocationType tags where a particle lives relative to the detector. The
// numeric values match the simulation records the trees are read from.
type LocationType int8

const (
	Anywhere       LocationType = 0
	IceTop         LocationType = 10
	InIce          LocationType = 20
	InActiveVolume LocationType = 30
)

func (l LocationType) String() string {
	switch l {
	case IceTop:
		return "IceTop"
	case InIce:
		return "InIce"
	case InActiveVolume:
		return "InActiveVolume"
	}
	return "Anywhere"
}

// Particle is a single simulated particle. Positions are in meters in
// detector coordinates, energies in GeV, times in nanoseconds. A Length
// that is NaN, infinite, or non-positive means the particle has no defined
// track length (a point-like deposition).
type Particle struct {
	ID     ParticleID
	Type   ParticleType
	Pos    r3.Vec
	Dir    r3.Vec
	Energy float64
	Length float64
	Time   float64
	Shape  Shape
	Loc    LocationType
}

// HasLength reports whether the particle has a finite, positive length.
func (p *Particle) HasLength() bool {
	return !math.IsNaN(p.Length) && !math.IsInf(p.Length, 0) && p.Length > 0
}

// EndPos returns the particle's endpoint: the vertex displaced along the
// direction by the length when one is defined, the vertex itself otherwise.
func (p *Particle) EndPos() r3.Vec {
	if !p.HasLength() {
		return p.Pos
	}
	return r3.Add(p.Pos, r3.Scale(p.Length, p.Dir))
}
