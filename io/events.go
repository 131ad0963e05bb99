package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jfelsner/nulabels"
	"github.com/jfelsner/nulabels/geom"
	"github.com/jfelsner/nulabels/labels"
	"github.com/jfelsner/nulabels/weights"
)

// particleRecord is one node of the JSON particle tree. Type, shape and
// location use the numeric codes of the simulation. A missing length means
// the particle has no known track length.
type particleRecord struct {
	Type      int32            `json:"type"`
	Pos       [3]float64       `json:"pos"`
	Dir       [3]float64       `json:"dir"`
	Energy    float64          `json:"energy"`
	Length    *float64         `json:"length"`
	Time      float64          `json:"time"`
	Shape     int8             `json:"shape"`
	Location  int8             `json:"location"`
	Daughters []particleRecord `json:"daughters"`
}

// mcRecord carries the generation quantities of a weighted dataset.
type mcRecord struct {
	Energy    float64 `json:"energy"`
	CosZenith float64 `json:"cos_zenith"`
	VertexZ   float64 `json:"vertex_z"`
	OneWeight float64 `json:"one_weight"`
}

// eventRecord is one line of the event file.
type eventRecord struct {
	Primaries []particleRecord `json:"primaries"`
	MC        *mcRecord        `json:"mc"`
}

func (rec *particleRecord) particle() nulabels.Particle {
	length := math.NaN()
	if rec.Length != nil {
		length = *rec.Length
	}
	return nulabels.Particle{
		Type:   nulabels.ParticleType(rec.Type),
		Pos:    geom.Vec{X: rec.Pos[0], Y: rec.Pos[1], Z: rec.Pos[2]},
		Dir:    geom.Vec{X: rec.Dir[0], Y: rec.Dir[1], Z: rec.Dir[2]},
		Energy: rec.Energy,
		Length: length,
		Time:   rec.Time,
		Shape:  nulabels.Shape(rec.Shape),
		Loc:    nulabels.LocationType(rec.Location),
	}
}

func (rec *eventRecord) frame() *labels.Frame {
	tree := nulabels.NewTree()
	var insert func(parent nulabels.ParticleID, rec *particleRecord)
	insert = func(parent nulabels.ParticleID, rec *particleRecord) {
		var id nulabels.ParticleID
		if parent == nulabels.NoParticle {
			id = tree.AddPrimary(rec.particle())
		} else {
			id = tree.AddDaughter(parent, rec.particle())
		}
		for i := range rec.Daughters {
			insert(id, &rec.Daughters[i])
		}
	}
	for i := range rec.Primaries {
		insert(nulabels.NoParticle, &rec.Primaries[i])
	}

	f := labels.NewFrame(tree)
	if rec.MC != nil && len(tree.Primaries()) > 0 {
		f.MC = &weights.Event{
			Type:      tree.Primaries()[0].Type,
			Energy:    rec.MC.Energy,
			CosZenith: rec.MC.CosZenith,
			VertexZ:   rec.MC.VertexZ,
			OneWeight: rec.MC.OneWeight,
		}
	}
	return f
}

// EventReader streams frames out of a JSON-lines event file.
type EventReader struct {
	sc   *bufio.Scanner
	c    io.Closer
	line int
}

// OpenEvents opens the event file at path for streaming.
func OpenEvents(path string) (*EventReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("io: opening events %s: %w", path, err)
	}
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<26)
	return &EventReader{sc: sc, c: file}, nil
}

// Next returns the next frame, or (nil, nil) at the end of the file.
func (r *EventReader) Next() (*labels.Frame, error) {
	for r.sc.Scan() {
		r.line++
		buf := r.sc.Bytes()
		if len(buf) == 0 {
			continue
		}
		rec := &eventRecord{}
		if err := json.Unmarshal(buf, rec); err != nil {
			return nil, fmt.Errorf("io: event on line %d: %w", r.line, err)
		}
		return rec.frame(), nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, fmt.Errorf("io: reading events: %w", err)
	}
	return nil, nil
}

// Close closes the underlying file.
func (r *EventReader) Close() error { return r.c.Close() }

// Frames sends every frame of the reader to a fresh channel and closes it.
// Read errors are reported through errFn and end the stream.
func (r *EventReader) Frames(errFn func(error)) <-chan *labels.Frame {
	out := make(chan *labels.Frame)
	go func() {
		defer close(out)
		for {
			f, err := r.Next()
			if err != nil {
				errFn(err)
				return
			}
			if f == nil {
				return
			}
			out <- f
		}
	}()
	return out
}

// labeledRecord is one line of the output file.
type labeledRecord struct {
	EventID string                        `json:"event_id"`
	Labels  map[string]map[string]float64 `json:"labels"`
}

// LabelWriter writes labeled frames as JSON lines.
type LabelWriter struct {
	w  *bufio.Writer
	c  io.Closer
	en *json.Encoder
}

// CreateLabels creates the output file at path.
func CreateLabels(path string) (*LabelWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("io: creating output %s: %w", path, err)
	}
	w := bufio.NewWriter(file)
	return &LabelWriter{w: w, c: file, en: json.NewEncoder(w)}, nil
}

// Write appends one labeled frame to the output.
func (lw *LabelWriter) Write(f *labels.Frame) error {
	rec := labeledRecord{
		EventID: f.EventID.String(),
		Labels:  make(map[string]map[string]float64),
	}
	for _, key := range f.Keys() {
		m, _ := f.Get(key)
		rec.Labels[key] = m
	}
	if err := lw.en.Encode(&rec); err != nil {
		return fmt.Errorf("io: writing labels: %w", err)
	}
	return nil
}

// Close flushes and closes the output file.
func (lw *LabelWriter) Close() error {
	if err := lw.w.Flush(); err != nil {
		return err
	}
	return lw.c.Close()
}
