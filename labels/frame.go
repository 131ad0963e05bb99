/*
Package labels is the pipeline layer: it carries per-event frames through
label modules and books their results. Each frame owns an immutable
particle tree for one simulated event, so events can be processed by
independent workers without synchronization.
*/
package labels

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jfelsner/nulabels"
	"github.com/jfelsner/nulabels/weights"
)

// ErrKeyExists indicates an attempt to book a frame key twice.
var ErrKeyExists = errors.New("labels: frame key already booked")

// Frame is the record of one simulated event: the particle tree, optional
// generation info, and the label maps booked by modules.
type Frame struct {
	EventID uuid.UUID
	Tree    *nulabels.Tree

	// MC carries the generation quantities needed for weighting; nil for
	// frames without a generation record.
	MC *weights.Event

	maps map[string]map[string]float64
}

// NewFrame wraps tree into a fresh frame with a random event id.
func NewFrame(tree *nulabels.Tree) *Frame {
	return &Frame{
		EventID: uuid.New(),
		Tree:    tree,
		maps:    make(map[string]map[string]float64),
	}
}

// Put books vals under key. Booking an existing key is an error; modules
// never overwrite each other's output.
func (f *Frame) Put(key string, vals map[string]float64) error {
	if _, ok := f.maps[key]; ok {
		return fmt.Errorf("%w: %q", ErrKeyExists, key)
	}
	f.maps[key] = vals
	return nil
}

// Get returns the map booked under key.
func (f *Frame) Get(key string) (map[string]float64, bool) {
	m, ok := f.maps[key]
	return m, ok
}

// Keys returns the booked keys in unspecified order.
func (f *Frame) Keys() []string {
	keys := make([]string, 0, len(f.maps))
	for k := range f.maps {
		keys = append(keys, k)
	}
	return keys
}
