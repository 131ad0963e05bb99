package io

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jfelsner/nulabels/geom"
)

// hullFile mirrors the YAML hull description: the corners of a convex
// footprint polygon and the swept z range.
type hullFile struct {
	Footprint [][2]float64 `yaml:"footprint"`
	ZMin      float64      `yaml:"zmin"`
	ZMax      float64      `yaml:"zmax"`
}

// ReadHull reads a convex prism hull from a YAML file.
func ReadHull(path string) (*geom.ConvexHull, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("io: reading hull %s: %w", path, err)
	}
	var hf hullFile
	if err := yaml.Unmarshal(buf, &hf); err != nil {
		return nil, fmt.Errorf("io: parsing hull %s: %w", path, err)
	}
	hull, err := geom.NewPrism(hf.Footprint, hf.ZMin, hf.ZMax)
	if err != nil {
		return nil, fmt.Errorf("io: hull %s: %w", path, err)
	}
	return hull, nil
}
