/*
Package io reads the run configuration, detector hull files, and simulated
event records, and writes the labeled output.
*/
package io

import (
	"fmt"
	"os"

	"gopkg.in/gcfg.v1"
)

const ExampleLabelsFile = `[Labels]

#######################
# Required Parameters #
#######################

# File containing one simulated event per line in the JSON tree format.
Input = path/to/events.jsonl
# File the labeled events will be written to.
Output = path/to/labels.jsonl

#######################
# Optional Parameters #
#######################

# YAML file with an explicit convex hull (footprint corners and z range).
# If unset, the built-in detector boundary is used.
# HullFile = path/to/hull.yaml

# Margin in meters added to the detector boundary when no hull file is
# given.
# ExtendBoundary = 200

# Frame key the cascade labels are booked under.
# OutputKey = CascadeLabels

# Number of worker goroutines. Default is the number of logical cores.
# Workers = 4`

const ExampleWeightsFile = `[Weights]

#######################
# Required Parameters #
#######################

# Number of files in the dataset and generated events per file.
NFiles = 1000
NEventsPerRun = 100000

#######################
# Optional Parameters #
#######################

# Tabulated atmospheric fluxes: whitespace tables with columns
# log10(E/GeV), cos(zenith), flux.
# ConvTable = path/to/conv_flux.txt
# PromptTable = path/to/prompt_flux.txt

# Astrophysical benchmark fluxes.
# AstroE269 = true
# AstroE250 = true

# Multipliers applied to the atmospheric components.
# ConvMultiplier = 1.07
# PromptMultiplier = 0.2

# Frame key the weights are booked under.
# OutputKey = weights`

// Config mirrors the run configuration file.
type Config struct {
	Labels struct {
		Input          string
		Output         string
		HullFile       string
		ExtendBoundary float64
		OutputKey      string
		Workers        int
	}
	Weights struct {
		NFiles           int
		NEventsPerRun    int
		ConvTable        string
		PromptTable      string
		AstroE269        bool
		AstroE250        bool
		ConvMultiplier   float64
		PromptMultiplier float64
		OutputKey        string
	}
}

// ReadConfig reads a gcfg configuration file.
func ReadConfig(path string) (*Config, error) {
	con := &Config{}
	con.Labels.ExtendBoundary = 200
	if err := gcfg.ReadFileInto(con, path); err != nil {
		return nil, fmt.Errorf("io: reading config %s: %w", path, err)
	}
	return con, nil
}

// ValidInput reports whether the configured input file exists.
func (con *Config) ValidInput() bool {
	if con.Labels.Input == "" {
		return false
	}
	_, err := os.Stat(con.Labels.Input)
	return err == nil
}

// ValidOutput reports whether an output path was configured.
func (con *Config) ValidOutput() bool { return con.Labels.Output != "" }

// WantWeights reports whether the configuration asks for event weights.
func (con *Config) WantWeights() bool {
	return con.Weights.NFiles > 0 && con.Weights.NEventsPerRun > 0
}
