package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"go.uber.org/zap"

	"github.com/jfelsner/nulabels/geom"
	nuio "github.com/jfelsner/nulabels/io"
	"github.com/jfelsner/nulabels/labels"
	"github.com/jfelsner/nulabels/weights"
)

func main() {
	// The main function manages input sanitization and hands off to the
	// secondary main function for each mode. The code tries to fail
	// gracefully if the user provides incorrect input.

	var (
		labelsStr     string
		exampleConfig string
		workers       int
	)
	vars := map[string]*string{
		"Labels":        &labelsStr,
		"ExampleConfig": &exampleConfig,
	}

	flag.IntVar(
		&workers, "Workers", runtime.NumCPU(),
		"Number of worker goroutines. Default is the number of logical cores.",
	)
	flag.StringVar(
		&labelsStr, "Labels", "",
		"Configuration file for [Labels] mode.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. Accepted arguments are 'Labels' and 'Weights'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Labels":
		con, err := nuio.ReadConfig(labelsStr)
		if err != nil {
			log.Fatal(err.Error())
		}

		if !con.ValidInput() {
			log.Fatal("Invalid/non-existent 'Input' value.")
		} else if !con.ValidOutput() {
			log.Fatal("Invalid/non-existent 'Output' value.")
		}
		if con.Labels.Workers == 0 {
			con.Labels.Workers = workers
		}

		if err := labelsMain(con); err != nil {
			log.Fatal(err.Error())
		}
	case "ExampleConfig":
		switch exampleConfig {
		case "Labels":
			fmt.Println(nuio.ExampleLabelsFile)
		case "Weights":
			fmt.Println(nuio.ExampleWeightsFile)
		default:
			log.Fatalf(
				"Unrecognized 'ExampleConfig' argument %q. Accepted "+
					"arguments are 'Labels' and 'Weights'.", exampleConfig,
			)
		}
	}
}

// getModeName returns the name of the only mode flag the user set, and
// fails if zero or several were set.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}
	for name, val := range vars {
		if *val != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf(
			"No mode flag given. Run with one of -Labels or -ExampleConfig.",
		)
	} else if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The flags %v were all given, but only one mode may be set.",
			setNames,
		)
	}
	return setNames[0], nil
}

func labelsMain(con *nuio.Config) error {
	zlog, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer zlog.Sync()

	vol, err := volume(con)
	if err != nil {
		return err
	}
	mods, err := modules(con, vol)
	if err != nil {
		return err
	}

	in, err := nuio.OpenEvents(con.Labels.Input)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := nuio.CreateLabels(con.Labels.Output)
	if err != nil {
		return err
	}

	pipe := &labels.Pipeline{
		Modules: mods,
		Workers: con.Labels.Workers,
		Log:     zlog,
	}
	frames := in.Frames(func(err error) {
		zlog.Error("event stream ended", zap.Error(err))
	})

	n := 0
	for f := range pipe.Run(frames) {
		if err := out.Write(f); err != nil {
			out.Close()
			return err
		}
		n++
	}
	zlog.Info("labeling finished", zap.Int("events", n))
	return out.Close()
}

func volume(con *nuio.Config) (geom.Volume, error) {
	if con.Labels.HullFile != "" {
		hull, err := nuio.ReadHull(con.Labels.HullFile)
		if err != nil {
			return nil, err
		}
		return hull, nil
	}
	return geom.DetectorVolume(con.Labels.ExtendBoundary), nil
}

func modules(con *nuio.Config, vol geom.Volume) ([]labels.Module, error) {
	mods := []labels.Module{
		&labels.CascadeLabels{Volume: vol, OutputKey: con.Labels.OutputKey},
	}
	if !con.WantWeights() {
		return mods, nil
	}

	w := &weights.Weighter{
		Gen: weights.GenInfo{
			NFiles:        con.Weights.NFiles,
			NEventsPerRun: con.Weights.NEventsPerRun,
		},
		ConvMultiplier:   con.Weights.ConvMultiplier,
		PromptMultiplier: con.Weights.PromptMultiplier,
	}
	if con.Weights.AstroE269 {
		w.Fluxes = append(w.Fluxes, weights.AstroE269())
	}
	if con.Weights.AstroE250 {
		w.Fluxes = append(w.Fluxes, weights.AstroE250())
	}
	if con.Weights.ConvTable != "" {
		flux, err := weights.ReadFluxTable(
			con.Weights.ConvTable, "conv", weights.Conventional,
		)
		if err != nil {
			return nil, err
		}
		w.Fluxes = append(w.Fluxes, flux)
	}
	if con.Weights.PromptTable != "" {
		flux, err := weights.ReadFluxTable(
			con.Weights.PromptTable, "prompt", weights.Prompt,
		)
		if err != nil {
			return nil, err
		}
		w.Fluxes = append(w.Fluxes, flux)
	}

	mods = append(mods, &labels.WeightLabels{
		Weighter:  w,
		OutputKey: con.Weights.OutputKey,
	})
	return mods, nil
}
