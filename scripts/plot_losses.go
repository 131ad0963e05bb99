package main

import (
	"log"
	"os"
	"strconv"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/jfelsner/nulabels/geom"
	nuio "github.com/jfelsner/nulabels/io"
	"github.com/jfelsner/nulabels/muon"
)

// Plots the binned energy losses of the leading in-detector muon of one
// event, mainly to eyeball loss profiles while tuning bin widths.
func main() {
	if len(os.Args) != 4 {
		log.Fatalf(
			"Required use: $ %s event_file event_index bin_width", os.Args[0],
		)
	}

	idx, err := strconv.Atoi(os.Args[2])
	if err != nil {
		log.Fatal(err.Error())
	}
	binWidth, err := strconv.ParseFloat(os.Args[3], 64)
	if err != nil {
		log.Fatal(err.Error())
	}

	in, err := nuio.OpenEvents(os.Args[1])
	if err != nil {
		log.Fatal(err.Error())
	}
	defer in.Close()

	for i := 0; i < idx; i++ {
		if _, err := in.Next(); err != nil {
			log.Fatal(err.Error())
		}
	}
	f, err := in.Next()
	if err != nil {
		log.Fatal(err.Error())
	}
	if f == nil {
		log.Fatalf("Event file has fewer than %d events.", idx+1)
	}

	hull := geom.Detector()
	mu := muon.MostEnergeticInside(muon.MuonsInside(f.Tree, hull), hull)
	if mu == nil {
		log.Fatal("Event has no muon inside the detector.")
	}

	losses, err := muon.BinnedEnergyLosses(
		f.Tree, hull, mu, binWidth, geom.DefaultExtendBoundary, false,
	)
	if err != nil {
		log.Fatal(err.Error())
	}

	xs := make([]float64, len(losses))
	for i := range xs {
		xs[i] = (float64(i) + 0.5) * binWidth
	}

	plt.Reset()
	plt.Plot(xs, losses, "k", plt.LW(3))
	plt.XLabel(`$\mathrm{Track\ distance\ [m]}$`)
	plt.YLabel(`$\mathrm{Deposited\ energy\ [GeV]}$`)
	plt.Show()
}
