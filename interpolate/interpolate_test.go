package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func line(x float64) float64 { return 2*x + 1 }

func plane(x, y float64) float64 { return 2*x + 3*y + 1 }

func TestLinear(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	vals := make([]float64, len(xs))
	for i, x := range xs {
		vals[i] = line(x)
	}
	lin := NewLinear(xs, vals)

	// points on the grid should work
	assert.InDelta(t, line(2), lin.Eval(2), 1e-12, "on grid")
	// points between grid points should also work
	assert.InDelta(t, line(2.5), lin.Eval(2.5), 1e-12, "between points")
	// points outside the grid extrapolate from the edge cell
	assert.InDelta(t, line(-1), lin.Eval(-1), 1e-12, "left of grid")
	assert.InDelta(t, line(5), lin.Eval(5), 1e-12, "right of grid")
}

func TestUniformLinear(t *testing.T) {
	vals := make([]float64, 5)
	for i := range vals {
		vals[i] = line(float64(i) * 0.5)
	}
	lin := NewUniformLinear(0, 0.5, vals)

	assert.InDelta(t, line(0.75), lin.Eval(0.75), 1e-12)
	assert.InDelta(t, line(2), lin.Eval(2), 1e-12)
}

func TestLinearEvalAll(t *testing.T) {
	lin := NewLinear([]float64{0, 1}, []float64{1, 3})
	out := lin.EvalAll([]float64{0, 0.5, 1})
	assert.InDelta(t, 1, out[0], 1e-12)
	assert.InDelta(t, 2, out[1], 1e-12)
	assert.InDelta(t, 3, out[2], 1e-12)
}

func TestLinearPanics(t *testing.T) {
	assert.Panics(t, func() { NewLinear([]float64{0, 1}, []float64{1}) },
		"mismatched lengths")
	assert.Panics(t, func() { NewLinear([]float64{0, 0}, []float64{1, 2}) },
		"non-increasing grid")
	assert.Panics(t, func() { NewLinear([]float64{0}, []float64{1}) },
		"single point")
}

func TestBiLinear(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 0.5, 1}
	vals := make([]float64, len(xs)*len(ys))
	for iy, y := range ys {
		for ix, x := range xs {
			vals[iy*len(xs)+ix] = plane(x, y)
		}
	}
	bi := NewBiLinear(xs, ys, vals)

	// points on the grid should work
	assert.InDelta(t, plane(1, 0.5), bi.Eval(1, 0.5), 1e-12, "on grid")
	// points inside a cell should also work
	assert.InDelta(t, plane(1.3, 0.7), bi.Eval(1.3, 0.7), 1e-12, "inside cell")
	// points outside the grid extrapolate from the edge cell
	assert.InDelta(t, plane(-1, 0.5), bi.Eval(-1, 0.5), 1e-12, "outside x")
	assert.InDelta(t, plane(1, 2), bi.Eval(1, 2), 1e-12, "outside y")
}

func TestUniformBiLinear(t *testing.T) {
	nx, ny := 4, 3
	vals := make([]float64, nx*ny)
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			vals[iy*nx+ix] = plane(float64(ix), float64(iy)*0.5)
		}
	}
	bi := NewUniformBiLinear(0, 1, nx, 0, 0.5, ny, vals)

	assert.InDelta(t, plane(1.3, 0.7), bi.Eval(1.3, 0.7), 1e-12)
}

func TestBiLinearPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewBiLinear([]float64{0, 1}, []float64{0, 1}, []float64{1, 2, 3})
	})
}
