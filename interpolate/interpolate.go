/*
Package interpolate provides linear and bilinear interpolation over sorted
grids. The flux tables of the weighting layer are evaluated through it.
*/
package interpolate

import (
	"fmt"
	"sort"
)

// searcher locates the bin of a value in a strictly increasing sequence,
// in O(1) for uniform grids and O(log n) otherwise.
type searcher struct {
	xs      []float64
	x0, dx  float64
	n       int
	uniform bool
}

func (s *searcher) init(xs []float64) {
	if len(xs) < 2 {
		panic("interpolate: need at least 2 grid points")
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			panic("interpolate: grid points are not strictly increasing")
		}
	}
	s.xs = xs
	s.n = len(xs)
	s.uniform = false
}

func (s *searcher) unifInit(x0, dx float64, n int) {
	if n < 2 {
		panic("interpolate: need at least 2 grid points")
	}
	if dx <= 0 {
		panic("interpolate: non-positive grid spacing")
	}
	s.x0, s.dx, s.n = x0, dx, n
	s.uniform = true
}

// search returns the index i such that val(i) <= x < val(i+1), clamping to
// the outermost cells so that out-of-range evaluations extrapolate from the
// edge cell.
func (s *searcher) search(x float64) int {
	var i int
	if s.uniform {
		i = int((x - s.x0) / s.dx)
	} else {
		i = sort.SearchFloat64s(s.xs, x) - 1
	}
	if i < 0 {
		i = 0
	}
	if i > s.n-2 {
		i = s.n - 2
	}
	return i
}

func (s *searcher) val(i int) float64 {
	if s.uniform {
		return s.x0 + float64(i)*s.dx
	}
	return s.xs[i]
}

// Linear is a linear interpolator over a strictly increasing grid.
type Linear struct {
	xs   searcher
	vals []float64
}

// NewLinear creates a linear interpolator through the points (xs, vals).
// Lookups are O(log |xs|).
func NewLinear(xs, vals []float64) *Linear {
	if len(xs) != len(vals) {
		panic("interpolate: length of input slices are not equal")
	}
	lin := &Linear{vals: vals}
	lin.xs.init(xs)
	return lin
}

// NewUniformLinear creates a linear interpolator over the uniform grid
// starting at x0 with spacing dx. Lookups are O(1).
func NewUniformLinear(x0, dx float64, vals []float64) *Linear {
	lin := &Linear{vals: vals}
	lin.xs.unifInit(x0, dx, len(vals))
	return lin
}

// Eval returns the interpolated value at x. Values outside the grid are
// linearly extrapolated from the edge cell.
func (lin *Linear) Eval(x float64) float64 {
	i1 := lin.xs.search(x)
	i2 := i1 + 1
	x1, x2 := lin.xs.val(i1), lin.xs.val(i2)
	v1, v2 := lin.vals[i1], lin.vals[i2]
	return ((v2-v1)/(x2-x1))*(x-x1) + v1
}

// EvalAll evaluates the interpolator at all the given x values. If an
// output slice is given the results are written to it; it is returned
// either way.
func (lin *Linear) EvalAll(xs []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}
	for i, x := range xs {
		out[0][i] = lin.Eval(x)
	}
	return out[0]
}

// BiLinear is a bilinear interpolator over the tensor grid xs × ys. Values
// are stored row-major: vals[iy*len(xs)+ix].
type BiLinear struct {
	xs, ys searcher
	vals   []float64
	nx     int
}

// NewBiLinear creates a bilinear interpolator through the grid values.
func NewBiLinear(xs, ys, vals []float64) *BiLinear {
	if len(xs)*len(ys) != len(vals) {
		panic(fmt.Sprintf(
			"interpolate: len(vals) = %d, but len(xs) = %d and len(ys) = %d",
			len(vals), len(xs), len(ys),
		))
	}
	bi := &BiLinear{vals: vals, nx: len(xs)}
	bi.xs.init(xs)
	bi.ys.init(ys)
	return bi
}

// NewUniformBiLinear creates a bilinear interpolator over uniform grids in
// both coordinates.
func NewUniformBiLinear(
	x0, dx float64, nx int,
	y0, dy float64, ny int,
	vals []float64,
) *BiLinear {
	if nx*ny != len(vals) {
		panic(fmt.Sprintf(
			"interpolate: len(vals) = %d, but nx = %d and ny = %d",
			len(vals), nx, ny,
		))
	}
	bi := &BiLinear{vals: vals, nx: nx}
	bi.xs.unifInit(x0, dx, nx)
	bi.ys.unifInit(y0, dy, ny)
	return bi
}

// Eval returns the interpolated value at (x, y), extrapolating from the
// edge cells outside the grid.
func (bi *BiLinear) Eval(x, y float64) float64 {
	ix := bi.xs.search(x)
	iy := bi.ys.search(y)

	x1, x2 := bi.xs.val(ix), bi.xs.val(ix+1)
	y1, y2 := bi.ys.val(iy), bi.ys.val(iy+1)

	v11 := bi.vals[iy*bi.nx+ix]
	v21 := bi.vals[iy*bi.nx+ix+1]
	v12 := bi.vals[(iy+1)*bi.nx+ix]
	v22 := bi.vals[(iy+1)*bi.nx+ix+1]

	tx := (x - x1) / (x2 - x1)
	ty := (y - y1) / (y2 - y1)

	return v11*(1-tx)*(1-ty) + v21*tx*(1-ty) + v12*(1-tx)*ty + v22*tx*ty
}

// EvalAll evaluates the interpolator at all the given (x, y) pairs.
func (bi *BiLinear) EvalAll(xs, ys []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}
	for i := range xs {
		out[0][i] = bi.Eval(xs[i], ys[i])
	}
	return out[0]
}
