package geom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Small slack used by containment tests so that points sitting exactly on a
// face count as inside.
const faceEps = 1e-9

var (
	// ErrFootprint indicates a prism footprint with fewer than three corners.
	ErrFootprint = errors.New("geom: prism footprint needs at least 3 corners")
	// ErrNotConvex indicates a non-convex prism footprint.
	ErrNotConvex = errors.New("geom: prism footprint is not convex")
)

// halfspace is the constraint Dot(n, x) <= d with n a unit outward normal.
type halfspace struct {
	n Vec
	d float64
}

// ConvexHull is a convex volume in halfspace form. The zero value is not
// usable; build hulls with NewPrism.
type ConvexHull struct {
	planes []halfspace
}

// NewPrism builds the convex hull of a vertical prism: a convex polygon
// footprint in the x-y plane swept from zmin to zmax. Corners may be listed
// clockwise or counter-clockwise. This covers the string-layout volumes the
// labels are computed against.
func NewPrism(footprint [][2]float64, zmin, zmax float64) (*ConvexHull, error) {
	n := len(footprint)
	if n < 3 {
		return nil, ErrFootprint
	}

	// Signed area decides the winding so that edge normals point outward.
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += footprint[i][0]*footprint[j][1] - footprint[j][0]*footprint[i][1]
	}
	ccw := area > 0

	hull := &ConvexHull{planes: make([]halfspace, 0, n+2)}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		ex := footprint[j][0] - footprint[i][0]
		ey := footprint[j][1] - footprint[i][1]
		norm := math.Hypot(ex, ey)
		if norm == 0 {
			return nil, ErrNotConvex
		}
		// Outward normal of the edge for the given winding.
		var nx, ny float64
		if ccw {
			nx, ny = ey/norm, -ex/norm
		} else {
			nx, ny = -ey/norm, ex/norm
		}
		plane := halfspace{
			n: Vec{X: nx, Y: ny, Z: 0},
			d: nx*footprint[i][0] + ny*footprint[i][1],
		}
		// Every other corner has to satisfy the constraint, otherwise the
		// footprint was not convex.
		for k := 0; k < n; k++ {
			if nx*footprint[k][0]+ny*footprint[k][1] > plane.d+faceEps {
				return nil, ErrNotConvex
			}
		}
		hull.planes = append(hull.planes, plane)
	}
	hull.planes = append(hull.planes,
		halfspace{n: Vec{Z: 1}, d: zmax},
		halfspace{n: Vec{Z: -1}, d: -zmin},
	)
	return hull, nil
}

// Contains reports whether p lies inside the hull. Points exactly on a face
// count as inside.
func (h *ConvexHull) Contains(p Vec) bool { return h.ContainsMargin(p, 0) }

// ContainsMargin reports whether p lies inside the hull extended outward by
// margin meters (every face pushed out along its normal).
func (h *ConvexHull) ContainsMargin(p Vec, margin float64) bool {
	for _, pl := range h.planes {
		if r3.Dot(pl.n, p) > pl.d+margin+faceEps {
			return false
		}
	}
	return true
}

// Intersections clips the infinite line pos + t*dir against the hull and
// returns the entry and exit parameters. ok is false if the line misses the
// hull. For a line touching exactly a corner or an edge, tmin == tmax.
func (h *ConvexHull) Intersections(pos, dir Vec) (tmin, tmax float64, ok bool) {
	tmin, tmax = math.Inf(-1), math.Inf(1)
	for _, pl := range h.planes {
		denom := r3.Dot(pl.n, dir)
		dist := pl.d - r3.Dot(pl.n, pos)
		if denom == 0 {
			// Line parallel to the face: either fully inside the slab or
			// fully outside the hull.
			if dist < -faceEps {
				return 0, 0, false
			}
			continue
		}
		t := dist / denom
		if denom > 0 {
			if t < tmax {
				tmax = t
			}
		} else {
			if t > tmin {
				tmin = t
			}
		}
	}
	if tmin > tmax {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// Volume is a containment test over detector coordinates. ConvexHull and the
// extended volumes below implement it.
type Volume interface {
	Contains(p Vec) bool
}

// Extended is a convex hull grown outward by a fixed margin.
type Extended struct {
	Hull   *ConvexHull
	Margin float64
}

// Contains implements Volume.
func (e Extended) Contains(p Vec) bool {
	return e.Hull.ContainsMargin(p, e.Margin)
}

// Extend wraps hull into a Volume grown by margin meters.
func Extend(hull *ConvexHull, margin float64) Volume {
	return Extended{Hull: hull, Margin: margin}
}
