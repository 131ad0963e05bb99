/*
Package geom contains the geometric primitives used by the label
calculations: vectors, convex volumes in halfspace form, and the detector
boundary.
*/
package geom

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a three dimensional vector in detector coordinates, in meters.
type Vec = r3.Vec

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec) float64 { return r3.Norm(r3.Sub(a, b)) }

// Along returns the point at parameter t along the ray starting at pos with
// direction dir.
func Along(pos, dir Vec, t float64) Vec {
	return r3.Add(pos, r3.Scale(t, dir))
}
