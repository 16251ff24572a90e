package geometry

import "math"

// EdgePrecision is the coordinate rounding used for edge equality. It absorbs
// the floating point noise introduced by transform composition.
const EdgePrecision = 1e-6

// EdgeKey identifies an undirected edge by its rounded endpoints
type EdgeKey [6]int64

// Edge is an undirected segment. The lexicographically smaller endpoint
// (by x, then y, then z) is stored in A.
type Edge struct {
	A, B Vector3
}

// NewEdge creates a canonical edge between two points
func NewEdge(p, q Vector3) Edge {
	if lessRounded(q, p) {
		p, q = q, p
	}
	return Edge{A: p, B: q}
}

// Key returns the hashable identity of the edge
func (e Edge) Key() EdgeKey {
	a, b := roundPoint(e.A), roundPoint(e.B)
	return EdgeKey{a[0], a[1], a[2], b[0], b[1], b[2]}
}

// Length returns the distance between the endpoints
func (e Edge) Length() float64 {
	return e.A.Distance(e.B)
}

// Equal reports whether both edges are the same after rounding
func (e Edge) Equal(other Edge) bool {
	return e.Key() == other.Key()
}

func roundPoint(p Vector3) [3]int64 {
	return [3]int64{roundCoord(p.X), roundCoord(p.Y), roundCoord(p.Z)}
}

func roundCoord(v float64) int64 {
	return int64(math.Round(v / EdgePrecision))
}

func lessRounded(p, q Vector3) bool {
	a, b := roundPoint(p), roundPoint(q)
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}
