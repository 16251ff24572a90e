// Package clip cuts triangle meshes down to an axis-aligned box and reports
// the segments where the box faces cut through the surface.
package clip

import (
	"math"

	"github.com/philipparndt/gomesh/internal/parallel"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

// Region is an axis-aligned box given by its min and max corners
type Region struct {
	Min, Max geometry.Vector3
}

// RegionFromBounds returns the region covering a bounding box
func RegionFromBounds(b geometry.BoundingBox) Region {
	return Region{Min: b.Min, Max: b.Max}
}

// Valid reports whether the region has positive extent on every axis. A
// region that is inverted, flat or has a NaN bound encloses nothing.
func (r Region) Valid() bool {
	for axis := geometry.AxisX; axis <= geometry.AxisZ; axis++ {
		lo, hi := r.Min.Component(axis), r.Max.Component(axis)
		if !(lo < hi) {
			return false
		}
	}
	return true
}

// Contains reports whether p lies inside the region, bounds included
func (r Region) Contains(p geometry.Vector3) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y &&
		p.Z >= r.Min.Z && p.Z <= r.Max.Z
}

// CutEdge is a segment created where a region face cut a triangle.
// Axis is the axis of that face (0=X, 1=Y, 2=Z).
type CutEdge struct {
	Edge geometry.Edge
	Axis int
}

// Result holds the clipped triangles and the cut edges
type Result struct {
	Triangles []geometry.Triangle
	CutEdges  []CutEdge
}

// Mesh wraps the clipped triangles in a mesh
func (r Result) Mesh(name string) *mesh.Mesh {
	return mesh.FromTriangles(name, r.Triangles)
}

// Clip clips the triangles against the region using every CPU for large inputs
func Clip(triangles []geometry.Triangle, region Region) Result {
	return ClipWithWorkers(triangles, region, 0)
}

// ClipWithWorkers clips with at most workers goroutines. Triangles fully
// inside the region are returned unchanged; an invalid region yields an
// empty result.
func ClipWithWorkers(triangles []geometry.Triangle, region Region, workers int) Result {
	if !region.Valid() || len(triangles) == 0 {
		return Result{Triangles: []geometry.Triangle{}}
	}

	if len(triangles) <= parallel.TriangleThreshold {
		return clipRange(triangles, region)
	}

	parts := parallel.Map(len(triangles), workers, func(r parallel.Range) Result {
		return clipRange(triangles[r.Start:r.End], region)
	})

	triangles, cuts := make([][]geometry.Triangle, len(parts)), make([][]CutEdge, len(parts))
	for i, part := range parts {
		triangles[i], cuts[i] = part.Triangles, part.CutEdges
	}
	return Result{Triangles: parallel.Concat(triangles), CutEdges: parallel.Concat(cuts)}
}

func clipRange(triangles []geometry.Triangle, region Region) Result {
	result := Result{Triangles: make([]geometry.Triangle, 0, len(triangles))}
	var cuts []CutEdge
	for _, tri := range triangles {
		result.Triangles, cuts = clipTriangle(tri, region, result.Triangles, cuts)
	}
	result.CutEdges = trimCutEdges(cuts, region)
	return result
}

// clipTriangle appends the parts of tri inside the region to out and the
// created cut edges to cuts
func clipTriangle(tri geometry.Triangle, region Region, out []geometry.Triangle, cuts []CutEdge) ([]geometry.Triangle, []CutEdge) {
	vertices := tri.Vertices()

	inside := true
	for axis := geometry.AxisX; axis <= geometry.AxisZ; axis++ {
		lo, hi := region.Min.Component(axis), region.Max.Component(axis)
		below, above := 0, 0
		for _, v := range vertices {
			c := v.Component(axis)
			if c < lo {
				below++
			} else if c > hi {
				above++
			}
		}
		// all vertices beyond the same face
		if below == 3 || above == 3 {
			return out, cuts
		}
		if below > 0 || above > 0 {
			inside = false
		}
	}
	if inside {
		return append(out, tri), cuts
	}

	normal := tri.Normal
	if normal.IsZero() {
		normal = tri.CalculateNormal()
	}

	working := [][3]geometry.Vector3{vertices}
	for axis := geometry.AxisX; axis <= geometry.AxisZ; axis++ {
		working, cuts = clipAgainstPlane(working, axis, region.Min.Component(axis), true, cuts)
		working, cuts = clipAgainstPlane(working, axis, region.Max.Component(axis), false, cuts)
		if len(working) == 0 {
			return out, cuts
		}
	}

	for _, w := range working {
		out = append(out, geometry.Triangle{Normal: normal, V1: w[0], V2: w[1], V3: w[2], Color: tri.Color})
	}
	return out, cuts
}

// clipAgainstPlane clips every triangle of the working set against one
// axis-aligned plane. keepGreater keeps the side with coordinates >= plane.
// Vertices on the plane belong to neither side, so a triangle that only
// touches the plane is either kept whole or dropped.
func clipAgainstPlane(working [][3]geometry.Vector3, axis int, plane float64, keepGreater bool, cuts []CutEdge) ([][3]geometry.Vector3, []CutEdge) {
	next := make([][3]geometry.Vector3, 0, len(working)+1)

	for _, vertices := range working {
		// Signed distance to the plane, > 0 is the kept side
		var dist [3]float64
		positive, negative := 0, 0
		for i, v := range vertices {
			if keepGreater {
				dist[i] = v.Component(axis) - plane
			} else {
				dist[i] = plane - v.Component(axis)
			}
			if dist[i] > 0 {
				positive++
			} else if dist[i] < 0 {
				negative++
			}
		}

		switch {
		case negative == 0:
			next = append(next, vertices)

		case positive == 0:
			// outside or touching from outside

		case positive+negative < 3:
			// one vertex on the plane, the opposite edge crosses it
			i := 0
			for dist[i] != 0 {
				i++
			}
			v0, v1, v2 := vertices[i], vertices[(i+1)%3], vertices[(i+2)%3]
			d1, d2 := dist[(i+1)%3], dist[(i+2)%3]

			mid := intersect(v1, v2, d1, d2)
			if d1 > 0 {
				next = append(next, [3]geometry.Vector3{v0, v1, mid})
			} else {
				next = append(next, [3]geometry.Vector3{v0, mid, v2})
			}
			cuts = append(cuts, CutEdge{Edge: geometry.NewEdge(v0, mid), Axis: axis})

		case positive == 1:
			i := 0
			for dist[i] <= 0 {
				i++
			}
			v0, v1, v2 := vertices[i], vertices[(i+1)%3], vertices[(i+2)%3]
			d0, d1, d2 := dist[i], dist[(i+1)%3], dist[(i+2)%3]

			newV1 := intersect(v0, v1, d0, d1)
			newV2 := intersect(v0, v2, d0, d2)

			next = append(next, [3]geometry.Vector3{v0, newV1, newV2})
			cuts = append(cuts, CutEdge{Edge: geometry.NewEdge(newV1, newV2), Axis: axis})

		default:
			i := 0
			for dist[i] >= 0 {
				i++
			}
			v0, v1, v2 := vertices[i], vertices[(i+1)%3], vertices[(i+2)%3]
			d0, d1, d2 := dist[i], dist[(i+1)%3], dist[(i+2)%3]

			newV1 := intersect(v0, v1, d0, d1)
			newV2 := intersect(v0, v2, d0, d2)

			// quad newV1, v1, v2, newV2 split in two, winding preserved
			next = append(next,
				[3]geometry.Vector3{v1, v2, newV1},
				[3]geometry.Vector3{v2, newV2, newV1},
			)
			cuts = append(cuts, CutEdge{Edge: geometry.NewEdge(newV1, newV2), Axis: axis})
		}
	}

	return next, cuts
}

// intersect returns the point on segment a-b where the signed distance is zero
func intersect(a, b geometry.Vector3, da, db float64) geometry.Vector3 {
	return a.Lerp(b, da/(da-db))
}

// trimCutEdges clips every cut edge against the two axes it was not created
// on. An edge cut on X may still extend beyond the Y or Z bounds.
func trimCutEdges(cuts []CutEdge, region Region) []CutEdge {
	trimmed := make([]CutEdge, 0, len(cuts))
	for _, cut := range cuts {
		a, b := cut.Edge.A, cut.Edge.B
		t0, t1 := 0.0, 1.0
		visible := true

		for axis := geometry.AxisX; axis <= geometry.AxisZ && visible; axis++ {
			if axis == cut.Axis {
				continue
			}
			t0, t1, visible = clipInterval(a.Component(axis), b.Component(axis),
				region.Min.Component(axis), region.Max.Component(axis), t0, t1)
		}
		if !visible {
			continue
		}

		if t0 > 0 || t1 < 1 {
			cut.Edge = geometry.NewEdge(a.Lerp(b, t0), a.Lerp(b, t1))
		}
		trimmed = append(trimmed, cut)
	}
	return trimmed
}

// clipInterval narrows the parameter range [t0, t1] of the segment p0 + t*(p1-p0)
// to the slab lo <= p <= hi (Liang–Barsky on one axis)
func clipInterval(p0, p1, lo, hi, t0, t1 float64) (float64, float64, bool) {
	d := p1 - p0
	if d == 0 {
		return t0, t1, p0 >= lo && p0 <= hi
	}

	ta, tb := (lo-p0)/d, (hi-p0)/d
	if ta > tb {
		ta, tb = tb, ta
	}
	t0 = math.Max(t0, ta)
	t1 = math.Min(t1, tb)
	return t0, t1, t0 <= t1
}
