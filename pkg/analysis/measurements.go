package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gomesh/internal/parallel"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

const (
	// DefaultDensity is the density of PLA in g/cm³
	DefaultDensity = 1.24
	// DefaultInfillFraction is a typical slicer infill setting
	DefaultInfillFraction = 0.15
)

// EdgeInfo contains information about an edge in the model
type EdgeInfo struct {
	Start      geometry.Vector3
	End        geometry.Vector3
	Length     float64
	TriangleID int
}

// ModelAnalysis is a snapshot of the measurements of a mesh
type ModelAnalysis struct {
	BoundingBox    geometry.BoundingBox
	Dimensions     geometry.Vector3
	Volume         float64 // mm³
	SurfaceArea    float64 // mm²
	TriangleCount  int
	EdgeCount      int
	MinEdgeLength  float64
	MaxEdgeLength  float64
	AvgEdgeLength  float64
	Density        float64 // g/cm³
	InfillFraction float64
	WeightFull     float64 // grams at 100% infill
	WeightPartial  float64 // grams at InfillFraction
}

// Options tune the weight estimate. Zero values select the defaults, so an
// InfillFraction of 0 means DefaultInfillFraction and values above 1 are
// capped at 1. A 0% estimate is always zero; use WeightEstimate directly for
// arbitrary fractions.
type Options struct {
	InfillFraction float64
	Density        float64
}

func (o Options) withDefaults() Options {
	if o.Density <= 0 {
		o.Density = DefaultDensity
	}
	if o.InfillFraction <= 0 {
		o.InfillFraction = DefaultInfillFraction
	}
	if o.InfillFraction > 1 {
		o.InfillFraction = 1
	}
	return o
}

// Analyze performs comprehensive analysis on a mesh
func Analyze(m *mesh.Mesh, opts Options) *ModelAnalysis {
	opts = opts.withDefaults()
	stats := EdgeStatistics(m)

	result := &ModelAnalysis{
		BoundingBox:    BoundingBox(m),
		Volume:         Volume(m),
		SurfaceArea:    SurfaceArea(m),
		TriangleCount:  m.TriangleCount(),
		EdgeCount:      stats.Count,
		MinEdgeLength:  stats.Min,
		MaxEdgeLength:  stats.Max,
		AvgEdgeLength:  stats.Avg,
		Density:        opts.Density,
		InfillFraction: opts.InfillFraction,
	}
	result.Dimensions = result.BoundingBox.Size()
	result.WeightFull = WeightEstimate(result.Volume, 1, opts.Density)
	result.WeightPartial = WeightEstimate(result.Volume, opts.InfillFraction, opts.Density)

	return result
}

// WeightEstimate converts a volume in mm³ to grams. The infill fraction
// scales the full weight proportionally.
func WeightEstimate(volume, infillFraction, density float64) float64 {
	return volume / 1000 * density * infillFraction
}

// BoundingBox returns the bounds of the mesh, the zero box when it is empty
func BoundingBox(m *mesh.Mesh) geometry.BoundingBox {
	return m.BoundingBox()
}

// SurfaceArea sums the triangle areas
func SurfaceArea(m *mesh.Mesh) float64 {
	return sumTriangles(m, geometry.Triangle.Area)
}

// Volume returns the enclosed volume using signed tetrahedra against the
// origin. Open meshes still yield a number; check mesh.IsClosed first when
// it matters.
func Volume(m *mesh.Mesh) float64 {
	return math.Abs(sumTriangles(m, geometry.Triangle.SignedVolume))
}

func sumTriangles(m *mesh.Mesh, f func(geometry.Triangle) float64) float64 {
	sum := func(r parallel.Range) float64 {
		total := 0.0
		for _, t := range m.Triangles[r.Start:r.End] {
			total += f(t)
		}
		return total
	}

	n := len(m.Triangles)
	if n <= parallel.TriangleThreshold {
		return sum(parallel.Range{Start: 0, End: n})
	}
	total := 0.0
	for _, part := range parallel.Map(n, 0, sum) {
		total += part
	}
	return total
}

// EdgeStats summarizes the lengths of the three edges of every triangle.
// Shared edges are counted once per triangle.
type EdgeStats struct {
	Count int
	Min   float64
	Max   float64
	Avg   float64
}

type edgeAccumulator struct {
	count         int
	min, max, sum float64
}

func (a edgeAccumulator) merge(o edgeAccumulator) edgeAccumulator {
	if o.count == 0 {
		return a
	}
	if a.count == 0 {
		return o
	}
	return edgeAccumulator{
		count: a.count + o.count,
		min:   math.Min(a.min, o.min),
		max:   math.Max(a.max, o.max),
		sum:   a.sum + o.sum,
	}
}

// EdgeStatistics returns count, min, max and mean edge length. An empty
// mesh yields all zeros.
func EdgeStatistics(m *mesh.Mesh) EdgeStats {
	accumulate := func(r parallel.Range) edgeAccumulator {
		acc := edgeAccumulator{min: math.MaxFloat64}
		for _, t := range m.Triangles[r.Start:r.End] {
			for _, length := range t.EdgeLengths() {
				acc.count++
				acc.sum += length
				acc.min = math.Min(acc.min, length)
				acc.max = math.Max(acc.max, length)
			}
		}
		return acc
	}

	var total edgeAccumulator
	n := len(m.Triangles)
	if n <= parallel.TriangleThreshold {
		total = total.merge(accumulate(parallel.Range{Start: 0, End: n}))
	} else {
		for _, part := range parallel.Map(n, 0, accumulate) {
			total = total.merge(part)
		}
	}

	if total.count == 0 {
		return EdgeStats{}
	}
	return EdgeStats{
		Count: total.count,
		Min:   total.min,
		Max:   total.max,
		Avg:   total.sum / float64(total.count),
	}
}

// AllEdges lists the three edges of every triangle with their lengths
func AllEdges(m *mesh.Mesh) []EdgeInfo {
	edges := make([]EdgeInfo, 0, len(m.Triangles)*3)
	for i, triangle := range m.Triangles {
		pairs := [3][2]geometry.Vector3{
			{triangle.V1, triangle.V2},
			{triangle.V2, triangle.V3},
			{triangle.V3, triangle.V1},
		}
		for _, p := range pairs {
			edges = append(edges, EdgeInfo{
				Start:      p[0],
				End:        p[1],
				Length:     p[0].Distance(p[1]),
				TriangleID: i,
			})
		}
	}
	return edges
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(edges []EdgeInfo, minLength, maxLength float64) []EdgeInfo {
	var found []EdgeInfo
	for _, edge := range edges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			found = append(found, edge)
		}
	}
	return found
}

// FindLongestEdges returns the N longest edges
func FindLongestEdges(edges []EdgeInfo, count int) []EdgeInfo {
	return sortedEdges(edges, count, func(a, b EdgeInfo) bool { return a.Length > b.Length })
}

// FindShortestEdges returns the N shortest edges
func FindShortestEdges(edges []EdgeInfo, count int) []EdgeInfo {
	return sortedEdges(edges, count, func(a, b EdgeInfo) bool { return a.Length < b.Length })
}

func sortedEdges(edges []EdgeInfo, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	sorted := make([]EdgeInfo, len(edges))
	copy(sorted, edges)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	if count > len(sorted) {
		count = len(sorted)
	}
	if count < 0 {
		count = 0
	}
	return sorted[:count]
}

// FindNearestVertex finds the vertex in the mesh nearest to a given point.
// The distance is +Inf for an empty mesh.
func FindNearestVertex(m *mesh.Mesh, point geometry.Vector3) (geometry.Vector3, float64) {
	var nearestVertex geometry.Vector3
	minDistance := math.Inf(1)

	for _, triangle := range m.Triangles {
		for _, vertex := range triangle.Vertices() {
			distance := point.Distance(vertex)
			if distance < minDistance {
				minDistance = distance
				nearestVertex = vertex
			}
		}
	}

	return nearestVertex, minDistance
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
