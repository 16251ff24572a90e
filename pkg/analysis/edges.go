package analysis

import (
	"math"

	"github.com/philipparndt/gomesh/internal/parallel"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

// Emphasis classifies how prominently a styled edge should be drawn
type Emphasis int

const (
	EmphasisFull Emphasis = iota
	EmphasisReduced
)

func (e Emphasis) String() string {
	if e == EmphasisReduced {
		return "reduced"
	}
	return "full"
}

// StyledEdge is a feature edge with its display emphasis
type StyledEdge struct {
	Edge     geometry.Edge
	Emphasis Emphasis
}

// adjacentEdge is a deduplicated edge with the normals of the first two
// triangles that contain it
type adjacentEdge struct {
	edge   geometry.Edge
	faces  int
	n0, n1 geometry.Vector3
}

func (a *adjacentEdge) boundary() bool {
	return a.faces == 1
}

// dihedral returns the angle between the first two face normals in degrees
func (a *adjacentEdge) dihedral() float64 {
	dot := math.Max(-1, math.Min(1, a.n0.Dot(a.n1)))
	return math.Acos(dot) * 180 / math.Pi
}

// ExtractEdges returns every distinct edge of the mesh in first-seen order.
// Endpoints closer than geometry.EdgePrecision are considered equal.
func ExtractEdges(m *mesh.Mesh) []geometry.Edge {
	seen := make(map[geometry.EdgeKey]bool, len(m.Triangles)*3/2)
	edges := make([]geometry.Edge, 0, len(m.Triangles)*3/2)
	for _, t := range m.Triangles {
		for _, e := range t.Edges() {
			key := e.Key()
			if !seen[key] {
				seen[key] = true
				edges = append(edges, e)
			}
		}
	}
	return edges
}

// ExtractFeatureEdges returns boundary edges and edges whose adjacent faces
// meet at thresholdDeg degrees or more
func ExtractFeatureEdges(m *mesh.Mesh, thresholdDeg float64) []geometry.Edge {
	cosThreshold := math.Cos(thresholdDeg * math.Pi / 180)

	var edges []geometry.Edge
	for _, a := range adjacency(m) {
		if a.boundary() || a.n0.Dot(a.n1) < cosThreshold {
			edges = append(edges, a.edge)
		}
	}
	return edges
}

// ExtractStyledEdges classifies edges for display: below minDeg they are
// dropped, at or above thresholdDeg (and on the boundary) they get full
// emphasis, in between reduced emphasis
func ExtractStyledEdges(m *mesh.Mesh, thresholdDeg, minDeg float64) []StyledEdge {
	var edges []StyledEdge
	for _, a := range adjacency(m) {
		if a.boundary() {
			edges = append(edges, StyledEdge{Edge: a.edge, Emphasis: EmphasisFull})
			continue
		}
		angle := a.dihedral()
		switch {
		case angle < minDeg:
		case angle >= thresholdDeg:
			edges = append(edges, StyledEdge{Edge: a.edge, Emphasis: EmphasisFull})
		default:
			edges = append(edges, StyledEdge{Edge: a.edge, Emphasis: EmphasisReduced})
		}
	}
	return edges
}

// adjacency maps every distinct edge to its adjacent face normals. Normals
// are computed per triangle first, in parallel for large meshes; the edge
// map itself is built sequentially.
func adjacency(m *mesh.Mesh) []*adjacentEdge {
	normals := make([]geometry.Vector3, len(m.Triangles))
	computeNormals := func(r parallel.Range) {
		for i := r.Start; i < r.End; i++ {
			normals[i] = m.Triangles[i].FacetNormal()
		}
	}
	if len(m.Triangles) > parallel.TriangleThreshold {
		parallel.For(len(m.Triangles), 0, computeNormals)
	} else {
		computeNormals(parallel.Range{Start: 0, End: len(m.Triangles)})
	}

	index := make(map[geometry.EdgeKey]*adjacentEdge, len(m.Triangles)*3/2)
	ordered := make([]*adjacentEdge, 0, len(m.Triangles)*3/2)
	for i, t := range m.Triangles {
		for _, e := range t.Edges() {
			key := e.Key()
			a, ok := index[key]
			if !ok {
				a = &adjacentEdge{edge: e}
				index[key] = a
				ordered = append(ordered, a)
			}
			switch a.faces {
			case 0:
				a.n0 = normals[i]
			case 1:
				a.n1 = normals[i]
			}
			a.faces++
		}
	}
	return ordered
}
