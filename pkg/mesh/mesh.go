package mesh

import (
	"math"

	"github.com/philipparndt/gomesh/pkg/geometry"
)

// Mesh is the canonical triangle soup produced by every decoder.
// Triangle order carries no meaning.
type Mesh struct {
	Name      string
	Triangles []geometry.Triangle
}

// New creates an empty mesh
func New(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// FromTriangles wraps an existing triangle slice without copying it
func FromTriangles(name string, triangles []geometry.Triangle) *Mesh {
	if triangles == nil {
		triangles = make([]geometry.Triangle, 0)
	}
	return &Mesh{Name: name, Triangles: triangles}
}

// AddTriangle adds a triangle to the mesh
func (m *Mesh) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty reports whether the mesh has no triangles
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// BoundingBox calculates the bounding box of the entire mesh.
// An empty mesh yields the zero box at the origin.
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	if len(m.Triangles) == 0 {
		return geometry.BoundingBox{}
	}
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// SurfaceArea calculates the total surface area of the mesh
func (m *Mesh) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}

// Volume calculates the enclosed volume using the signed tetrahedron method.
// The result is only meaningful for a closed, consistently wound mesh.
func (m *Mesh) Volume() float64 {
	volume := 0.0
	for _, triangle := range m.Triangles {
		volume += triangle.SignedVolume()
	}
	return math.Abs(volume)
}

// IsClosed reports whether every edge is shared by exactly two triangles
func (m *Mesh) IsClosed() bool {
	if len(m.Triangles) == 0 {
		return false
	}
	counts := make(map[geometry.EdgeKey]int, len(m.Triangles)*3/2)
	for _, triangle := range m.Triangles {
		for _, edge := range triangle.Edges() {
			counts[edge.Key()]++
		}
	}
	for _, n := range counts {
		if n != 2 {
			return false
		}
	}
	return true
}

// Translate returns a copy of the mesh shifted by offset
func (m *Mesh) Translate(offset geometry.Vector3) *Mesh {
	out := make([]geometry.Triangle, len(m.Triangles))
	for i, triangle := range m.Triangles {
		out[i] = triangle.Translate(offset)
	}
	return FromTriangles(m.Name, out)
}

// CenterOnPlate returns a copy shifted so the XY center of the bounding box is
// at the origin and the lowest point rests on Z=0
func (m *Mesh) CenterOnPlate() *Mesh {
	if len(m.Triangles) == 0 {
		return FromTriangles(m.Name, nil)
	}
	bbox := m.BoundingBox()
	center := bbox.Center()
	return m.Translate(geometry.NewVector3(-center.X, -center.Y, -bbox.Min.Z))
}
