package clip

import (
	"math"
	"sort"

	"github.com/philipparndt/gomesh/pkg/geometry"
)

// contourTolerance is the distance under which two cut edge endpoints are
// joined into one contour vertex
const contourTolerance = 1e-6

// Contour is a closed cross-section outline lying in a plane perpendicular to Axis
type Contour struct {
	Axis   int
	Points []geometry.Vector3
}

// Contours chains cut edges into closed outlines, one group per cutting
// plane. Chains that do not close (open meshes) are dropped.
func Contours(cuts []CutEdge) []Contour {
	type planeKey struct {
		axis  int
		coord int64
	}

	groups := make(map[planeKey][]geometry.Edge)
	var keys []planeKey
	for _, cut := range cuts {
		key := planeKey{cut.Axis, int64(math.Round(cut.Edge.A.Component(cut.Axis) / geometry.EdgePrecision))}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], cut.Edge)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].axis != keys[j].axis {
			return keys[i].axis < keys[j].axis
		}
		return keys[i].coord < keys[j].coord
	})

	var contours []Contour
	for _, key := range keys {
		for _, points := range chainEdges(groups[key]) {
			contours = append(contours, Contour{Axis: key.axis, Points: points})
		}
	}
	return contours
}

func chainEdges(edges []geometry.Edge) [][]geometry.Vector3 {
	unused := make([]geometry.Edge, len(edges))
	copy(unused, edges)

	var loops [][]geometry.Vector3
	for len(unused) > 0 {
		loop := []geometry.Vector3{unused[0].A, unused[0].B}
		unused = unused[1:]
		closed := false

		for len(unused) > 0 && !closed {
			last := loop[len(loop)-1]
			found := false
			for j, e := range unused {
				var next geometry.Vector3
				switch {
				case e.A.ApproxEqual(last, contourTolerance):
					next = e.B
				case e.B.ApproxEqual(last, contourTolerance):
					next = e.A
				default:
					continue
				}
				loop = append(loop, next)
				unused = append(unused[:j], unused[j+1:]...)
				found = true
				break
			}

			if len(loop) > 3 && loop[0].ApproxEqual(loop[len(loop)-1], contourTolerance) {
				loop = loop[:len(loop)-1]
				closed = true
			}
			if !found {
				break
			}
		}

		if closed {
			loops = append(loops, loop)
		}
	}
	return loops
}

// project drops the contour axis
func (c Contour) project(p geometry.Vector3) (float64, float64) {
	switch c.Axis {
	case geometry.AxisX:
		return p.Y, p.Z
	case geometry.AxisY:
		return p.Z, p.X
	default:
		return p.X, p.Y
	}
}

// signedArea is positive when the projected outline runs counter-clockwise
func (c Contour) signedArea() float64 {
	area := 0.0
	for i, p := range c.Points {
		ax, ay := c.project(p)
		bx, by := c.project(c.Points[(i+1)%len(c.Points)])
		area += ax*by - bx*ay
	}
	return area / 2
}

// Triangulate fills the outline by ear clipping. Triangles are wound to face
// along the positive contour axis.
func (c Contour) Triangulate() []geometry.Triangle {
	n := len(c.Points)
	if n < 3 {
		return nil
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if c.signedArea() < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			indices[i], indices[j] = indices[j], indices[i]
		}
	}

	var normal geometry.Vector3
	switch c.Axis {
	case geometry.AxisX:
		normal.X = 1
	case geometry.AxisY:
		normal.Y = 1
	default:
		normal.Z = 1
	}

	triangles := make([]geometry.Triangle, 0, n-2)
	emit := func(a, b, d int) {
		triangles = append(triangles, geometry.NewTriangle(normal, c.Points[a], c.Points[b], c.Points[d]))
	}

	for len(indices) > 3 {
		ear := -1
		for i := range indices {
			if c.isEar(indices, i) {
				ear = i
				break
			}
		}
		if ear < 0 {
			// degenerate outline, fall back to a fan
			for i := 1; i < len(indices)-1; i++ {
				emit(indices[0], indices[i], indices[i+1])
			}
			return triangles
		}

		m := len(indices)
		emit(indices[(ear-1+m)%m], indices[ear], indices[(ear+1)%m])
		indices = append(indices[:ear], indices[ear+1:]...)
	}
	emit(indices[0], indices[1], indices[2])
	return triangles
}

func (c Contour) isEar(indices []int, i int) bool {
	m := len(indices)
	prev, curr, next := indices[(i-1+m)%m], indices[i], indices[(i+1)%m]

	ax, ay := c.project(c.Points[prev])
	bx, by := c.project(c.Points[curr])
	cx, cy := c.project(c.Points[next])

	// reflex or degenerate corner
	if (bx-ax)*(cy-ay)-(by-ay)*(cx-ax) <= 0 {
		return false
	}

	for _, idx := range indices {
		if idx == prev || idx == curr || idx == next {
			continue
		}
		px, py := c.project(c.Points[idx])
		if pointInTriangle(px, py, ax, ay, bx, by, cx, cy) {
			return false
		}
	}
	return true
}

func pointInTriangle(px, py, ax, ay, bx, by, cx, cy float64) bool {
	d1 := (px-bx)*(ay-by) - (ax-bx)*(py-by)
	d2 := (px-cx)*(by-cy) - (bx-cx)*(py-cy)
	d3 := (px-ax)*(cy-ay) - (cx-ax)*(py-ay)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// Area returns the enclosed area of the outline
func (c Contour) Area() float64 {
	return math.Abs(c.signedArea())
}

// Perimeter returns the length of the closed outline
func (c Contour) Perimeter() float64 {
	total := 0.0
	for i, p := range c.Points {
		total += p.Distance(c.Points[(i+1)%len(c.Points)])
	}
	return total
}

// Plane returns the coordinate of the cutting plane on the contour axis
func (c Contour) Plane() float64 {
	if len(c.Points) == 0 {
		return 0
	}
	return c.Points[0].Component(c.Axis)
}

// FitCircle fits a circle to the outline, e.g. to measure a cut through a
// cylinder or a bore
func (c Contour) FitCircle() (geometry.CircleFit, error) {
	return geometry.FitCircle(c.Points, c.Axis)
}
