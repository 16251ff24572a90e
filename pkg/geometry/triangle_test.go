package geometry

import (
	"math"
	"testing"
)

func TestTriangleArea(t *testing.T) {
	// Create a right triangle with sides 3, 4, 5
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	area := tri.Area()
	expected := 6.0 // (3 * 4) / 2 = 6

	if math.Abs(area-expected) > 1e-10 {
		t.Errorf("Area failed: expected %v, got %v", expected, area)
	}
}

func TestTriangleEdgeLengths(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	lengths := tri.EdgeLengths()

	// Expected lengths: 3, 5, 4 (Pythagorean triple)
	if math.Abs(lengths[0]-3.0) > 1e-10 {
		t.Errorf("Edge 0 length failed: expected 3.0, got %v", lengths[0])
	}
	if math.Abs(lengths[1]-5.0) > 1e-10 {
		t.Errorf("Edge 1 length failed: expected 5.0, got %v", lengths[1])
	}
	if math.Abs(lengths[2]-4.0) > 1e-10 {
		t.Errorf("Edge 2 length failed: expected 4.0, got %v", lengths[2])
	}
}

func TestTrianglePerimeter(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	perimeter := tri.Perimeter()
	expected := 12.0 // 3 + 4 + 5 = 12

	if math.Abs(perimeter-expected) > 1e-10 {
		t.Errorf("Perimeter failed: expected %v, got %v", expected, perimeter)
	}
}

func TestTriangleCenter(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 3, 0),
	)

	center := tri.Center()
	expected := NewVector3(1, 1, 0)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestTriangleFacetNormal(t *testing.T) {
	// No stored normal: computed from winding
	tri := NewTriangle(
		Vector3{},
		NewVector3(0, 0, 0),
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
	)
	expected := NewVector3(0, 0, 1)
	if n := tri.FacetNormal(); !n.ApproxEqual(expected, 1e-10) {
		t.Errorf("FacetNormal failed: expected %v, got %v", expected, n)
	}

	// Stored normal wins and is normalized
	tri.Normal = NewVector3(0, 0, -2)
	expected = NewVector3(0, 0, -1)
	if n := tri.FacetNormal(); !n.ApproxEqual(expected, 1e-10) {
		t.Errorf("FacetNormal failed: expected %v, got %v", expected, n)
	}
}

func TestTriangleTransformPreservesWinding(t *testing.T) {
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
	)

	// Rotate 90 degrees around X: +Z normal becomes -Y
	rot := Matrix{
		1, 0, 0, 5,
		0, 0, -1, 0,
		0, 1, 0, 0,
	}
	moved := tri.Transform(rot)

	if moved.V1 != NewVector3(5, 0, 0) {
		t.Errorf("Transform failed: expected V1 (5,0,0), got %v", moved.V1)
	}
	expected := NewVector3(0, -1, 0)
	if !moved.Normal.ApproxEqual(expected, 1e-10) {
		t.Errorf("Transform normal failed: expected %v, got %v", expected, moved.Normal)
	}
	if !moved.CalculateNormal().ApproxEqual(expected, 1e-10) {
		t.Errorf("Transform winding failed: expected %v, got %v", expected, moved.CalculateNormal())
	}
}

func TestTriangleSignedVolume(t *testing.T) {
	tri := NewTriangle(
		Vector3{},
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
		NewVector3(0, 0, 1),
	)

	expected := 1.0 / 6.0
	if v := tri.SignedVolume(); math.Abs(v-expected) > 1e-10 {
		t.Errorf("SignedVolume failed: expected %v, got %v", expected, v)
	}
}
