package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	expectedMin := NewVector3(-1, 0, 2)
	expectedMax := NewVector3(4, 5, 6)

	if bbox.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, bbox.Max)
	}
}

func TestBoundingBoxOfEmpty(t *testing.T) {
	bbox := BoundingBoxOf()

	if bbox.Min != (Vector3{}) || bbox.Max != (Vector3{}) {
		t.Errorf("Empty box should be the zero box, got %v", bbox)
	}
	if bbox.IsEmpty() {
		t.Errorf("Zero box should not report as inverted")
	}
}

func TestBoundingBoxNormalized(t *testing.T) {
	if got := NewBoundingBox().Normalized(); got != (BoundingBox{}) {
		t.Errorf("Normalized inverted box should be zero box, got %v", got)
	}
}

func TestBoundingBoxUnion(t *testing.T) {
	a := BoundingBoxOf(NewVector3(0, 0, 0), NewVector3(1, 1, 1))
	b := BoundingBoxOf(NewVector3(-1, 2, 0.5))

	u := a.Union(b)
	if u.Min != NewVector3(-1, 0, 0) || u.Max != NewVector3(1, 2, 1) {
		t.Errorf("Union failed: got %v", u)
	}
	if got := NewBoundingBox().Union(a); got != a {
		t.Errorf("Union with inverted box failed: got %v", got)
	}
}

func TestBoundingBoxSize(t *testing.T) {
	bbox := BoundingBoxOf(NewVector3(0, 0, 0), NewVector3(10, 20, 30))

	size := bbox.Size()
	expected := NewVector3(10, 20, 30)

	if size != expected {
		t.Errorf("Size failed: expected %v, got %v", expected, size)
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := BoundingBoxOf(NewVector3(0, 0, 0), NewVector3(10, 20, 30))

	center := bbox.Center()
	expected := NewVector3(5, 10, 15)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestBoundingBoxVolume(t *testing.T) {
	bbox := BoundingBoxOf(NewVector3(0, 0, 0), NewVector3(2, 3, 4))

	volume := bbox.Volume()
	expected := 24.0 // 2 * 3 * 4 = 24

	if math.Abs(volume-expected) > 1e-10 {
		t.Errorf("Volume failed: expected %v, got %v", expected, volume)
	}
}

func TestBoundingBoxContains(t *testing.T) {
	bbox := BoundingBoxOf(NewVector3(0, 0, 0), NewVector3(1, 1, 1))

	if !bbox.Contains(NewVector3(1, 0.5, 0)) {
		t.Errorf("Contains failed: border point should be inside")
	}
	if bbox.Contains(NewVector3(1.01, 0.5, 0)) {
		t.Errorf("Contains failed: outside point reported inside")
	}
}
