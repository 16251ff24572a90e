package geometry

import "testing"

func TestNewEdgeCanonicalOrder(t *testing.T) {
	a := NewVector3(1, 0, 0)
	b := NewVector3(0, 5, 5)

	e1 := NewEdge(a, b)
	e2 := NewEdge(b, a)

	if e1 != e2 {
		t.Errorf("Edges should be identical regardless of direction: %v vs %v", e1, e2)
	}
	if e1.A != b {
		t.Errorf("Smaller endpoint should come first: expected %v, got %v", b, e1.A)
	}
}

func TestNewEdgeTieBreak(t *testing.T) {
	// Same x: y decides, then z
	e := NewEdge(NewVector3(1, 2, 9), NewVector3(1, 2, 3))
	if e.A != NewVector3(1, 2, 3) {
		t.Errorf("Tie on x and y should be broken by z, got A=%v", e.A)
	}

	e = NewEdge(NewVector3(1, 3, 0), NewVector3(1, 2, 9))
	if e.A != NewVector3(1, 2, 9) {
		t.Errorf("Tie on x should be broken by y, got A=%v", e.A)
	}
}

func TestEdgeKeyAbsorbsNoise(t *testing.T) {
	e1 := NewEdge(NewVector3(0, 0, 0), NewVector3(1, 1, 1))
	e2 := NewEdge(NewVector3(1+1e-9, 1, 1-1e-9), NewVector3(1e-10, 0, 0))

	if !e1.Equal(e2) {
		t.Errorf("Edges within rounding noise should be equal: %v vs %v", e1.Key(), e2.Key())
	}

	e3 := NewEdge(NewVector3(0, 0, 0), NewVector3(1, 1, 1.001))
	if e1.Equal(e3) {
		t.Errorf("Edges differing by 1e-3 should not be equal")
	}
}

func TestEdgeLength(t *testing.T) {
	e := NewEdge(NewVector3(0, 0, 0), NewVector3(3, 4, 0))
	if e.Length() != 5 {
		t.Errorf("Length failed: expected 5, got %v", e.Length())
	}
}
