package geometry

import "testing"

func TestMatrixIdentity(t *testing.T) {
	p := NewVector3(1, 2, 3)
	if got := Identity().Apply(p); got != p {
		t.Errorf("Identity failed: expected %v, got %v", p, got)
	}
	if !Identity().IsIdentity() {
		t.Errorf("IsIdentity failed for identity")
	}
}

func TestMatrixFrom3MF(t *testing.T) {
	// Rotation of 90 degrees around Z plus translation (10, 20, 30), written
	// in the row-vector convention used by 3MF documents
	m := MatrixFrom3MF([12]float64{
		0, 1, 0,
		-1, 0, 0,
		0, 0, 1,
		10, 20, 30,
	})

	got := m.Apply(NewVector3(1, 0, 0))
	expected := NewVector3(10, 21, 30)
	if !got.ApproxEqual(expected, 1e-12) {
		t.Errorf("Apply failed: expected %v, got %v", expected, got)
	}
}

func TestMatrixMulComposition(t *testing.T) {
	scale := Matrix{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
	}
	move := Translation(NewVector3(1, 0, 0))

	// move.Mul(scale) scales first, then translates
	got := move.Mul(scale).Apply(NewVector3(1, 1, 1))
	expected := NewVector3(3, 2, 2)
	if got != expected {
		t.Errorf("Mul failed: expected %v, got %v", expected, got)
	}

	// scale.Mul(move) translates first, then scales
	got = scale.Mul(move).Apply(NewVector3(1, 1, 1))
	expected = NewVector3(4, 2, 2)
	if got != expected {
		t.Errorf("Mul failed: expected %v, got %v", expected, got)
	}
}
