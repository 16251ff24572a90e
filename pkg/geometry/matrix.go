package geometry

import "math"

// Matrix is an affine transform stored as a row-major 3×4 matrix:
// the left 3×3 block is rotation/scale, the last column is translation.
type Matrix [12]float64

// Identity returns the identity transform
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
	}
}

// Translation returns a pure translation transform
func Translation(offset Vector3) Matrix {
	return Matrix{
		1, 0, 0, offset.X,
		0, 1, 0, offset.Y,
		0, 0, 1, offset.Z,
	}
}

// MatrixFrom3MF converts the 12-number transform attribute of a 3MF document
// ("m00 m01 m02 m10 m11 m12 m20 m21 m22 m30 m31 m32", row-vector convention)
// into a row-major column-vector matrix.
func MatrixFrom3MF(v [12]float64) Matrix {
	return Matrix{
		v[0], v[3], v[6], v[9],
		v[1], v[4], v[7], v[10],
		v[2], v[5], v[8], v[11],
	}
}

// Mul returns the composition m × o: o is applied first, then m
func (m Matrix) Mul(o Matrix) Matrix {
	var r Matrix
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			v := m[row*4+0]*o[0*4+col] + m[row*4+1]*o[1*4+col] + m[row*4+2]*o[2*4+col]
			if col == 3 {
				v += m[row*4+3]
			}
			r[row*4+col] = v
		}
	}
	return r
}

// Apply transforms a point (w=1)
func (m Matrix) Apply(p Vector3) Vector3 {
	return Vector3{
		X: m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		Y: m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		Z: m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// IsIdentity checks if the matrix is approximately the identity
func (m Matrix) IsIdentity() bool {
	id := Identity()
	for i := range m {
		if math.Abs(m[i]-id[i]) > 1e-12 {
			return false
		}
	}
	return true
}
