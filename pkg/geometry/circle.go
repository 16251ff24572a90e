package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrCollinear is returned when the points do not span a circle
var ErrCollinear = errors.New("points are collinear")

// CircleFit is a circle fitted to points in an axis-aligned plane
type CircleFit struct {
	Center Vector3
	Radius float64
	Normal Vector3 // unit vector along the constant axis
	StdDev float64 // RMS of the radial residuals
}

// planeCoords returns the two in-plane coordinates for a constant axis
func planeCoords(p Vector3, axis int) (float64, float64) {
	switch axis {
	case AxisX:
		return p.Y, p.Z
	case AxisY:
		return p.X, p.Z
	default:
		return p.X, p.Y
	}
}

// FitCircle fits a circle by algebraic least squares to points lying in a
// plane where the given axis is constant (0=X, 1=Y, 2=Z). The plane
// coordinate of the center is the mean of the points.
func FitCircle(points []Vector3, axis int) (CircleFit, error) {
	if len(points) < 3 {
		return CircleFit{}, fmt.Errorf("need at least 3 points to fit a circle, got %d", len(points))
	}
	if axis < AxisX || axis > AxisZ {
		return CircleFit{}, fmt.Errorf("invalid constraint axis: %d (must be 0, 1, or 2)", axis)
	}

	n := float64(len(points))
	var mu, mv, mw float64
	for _, p := range points {
		u, v := planeCoords(p, axis)
		mu += u
		mv += v
		mw += p.Component(axis)
	}
	mu, mv, mw = mu/n, mv/n, mw/n

	// Normal equations of x²+y² + D·x + E·y + F = 0 on centered coordinates
	var suu, suv, svv, suz, svz, sz float64
	for _, p := range points {
		u, v := planeCoords(p, axis)
		u, v = u-mu, v-mv
		z := u*u + v*v
		suu += u * u
		suv += u * v
		svv += v * v
		suz += u * z
		svz += v * z
		sz += z
	}

	// F = -mean(z) since Σu = Σv = 0, leaving a 2×2 system for D and E
	det := suu*svv - suv*suv
	if math.Abs(det) < 1e-12*math.Max(1, suu*svv) {
		return CircleFit{}, ErrCollinear
	}
	d := (-suz*svv + svz*suv) / det
	e := (-svz*suu + suz*suv) / det
	f := -sz / n

	cu, cv := -d/2, -e/2
	radius := math.Sqrt(cu*cu + cv*cv - f)
	cu, cv = cu+mu, cv+mv

	var center, normal Vector3
	switch axis {
	case AxisX:
		center, normal = NewVector3(mw, cu, cv), NewVector3(1, 0, 0)
	case AxisY:
		center, normal = NewVector3(cu, mw, cv), NewVector3(0, 1, 0)
	default:
		center, normal = NewVector3(cu, cv, mw), NewVector3(0, 0, 1)
	}

	var sumSq float64
	for _, p := range points {
		u, v := planeCoords(p, axis)
		r := math.Hypot(u-cu, v-cv) - radius
		sumSq += r * r
	}

	return CircleFit{
		Center: center,
		Radius: radius,
		Normal: normal,
		StdDev: math.Sqrt(sumSq / n),
	}, nil
}
