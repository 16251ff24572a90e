package preview

import (
	"math"

	"github.com/philipparndt/gomesh/pkg/geometry"
)

// Camera is an orbit camera looking at a target in a Z-up world
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // Field of view in radians
	Distance float64
	// Azimuth turns around the Z axis, Elevation tilts above the XY plane (radians)
	Azimuth   float64
	Elevation float64
}

// NewCamera creates a camera that frames the bounding box from the given angles
func NewCamera(bbox geometry.BoundingBox, azimuth, elevation float64) *Camera {
	c := &Camera{
		Target:    bbox.Center(),
		Up:        geometry.NewVector3(0, 0, 1),
		FOV:       math.Pi / 4,
		Azimuth:   azimuth,
		Elevation: elevation,
	}

	// distance at which the bounding sphere fits the field of view
	radius := bbox.Diagonal() / 2
	if radius <= 0 {
		radius = 1
	}
	c.Distance = radius / math.Sin(c.FOV/2) * 1.05

	c.clampElevation()
	c.UpdatePosition()
	return c
}

func (c *Camera) clampElevation() {
	maxAngle := math.Pi/2 - 0.01
	c.Elevation = math.Max(-maxAngle, math.Min(maxAngle, c.Elevation))
}

// UpdatePosition places the camera on its orbit sphere
func (c *Camera) UpdatePosition() {
	x := c.Distance * math.Cos(c.Elevation) * math.Sin(c.Azimuth)
	y := -c.Distance * math.Cos(c.Elevation) * math.Cos(c.Azimuth)
	z := c.Distance * math.Sin(c.Elevation)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Zoom scales the camera distance; factors above 1 move closer
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance /= factor
	c.UpdatePosition()
}

// Forward returns the unit view direction
func (c *Camera) Forward() geometry.Vector3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Project maps a world point to screen coordinates and its view depth
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward := c.Forward()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward).Normalize()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	if z <= 0.01 {
		z = 0.01
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(z*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}
