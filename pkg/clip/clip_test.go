package clip

import (
	"math"
	"testing"

	"github.com/philipparndt/gomesh/internal/meshtest"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func region(minX, minY, minZ, maxX, maxY, maxZ float64) Region {
	return Region{
		Min: geometry.NewVector3(minX, minY, minZ),
		Max: geometry.NewVector3(maxX, maxY, maxZ),
	}
}

func totalArea(triangles []geometry.Triangle) float64 {
	area := 0.0
	for _, t := range triangles {
		area += t.Area()
	}
	return area
}

func assertInside(t *testing.T, r Region, p geometry.Vector3) {
	t.Helper()
	grown := Region{
		Min: r.Min.Sub(geometry.NewVector3(eps, eps, eps)),
		Max: r.Max.Add(geometry.NewVector3(eps, eps, eps)),
	}
	assert.True(t, grown.Contains(p), "%v outside %v", p, r)
}

func TestClipContainedMeshUnchanged(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 2)

	result := Clip(cube.Triangles, region(-1, -1, -1, 3, 3, 3))
	assert.Equal(t, cube.Triangles, result.Triangles)
	assert.Empty(t, result.CutEdges)

	// touching the faces counts as inside
	result = Clip(cube.Triangles, RegionFromBounds(cube.BoundingBox()))
	assert.Equal(t, cube.Triangles, result.Triangles)
	assert.Empty(t, result.CutEdges)
}

func TestClipRejectsSeparatedTriangle(t *testing.T) {
	tri := meshtest.Triangle(0, 0, 0, 1, 0, 0, 0, 1, 0)

	result := Clip([]geometry.Triangle{tri}, region(5, -1, -1, 6, 2, 2))
	assert.Empty(t, result.Triangles)
	assert.Empty(t, result.CutEdges)
}

func TestClipOnePositiveVertex(t *testing.T) {
	tri := meshtest.Triangle(0, 0, 0, 2, 0, 0, 0, 2, 0)

	result := Clip([]geometry.Triangle{tri}, region(1, -10, -10, 10, 10, 10))
	require.Len(t, result.Triangles, 1)
	require.Len(t, result.CutEdges, 1)

	out := result.Triangles[0]
	assert.Equal(t, geometry.NewVector3(2, 0, 0), out.V1)
	assert.Equal(t, geometry.NewVector3(0, 0, 1), out.Normal)
	assert.True(t, out.CalculateNormal().ApproxEqual(geometry.NewVector3(0, 0, 1), eps), "winding preserved")
	assert.InDelta(t, 0.5, out.Area(), eps)

	cut := result.CutEdges[0]
	assert.Equal(t, geometry.AxisX, cut.Axis)
	assert.Equal(t, geometry.NewEdge(geometry.NewVector3(1, 0, 0), geometry.NewVector3(1, 1, 0)), cut.Edge)
}

func TestClipTwoPositiveVertices(t *testing.T) {
	tri := meshtest.Triangle(0, 0, 0, 2, 0, 0, 0, 2, 0)

	result := Clip([]geometry.Triangle{tri}, region(-10, -10, -10, 1, 10, 10))
	require.Len(t, result.Triangles, 2)
	require.Len(t, result.CutEdges, 1)

	assert.InDelta(t, 1.5, totalArea(result.Triangles), eps)
	for _, out := range result.Triangles {
		assert.True(t, out.CalculateNormal().ApproxEqual(geometry.NewVector3(0, 0, 1), eps), "winding preserved")
	}
	assert.InDelta(t, 1, result.CutEdges[0].Edge.Length(), eps)
}

func TestClipTouchingVertex(t *testing.T) {
	// only the vertex (2,0,0) reaches the region
	tri := meshtest.Triangle(0, 0, 0, 2, 0, 0, 0, 2, 0)

	result := Clip([]geometry.Triangle{tri}, region(2, -10, -10, 10, 10, 10))
	assert.Empty(t, result.Triangles)
	assert.Empty(t, result.CutEdges)

	// touching the max face from inside keeps it whole
	result = Clip([]geometry.Triangle{tri}, region(-10, -10, -10, 2, 10, 10))
	assert.Equal(t, []geometry.Triangle{tri}, result.Triangles)
	assert.Empty(t, result.CutEdges)
}

func TestClipVertexOnPlane(t *testing.T) {
	// (1,0,0) lies on the max X face, the opposite edge crosses it at (1,1,0)
	tri := meshtest.Triangle(1, 0, 0, 0, 1, 0, 2, 1, 0)

	result := Clip([]geometry.Triangle{tri}, region(-5, -5, -5, 1, 5, 5))
	require.Len(t, result.Triangles, 1)
	require.Len(t, result.CutEdges, 1)

	out := result.Triangles[0]
	assert.InDelta(t, 0.5, out.Area(), eps)
	assert.True(t, out.CalculateNormal().ApproxEqual(tri.CalculateNormal(), eps), "winding preserved")

	cut := result.CutEdges[0]
	assert.Equal(t, geometry.AxisX, cut.Axis)
	assert.Equal(t, geometry.NewEdge(geometry.NewVector3(1, 0, 0), geometry.NewVector3(1, 1, 0)), cut.Edge)
}

func TestClipKeepsStoredNormalAndColor(t *testing.T) {
	red := geometry.Color{R: 255, A: 255}
	tri := meshtest.Triangle(0, 0, 0, 2, 0, 0, 0, 2, 0).WithColor(red)
	tri.Normal = geometry.NewVector3(0, 0, 3)

	result := Clip([]geometry.Triangle{tri}, region(-10, -10, -10, 1, 10, 10))
	require.NotEmpty(t, result.Triangles)
	for _, out := range result.Triangles {
		assert.Equal(t, tri.Normal, out.Normal)
		assert.Equal(t, red, out.Color)
	}
}

func TestClipInvalidRegion(t *testing.T) {
	cube := meshtest.UnitCube()

	for name, r := range map[string]Region{
		"inverted": region(1, 0, 0, 0, 1, 1),
		"nan":      region(math.NaN(), 0, 0, 1, 1, 1),
		"flat":     region(0.5, -1, -1, 0.5, 2, 2),
	} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, r.Valid())
			result := Clip(cube.Triangles, r)
			assert.Empty(t, result.Triangles)
			assert.Empty(t, result.CutEdges)
		})
	}
}

func TestClipOutputStaysInRegion(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 2)
	r := region(0.5, 0.5, 0.5, 1.5, 1.5, 1.5)

	result := Clip(cube.Triangles, r)

	// the clipped cube is empty inside: every face lies outside the region
	assert.Empty(t, result.Triangles)
	assert.Empty(t, result.CutEdges)

	r = region(0.5, -1, 0.5, 1.5, 3, 1.5)
	result = Clip(cube.Triangles, r)
	require.NotEmpty(t, result.Triangles)
	require.NotEmpty(t, result.CutEdges)

	for _, tri := range result.Triangles {
		for _, v := range tri.Vertices() {
			assertInside(t, r, v)
		}
	}
	for _, cut := range result.CutEdges {
		assertInside(t, r, cut.Edge.A)
		assertInside(t, r, cut.Edge.B)
	}
	// front and back faces remain as 1×1 squares
	assert.InDelta(t, 2, totalArea(result.Triangles), eps)
}

func TestClipHalfCube(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 2)

	result := Clip(cube.Triangles, region(-1, -1, -1, 3, 3, 1))
	assert.Len(t, result.CutEdges, 8)
	for _, cut := range result.CutEdges {
		assert.Equal(t, geometry.AxisZ, cut.Axis)
		assert.InDelta(t, 1, cut.Edge.A.Z, eps)
		assert.InDelta(t, 1, cut.Edge.B.Z, eps)
	}

	// bottom plus half of the four sides
	assert.InDelta(t, 4+4*2, totalArea(result.Triangles), eps)

	m := result.Mesh("half")
	assert.Equal(t, "half", m.Name)
	assert.False(t, m.IsClosed())
}

func TestClipParallelMatchesSerial(t *testing.T) {
	var triangles []geometry.Triangle
	for i := 0; i < 100; i++ {
		cube := meshtest.Cube(geometry.NewVector3(float64(i)*2, 0, 0), 1)
		triangles = append(triangles, cube.Triangles...)
	}
	require.Greater(t, len(triangles), 1000)
	r := region(-1, -1, -1, 300, 0.5, 0.5)

	serial := ClipWithWorkers(triangles, r, 1)
	parallelResult := ClipWithWorkers(triangles, r, 8)

	assert.Equal(t, serial.Triangles, parallelResult.Triangles)
	assert.Equal(t, serial.CutEdges, parallelResult.CutEdges)
	assert.NotEmpty(t, serial.CutEdges)
}

func TestClipInterval(t *testing.T) {
	t0, t1, ok := clipInterval(-1, 3, 0, 2, 0, 1)
	assert.True(t, ok)
	assert.InDelta(t, 0.25, t0, eps)
	assert.InDelta(t, 0.75, t1, eps)

	_, _, ok = clipInterval(5, 5, 0, 2, 0, 1)
	assert.False(t, ok, "parallel outside")

	t0, t1, ok = clipInterval(1, 1, 0, 2, 0.2, 0.6)
	assert.True(t, ok, "parallel inside")
	assert.Equal(t, 0.2, t0)
	assert.Equal(t, 0.6, t1)
}
