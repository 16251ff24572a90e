package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/philipparndt/gomesh/internal/meshtest"
	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/clip"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countNot(img *image.RGBA, bg color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != bg {
				n++
			}
		}
	}
	return n
}

func countColor(img *image.RGBA, c color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestRenderCube(t *testing.T) {
	img, err := Render(meshtest.UnitCube(), Options{Width: 64, Height: 48, Supersample: 1})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())

	covered := countNot(img, DefaultBackground)
	assert.Greater(t, covered, 200)
	assert.Less(t, covered, 64*48)

	// the model is centered
	assert.NotEqual(t, DefaultBackground, img.RGBAAt(32, 24))
	assert.Equal(t, DefaultBackground, img.RGBAAt(0, 0))
}

func TestRenderSupersampledSize(t *testing.T) {
	img, err := Render(meshtest.UnitCube(), Options{Width: 40, Height: 30, Supersample: 3})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
}

func TestRenderUsesTriangleColors(t *testing.T) {
	red := geometry.Color{R: 255, A: 255}
	cube := meshtest.UnitCube()
	for i := range cube.Triangles {
		cube.Triangles[i].Color = red
	}

	img, err := Render(cube, Options{Width: 32, Height: 32, Supersample: 1})
	require.NoError(t, err)
	c := img.RGBAAt(16, 16)
	assert.Greater(t, c.R, uint8(0))
	assert.Zero(t, c.G)
	assert.Zero(t, c.B)
}

func TestRenderEdgesAndCuts(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 2)
	result := clip.Clip(cube.Triangles, clip.Region{
		Min: geometry.NewVector3(-1, -1, -1),
		Max: geometry.NewVector3(3, 3, 1),
	})
	clipped := result.Mesh("half")

	img, err := Render(clipped, Options{
		Width: 96, Height: 96, Supersample: 1,
		Edges:    analysis.ExtractStyledEdges(clipped, 30, 1),
		CutEdges: result.CutEdges,
		Caps:     true,
	})
	require.NoError(t, err)
	assert.Greater(t, countColor(img, AxisColors[geometry.AxisZ]), 0, "cut edges drawn in the Z color")
	assert.Greater(t, countColor(img, edgeColor), 0, "feature edges drawn")
}

func TestRenderEmptyMesh(t *testing.T) {
	img, err := Render(mesh.New("empty"), Options{Width: 8, Height: 8, Supersample: 1})
	require.NoError(t, err)
	assert.Zero(t, countNot(img, DefaultBackground))
}

func TestRenderInvalidSize(t *testing.T) {
	_, err := Render(meshtest.UnitCube(), Options{Width: 0, Height: 10})
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestRenderParallelMatchesSerial(t *testing.T) {
	m := mesh.New("grid")
	for i := 0; i < 100; i++ {
		m.Triangles = append(m.Triangles, meshtest.Cube(geometry.NewVector3(float64(i%10)*2, float64(i/10)*2, 0), 1).Triangles...)
	}

	serial, err := Render(m, Options{Width: 64, Height: 64, Supersample: 1, Workers: 1})
	require.NoError(t, err)
	parallelImg, err := Render(m, Options{Width: 64, Height: 64, Supersample: 1, Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, serial.Pix, parallelImg.Pix)
}

func TestShade(t *testing.T) {
	forward := geometry.NewVector3(0, 0, -1)
	up := geometry.NewVector3(0, 0, 1)

	front := shade(up, forward, DefaultBaseColor)
	back := shade(up.Mul(-1), forward, DefaultBaseColor)
	assert.Greater(t, front.B, back.B, "faces seen from behind are darker")
	assert.LessOrEqual(t, front.B, DefaultBaseColor.B)
}

func TestCamera(t *testing.T) {
	bbox := geometry.BoundingBoxOf(geometry.NewVector3(-1, -1, -1), geometry.NewVector3(1, 1, 1))
	cam := NewCamera(bbox, 0, 0)

	assert.InDelta(t, -cam.Distance, cam.Position.Y, 1e-9)
	x, y, z := cam.Project(bbox.Center(), 100, 100)
	assert.InDelta(t, 50, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)
	assert.InDelta(t, cam.Distance, z, 1e-9)

	// up is up on screen
	_, yTop, _ := cam.Project(geometry.NewVector3(0, 0, 1), 100, 100)
	assert.Less(t, yTop, 50.0)

	cam = NewCamera(bbox, 0, math.Pi)
	assert.Less(t, cam.Elevation, math.Pi/2)

	d := cam.Distance
	cam.Zoom(2)
	assert.InDelta(t, d/2, cam.Distance, 1e-9)
}

func TestEncode(t *testing.T) {
	img, err := Render(meshtest.UnitCube(), Options{Width: 16, Height: 16, Supersample: 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, FormatPNG))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	buf.Reset()
	require.NoError(t, Encode(&buf, img, FormatWebP))
	assert.Equal(t, "RIFF", buf.String()[:4])

	assert.Error(t, Encode(&buf, img, "gif"))
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatWebP, FormatFromPath("out/render.WEBP"))
	assert.Equal(t, FormatPNG, FormatFromPath("render.png"))
	assert.Equal(t, FormatPNG, FormatFromPath("render"))
}
