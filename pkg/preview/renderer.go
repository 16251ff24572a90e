// Package preview renders meshes into still images with a software
// z-buffer rasterizer: shaded surfaces, feature edges, and the cut edges and
// cross-section caps of a clipped mesh.
package preview

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/philipparndt/gomesh/internal/parallel"
	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/clip"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"golang.org/x/image/draw"
)

// AxisColors are the cut edge colors for X, Y and Z
var AxisColors = [3]color.RGBA{
	{R: 255, G: 80, B: 80, A: 255},
	{R: 80, G: 200, B: 80, A: 255},
	{R: 80, G: 120, B: 255, A: 255},
}

var (
	// DefaultBaseColor is used for triangles without a color
	DefaultBaseColor = color.RGBA{R: 110, G: 132, B: 220, A: 255}
	// DefaultBackground is the image background
	DefaultBackground = color.RGBA{R: 245, G: 245, B: 245, A: 255}

	edgeColor        = color.RGBA{R: 30, G: 30, B: 35, A: 255}
	reducedEdgeColor = color.RGBA{R: 90, G: 90, B: 100, A: 255}
)

// ErrInvalidSize is returned for non-positive image dimensions
var ErrInvalidSize = errors.New("preview: width and height must be positive")

// Key, fill and rim lights, pointing from the light into the scene
var (
	keyLightDir  = geometry.NewVector3(-0.5, -0.3, -0.8).Normalize()
	fillLightDir = geometry.NewVector3(0.3, 0.7, -0.2).Normalize()
	rimLightDir  = geometry.NewVector3(0.0, -0.8, 0.5).Normalize()
)

// Options control a render. Zero values select the defaults.
type Options struct {
	Width, Height int
	// Supersample renders at a multiple of the size and scales down
	Supersample int
	// Azimuth and Elevation in degrees; both zero selects a three-quarter view
	Azimuth, Elevation float64
	Zoom               float64

	Background color.RGBA
	BaseColor  color.RGBA

	// Edges are drawn on top of the surface
	Edges []analysis.StyledEdge
	// CutEdges are drawn in axis colors; with Caps the closed cross-sections are filled
	CutEdges []clip.CutEdge
	Caps     bool

	Workers int
}

func (o Options) withDefaults() Options {
	if o.Supersample <= 0 {
		o.Supersample = 2
	}
	if o.Azimuth == 0 && o.Elevation == 0 {
		o.Azimuth, o.Elevation = 35, 30
	}
	if o.Zoom <= 0 {
		o.Zoom = 1
	}
	if o.Background.A == 0 {
		o.Background = DefaultBackground
	}
	if o.BaseColor.A == 0 {
		o.BaseColor = DefaultBaseColor
	}
	return o
}

// projected is a triangle ready for rasterization
type projected struct {
	v   [3]screenVertex
	col color.RGBA
}

type line struct {
	a, b      screenVertex
	col       color.RGBA
	thickness int
}

// Render draws the mesh and returns an image of opts.Width × opts.Height
func Render(m *mesh.Mesh, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, ErrInvalidSize
	}
	opts = opts.withDefaults()

	scale := opts.Supersample
	width, height := opts.Width*scale, opts.Height*scale
	fw, fh := float64(width), float64(height)

	cam := NewCamera(m.BoundingBox(), opts.Azimuth*math.Pi/180, opts.Elevation*math.Pi/180)
	cam.Zoom(opts.Zoom)
	forward := cam.Forward()

	project := func(p geometry.Vector3) screenVertex {
		x, y, z := cam.Project(p, fw, fh)
		return screenVertex{x, y, z}
	}

	triangles := make([]projected, len(m.Triangles))
	shadeRange := func(r parallel.Range) {
		for i := r.Start; i < r.End; i++ {
			t := m.Triangles[i]
			base := opts.BaseColor
			if t.Color.IsSet() {
				base = t.Color.RGBA()
			}
			triangles[i] = projected{
				v:   [3]screenVertex{project(t.V1), project(t.V2), project(t.V3)},
				col: shade(t.FacetNormal(), forward, base),
			}
		}
	}
	if len(m.Triangles) > parallel.TriangleThreshold {
		parallel.For(len(m.Triangles), opts.Workers, shadeRange)
	} else {
		shadeRange(parallel.Range{Start: 0, End: len(m.Triangles)})
	}

	if opts.Caps {
		for _, c := range clip.Contours(opts.CutEdges) {
			col := mix(AxisColors[c.Axis], opts.Background, 0.45)
			for _, t := range c.Triangulate() {
				triangles = append(triangles, projected{
					v:   [3]screenVertex{project(t.V1), project(t.V2), project(t.V3)},
					col: col,
				})
			}
		}
	}

	var lines []line
	for _, e := range opts.Edges {
		col, thickness := edgeColor, scale
		if e.Emphasis == analysis.EmphasisReduced {
			col, thickness = reducedEdgeColor, max(1, scale/2)
		}
		lines = append(lines, line{project(e.Edge.A), project(e.Edge.B), col, thickness})
	}
	for _, e := range opts.CutEdges {
		lines = append(lines, line{project(e.Edge.A), project(e.Edge.B), AxisColors[e.Axis], scale + 1})
	}

	// lines on the surface must win the depth test against it
	bias := cam.Distance * 1e-3
	f := newFrame(width, height, opts.Background)
	parallel.For(height, opts.Workers, func(r parallel.Range) {
		for _, t := range triangles {
			f.fillTriangle(t.v, t.col, r.Start, r.End)
		}
		for _, l := range lines {
			f.drawLine(l.a, l.b, l.thickness, bias, l.col, r.Start, r.End)
		}
	})

	if scale == 1 {
		return f.img, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), f.img, f.img.Bounds(), draw.Src, nil)
	return dst, nil
}

// shade lights a surface with the key, fill and rim lights. Faces turned
// away from the camera (the inside of a clipped mesh) are lit from behind
// and darkened.
func shade(normal, forward geometry.Vector3, base color.RGBA) color.RGBA {
	back := normal.Dot(forward) > 0
	if back {
		normal = normal.Mul(-1)
	}

	key := math.Max(0, -normal.Dot(keyLightDir))
	fill := math.Max(0, -normal.Dot(fillLightDir)) * 0.4
	rim := math.Max(0, -normal.Dot(rimLightDir)) * 0.3

	intensity := math.Min(1, 0.25+key*0.7+fill+rim)
	if back {
		intensity *= 0.55
	}

	return color.RGBA{
		R: uint8(float64(base.R) * intensity),
		G: uint8(float64(base.G) * intensity),
		B: uint8(float64(base.B) * intensity),
		A: 255,
	}
}

// mix blends a toward b by t
func mix(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x)*(1-t) + float64(y)*t + 0.5)
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}
