// Package meshtest builds small canonical meshes and container archives for
// the test suites of the decoder, analysis and clipping packages.
package meshtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

// CubeCorners indexes the eight corners of an axis-aligned cube as x + 2y + 4z
var CubeCorners = [8][3]float64{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
}

// CubeFaces lists the 12 outward wound triangles of a cube as corner indices
var CubeFaces = [12][3]int{
	{0, 2, 3}, {0, 3, 1}, // bottom
	{4, 5, 7}, {4, 7, 6}, // top
	{0, 1, 5}, {0, 5, 4}, // front
	{2, 6, 7}, {2, 7, 3}, // back
	{0, 4, 6}, {0, 6, 2}, // left
	{1, 3, 7}, {1, 7, 5}, // right
}

// Cube returns a closed, outward wound cube with its minimum corner at origin
func Cube(origin geometry.Vector3, size float64) *mesh.Mesh {
	corner := func(i int) geometry.Vector3 {
		c := CubeCorners[i]
		return origin.Add(geometry.NewVector3(c[0], c[1], c[2]).Mul(size))
	}

	m := mesh.New("cube")
	for _, face := range CubeFaces {
		tri := geometry.NewTriangle(geometry.Vector3{}, corner(face[0]), corner(face[1]), corner(face[2]))
		tri.Normal = tri.CalculateNormal()
		m.AddTriangle(tri)
	}
	return m
}

// UnitCube returns the 1×1×1 cube at the origin
func UnitCube() *mesh.Mesh {
	return Cube(geometry.Vector3{}, 1)
}

// Triangle builds an un-normaled triangle from nine coordinates
func Triangle(x1, y1, z1, x2, y2, z2, x3, y3, z3 float64) geometry.Triangle {
	return geometry.NewTriangle(
		geometry.Vector3{},
		geometry.NewVector3(x1, y1, z1),
		geometry.NewVector3(x2, y2, z2),
		geometry.NewVector3(x3, y3, z3),
	)
}

// CubeObjectXML renders a 3MF <object> element holding a cube mesh.
// attrs is appended verbatim to the object element (e.g. `pid="2"`).
func CubeObjectXML(id int, size float64, attrs string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<object id="%d" type="model" %s><mesh><vertices>`, id, attrs)
	for _, c := range CubeCorners {
		fmt.Fprintf(&b, `<vertex x="%g" y="%g" z="%g"/>`, c[0]*size, c[1]*size, c[2]*size)
	}
	b.WriteString(`</vertices><triangles>`)
	for _, f := range CubeFaces {
		fmt.Fprintf(&b, `<triangle v1="%d" v2="%d" v3="%d"/>`, f[0], f[1], f[2])
	}
	b.WriteString(`</triangles></mesh></object>`)
	return b.String()
}

// ModelXML wraps resources and build items into a namespaced 3MF model document
func ModelXML(resources, build string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<model unit="millimeter" xml:lang="en-US" xmlns="http://schemas.microsoft.com/3dmanufacturing/core/2015/02" xmlns:p="http://schemas.microsoft.com/3dmanufacturing/production/2015/06">
<resources>` + resources + `</resources>
<build>` + build + `</build>
</model>`
}

// Archive writes the given files into a ZIP archive. Entries are written in
// name order; deflate selects method 8 instead of stored entries.
func Archive(files map[string]string, deflate bool) []byte {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	method := zip.Store
	if deflate {
		method = zip.Deflate
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		if err != nil {
			panic(err)
		}
		if _, err := f.Write([]byte(files[name])); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
