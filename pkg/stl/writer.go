package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

// EncodeASCII writes the mesh as an ASCII STL document. Coordinates are
// written with the shortest representation that parses back exactly.
func EncodeASCII(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "solid %s\n", m.Name)
	for _, t := range m.Triangles {
		fmt.Fprintf(bw, "  facet normal %s\n", formatTriple(t.Normal))
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range t.Vertices() {
			fmt.Fprintf(bw, "      vertex %s\n", formatTriple(v))
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", m.Name)

	return bw.Flush()
}

// EncodeBinary writes the mesh in the 50-bytes-per-triangle binary layout.
// The mesh name is stored in the otherwise unused header.
func EncodeBinary(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	header := make([]byte, headerSize)
	copy(header, m.Name)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	var count [countSize]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(m.Triangles)))
	if _, err := bw.Write(count[:]); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	rec := make([]byte, triangleSize)
	for i, t := range m.Triangles {
		putVector(rec[0:12], t.Normal)
		putVector(rec[12:24], t.V1)
		putVector(rec[24:36], t.V2)
		putVector(rec[36:48], t.V3)
		rec[48], rec[49] = 0, 0
		if _, err := bw.Write(rec); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	return bw.Flush()
}

func formatTriple(v geometry.Vector3) string {
	return strconv.FormatFloat(v.X, 'g', -1, 64) + " " +
		strconv.FormatFloat(v.Y, 'g', -1, 64) + " " +
		strconv.FormatFloat(v.Z, 'g', -1, 64)
}

func putVector(b []byte, v geometry.Vector3) {
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(float32(v.Z)))
}
