package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/gomesh/internal/parallel"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
)

const (
	headerSize     = 80
	countSize      = 4
	minBinarySize  = headerSize + countSize
	triangleSize   = 50
	asciiKeyword   = "solid"
	asciiSampleLen = 100
	asciiMinRatio  = 0.9
)

// Parse reads an STL file and returns a Mesh named after the file.
// It automatically detects whether the file is ASCII or binary format.
func Parse(filename string) (*mesh.Mesh, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", mesh.NewDecodeError("stl", mesh.ErrIO, err))
	}
	return Decode(data, strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
}

// Decode parses STL data held in memory. name becomes the mesh name; when it
// is empty an ASCII file may supply one through its "solid" line.
func Decode(data []byte, name string) (*mesh.Mesh, error) {
	if IsASCII(data) {
		return decodeASCII(data, name)
	}
	return decodeBinary(data, name, 0)
}

// IsASCII reports whether data looks like the text variant: it starts with
// "solid" (any case) and at least asciiMinRatio of the sampled bytes that
// follow are printable ASCII, tabs or line breaks
func IsASCII(data []byte) bool {
	if len(data) < len(asciiKeyword) || !strings.EqualFold(string(data[:len(asciiKeyword)]), asciiKeyword) {
		return false
	}

	sample := data[len(asciiKeyword):]
	if len(sample) > asciiSampleLen {
		sample = sample[:asciiSampleLen]
	}
	if len(sample) == 0 {
		return true
	}

	printable := 0
	for _, c := range sample {
		if (c >= 0x20 && c < 0x7f) || c == '\n' || c == '\r' || c == '\t' {
			printable++
		}
	}
	return float64(printable)/float64(len(sample)) >= asciiMinRatio
}

// decodeASCII parses an ASCII STL document
func decodeASCII(data []byte, name string) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	model := mesh.New(name)

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if model.Name == "" && len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) < 2 || !strings.EqualFold(fields[1], "normal") {
				continue
			}
			normal, err := parseTriple(fields[2:])
			if err != nil {
				return nil, invalidFormat("line %d: facet normal: %v", lineNo, err)
			}
			currentNormal = normal

		case "vertex":
			vertex, err := parseTriple(fields[1:])
			if err != nil {
				return nil, invalidFormat("line %d: vertex: %v", lineNo, err)
			}
			vertices = append(vertices, vertex)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, invalidFormat("line %d: facet has %d vertices, expected 3", lineNo, len(vertices))
			}
			model.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			currentNormal = geometry.Vector3{}
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", mesh.NewDecodeError("stl", mesh.ErrIO, err))
	}

	return model, nil
}

func parseTriple(fields []string) (geometry.Vector3, error) {
	if len(fields) < 3 {
		return geometry.Vector3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var v [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid number %q", fields[i])
		}
		v[i] = f
	}
	return geometry.NewVector3(v[0], v[1], v[2]), nil
}

// decodeBinary parses a binary STL buffer. Large files are decoded by several
// workers, each filling its own range of the pre-sized triangle slice.
func decodeBinary(data []byte, name string, workers int) (*mesh.Mesh, error) {
	if len(data) < minBinarySize {
		return nil, mesh.NewDecodeError("stl", mesh.ErrStructural,
			fmt.Errorf("%w: %d bytes, need at least %d", ErrTooSmall, len(data), minBinarySize))
	}

	triangleCount := int(binary.LittleEndian.Uint32(data[headerSize:minBinarySize]))
	required := minBinarySize + triangleSize*triangleCount
	if len(data) < required {
		return nil, mesh.NewDecodeError("stl", mesh.ErrFormat,
			fmt.Errorf("%w: header declares %d triangles (%d bytes), file has %d bytes",
				ErrInconsistentSize, triangleCount, required, len(data)))
	}

	triangles := make([]geometry.Triangle, triangleCount)
	body := data[minBinarySize:required]

	if triangleCount >= parallel.DecodeTriangleThreshold || len(data) >= parallel.DecodeByteThreshold {
		parallel.For(triangleCount, workers, func(r parallel.Range) {
			for i := r.Start; i < r.End; i++ {
				triangles[i] = readTriangle(body[i*triangleSize : (i+1)*triangleSize])
			}
		})
	} else {
		for i := range triangles {
			triangles[i] = readTriangle(body[i*triangleSize : (i+1)*triangleSize])
		}
	}

	return mesh.FromTriangles(name, triangles), nil
}

// readTriangle decodes one 50-byte record: normal, v1, v2, v3, attribute bytes
func readTriangle(rec []byte) geometry.Triangle {
	return geometry.NewTriangle(
		readVector(rec[0:12]),
		readVector(rec[12:24]),
		readVector(rec[24:36]),
		readVector(rec[36:48]),
	)
}

func readVector(b []byte) geometry.Vector3 {
	return geometry.NewVector3(
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:4]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:8]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:12]))),
	)
}
