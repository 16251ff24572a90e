package threemf

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/samber/lo"
	"golang.org/x/text/encoding/htmlindex"
)

// modelParser walks the token stream of a model document, keeping the chain
// of open element names so vertices and triangles land in the current object.
type modelParser struct {
	doc   *document
	stack []string

	current  *object
	vertices []geometry.Vector3

	colors      map[int][]geometry.Color
	colorGroup  int
	objectPID   int
	objectIndex int
}

// parseModel parses one model document. path is the document's archive path
// and is used to recognise components pointing back into the same file.
func parseModel(data []byte, path string) (*document, error) {
	p := &modelParser{
		doc: &document{
			path:    cleanPath(path),
			objects: make(map[int]*object),
		},
		colors: make(map[int][]geometry.Color),
	}

	dec := newXMLDecoder(data)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, xmlParseFailed(path, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.start(t); err != nil {
				return nil, xmlParseFailed(path, err)
			}
			p.stack = append(p.stack, t.Name.Local)
		case xml.EndElement:
			if len(p.stack) > 0 {
				p.stack = p.stack[:len(p.stack)-1]
			}
			p.end(t)
		}
	}

	p.doc.externalRefs = lo.Uniq(p.doc.externalRefs)
	return p.doc, nil
}

func newXMLDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
		}
		return enc.NewDecoder().Reader(input), nil
	}
	return dec
}

func (p *modelParser) parent() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

func (p *modelParser) start(se xml.StartElement) error {
	switch se.Name.Local {
	case "object":
		if p.parent() != "resources" {
			return nil
		}
		id, err := requiredInt(se, "id")
		if err != nil {
			return err
		}
		pid, err := optionalInt(se, "pid")
		if err != nil {
			return err
		}
		pindex, err := optionalInt(se, "pindex")
		if err != nil {
			return err
		}
		p.current = &object{id: id, pid: pid}
		p.vertices = p.vertices[:0]
		p.objectPID, p.objectIndex = pid, pindex

	case "vertex":
		if p.current == nil || p.parent() != "vertices" {
			return nil
		}
		x, err := requiredFloat(se, "x")
		if err != nil {
			return err
		}
		y, err := requiredFloat(se, "y")
		if err != nil {
			return err
		}
		z, err := requiredFloat(se, "z")
		if err != nil {
			return err
		}
		p.vertices = append(p.vertices, geometry.NewVector3(x, y, z))

	case "triangle":
		if p.current == nil || p.parent() != "triangles" {
			return nil
		}
		return p.triangle(se)

	case "component":
		if p.current == nil || p.parent() != "components" {
			return nil
		}
		id, err := requiredInt(se, "objectid")
		if err != nil {
			return err
		}
		transform, err := parseTransform(se)
		if err != nil {
			return err
		}
		c := component{objectID: id, transform: transform}
		if path, ok := attr(se, "path"); ok && cleanPath(path) != p.doc.path {
			c.path = cleanPath(path)
			p.doc.externalRefs = append(p.doc.externalRefs, c.path)
		}
		p.current.components = append(p.current.components, c)

	case "item":
		if p.parent() != "build" {
			return nil
		}
		id, err := requiredInt(se, "objectid")
		if err != nil {
			return err
		}
		transform, err := parseTransform(se)
		if err != nil {
			return err
		}
		p.doc.build = append(p.doc.build, buildItem{objectID: id, transform: transform})

	case "basematerials", "colorgroup":
		if p.parent() != "resources" {
			return nil
		}
		id, err := requiredInt(se, "id")
		if err != nil {
			return err
		}
		p.colorGroup = id
		p.colors[id] = nil

	case "base", "color":
		if p.colorGroup == 0 {
			return nil
		}
		key := "displaycolor"
		if se.Name.Local == "color" {
			key = "color"
		}
		value, _ := attr(se, key)
		c, err := geometry.ParseHexColor(value)
		if err != nil {
			// keep indices aligned; an unparsable entry means no color
			c = geometry.Color{}
		}
		p.colors[p.colorGroup] = append(p.colors[p.colorGroup], c)
	}
	return nil
}

func (p *modelParser) end(ee xml.EndElement) {
	switch ee.Name.Local {
	case "object":
		if p.current == nil {
			return
		}
		p.doc.objects[p.current.id] = p.current
		p.doc.order = append(p.doc.order, p.current.id)
		p.current = nil
	case "basematerials", "colorgroup":
		p.colorGroup = 0
	}
}

// triangle resolves vertex indices against the current object's vertex list.
// Triangles with out-of-range indices are dropped.
func (p *modelParser) triangle(se xml.StartElement) error {
	var idx [3]int
	for i, key := range []string{"v1", "v2", "v3"} {
		v, err := requiredInt(se, key)
		if err != nil {
			return err
		}
		if v < 0 || v >= len(p.vertices) {
			return nil
		}
		idx[i] = v
	}

	tri := geometry.NewTriangle(geometry.Vector3{}, p.vertices[idx[0]], p.vertices[idx[1]], p.vertices[idx[2]])

	pid, err := optionalInt(se, "pid")
	if err != nil {
		return err
	}
	index := p.objectIndex
	if pid == 0 {
		pid = p.objectPID
	} else {
		index = 0
	}
	if p1, ok := attr(se, "p1"); ok {
		if index, err = strconv.Atoi(strings.TrimSpace(p1)); err != nil {
			return fmt.Errorf("attribute p1: %w", err)
		}
	}
	if group, ok := p.colors[pid]; ok && index >= 0 && index < len(group) {
		tri = tri.WithColor(group[index])
	}

	p.current.triangles = append(p.current.triangles, tri)
	return nil
}

func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func requiredInt(se xml.StartElement, name string) (int, error) {
	value, ok := attr(se, name)
	if !ok {
		return 0, fmt.Errorf("<%s> missing attribute %s", se.Name.Local, name)
	}
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("<%s> attribute %s: %w", se.Name.Local, name, err)
	}
	return v, nil
}

func optionalInt(se xml.StartElement, name string) (int, error) {
	if _, ok := attr(se, name); !ok {
		return 0, nil
	}
	return requiredInt(se, name)
}

func requiredFloat(se xml.StartElement, name string) (float64, error) {
	value, ok := attr(se, name)
	if !ok {
		return 0, fmt.Errorf("<%s> missing attribute %s", se.Name.Local, name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("<%s> attribute %s: %w", se.Name.Local, name, err)
	}
	return v, nil
}

// parseTransform reads the optional 12-number transform attribute
func parseTransform(se xml.StartElement) (geometry.Matrix, error) {
	value, ok := attr(se, "transform")
	if !ok || strings.TrimSpace(value) == "" {
		return geometry.Identity(), nil
	}

	fields := strings.Fields(value)
	if len(fields) != 12 {
		return geometry.Matrix{}, fmt.Errorf("<%s> transform has %d values, expected 12", se.Name.Local, len(fields))
	}
	var v [12]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Matrix{}, fmt.Errorf("<%s> transform: %w", se.Name.Local, err)
		}
		v[i] = n
	}
	return geometry.MatrixFrom3MF(v), nil
}
