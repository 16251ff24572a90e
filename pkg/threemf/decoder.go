package threemf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/samber/lo"
)

// Decoder turns 3MF archives into meshes. The zero value is usable; it has
// no palette and logs through the default logger.
type Decoder struct {
	Palette Palette
	Logger  *log.Logger
	Workers int // <= 0 uses every CPU
}

// Option configures a Decoder
type Option func(*Decoder)

// WithPalette sets the extruder colors
func WithPalette(p Palette) Option {
	return func(d *Decoder) { d.Palette = p }
}

// WithLogger sets the logger for diagnostics
func WithLogger(l *log.Logger) Option {
	return func(d *Decoder) { d.Logger = l }
}

// WithWorkers limits the number of goroutines used for large models
func WithWorkers(n int) Option {
	return func(d *Decoder) { d.Workers = n }
}

// NewDecoder creates a decoder with the default palette
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{Palette: DefaultPalette()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result is the outcome of decoding an archive with its plates
type Result struct {
	Plates        []Plate
	MeshesByPlate map[int]*mesh.Mesh
	Combined      *mesh.Mesh

	archive *Archive
}

// Mesh returns the mesh of the only plate, or the combined mesh if the
// archive has several plates
func (r *Result) Mesh() *mesh.Mesh {
	if len(r.Plates) == 1 {
		return r.MeshesByPlate[r.Plates[0].ID]
	}
	return r.Combined
}

// Thumbnail extracts the preview image of a plate
func (r *Result) Thumbnail(plateID int) ([]byte, error) {
	for _, p := range r.Plates {
		if p.ID != plateID {
			continue
		}
		if p.Thumbnail == "" {
			return nil, fmt.Errorf("plate %d has no thumbnail", plateID)
		}
		return r.archive.Extract(p.Thumbnail)
	}
	return nil, fmt.Errorf("plate %d not found", plateID)
}

// Decode returns the single mesh of the archive
func (d *Decoder) Decode(data []byte, name string) (*mesh.Mesh, error) {
	res, err := d.DecodeWithPlates(data, name)
	if err != nil {
		return nil, err
	}
	return res.Mesh(), nil
}

// DecodeWithPlates decodes the archive and splits the resolved triangles
// into plates. Each plate mesh is centered on its own: XY center at the
// origin, lowest point on Z=0.
func (d *Decoder) DecodeWithPlates(data []byte, name string) (*Result, error) {
	archive, err := OpenArchive(data)
	if err != nil {
		return nil, err
	}

	modelPath, err := locateModel(archive)
	if err != nil {
		return nil, err
	}
	modelData, err := archive.Extract(modelPath)
	if err != nil {
		return nil, err
	}
	root, err := parseModel(modelData, modelPath)
	if err != nil {
		return nil, err
	}

	// external files are parsed only after the root document is complete
	external, err := d.loadExternal(archive, root)
	if err != nil {
		return nil, err
	}

	r := &resolver{root: root, external: external, settings: d.loadSettings(archive)}
	jobs, err := r.emissions()
	if err != nil {
		return nil, err
	}
	triangles, spans := emitTriangles(jobs, d.Palette, d.Workers)

	result := &Result{
		Plates:        r.settings.plates,
		MeshesByPlate: make(map[int]*mesh.Mesh),
		Combined:      mesh.FromTriangles(name, triangles).CenterOnPlate(),
		archive:       archive,
	}

	if len(result.Plates) == 0 {
		ids := lo.Uniq(lo.Map(jobs, func(job emission, _ int) int { return job.root }))
		result.Plates = []Plate{{ID: 1, Name: "Plate 1", ObjectIDs: ids}}
		result.MeshesByPlate[1] = result.Combined
		return result, nil
	}

	plateOf := make(map[int]int)
	for i, p := range result.Plates {
		for _, id := range p.ObjectIDs {
			if _, taken := plateOf[id]; !taken {
				plateOf[id] = i
			}
		}
	}

	perPlate := make([][]geometry.Triangle, len(result.Plates))
	for i, job := range jobs {
		idx, ok := plateOf[job.root]
		if !ok {
			d.logger().Debug("object is not on any plate", "object", job.root)
			continue
		}
		perPlate[idx] = append(perPlate[idx], triangles[spans[i].Start:spans[i].End]...)
	}

	for i, p := range result.Plates {
		result.MeshesByPlate[p.ID] = mesh.FromTriangles(plateMeshName(name, p, len(result.Plates)), perPlate[i]).CenterOnPlate()
		d.logger().Debug("plate resolved", "plate", p.ID, "name", p.Name, "triangles", len(perPlate[i]))
	}
	return result, nil
}

func plateMeshName(name string, p Plate, plates int) string {
	switch {
	case plates == 1:
		return name
	case name == "":
		return p.Name
	default:
		return name + " - " + p.Name
	}
}

func (d *Decoder) logger() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}

func locateModel(a *Archive) (string, error) {
	if a.Has(RootModelPath) {
		return RootModelPath, nil
	}
	if path, ok := a.Find(".model"); ok {
		return path, nil
	}
	return "", referenceError(ErrModelNotFound, "no %s or other .model entry in archive", RootModelPath)
}

// loadExternal parses every referenced external model once. Files missing
// from the archive are reported and recorded as nil.
func (d *Decoder) loadExternal(a *Archive, root *document) (map[string]*document, error) {
	cache := make(map[string]*document)
	pending := append([]string(nil), root.externalRefs...)

	for len(pending) > 0 {
		path := pending[0]
		pending = pending[1:]
		if _, done := cache[path]; done || path == root.path {
			continue
		}

		if !a.Has(path) {
			d.logger().Warn("external model file missing, skipping its components", "path", path)
			cache[path] = nil
			continue
		}
		data, err := a.Extract(path)
		if err != nil {
			return nil, err
		}
		doc, err := parseModel(data, path)
		if err != nil {
			return nil, err
		}
		cache[path] = doc
		pending = append(pending, doc.externalRefs...)
	}
	return cache, nil
}

// loadSettings reads the optional companion metadata. Any problem with it
// is reported and decoding continues without plates or overrides.
func (d *Decoder) loadSettings(a *Archive) *settings {
	path := SettingsPath
	if !a.Has(path) {
		found, ok := a.Find("model_settings.config")
		if !ok {
			return emptySettings()
		}
		path = found
	}

	data, err := a.Extract(path)
	if err != nil {
		d.logger().Warn("cannot read plate metadata", "path", path, "err", err)
		return emptySettings()
	}
	s, err := parseSettings(data)
	if err != nil {
		d.logger().Warn("malformed plate metadata ignored", "path", path, "err", err)
		return emptySettings()
	}
	return s
}

// Decode decodes an archive with the default decoder
func Decode(data []byte, name string) (*mesh.Mesh, error) {
	return NewDecoder().Decode(data, name)
}

// DecodeWithPlates decodes an archive with the default decoder
func DecodeWithPlates(data []byte, name string) (*Result, error) {
	return NewDecoder().DecodeWithPlates(data, name)
}

// Parse reads a .3mf file and returns its mesh named after the file
func Parse(filename string) (*mesh.Mesh, error) {
	res, err := ParseWithPlates(filename, NewDecoder())
	if err != nil {
		return nil, err
	}
	return res.Mesh(), nil
}

// ParseWithPlates reads a .3mf file with the given decoder
func ParseWithPlates(filename string, d *Decoder) (*Result, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", mesh.NewDecodeError(formatName, mesh.ErrIO, err))
	}
	return d.DecodeWithPlates(data, strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
}
