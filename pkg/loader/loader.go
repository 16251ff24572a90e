// Package loader opens mesh files by extension: STL, 3MF, and OpenSCAD
// sources rendered to a temporary STL.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/pkg/openscad"
	"github.com/philipparndt/gomesh/pkg/stl"
	"github.com/philipparndt/gomesh/pkg/threemf"
)

// ErrUnsupported is returned for file extensions no decoder handles
var ErrUnsupported = errors.New("unsupported file type")

// Options configure Load. The zero value uses the default 3MF decoder and logger.
type Options struct {
	Decoder *threemf.Decoder
	Logger  *log.Logger
	// OpenSCAD overrides the openscad executable
	OpenSCAD string
}

// Loaded is a decoded model and where it came from
type Loaded struct {
	Mesh *mesh.Mesh
	// Plates is set for 3MF sources
	Plates *threemf.Result
	Source string
	// TempFile is the rendered STL of an OpenSCAD source
	TempFile string
}

// IsOpenSCAD reports whether the model was rendered from a .scad source
func (l *Loaded) IsOpenSCAD() bool {
	return l.TempFile != ""
}

// Cleanup removes the temporary STL, if any
func (l *Loaded) Cleanup() {
	if l.TempFile != "" {
		os.Remove(l.TempFile)
		l.TempFile = ""
	}
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// Load decodes the file at path. ctx bounds the OpenSCAD render.
func Load(ctx context.Context, path string, opts Options) (*Loaded, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		m, err := stl.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STL file: %w", err)
		}
		return &Loaded{Mesh: m, Source: path}, nil

	case ".3mf":
		d := opts.Decoder
		if d == nil {
			d = threemf.NewDecoder(threemf.WithLogger(opts.logger()))
		}
		res, err := threemf.ParseWithPlates(path, d)
		if err != nil {
			return nil, fmt.Errorf("failed to parse 3MF file: %w", err)
		}
		return &Loaded{Mesh: res.Mesh(), Plates: res, Source: path}, nil

	case ".scad":
		return loadOpenSCAD(ctx, path, opts)

	default:
		return nil, fmt.Errorf("%w: %s (expected .stl, .3mf or .scad)", ErrUnsupported, ext)
	}
}

func loadOpenSCAD(ctx context.Context, path string, opts Options) (*Loaded, error) {
	logger := opts.logger()
	renderer := newRenderer(path, opts)

	tmp, err := os.CreateTemp("", "gomesh-*.stl")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := tmp.Name()
	tmp.Close()

	start := time.Now()
	logger.Info("rendering OpenSCAD file", "path", path)
	if err := renderer.RenderToSTL(ctx, path, tempFile); err != nil {
		os.Remove(tempFile)
		return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
	}
	logger.Debug("rendered", "output", tempFile, "elapsed", time.Since(start))

	m, err := stl.Parse(tempFile)
	if err != nil {
		os.Remove(tempFile)
		return nil, fmt.Errorf("failed to parse rendered STL: %w", err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return &Loaded{Mesh: m, Source: path, TempFile: tempFile}, nil
}

func newRenderer(path string, opts Options) *openscad.Renderer {
	r := openscad.NewRenderer(filepath.Dir(path))
	r.Logger = opts.logger()
	if opts.OpenSCAD != "" {
		r.Binary = opts.OpenSCAD
	}
	return r
}

// WatchList returns the files whose change invalidates the model at path:
// the file itself plus, for OpenSCAD sources, everything it uses or includes
func WatchList(path string, opts Options) ([]string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".scad" {
		return []string{path}, nil
	}
	deps, err := newRenderer(path, opts).ResolveDependencies(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies: %w", err)
	}
	return deps, nil
}
