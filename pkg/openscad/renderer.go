// Package openscad renders .scad sources to STL with the openscad binary and
// resolves the files a source depends on.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultBinary is the executable looked up in PATH
const DefaultBinary = "openscad"

// ErrNotInstalled is returned when the openscad executable cannot be found
var ErrNotInstalled = errors.New("openscad not found in PATH, install it from https://openscad.org/")

// RenderError carries the output of a failed openscad run
type RenderError struct {
	Source string
	Err    error
	Stderr string
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("failed to render %s: %v", e.Source, e.Err)
	if e.Stderr != "" {
		msg += "\nstderr: " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Renderer runs openscad relative to a working directory
type Renderer struct {
	workDir string
	Binary  string
	Logger  *log.Logger
}

// NewRenderer creates a renderer resolving relative paths against workDir
func NewRenderer(workDir string) *Renderer {
	return &Renderer{
		workDir: workDir,
		Binary:  DefaultBinary,
	}
}

func (r *Renderer) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

func (r *Renderer) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.workDir, path)
}

// RenderToSTL renders scadFile into outputFile. The run is killed when ctx
// is cancelled.
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	binary, err := exec.LookPath(r.Binary)
	if err != nil {
		return ErrNotInstalled
	}

	source := r.abs(scadFile)
	cmd := exec.CommandContext(ctx, binary, "-o", outputFile, source)
	cmd.Dir = r.workDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.logger().Debug("rendering", "source", source, "output", outputFile)
	if err := cmd.Run(); err != nil {
		return &RenderError{Source: scadFile, Err: err, Stderr: stderr.String()}
	}
	return nil
}

// dependencyPattern matches `use <file>` and `include <file>` statements
var dependencyPattern = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// ResolveDependencies returns scadFile and every file it transitively uses
// or includes, as absolute paths in discovery order. Dependencies that do
// not exist on disk (library modules) are skipped.
func (r *Renderer) ResolveDependencies(scadFile string) ([]string, error) {
	visited := make(map[string]bool)
	var deps []string

	var visit func(path string, root bool) error
	visit = func(path string, root bool) error {
		if visited[path] {
			return nil
		}
		visited[path] = true

		if _, err := os.Stat(path); err != nil && !root {
			r.logger().Debug("skipping unresolved dependency", "path", path)
			return nil
		}
		deps = append(deps, path)

		children, err := r.parseDependencies(path)
		if err != nil {
			return err
		}
		for _, child := range children {
			if err := visit(child, false); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(r.abs(scadFile), true); err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	var deps []string
	dir := filepath.Dir(scadFile)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := dependencyPattern.FindStringSubmatch(line); m != nil {
			deps = append(deps, r.resolveDepPath(m[1], dir))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}
	return deps, nil
}

// resolveDepPath looks next to the including file first, then in the work
// directory. Explicitly relative paths only resolve next to the file.
func (r *Renderer) resolveDepPath(dep, currentDir string) string {
	local := filepath.Clean(filepath.Join(currentDir, dep))
	if strings.HasPrefix(dep, "./") || strings.HasPrefix(dep, "../") {
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Clean(filepath.Join(r.workDir, dep))
}
