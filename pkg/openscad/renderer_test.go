package openscad

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolveDependencies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.scad"), `
use <lib/shapes.scad>
include <./params.scad>
// use <commented.scad>
use <MCAD/boxes.scad>
cube(10);
`)
	writeFile(t, filepath.Join(dir, "lib", "shapes.scad"), "include <../params.scad>\n")
	writeFile(t, filepath.Join(dir, "params.scad"), "size = 10;\nuse <lib/shapes.scad>\n")

	deps, err := NewRenderer(dir).ResolveDependencies("main.scad")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "main.scad"),
		filepath.Join(dir, "lib", "shapes.scad"),
		filepath.Join(dir, "params.scad"),
	}, deps)
}

func TestResolveDependenciesMissingSource(t *testing.T) {
	_, err := NewRenderer(t.TempDir()).ResolveDependencies("missing.scad")
	assert.Error(t, err)
}

func TestRenderWithoutBinary(t *testing.T) {
	r := NewRenderer(t.TempDir())
	r.Binary = "openscad-binary-that-does-not-exist"

	err := r.RenderToSTL(context.Background(), "main.scad", "out.stl")
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestRenderError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &RenderError{Source: "main.scad", Err: cause, Stderr: "ERROR: syntax error\n"}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to render main.scad: exit status 1\nstderr: ERROR: syntax error", err.Error())
}
