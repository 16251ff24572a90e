package main

import (
	"testing"

	"github.com/philipparndt/gomesh/internal/meshtest"
	"github.com/philipparndt/gomesh/pkg/clip"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/pkg/threemf"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVector(t *testing.T) {
	v, err := parseVector("1, -2.5,3e1")
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3(1, -2.5, 30), v)

	for _, s := range []string{"", "1,2", "1,2,3,4", "a,b,c"} {
		_, err := parseVector(s)
		assert.Error(t, err, s)
	}
}

func TestParseAxis(t *testing.T) {
	for s, want := range map[string]int{"x": geometry.AxisX, "Y": geometry.AxisY, "z": geometry.AxisZ} {
		axis, err := parseAxis(s)
		require.NoError(t, err)
		assert.Equal(t, want, axis)
	}
	_, err := parseAxis("w")
	assert.Error(t, err)
}

func TestRegionFlagsDefaultToBounds(t *testing.T) {
	var flags regionFlags
	cmd := &cobra.Command{}
	flags.register(cmd)

	bounds := meshtest.Cube(geometry.Vector3{}, 2).BoundingBox()
	assert.False(t, flags.active(cmd))

	require.NoError(t, cmd.Flags().Set("zmax", "1"))
	require.NoError(t, cmd.Flags().Set("xmin", "0.5"))
	assert.True(t, flags.active(cmd))

	region, err := flags.region(cmd, bounds)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3(0.5, 0, 0), region.Min)
	assert.Equal(t, geometry.NewVector3(2, 2, 1), region.Max)
}

func TestRegionFlagsRejectInverted(t *testing.T) {
	var flags regionFlags
	cmd := &cobra.Command{}
	flags.register(cmd)
	require.NoError(t, cmd.Flags().Set("ymin", "5"))

	_, err := flags.region(cmd, meshtest.Cube(geometry.Vector3{}, 2).BoundingBox())
	assert.Error(t, err)
}

func TestRegionFlagsFlatModel(t *testing.T) {
	var flags regionFlags
	cmd := &cobra.Command{}
	flags.register(cmd)
	require.NoError(t, cmd.Flags().Set("xmax", "0.5"))

	plate := mesh.FromTriangles("plate", []geometry.Triangle{meshtest.Triangle(0, 0, 0, 1, 0, 0, 0, 1, 0)})
	region, err := flags.region(cmd, plate.BoundingBox())
	require.NoError(t, err)
	assert.Equal(t, geometry.NewVector3(0, 0, -1), region.Min)
	assert.Equal(t, geometry.NewVector3(0.5, 1, 1), region.Max)

	result := clip.Clip(plate.Triangles, region)
	assert.InDelta(t, 0.375, mesh.FromTriangles("", result.Triangles).SurfaceArea(), 1e-9)
}

func TestCapFacing(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 2)

	upper := clip.Region{Min: geometry.NewVector3(-1, -1, -1), Max: geometry.NewVector3(3, 3, 1)}
	contours := clip.Contours(clip.Clip(cube.Triangles, upper).CutEdges)
	require.Len(t, contours, 1)
	for _, tri := range capFacing(contours[0], upper) {
		assert.Greater(t, tri.CalculateNormal().Z, 0.0)
	}

	lower := clip.Region{Min: geometry.NewVector3(-1, -1, 1), Max: geometry.NewVector3(3, 3, 3)}
	contours = clip.Contours(clip.Clip(cube.Triangles, lower).CutEdges)
	require.Len(t, contours, 1)
	for _, tri := range capFacing(contours[0], lower) {
		assert.Less(t, tri.CalculateNormal().Z, 0.0)
		assert.Less(t, tri.Normal.Z, 0.0)
	}
}

func TestCappedHalfCubeIsClosed(t *testing.T) {
	cube := meshtest.Cube(geometry.Vector3{}, 2)
	region := clip.Region{Min: geometry.NewVector3(-1, -1, -1), Max: geometry.NewVector3(3, 3, 1)}

	result := clip.Clip(cube.Triangles, region)
	triangles := result.Triangles
	for _, c := range clip.Contours(result.CutEdges) {
		triangles = append(triangles, capFacing(c, region)...)
	}
	capped := mesh.FromTriangles("half", triangles)
	assert.InDelta(t, 4, capped.Volume(), 1e-9)
}

func TestSelectPlate(t *testing.T) {
	combined := mesh.New("all")
	first := mesh.New("first")
	plates := &threemf.Result{MeshesByPlate: map[int]*mesh.Mesh{1: first}}

	m, err := selectPlate(combined, plates, 0)
	require.NoError(t, err)
	assert.Same(t, combined, m)

	m, err = selectPlate(combined, plates, 1)
	require.NoError(t, err)
	assert.Same(t, first, m)

	_, err = selectPlate(combined, plates, 2)
	assert.Error(t, err)
	_, err = selectPlate(combined, nil, 1)
	assert.Error(t, err)
}
