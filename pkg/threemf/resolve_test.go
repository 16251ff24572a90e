package threemf

import (
	"testing"

	"github.com/philipparndt/gomesh/internal/meshtest"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProperty(t *testing.T) {
	tests := []struct {
		name                                        string
		partOverride, parentDefault, own, inherited int
		want                                        int
	}{
		{"nothing declared", 0, 0, 0, 0, 0},
		{"inherited only", 0, 0, 0, 4, 4},
		{"own beats inherited", 0, 0, 2, 4, 2},
		{"parent default beats own", 0, 3, 2, 4, 3},
		{"part override beats all", 1, 3, 2, 4, 1},
		{"part override alone", 5, 0, 0, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveProperty(tt.partOverride, tt.parentDefault, tt.own, tt.inherited))
		})
	}
}

func TestEmitTrianglesParallelMatchesSerial(t *testing.T) {
	var triangles []geometry.Triangle
	for i := 0; i < 50; i++ {
		triangles = append(triangles, meshtest.UnitCube().Triangles...)
	}
	obj := &object{id: 1, triangles: triangles}

	var jobs []emission
	for i := 0; i < 4; i++ {
		jobs = append(jobs, emission{
			obj:       obj,
			transform: geometry.Translation(geometry.NewVector3(float64(i)*3, 0, 0)),
			property:  i%2 + 1,
		})
	}

	serial, spans := emitTriangles(jobs, testPalette, 1)
	parallelOut, _ := emitTriangles(jobs, testPalette, 7)

	require.Len(t, serial, 4*600)
	assert.Equal(t, serial, parallelOut)
	for i, span := range spans {
		assert.Equal(t, i*600, span.Start)
		first := serial[span.Start]
		assert.InDelta(t, float64(i)*3, first.V1.X, 1e-12)
		assert.Equal(t, testPalette[i%2], first.Color)
	}
}

func TestParseSettings(t *testing.T) {
	s, err := parseSettings([]byte(`<config>
  <object id="8">
    <metadata key="name" value="Bracket"/>
    <metadata key="extruder" value="2"/>
    <part id="3"><metadata key="extruder" value="4"/></part>
    <part id="5"><metadata key="name" value="Insert"/></part>
  </object>
  <plate>
    <metadata key="plater_name" value="Main"/>
    <model_instance><metadata key="object_id" value="8"/></model_instance>
    <model_instance><metadata key="object_id" value="8"/></model_instance>
  </plate>
</config>`))
	require.NoError(t, err)

	assert.Equal(t, 2, s.parentDefault(8))
	assert.Equal(t, 4, s.partOverride(8, 3))
	assert.Equal(t, 0, s.partOverride(8, 5))
	assert.Equal(t, 0, s.parentDefault(3))
	assert.Equal(t, []Plate{{ID: 1, Name: "Main", ObjectIDs: []int{8}}}, s.plates)
}

func TestParseSettingsRejectsBadNumbers(t *testing.T) {
	_, err := parseSettings([]byte(`<config><object id="1"><metadata key="extruder" value="two"/></object></config>`))
	assert.Error(t, err)
}

func TestPaletteLookup(t *testing.T) {
	p, err := ParsePalette([]string{"#FF0000", "00FF00"})
	require.NoError(t, err)

	c, ok := p.Lookup(2)
	assert.True(t, ok)
	assert.Equal(t, geometry.Color{G: 255, A: 255}, c)

	for _, id := range []int{-1, 0, 3} {
		_, ok := p.Lookup(id)
		assert.False(t, ok, "id %d", id)
	}

	_, err = ParsePalette([]string{"#GG0000"})
	assert.Error(t, err)
}
