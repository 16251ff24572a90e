package threemf

import (
	"fmt"

	"github.com/philipparndt/gomesh/pkg/geometry"
)

// Palette maps 1-based extruder ids to display colors
type Palette []geometry.Color

// DefaultPalette returns the filament colors used when no palette is configured
func DefaultPalette() Palette {
	return Palette{
		{R: 0x00, G: 0xAE, B: 0x42, A: 0xFF}, // green
		{R: 0xF2, G: 0xF2, B: 0xF2, A: 0xFF}, // white
		{R: 0x26, G: 0x26, B: 0x26, A: 0xFF}, // black
		{R: 0xC1, G: 0x2E, B: 0x1F, A: 0xFF}, // red
		{R: 0x0A, G: 0x5C, B: 0xC4, A: 0xFF}, // blue
		{R: 0xF4, G: 0xC0, B: 0x1E, A: 0xFF}, // yellow
		{R: 0xF2, G: 0x75, B: 0x1B, A: 0xFF}, // orange
		{R: 0x8E, G: 0x8E, B: 0x93, A: 0xFF}, // gray
	}
}

// Lookup returns the color of the given extruder id. Ids outside the
// palette, including the "unset" id 0, yield no color.
func (p Palette) Lookup(id int) (geometry.Color, bool) {
	if id <= 0 || id > len(p) {
		return geometry.Color{}, false
	}
	return p[id-1], true
}

// ParsePalette builds a palette from hex color strings such as "#FF8800"
func ParsePalette(colors []string) (Palette, error) {
	p := make(Palette, 0, len(colors))
	for i, s := range colors {
		c, err := geometry.ParseHexColor(s)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i+1, err)
		}
		p = append(p, c)
	}
	return p, nil
}
