package geometry

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an optional display color attached to a triangle.
// The zero value (alpha 0) means no color was assigned.
type Color struct {
	R, G, B, A uint8
}

// IsSet reports whether a color was assigned
func (c Color) IsSet() bool {
	return c.A != 0
}

// RGBA converts to the standard library color type
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Hex formats the color as #RRGGBB, or #RRGGBBAA when not opaque
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ParseHexColor parses #RRGGBB or #RRGGBBAA (the leading # is optional)
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: expected 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
