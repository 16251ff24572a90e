package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/philipparndt/gomesh/pkg/geometry"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func printTitle(title string) {
	fmt.Println(titleStyle.Render(title))
	fmt.Println(strings.Repeat("=", lipgloss.Width(title)))
}

func printSection(name string) {
	fmt.Println(sectionStyle.Render(name + ":"))
}

func printWarning(msg string) {
	fmt.Println(warnStyle.Render("Warning: " + msg))
}

// parseVector reads "x,y,z"
func parseVector(s string) (geometry.Vector3, error) {
	var v geometry.Vector3
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("invalid point %q: expected x,y,z", s)
	}
	if _, err := fmt.Sscanf(strings.Join(parts, " "), "%g %g %g", &v.X, &v.Y, &v.Z); err != nil {
		return v, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return v, nil
}
