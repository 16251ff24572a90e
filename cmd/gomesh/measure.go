package main

import (
	"errors"
	"fmt"

	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/spf13/cobra"
)

var (
	measurePoints []string
	measureAxis   string
	measureSnap   bool
)

var measureCmd = &cobra.Command{
	Use:   "measure [file] --point x,y,z --point x,y,z [--point ...]",
	Short: "Measure distances and radii between points",
	Long: `With two points, measure the straight-line distance between them and between
the nearest vertices of the model. With three or more points, fit a circle
through them in the plane perpendicular to --axis and report its radius.`,
	Args: cobra.ExactArgs(1),
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().StringArrayVarP(&measurePoints, "point", "p", nil, "Point as x,y,z (repeat)")
	measureCmd.Flags().StringVar(&measureAxis, "axis", "z", "Plane normal for circle fits (x, y or z)")
	measureCmd.Flags().BoolVar(&measureSnap, "snap", false, "Snap points to the nearest vertex before measuring")
	_ = measureCmd.MarkFlagRequired("point")
}

func parseAxis(s string) (int, error) {
	switch s {
	case "x", "X":
		return geometry.AxisX, nil
	case "y", "Y":
		return geometry.AxisY, nil
	case "z", "Z":
		return geometry.AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q: expected x, y or z", s)
}

func runMeasure(cmd *cobra.Command, args []string) error {
	if len(measurePoints) < 2 {
		return errors.New("at least two --point values are required")
	}
	points := make([]geometry.Vector3, 0, len(measurePoints))
	for _, s := range measurePoints {
		p, err := parseVector(s)
		if err != nil {
			return err
		}
		points = append(points, p)
	}

	loaded, err := openModel(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer loaded.Cleanup()

	printTitle("Measurement")

	nearest := make([]geometry.Vector3, len(points))
	for i, p := range points {
		v, dist := analysis.FindNearestVertex(loaded.Mesh, p)
		nearest[i] = v
		fmt.Printf("\nPoint %d: %s\n", i+1, analysis.FormatVector(p))
		if dist > 0 {
			fmt.Printf("  Nearest vertex: %s (distance: %.6f mm)\n", analysis.FormatVector(v), dist)
		}
	}
	if measureSnap {
		points = nearest
	}
	fmt.Println()

	if len(points) == 2 {
		fmt.Printf("Direct distance: %.6f mm\n", points[0].Distance(points[1]))
		if !measureSnap {
			fmt.Printf("Distance between nearest vertices: %.6f mm\n", nearest[0].Distance(nearest[1]))
		}
		delta := points[1].Sub(points[0])
		fmt.Printf("Delta: %s\n", analysis.FormatVector(delta))
		return nil
	}

	axis, err := parseAxis(measureAxis)
	if err != nil {
		return err
	}
	fit, err := geometry.FitCircle(points, axis)
	if err != nil {
		return fmt.Errorf("circle fit: %w", err)
	}
	printSection("Circle")
	fmt.Printf("  Center: %s\n", analysis.FormatVector(fit.Center))
	fmt.Printf("  Radius: %.6f mm\n", fit.Radius)
	fmt.Printf("  Diameter: %.6f mm\n", 2*fit.Radius)
	fmt.Printf("  Deviation: %.6f mm\n", fit.StdDev)
	return nil
}
