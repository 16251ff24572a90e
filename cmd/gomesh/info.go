package main

import (
	"fmt"

	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/spf13/cobra"
)

var (
	infoDensity float64
	infoInfill  float64
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about a model",
	Long:  "Show dimensions, triangle count, surface area, volume, weight estimate and edge statistics.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().Float64Var(&infoDensity, "density", 0, "Material density in g/cm³ (default from config, PLA 1.24)")
	infoCmd.Flags().Float64Var(&infoInfill, "infill", 0, "Infill fraction 0..1 for the partial weight (default from config, 0.15)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	loaded, err := openModel(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer loaded.Cleanup()

	opts := cfg.AnalysisOptions()
	if infoDensity > 0 {
		opts.Density = infoDensity
	}
	if infoInfill > 0 {
		opts.InfillFraction = infoInfill
	}

	printInfo(loaded.Source, loaded.Mesh, opts)
	if loaded.Plates != nil && len(loaded.Plates.Plates) > 1 {
		fmt.Printf("\nPlates: %d (see `gomesh plates`)\n", len(loaded.Plates.Plates))
	}
	return nil
}

func printInfo(filename string, m *mesh.Mesh, opts analysis.Options) {
	result := analysis.Analyze(m, opts)

	printTitle("Model Information")
	if m.Name != "" {
		fmt.Printf("Name: %s\n", m.Name)
	}
	fmt.Printf("File: %s\n\n", filename)

	printSection("Model Statistics")
	fmt.Printf("  Triangles: %d\n", result.TriangleCount)
	fmt.Printf("  Edges: %d\n", result.EdgeCount)
	fmt.Printf("  Surface Area: %.6f mm²\n\n", result.SurfaceArea)

	printSection("Bounding Box")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	printSection("Dimensions")
	fmt.Printf("  Width (X): %.6f mm\n", result.Dimensions.X)
	fmt.Printf("  Depth (Y): %.6f mm\n", result.Dimensions.Y)
	fmt.Printf("  Height (Z): %.6f mm\n", result.Dimensions.Z)
	fmt.Printf("  Diagonal: %.6f mm\n", result.BoundingBox.Diagonal())
	fmt.Printf("  Volume: %.6f mm³\n\n", result.Volume)

	printSection("Weight")
	fmt.Printf("  Density: %.3f g/cm³\n", result.Density)
	fmt.Printf("  Solid: %.2f g\n", result.WeightFull)
	fmt.Printf("  At %.0f%% infill: %.2f g\n\n", result.InfillFraction*100, result.WeightPartial)

	printSection("Edge Lengths")
	fmt.Printf("  Minimum: %.6f mm\n", result.MinEdgeLength)
	fmt.Printf("  Maximum: %.6f mm\n", result.MaxEdgeLength)
	fmt.Printf("  Average: %.6f mm\n", result.AvgEdgeLength)

	if !m.IsEmpty() && !m.IsClosed() {
		fmt.Println()
		printWarning("the mesh is not closed, volume and weight are approximate")
		logger.Debug("open mesh", "name", m.Name, "triangles", m.TriangleCount())
	}
}
