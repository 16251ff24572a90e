package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/clip"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/pkg/stl"
	"github.com/spf13/cobra"
)

var (
	clipRegion   regionFlags
	clipSections bool
	clipOutput   string
	clipASCII    bool
	clipCaps     bool
)

var clipCmd = &cobra.Command{
	Use:   "clip [file]",
	Short: "Clip a model to an axis-aligned box",
	Long: `Clip the model against the box given by --xmin/--xmax/--ymin/--ymax/--zmin/--zmax.
Bounds that are not given default to the model's bounding box. Reports the
remaining triangles and the cut edges per axis; --sections lists the closed
cross-sections with their area, perimeter and best-fit circle.`,
	Args: cobra.ExactArgs(1),
	RunE: runClip,
}

func init() {
	rootCmd.AddCommand(clipCmd)

	clipRegion.register(clipCmd)
	clipCmd.Flags().BoolVar(&clipSections, "sections", false, "List closed cross-sections")
	clipCmd.Flags().StringVarP(&clipOutput, "output", "o", "", "Write the clipped mesh as STL")
	clipCmd.Flags().BoolVar(&clipASCII, "ascii", false, "Write ASCII instead of binary STL")
	clipCmd.Flags().BoolVar(&clipCaps, "caps", false, "Close the written mesh with cross-section caps")
}

func runClip(cmd *cobra.Command, args []string) error {
	loaded, err := openModel(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer loaded.Cleanup()

	model := loaded.Mesh
	if model.IsEmpty() {
		return errors.New("the model has no triangles")
	}
	region, err := clipRegion.region(cmd, model.BoundingBox())
	if err != nil {
		return err
	}

	result := clip.ClipWithWorkers(model.Triangles, region, cfg.Workers)
	logger.Debug("clipped", "in", model.TriangleCount(), "out", len(result.Triangles), "cuts", len(result.CutEdges))

	printTitle("Clip")
	fmt.Printf("Region min: %s\n", analysis.FormatVector(region.Min))
	fmt.Printf("Region max: %s\n\n", analysis.FormatVector(region.Max))
	fmt.Printf("Triangles: %d of %d\n", len(result.Triangles), model.TriangleCount())

	var perAxis [3]int
	for _, cut := range result.CutEdges {
		perAxis[cut.Axis]++
	}
	fmt.Printf("Cut edges: %d (X: %d, Y: %d, Z: %d)\n", len(result.CutEdges), perAxis[0], perAxis[1], perAxis[2])

	contours := clip.Contours(result.CutEdges)
	if clipSections {
		printSections(contours)
	}

	if clipOutput == "" {
		return nil
	}
	triangles := result.Triangles
	if clipCaps {
		for _, c := range contours {
			triangles = append(triangles, capFacing(c, region)...)
		}
	}
	return writeSTL(clipOutput, clip.Result{Triangles: triangles}.Mesh(model.Name+" (clipped)"), clipASCII)
}

func printSections(contours []clip.Contour) {
	fmt.Println()
	printSection(fmt.Sprintf("Cross-sections (%d)", len(contours)))
	if len(contours) == 0 {
		fmt.Println("  none closed")
		return
	}
	for i, c := range contours {
		fmt.Printf("  #%d %s = %.6f: %d points\n", i+1, axisNames[c.Axis], c.Plane(), len(c.Points))
		fmt.Printf("     Area: %.6f mm²\n", c.Area())
		fmt.Printf("     Perimeter: %.6f mm\n", c.Perimeter())
		fit, err := c.FitCircle()
		if err != nil {
			continue
		}
		fmt.Printf("     Circle: center %s, radius %.6f mm (deviation %.6f)\n",
			analysis.FormatVector(fit.Center), fit.Radius, fit.StdDev)
	}
}

// capFacing triangulates a contour with the caps facing out of the region
func capFacing(c clip.Contour, region clip.Region) []geometry.Triangle {
	caps := c.Triangulate()
	// caps face +axis; flip those on the lower face
	if c.Plane()-region.Min.Component(c.Axis) > region.Max.Component(c.Axis)-c.Plane() {
		return caps
	}
	for i, t := range caps {
		caps[i] = geometry.NewTriangle(t.Normal.Mul(-1), t.V1, t.V3, t.V2)
	}
	return caps
}

func writeSTL(path string, m *mesh.Mesh, ascii bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	encode := stl.EncodeBinary
	if ascii {
		encode = stl.EncodeASCII
	}
	if err := encode(f, m); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("\nWrote %d triangles to %s\n", m.TriangleCount(), path)
	return nil
}
