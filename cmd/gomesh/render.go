package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/clip"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/pkg/preview"
	"github.com/philipparndt/gomesh/pkg/threemf"
	"github.com/spf13/cobra"
)

var (
	renderOutput    string
	renderWidth     int
	renderHeight    int
	renderAzimuth   float64
	renderElevation float64
	renderZoom      float64
	renderEdges     bool
	renderPlate     int
	renderCaps      bool
	renderRegion    regionFlags
)

var renderCmd = &cobra.Command{
	Use:   "render [file] -o out.png|out.webp",
	Short: "Render a preview image of a model",
	Long: `Render a shaded preview image. The format follows the output extension
(PNG or WebP). With clip bounds the clipped model is drawn with its cut edges
colored by axis; --caps fills the closed cross-sections.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output image (.png or .webp)")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "Image width (default from config, 512)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "Image height (default: width)")
	renderCmd.Flags().Float64Var(&renderAzimuth, "azimuth", 35, "Camera azimuth in degrees")
	renderCmd.Flags().Float64Var(&renderElevation, "elevation", 30, "Camera elevation in degrees")
	renderCmd.Flags().Float64Var(&renderZoom, "zoom", 1, "Zoom factor")
	renderCmd.Flags().BoolVar(&renderEdges, "edges", false, "Draw feature edges")
	renderCmd.Flags().IntVar(&renderPlate, "plate", 0, "Render a single plate of a 3MF project")
	renderCmd.Flags().BoolVar(&renderCaps, "caps", false, "Fill closed cross-sections of a clipped model")
	renderRegion.register(renderCmd)
	_ = renderCmd.MarkFlagRequired("output")
}

func runRender(cmd *cobra.Command, args []string) error {
	loaded, err := openModel(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer loaded.Cleanup()

	model, err := selectPlate(loaded.Mesh, loaded.Plates, renderPlate)
	if err != nil {
		return err
	}

	width := renderWidth
	if width <= 0 {
		width = cfg.RenderSize
	}
	height := renderHeight
	if height <= 0 {
		height = width
	}

	opts := preview.Options{
		Width:       width,
		Height:      height,
		Supersample: cfg.Supersample,
		Azimuth:     renderAzimuth,
		Elevation:   renderElevation,
		Zoom:        renderZoom,
		Caps:        renderCaps,
		Workers:     cfg.Workers,
	}

	if renderRegion.active(cmd) {
		region, err := renderRegion.region(cmd, model.BoundingBox())
		if err != nil {
			return err
		}
		result := clip.ClipWithWorkers(model.Triangles, region, cfg.Workers)
		model = result.Mesh(model.Name)
		opts.CutEdges = result.CutEdges
	}
	if renderEdges {
		opts.Edges = analysis.ExtractStyledEdges(model, cfg.FeatureAngle, cfg.MinAngle)
	}

	img, err := preview.Render(model, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(renderOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", renderOutput, err)
	}
	defer f.Close()
	if err := preview.Encode(f, img, preview.FormatFromPath(renderOutput)); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("rendered", "file", renderOutput, "width", width, "height", height, "triangles", model.TriangleCount())
	return nil
}

// selectPlate returns the mesh of plate id, or combined when id is 0
func selectPlate(combined *mesh.Mesh, plates *threemf.Result, id int) (*mesh.Mesh, error) {
	if id == 0 {
		return combined, nil
	}
	if plates == nil {
		return nil, errors.New("--plate is only available for 3MF files")
	}
	m, ok := plates.MeshesByPlate[id]
	if !ok {
		return nil, fmt.Errorf("plate %d not found", id)
	}
	return m, nil
}
