package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/spf13/cobra"
)

var platesThumbnails string

var platesCmd = &cobra.Command{
	Use:   "plates [file.3mf]",
	Short: "List the plates of a 3MF project",
	Long:  "List plates with their objects, triangle counts and sizes. Optionally extract the embedded plate thumbnails.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlates,
}

func init() {
	rootCmd.AddCommand(platesCmd)

	platesCmd.Flags().StringVar(&platesThumbnails, "thumbnails", "", "Directory to extract plate thumbnails into")
}

func runPlates(cmd *cobra.Command, args []string) error {
	loaded, err := openModel(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer loaded.Cleanup()

	if loaded.Plates == nil {
		return errors.New("plates are only available for 3MF files")
	}

	printTitle(fmt.Sprintf("Plates (%d)", len(loaded.Plates.Plates)))
	for _, plate := range loaded.Plates.Plates {
		m := loaded.Plates.MeshesByPlate[plate.ID]

		name := plate.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("\nPlate %d: %s\n", plate.ID, name)
		fmt.Printf("  Objects: %v\n", plate.ObjectIDs)
		if m != nil {
			fmt.Printf("  Triangles: %d\n", m.TriangleCount())
			fmt.Printf("  Size: %s mm\n", analysis.FormatVector(m.BoundingBox().Size()))
		}

		if platesThumbnails == "" || plate.Thumbnail == "" {
			continue
		}
		data, err := loaded.Plates.Thumbnail(plate.ID)
		if err != nil {
			logger.Warn("skipping thumbnail", "plate", plate.ID, "err", err)
			continue
		}
		if err := os.MkdirAll(platesThumbnails, 0o755); err != nil {
			return err
		}
		out := filepath.Join(platesThumbnails, fmt.Sprintf("plate_%d%s", plate.ID, filepath.Ext(plate.Thumbnail)))
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write thumbnail: %w", err)
		}
		fmt.Printf("  Thumbnail: %s\n", out)
	}
	return nil
}
