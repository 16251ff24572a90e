package main

import (
	"fmt"

	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/clip"
	"github.com/philipparndt/gomesh/pkg/geometry"
	"github.com/spf13/cobra"
)

// regionFlags are the clip bounds shared by clip and render. Bounds that are
// not given default to the model's bounding box.
type regionFlags struct {
	min, max [3]float64
}

var axisNames = [3]string{"x", "y", "z"}

func (r *regionFlags) register(cmd *cobra.Command) {
	for axis, name := range axisNames {
		cmd.Flags().Float64Var(&r.min[axis], name+"min", 0, fmt.Sprintf("Lower %s bound of the clip region", name))
		cmd.Flags().Float64Var(&r.max[axis], name+"max", 0, fmt.Sprintf("Upper %s bound of the clip region", name))
	}
}

// active reports whether any bound was given
func (r *regionFlags) active(cmd *cobra.Command) bool {
	for _, name := range axisNames {
		if cmd.Flags().Changed(name+"min") || cmd.Flags().Changed(name+"max") {
			return true
		}
	}
	return false
}

func (r *regionFlags) region(cmd *cobra.Command, bounds geometry.BoundingBox) (clip.Region, error) {
	region := clip.RegionFromBounds(bounds)
	lo := [3]*float64{&region.Min.X, &region.Min.Y, &region.Min.Z}
	hi := [3]*float64{&region.Max.X, &region.Max.Y, &region.Max.Z}
	for axis, name := range axisNames {
		minSet, maxSet := cmd.Flags().Changed(name+"min"), cmd.Flags().Changed(name+"max")
		if minSet {
			*lo[axis] = r.min[axis]
		}
		if maxSet {
			*hi[axis] = r.max[axis]
		}
		// a flat model still needs a region with thickness
		if !minSet && !maxSet && *lo[axis] == *hi[axis] {
			*lo[axis]--
			*hi[axis]++
		}
	}
	if !region.Valid() {
		return region, fmt.Errorf("invalid clip region %s to %s: min must be below max on every axis",
			analysis.FormatVector(region.Min), analysis.FormatVector(region.Max))
	}
	return region, nil
}
