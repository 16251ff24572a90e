package main

import (
	"context"

	"github.com/philipparndt/gomesh/pkg/loader"
	"github.com/philipparndt/gomesh/pkg/threemf"
)

// openModel loads a model with the configured palette, logger and workers.
// Callers must call Cleanup on the result.
func openModel(ctx context.Context, path string) (*loader.Loaded, error) {
	palette, err := cfg.ExtruderPalette()
	if err != nil {
		return nil, err
	}
	decoder := threemf.NewDecoder(
		threemf.WithPalette(palette),
		threemf.WithLogger(logger),
		threemf.WithWorkers(cfg.Workers),
	)
	return loader.Load(ctx, path, loader.Options{Decoder: decoder, Logger: logger})
}
