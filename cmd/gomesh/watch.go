package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/philipparndt/gomesh/pkg/loader"
	"github.com/philipparndt/gomesh/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-analyze a model whenever it changes",
	Long: `Print the model information and print it again each time the file changes.
For OpenSCAD sources every used or included file is watched as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "Quiet period after the last change before reloading")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		return err
	}
	defer fw.Close()
	fw.Logger = logger

	if err := reload(ctx, path, fw); err != nil {
		return err
	}
	logger.Info("watching", "files", len(fw.Files()))

	return fw.Run(ctx, func(changed []string) {
		logger.Info("changed", "files", changed)
		if err := reload(ctx, path, fw); err != nil {
			logger.Error("reload failed", "err", err)
		}
	})
}

// reload analyzes the model and tracks any newly referenced files
func reload(ctx context.Context, path string, fw *watcher.FileWatcher) error {
	files, err := loader.WatchList(path, loader.Options{Logger: logger})
	if err != nil {
		return err
	}
	if err := fw.Add(files...); err != nil {
		return err
	}

	loaded, err := openModel(ctx, path)
	if err != nil {
		return err
	}
	defer loaded.Cleanup()

	fmt.Println()
	printInfo(loaded.Source, loaded.Mesh, cfg.AnalysisOptions())
	return nil
}
