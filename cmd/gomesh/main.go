package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/philipparndt/gomesh/internal/config"
	"github.com/philipparndt/gomesh/version"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	workers    int

	cfg    config.Config
	logger = log.Default()
)

var rootCmd = &cobra.Command{
	Use:   "gomesh",
	Short: "Inspect, measure and clip STL and 3MF models",
	Long: `gomesh reads STL (ASCII and binary), 3MF (including multi-plate slicer
projects) and OpenSCAD sources, and reports dimensions, volume, weight
estimates, edges and cross-sections.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Worker goroutines for large meshes (default: one per CPU)")
}

// setup loads the config file, applies the global flags and configures the logger
func setup(cmd *cobra.Command, _ []string) error {
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Resolve(config.Flags{LogLevel: logLevel, Workers: workers})

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{Level: level, Prefix: "gomesh"})
	log.SetDefault(logger)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
