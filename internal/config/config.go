// Package config loads gomesh settings from a YAML file and overlays the
// command line flags on top of it.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/philipparndt/gomesh/pkg/analysis"
	"github.com/philipparndt/gomesh/pkg/threemf"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFeatureAngle = 30.0
	DefaultMinAngle     = 1.0
	DefaultLogLevel     = "info"
	DefaultRenderSize   = 512
	DefaultSupersample  = 2
)

// Config holds analysis, decoding and preview settings
type Config struct {
	// Palette maps 3MF extruder numbers (1-based) to hex colors
	Palette []string `yaml:"palette"`

	Density        float64 `yaml:"density"`
	InfillFraction float64 `yaml:"infill_fraction"`
	FeatureAngle   float64 `yaml:"feature_angle"`
	MinAngle       float64 `yaml:"min_angle"`

	Workers  int    `yaml:"workers"`
	LogLevel string `yaml:"log_level"`

	// Preview settings
	RenderSize  int `yaml:"render_size"`
	Supersample int `yaml:"supersample"`
}

// Flags holds CLI flag values that override config file settings
type Flags struct {
	LogLevel       string
	Workers        int
	Density        float64
	InfillFraction float64
	FeatureAngle   float64
}

// Load reads a YAML config file. Fields not set in the file keep their
// zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies the flags and fills empty fields with defaults.
// Non-zero flags take priority over the file.
func (c *Config) Resolve(flags Flags) {
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Density > 0 {
		c.Density = flags.Density
	}
	if flags.InfillFraction > 0 {
		c.InfillFraction = flags.InfillFraction
	}
	if flags.FeatureAngle > 0 {
		c.FeatureAngle = flags.FeatureAngle
	}

	if c.Density <= 0 {
		c.Density = analysis.DefaultDensity
	}
	if c.InfillFraction <= 0 {
		c.InfillFraction = analysis.DefaultInfillFraction
	}
	if c.FeatureAngle <= 0 {
		c.FeatureAngle = DefaultFeatureAngle
	}
	if c.MinAngle <= 0 {
		c.MinAngle = DefaultMinAngle
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.RenderSize <= 0 {
		c.RenderSize = DefaultRenderSize
	}
	if c.Supersample <= 0 {
		c.Supersample = DefaultSupersample
	}
}

// ExtruderPalette returns the configured extruder palette, the decoder default
// when none is configured
func (c Config) ExtruderPalette() (threemf.Palette, error) {
	if len(c.Palette) == 0 {
		return threemf.DefaultPalette(), nil
	}
	p, err := threemf.ParsePalette(c.Palette)
	if err != nil {
		return nil, fmt.Errorf("config: palette: %w", err)
	}
	return p, nil
}

// Level parses the log level
func (c Config) Level() (log.Level, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("config: log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// AnalysisOptions returns the weight estimate settings
func (c Config) AnalysisOptions() analysis.Options {
	return analysis.Options{Density: c.Density, InfillFraction: c.InfillFraction}
}
