// Package config provides Viper-based configuration loading for storey.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/chazu/storey/pkg/plan"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// PipelineConfig holds floor pipeline settings.
type PipelineConfig struct {
	// Concurrency bounds how many floors build at once.
	Concurrency int `mapstructure:"concurrency"`
	// FloorGap is the vertical gap between floors in scene units.
	FloorGap float64 `mapstructure:"floor_gap"`
	// Kernel selects the extrusion kernel: "prism" or "sdfx".
	Kernel string `mapstructure:"kernel"`
	// SDFCells is the marching-cubes resolution of the sdfx kernel.
	SDFCells int `mapstructure:"sdf_cells"`
	// LayerResolver selects layer lookup: "ancestor" or "nearest".
	LayerResolver string `mapstructure:"layer_resolver"`
	// LayerDepth is the ancestor depth of the "ancestor" resolver.
	LayerDepth int `mapstructure:"layer_depth"`
	// CurveSegments is the flattening resolution for curves.
	CurveSegments int `mapstructure:"curve_segments"`
	// OutlineLift raises outlines above what they trace, in drawing units.
	OutlineLift float64 `mapstructure:"outline_lift"`
	// StrictSections fails a floor when a declared section is empty.
	StrictSections bool `mapstructure:"strict_sections"`
	// HTTPTimeout bounds fetching a drawing by URL.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	// MaxDrawingBytes caps the size of a drawing fetched by URL.
	MaxDrawingBytes int64 `mapstructure:"max_drawing_bytes"`
	// ScriptTimeout bounds evaluating the building script.
	ScriptTimeout time.Duration `mapstructure:"script_timeout"`
}

// FloorConfig is one floor entry of the configuration file.
type FloorConfig struct {
	Name             string      `mapstructure:"name"`
	SVG              string      `mapstructure:"svg"`
	Scale            float64     `mapstructure:"scale"`
	Offset           plan.Offset `mapstructure:"offset"`
	ExtrudedSections []string    `mapstructure:"extruded_sections"`
	FloorLayer       string      `mapstructure:"floor_layer"`
	ExtrudeDepth     float64     `mapstructure:"extrude_depth"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Floors   []FloorConfig  `mapstructure:"floors"`
	// Script is a building script declaring the floors, used instead of
	// Floors.
	Script string `mapstructure:"script"`

	// Dir is the directory of the loaded file; relative drawing and script
	// paths resolve against it.
	Dir string `mapstructure:"-"`
}

// Resolve returns p relative to the configuration directory. URLs and
// absolute paths are returned unchanged.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || strings.Contains(p, "://") || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// FloorSpecs converts the floor entries in declaration order.
//
// Postcondition: every Source is resolved against Dir.
func (c Config) FloorSpecs() []plan.FloorSpec {
	specs := make([]plan.FloorSpec, len(c.Floors))
	for i, f := range c.Floors {
		specs[i] = plan.FloorSpec{
			Name:             f.Name,
			Source:           c.Resolve(f.SVG),
			Scale:            f.Scale,
			Offset:           f.Offset,
			ExtrudedSections: append([]string(nil), f.ExtrudedSections...),
			FloorLayer:       f.FloorLayer,
			ExtrudeDepth:     f.ExtrudeDepth,
		}
	}
	return specs
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validatePipeline(c.Pipeline); err != nil {
		errs = append(errs, err.Error())
	}
	switch {
	case c.Script != "" && len(c.Floors) > 0:
		errs = append(errs, "floors and script are mutually exclusive")
	case c.Script == "" && len(c.Floors) == 0:
		errs = append(errs, "one of floors or script must be set")
	case len(c.Floors) > 0:
		for _, f := range plan.Validate(c.FloorSpecs()) {
			errs = append(errs, "floors: "+f.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validatePipeline(p PipelineConfig) error {
	var errs []string
	if p.Concurrency < 1 {
		errs = append(errs, fmt.Sprintf("pipeline.concurrency must be >= 1, got %d", p.Concurrency))
	}
	if p.FloorGap < 0 {
		errs = append(errs, fmt.Sprintf("pipeline.floor_gap must not be negative, got %g", p.FloorGap))
	}
	switch p.Kernel {
	case "prism":
	case "sdfx":
		if p.SDFCells < 1 {
			errs = append(errs, fmt.Sprintf("pipeline.sdf_cells must be >= 1, got %d", p.SDFCells))
		}
	default:
		errs = append(errs, fmt.Sprintf("pipeline.kernel must be one of [prism, sdfx], got %q", p.Kernel))
	}
	switch p.LayerResolver {
	case "ancestor":
		if p.LayerDepth < 1 {
			errs = append(errs, fmt.Sprintf("pipeline.layer_depth must be >= 1, got %d", p.LayerDepth))
		}
	case "nearest":
	default:
		errs = append(errs, fmt.Sprintf("pipeline.layer_resolver must be one of [ancestor, nearest], got %q", p.LayerResolver))
	}
	if p.CurveSegments < 1 {
		errs = append(errs, fmt.Sprintf("pipeline.curve_segments must be >= 1, got %d", p.CurveSegments))
	}
	if p.OutlineLift < 0 {
		errs = append(errs, "pipeline.outline_lift must not be negative")
	}
	if p.HTTPTimeout < 0 {
		errs = append(errs, "pipeline.http_timeout must not be negative")
	}
	if p.MaxDrawingBytes < 1 {
		errs = append(errs, fmt.Sprintf("pipeline.max_drawing_bytes must be >= 1, got %d", p.MaxDrawingBytes))
	}
	if p.ScriptTimeout < 0 {
		errs = append(errs, "pipeline.script_timeout must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs is Load over an arbitrary filesystem.
func LoadFs(fs afero.Fs, path string) (Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)

	// Environment variable overrides with STOREY_ prefix
	v.SetEnvPrefix("STOREY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := LoadFromViper(v, filepath.Dir(path))
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
// dir is the base for relative paths.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper, dir string) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.Dir = dir
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a configuration holding every default and no floors.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults are all scalar values of the right type.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("pipeline.concurrency", 4)
	v.SetDefault("pipeline.floor_gap", 0.05)
	v.SetDefault("pipeline.kernel", "prism")
	v.SetDefault("pipeline.sdf_cells", 200)
	v.SetDefault("pipeline.layer_resolver", "ancestor")
	v.SetDefault("pipeline.layer_depth", 2)
	v.SetDefault("pipeline.curve_segments", 12)
	v.SetDefault("pipeline.outline_lift", 1.0)
	v.SetDefault("pipeline.strict_sections", false)
	v.SetDefault("pipeline.http_timeout", "30s")
	v.SetDefault("pipeline.script_timeout", "5s")
	v.SetDefault("pipeline.max_drawing_bytes", 64<<20)
}
