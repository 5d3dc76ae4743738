package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/chazu/storey/pkg/plan"
)

const buildingYAML = `
logging:
  level: debug
  format: json
pipeline:
  concurrency: 2
  kernel: sdfx
  sdf_cells: 64
  http_timeout: 5s
floors:
  - name: Ground
    svg: plans/ground.svg
    scale: 0.01
    offset: {x: 1.5, y: -2}
    extruded_sections: [walls, columns]
    floor_layer: floor
    extrude_depth: 30
  - name: Roof
    svg: https://example.com/roof.svg
    scale: 0.01
    extrude_depth: 10
    extruded_sections: [parapet]
`

func validConfig() Config {
	cfg := Defaults()
	cfg.Floors = []FloorConfig{{Name: "Ground", SVG: "ground.svg", Scale: 1, ExtrudeDepth: 3}}
	return cfg
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "building.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, buildingYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 2, cfg.Pipeline.Concurrency)
	assert.Equal(t, "sdfx", cfg.Pipeline.Kernel)
	assert.Equal(t, 64, cfg.Pipeline.SDFCells)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.HTTPTimeout)
	require.Len(t, cfg.Floors, 2)
	assert.Equal(t, plan.Offset{X: 1.5, Y: -2}, cfg.Floors[0].Offset)
	assert.Equal(t, []string{"walls", "columns"}, cfg.Floors[0].ExtrudedSections)
	assert.Equal(t, filepath.Dir(path), cfg.Dir)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
floors:
  - name: Ground
    svg: ground.svg
    scale: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 4, cfg.Pipeline.Concurrency)
	assert.InDelta(t, 0.05, cfg.Pipeline.FloorGap, 1e-12)
	assert.Equal(t, "prism", cfg.Pipeline.Kernel)
	assert.Equal(t, 200, cfg.Pipeline.SDFCells)
	assert.Equal(t, "ancestor", cfg.Pipeline.LayerResolver)
	assert.Equal(t, 2, cfg.Pipeline.LayerDepth)
	assert.Equal(t, 12, cfg.Pipeline.CurveSegments)
	assert.InDelta(t, 1.0, cfg.Pipeline.OutlineLift, 1e-12)
	assert.False(t, cfg.Pipeline.StrictSections)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.HTTPTimeout)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.ScriptTimeout)
	assert.Equal(t, int64(64<<20), cfg.Pipeline.MaxDrawingBytes)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, buildingYAML)
	t.Setenv("STOREY_PIPELINE_CONCURRENCY", "7")
	t.Setenv("STOREY_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Pipeline.Concurrency)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
pipeline:
  concurrency: 0
  kernel: csg
floors:
  - name: Ground
    svg: ground.svg
    scale: 1
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline.concurrency")
	assert.Contains(t, err.Error(), "pipeline.kernel")
}

func TestLoadFs_MemMap(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/site/building.yaml", []byte(buildingYAML), 0o644))

	cfg, err := LoadFs(fs, "/site/building.yaml")
	require.NoError(t, err)

	specs := cfg.FloorSpecs()
	require.Len(t, specs, 2)
	assert.Equal(t, filepath.Join("/site", "plans", "ground.svg"), specs[0].Source)
	assert.Equal(t, "https://example.com/roof.svg", specs[1].Source)
	assert.Equal(t, "floor", specs[0].FloorLayer)
	assert.InDelta(t, 30, specs[0].ExtrudeDepth, 1e-12)
}

func TestResolve(t *testing.T) {
	cfg := Config{Dir: "/site"}
	tests := []struct {
		in, want string
	}{
		{"ground.svg", filepath.Join("/site", "ground.svg")},
		{"/abs/ground.svg", "/abs/ground.svg"},
		{"http://host/ground.svg", "http://host/ground.svg"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Resolve(tt.in))
		})
	}
}

func TestFloorSpecs_DoesNotAliasSections(t *testing.T) {
	cfg := validConfig()
	cfg.Floors[0].ExtrudedSections = []string{"walls"}

	specs := cfg.FloorSpecs()
	specs[0].ExtrudedSections[0] = "changed"
	assert.Equal(t, "walls", cfg.Floors[0].ExtrudedSections[0])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"negative gap", func(c *Config) { c.Pipeline.FloorGap = -1 }, "pipeline.floor_gap"},
		{"bad resolver", func(c *Config) { c.Pipeline.LayerResolver = "closest" }, "pipeline.layer_resolver"},
		{"zero depth", func(c *Config) { c.Pipeline.LayerDepth = 0 }, "pipeline.layer_depth"},
		{"zero segments", func(c *Config) { c.Pipeline.CurveSegments = 0 }, "pipeline.curve_segments"},
		{"sdfx cells", func(c *Config) { c.Pipeline.Kernel = "sdfx"; c.Pipeline.SDFCells = 0 }, "pipeline.sdf_cells"},
		{"zero drawing cap", func(c *Config) { c.Pipeline.MaxDrawingBytes = 0 }, "pipeline.max_drawing_bytes"},
		{"no floors", func(c *Config) { c.Floors = nil }, "one of floors or script"},
		{"both", func(c *Config) { c.Script = "building.zy" }, "mutually exclusive"},
		{"script only", func(c *Config) { c.Floors = nil; c.Script = "building.zy" }, ""},
		{"bad floor", func(c *Config) { c.Floors[0].Scale = 0 }, "floors: floor 0 (Ground)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Property_ConcurrencyBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Pipeline.Concurrency = rapid.IntRange(-100, 100).Draw(t, "concurrency")
		err := cfg.Validate()
		if cfg.Pipeline.Concurrency >= 1 {
			if err != nil {
				t.Fatalf("unexpected error for concurrency %d: %v", cfg.Pipeline.Concurrency, err)
			}
		} else if err == nil {
			t.Fatalf("expected error for concurrency %d", cfg.Pipeline.Concurrency)
		}
	})
}
