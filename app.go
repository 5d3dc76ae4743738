package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/chazu/storey/pkg/config"
	"github.com/chazu/storey/pkg/drawing"
	"github.com/chazu/storey/pkg/engine"
	"github.com/chazu/storey/pkg/floor"
	"github.com/chazu/storey/pkg/kernel"
	"github.com/chazu/storey/pkg/kernel/prism"
	"github.com/chazu/storey/pkg/kernel/sdfx"
	"github.com/chazu/storey/pkg/plan"
	"github.com/chazu/storey/pkg/scene"
	"github.com/chazu/storey/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the scene composer backend. It builds the building described by
// its configuration and exposes the result to an external renderer.
type App struct {
	cfg      config.Config
	fs       afero.Fs
	logger   *zap.Logger
	engine   *engine.Engine
	kernel   kernel.Kernel
	pipeline *floor.Pipeline

	mu   sync.Mutex
	last *floor.Result
}

// MeshData is the JSON-serializable mesh format sent to the renderer.
// Vertices are in world space; every three vertices form one triangle.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	PartName string    `json:"partName"`
	Floor    string    `json:"floor"`
	Color    string    `json:"color"`
}

// FloorData is the JSON-serializable floor listing entry.
type FloorData struct {
	Name      string   `json:"name"`
	Elevation float64  `json:"elevation"`
	Enabled   bool     `json:"enabled"`
	Visible   bool     `json:"visible"`
	Triangles int      `json:"triangles"`
	Error     string   `json:"error,omitempty"`
	ErrorKind string   `json:"errorKind,omitempty"`
	Warnings  []string `json:"warnings"`
}

// EvalErrorData is a JSON-serializable building script error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// LoadResult is the full result returned to the renderer.
type LoadResult struct {
	RunID  string          `json:"runId"`
	Kernel string          `json:"kernel"`
	Floors []FloorData     `json:"floors"`
	Meshes []MeshData      `json:"meshes"`
	Errors []EvalErrorData `json:"errors"`
	Bounds *kernel.Box     `json:"bounds,omitempty"` // nil when nothing is visible
}

// NewApp creates an App reading drawings and scripts from the OS filesystem.
func NewApp(cfg config.Config, logger *zap.Logger) *App {
	return newApp(cfg, afero.NewOsFs(), logger)
}

func newApp(cfg config.Config, fs afero.Fs, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := cfg.Pipeline

	k := newKernel(p)
	fetcher := &drawing.SourceFetcher{
		FS:       fs,
		Client:   &http.Client{Timeout: p.HTTPTimeout},
		MaxBytes: p.MaxDrawingBytes,
	}
	loader := drawing.NewLoader(fetcher, drawing.Options{
		Resolver:      newResolver(p),
		CurveSegments: p.CurveSegments,
	})
	builder := tessellate.NewBuilder(k, logger.Named("tessellate"))
	pipeline := floor.NewPipeline(loader, builder, floor.Options{
		Concurrency: p.Concurrency,
		FloorGap:    p.FloorGap,
		Assemble: floor.AssembleOptions{
			OutlineLift:    p.OutlineLift,
			StrictSections: p.StrictSections,
		},
	}, logger.Named("floor"))

	eng := engine.NewEngine()
	eng.Timeout = p.ScriptTimeout

	return &App{
		cfg:      cfg,
		fs:       fs,
		logger:   logger,
		engine:   eng,
		kernel:   k,
		pipeline: pipeline,
	}
}

func newKernel(p config.PipelineConfig) kernel.Kernel {
	if p.Kernel == "sdfx" {
		return sdfx.New(p.SDFCells)
	}
	return prism.New()
}

func newResolver(p config.PipelineConfig) drawing.LayerResolver {
	if p.LayerResolver == "nearest" {
		return drawing.NearestGroupResolver{}
	}
	return drawing.AncestorResolver{Depth: p.LayerDepth}
}

// Specs returns the floor specs of the building, evaluating the building
// script when one is configured. Script errors are returned as eval errors;
// the error result is for failures to read the script at all.
func (a *App) Specs() ([]plan.FloorSpec, []EvalError, error) {
	if a.cfg.Script == "" {
		return a.cfg.FloorSpecs(), nil, nil
	}

	path := a.cfg.Resolve(a.cfg.Script)
	src, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading building script: %w", err)
	}
	specs, evalErrs, err := a.engine.Evaluate(string(src))
	if err != nil {
		return nil, nil, err
	}
	if len(evalErrs) > 0 {
		return nil, evalErrs, nil
	}

	// Drawings named by a script are relative to the script.
	base := config.Config{Dir: filepath.Dir(path)}
	for i := range specs {
		specs[i].Source = base.Resolve(specs[i].Source)
	}
	return specs, nil, nil
}

// EvalError aliases the engine's error type for callers of Specs.
type EvalError = engine.EvalError

// Load builds every floor and returns the floor listing and the world-space
// meshes of the visible floors. Slices in the result are never nil.
func (a *App) Load(ctx context.Context) LoadResult {
	result := LoadResult{
		Floors: []FloorData{},
		Meshes: []MeshData{},
		Errors: []EvalErrorData{},
		Kernel: a.kernel.Name(),
	}

	specs, evalErrs, err := a.Specs()
	if err != nil {
		a.logger.Error("loading building", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	res, err := a.pipeline.Run(ctx, specs)
	if err != nil {
		a.logger.Error("building floors", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = res

	result.RunID = res.RunID
	result.Floors = floorData(res)
	result.Meshes = meshData(res.Scene)
	if b := res.Scene.Bounds(); !b.IsEmpty() {
		result.Bounds = &b
	}
	return result
}

// SetFloorVisible shows or hides a floor of the last loaded building.
func (a *App) SetFloorVisible(name string, visible bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil {
		return fmt.Errorf("no building loaded")
	}
	return a.last.Scene.SetVisible(name, visible)
}

// Meshes returns the world-space meshes of the currently visible floors.
func (a *App) Meshes() []MeshData {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil {
		return []MeshData{}
	}
	return meshData(a.last.Scene)
}

// Floors returns the floor listing of the last loaded building.
func (a *App) Floors() []FloorData {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil {
		return []FloorData{}
	}
	return floorData(a.last)
}

func floorData(res *floor.Result) []FloorData {
	out := make([]FloorData, 0, len(res.Floors))
	for _, fg := range res.Floors {
		fd := FloorData{
			Name:      fg.Name,
			Elevation: fg.Elevation,
			Enabled:   fg.Enabled,
			Visible:   fg.Node.Visible,
			Triangles: fg.TriangleCount(),
			Warnings:  append([]string{}, fg.Warnings...),
		}
		if fg.Err != nil {
			fd.Error = fg.Err.Error()
			fd.ErrorKind = floor.FailureKind(fg.Err)
		}
		out = append(out, fd)
	}
	return out
}

// meshData bakes every visible mesh into world space, in floor order.
func meshData(sc *scene.Scene) []MeshData {
	out := []MeshData{}
	for _, f := range sc.Floors() {
		if !f.Node.Visible {
			continue
		}
		f.Node.Walk(scene.Root(), func(n *scene.Node, p scene.Placement) {
			if n.Mesh == nil || n.Mesh.IsEmpty() {
				return
			}
			baked := p.Bake(n.Mesh)
			out = append(out, MeshData{
				Vertices: toFloat32(baked.Vertices),
				Normals:  toFloat32(baked.Normals),
				PartName: n.Name,
				Floor:    f.Name,
				Color:    colorPalette[len(out)%len(colorPalette)],
			})
		})
	}
	return out
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
