package floor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/storey/pkg/batch"
	"github.com/chazu/storey/pkg/drawing"
	"github.com/chazu/storey/pkg/plan"
	"github.com/chazu/storey/pkg/scene"
	"github.com/chazu/storey/pkg/tessellate"
)

// DefaultConcurrency bounds how many floors are built at once.
const DefaultConcurrency = 4

// Source loads the path records of a drawing.
type Source interface {
	Load(ctx context.Context, source string) ([]drawing.PathRecord, error)
}

// Options configure a Pipeline.
type Options struct {
	Concurrency int
	FloorGap    float64
	Assemble    AssembleOptions
}

// DefaultOptions returns the standard pipeline options.
func DefaultOptions() Options {
	return Options{
		Concurrency: DefaultConcurrency,
		FloorGap:    DefaultGap,
		Assemble:    DefaultAssembleOptions(),
	}
}

// Pipeline builds every floor of a building concurrently.
type Pipeline struct {
	source  Source
	builder *tessellate.Builder
	opts    Options
	logger  *zap.Logger
}

// NewPipeline returns a pipeline reading drawings from src and building
// surfaces with b. A nil logger discards.
func NewPipeline(src Source, b *tessellate.Builder, opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Pipeline{source: src, builder: b, opts: opts, logger: logger}
}

// Result is the outcome of one pipeline run.
type Result struct {
	RunID  string
	Floors []*FloorGroup // declaration order
	Scene  *scene.Scene
}

// Failed returns the floors that did not build.
func (r *Result) Failed() []*FloorGroup {
	var out []*FloorGroup
	for _, f := range r.Floors {
		if !f.Enabled {
			out = append(out, f)
		}
	}
	return out
}

// Run builds a group for every spec. It returns once every floor has either
// built or been replaced by a disabled placeholder; a failing floor never
// affects its siblings. The returned error is non-nil only when specs fail
// validation.
//
// Floors are attached to the scene as they finish; the scene then presents
// them in declaration order.
func (p *Pipeline) Run(ctx context.Context, specs []plan.FloorSpec) (*Result, error) {
	if errs := plan.Validate(specs); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i := range errs {
			joined[i] = errs[i]
		}
		return nil, fmt.Errorf("floor: invalid floor specs: %w", errors.Join(joined...))
	}

	runID := uuid.NewString()
	log := p.logger.With(zap.String("run_id", runID))
	log.Info("pipeline started", zap.Int("floors", len(specs)), zap.Int("concurrency", p.opts.Concurrency))
	start := time.Now()

	elevations := Elevations(specs, p.opts.FloorGap)
	slots := make([]*FloorGroup, len(specs))
	sc := scene.New()

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for i := range specs {
		g.Go(func() error {
			fg := p.buildFloor(ctx, log, specs[i], i, elevations[i])
			slots[i] = fg
			// Names are validated unique, so Attach cannot collide.
			_ = sc.Attach(fg.Name, fg.Node, fg.Enabled)
			return nil
		})
	}
	_ = g.Wait()

	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	if err := sc.Present(names); err != nil {
		return nil, err
	}

	res := &Result{RunID: runID, Floors: slots, Scene: sc}
	log.Info("pipeline finished",
		zap.Int("floors", len(slots)),
		zap.Int("failed", len(res.Failed())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// buildFloor never returns nil: failures produce a placeholder.
func (p *Pipeline) buildFloor(ctx context.Context, log *zap.Logger, spec plan.FloorSpec, index int, elevation float64) (fg *FloorGroup) {
	log = log.With(zap.String("floor", spec.Name), zap.Int("index", index))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("floor %q: panic: %v", spec.Name, r)
			log.Error("floor panicked", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			fg = Placeholder(spec.Name, index, elevation, err)
		}
	}()

	fg, err := p.assemble(ctx, spec, index, elevation)
	if err != nil {
		log.Error("floor failed", zap.String("kind", FailureKind(err)), zap.Error(err))
		return Placeholder(spec.Name, index, elevation, err)
	}
	for _, w := range fg.Warnings {
		log.Warn("floor warning", zap.String("warning", w))
	}
	log.Info("floor assembled",
		zap.Float64("elevation", fg.Elevation),
		zap.Int("sections", len(fg.Sections)),
		zap.Int("slabs", len(fg.Slabs)),
		zap.Int("triangles", fg.TriangleCount()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return fg
}

func (p *Pipeline) assemble(ctx context.Context, spec plan.FloorSpec, index int, elevation float64) (*FloorGroup, error) {
	recs, err := p.source.Load(ctx, spec.Source)
	if err != nil {
		return nil, fmt.Errorf("floor %q: %w", spec.Name, err)
	}
	set, err := p.builder.Build(recs, spec)
	if err != nil {
		return nil, fmt.Errorf("floor %q: %w", spec.Name, err)
	}
	return Assemble(spec, index, set, elevation, p.opts.Assemble)
}

// FailureKind names the failure class of a floor error for logs and
// listings.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, drawing.ErrLoad):
		return "load"
	case errors.Is(err, drawing.ErrParse):
		return "parse"
	case errors.Is(err, drawing.ErrStructure):
		return "structure"
	case errors.Is(err, batch.ErrEmptyBatch):
		return "empty_batch"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
