package tessellate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chazu/storey/pkg/classify"
	"github.com/chazu/storey/pkg/drawing"
	"github.com/chazu/storey/pkg/kernel"
	"github.com/chazu/storey/pkg/plan"
)

// Builder converts path records into surfaces. A Builder holds no per-floor
// state and may be shared between goroutines when its kernel can.
type Builder struct {
	Kernel kernel.Kernel
	Logger *zap.Logger
}

// NewBuilder returns a builder extruding with k. A nil logger discards.
func NewBuilder(k kernel.Kernel, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{Kernel: k, Logger: logger}
}

// Build classifies every record under spec and returns the floor's surfaces.
//
// Precondition: spec has passed plan.Validate.
// Postcondition: Solids are produced only for layers in
// spec.ExtrudedSections; records with neither fill nor stroke add nothing.
func (b *Builder) Build(recs []drawing.PathRecord, spec plan.FloorSpec) (*BatchSet, error) {
	set := NewBatchSet()
	for i, rec := range recs {
		if err := b.Add(set, rec, classify.Classify(rec, spec), spec.ExtrudeDepth, i); err != nil {
			return nil, err
		}
	}
	b.Logger.Debug("surfaces built",
		zap.String("floor", spec.Name),
		zap.Int("records", len(recs)),
		zap.Int("surfaces", set.SurfaceCount()),
		zap.Int("solids", set.SolidCount()),
	)
	return set, nil
}

// Add appends the surfaces of one record to set. depth is the extrusion depth
// for Extrude buckets in drawing units. index names the surfaces for
// diagnostics.
func (b *Builder) Add(set *BatchSet, rec drawing.PathRecord, bucket classify.Bucket, depth float64, index int) error {
	if !rec.HasFill() && !rec.HasStroke() {
		return nil
	}
	name := surfaceName(rec, index)

	var flat []*kernel.Mesh
	var shapes []kernel.Shape
	if rec.HasFill() {
		shapes = FillShapes(rec)
		mesh, err := FillSurface(name+"/fill", shapes)
		if err != nil {
			b.Logger.Warn("partial fill triangulation",
				zap.String("path", name), zap.Error(err))
		}
		if !mesh.IsEmpty() {
			flat = append(flat, mesh)
		}
	}
	if rec.HasStroke() {
		if mesh := StrokeSurface(name+"/stroke", rec); !mesh.IsEmpty() {
			flat = append(flat, mesh)
		}
	}

	switch bucket.Kind {
	case classify.Extrude:
		sec := set.section(bucket.Section)
		sec.Outlines = append(sec.Outlines, flat...)
		for i, s := range shapes {
			solid, err := b.Kernel.Extrude(s, depth)
			if errors.Is(err, kernel.ErrTriangulation) && solid != nil {
				b.Logger.Warn("partial solid triangulation",
					zap.String("path", name), zap.Int("shape", i), zap.Error(err))
			} else if err != nil {
				return fmt.Errorf("tessellate: extrude %s shape %d with %s: %w", name, i, b.Kernel.Name(), err)
			}
			if solid.IsEmpty() {
				continue
			}
			solid.Name = fmt.Sprintf("%s/solid%d", name, i)
			sec.Solids = append(sec.Solids, solid)
		}
	case classify.FloorSlab:
		set.Slab = append(set.Slab, flat...)
	default:
		set.Decoration = append(set.Decoration, flat...)
	}
	return nil
}

func surfaceName(rec drawing.PathRecord, index int) string {
	id := rec.ID
	if id == "" {
		id = fmt.Sprintf("%s%d", rec.Element, index)
	}
	if rec.Layer == "" {
		return id
	}
	return rec.Layer + "/" + id
}
