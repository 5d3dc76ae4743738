package floor

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/storey/pkg/batch"
	"github.com/chazu/storey/pkg/kernel"
	"github.com/chazu/storey/pkg/plan"
	"github.com/chazu/storey/pkg/scene"
	"github.com/chazu/storey/pkg/tessellate"
)

// DefaultOutlineLift raises flat outlines above the surfaces they trace, in
// drawing units.
const DefaultOutlineLift = 1.0

// AssembleOptions control group layout.
type AssembleOptions struct {
	OutlineLift float64 // drawing units
	// StrictSections fails the floor when a declared extruded section
	// produced nothing. Otherwise the gap is recorded as a warning.
	StrictSections bool
}

// DefaultAssembleOptions returns the standard layout options.
func DefaultAssembleOptions() AssembleOptions {
	return AssembleOptions{OutlineLift: DefaultOutlineLift}
}

func newGroupNode(name string) *scene.Node {
	n := scene.NewNode(name, nil)
	n.Rotation = v3.Vec{X: -math.Pi / 2}
	return n
}

// Assemble merges the floor's batches and builds its positioned group.
//
// Precondition: set was built for spec.
// Postcondition: the group holds one solid and one outline node per section
// that produced surfaces (in spec order), exactly one decoration node, and
// either no slab nodes or a lower and upper pair. An error wraps
// batch.ErrEmptyBatch only when opts.StrictSections is set.
func Assemble(spec plan.FloorSpec, index int, set *tessellate.BatchSet, elevation float64, opts AssembleOptions) (*FloorGroup, error) {
	s := spec.Scale
	depth := spec.ExtrudeDepth
	group := newGroupNode(spec.Name)
	fg := &FloorGroup{Name: spec.Name, Index: index, Node: group, Enabled: true}

	meshNode := func(name string, b *batch.Batch, z float64) *scene.Node {
		n := scene.NewNode(spec.Name+"/"+name, b.Mesh)
		n.Scale = v3.Vec{X: s, Y: -s, Z: s}
		n.Position = v3.Vec{Z: z}
		group.Add(n)
		return n
	}

	for _, id := range spec.ExtrudedSections {
		var outlines, solids []*kernel.Mesh
		if sec := set.Section(id); sec != nil {
			outlines, solids = sec.Outlines, sec.Solids
		}
		outline, solid, err := batch.Section(id, outlines, solids)
		if err != nil {
			if opts.StrictSections {
				return nil, fmt.Errorf("floor %q: %w", spec.Name, err)
			}
			fg.Warnings = append(fg.Warnings, err.Error())
			continue
		}
		fg.Sections = append(fg.Sections, Section{
			ID:      id,
			Solid:   meshNode(id+"/solid", solid, 0),
			Outline: meshNode(id+"/outline", outline, (depth+opts.OutlineLift)*s),
		})
	}

	if len(set.Slab) > 0 {
		lower, err := batch.Merge("slab", set.Slab)
		if err != nil {
			return nil, fmt.Errorf("floor %q: %w", spec.Name, err)
		}
		upper := &batch.Batch{Mesh: lower.Mesh.Clone("slab/upper"), Bounds: lower.Bounds}
		fg.Slabs = []*scene.Node{
			meshNode("slab/lower", lower, 0),
			meshNode("slab/upper", upper, depth*s),
		}
	}

	fg.Decoration = meshNode("decoration", batch.MergeOptional("decoration", set.Decoration), opts.OutlineLift*s)

	// Centre the footprint, then apply the planar offset and elevation.
	center := group.WorldBounds(scene.Root()).Center()
	group.Position = v3.Vec{
		X: spec.Offset.X - center.X,
		Y: elevation,
		Z: spec.Offset.Y - center.Z,
	}
	fg.Elevation = elevation
	fg.Bounds = group.WorldBounds(scene.Root())
	return fg, nil
}
