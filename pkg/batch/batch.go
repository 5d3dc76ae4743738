// Package batch merges surface lists into single meshes. Merging
// concatenates buffers; no boolean union is performed.
package batch

import (
	"errors"
	"fmt"

	"github.com/chazu/storey/pkg/kernel"
)

// ErrEmptyBatch is returned when a mandatory batch has nothing to merge.
var ErrEmptyBatch = errors.New("batch: empty batch")

// Batch is a merged mesh with its bounding box.
type Batch struct {
	Mesh   *kernel.Mesh
	Bounds kernel.Box
}

// Merge concatenates the vertex and normal buffers of meshes in order into a
// new mesh called name. Inputs are not modified.
func Merge(name string, meshes []*kernel.Mesh) (*Batch, error) {
	if len(meshes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyBatch, name)
	}
	return MergeOptional(name, meshes), nil
}

// MergeOptional is Merge for batches that may be empty: an empty list yields
// an empty mesh.
func MergeOptional(name string, meshes []*kernel.Mesh) *Batch {
	var verts, norms int
	for _, m := range meshes {
		verts += len(m.Vertices)
		norms += len(m.Normals)
	}
	out := &kernel.Mesh{
		Name:     name,
		Vertices: make([]float64, 0, verts),
		Normals:  make([]float64, 0, norms),
	}
	for _, m := range meshes {
		out.Append(m)
	}
	return &Batch{Mesh: out, Bounds: out.Bounds()}
}

// Section merges the outline and solid surfaces of one extruded layer.
// The layer is mandatory: when both lists are empty the error wraps
// ErrEmptyBatch. Either list alone may be empty.
func Section(id string, outlines, solids []*kernel.Mesh) (outline, solid *Batch, err error) {
	if len(outlines)+len(solids) == 0 {
		return nil, nil, fmt.Errorf("%w: section %q produced no surfaces", ErrEmptyBatch, id)
	}
	return MergeOptional(id+"/outline", outlines), MergeOptional(id+"/solid", solids), nil
}
