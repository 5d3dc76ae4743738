// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Shapes become 2D polygon
// SDFs, holes are subtracted, and the result is extruded and meshed with
// marching cubes. The output approximates the exact prism at the configured
// resolution.
package sdfx

import (
	"fmt"

	"github.com/chazu/storey/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel meshing with the given number of cells along
// the longest axis. Non-positive values select DefaultMeshCells.
func New(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// Name returns "sdfx".
func (k *SdfxKernel) Name() string { return "sdfx" }

// Extrude sweeps s from z=0 to z=depth. sdf.Extrude3D centers the solid on
// z=0, so it is shifted up by half the depth.
func (k *SdfxKernel) Extrude(s kernel.Shape, depth float64) (*kernel.Mesh, error) {
	if depth <= 0 {
		return &kernel.Mesh{}, nil
	}

	outer := kernel.CleanRing(s.Outer)
	if outer == nil {
		return &kernel.Mesh{}, nil
	}
	profile, err := sdf.Polygon2D(copyRing(outer))
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	for i, h := range s.Holes {
		ring := kernel.CleanRing(h)
		if ring == nil {
			continue
		}
		hole, err := sdf.Polygon2D(copyRing(ring))
		if err != nil {
			return nil, fmt.Errorf("sdfx.Polygon2D: hole %d: %w", i, err)
		}
		profile = sdf.Difference2D(profile, hole)
	}

	solid := sdf.Extrude3D(profile, depth)
	solid = sdf.Transform3D(solid, sdf.Translate3d(v3.Vec{Z: depth / 2}))

	return k.toMesh(solid), nil
}

// toMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) toMesh(s sdf.SDF3) *kernel.Mesh {
	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(s, renderer)

	mesh := &kernel.Mesh{
		Vertices: make([]float64, 0, len(triangles)*9),
		Normals:  make([]float64, 0, len(triangles)*9),
	}
	for _, tri := range triangles {
		mesh.AddTriangle(tri[0], tri[1], tri[2])
	}
	return mesh
}

func copyRing(ring []v2.Vec) []v2.Vec {
	return append([]v2.Vec(nil), ring...)
}
