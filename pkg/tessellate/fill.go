package tessellate

import (
	"errors"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/storey/pkg/drawing"
	"github.com/chazu/storey/pkg/kernel"
)

// FillShapes groups the record's sub-paths into filled shapes. Open
// sub-paths are closed implicitly, as for SVG fill.
func FillShapes(rec drawing.PathRecord) []kernel.Shape {
	rings := make([][]v2.Vec, 0, len(rec.Subpaths))
	for _, sp := range rec.Subpaths {
		if len(sp.Points) >= 3 {
			rings = append(rings, sp.Points)
		}
	}
	return kernel.Shapes(rings)
}

// FillSurface triangulates shapes into one flat mesh at z=0 facing +Z.
// A stalled triangulation keeps the triangles produced so far and reports
// the error alongside the mesh.
func FillSurface(name string, shapes []kernel.Shape) (*kernel.Mesh, error) {
	var tris []kernel.Triangle
	var errs []error
	for _, s := range shapes {
		t, err := kernel.Triangulate(s)
		if err != nil {
			errs = append(errs, err)
		}
		tris = append(tris, t...)
	}
	return kernel.Surface(name, tris, 0, true), errors.Join(errs...)
}
