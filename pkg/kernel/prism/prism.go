// Package prism implements the kernel.Kernel interface with an exact
// polygon sweep: the triangulated shape becomes the bottom and top caps and
// every ring edge becomes a side quad.
package prism

import (
	"fmt"

	"github.com/chazu/storey/pkg/kernel"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*PrismKernel)(nil)

// PrismKernel implements kernel.Kernel by sweeping polygons directly.
type PrismKernel struct{}

// New returns a new PrismKernel.
func New() *PrismKernel {
	return &PrismKernel{}
}

// Name returns "prism".
func (k *PrismKernel) Name() string { return "prism" }

// Extrude sweeps s from z=0 to z=depth. A non-positive depth yields an empty
// mesh. Cap triangulation failures are returned along with whatever solid
// could be built.
func (k *PrismKernel) Extrude(s kernel.Shape, depth float64) (*kernel.Mesh, error) {
	m := &kernel.Mesh{}
	if depth <= 0 {
		return m, nil
	}

	tris, err := kernel.Triangulate(s)
	if err != nil {
		err = fmt.Errorf("prism: caps: %w", err)
	}

	// Caps: top faces +Z, bottom faces -Z.
	m.Append(kernel.Surface("", tris, depth, true))
	m.Append(kernel.Surface("", tris, 0, false))

	outer := kernel.CleanRing(s.Outer)
	if kernel.SignedArea(outer) < 0 {
		outer = kernel.Reversed(outer)
	}
	addSides(m, outer, depth)
	for _, h := range s.Holes {
		hole := kernel.CleanRing(h)
		if kernel.SignedArea(hole) > 0 {
			hole = kernel.Reversed(hole)
		}
		addSides(m, hole, depth)
	}

	m.RecomputeNormals()
	return m, err
}

// addSides emits one quad per ring edge. With outer rings wound positively
// and holes negatively, (p0, q0, q1) faces away from the solid.
func addSides(m *kernel.Mesh, ring []v2.Vec, depth float64) {
	for i := range ring {
		p, q := ring[i], ring[(i+1)%len(ring)]
		p0 := v3.Vec{X: p.X, Y: p.Y}
		q0 := v3.Vec{X: q.X, Y: q.Y}
		p1 := v3.Vec{X: p.X, Y: p.Y, Z: depth}
		q1 := v3.Vec{X: q.X, Y: q.Y, Z: depth}
		m.AddTriangle(p0, q0, q1)
		m.AddTriangle(p0, q1, p1)
	}
}
