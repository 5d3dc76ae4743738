// Package kernel defines the abstract geometry kernel interface and the
// planar geometry shared by every backend: shapes, triangulation and
// non-indexed triangle meshes. Implementations (prism, sdfx) turn a filled
// planar shape into a closed solid behind this interface, so the surface
// builder never depends on one backend.
package kernel

// Kernel is the abstract solid-modeling interface.
type Kernel interface {
	// Name identifies the backend in logs and configuration.
	Name() string

	// Extrude sweeps a planar shape lying in the z=0 plane along +Z by
	// depth and returns the closed solid as a triangle mesh with normals.
	Extrude(s Shape, depth float64) (*Mesh, error)
}
