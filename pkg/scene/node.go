// Package scene is the hand-off point to a renderer: a tree of transformed
// nodes holding meshes, with one top-level group per floor.
package scene

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/storey/pkg/kernel"
)

// Node is a transformed container with an optional mesh. The local transform
// applies scale, then rotation (X, then Y, then Z, radians), then position.
type Node struct {
	Name     string
	Mesh     *kernel.Mesh
	Position v3.Vec
	Rotation v3.Vec
	Scale    v3.Vec
	Visible  bool
	Children []*Node
}

// NewNode returns a visible node with unit scale.
func NewNode(name string, mesh *kernel.Mesh) *Node {
	return &Node{
		Name:    name,
		Mesh:    mesh,
		Scale:   v3.Vec{X: 1, Y: 1, Z: 1},
		Visible: true,
	}
}

// Add appends children in order.
func (n *Node) Add(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Find returns the first descendant (or n itself) called name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// Local returns the node's transform relative to its parent.
func (n *Node) Local() sdf.M44 {
	rot := sdf.RotateZ(n.Rotation.Z).Mul(sdf.RotateY(n.Rotation.Y)).Mul(sdf.RotateX(n.Rotation.X))
	return sdf.Translate3d(n.Position).Mul(rot).Mul(sdf.Scale3d(n.Scale))
}

// mirrors reports whether the node's scale flips orientation.
func (n *Node) mirrors() bool {
	return n.Scale.X*n.Scale.Y*n.Scale.Z < 0
}

// Placement is a node's resolved position in the world.
type Placement struct {
	World    sdf.M44
	Mirrored bool // odd number of reflections on the path from the root
}

// Root is the placement of a node with no parent.
func Root() Placement {
	return Placement{World: sdf.Identity3d()}
}

// Child returns the placement of n under p.
func (p Placement) Child(n *Node) Placement {
	return Placement{World: p.World.Mul(n.Local()), Mirrored: p.Mirrored != n.mirrors()}
}

// Bounds returns the world bounding box of mesh under p.
func (p Placement) Bounds(mesh *kernel.Mesh) kernel.Box {
	b := kernel.EmptyBox()
	if mesh == nil {
		return b
	}
	for i := 0; i < mesh.VertexCount(); i++ {
		b = b.Include(p.World.MulPosition(mesh.Vertex(i)))
	}
	return b
}

// Bake returns a world-space copy of mesh. Mirrored placements have their
// winding reversed so faces keep pointing outward; normals are recomputed
// from the transformed faces.
func (p Placement) Bake(mesh *kernel.Mesh) *kernel.Mesh {
	out := &kernel.Mesh{Name: mesh.Name}
	out.Vertices = make([]float64, 0, len(mesh.Vertices))
	for t := 0; t < mesh.TriangleCount(); t++ {
		a := p.World.MulPosition(mesh.Vertex(3 * t))
		b := p.World.MulPosition(mesh.Vertex(3*t + 1))
		c := p.World.MulPosition(mesh.Vertex(3*t + 2))
		if p.Mirrored {
			b, c = c, b
		}
		out.AddTriangle(a, b, c)
	}
	return out
}

// WorldBounds returns the world bounding box of every mesh in the subtree
// rooted at n, visible or not, with n placed under parent.
func (n *Node) WorldBounds(parent Placement) kernel.Box {
	p := parent.Child(n)
	b := p.Bounds(n.Mesh)
	for _, c := range n.Children {
		b = b.Union(c.WorldBounds(p))
	}
	return b
}

// Walk calls fn for n and every descendant in depth-first order, skipping
// invisible nodes and their subtrees.
func (n *Node) Walk(parent Placement, fn func(n *Node, p Placement)) {
	if !n.Visible {
		return
	}
	p := parent.Child(n)
	fn(n, p)
	for _, c := range n.Children {
		c.Walk(p, fn)
	}
}
