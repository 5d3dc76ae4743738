package floor

import (
	"github.com/chazu/storey/pkg/kernel"
	"github.com/chazu/storey/pkg/scene"
)

// Section holds the nodes of one extruded layer.
type Section struct {
	ID      string
	Solid   *scene.Node
	Outline *scene.Node
}

// FloorGroup is the assembled result for one FloorSpec.
type FloorGroup struct {
	Name       string
	Index      int // declaration position
	Node       *scene.Node
	Sections   []Section
	Decoration *scene.Node
	Slabs      []*scene.Node // lower then upper, or none
	Elevation  float64
	Bounds     kernel.Box // world extent of the positioned group
	Warnings   []string
	Err        error
	Enabled    bool
}

// TriangleCount sums the triangles of every mesh in the group.
func (g *FloorGroup) TriangleCount() int {
	n := 0
	var walk func(*scene.Node)
	walk = func(node *scene.Node) {
		if node.Mesh != nil {
			n += node.Mesh.TriangleCount()
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	if g.Node != nil {
		walk(g.Node)
	}
	return n
}

// Placeholder returns the disabled group standing in for a floor that failed
// to build. It has no geometry and sits at its stacked elevation.
func Placeholder(name string, index int, elevation float64, err error) *FloorGroup {
	node := newGroupNode(name)
	node.Position.Y = elevation
	node.Visible = false
	return &FloorGroup{
		Name:      name,
		Index:     index,
		Node:      node,
		Elevation: elevation,
		Bounds:    kernel.EmptyBox(),
		Err:       err,
	}
}
