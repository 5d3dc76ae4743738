// Package classify assigns path records to surface buckets.
package classify

import (
	"github.com/chazu/storey/pkg/drawing"
	"github.com/chazu/storey/pkg/plan"
)

// Kind is the role a path plays in a floor.
type Kind int

const (
	Decoration Kind = iota
	Extrude
	FloorSlab
)

func (k Kind) String() string {
	switch k {
	case Extrude:
		return "extrude"
	case FloorSlab:
		return "slab"
	default:
		return "decoration"
	}
}

// Bucket is the destination of a path's surfaces. Section is set only for
// Extrude.
type Bucket struct {
	Kind    Kind
	Section string
}

// Classify picks the bucket for rec under spec. The first matching rule
// wins:
//
//  1. the layer is an extruded section
//  2. the layer is the floor-slab layer
//  3. decoration
//
// A layer listed both as a section and as the slab is therefore always
// extruded.
func Classify(rec drawing.PathRecord, spec plan.FloorSpec) Bucket {
	if spec.IsExtruded(rec.Layer) {
		return Bucket{Kind: Extrude, Section: rec.Layer}
	}
	if spec.FloorLayer != "" && rec.Layer == spec.FloorLayer {
		return Bucket{Kind: FloorSlab}
	}
	return Bucket{Kind: Decoration}
}
