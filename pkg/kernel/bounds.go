package kernel

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Box is an axis-aligned bounding box. The zero value is not empty; use
// EmptyBox to start accumulating points.
type Box struct {
	Min v3.Vec `json:"min"`
	Max v3.Vec `json:"max"`
}

// EmptyBox returns a box that contains nothing.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: v3.Vec{X: inf, Y: inf, Z: inf},
		Max: v3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Include returns the smallest box containing b and p.
func (b Box) Include(p v3.Vec) Box {
	return Box{
		Min: v3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: v3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	return b.Include(o.Min).Include(o.Max)
}

// Center returns the midpoint of the box. An empty box has center zero.
func (b Box) Center() v3.Vec {
	if b.IsEmpty() {
		return v3.Vec{}
	}
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Size returns the extent of the box along each axis.
func (b Box) Size() v3.Vec {
	if b.IsEmpty() {
		return v3.Vec{}
	}
	return b.Max.Sub(b.Min)
}
