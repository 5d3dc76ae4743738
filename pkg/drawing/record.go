package drawing

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// None is the paint value that disables fill or stroke.
const None = "none"

// Subpath is one continuous run of points. Closed is set when the source
// geometry closes the run explicitly (Z, rect, polygon, ...); the closing
// point is not repeated.
type Subpath struct {
	Points []v2.Vec
	Closed bool
}

// PathRecord is one drawable element of a drawing. Points are in drawing
// coordinates with every ancestor transform applied.
type PathRecord struct {
	Element     string // source tag name
	ID          string // element id, may be empty
	Layer       string // enclosing logical layer id
	Fill        string // resolved fill paint, None when disabled
	Stroke      string // resolved stroke paint, None when disabled
	StrokeWidth float64
	Subpaths    []Subpath
}

// HasFill reports whether the record paints its interior.
func (r PathRecord) HasFill() bool { return isPainted(r.Fill) }

// HasStroke reports whether the record paints its outline.
func (r PathRecord) HasStroke() bool { return isPainted(r.Stroke) && r.StrokeWidth > 0 }

func isPainted(paint string) bool {
	return paint != "" && paint != None
}
