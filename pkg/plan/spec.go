package plan

import "slices"

// Offset is a 2D planar offset in scene units. X maps to scene X, Y maps to
// scene Z after the floor is laid flat.
type Offset struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

// FloorSpec describes one building level. Specs are configuration: they are
// built once before any drawing is parsed and never mutated afterwards.
//
// ExtrudedSections and FloorLayer name drawing layers that may or may not
// exist in the drawing; a missing layer simply produces no geometry.
type FloorSpec struct {
	Name             string   `json:"name"`
	Source           string   `json:"source"`            // path or URL of the SVG drawing
	Scale            float64  `json:"scale"`             // drawing units -> scene units
	Offset           Offset   `json:"offset"`            // scene units
	ExtrudedSections []string `json:"extruded_sections"` // layer ids swept into solids
	FloorLayer       string   `json:"floor_layer"`       // layer id producing slabs, empty for none
	ExtrudeDepth     float64  `json:"extrude_depth"`     // drawing units
}

// IsExtruded reports whether layer is one of the spec's extruded sections.
func (s FloorSpec) IsExtruded(layer string) bool {
	return slices.Contains(s.ExtrudedSections, layer)
}

// ScaledDepth returns the extrusion depth in scene units.
func (s FloorSpec) ScaledDepth() float64 {
	return s.ExtrudeDepth * s.Scale
}
