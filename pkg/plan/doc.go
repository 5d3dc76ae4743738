// Package plan defines the building description for storey.
// A building is an ordered list of FloorSpecs, one per level, each naming
// the drawing that holds that level's floor plan and how its layers map to
// 3D geometry.
package plan
