// Package floor assembles per-floor scene groups from surface batches and
// runs the concurrent per-floor pipeline.
//
// A floor group is laid out in drawing space under a Y mirror, rotated so the
// drawing plane is horizontal with extrusion pointing up the scene Y axis,
// centred on its footprint, shifted by the floor's planar offset and lifted
// to its stacked elevation.
package floor
