// Package tessellate turns classified path records into flat surfaces and
// extruded solids. A Builder fills a BatchSet per floor: fills become
// triangulated surfaces, strokes become ribbons along their centerlines, and
// filled shapes of extruded layers are also swept into solids through a
// kernel.Kernel.
package tessellate
