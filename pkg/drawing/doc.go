// Package drawing reads SVG floor-plan drawings into flat path records.
//
// Every drawable leaf element (path, rect, circle, ellipse, line, polyline,
// polygon) becomes one PathRecord carrying its resolved fill and stroke, its
// geometry flattened to point sequences in drawing coordinates, and the id of
// the logical layer that encloses it. Layer lookup is delegated to a
// LayerResolver so the nesting convention of one exporter is not baked into
// the parser.
package drawing
