package drawing

import "errors"

// Failure classes of a drawing load. Returned errors wrap exactly one of
// these; match with errors.Is.
var (
	// ErrLoad means the drawing could not be fetched.
	ErrLoad = errors.New("drawing: load failure")
	// ErrParse means the drawing is not well-formed SVG or holds malformed
	// geometry.
	ErrParse = errors.New("drawing: parse failure")
	// ErrStructure means a path's layer could not be resolved from its
	// ancestry.
	ErrStructure = errors.New("drawing: structure failure")
)
