package plan

import (
	"fmt"
	"math"
)

// ValidationError describes a single problem with a building description.
type ValidationError struct {
	Floor   string // floor name, empty for building-level findings
	Index   int    // declaration position
	Message string
}

func (e ValidationError) Error() string {
	if e.Floor == "" {
		return fmt.Sprintf("floor %d: %s", e.Index, e.Message)
	}
	return fmt.Sprintf("floor %d (%s): %s", e.Index, e.Floor, e.Message)
}

// Validate checks every spec and returns all findings. An empty slice means
// the building is valid. It never mutates the specs.
func Validate(specs []FloorSpec) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int, len(specs))

	for i, s := range specs {
		if s.Name == "" {
			errs = append(errs, ValidationError{Index: i, Message: "name must not be empty"})
		} else if first, dup := seen[s.Name]; dup {
			errs = append(errs, ValidationError{
				Floor:   s.Name,
				Index:   i,
				Message: fmt.Sprintf("duplicate name, first declared at floor %d", first),
			})
		} else {
			seen[s.Name] = i
		}
		if s.Source == "" {
			errs = append(errs, ValidationError{Floor: s.Name, Index: i, Message: "drawing source must not be empty"})
		}
		if !(s.Scale > 0) || math.IsInf(s.Scale, 0) {
			errs = append(errs, ValidationError{
				Floor:   s.Name,
				Index:   i,
				Message: fmt.Sprintf("scale is %.4f, must be positive and finite", s.Scale),
			})
		}
		if !(s.ExtrudeDepth >= 0) || math.IsInf(s.ExtrudeDepth, 0) {
			errs = append(errs, ValidationError{
				Floor:   s.Name,
				Index:   i,
				Message: fmt.Sprintf("extrude depth is %.4f, must not be negative or infinite", s.ExtrudeDepth),
			})
		}
		sections := make(map[string]bool, len(s.ExtrudedSections))
		for _, id := range s.ExtrudedSections {
			if id == "" {
				errs = append(errs, ValidationError{Floor: s.Name, Index: i, Message: "extruded section id must not be empty"})
				continue
			}
			if sections[id] {
				errs = append(errs, ValidationError{
					Floor:   s.Name,
					Index:   i,
					Message: fmt.Sprintf("extruded section %q listed twice", id),
				})
			}
			sections[id] = true
		}
	}

	return errs
}
