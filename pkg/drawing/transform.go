package drawing

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Affine is a 2D affine transform in SVG matrix order:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{A: 1, D: 1}
}

// Mul returns t ∘ u: u is applied first, then t.
func (t Affine) Mul(u Affine) Affine {
	return Affine{
		A: t.A*u.A + t.C*u.B,
		B: t.B*u.A + t.D*u.B,
		C: t.A*u.C + t.C*u.D,
		D: t.B*u.C + t.D*u.D,
		E: t.A*u.E + t.C*u.F + t.E,
		F: t.B*u.E + t.D*u.F + t.F,
	}
}

// Apply transforms a point.
func (t Affine) Apply(p v2.Vec) v2.Vec {
	return v2.Vec{
		X: t.A*p.X + t.C*p.Y + t.E,
		Y: t.B*p.X + t.D*p.Y + t.F,
	}
}

// UniformScale returns the geometric-mean scale factor, used to scale stroke
// widths.
func (t Affine) UniformScale() float64 {
	return math.Sqrt(math.Abs(t.A*t.D - t.B*t.C))
}

var transformOp = regexp.MustCompile(`([a-zA-Z]+)\s*\(([^)]*)\)`)

// ParseTransform parses an SVG transform list such as
// "translate(10 20) rotate(45) scale(2)". Operations compose left to right.
func ParseTransform(s string) (Affine, error) {
	t := Identity()
	s = strings.TrimSpace(s)
	if s == "" {
		return t, nil
	}

	matches := transformOp.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return t, fmt.Errorf("%w: transform %q", ErrParse, s)
	}
	prev := 0
	for _, m := range matches {
		if !isSeparator(s[prev:m[0]]) {
			return t, fmt.Errorf("%w: transform %q: unexpected %q", ErrParse, s, s[prev:m[0]])
		}
		prev = m[1]
		whole, name, list := s[m[0]:m[1]], s[m[2]:m[3]], s[m[4]:m[5]]
		args, err := parseNumberList(list)
		if err != nil {
			return t, fmt.Errorf("%w: transform %q: %v", ErrParse, whole, err)
		}
		op, err := transformFor(name, args)
		if err != nil {
			return t, fmt.Errorf("%w: transform %q: %v", ErrParse, whole, err)
		}
		t = t.Mul(op)
	}
	if !isSeparator(s[prev:]) {
		return t, fmt.Errorf("%w: transform %q: unexpected %q", ErrParse, s, s[prev:])
	}
	return t, nil
}

// isSeparator reports whether gap is empty or only whitespace with at most one
// comma, the only text allowed between transform operations.
func isSeparator(gap string) bool {
	return strings.Count(gap, ",") <= 1 && strings.Trim(gap, " \t\r\n,") == ""
}

func transformFor(name string, a []float64) (Affine, error) {
	argc := func(counts ...int) error {
		for _, c := range counts {
			if len(a) == c {
				return nil
			}
		}
		return fmt.Errorf("%s takes %v arguments, got %d", name, counts, len(a))
	}

	switch name {
	case "matrix":
		if err := argc(6); err != nil {
			return Affine{}, err
		}
		return Affine{A: a[0], B: a[1], C: a[2], D: a[3], E: a[4], F: a[5]}, nil
	case "translate":
		if err := argc(1, 2); err != nil {
			return Affine{}, err
		}
		t := Identity()
		t.E = a[0]
		if len(a) == 2 {
			t.F = a[1]
		}
		return t, nil
	case "scale":
		if err := argc(1, 2); err != nil {
			return Affine{}, err
		}
		sy := a[0]
		if len(a) == 2 {
			sy = a[1]
		}
		return Affine{A: a[0], D: sy}, nil
	case "rotate":
		if err := argc(1, 3); err != nil {
			return Affine{}, err
		}
		rad := a[0] * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		r := Affine{A: cos, B: sin, C: -sin, D: cos}
		if len(a) == 3 {
			to := Affine{A: 1, D: 1, E: a[1], F: a[2]}
			back := Affine{A: 1, D: 1, E: -a[1], F: -a[2]}
			return to.Mul(r).Mul(back), nil
		}
		return r, nil
	case "skewX":
		if err := argc(1); err != nil {
			return Affine{}, err
		}
		return Affine{A: 1, C: math.Tan(a[0] * math.Pi / 180), D: 1}, nil
	case "skewY":
		if err := argc(1); err != nil {
			return Affine{}, err
		}
		return Affine{A: 1, B: math.Tan(a[0] * math.Pi / 180), D: 1}, nil
	}
	return Affine{}, fmt.Errorf("unknown operation %q", name)
}
