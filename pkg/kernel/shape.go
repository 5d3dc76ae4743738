package kernel

import (
	"math"
	"sort"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// epsilon is the tolerance for degenerate areas and coincident points, in
// drawing units.
const epsilon = 1e-9

// Shape is a filled planar region: one outer ring and any number of holes.
// Outer winds with positive signed area, holes with negative signed area.
// Rings are open: the last point does not repeat the first.
type Shape struct {
	Outer []v2.Vec
	Holes [][]v2.Vec
}

// Area returns the filled area of the shape.
func (s Shape) Area() float64 {
	a := math.Abs(SignedArea(s.Outer))
	for _, h := range s.Holes {
		a -= math.Abs(SignedArea(h))
	}
	return a
}

// SignedArea returns the shoelace area of ring; positive when the ring winds
// from +X towards +Y.
func SignedArea(ring []v2.Vec) float64 {
	var a float64
	for i := range ring {
		p, q := ring[i], ring[(i+1)%len(ring)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// cross returns the z component of (a-o) x (b-o).
func cross(o, a, b v2.Vec) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func samePoint(a, b v2.Vec) bool {
	return math.Abs(a.X-b.X) <= epsilon && math.Abs(a.Y-b.Y) <= epsilon
}

// CleanRing drops repeated points, the closing duplicate and collinear
// vertices. It returns nil when fewer than three vertices remain.
func CleanRing(ring []v2.Vec) []v2.Vec {
	out := make([]v2.Vec, 0, len(ring))
	for _, p := range ring {
		if len(out) > 0 && samePoint(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && samePoint(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}

	for changed := true; changed && len(out) >= 3; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; i++ {
			prev := out[(i-1+len(out))%len(out)]
			next := out[(i+1)%len(out)]
			if math.Abs(cross(prev, out[i], next)) <= epsilon {
				out = append(out[:i], out[i+1:]...)
				changed = true
				i--
			}
		}
	}

	if len(out) < 3 {
		return nil
	}
	return out
}

// Reversed returns ring in the opposite winding.
func Reversed(ring []v2.Vec) []v2.Vec {
	out := make([]v2.Vec, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

// withWinding returns ring oriented so its signed area has the sign of want.
func withWinding(ring []v2.Vec, positive bool) []v2.Vec {
	if (SignedArea(ring) > 0) == positive {
		return ring
	}
	return Reversed(ring)
}

// PointInRing reports whether p lies inside ring (even-odd ray cast).
func PointInRing(p v2.Vec, ring []v2.Vec) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// ringProbe returns a point strictly inside ring, used for containment
// tests between rings: the centroid of the first ear-like corner, nudged
// towards the interior.
func ringProbe(ring []v2.Vec) v2.Vec {
	pos := SignedArea(ring) > 0
	for i := range ring {
		a := ring[(i-1+len(ring))%len(ring)]
		b := ring[i]
		c := ring[(i+1)%len(ring)]
		cr := cross(a, b, c)
		if (cr > epsilon) == pos && math.Abs(cr) > epsilon {
			probe := a.Add(b).Add(c).MulScalar(1.0 / 3.0)
			if PointInRing(probe, ring) {
				return probe
			}
		}
	}
	return ring[0]
}

// Shapes groups closed rings into filled shapes using even-odd nesting: a
// ring contained in an even number of larger rings is an outer boundary, a
// ring contained in an odd number is a hole of the smallest outer ring that
// contains it. Degenerate rings are dropped. The result is ordered by
// decreasing outer area, ties kept in input order.
func Shapes(rings [][]v2.Vec) []Shape {
	type ring struct {
		pts   []v2.Vec
		area  float64
		probe v2.Vec
	}

	var rs []ring
	for _, r := range rings {
		c := CleanRing(r)
		if c == nil {
			continue
		}
		a := math.Abs(SignedArea(c))
		if a <= epsilon {
			continue
		}
		rs = append(rs, ring{pts: c, area: a, probe: ringProbe(c)})
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].area > rs[j].area })

	var shapes []Shape
	owner := make([]int, len(rs)) // shape index for outer rings, -1 for holes
	for i := range rs {
		depth := 0
		parent := -1
		for j := 0; j < i; j++ {
			if PointInRing(rs[i].probe, rs[j].pts) {
				depth++
				if owner[j] >= 0 {
					parent = owner[j]
				}
			}
		}
		if depth%2 == 0 || parent < 0 {
			owner[i] = len(shapes)
			shapes = append(shapes, Shape{Outer: withWinding(rs[i].pts, true)})
			continue
		}
		owner[i] = -1
		shapes[parent].Holes = append(shapes[parent].Holes, withWinding(rs[i].pts, false))
	}
	return shapes
}
