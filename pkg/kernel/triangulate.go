package kernel

import (
	"errors"
	"fmt"
	"sort"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrTriangulation is returned when ear clipping stalls on a self-intersecting
// or otherwise non-simple ring. The triangles produced before the stall are
// still returned.
var ErrTriangulation = errors.New("kernel: triangulation stalled")

// Triangle is a planar triangle with positive signed area.
type Triangle [3]v2.Vec

// Triangulate splits a shape into triangles by bridging every hole into the
// outer ring and ear clipping the result. All triangles wind with positive
// signed area.
func Triangulate(s Shape) ([]Triangle, error) {
	outer := CleanRing(s.Outer)
	if outer == nil {
		return nil, nil
	}
	outer = withWinding(outer, true)

	var holes [][]v2.Vec
	for _, h := range s.Holes {
		if c := CleanRing(h); c != nil {
			holes = append(holes, withWinding(c, false))
		}
	}

	ring := eliminateHoles(outer, holes)
	return earClip(ring)
}

// eliminateHoles splices each hole into the outer ring through a bridge edge
// from the hole's rightmost vertex to the nearest visible ring vertex. Holes
// are processed right to left so earlier bridges never cross later holes.
func eliminateHoles(outer []v2.Vec, holes [][]v2.Vec) []v2.Vec {
	sort.SliceStable(holes, func(i, j int) bool {
		return holes[i][rightmost(holes[i])].X > holes[j][rightmost(holes[j])].X
	})

	ring := outer
	for hi, h := range holes {
		mi := rightmost(h)
		vi := findBridge(ring, h, mi, holes[hi+1:])
		if vi < 0 {
			continue
		}
		spliced := make([]v2.Vec, 0, len(ring)+len(h)+2)
		spliced = append(spliced, ring[:vi+1]...)
		for k := 0; k <= len(h); k++ {
			spliced = append(spliced, h[(mi+k)%len(h)])
		}
		spliced = append(spliced, ring[vi:]...)
		ring = spliced
	}
	return ring
}

func rightmost(ring []v2.Vec) int {
	best := 0
	for i, p := range ring {
		if p.X > ring[best].X || (p.X == ring[best].X && p.Y < ring[best].Y) {
			best = i
		}
	}
	return best
}

// findBridge returns the index of the ring vertex closest to hole[mi] whose
// connecting segment crosses no edge of the ring, the hole or the remaining
// holes, or -1 when no such vertex exists.
func findBridge(ring, hole []v2.Vec, mi int, rest [][]v2.Vec) int {
	m := hole[mi]
	order := make([]int, len(ring))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return dist2(ring[order[i]], m) < dist2(ring[order[j]], m)
	})

	for _, vi := range order {
		v := ring[vi]
		if crossesAny(m, v, ring) || crossesAny(m, v, hole) {
			continue
		}
		blocked := false
		for _, r := range rest {
			if crossesAny(m, v, r) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		mid := m.Add(v).MulScalar(0.5)
		if !PointInRing(mid, ring) || PointInRing(mid, hole) {
			continue
		}
		return vi
	}
	return -1
}

func dist2(a, b v2.Vec) float64 {
	d := a.Sub(b)
	return d.X*d.X + d.Y*d.Y
}

// crossesAny reports whether segment pq properly intersects any edge of ring.
// Edges sharing an endpoint with pq do not count.
func crossesAny(p, q v2.Vec, ring []v2.Vec) bool {
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if samePoint(a, p) || samePoint(a, q) || samePoint(b, p) || samePoint(b, q) {
			continue
		}
		if segmentsCross(p, q, a, b) {
			return true
		}
	}
	return false
}

func segmentsCross(p, q, a, b v2.Vec) bool {
	d1 := cross(p, q, a)
	d2 := cross(p, q, b)
	d3 := cross(a, b, p)
	d4 := cross(a, b, q)
	return ((d1 > epsilon && d2 < -epsilon) || (d1 < -epsilon && d2 > epsilon)) &&
		((d3 > epsilon && d4 < -epsilon) || (d3 < -epsilon && d4 > epsilon))
}

// earClip triangulates a weakly simple ring with positive winding.
func earClip(ring []v2.Vec) ([]Triangle, error) {
	idx := make([]int, len(ring))
	for i := range idx {
		idx[i] = i
	}

	tris := make([]Triangle, 0, len(ring))
	for len(idx) > 3 {
		clipped := false
		for i := range idx {
			ip := idx[(i-1+len(idx))%len(idx)]
			ic := idx[i]
			in := idx[(i+1)%len(idx)]
			a, b, c := ring[ip], ring[ic], ring[in]

			cr := cross(a, b, c)
			if cr <= epsilon {
				if cr >= -epsilon {
					// Zero-area corner: drop the vertex without emitting.
					idx = append(idx[:i], idx[i+1:]...)
					clipped = true
					break
				}
				continue
			}
			if containsOther(ring, idx, ip, ic, in) {
				continue
			}
			tris = append(tris, Triangle{a, b, c})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return tris, fmt.Errorf("%w: %d vertices left", ErrTriangulation, len(idx))
		}
	}

	if len(idx) == 3 {
		a, b, c := ring[idx[0]], ring[idx[1]], ring[idx[2]]
		if cross(a, b, c) > epsilon {
			tris = append(tris, Triangle{a, b, c})
		}
	}
	return tris, nil
}

// containsOther reports whether any remaining vertex other than the corner's
// own lies inside or on triangle (ip, ic, in). Bridge duplicates coincident
// with a corner vertex are ignored.
func containsOther(ring []v2.Vec, idx []int, ip, ic, in int) bool {
	a, b, c := ring[ip], ring[ic], ring[in]
	for _, j := range idx {
		if j == ip || j == ic || j == in {
			continue
		}
		p := ring[j]
		if samePoint(p, a) || samePoint(p, b) || samePoint(p, c) {
			continue
		}
		if cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0 {
			return true
		}
	}
	return false
}

// Surface builds a flat mesh from triangles lying in the plane z. Triangles
// face +Z when up is true and -Z otherwise.
func Surface(name string, tris []Triangle, z float64, up bool) *Mesh {
	m := &Mesh{Name: name}
	m.Vertices = make([]float64, 0, len(tris)*9)
	m.Normals = make([]float64, 0, len(tris)*9)
	for _, t := range tris {
		a := v3.Vec{X: t[0].X, Y: t[0].Y, Z: z}
		b := v3.Vec{X: t[1].X, Y: t[1].Y, Z: z}
		c := v3.Vec{X: t[2].X, Y: t[2].Y, Z: z}
		if up {
			m.AddTriangle(a, b, c)
		} else {
			m.AddTriangle(a, c, b)
		}
	}
	return m
}
