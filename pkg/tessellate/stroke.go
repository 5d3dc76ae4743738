package tessellate

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/storey/pkg/drawing"
	"github.com/chazu/storey/pkg/kernel"
)

const minLength = 1e-9

// StrokeSurface builds a flat ribbon of the record's stroke width along every
// sub-path centerline: one quad per segment and a bevel triangle at each
// join. Closed sub-paths also join their last and first segments. Dash
// patterns are not applied.
func StrokeSurface(name string, rec drawing.PathRecord) *kernel.Mesh {
	half := rec.StrokeWidth / 2
	var tris []kernel.Triangle
	for _, sp := range rec.Subpaths {
		tris = append(tris, ribbon(dedupe(sp.Points, sp.Closed), sp.Closed, half)...)
	}
	return kernel.Surface(name, tris, 0, true)
}

// dedupe drops consecutive repeated points, and the closing point of a
// closed run.
func dedupe(pts []v2.Vec, closed bool) []v2.Vec {
	out := make([]v2.Vec, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && p.Sub(out[len(out)-1]).Length() < minLength {
			continue
		}
		out = append(out, p)
	}
	if closed && len(out) > 1 && out[0].Sub(out[len(out)-1]).Length() < minLength {
		out = out[:len(out)-1]
	}
	return out
}

func ribbon(pts []v2.Vec, closed bool, half float64) []kernel.Triangle {
	if len(pts) < 2 || half <= 0 {
		return nil
	}
	n := len(pts)
	segs := n - 1
	if closed && n > 2 {
		segs = n
	}

	normals := make([]v2.Vec, segs)
	var tris []kernel.Triangle
	for i := 0; i < segs; i++ {
		p, q := pts[i], pts[(i+1)%n]
		d := q.Sub(p).Normalize()
		nv := v2.Vec{X: -d.Y, Y: d.X}.MulScalar(half)
		normals[i] = nv
		tris = appendOriented(tris,
			kernel.Triangle{p.Sub(nv), q.Sub(nv), q.Add(nv)},
			kernel.Triangle{p.Sub(nv), q.Add(nv), p.Add(nv)},
		)
	}

	join := func(v v2.Vec, in, out int) {
		n1, n2 := normals[in], normals[out]
		turn := n1.X*n2.Y - n1.Y*n2.X
		if math.Abs(turn) < minLength*half*half {
			return
		}
		// The gap opens on the outside of the turn.
		if turn > 0 {
			tris = appendOriented(tris, kernel.Triangle{v, v.Sub(n1), v.Sub(n2)})
		} else {
			tris = appendOriented(tris, kernel.Triangle{v, v.Add(n1), v.Add(n2)})
		}
	}
	for i := 1; i < segs; i++ {
		join(pts[i], i-1, i)
	}
	if segs == n {
		join(pts[0], segs-1, 0)
	}
	return tris
}

// appendOriented appends triangles wound with positive area, dropping
// degenerate ones.
func appendOriented(dst []kernel.Triangle, tris ...kernel.Triangle) []kernel.Triangle {
	for _, t := range tris {
		a := (t[1].X-t[0].X)*(t[2].Y-t[0].Y) - (t[1].Y-t[0].Y)*(t[2].X-t[0].X)
		switch {
		case a > 0:
			dst = append(dst, t)
		case a < 0:
			dst = append(dst, kernel.Triangle{t[0], t[2], t[1]})
		}
	}
	return dst
}
