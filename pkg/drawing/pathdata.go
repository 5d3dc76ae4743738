package drawing

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// DefaultCurveSegments is the number of line segments per bezier curve, and
// per quarter turn of an elliptical arc.
const DefaultCurveSegments = 12

// pathBuilder accumulates subpaths while path commands are interpreted.
type pathBuilder struct {
	subpaths []Subpath
	current  []v2.Vec
	start    v2.Vec
	pen      v2.Vec
}

func (b *pathBuilder) moveTo(p v2.Vec) {
	b.flush(false)
	b.current = []v2.Vec{p}
	b.start, b.pen = p, p
}

func (b *pathBuilder) lineTo(p v2.Vec) {
	if b.current == nil {
		b.current = []v2.Vec{b.pen}
	}
	b.current = append(b.current, p)
	b.pen = p
}

func (b *pathBuilder) close() {
	b.flush(true)
	b.pen = b.start
}

func (b *pathBuilder) flush(closed bool) {
	if len(b.current) > 1 {
		pts := b.current
		if closed && len(pts) > 1 && pts[0] == pts[len(pts)-1] {
			pts = pts[:len(pts)-1]
		}
		b.subpaths = append(b.subpaths, Subpath{Points: pts, Closed: closed})
	}
	b.current = nil
}

// ParsePathData interprets an SVG path "d" attribute. Supports M, L, H, V, C,
// S, Q, T, A and Z in absolute and relative form. Curves are flattened into
// segments line pieces. Malformed data wraps ErrParse.
func ParsePathData(d string, segments int) ([]Subpath, error) {
	if segments <= 0 {
		segments = DefaultCurveSegments
	}
	sc := &scanner{s: d}
	b := &pathBuilder{}

	var cmd byte
	var lastCtrl v2.Vec
	var prevCmd byte

	pair := func(rel bool) (v2.Vec, error) {
		x, err := sc.number()
		if err != nil {
			return v2.Vec{}, err
		}
		y, err := sc.number()
		if err != nil {
			return v2.Vec{}, err
		}
		p := v2.Vec{X: x, Y: y}
		if rel {
			p = p.Add(b.pen)
		}
		return p, nil
	}

	for !sc.done() {
		c := sc.s[sc.pos]
		if isCommand(c) {
			cmd = c
			sc.pos++
		} else if cmd == 0 {
			return nil, fmt.Errorf("%w: path data must start with a command: %q", ErrParse, d)
		}

		rel := cmd >= 'a' && cmd <= 'z'
		upper := cmd &^ 0x20

		var err error
		switch upper {
		case 'M':
			var p v2.Vec
			if p, err = pair(rel); err == nil {
				b.moveTo(p)
				// Further coordinate pairs are implicit line-tos.
				if rel {
					cmd = 'l'
				} else {
					cmd = 'L'
				}
			}
		case 'L':
			var p v2.Vec
			if p, err = pair(rel); err == nil {
				b.lineTo(p)
			}
		case 'H':
			var x float64
			if x, err = sc.number(); err == nil {
				if rel {
					x += b.pen.X
				}
				b.lineTo(v2.Vec{X: x, Y: b.pen.Y})
			}
		case 'V':
			var y float64
			if y, err = sc.number(); err == nil {
				if rel {
					y += b.pen.Y
				}
				b.lineTo(v2.Vec{X: b.pen.X, Y: y})
			}
		case 'C', 'S':
			c1 := b.pen
			if upper == 'C' {
				c1, err = pair(rel)
			} else if p := prevCmd &^ 0x20; p == 'C' || p == 'S' {
				c1 = b.pen.MulScalar(2).Sub(lastCtrl)
			}
			var c2, end v2.Vec
			if err == nil {
				c2, err = pair(rel)
			}
			if err == nil {
				end, err = pair(rel)
			}
			if err == nil {
				for _, p := range cubicPoints(b.pen, c1, c2, end, segments) {
					b.lineTo(p)
				}
				lastCtrl = c2
			}
		case 'Q', 'T':
			c1 := b.pen
			if upper == 'Q' {
				c1, err = pair(rel)
			} else if p := prevCmd &^ 0x20; p == 'Q' || p == 'T' {
				c1 = b.pen.MulScalar(2).Sub(lastCtrl)
			}
			var end v2.Vec
			if err == nil {
				end, err = pair(rel)
			}
			if err == nil {
				for _, p := range quadPoints(b.pen, c1, end, segments) {
					b.lineTo(p)
				}
				lastCtrl = c1
			}
		case 'A':
			err = arcCommand(sc, b, rel, segments)
		case 'Z':
			b.close()
		default:
			err = fmt.Errorf("unsupported command %q", cmd)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: path data: %v", ErrParse, err)
		}
		prevCmd = cmd
		if upper == 'Z' {
			// Z takes no arguments; a following number is an error unless a
			// new command appears.
			cmd = 0
		}
	}
	b.flush(false)
	return b.subpaths, nil
}

func isCommand(c byte) bool {
	switch c &^ 0x20 {
	case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T', 'A', 'Z':
		return true
	}
	return false
}

func arcCommand(sc *scanner, b *pathBuilder, rel bool, segments int) error {
	rx, err := sc.number()
	if err != nil {
		return err
	}
	ry, err := sc.number()
	if err != nil {
		return err
	}
	rot, err := sc.number()
	if err != nil {
		return err
	}
	large, err := sc.flag()
	if err != nil {
		return err
	}
	sweep, err := sc.flag()
	if err != nil {
		return err
	}
	x, err := sc.number()
	if err != nil {
		return err
	}
	y, err := sc.number()
	if err != nil {
		return err
	}
	end := v2.Vec{X: x, Y: y}
	if rel {
		end = end.Add(b.pen)
	}
	for _, p := range arcPoints(b.pen, rx, ry, rot, large, sweep, end, segments) {
		b.lineTo(p)
	}
	return nil
}

// cubicPoints samples a cubic bezier, excluding the start point.
func cubicPoints(p0, p1, p2, p3 v2.Vec, n int) []v2.Vec {
	pts := make([]v2.Vec, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		pts = append(pts, v2.Vec{
			X: u*u*u*p0.X + 3*u*u*t*p1.X + 3*u*t*t*p2.X + t*t*t*p3.X,
			Y: u*u*u*p0.Y + 3*u*u*t*p1.Y + 3*u*t*t*p2.Y + t*t*t*p3.Y,
		})
	}
	pts[n-1] = p3
	return pts
}

// quadPoints samples a quadratic bezier, excluding the start point.
func quadPoints(p0, p1, p2 v2.Vec, n int) []v2.Vec {
	pts := make([]v2.Vec, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		pts = append(pts, v2.Vec{
			X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
			Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
		})
	}
	pts[n-1] = p2
	return pts
}

// arcPoints samples an SVG elliptical arc from p0 to p1 using the
// endpoint-to-center conversion of SVG 1.1 appendix F.6.5. The start point
// is excluded; the end point is exact.
func arcPoints(p0 v2.Vec, rx, ry, rotDeg float64, large, sweep bool, p1 v2.Vec, segments int) []v2.Vec {
	if p0 == p1 {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return []v2.Vec{p1}
	}

	phi := rotDeg * math.Pi / 180
	cos, sin := math.Cos(phi), math.Sin(phi)
	dx2 := (p0.X - p1.X) / 2
	dy2 := (p0.Y - p1.Y) / 2
	x1 := cos*dx2 + sin*dy2
	y1 := -sin*dx2 + cos*dy2

	// Scale radii up when the endpoints are too far apart.
	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := 0.0
	if den > 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1 / ry
	cyp := -coef * ry * x1 / rx
	cx := cos*cxp - sin*cyp + (p0.X+p1.X)/2
	cy := sin*cxp + cos*cyp + (p0.Y+p1.Y)/2

	angle := func(ux, uy, vx, vy float64) float64 {
		return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	}
	theta := angle(1, 0, (x1-cxp)/rx, (y1-cyp)/ry)
	delta := angle((x1-cxp)/rx, (y1-cyp)/ry, (-x1-cxp)/rx, (-y1-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(float64(segments) * math.Abs(delta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	pts := make([]v2.Vec, 0, n)
	for i := 1; i <= n; i++ {
		t := theta + delta*float64(i)/float64(n)
		ct, st := math.Cos(t), math.Sin(t)
		pts = append(pts, v2.Vec{
			X: cx + rx*ct*cos - ry*st*sin,
			Y: cy + rx*ct*sin + ry*st*cos,
		})
	}
	pts[n-1] = p1
	return pts
}
