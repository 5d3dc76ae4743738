package drawing

import (
	"fmt"
	"math"

	"github.com/beevik/etree"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// leafElements maps supported drawable tags to their geometry converters.
var leafElements = map[string]func(el *etree.Element, segments int) ([]Subpath, error){
	"path":     pathGeometry,
	"rect":     rectGeometry,
	"circle":   circleGeometry,
	"ellipse":  ellipseGeometry,
	"line":     lineGeometry,
	"polyline": polyGeometry(false),
	"polygon":  polyGeometry(true),
}

func pathGeometry(el *etree.Element, segments int) ([]Subpath, error) {
	return ParsePathData(el.SelectAttrValue("d", ""), segments)
}

// attrs reads the named length attributes; missing ones default to zero.
func attrs(el *etree.Element, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		raw := el.SelectAttrValue(name, "")
		if raw == "" {
			continue
		}
		v, err := parseLength(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: <%s> attribute %s=%q", ErrParse, el.Tag, name, raw)
		}
		out[i] = v
	}
	return out, nil
}

func rectGeometry(el *etree.Element, segments int) ([]Subpath, error) {
	a, err := attrs(el, "x", "y", "width", "height", "rx", "ry")
	if err != nil {
		return nil, err
	}
	x, y, w, h, rx, ry := a[0], a[1], a[2], a[3], a[4], a[5]
	if w <= 0 || h <= 0 {
		return nil, nil
	}
	// A single radius applies to both axes.
	if el.SelectAttr("ry") == nil {
		ry = rx
	}
	if el.SelectAttr("rx") == nil {
		rx = ry
	}
	rx = math.Min(math.Max(rx, 0), w/2)
	ry = math.Min(math.Max(ry, 0), h/2)

	if rx == 0 || ry == 0 {
		return []Subpath{{Closed: true, Points: []v2.Vec{
			{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
		}}}, nil
	}

	var pts []v2.Vec
	corners := []struct {
		c     v2.Vec
		start float64
	}{
		{v2.Vec{X: x + w - rx, Y: y + ry}, -math.Pi / 2},
		{v2.Vec{X: x + w - rx, Y: y + h - ry}, 0},
		{v2.Vec{X: x + rx, Y: y + h - ry}, math.Pi / 2},
		{v2.Vec{X: x + rx, Y: y + ry}, math.Pi},
	}
	for _, corner := range corners {
		for i := 0; i <= segments; i++ {
			t := corner.start + float64(i)/float64(segments)*math.Pi/2
			pts = append(pts, v2.Vec{
				X: corner.c.X + rx*math.Cos(t),
				Y: corner.c.Y + ry*math.Sin(t),
			})
		}
	}
	return []Subpath{{Points: pts, Closed: true}}, nil
}

func circleGeometry(el *etree.Element, segments int) ([]Subpath, error) {
	a, err := attrs(el, "cx", "cy", "r")
	if err != nil {
		return nil, err
	}
	return ellipsePoints(a[0], a[1], a[2], a[2], segments), nil
}

func ellipseGeometry(el *etree.Element, segments int) ([]Subpath, error) {
	a, err := attrs(el, "cx", "cy", "rx", "ry")
	if err != nil {
		return nil, err
	}
	return ellipsePoints(a[0], a[1], a[2], a[3], segments), nil
}

func ellipsePoints(cx, cy, rx, ry float64, segments int) []Subpath {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	n := 4 * segments
	pts := make([]v2.Vec, n)
	for i := range pts {
		t := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = v2.Vec{X: cx + rx*math.Cos(t), Y: cy + ry*math.Sin(t)}
	}
	return []Subpath{{Points: pts, Closed: true}}
}

func lineGeometry(el *etree.Element, _ int) ([]Subpath, error) {
	a, err := attrs(el, "x1", "y1", "x2", "y2")
	if err != nil {
		return nil, err
	}
	return []Subpath{{Points: []v2.Vec{{X: a[0], Y: a[1]}, {X: a[2], Y: a[3]}}}}, nil
}

func polyGeometry(closed bool) func(el *etree.Element, _ int) ([]Subpath, error) {
	return func(el *etree.Element, _ int) ([]Subpath, error) {
		nums, err := parseNumberList(el.SelectAttrValue("points", ""))
		if err != nil {
			return nil, fmt.Errorf("%w: <%s> points: %v", ErrParse, el.Tag, err)
		}
		if len(nums)%2 != 0 {
			return nil, fmt.Errorf("%w: <%s> points has an odd coordinate count", ErrParse, el.Tag)
		}
		if len(nums) < 4 {
			return nil, nil
		}
		pts := make([]v2.Vec, 0, len(nums)/2)
		for i := 0; i < len(nums); i += 2 {
			pts = append(pts, v2.Vec{X: nums[i], Y: nums[i+1]})
		}
		return []Subpath{{Points: pts, Closed: closed}}, nil
	}
}
