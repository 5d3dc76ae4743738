package drawing

import (
	"strings"

	"github.com/beevik/etree"
)

// Style holds the inheritable paint properties that matter for geometry.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Hidden      bool // display:none on this element or an ancestor
}

// DefaultStyle is the SVG initial value: black fill, no stroke, width 1.
func DefaultStyle() Style {
	return Style{Fill: "black", Stroke: None, StrokeWidth: 1}
}

// inherit returns the style of el given its parent's style. Inline style
// declarations override presentation attributes.
func (s Style) inherit(el *etree.Element) Style {
	props := map[string]string{}
	for _, key := range []string{"fill", "stroke", "stroke-width", "display"} {
		if v := el.SelectAttrValue(key, ""); v != "" {
			props[key] = v
		}
	}
	for k, v := range parseDeclarations(el.SelectAttrValue("style", "")) {
		props[k] = v
	}

	out := s
	if v, ok := props["fill"]; ok && v != "inherit" {
		out.Fill = normalizePaint(v)
	}
	if v, ok := props["stroke"]; ok && v != "inherit" {
		out.Stroke = normalizePaint(v)
	}
	if v, ok := props["stroke-width"]; ok && v != "inherit" {
		// Unparseable widths keep the inherited value.
		if w, err := parseLength(v); err == nil && w >= 0 {
			out.StrokeWidth = w
		}
	}
	if strings.TrimSpace(props["display"]) == "none" {
		out.Hidden = true
	}
	return out
}

// parseDeclarations splits a CSS declaration list ("fill:#fff; stroke:none").
func parseDeclarations(css string) map[string]string {
	out := map[string]string{}
	for _, decl := range strings.Split(css, ";") {
		kv := strings.SplitN(decl, ":", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])
		val = strings.TrimSpace(strings.TrimSuffix(val, "!important"))
		if key != "" && val != "" {
			out[key] = val
		}
	}
	return out
}

func normalizePaint(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}
