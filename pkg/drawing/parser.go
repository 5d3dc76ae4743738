package drawing

import (
	"fmt"

	"github.com/beevik/etree"
)

// Options control how a drawing is read.
type Options struct {
	// Resolver assigns layer ids. Nil means DefaultResolver.
	Resolver LayerResolver
	// CurveSegments is the flattening resolution for curves. Zero means
	// DefaultCurveSegments.
	CurveSegments int
}

func (o Options) withDefaults() Options {
	if o.Resolver == nil {
		o.Resolver = DefaultResolver()
	}
	if o.CurveSegments <= 0 {
		o.CurveSegments = DefaultCurveSegments
	}
	return o
}

// containers are traversed; everything not listed here or in leafElements
// is skipped together with its subtree (defs, clipPath, mask, symbol, ...).
var containers = map[string]bool{
	"svg":    true,
	"g":      true,
	"a":      true,
	"switch": true,
}

// Parse reads an SVG document and returns its drawable elements in document
// order.
//
// Precondition: data is the complete document.
// Postcondition: on success every record has its transforms applied and a
// resolved layer; on failure the error wraps ErrParse or ErrStructure.
func Parse(data []byte, opts Options) ([]PathRecord, error) {
	opts = opts.withDefaults()

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrParse)
	}
	if root.Tag != "svg" {
		return nil, fmt.Errorf("%w: root element is <%s>, want <svg>", ErrParse, root.Tag)
	}

	w := &walker{opts: opts}
	if err := w.visit(root, DefaultStyle(), Identity()); err != nil {
		return nil, err
	}
	return w.records, nil
}

type walker struct {
	opts    Options
	records []PathRecord
}

func (w *walker) visit(el *etree.Element, parent Style, ctm Affine) error {
	style := parent.inherit(el)
	if style.Hidden {
		return nil
	}
	local, err := ParseTransform(el.SelectAttrValue("transform", ""))
	if err != nil {
		return fmt.Errorf("<%s id=%q>: %w", el.Tag, el.SelectAttrValue("id", ""), err)
	}
	ctm = ctm.Mul(local)

	if containers[el.Tag] {
		for _, child := range el.ChildElements() {
			if err := w.visit(child, style, ctm); err != nil {
				return err
			}
		}
		return nil
	}

	geometry, ok := leafElements[el.Tag]
	if !ok {
		return nil
	}
	subpaths, err := geometry(el, w.opts.CurveSegments)
	if err != nil {
		return fmt.Errorf("<%s id=%q>: %w", el.Tag, el.SelectAttrValue("id", ""), err)
	}
	layer, err := w.opts.Resolver.Resolve(el)
	if err != nil {
		return err
	}

	for i := range subpaths {
		for j, p := range subpaths[i].Points {
			subpaths[i].Points[j] = ctm.Apply(p)
		}
	}
	w.records = append(w.records, PathRecord{
		Element:     el.Tag,
		ID:          el.SelectAttrValue("id", ""),
		Layer:       layer,
		Fill:        style.Fill,
		Stroke:      style.Stroke,
		StrokeWidth: style.StrokeWidth * ctm.UniformScale(),
		Subpaths:    subpaths,
	})
	return nil
}
