package drawing

import (
	"fmt"

	"github.com/beevik/etree"
)

// LayerResolver maps a leaf element to the id of the logical layer that
// contains it.
type LayerResolver interface {
	Resolve(el *etree.Element) (string, error)
}

// AncestorResolver takes the id of the group Depth levels above the leaf.
// With the default depth of 2 a drawing is laid out as
// layer-group > sub-group > shape. The id may be empty, which classifies the
// shape as decoration.
type AncestorResolver struct {
	Depth int
}

// DefaultResolver is the layer-group > sub-group > shape convention.
func DefaultResolver() AncestorResolver { return AncestorResolver{Depth: 2} }

func (r AncestorResolver) Resolve(el *etree.Element) (string, error) {
	depth := r.Depth
	if depth <= 0 {
		depth = 2
	}
	cur := el
	for i := 0; i < depth; i++ {
		cur = cur.Parent()
		// The document itself is the parent of the root element and has no tag.
		if cur == nil || cur.Tag == "" {
			return "", fmt.Errorf("%w: <%s id=%q> has no ancestor %d levels up",
				ErrStructure, el.Tag, el.SelectAttrValue("id", ""), depth)
		}
	}
	if cur.Tag != "g" {
		return "", fmt.Errorf("%w: <%s id=%q> ancestor %d levels up is <%s>, want <g>",
			ErrStructure, el.Tag, el.SelectAttrValue("id", ""), depth, cur.Tag)
	}
	return cur.SelectAttrValue("id", ""), nil
}

// NearestGroupResolver takes the id of the closest enclosing group that has
// one. Shapes outside any identified group resolve to the empty layer.
type NearestGroupResolver struct{}

func (NearestGroupResolver) Resolve(el *etree.Element) (string, error) {
	for cur := el.Parent(); cur != nil && cur.Tag != ""; cur = cur.Parent() {
		if cur.Tag != "g" {
			continue
		}
		if id := cur.SelectAttrValue("id", ""); id != "" {
			return id, nil
		}
	}
	return "", nil
}
