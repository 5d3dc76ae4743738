package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chazu/storey/pkg/kernel"
)

var (
	// ErrUnknownFloor is returned for a floor name that was never attached.
	ErrUnknownFloor = errors.New("scene: unknown floor")
	// ErrDisabled is returned when toggling a floor that failed to build.
	ErrDisabled = errors.New("scene: floor is disabled")
)

// Floor is one top-level group of the scene.
type Floor struct {
	Name    string
	Node    *Node
	Enabled bool // false for floors that failed to build
}

// Scene owns the floor groups. Attach is safe for concurrent use; floors are
// attached in whatever order they finish.
type Scene struct {
	mu       sync.Mutex
	root     *Node
	attached []*Floor
	byName   map[string]*Floor
	order    []*Floor // exposed order, set by Present
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		root:   NewNode("scene", nil),
		byName: map[string]*Floor{},
	}
}

// Attach adds a floor group under the scene root. A disabled floor is
// attached hidden.
func (s *Scene) Attach(name string, node *Node, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byName[name]; dup {
		return fmt.Errorf("scene: floor %q already attached", name)
	}
	if !enabled {
		node.Visible = false
	}
	f := &Floor{Name: name, Node: node, Enabled: enabled}
	s.attached = append(s.attached, f)
	s.byName[name] = f
	s.root.Add(node)
	return nil
}

// AttachOrder returns floor names in the order they were attached.
func (s *Scene) AttachOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.attached))
	for i, f := range s.attached {
		names[i] = f.Name
	}
	return names
}

// Present fixes the order in which Floors lists the groups. Every name must
// be attached.
func (s *Scene) Present(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := make([]*Floor, 0, len(names))
	for _, name := range names {
		f, ok := s.byName[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFloor, name)
		}
		order = append(order, f)
	}
	s.order = order
	return nil
}

// Floors returns the floors in presented order, or attach order before
// Present is called.
func (s *Scene) Floors() []Floor {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.order
	if src == nil {
		src = s.attached
	}
	out := make([]Floor, len(src))
	for i, f := range src {
		out[i] = *f
	}
	return out
}

// SetVisible shows or hides a floor group.
func (s *Scene) SetVisible(name string, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFloor, name)
	}
	if !f.Enabled {
		return fmt.Errorf("%w: %q", ErrDisabled, name)
	}
	f.Node.Visible = visible
	return nil
}

// Walk visits every visible node below the scene root.
func (s *Scene) Walk(fn func(n *Node, p Placement)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root.Walk(Root(), fn)
}

// Bounds returns the world bounding box of all visible meshes.
func (s *Scene) Bounds() kernel.Box {
	b := kernel.EmptyBox()
	s.Walk(func(n *Node, p Placement) {
		b = b.Union(p.Bounds(n.Mesh))
	})
	return b
}
