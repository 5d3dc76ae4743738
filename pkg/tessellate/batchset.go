package tessellate

import "github.com/chazu/storey/pkg/kernel"

// SectionBatch collects the surfaces of one extruded layer.
type SectionBatch struct {
	Outlines []*kernel.Mesh // flat fill and stroke surfaces
	Solids   []*kernel.Mesh // extruded fill shapes
}

// IsEmpty reports whether the section produced no surfaces at all.
func (s *SectionBatch) IsEmpty() bool {
	return s == nil || len(s.Outlines)+len(s.Solids) == 0
}

// BatchSet accumulates surfaces for one floor before merging. It is built by
// a single goroutine and consumed once.
type BatchSet struct {
	Sections   map[string]*SectionBatch
	Slab       []*kernel.Mesh
	Decoration []*kernel.Mesh
}

// NewBatchSet returns an empty set.
func NewBatchSet() *BatchSet {
	return &BatchSet{Sections: map[string]*SectionBatch{}}
}

// Section returns the batch for id, nil when the layer produced nothing.
func (b *BatchSet) Section(id string) *SectionBatch {
	return b.Sections[id]
}

func (b *BatchSet) section(id string) *SectionBatch {
	s, ok := b.Sections[id]
	if !ok {
		s = &SectionBatch{}
		b.Sections[id] = s
	}
	return s
}

// SurfaceCount returns the number of surfaces across all buckets.
func (b *BatchSet) SurfaceCount() int {
	n := len(b.Slab) + len(b.Decoration)
	for _, s := range b.Sections {
		n += len(s.Outlines) + len(s.Solids)
	}
	return n
}

// SolidCount returns the number of extruded solids across all sections.
func (b *BatchSet) SolidCount() int {
	n := 0
	for _, s := range b.Sections {
		n += len(s.Solids)
	}
	return n
}
