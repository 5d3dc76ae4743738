package tessellate_test

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chazu/storey/pkg/classify"
	"github.com/chazu/storey/pkg/drawing"
	"github.com/chazu/storey/pkg/kernel"
	"github.com/chazu/storey/pkg/kernel/prism"
	"github.com/chazu/storey/pkg/plan"
	"github.com/chazu/storey/pkg/tessellate"
)

func rectRecord(layer string, x, y, w, h float64) drawing.PathRecord {
	return drawing.PathRecord{
		Element: "rect",
		Layer:   layer,
		Fill:    "black",
		Stroke:  drawing.None,
		Subpaths: []drawing.Subpath{{Closed: true, Points: []v2.Vec{
			{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
		}}},
	}
}

func lineRecord(layer string, width float64, closed bool, pts ...v2.Vec) drawing.PathRecord {
	return drawing.PathRecord{
		Element:     "path",
		Layer:       layer,
		Fill:        drawing.None,
		Stroke:      "black",
		StrokeWidth: width,
		Subpaths:    []drawing.Subpath{{Points: pts, Closed: closed}},
	}
}

func surfaceArea(m *kernel.Mesh) float64 {
	total := 0.0
	for i := 0; i < m.VertexCount(); i += 3 {
		a, b, c := m.Vertex(i), m.Vertex(i+1), m.Vertex(i+2)
		total += b.Sub(a).Cross(c.Sub(a)).Length() / 2
	}
	return total
}

func assertFacesUp(t *testing.T, m *kernel.Mesh) {
	t.Helper()
	for i := 0; i < m.VertexCount(); i++ {
		require.InDelta(t, 1.0, m.Normal(i).Z, 1e-9, "normal %d", i)
		require.InDelta(t, 0.0, m.Vertex(i).Z, 1e-12, "vertex %d", i)
	}
}

func TestFillSurface(t *testing.T) {
	rec := rectRecord("walls", 0, 0, 100, 50)
	mesh, err := tessellate.FillSurface("r", tessellate.FillShapes(rec))
	require.NoError(t, err)
	assert.Equal(t, 2, mesh.TriangleCount())
	assert.InDelta(t, 5000, surfaceArea(mesh), 1e-9)
	assertFacesUp(t, mesh)
}

func TestFillShapes_NestedRectIsHole(t *testing.T) {
	outer := rectRecord("", 0, 0, 10, 10)
	inner := rectRecord("", 2, 2, 6, 6)
	outer.Subpaths = append(outer.Subpaths, inner.Subpaths...)
	shapes := tessellate.FillShapes(outer)
	require.Len(t, shapes, 1)
	require.Len(t, shapes[0].Holes, 1)

	mesh, err := tessellate.FillSurface("r", shapes)
	require.NoError(t, err)
	assert.InDelta(t, 64, surfaceArea(mesh), 1e-9)
}

func TestStrokeSurface(t *testing.T) {
	tests := []struct {
		name  string
		rec   drawing.PathRecord
		tris  int
		area  float64
		delta float64
	}{
		{
			name: "segment",
			rec:  lineRecord("", 2, false, v2.Vec{}, v2.Vec{X: 10}),
			tris: 2,
			area: 20,
		},
		{
			name: "corner with bevel",
			rec:  lineRecord("", 2, false, v2.Vec{}, v2.Vec{X: 10}, v2.Vec{X: 10, Y: 10}),
			tris: 5,
			area: 40 + 0.5,
		},
		{
			name: "closed square",
			rec: lineRecord("", 2, true,
				v2.Vec{}, v2.Vec{X: 10}, v2.Vec{X: 10, Y: 10}, v2.Vec{Y: 10}),
			tris: 12,
			area: 80 + 4*0.5,
		},
		{
			name: "collinear join adds nothing",
			rec:  lineRecord("", 2, false, v2.Vec{}, v2.Vec{X: 5}, v2.Vec{X: 10}),
			tris: 4,
			area: 20,
		},
		{
			name: "repeated points",
			rec:  lineRecord("", 2, false, v2.Vec{}, v2.Vec{}, v2.Vec{X: 10}),
			tris: 2,
			area: 20,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := tessellate.StrokeSurface("s", tt.rec)
			assert.Equal(t, tt.tris, mesh.TriangleCount())
			assert.InDelta(t, tt.area, surfaceArea(mesh), 1e-9)
			assertFacesUp(t, mesh)
		})
	}
}

func TestStrokeSurface_Bounds(t *testing.T) {
	mesh := tessellate.StrokeSurface("s", lineRecord("", 4, false, v2.Vec{}, v2.Vec{X: 10}))
	b := mesh.Bounds()
	assert.InDelta(t, -2, b.Min.Y, 1e-12)
	assert.InDelta(t, 2, b.Max.Y, 1e-12)
	assert.InDelta(t, 0, b.Min.X, 1e-12)
	assert.InDelta(t, 10, b.Max.X, 1e-12)
}

func newBuilder(t *testing.T) *tessellate.Builder {
	return tessellate.NewBuilder(prism.New(), zaptest.NewLogger(t))
}

func TestBuild_Buckets(t *testing.T) {
	spec := plan.FloorSpec{
		Name:             "Ground",
		Scale:            0.01,
		ExtrudedSections: []string{"walls"},
		FloorLayer:       "floor",
		ExtrudeDepth:     30,
	}
	invisible := rectRecord("walls", 0, 0, 10, 10)
	invisible.Fill = drawing.None
	recs := []drawing.PathRecord{
		rectRecord("walls", 0, 0, 100, 10),
		rectRecord("floor", 0, 0, 100, 50),
		lineRecord("furniture", 1, false, v2.Vec{}, v2.Vec{X: 5}),
		invisible,
	}

	set, err := newBuilder(t).Build(recs, spec)
	require.NoError(t, err)

	walls := set.Section("walls")
	require.NotNil(t, walls)
	assert.Len(t, walls.Outlines, 1)
	require.Len(t, walls.Solids, 1)
	b := walls.Solids[0].Bounds()
	assert.InDelta(t, 0, b.Min.Z, 1e-12)
	assert.InDelta(t, 30, b.Max.Z, 1e-12)

	assert.Len(t, set.Slab, 1)
	assert.Len(t, set.Decoration, 1)
	assert.Equal(t, 4, set.SurfaceCount())
}

func TestBuild_NoSectionsNoSolids(t *testing.T) {
	spec := plan.FloorSpec{Name: "Roof", Scale: 1, FloorLayer: "floor", ExtrudeDepth: 30}
	recs := []drawing.PathRecord{
		rectRecord("walls", 0, 0, 100, 10),
		rectRecord("floor", 0, 0, 100, 50),
	}
	set, err := newBuilder(t).Build(recs, spec)
	require.NoError(t, err)
	assert.Zero(t, set.SolidCount())
	assert.Empty(t, set.Sections)
	assert.Len(t, set.Slab, 1)
	assert.Len(t, set.Decoration, 1)
}

func TestBuild_SectionAndSlabLayerExtrudes(t *testing.T) {
	spec := plan.FloorSpec{Name: "F", Scale: 1, ExtrudedSections: []string{"shell"}, FloorLayer: "shell", ExtrudeDepth: 5}
	set, err := newBuilder(t).Build([]drawing.PathRecord{rectRecord("shell", 0, 0, 1, 1)}, spec)
	require.NoError(t, err)
	assert.Empty(t, set.Slab)
	assert.Len(t, set.Section("shell").Solids, 1)
}

func TestAdd_StrokeOnlyExtrudedLayerHasNoSolid(t *testing.T) {
	set := tessellate.NewBatchSet()
	rec := lineRecord("walls", 2, false, v2.Vec{}, v2.Vec{X: 10})
	err := newBuilder(t).Add(set, rec, classify.Bucket{Kind: classify.Extrude, Section: "walls"}, 30, 0)
	require.NoError(t, err)
	sec := set.Section("walls")
	assert.Len(t, sec.Outlines, 1)
	assert.Empty(t, sec.Solids)
	assert.False(t, sec.IsEmpty())
}

func TestSectionBatch_IsEmpty(t *testing.T) {
	var nilBatch *tessellate.SectionBatch
	assert.True(t, nilBatch.IsEmpty())
	assert.True(t, (&tessellate.SectionBatch{}).IsEmpty())
}
