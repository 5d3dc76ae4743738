package kernel

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a non-indexed triangle list. Every three consecutive vertices form
// one triangle and no vertex is shared between triangles, so meshes can be
// concatenated without index rewriting.
// Vertices has 3 floats per vertex (x,y,z); Normals has 3 floats per vertex.
type Mesh struct {
	Name     string    `json:"name"`
	Vertices []float64 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float64 `json:"normals"`  // [nx0,ny0,nz0, ...]
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 9
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i int) v3.Vec {
	return v3.Vec{X: m.Vertices[3*i], Y: m.Vertices[3*i+1], Z: m.Vertices[3*i+2]}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) v3.Vec {
	return v3.Vec{X: m.Normals[3*i], Y: m.Normals[3*i+1], Z: m.Normals[3*i+2]}
}

// AddTriangle appends triangle (a, b, c) with its face normal.
func (m *Mesh) AddTriangle(a, b, c v3.Vec) {
	n := FaceNormal(a, b, c)
	for _, v := range [3]v3.Vec{a, b, c} {
		m.Vertices = append(m.Vertices, v.X, v.Y, v.Z)
		m.Normals = append(m.Normals, n.X, n.Y, n.Z)
	}
}

// Append concatenates the geometry of o onto m.
func (m *Mesh) Append(o *Mesh) {
	m.Vertices = append(m.Vertices, o.Vertices...)
	m.Normals = append(m.Normals, o.Normals...)
}

// Clone returns a deep copy of m under a new name.
func (m *Mesh) Clone(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: append([]float64(nil), m.Vertices...),
		Normals:  append([]float64(nil), m.Normals...),
	}
}

// RecomputeNormals replaces every vertex normal with its triangle's face
// normal. On a non-indexed mesh this is the only normal that is well defined.
func (m *Mesh) RecomputeNormals() {
	if len(m.Normals) != len(m.Vertices) {
		m.Normals = make([]float64, len(m.Vertices))
	}
	for t := 0; t < m.TriangleCount(); t++ {
		n := FaceNormal(m.Vertex(3*t), m.Vertex(3*t+1), m.Vertex(3*t+2))
		for j := 0; j < 3; j++ {
			k := 9*t + 3*j
			m.Normals[k], m.Normals[k+1], m.Normals[k+2] = n.X, n.Y, n.Z
		}
	}
}

// Bounds computes the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() Box {
	b := EmptyBox()
	for i := 0; i < m.VertexCount(); i++ {
		b = b.Include(m.Vertex(i))
	}
	return b
}

// FaceNormal returns the unit normal of triangle (a, b, c) following the
// right-hand rule, or the zero vector for a degenerate triangle.
func FaceNormal(a, b, c v3.Vec) v3.Vec {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() == 0 {
		return v3.Vec{}
	}
	return n.Normalize()
}
