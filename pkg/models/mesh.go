// Package models holds the scene graph, geometry and animation clips of a
// loaded asset.
package models

import (
	"github.com/taigrr/vitrine/pkg/math3d"
)

// Mesh is one triangle primitive of the asset, in the local space of the
// node that owns it.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// BaseColor is the material base color factor, RGBA in 0-1 range.
	BaseColor [4]float64
	// Texture is the material base color texture, or nil.
	Texture *Texture
	hasUVs  bool

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face represents a triangle face with vertex indices.
type Face struct {
	V [3]int // Indices into Mesh.Vertices
}

// NewMesh creates an empty mesh with a white base color.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Vertices:  make([]MeshVertex, 0),
		Faces:     make([]Face, 0),
		BaseColor: [4]float64{1, 1, 1, 1},
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Bounds returns the local bounding box, or an empty box for a mesh with no vertices.
func (m *Mesh) Bounds() math3d.AABB {
	if len(m.Vertices) == 0 {
		return math3d.EmptyAABB()
	}
	return math3d.NewAABB(m.BoundsMin, m.BoundsMax)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// HasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}

// HasUVs reports whether the vertices carry texture coordinates.
func (m *Mesh) HasUVs() bool {
	return m.hasUVs
}

// CalculateSmoothNormals computes averaged normals for smooth shading.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	// Unnormalized face normals weight each contribution by triangle area.
	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position

		normal := v1.Sub(v0).Cross(v2.Sub(v0))

		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// CalculateFlatNormals gives every face three vertices of its own that
// carry the face normal, so lighting is constant across each triangle.
func (m *Mesh) CalculateFlatNormals() {
	verts := make([]MeshVertex, 0, len(m.Faces)*3)
	for i, f := range m.Faces {
		a, b, c := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position)).Normalize()
		a.Normal, b.Normal, c.Normal = n, n, n

		base := len(verts)
		verts = append(verts, a, b, c)
		m.Faces[i].V = [3]int{base, base + 1, base + 2}
	}
	m.Vertices = verts
}

// GetVertex returns the position, normal, and UV for vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

