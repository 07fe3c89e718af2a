// Package models loads mesh geometry from OBJ and glTF files into a common
// indexed triangle representation.
package models

import (
	"github.com/taigrr/meadow/pkg/math3d"
)

// Mesh is an indexed triangle mesh. Front faces wind counter-clockwise.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

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

// Face is a triangle of indices into Mesh.Vertices.
type Face struct {
	V [3]int
}

// FloatsPerVertex is the stride of Interleave's output.
const FloatsPerVertex = 8

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateSmoothNormals replaces every normal with the area-weighted
// average of the faces sharing the vertex.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}

	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position

		// Unnormalized, so larger faces weigh more.
		normal := v1.Sub(v0).Cross(v2.Sub(v0))

		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		n := m.Vertices[i].Normal.Normalize()
		if n.LenSq() == 0 {
			n = math3d.Up()
		}
		m.Vertices[i].Normal = n
	}
}

// GetVertex returns the position, normal, and UV for vertex i.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// Interleave flattens the mesh into a non-indexed float32 vertex stream of
// position, normal and uv per vertex, three vertices per face, ready for a
// single vertex buffer upload.
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Faces)*3*FloatsPerVertex)
	for _, f := range m.Faces {
		for _, idx := range f.V {
			v := m.Vertices[idx]
			out = append(out,
				float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z),
				float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z),
				float32(v.UV.X), float32(v.UV.Y),
			)
		}
	}
	return out
}
