// Package models loads meshes from files and converts them into renderable
// scene objects.
package models

import (
	"fmt"
	"image"

	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/scene"
)

// Mesh is a loaded polygon mesh with per-vertex attributes.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

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

// Face is a convex polygon with at least three vertices.
type Face struct {
	V        []int // Indices into Mesh.Vertices, counter-clockwise
	Material int   // Index into Mesh.Materials (-1 for no material)
}

// Material is the subset of a PBR material the tracer can use.
type Material struct {
	Name       string
	BaseColor  [4]float64  // RGBA factor in 0-1 range
	Metallic   float64     // 0 = dielectric, 1 = metal
	Roughness  float64     // 0 = smooth, 1 = rough
	BaseMap    image.Image // Optional base color texture
	HasTexture bool
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// AddTriangle appends a triangle face.
func (m *Mesh) AddTriangle(a, b, c, material int) {
	m.Faces = append(m.Faces, Face{V: []int{a, b, c}, Material: material})
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

// TriangleCount returns the number of triangles after fan triangulation.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, f := range m.Faces {
		n += max(0, len(f.V)-2)
	}
	return n
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// faceNormal returns the unnormalized normal of a face's first triangle.
func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// CalculateNormals assigns each face's normal to its vertices. Vertices shared
// between faces keep the normal of the last face.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		for _, idx := range f.V {
			m.Vertices[idx].Normal = n
		}
	}
}

// CalculateSmoothNormals computes area-weighted averaged vertex normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		n := m.faceNormal(f) // Don't normalize yet
		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(n)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// HasNormals reports whether any vertex carries a normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

// Transform applies a transformation matrix to all vertices. Normals are
// transformed by the inverse transpose.
func (m *Mesh) Transform(mat math3d.Mat4) {
	normalMat := mat.Inverse().Transpose()
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = normalMat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// Normalize centers the mesh on the origin and scales it uniformly so its
// largest dimension equals size.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	extent := m.Size().MaxComponent()
	if extent == 0 {
		m.Transform(math3d.Translate(m.Center().Negate()))
		return
	}
	m.Transform(math3d.ScaleUniform(size / extent).Mul(math3d.Translate(m.Center().Negate())))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	for i, f := range m.Faces {
		clone.Faces[i] = Face{V: append([]int(nil), f.V...), Material: f.Material}
	}
	copy(clone.Materials, m.Materials)
	return clone
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// Material derives a tracer material from the mesh's first material.
// Metallic smooth surfaces become mirrors and base color alpha becomes
// transparency. Meshes without materials use fallback.
func (m *Mesh) Material(fallback scene.Material) scene.Material {
	src := m.GetMaterial(0)
	if src == nil {
		return fallback
	}
	c := src.BaseColor
	mat := scene.NewMaterial(
		math3d.V3(c[0], c[1], c[2]),
		src.Metallic*(1-src.Roughness),
		1-c[3],
	)
	if src.HasTexture && src.BaseMap != nil {
		mat.Texture = scene.TextureFromImage(src.BaseMap)
	}
	return mat
}

// TriangleMesh converts the mesh into a render object placed by
// objectToWorld.
func (m *Mesh) TriangleMesh(objectToWorld math3d.Mat4, material scene.Material) (*scene.TriangleMesh, error) {
	faceIndex := make([]int, len(m.Faces))
	var vertsIndex []int
	for i, f := range m.Faces {
		faceIndex[i] = len(f.V)
		vertsIndex = append(vertsIndex, f.V...)
	}

	verts := make([]math3d.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		verts[i] = v.Position
	}

	var normals []math3d.Vec3
	if m.HasNormals() {
		normals = make([]math3d.Vec3, len(vertsIndex))
		for k, idx := range vertsIndex {
			if idx >= 0 && idx < len(m.Vertices) {
				normals[k] = m.Vertices[idx].Normal
			}
		}
	}

	st := make([]math3d.Vec2, len(vertsIndex))
	for k, idx := range vertsIndex {
		if idx >= 0 && idx < len(m.Vertices) {
			st[k] = m.Vertices[idx].UV
		}
	}

	tm, err := scene.NewTriangleMesh(objectToWorld, faceIndex, vertsIndex, verts, normals, st, material)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
	}
	return tm, nil
}
