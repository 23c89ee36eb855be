package models

import (
	"fmt"
	"path/filepath"

	"github.com/fogleman/fauxgl"
	"github.com/taigrr/whitted/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file. Faces are triangulated by the parser
// and vertices with identical attributes are shared.
func LoadOBJ(path string) (*Mesh, error) {
	src, err := fauxgl.LoadOBJ(path)
	if err != nil {
		return nil, fmt.Errorf("load obj: %w", err)
	}
	if len(src.Triangles) == 0 {
		return nil, fmt.Errorf("load obj: %s has no triangles", path)
	}
	return meshFromFauxGL(filepath.Base(path), src), nil
}

func meshFromFauxGL(name string, src *fauxgl.Mesh) *Mesh {
	mesh := NewMesh(name)
	index := make(map[MeshVertex]int)

	vertex := func(v fauxgl.Vertex) int {
		mv := MeshVertex{
			Position: vec3(v.Position),
			Normal:   vec3(v.Normal).Normalize(),
			UV:       math3d.V2(v.Texture.X, v.Texture.Y),
		}
		if i, ok := index[mv]; ok {
			return i
		}
		index[mv] = len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, mv)
		return index[mv]
	}

	for _, t := range src.Triangles {
		mesh.AddTriangle(vertex(t.V1), vertex(t.V2), vertex(t.V3), -1)
	}

	if !mesh.HasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh
}

func vec3(v fauxgl.Vector) math3d.Vec3 {
	return math3d.V3(v.X, v.Y, v.Z)
}
