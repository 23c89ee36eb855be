package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
)

const squareOBJ = `# unit square
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
f 1//1 3//1 4//1
`

// TestLoadOBJ verifies triangles, shared vertices and bounds.
func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.obj")
	if err := os.WriteFile(path, []byte(squareOBJ), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	mesh, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}
	if mesh.VertexCount() != 4 {
		t.Errorf("Expected shared corners to dedupe to 4 vertices, got %d", mesh.VertexCount())
	}
	if mesh.BoundsMin != math3d.Zero3() || mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("Unexpected bounds %v %v", mesh.BoundsMin, mesh.BoundsMax)
	}
	for i, v := range mesh.Vertices {
		if !v.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-12) {
			t.Errorf("Vertex %d: expected +Z normal, got %v", i, v.Normal)
		}
	}
}

func TestLoadOBJInvalidPath(t *testing.T) {
	if _, err := LoadOBJ("/nonexistent/model.obj"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}
