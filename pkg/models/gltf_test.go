package models

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
)

// writeTriangleGLTF writes a one-triangle glTF with an embedded buffer, UVs,
// indices and a red material.
func writeTriangleGLTF(t *testing.T) string {
	t.Helper()
	le := binary.LittleEndian
	var buf []byte
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		buf = le.AppendUint32(buf, math.Float32bits(f))
	}
	for _, f := range []float32{0, 0, 1, 0, 0, 1} {
		buf = le.AppendUint32(buf, math.Float32bits(f))
	}
	for _, i := range []uint16{0, 1, 2} {
		buf = le.AppendUint16(buf, i)
	}

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 24},
    {"buffer": 0, "byteOffset": 60, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5126, "count": 3, "type": "VEC2"},
    {"bufferView": 2, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "materials": [{"name": "red", "pbrMetallicRoughness": {"baseColorFactor": [0.8, 0.1, 0.1, 1], "metallicFactor": 0, "roughnessFactor": 0.4}}],
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0, "TEXCOORD_0": 1}, "indices": 2, "material": 0}]}]
}`, len(buf), base64.StdEncoding.EncodeToString(buf))

	path := filepath.Join(t.TempDir(), "tri.gltf")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write gltf: %v", err)
	}
	return path
}

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
	if !loader.LoadTextures {
		t.Error("LoadTextures should default to true")
	}
}

// TestLoadGLTFTriangle verifies geometry, UVs, normals and materials.
func TestLoadGLTFTriangle(t *testing.T) {
	mesh, err := Load(writeTriangleGLTF(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if mesh.VertexCount() != 3 || mesh.TriangleCount() != 1 {
		t.Fatalf("Expected 3 vertices and 1 triangle, got %d and %d", mesh.VertexCount(), mesh.TriangleCount())
	}
	if mesh.Faces[0].Material != 0 {
		t.Errorf("Expected face material 0, got %d", mesh.Faces[0].Material)
	}
	if mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("Expected bounds max (1,1,0), got %v", mesh.BoundsMax)
	}
	// V is flipped to a bottom-left origin.
	if uv := mesh.Vertices[2].UV; uv != math3d.V2(0, 0) {
		t.Errorf("Expected flipped UV (0,0), got %v", uv)
	}
	for i, v := range mesh.Vertices {
		if !v.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-9) {
			t.Errorf("Vertex %d: expected computed +Z normal, got %v", i, v.Normal)
		}
	}

	if len(mesh.Materials) != 1 {
		t.Fatalf("Expected 1 material, got %d", len(mesh.Materials))
	}
	mat := mesh.Materials[0]
	if mat.Name != "red" || mat.BaseColor != [4]float64{0.8, 0.1, 0.1, 1} {
		t.Errorf("Unexpected material %+v", mat)
	}
	if mat.Metallic != 0 || mat.Roughness != 0.4 {
		t.Errorf("Expected metallic 0 roughness 0.4, got %f %f", mat.Metallic, mat.Roughness)
	}
}
