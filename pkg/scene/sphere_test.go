package scene

import (
	"math"
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
)

const eps = 1e-9

// TestSphereIntersectDistance verifies the near root from outside and the far
// root from inside.
func TestSphereIntersectDistance(t *testing.T) {
	s := NewSphere(math3d.V3(0, 0, -10), 2, Diffuse(math3d.Splat(1)))

	tests := []struct {
		name string
		orig math3d.Vec3
		dir  math3d.Vec3
		want float64
	}{
		{"outside", math3d.V3(0, 0, 0), math3d.V3(0, 0, -1), 8},
		{"inside at center", math3d.V3(0, 0, -10), math3d.V3(0, 0, -1), 2},
		{"inside off center", math3d.V3(0, 0, -9), math3d.V3(0, 0, -1), 3},
		{"inside facing away from center", math3d.V3(0, 0, -11), math3d.V3(0, 0, -1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := s.Intersect(tt.orig, tt.dir)
			if !ok {
				t.Fatal("Expected hit")
			}
			if math.Abs(info.Distance-tt.want) > eps {
				t.Errorf("Expected distance %f, got %f", tt.want, info.Distance)
			}
			if info.Object != s {
				t.Errorf("Expected hit object to be the sphere")
			}
		})
	}
}

// TestSphereMiss verifies rays that never reach the sphere.
func TestSphereMiss(t *testing.T) {
	tests := []struct {
		name   string
		sphere *Sphere
		orig   math3d.Vec3
		dir    math3d.Vec3
	}{
		{"behind", NewSphere(math3d.V3(0, 0, 10), 1, Material{}), math3d.Zero3(), math3d.V3(0, 0, -1)},
		{"beside", NewSphere(math3d.V3(5, 0, -10), 1, Material{}), math3d.Zero3(), math3d.V3(0, 0, -1)},
		{"zero radius", NewSphere(math3d.V3(0, 0, -10), 0, Material{}), math3d.Zero3(), math3d.V3(0, 0, -1)},
		{"negative radius", NewSphere(math3d.V3(0, 0, -10), -3, Material{}), math3d.Zero3(), math3d.V3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.sphere.Intersect(tt.orig, tt.dir); ok {
				t.Errorf("Expected miss")
			}
		})
	}
}

// TestSphereSurfaceProperties verifies the normal and texture coordinates.
func TestSphereSurfaceProperties(t *testing.T) {
	s := NewSphere(math3d.V3(1, 2, 3), 2, Diffuse(math3d.V3(1, 0, 0)))

	top := s.SurfaceProperties(math3d.V3(1, 4, 3), IntersectInfo{})
	if !top.Normal.ApproxEqual(math3d.V3(0, 1, 0), eps) {
		t.Errorf("Expected up normal, got %v", top.Normal)
	}
	if math.Abs(top.TexCoords.Y) > eps {
		t.Errorf("Expected v=0 at the pole, got %f", top.TexCoords.Y)
	}

	side := s.SurfaceProperties(math3d.V3(3, 2, 3), IntersectInfo{})
	if math.Abs(side.TexCoords.X-0.5) > eps || math.Abs(side.TexCoords.Y-0.5) > eps {
		t.Errorf("Expected uv (0.5, 0.5) on +X, got %v", side.TexCoords)
	}
	if side.Material != &s.Material {
		t.Errorf("Expected surface to reference the sphere material")
	}
}

// TestNearestPicksClosest verifies the closest-hit search across objects.
func TestNearestPicksClosest(t *testing.T) {
	far := NewSphere(math3d.V3(0, 0, -20), 1, Material{})
	near := NewSphere(math3d.V3(0, 0, -10), 1, Material{})
	objects := []Object{far, near}

	info, ok := Nearest(objects, math3d.Zero3(), math3d.V3(0, 0, -1), math.Inf(1))
	if !ok {
		t.Fatal("Expected hit")
	}
	if info.Object != near {
		t.Errorf("Expected nearest sphere, got %v", info.Object)
	}

	if _, ok := Nearest(objects, math3d.Zero3(), math3d.V3(0, 0, 1), math.Inf(1)); ok {
		t.Errorf("Expected miss looking away")
	}
	if !Occluded(objects, math3d.Zero3(), math3d.V3(0, 0, -1), 15) {
		t.Errorf("Expected occlusion within 15")
	}
	if Occluded(objects, math3d.Zero3(), math3d.V3(0, 0, -1), 5) {
		t.Errorf("Expected no occlusion within 5")
	}
}

func BenchmarkSphereIntersect(b *testing.B) {
	s := NewSphere(math3d.V3(0, 0, -10), 2, Material{})
	dir := math3d.V3(0.1, 0.05, -1).Normalize()
	for b.Loop() {
		_, _ = s.Intersect(math3d.Zero3(), dir)
	}
}
