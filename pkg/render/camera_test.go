package render

import (
	"math"
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
)

// TestPrimaryRayCenter verifies the middle of the image looks along Dir.
func TestPrimaryRayCenter(t *testing.T) {
	tests := []struct {
		name string
		view View
	}{
		{"down -Z", View{Eye: math3d.Zero3(), Dir: math3d.V3(0, 0, -1), FOV: 60}},
		{"reference spheres", View{Eye: math3d.V3(0, 20, 40), Dir: math3d.V3(0, -0.5, -20), FOV: 15}},
		{"straight down", View{Eye: math3d.V3(0, 10, 0), Dir: math3d.V3(0, -1, 0), FOV: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// With an odd size the center pixel sits on the axis.
			r := tt.view.PrimaryRay(50, 50, 101, 101)
			if r.Origin != tt.view.Eye {
				t.Errorf("Expected origin %v, got %v", tt.view.Eye, r.Origin)
			}
			if !r.Direction.ApproxEqual(tt.view.Dir.Normalize(), 1e-12) {
				t.Errorf("Expected direction %v, got %v", tt.view.Dir.Normalize(), r.Direction)
			}
		})
	}
}

// TestPrimaryRayFieldOfView verifies the edges span the field of view.
func TestPrimaryRayFieldOfView(t *testing.T) {
	view := View{Dir: math3d.V3(0, 0, -1), FOV: 90}
	cam := view.Camera(200, 100)

	top := cam.RayAt(100, 0).Direction
	if math.Abs(top.Y/-top.Z-1) > 1e-12 {
		t.Errorf("Expected top edge at 45 degrees, got slope %f", top.Y/-top.Z)
	}
	right := cam.RayAt(200, 50).Direction
	if math.Abs(right.X/-right.Z-2) > 1e-12 {
		t.Errorf("Expected aspect-corrected right edge slope 2, got %f", right.X/-right.Z)
	}
	if r := cam.Ray(0, 0).Direction; r.X >= 0 || r.Y <= 0 {
		t.Errorf("Expected pixel (0,0) toward the top left, got %v", r)
	}
}

// TestOrbit verifies orbit views look at the target from dist away.
func TestOrbit(t *testing.T) {
	target := math3d.V3(1, 2, 3)
	v := Orbit(target, 0.7, 0.3, 12, 40)

	if d := v.Eye.Distance(target); math.Abs(d-12) > 1e-12 {
		t.Errorf("Expected distance 12, got %f", d)
	}
	if !v.Target().Sub(v.Eye).ApproxEqual(target.Sub(v.Eye).Normalize(), 1e-12) {
		t.Errorf("Expected view aimed at target")
	}
	if front := Orbit(math3d.Zero3(), 0, 0, 5, 40); !front.Eye.ApproxEqual(math3d.V3(0, 0, 5), 1e-12) {
		t.Errorf("Expected zero yaw and pitch on +Z, got %v", front.Eye)
	}
}
