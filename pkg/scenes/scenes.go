// Package scenes builds the reference scenes.
package scenes

import (
	"fmt"

	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/models"
	"github.com/taigrr/whitted/pkg/render"
	"github.com/taigrr/whitted/pkg/scene"
)

// MeshSize is the largest dimension a mesh is scaled to in MeshScene.
const MeshSize = 8

// DefaultMeshMaterial shades meshes that carry no material of their own.
var DefaultMeshMaterial = scene.NewMaterial(math3d.Splat(0.8), 0, 0)

// Scene is everything needed for one render.
type Scene struct {
	Objects []scene.Object
	Lights  []scene.Light
	View    render.View
	Focus   math3d.Vec3 // Point interactive views orbit around
}

// Spheres returns five spheres on a giant ground sphere lit by one point
// light, seen from above and in front of the red glass sphere.
func Spheres() Scene {
	eye := math3d.V3(0, 20, 40)
	return Scene{
		Objects: []scene.Object{
			scene.NewSphere(math3d.V3(0, -10004, -20), 10000, scene.NewMaterial(math3d.V3(0.2, 0.2, 0.2), 0, 0)),
			scene.NewSphere(math3d.V3(0, 0, -20), 4, scene.NewMaterial(math3d.V3(1, 0.32, 0.36), 1, 1)),
			scene.NewSphere(math3d.V3(5, -1, -15), 2, scene.NewMaterial(math3d.V3(0.9, 0.76, 0.46), 0.7, 0.7)),
			scene.NewSphere(math3d.V3(5, 0, -25), 3, scene.NewMaterial(math3d.V3(0.65, 0.77, 0.97), 0.5, 0)),
			scene.NewSphere(math3d.V3(-5.5, 0, -15), 3, scene.NewMaterial(math3d.V3(0.1, 0.1, 0.1), 1, 0)),
		},
		Lights: []scene.Light{
			scene.NewPointLight(math3d.V3(5, 20, -30), math3d.Splat(1), 2000),
		},
		View: render.View{
			Eye: eye,
			Dir: math3d.V3(0, -0.5, -20).Sub(eye),
			FOV: 15,
		},
		Focus: math3d.V3(0, 0, -20),
	}
}

// MeshScene centers mesh at the origin, scales it to MeshSize and lights it
// with the reference point light plus a distant fill light. The mesh is
// modified in place.
func MeshScene(mesh *models.Mesh) (Scene, error) {
	mesh.Normalize(MeshSize)
	obj, err := mesh.TriangleMesh(math3d.Identity(), mesh.Material(DefaultMeshMaterial))
	if err != nil {
		return Scene{}, fmt.Errorf("mesh scene: %w", err)
	}
	return Scene{
		Objects: []scene.Object{obj},
		Lights: []scene.Light{
			scene.NewPointLight(math3d.V3(5, 20, -30), math3d.Splat(1), 2000),
			scene.NewDistantLight(math3d.V3(-1, -1, -1), math3d.Splat(1), 1),
		},
		View: render.View{
			Eye: math3d.V3(0, 0, 40),
			Dir: math3d.Forward(),
			FOV: 15,
		},
	}, nil
}

// Tracer returns a tracer over the scene with default settings.
func (s Scene) Tracer() *render.Tracer {
	return render.NewTracer(s.Objects, s.Lights)
}
