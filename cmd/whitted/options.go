package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/models"
	"github.com/taigrr/whitted/pkg/render"
	"github.com/taigrr/whitted/pkg/scene"
	"github.com/taigrr/whitted/pkg/scenes"
)

// checkerTexture is the --texture value selecting the built-in checkerboard.
const checkerTexture = "checker"

var (
	errUnknownScene   = errors.New("unknown scene")
	errUnknownFresnel = errors.New("unknown fresnel model")
	errNoModel        = errors.New("mesh scene needs --model")
	errBadRotation    = errors.New("--rotate needs three angles")
)

// sceneOptions are the flags shared by render and view.
type sceneOptions struct {
	scene   string
	model   string
	fov     float64
	depth   int
	workers int
	bg      string
	fresnel string
	texture string
	rotate  []float64
}

func (o *sceneOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.scene, "scene", "spheres", "Scene to render (spheres|mesh)")
	f.StringVarP(&o.model, "model", "m", "", "Model for the mesh scene (.glb, .gltf, .obj, .geo)")
	f.Float64Var(&o.fov, "fov", 0, "Vertical field of view in degrees (0 keeps the scene's)")
	f.IntVar(&o.depth, "depth", render.MaxRayDepth, "Maximum ray recursion depth")
	f.IntVar(&o.workers, "workers", 0, "Render tiles (0 = one per CPU)")
	f.StringVar(&o.bg, "bg", "", "Background color as hex, e.g. #4d4d4d")
	f.StringVar(&o.fresnel, "fresnel", "exact", "Fresnel model (exact|schlick)")
	f.Float64SliceVar(&o.rotate, "rotate", nil, "Rotate the model by x,y,z degrees")
	f.StringVarP(&o.texture, "texture", "t", "", "Texture image (PNG/JPG) or \"checker\" applied to every object")
}

// build loads the selected scene. A model path alone implies the mesh scene.
func (o *sceneOptions) build() (scenes.Scene, error) {
	name := strings.ToLower(o.scene)
	if o.model != "" && name == "spheres" {
		name = "mesh"
	}

	var s scenes.Scene
	switch name {
	case "spheres":
		s = scenes.Spheres()
	case "mesh":
		if o.model == "" {
			return scenes.Scene{}, errNoModel
		}
		mesh, err := models.Load(o.model)
		if err != nil {
			return scenes.Scene{}, fmt.Errorf("load model: %w", err)
		}
		if len(o.rotate) > 0 {
			if len(o.rotate) != 3 {
				return scenes.Scene{}, errBadRotation
			}
			angles := math3d.V3(math3d.Radians(o.rotate[0]), math3d.Radians(o.rotate[1]), math3d.Radians(o.rotate[2]))
			mesh.Transform(math3d.RotateXYZ(angles))
		}
		s, err = scenes.MeshScene(mesh)
		if err != nil {
			return scenes.Scene{}, err
		}
	default:
		return scenes.Scene{}, fmt.Errorf("%w: %q", errUnknownScene, o.scene)
	}

	if o.fov > 0 {
		s.View.FOV = o.fov
	}
	if o.texture != "" {
		if err := o.applyTexture(s.Objects); err != nil {
			return scenes.Scene{}, err
		}
	}
	return s, nil
}

// applyTexture replaces the texture of every sphere and mesh.
func (o *sceneOptions) applyTexture(objects []scene.Object) error {
	var tex *scene.Texture
	if strings.EqualFold(o.texture, checkerTexture) {
		tex = scene.NewCheckerTexture(64, 64, 8, math3d.Splat(0.8), math3d.Splat(0.4))
	} else {
		var err error
		if tex, err = scene.LoadTexture(o.texture); err != nil {
			return fmt.Errorf("load texture: %w", err)
		}
	}
	for _, obj := range objects {
		switch obj := obj.(type) {
		case *scene.Sphere:
			obj.Material.Texture = tex
		case *scene.TriangleMesh:
			obj.Material.Texture = tex
		}
	}
	return nil
}

// tracer applies the shading flags to the scene's default tracer.
func (o *sceneOptions) tracer(s scenes.Scene) (*render.Tracer, error) {
	t := s.Tracer()
	t.MaxDepth = o.depth

	switch strings.ToLower(o.fresnel) {
	case "", "exact":
		t.Fresnel = render.FresnelExact
	case "schlick":
		t.Fresnel = render.FresnelSchlick
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFresnel, o.fresnel)
	}

	if o.bg != "" {
		bg, err := parseColor(o.bg)
		if err != nil {
			return nil, err
		}
		t.Background = bg
	}
	return t, nil
}

func (o *sceneOptions) renderer(t *render.Tracer) *render.Renderer {
	r := render.NewRenderer(t)
	r.Workers = o.workers
	return r
}

// parseColor accepts "#rrggbb" or "rrggbb".
func parseColor(s string) (math3d.Vec3, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return math3d.Vec3{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return math3d.V3(c.R, c.G, c.B), nil
}
