package render

import (
	"errors"
	"testing"

	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/scene"
)

// TestTiles verifies rows are covered exactly once with one remainder tile.
func TestTiles(t *testing.T) {
	tests := []struct {
		name   string
		height int
		n      int
		want   int
	}{
		{"even split", 8, 4, 4},
		{"remainder", 10, 4, 5},
		{"large remainder", 7, 4, 5},
		{"more workers than rows", 3, 8, 3},
		{"single worker", 5, 1, 1},
		{"zero workers", 5, 0, 1},
		{"empty", 0, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles := Tiles(tt.height, tt.n)
			if len(tiles) != tt.want {
				t.Fatalf("Expected %d tiles, got %d: %v", tt.want, len(tiles), tiles)
			}
			next := 0
			for _, tile := range tiles {
				if tile.Y0 != next || tile.Y1 <= tile.Y0 {
					t.Fatalf("Tile %v does not continue from row %d", tile, next)
				}
				next = tile.Y1
			}
			if next != tt.height {
				t.Errorf("Tiles end at row %d, want %d", next, tt.height)
			}
		})
	}
}

// TestRenderInvalidImage verifies contract violations fail loudly.
func TestRenderInvalidImage(t *testing.T) {
	tests := []struct {
		name string
		img  *Image
	}{
		{"nil", nil},
		{"zero width", NewImage(0, 4)},
		{"negative height", &Image{Width: 4, Height: -1}},
		{"short buffer", &Image{Width: 4, Height: 4, Pixels: make([]math3d.Vec3, 15)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Render(View{Dir: math3d.V3(0, 0, -1), FOV: 60}, nil, nil, tt.img)
			if !errors.Is(err, ErrInvalidImage) {
				t.Errorf("Expected ErrInvalidImage, got %v", err)
			}
		})
	}
}

// TestRenderEmptyScene verifies an empty scene renders solid background.
func TestRenderEmptyScene(t *testing.T) {
	img := NewImage(9, 7)
	if err := Render(View{Dir: math3d.V3(0, 0, -1), FOV: 45}, nil, nil, img); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i, p := range img.Pixels {
		if p != DefaultBackground {
			t.Fatalf("Pixel %d: expected background, got %v", i, p)
		}
	}
}

// TestRenderDeterministicAcrossWorkers verifies the tiled render matches a
// single-tile render pixel for pixel.
func TestRenderDeterministicAcrossWorkers(t *testing.T) {
	objects, lights := redGlassScene()
	lights = append(lights, scene.NewDistantLight(math3d.V3(-1, -1, -1), math3d.V3(0.5, 0.5, 0.4), 0.8))
	view := View{Eye: math3d.V3(0, 5, 20), Dir: math3d.V3(0, -0.25, -1), FOV: 40}

	reference := NewImage(37, 23)
	single := &Renderer{Tracer: NewTracer(objects, lights), Workers: 1}
	if err := single.Render(view, reference); err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, workers := range []int{2, 5, 8, 64} {
		img := NewImage(37, 23)
		r := &Renderer{Tracer: NewTracer(objects, lights), Workers: workers}
		if err := r.Render(view, img); err != nil {
			t.Fatalf("Render with %d workers: %v", workers, err)
		}
		for i := range img.Pixels {
			if img.Pixels[i] != reference.Pixels[i] {
				t.Fatalf("%d workers: pixel %d differs: %v vs %v", workers, i, img.Pixels[i], reference.Pixels[i])
			}
		}
	}
}

// TestRenderRedGlassScene renders the ground and red glass sphere with the
// camera tilted up so the corners see only sky.
func TestRenderRedGlassScene(t *testing.T) {
	objects, lights := redGlassScene()
	eye := math3d.V3(0, -3.5, 0)
	view := View{Eye: eye, Dir: math3d.V3(0, 0, -20).Sub(eye), FOV: 18}

	img := NewImage(32, 32)
	if err := Render(view, objects, lights, img); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if c := img.At(16, 16); c == DefaultBackground {
		t.Errorf("Expected the sphere at the image center, got background")
	}
	corners := [][2]int{{0, 0}, {31, 0}, {0, 31}, {31, 31}}
	for _, c := range corners {
		if got := img.At(c[0], c[1]); got != DefaultBackground {
			t.Errorf("Corner %v: expected background, got %v", c, got)
		}
	}
}

type panicObject struct{}

func (panicObject) Intersect(math3d.Vec3, math3d.Vec3) (scene.IntersectInfo, bool) {
	panic("malformed object")
}

func (panicObject) SurfaceProperties(math3d.Vec3, scene.IntersectInfo) scene.Surface {
	return scene.Surface{}
}

// TestRenderTilePanic verifies a panicking tile is reported to the caller.
func TestRenderTilePanic(t *testing.T) {
	img := NewImage(8, 8)
	r := &Renderer{Tracer: NewTracer([]scene.Object{panicObject{}}, nil), Workers: 4}

	err := r.Render(View{Dir: math3d.V3(0, 0, -1), FOV: 60}, img)
	if !errors.Is(err, ErrTilePanic) {
		t.Errorf("Expected ErrTilePanic, got %v", err)
	}
}

func BenchmarkRender(b *testing.B) {
	objects, lights := redGlassScene()
	view := View{Eye: math3d.V3(0, 5, 20), Dir: math3d.V3(0, -0.25, -1), FOV: 40}
	r := NewRenderer(NewTracer(objects, lights))
	img := NewImage(64, 48)
	for b.Loop() {
		if err := r.Render(view, img); err != nil {
			b.Fatal(err)
		}
	}
}
