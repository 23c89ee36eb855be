package render

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/taigrr/whitted/pkg/scene"
	"golang.org/x/sync/errgroup"
)

// ErrTilePanic is returned when rendering a tile panicked.
var ErrTilePanic = errors.New("render tile panicked")

// Tile is a half-open range of image rows [Y0, Y1).
type Tile struct {
	Y0, Y1 int
}

// Tiles splits rows [0, height) into n equal tiles plus one tile holding the
// remainder, if any. n is capped at height.
func Tiles(height, n int) []Tile {
	if height <= 0 {
		return nil
	}
	n = max(1, min(n, height))
	rows := height / n

	tiles := make([]Tile, 0, n+1)
	for i := range n {
		tiles = append(tiles, Tile{Y0: i * rows, Y1: (i + 1) * rows})
	}
	if n*rows < height {
		tiles = append(tiles, Tile{Y0: n * rows, Y1: height})
	}
	return tiles
}

// Renderer fills images by tracing one primary ray per pixel, with the rows
// split into tiles rendered concurrently.
type Renderer struct {
	Tracer  *Tracer
	Workers int // Tile count; <= 0 means runtime.NumCPU()
}

// NewRenderer creates a renderer using tracer and one tile per CPU.
func NewRenderer(tracer *Tracer) *Renderer {
	return &Renderer{Tracer: tracer}
}

func (r *Renderer) workers() int {
	if r.Workers <= 0 {
		return runtime.NumCPU()
	}
	return r.Workers
}

// Render traces every pixel of img as seen from view. It returns once all
// tiles are done, with the first tile failure if any.
func (r *Renderer) Render(view View, img *Image) error {
	if err := img.Validate(); err != nil {
		return err
	}
	tracer := r.Tracer
	if tracer == nil {
		tracer = NewTracer(nil, nil)
	}
	cam := view.Camera(img.Width, img.Height)

	var g errgroup.Group
	for _, tile := range Tiles(img.Height, r.workers()) {
		g.Go(func() error {
			return renderTile(tracer, &cam, img, tile)
		})
	}
	return g.Wait()
}

// renderTile writes only the pixels of rows [tile.Y0, tile.Y1).
func renderTile(tracer *Tracer, cam *Camera, img *Image, tile Tile) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: rows [%d,%d): %v", ErrTilePanic, tile.Y0, tile.Y1, p)
		}
	}()

	for y := tile.Y0; y < tile.Y1; y++ {
		row := img.Pixels[y*img.Width : (y+1)*img.Width]
		for x := range row {
			ray := cam.Ray(x, y)
			row[x] = tracer.Trace(ray.Origin, ray.Direction, 0)
		}
	}
	return nil
}

// Render draws objects lit by lights into img with the default tracer
// settings and one tile per CPU.
func Render(view View, objects []scene.Object, lights []scene.Light, img *Image) error {
	return NewRenderer(NewTracer(objects, lights)).Render(view, img)
}
