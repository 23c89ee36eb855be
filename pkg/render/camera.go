package render

import (
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// View describes where the camera is and where it looks.
type View struct {
	Eye math3d.Vec3 // Position in world space
	Dir math3d.Vec3 // Look direction; need not be normalized
	FOV float64     // Vertical field of view in degrees
}

// Target returns the point one unit along the look direction.
func (v View) Target() math3d.Vec3 {
	return v.Eye.Add(v.Dir.Normalize())
}

// Camera generates primary rays for one image size.
type Camera struct {
	Width  int
	Height int

	eye     math3d.Vec3
	toWorld math3d.Mat4
	scale   float64 // tan(fov/2)
	aspect  float64
}

// Camera prepares ray generation for a width x height image.
func (v View) Camera(width, height int) Camera {
	return Camera{
		Width:   width,
		Height:  height,
		eye:     v.Eye,
		toWorld: math3d.CameraToWorld(v.Eye, v.Target(), math3d.Up()),
		scale:   math.Tan(math3d.Radians(v.FOV) * 0.5),
		aspect:  float64(width) / float64(height),
	}
}

// Ray returns the normalized world-space ray through the center of pixel
// (x, y). Pixel (0, 0) is the top-left corner.
func (c *Camera) Ray(x, y int) math3d.Ray {
	return c.RayAt(float64(x)+0.5, float64(y)+0.5)
}

// RayAt returns the ray through a continuous raster position.
func (c *Camera) RayAt(px, py float64) math3d.Ray {
	cx := (2*px/float64(c.Width) - 1) * c.aspect * c.scale
	cy := (1 - 2*py/float64(c.Height)) * c.scale
	dir := c.toWorld.MulVec3Dir(math3d.V3(cx, cy, -1))
	return math3d.NewRay(c.eye, dir)
}

// PrimaryRay returns the ray through pixel (x, y) of a width x height image.
// It builds a new Camera per call, so it suits one-off rays; loops over
// pixels should build the Camera once and call Camera.Ray.
func (v View) PrimaryRay(x, y, width, height int) math3d.Ray {
	c := v.Camera(width, height)
	return c.Ray(x, y)
}

// Orbit returns a view circling target at distance dist. Yaw turns around
// the Y axis and pitch tilts toward it, both in radians.
func Orbit(target math3d.Vec3, yaw, pitch, dist, fov float64) View {
	cp := math.Cos(pitch)
	offset := math3d.V3(math.Sin(yaw)*cp, math.Sin(pitch), math.Cos(yaw)*cp).Scale(dist)
	eye := target.Add(offset)
	return View{Eye: eye, Dir: target.Sub(eye), FOV: fov}
}
