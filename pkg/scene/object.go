package scene

import (
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// Object is a piece of renderable geometry.
type Object interface {
	// Intersect reports the nearest hit in front of orig along dir.
	// dir must be normalized.
	Intersect(orig, dir math3d.Vec3) (IntersectInfo, bool)
	// SurfaceProperties returns the shading data at a hit reported by Intersect.
	SurfaceProperties(hitPoint math3d.Vec3, info IntersectInfo) Surface
}

// IntersectInfo describes a ray hit.
type IntersectInfo struct {
	Distance      float64
	Object        Object
	TriangleIndex int         // Meshes only
	UV            math3d.Vec2 // Barycentric coordinates for meshes
}

// NoHit returns an IntersectInfo seeded for a closest-hit search.
func NoHit() IntersectInfo {
	return IntersectInfo{Distance: math.Inf(1), TriangleIndex: -1}
}

// Surface is the shading data at a point on an object.
type Surface struct {
	Normal    math3d.Vec3
	TexCoords math3d.Vec2
	Material  *Material
}

// Color returns the surface color, textured if the material has a texture.
func (s Surface) Color() math3d.Vec3 {
	return s.Material.ColorAt(s.TexCoords)
}

// Nearest returns the closest hit among objects. Hits at or beyond maxDist
// are ignored.
func Nearest(objects []Object, orig, dir math3d.Vec3, maxDist float64) (IntersectInfo, bool) {
	best := NoHit()
	best.Distance = maxDist
	found := false
	for _, obj := range objects {
		info, ok := obj.Intersect(orig, dir)
		if ok && info.Distance < best.Distance {
			best = info
			found = true
		}
	}
	return best, found
}

// Occluded reports whether any object blocks the segment from orig along dir
// shorter than maxDist.
func Occluded(objects []Object, orig, dir math3d.Vec3, maxDist float64) bool {
	for _, obj := range objects {
		if info, ok := obj.Intersect(orig, dir); ok && info.Distance < maxDist {
			return true
		}
	}
	return false
}
