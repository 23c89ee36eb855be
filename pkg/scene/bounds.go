package scene

import (
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// boundsPad widens mesh bounds so flat meshes keep a non-zero slab.
const boundsPad = 1e-6

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// EmptyAABB returns an inverted box that any Extend call replaces.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: math3d.Splat(inf), Max: math3d.Splat(-inf)}
}

// BoundsOf returns the smallest box containing points.
func BoundsOf(points []math3d.Vec3) AABB {
	b := EmptyAABB()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Empty reports whether the box contains nothing.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to contain p.
func (b AABB) Extend(p math3d.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Pad grows the box by d on every side.
func (b AABB) Pad(d float64) AABB {
	return AABB{Min: b.Min.Sub(math3d.Splat(d)), Max: b.Max.Add(math3d.Splat(d))}
}

// Center returns the center of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the box.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Transform returns the box bounding all 8 corners after m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	out := EmptyAABB()
	for i := range 8 {
		corner := b.Min
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		out = out.Extend(m.MulVec3(corner))
	}
	return out
}

// IntersectRay clips the ray against the box with the slab method and
// returns the parametric entry and exit distances. Hits behind the origin
// are rejected; an origin inside the box yields tmin < 0.
func (b AABB) IntersectRay(orig, dir math3d.Vec3) (tmin, tmax float64, ok bool) {
	if b.Empty() {
		return 0, 0, false
	}
	tmin, tmax = math.Inf(-1), math.Inf(1)
	slabs := [3][4]float64{
		{orig.X, dir.X, b.Min.X, b.Max.X},
		{orig.Y, dir.Y, b.Min.Y, b.Max.Y},
		{orig.Z, dir.Z, b.Min.Z, b.Max.Z},
	}
	for _, s := range slabs {
		o, d, lo, hi := s[0], s[1], s[2], s[3]
		if d == 0 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		t0, t1 := (lo-o)/d, (hi-o)/d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = max(tmin, t0)
		tmax = min(tmax, t1)
		if tmin > tmax {
			return 0, 0, false
		}
	}
	return tmin, tmax, tmax >= 0
}
