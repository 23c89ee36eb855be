package scene

import (
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// Sphere is an analytic sphere.
type Sphere struct {
	Center   math3d.Vec3
	Radius   float64
	Material Material

	radius2 float64
}

// NewSphere creates a sphere.
func NewSphere(center math3d.Vec3, radius float64, material Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
		radius2:  radius * radius,
	}
}

// Intersect uses the geometric solution. When orig is inside the sphere the
// far root is returned.
func (s *Sphere) Intersect(orig, dir math3d.Vec3) (IntersectInfo, bool) {
	if s.Radius <= 0 {
		return IntersectInfo{}, false
	}
	l := s.Center.Sub(orig)
	l2 := l.LenSq()
	tca := l.Dot(dir)
	if tca < 0 && l2 > s.radius2 {
		return IntersectInfo{}, false
	}
	d2 := l2 - tca*tca
	if d2 > s.radius2 {
		return IntersectInfo{}, false
	}
	thc := math.Sqrt(s.radius2 - d2)
	t0, t1 := tca-thc, tca+thc
	if t1 < 0 {
		return IntersectInfo{}, false
	}
	t := t0
	if t < 0 {
		t = t1
	}
	return IntersectInfo{Distance: t, Object: s, TriangleIndex: -1}, true
}

// SurfaceProperties returns the outward normal and spherical texture
// coordinates.
func (s *Sphere) SurfaceProperties(hitPoint math3d.Vec3, _ IntersectInfo) Surface {
	n := hitPoint.Sub(s.Center).Normalize()
	return Surface{
		Normal: n,
		TexCoords: math3d.V2(
			(1+math.Atan2(n.Z, n.X)/math.Pi)*0.5,
			math.Acos(clamp(n.Y, -1, 1))/math.Pi,
		),
		Material: &s.Material,
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
