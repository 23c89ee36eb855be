package scene

import (
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// Light illuminates points in the scene.
type Light interface {
	Illuminate(p math3d.Vec3) ShadeProperty
}

// ShadeProperty is the light arriving at a point.
type ShadeProperty struct {
	Direction math3d.Vec3 // Unit vector from the light toward the point
	Intensity math3d.Vec3 // Irradiance at the point
	Distance  float64     // Distance to the light; +Inf for distant lights
}

// PointLight radiates from a position with inverse-square falloff.
type PointLight struct {
	Position  math3d.Vec3
	Color     math3d.Vec3
	Intensity float64
}

// NewPointLight creates a point light.
func NewPointLight(position, color math3d.Vec3, intensity float64) *PointLight {
	return &PointLight{Position: position, Color: color, Intensity: intensity}
}

func (l *PointLight) Illuminate(p math3d.Vec3) ShadeProperty {
	d := p.Sub(l.Position)
	r2 := d.LenSq()
	dist := math.Sqrt(r2)
	return ShadeProperty{
		Direction: d.Div(dist),
		Intensity: l.Color.Scale(l.Intensity / (4 * math.Pi * r2)),
		Distance:  dist,
	}
}

// DistantLight shines parallel rays from infinitely far away.
type DistantLight struct {
	Direction math3d.Vec3
	Color     math3d.Vec3
	Intensity float64
}

// NewDistantLight creates a distant light shining along dir.
func NewDistantLight(dir, color math3d.Vec3, intensity float64) *DistantLight {
	return &DistantLight{Direction: dir.Normalize(), Color: color, Intensity: intensity}
}

func (l *DistantLight) Illuminate(math3d.Vec3) ShadeProperty {
	return ShadeProperty{
		Direction: l.Direction,
		Intensity: l.Color.Scale(l.Intensity),
		Distance:  math.Inf(1),
	}
}
