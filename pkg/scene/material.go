// Package scene defines the renderable geometry, materials and lights the
// tracer consumes. Everything here is immutable once constructed, so a scene
// can be shared by every render tile without locking.
package scene

import "github.com/taigrr/whitted/pkg/math3d"

// Default material parameters.
const (
	DefaultAlbedo    = 0.18
	DefaultIOR       = 1.0
	DefaultGlassIOR  = 1.5
	AmbientMediumIOR = 1.0
)

// Material describes how a surface responds to light.
// IOR only matters when Transparency > 0.
type Material struct {
	Color        math3d.Vec3 // Base color (RGB, 0-1)
	Transparency float64     // 0 = opaque, 1 = fully transmissive
	Reflection   float64     // 0 = diffuse, 1 = mirror
	IOR          float64     // Index of refraction
	Albedo       float64     // Diffuse reflectance
	Texture      *Texture    // Optional; modulates Color by UV
}

// NewMaterial creates a material with the default albedo. Transparent
// materials get the glass IOR, opaque ones the IOR of air.
func NewMaterial(color math3d.Vec3, reflection, transparency float64) Material {
	ior := DefaultIOR
	if transparency > 0 {
		ior = DefaultGlassIOR
	}
	return Material{
		Color:        color,
		Transparency: transparency,
		Reflection:   reflection,
		IOR:          ior,
		Albedo:       DefaultAlbedo,
	}
}

// Diffuse creates an opaque, non-reflective material.
func Diffuse(color math3d.Vec3) Material {
	return NewMaterial(color, 0, 0)
}

// IsDiffuse reports whether the material has no mirror or transmissive part.
func (m *Material) IsDiffuse() bool {
	return m.Reflection == 0 && m.Transparency == 0
}

// ColorAt returns the surface color at texture coordinates uv.
func (m *Material) ColorAt(uv math3d.Vec2) math3d.Vec3 {
	if m.Texture == nil {
		return m.Color
	}
	return m.Color.Mul(m.Texture.Sample(uv.X, uv.Y))
}
