package render

import (
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/scene"
)

// Shading constants.
const (
	MaxRayDepth      = 15
	DefaultBias      = 1e-3
	SpecularExponent = 25
	DiffuseWeight    = 0.8
	SpecularWeight   = 0.2
)

// DefaultBackground is the color of rays that hit nothing.
var DefaultBackground = math3d.V3(0.3, 0.3, 0.3)

// FresnelFunc returns the fraction of light reflected where a ray travelling
// along dir meets a surface with outward normal n separating air from a
// medium of index ior.
type FresnelFunc func(dir, n math3d.Vec3, ior float64) float64

// Tracer shades rays against a fixed set of objects and lights. It is safe
// for concurrent use as long as the scene is not modified.
type Tracer struct {
	Objects    []scene.Object
	Lights     []scene.Light
	Background math3d.Vec3
	MaxDepth   int
	Bias       float64
	Fresnel    FresnelFunc // nil means FresnelExact
}

// NewTracer creates a tracer with the default settings.
func NewTracer(objects []scene.Object, lights []scene.Light) *Tracer {
	return &Tracer{
		Objects:    objects,
		Lights:     lights,
		Background: DefaultBackground,
		MaxDepth:   MaxRayDepth,
		Bias:       DefaultBias,
		Fresnel:    FresnelExact,
	}
}

// Trace returns the color seen along the ray from orig in the normalized
// direction dir. Rays deeper than MaxDepth return the background.
func (t *Tracer) Trace(orig, dir math3d.Vec3, depth int) math3d.Vec3 {
	if depth > t.MaxDepth {
		return t.Background
	}
	info, ok := scene.Nearest(t.Objects, orig, dir, math.Inf(1))
	if !ok {
		return t.Background
	}

	hit := orig.Add(dir.Scale(info.Distance))
	surf := info.Object.SurfaceProperties(hit, info)
	mat := surf.Material
	color := surf.Color()

	// Mirror and transmissive response blends over the diffuse one. The max
	// lets clear glass (transparency 1, reflection 0) take the recursive
	// branch instead of shading as a diffuse surface.
	w := math.Max(mat.Reflection, mat.Transparency)

	var out math3d.Vec3
	if w < 1 {
		out = t.diffuse(hit, dir, surf.Normal, color, mat).Scale(1 - w)
	}
	if !mat.IsDiffuse() {
		out = out.Add(t.specular(hit, dir, surf.Normal, color, mat, depth).Scale(w))
	}
	return out
}

// diffuse is the Lambert plus Phong response to every unoccluded light.
func (t *Tracer) diffuse(hit, dir, n, color math3d.Vec3, mat *scene.Material) math3d.Vec3 {
	// Shade the side the ray arrived from.
	if dir.Dot(n) > 0 {
		n = n.Negate()
	}
	shadowOrig := hit.Add(n.Scale(t.Bias))

	var diff, spec math3d.Vec3
	for _, l := range t.Lights {
		sp := l.Illuminate(hit)
		toLight := sp.Direction.Negate()
		if scene.Occluded(t.Objects, shadowOrig, toLight, sp.Distance) {
			continue
		}
		diff = diff.Add(sp.Intensity.Scale(math.Max(0, n.Dot(toLight))))
		r := sp.Direction.Reflect(n)
		spec = spec.Add(sp.Intensity.Scale(math.Pow(math.Max(0, r.Dot(dir.Negate())), SpecularExponent)))
	}
	return diff.Mul(color).Scale(mat.Albedo * DiffuseWeight).Add(spec.Scale(SpecularWeight))
}

// specular traces the reflected and refracted rays, weighted by Fresnel.
// Opaque materials reflect everything.
func (t *Tracer) specular(hit, dir, n, color math3d.Vec3, mat *scene.Material, depth int) math3d.Vec3 {
	outside := dir.Dot(n) < 0
	bias := n.Scale(t.Bias)

	kr := 1.0
	if mat.Transparency > 0 {
		kr = t.fresnel()(dir, n, mat.IOR)
	}

	var refraction math3d.Vec3
	if mat.Transparency > 0 && kr < 1 {
		if refrDir, ok := Refract(dir, n, mat.IOR); ok {
			refrOrig := hit.Add(bias)
			if outside {
				refrOrig = hit.Sub(bias)
			}
			refraction = t.Trace(refrOrig, refrDir, depth+1).Scale((1 - kr) * mat.Transparency)
		}
	}

	reflOrig := hit.Sub(bias)
	if outside {
		reflOrig = hit.Add(bias)
	}
	reflection := t.Trace(reflOrig, dir.Reflect(n).Normalize(), depth+1).Scale(kr)

	return reflection.Add(refraction).Mul(color)
}

func (t *Tracer) fresnel() FresnelFunc {
	if t.Fresnel == nil {
		return FresnelExact
	}
	return t.Fresnel
}

// Refract bends dir through a surface with outward normal n. It reports
// false on total internal reflection.
func Refract(dir, n math3d.Vec3, ior float64) (math3d.Vec3, bool) {
	cosi := clampUnit(dir.Dot(n))
	etai, etat := scene.AmbientMediumIOR, ior
	if cosi < 0 {
		cosi = -cosi
	} else {
		// Leaving the medium.
		etai, etat = etat, etai
		n = n.Negate()
	}
	eta := etai / etat
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return math3d.Vec3{}, false
	}
	return dir.Scale(eta).Add(n.Scale(eta*cosi - math.Sqrt(k))).Normalize(), true
}

// FresnelExact evaluates the Fresnel equations for unpolarized light.
func FresnelExact(dir, n math3d.Vec3, ior float64) float64 {
	cosi := clampUnit(dir.Dot(n))
	etai, etat := scene.AmbientMediumIOR, ior
	if cosi > 0 {
		etai, etat = etat, etai
	}
	sint := etai / etat * math.Sqrt(math.Max(0, 1-cosi*cosi))
	if sint >= 1 {
		return 1
	}
	cost := math.Sqrt(math.Max(0, 1-sint*sint))
	cosi = math.Abs(cosi)
	rs := (etat*cosi - etai*cost) / (etat*cosi + etai*cost)
	rp := (etai*cosi - etat*cost) / (etai*cosi + etat*cost)
	return (rs*rs + rp*rp) / 2
}

// FresnelSchlick is Schlick's approximation, using the transmitted angle
// when leaving the denser medium.
func FresnelSchlick(dir, n math3d.Vec3, ior float64) float64 {
	cosi := clampUnit(dir.Dot(n))
	n1, n2 := scene.AmbientMediumIOR, ior
	if cosi > 0 {
		n1, n2 = n2, n1
	}
	r0 := (n1 - n2) / (n1 + n2)
	r0 *= r0

	c := math.Abs(cosi)
	if n1 > n2 {
		eta := n1 / n2
		sint2 := eta * eta * (1 - c*c)
		if sint2 >= 1 {
			return 1
		}
		c = math.Sqrt(1 - sint2)
	}
	x := 1 - c
	return r0 + (1-r0)*x*x*x*x*x
}

func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
