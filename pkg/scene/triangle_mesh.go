package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/whitted/pkg/math3d"
)

// ErrInvalidMesh is returned when mesh index and vertex arrays disagree.
var ErrInvalidMesh = errors.New("invalid mesh")

// TriangleEpsilon is the determinant below which a ray is treated as
// parallel to a triangle.
const TriangleEpsilon = 1e-8

// TriangleMesh is a world-space triangle soup. Rays that miss its bounding
// box are rejected up front, the rest scan every triangle.
type TriangleMesh struct {
	Material      Material
	SmoothShading bool

	bounds    AABB
	positions []math3d.Vec3 // World space
	tris      []int         // Three position indices per triangle
	normals   []math3d.Vec3 // Three per triangle
	texCoords []math3d.Vec2 // Three per triangle
}

// NewTriangleMesh builds a mesh from polygon faces. faceIndex holds the vertex
// count of each face, vertsIndex the position indices of every face in order.
// normals and st are per face-vertex, parallel to vertsIndex, and may be nil.
// Faces are fan-triangulated. Positions are moved to world space by
// objectToWorld and normals by its inverse transpose.
func NewTriangleMesh(
	objectToWorld math3d.Mat4,
	faceIndex, vertsIndex []int,
	verts, normals []math3d.Vec3,
	st []math3d.Vec2,
	material Material,
) (*TriangleMesh, error) {
	numTris := 0
	k := 0
	for i, n := range faceIndex {
		if n < 3 {
			return nil, fmt.Errorf("%w: face %d has %d vertices", ErrInvalidMesh, i, n)
		}
		numTris += n - 2
		k += n
	}
	if k != len(vertsIndex) {
		return nil, fmt.Errorf("%w: faces reference %d vertices, index has %d", ErrInvalidMesh, k, len(vertsIndex))
	}
	for _, idx := range vertsIndex {
		if idx < 0 || idx >= len(verts) {
			return nil, fmt.Errorf("%w: vertex index %d out of range [0,%d)", ErrInvalidMesh, idx, len(verts))
		}
	}
	if normals != nil && len(normals) != len(vertsIndex) {
		return nil, fmt.Errorf("%w: %d normals for %d face vertices", ErrInvalidMesh, len(normals), len(vertsIndex))
	}
	if st != nil && len(st) != len(vertsIndex) {
		return nil, fmt.Errorf("%w: %d texture coordinates for %d face vertices", ErrInvalidMesh, len(st), len(vertsIndex))
	}

	m := &TriangleMesh{
		Material:      material,
		SmoothShading: true,
		positions:     make([]math3d.Vec3, len(verts)),
		tris:          make([]int, 0, numTris*3),
		normals:       make([]math3d.Vec3, 0, numTris*3),
		texCoords:     make([]math3d.Vec2, 0, numTris*3),
	}
	for i, v := range verts {
		m.positions[i] = objectToWorld.MulVec3(v)
	}
	m.bounds = BoundsOf(m.positions).Pad(boundsPad)

	normalMatrix := objectToWorld.Inverse().Transpose()
	k = 0
	for _, n := range faceIndex {
		for j := 0; j < n-2; j++ {
			corners := [3]int{k, k + j + 1, k + j + 2}
			for _, c := range corners {
				m.tris = append(m.tris, vertsIndex[c])
				if normals != nil {
					m.normals = append(m.normals, normalMatrix.MulVec3Dir(normals[c]).Normalize())
				}
				if st != nil {
					m.texCoords = append(m.texCoords, st[c])
				} else {
					m.texCoords = append(m.texCoords, math3d.Vec2{})
				}
			}
		}
		k += n
	}

	// Without vertex normals every corner gets the face normal.
	if normals == nil {
		for t := range numTris {
			n := m.faceNormal(t)
			m.normals = append(m.normals, n, n, n)
		}
	}
	return m, nil
}

// TriangleCount returns the number of triangles after triangulation.
func (m *TriangleMesh) TriangleCount() int {
	return len(m.tris) / 3
}

// Bounds returns the world-space bounding box of the mesh.
func (m *TriangleMesh) Bounds() AABB {
	return m.bounds
}

// Triangle returns the world-space corners of triangle i.
func (m *TriangleMesh) Triangle(i int) (v0, v1, v2 math3d.Vec3) {
	return m.positions[m.tris[i*3]], m.positions[m.tris[i*3+1]], m.positions[m.tris[i*3+2]]
}

// Intersect returns the closest triangle hit.
func (m *TriangleMesh) Intersect(orig, dir math3d.Vec3) (IntersectInfo, bool) {
	if _, _, ok := m.bounds.IntersectRay(orig, dir); !ok {
		return IntersectInfo{}, false
	}
	info := NoHit()
	hit := false
	for i := range m.TriangleCount() {
		v0, v1, v2 := m.Triangle(i)
		t, u, v, ok := RayTriangleIntersect(orig, dir, v0, v1, v2)
		if ok && t < info.Distance {
			info.Distance = t
			info.TriangleIndex = i
			info.UV = math3d.V2(u, v)
			hit = true
		}
	}
	if !hit {
		return IntersectInfo{}, false
	}
	info.Object = m
	return info, true
}

// SurfaceProperties interpolates the normal and texture coordinates of the
// hit triangle.
func (m *TriangleMesh) SurfaceProperties(_ math3d.Vec3, info IntersectInfo) Surface {
	i := info.TriangleIndex * 3
	u, v := info.UV.X, info.UV.Y

	var n math3d.Vec3
	if m.SmoothShading {
		n = math3d.Blend3(m.normals[i], m.normals[i+1], m.normals[i+2], u, v).Normalize()
	} else {
		n = m.faceNormal(info.TriangleIndex)
	}
	return Surface{
		Normal:    n,
		TexCoords: math3d.Barycentric(m.texCoords[i], m.texCoords[i+1], m.texCoords[i+2], u, v),
		Material:  &m.Material,
	}
}

func (m *TriangleMesh) faceNormal(tri int) math3d.Vec3 {
	v0, v1, v2 := m.Triangle(tri)
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}

// RayTriangleIntersect is the Möller-Trumbore test. It returns the hit
// distance and the barycentric weights of v1 and v2. Both faces of the
// triangle are hit.
func RayTriangleIntersect(orig, dir, v0, v1, v2 math3d.Vec3) (t, u, v float64, ok bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	pvec := dir.Cross(e2)
	det := e1.Dot(pvec)
	if math.Abs(det) < TriangleEpsilon {
		return 0, 0, 0, false
	}
	invDet := 1 / det

	tvec := orig.Sub(v0)
	u = tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}

	qvec := tvec.Cross(e1)
	v = dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}

	t = e2.Dot(qvec) * invDet
	if t <= 0 {
		return 0, 0, 0, false
	}
	return t, u, v, true
}
