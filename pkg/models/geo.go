package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/taigrr/whitted/pkg/math3d"
)

// LoadGeo loads a .geo poly-mesh file.
func LoadGeo(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geo: %w", err)
	}
	defer f.Close()

	mesh, err := ParseGeo(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse geo %s: %w", path, err)
	}
	return mesh, nil
}

// ParseGeo reads the whitespace-separated .geo format: the face count, the
// vertex count of each face, the vertex indices of every face, the positions
// (as many as the largest index + 1), then one normal and one st pair per
// face-vertex. Each face-vertex becomes its own mesh vertex.
func ParseGeo(r io.Reader, name string) (*Mesh, error) {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	p := &geoReader{s: s}

	numFaces := p.readInt("face count")
	if p.err == nil && numFaces <= 0 {
		return nil, fmt.Errorf("face count %d", numFaces)
	}

	faceIndex := make([]int, 0, max(numFaces, 0))
	total := 0
	for i := 0; i < numFaces && p.err == nil; i++ {
		n := p.readInt("face vertex count")
		if p.err == nil && n < 3 {
			return nil, fmt.Errorf("face %d has %d vertices", i, n)
		}
		faceIndex = append(faceIndex, n)
		total += n
	}

	vertsIndex := make([]int, 0, total)
	numVerts := 0
	for i := 0; i < total && p.err == nil; i++ {
		idx := p.readInt("vertex index")
		if p.err == nil && idx < 0 {
			return nil, fmt.Errorf("negative vertex index %d", idx)
		}
		vertsIndex = append(vertsIndex, idx)
		numVerts = max(numVerts, idx+1)
	}

	verts := make([]math3d.Vec3, 0, numVerts)
	for i := 0; i < numVerts && p.err == nil; i++ {
		verts = append(verts, p.readVec3("position"))
	}
	normals := make([]math3d.Vec3, 0, total)
	for i := 0; i < total && p.err == nil; i++ {
		normals = append(normals, p.readVec3("normal"))
	}
	st := make([]math3d.Vec2, 0, total)
	for i := 0; i < total && p.err == nil; i++ {
		u := p.readFloat("st")
		v := p.readFloat("st")
		st = append(st, math3d.V2(u, v))
	}
	if p.err != nil {
		return nil, p.err
	}

	mesh := NewMesh(name)
	k := 0
	for _, n := range faceIndex {
		face := Face{V: make([]int, n), Material: -1}
		for j := range n {
			face.V[j] = len(mesh.Vertices)
			mesh.Vertices = append(mesh.Vertices, MeshVertex{
				Position: verts[vertsIndex[k]],
				Normal:   normals[k].Normalize(),
				UV:       st[k],
			})
			k++
		}
		mesh.Faces = append(mesh.Faces, face)
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// geoReader pulls tokens and keeps the first error.
type geoReader struct {
	s   *bufio.Scanner
	err error
}

func (p *geoReader) token(what string) string {
	if p.err != nil {
		return ""
	}
	if !p.s.Scan() {
		if err := p.s.Err(); err != nil {
			p.err = err
		} else {
			p.err = fmt.Errorf("unexpected end of file reading %s", what)
		}
		return ""
	}
	return p.s.Text()
}

func (p *geoReader) readInt(what string) int {
	tok := p.token(what)
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", what, err)
	}
	return n
}

func (p *geoReader) readFloat(what string) float64 {
	tok := p.token(what)
	if p.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", what, err)
	}
	return f
}

func (p *geoReader) readVec3(what string) math3d.Vec3 {
	x := p.readFloat(what)
	y := p.readFloat(what)
	z := p.readFloat(what)
	return math3d.V3(x, y, z)
}
