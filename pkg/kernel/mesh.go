package kernel

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Surface  string    `json:"surface"`  // name of the scene surface it renders
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

func (m *Mesh) vertex(i uint32) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[3*i]),
		Y: float64(m.Vertices[3*i+1]),
		Z: float64(m.Vertices[3*i+2]),
	}
}

// Weld merges vertices that fall in the same tol-sized grid cell and returns
// the mesh as an indexed polygon soup. Triangles that collapse onto fewer
// than three distinct vertices are dropped.
func (m *Mesh) Weld(tol float64) ([]v3.Vec, [][]int) {
	if tol <= 0 {
		tol = 1e-6
	}
	type cell [3]int64
	index := make(map[cell]int)
	var points []v3.Vec
	remap := make([]int, m.VertexCount())
	for i := range remap {
		p := m.vertex(uint32(i))
		c := cell{
			int64(math.Round(p.X / tol)),
			int64(math.Round(p.Y / tol)),
			int64(math.Round(p.Z / tol)),
		}
		j, ok := index[c]
		if !ok {
			j = len(points)
			index[c] = j
			points = append(points, p)
		}
		remap[i] = j
	}

	faces := make([][]int, 0, m.TriangleCount())
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := remap[m.Indices[t]], remap[m.Indices[t+1]], remap[m.Indices[t+2]]
		if a == b || b == c || c == a {
			continue
		}
		faces = append(faces, []int{a, b, c})
	}
	return points, faces
}

// FromPolygons fan-triangulates an indexed polygon soup into a render mesh
// with one flat normal per polygon. Vertices are not shared between
// polygons so each face keeps its own normal.
func FromPolygons(points []v3.Vec, faces [][]int) *Mesh {
	m := &Mesh{}
	for _, poly := range faces {
		if len(poly) < 3 {
			continue
		}
		n := newellNormal(points, poly)
		base := uint32(m.VertexCount())
		for _, vi := range poly {
			p := points[vi]
			m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
		for k := 1; k+1 < len(poly); k++ {
			m.Indices = append(m.Indices, base, base+uint32(k), base+uint32(k+1))
		}
	}
	return m
}

// newellNormal returns the unit normal of a possibly non-planar polygon, or
// the zero vector for a degenerate one.
func newellNormal(points []v3.Vec, poly []int) v3.Vec {
	var n v3.Vec
	for i, vi := range poly {
		a := points[vi]
		b := points[poly[(i+1)%len(poly)]]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	l := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
	if l == 0 {
		return n
	}
	return n.MulScalar(1 / l)
}
