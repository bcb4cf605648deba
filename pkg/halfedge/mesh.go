package halfedge

import (
	"iter"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ Surface = (*Mesh)(nil)

// Mesh is an array-backed halfedge mesh. The two halfedges of edge e are
// stored at 2e and 2e+1, so Opposite is h^1 and Edge is h/2.
//
// A Mesh is immutable once built except through its point map.
type Mesh struct {
	points Points

	vout []Halfedge // outgoing halfedge per vertex; a border one when available

	target []Vertex
	next   []Halfedge
	prev   []Halfedge
	face   []Face

	fhalf []Halfedge
}

// Source returns the vertex h starts from.
func (m *Mesh) Source(h Halfedge) Vertex { return m.target[h^1] }

// Target returns the vertex h points at.
func (m *Mesh) Target(h Halfedge) Vertex { return m.target[h] }

// Opposite returns the other halfedge of h's edge.
func (m *Mesh) Opposite(h Halfedge) Halfedge { return h ^ 1 }

// Next returns the halfedge following h around its face or border cycle.
func (m *Mesh) Next(h Halfedge) Halfedge { return m.next[h] }

// Prev returns the halfedge preceding h around its face or border cycle.
func (m *Mesh) Prev(h Halfedge) Halfedge { return m.prev[h] }

// Face returns h's face, or NullFace on the border.
func (m *Mesh) Face(h Halfedge) Face { return m.face[h] }

// Outgoing returns a halfedge leaving v. Border vertices return their
// outgoing border halfedge.
func (m *Mesh) Outgoing(v Vertex) Halfedge { return m.vout[v] }

// FaceHalfedge returns one halfedge of f.
func (m *Mesh) FaceHalfedge(f Face) Halfedge { return m.fhalf[f] }

// Edge returns the edge h belongs to.
func (m *Mesh) Edge(h Halfedge) Edge { return Edge(h / 2) }

// EdgeHalfedge returns the first halfedge of e.
func (m *Mesh) EdgeHalfedge(e Edge) Halfedge { return Halfedge(2 * e) }

// Points returns the mesh's own vertex positions. Writes through the
// returned map are visible to the mesh.
func (m *Mesh) Points() PointMap { return m.points }

// Point returns the position of v.
func (m *Mesh) Point(v Vertex) v3.Vec { return m.points[v] }

// NumVertices returns the number of vertices, including isolated ones.
func (m *Mesh) NumVertices() int { return len(m.points) }

// NumHalfedges returns the number of halfedges (twice the edge count).
func (m *Mesh) NumHalfedges() int { return len(m.target) }

// NumEdges returns the number of edges.
func (m *Mesh) NumEdges() int { return len(m.target) / 2 }

// NumFaces returns the number of faces.
func (m *Mesh) NumFaces() int { return len(m.fhalf) }

// Vertices yields every vertex handle.
func (m *Mesh) Vertices() iter.Seq[Vertex] {
	return func(yield func(Vertex) bool) {
		for i := range m.points {
			if !yield(Vertex(i)) {
				return
			}
		}
	}
}

// Edges yields every edge handle.
func (m *Mesh) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for i := 0; i < m.NumEdges(); i++ {
			if !yield(Edge(i)) {
				return
			}
		}
	}
}

// Faces yields every face handle.
func (m *Mesh) Faces() iter.Seq[Face] {
	return func(yield func(Face) bool) {
		for i := range m.fhalf {
			if !yield(Face(i)) {
				return
			}
		}
	}
}

// Halfedges yields every halfedge handle.
func (m *Mesh) Halfedges() iter.Seq[Halfedge] {
	return func(yield func(Halfedge) bool) {
		for i := range m.target {
			if !yield(Halfedge(i)) {
				return
			}
		}
	}
}

// IsClosed reports whether the mesh has no border halfedges.
func (m *Mesh) IsClosed() bool {
	for _, f := range m.face {
		if f == NullFace {
			return false
		}
	}
	return true
}

// IsTriangleMesh reports whether every face has degree 3.
func (m *Mesh) IsTriangleMesh() bool {
	for f := range m.Faces() {
		if Degree(m, f) != 3 {
			return false
		}
	}
	return true
}

// Polygons exports the mesh as an indexed polygon soup. The returned points
// are a copy; faces list vertex indices in cycle order.
func (m *Mesh) Polygons() ([]v3.Vec, [][]int) {
	points := make([]v3.Vec, len(m.points))
	copy(points, m.points)
	faces := make([][]int, 0, m.NumFaces())
	for f := range m.Faces() {
		start := m.fhalf[f]
		poly := []int{int(m.Source(start))}
		for h := start; m.next[h] != start; h = m.next[h] {
			poly = append(poly, int(m.target[h]))
		}
		faces = append(faces, poly)
	}
	return points, faces
}
