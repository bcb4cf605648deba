package halfedge

import v3 "github.com/deadsy/sdfx/vec/v3"

// PointReader maps a vertex to its position.
type PointReader interface {
	Get(v Vertex) v3.Vec
}

// PointMap is a readable and writable vertex-point map. Put touches only
// the given vertex.
type PointMap interface {
	PointReader
	Put(v Vertex, p v3.Vec)
}

// Points is a slice-backed PointMap indexed by vertex.
type Points []v3.Vec

// Compile-time interface check.
var _ PointMap = Points(nil)

// Get returns the position of v.
func (ps Points) Get(v Vertex) v3.Vec { return ps[v] }

// Put sets the position of v.
func (ps Points) Put(v Vertex, p v3.Vec) { ps[v] = p }

// Surface is a Graph whose vertices carry their own positions.
type Surface interface {
	Graph
	// Points returns the default vertex-point map of the surface.
	Points() PointMap
}
