package halfedge

import "fmt"

// Vertex identifies a mesh vertex.
type Vertex int

// Halfedge identifies a directed side of an edge.
type Halfedge int

// Edge identifies an undirected mesh edge.
type Edge int

// Face identifies a mesh face.
type Face int

// Null handles. NullFace marks a border halfedge.
const (
	NullVertex   Vertex   = -1
	NullHalfedge Halfedge = -1
	NullEdge     Edge     = -1
	NullFace     Face     = -1
)

func (v Vertex) String() string {
	if v == NullVertex {
		return "v(null)"
	}
	return fmt.Sprintf("v%d", int(v))
}

func (h Halfedge) String() string {
	if h == NullHalfedge {
		return "h(null)"
	}
	return fmt.Sprintf("h%d", int(h))
}

func (e Edge) String() string {
	if e == NullEdge {
		return "e(null)"
	}
	return fmt.Sprintf("e%d", int(e))
}

func (f Face) String() string {
	if f == NullFace {
		return "f(null)"
	}
	return fmt.Sprintf("f%d", int(f))
}
