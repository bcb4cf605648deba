package halfedge

import "iter"

// Graph is the connectivity a mesh must expose to be traversed by halfedge.
// Implementations are trusted: handles passed in are assumed valid and no
// method validates its argument.
type Graph interface {
	// Source returns the vertex h starts from.
	Source(h Halfedge) Vertex
	// Target returns the vertex h points at.
	Target(h Halfedge) Vertex
	// Opposite returns the other halfedge of h's edge.
	Opposite(h Halfedge) Halfedge
	// Next returns the halfedge following h around its face (or border).
	Next(h Halfedge) Halfedge
	// Prev returns the halfedge preceding h around its face (or border).
	Prev(h Halfedge) Halfedge
	// Face returns the face on h's left, or NullFace for a border halfedge.
	Face(h Halfedge) Face
	// Outgoing returns a halfedge whose source is v, or NullHalfedge for an
	// isolated vertex.
	Outgoing(v Vertex) Halfedge
	// FaceHalfedge returns one halfedge of f's cycle.
	FaceHalfedge(f Face) Halfedge
}

// IsBorder reports whether h has no incident face.
func IsBorder(g Graph, h Halfedge) bool {
	return g.Face(h) == NullFace
}

// IsBorderEdge reports whether either halfedge of h's edge is a border halfedge.
func IsBorderEdge(g Graph, h Halfedge) bool {
	return IsBorder(g, h) || IsBorder(g, g.Opposite(h))
}

// IsBorderVertex reports whether any halfedge incident to v is a border halfedge.
func IsBorderVertex(g Graph, v Vertex) bool {
	for h := range IncomingHalfedges(g, v) {
		if IsBorderEdge(g, h) {
			return true
		}
	}
	return false
}

// BorderHalfedge returns the border halfedge of h's edge, or NullHalfedge
// when the edge is interior.
func BorderHalfedge(g Graph, h Halfedge) Halfedge {
	if IsBorder(g, h) {
		return h
	}
	if o := g.Opposite(h); IsBorder(g, o) {
		return o
	}
	return NullHalfedge
}

// FaceHalfedges yields the halfedges of f in Next order.
func FaceHalfedges(g Graph, f Face) iter.Seq[Halfedge] {
	return func(yield func(Halfedge) bool) {
		start := g.FaceHalfedge(f)
		if start == NullHalfedge {
			return
		}
		h := start
		for {
			if !yield(h) {
				return
			}
			h = g.Next(h)
			if h == start || h == NullHalfedge {
				return
			}
		}
	}
}

// FaceVertices returns the vertices of f in cycle order, starting at the
// target of FaceHalfedge(f).
func FaceVertices(g Graph, f Face) []Vertex {
	var vs []Vertex
	for h := range FaceHalfedges(g, f) {
		vs = append(vs, g.Target(h))
	}
	return vs
}

// Degree returns the number of halfedges in f's cycle.
func Degree(g Graph, f Face) int {
	n := 0
	for range FaceHalfedges(g, f) {
		n++
	}
	return n
}

// IncomingHalfedges yields every halfedge whose target is v, rotating with
// h -> Opposite(Next(h)). Border halfedges are part of the rotation, so a
// border vertex yields both the incoming border halfedge and the incoming
// halfedge whose opposite is on the border.
func IncomingHalfedges(g Graph, v Vertex) iter.Seq[Halfedge] {
	return func(yield func(Halfedge) bool) {
		out := g.Outgoing(v)
		if out == NullHalfedge {
			return
		}
		start := g.Opposite(out)
		h := start
		for {
			if !yield(h) {
				return
			}
			h = g.Opposite(g.Next(h))
			if h == start || h == NullHalfedge {
				return
			}
		}
	}
}

// Valence returns the number of edges incident to v.
func Valence(g Graph, v Vertex) int {
	n := 0
	for range IncomingHalfedges(g, v) {
		n++
	}
	return n
}

// Neighbors returns the one-ring of v in rotation order.
func Neighbors(g Graph, v Vertex) []Vertex {
	var vs []Vertex
	for h := range IncomingHalfedges(g, v) {
		vs = append(vs, g.Source(h))
	}
	return vs
}

// IncidentFaces returns the faces around v in rotation order, skipping the
// null face of border halfedges.
func IncidentFaces(g Graph, v Vertex) []Face {
	var fs []Face
	for h := range IncomingHalfedges(g, v) {
		if f := g.Face(h); f != NullFace {
			fs = append(fs, f)
		}
	}
	return fs
}
