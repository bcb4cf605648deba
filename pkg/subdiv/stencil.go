package subdiv

import (
	"github.com/chazu/facet/pkg/halfedge"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// stencil is the neighborhood access shared by every mask.
type stencil struct {
	g   halfedge.Graph
	pts halfedge.PointReader
}

func (s stencil) point(v halfedge.Vertex) v3.Vec { return s.pts.Get(v) }

// centroid returns the mean of f's vertices.
func (s stencil) centroid(f halfedge.Face) v3.Vec {
	var sum v3.Vec
	n := 0
	for h := range halfedge.FaceHalfedges(s.g, f) {
		sum = sum.Add(s.point(s.g.Target(h)))
		n++
	}
	if n == 0 {
		return sum
	}
	return sum.MulScalar(1 / float64(n))
}

func (s stencil) midpoint(h halfedge.Halfedge) v3.Vec {
	return s.point(s.g.Source(h)).Add(s.point(s.g.Target(h))).MulScalar(0.5)
}

// ringSum returns the sum of v's one-ring and its size.
func (s stencil) ringSum(v halfedge.Vertex) (v3.Vec, int) {
	var sum v3.Vec
	n := 0
	for h := range halfedge.IncomingHalfedges(s.g, v) {
		sum = sum.Add(s.point(s.g.Source(h)))
		n++
	}
	return sum, n
}

// borderNeighbors returns the far endpoints of the two border edges meeting
// at target(h), walking the border cycle through h's border halfedge. A
// side without a border edge yields point(target(h)) itself.
func (s stencil) borderNeighbors(h halfedge.Halfedge) (prev, next v3.Vec) {
	v := s.g.Target(h)
	p := s.point(v)
	prev, next = p, p

	b := halfedge.BorderHalfedge(s.g, h)
	if b == halfedge.NullHalfedge {
		return prev, next
	}
	if s.g.Target(b) == v {
		prev = s.point(s.g.Source(b))
		if c := s.g.Next(b); c != s.g.Opposite(b) && halfedge.IsBorder(s.g, c) {
			next = s.point(s.g.Target(c))
		}
		return prev, next
	}
	next = s.point(s.g.Target(b))
	if c := s.g.Prev(b); c != s.g.Opposite(b) && halfedge.IsBorder(s.g, c) {
		prev = s.point(s.g.Source(c))
	}
	return prev, next
}

// borderNode returns the edge midpoint of h and the cubic B-spline point
// (prev + 6v + next)/8 of v = target(h) along the border.
func (s stencil) borderNode(h halfedge.Halfedge) (ept, vpt v3.Vec) {
	ept = s.midpoint(h)
	prev, next := s.borderNeighbors(h)
	vpt = prev.Add(s.point(s.g.Target(h)).MulScalar(6)).Add(next).MulScalar(1.0 / 8)
	return ept, vpt
}
