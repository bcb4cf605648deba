package subdiv

import (
	"github.com/chazu/facet/pkg/halfedge"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// CatmullClarkMask evaluates Catmull-Clark stencils on polygon meshes of any
// face degree.
type CatmullClarkMask struct {
	stencil
}

// NewCatmullClarkMask binds a mask to g and its vertex points.
func NewCatmullClarkMask(g halfedge.Graph, pts halfedge.PointReader) CatmullClarkMask {
	return CatmullClarkMask{stencil{g: g, pts: pts}}
}

// FaceNode returns the mean of f's vertices.
func (m CatmullClarkMask) FaceNode(f halfedge.Face) v3.Vec {
	return m.centroid(f)
}

// EdgeNode returns (p1 + p2 + f1 + f2)/4 for the interior edge of h, where
// f1 and f2 are the face nodes on either side.
func (m CatmullClarkMask) EdgeNode(h halfedge.Halfedge) v3.Vec {
	o := m.g.Opposite(h)
	sum := m.point(m.g.Source(h)).Add(m.point(m.g.Target(h)))
	sum = sum.Add(m.centroid(m.g.Face(h))).Add(m.centroid(m.g.Face(o)))
	return sum.MulScalar(0.25)
}

// VertexNode returns (Q + 2R + (n-3)p)/n for an interior vertex of valence n,
// with Q the mean of the incident face nodes and R the mean of the incident
// edge midpoints.
func (m CatmullClarkMask) VertexNode(v halfedge.Vertex) v3.Vec {
	p := m.point(v)
	var q, r v3.Vec
	n, nf := 0, 0
	for h := range halfedge.IncomingHalfedges(m.g, v) {
		r = r.Add(p.Add(m.point(m.g.Source(h))).MulScalar(0.5))
		n++
		if f := m.g.Face(h); f != halfedge.NullFace {
			q = q.Add(m.centroid(f))
			nf++
		}
	}
	if n == 0 || nf == 0 {
		return p
	}
	fn := float64(n)
	q = q.MulScalar(1 / float64(nf))
	r = r.MulScalar(1 / fn)
	return q.Add(r.MulScalar(2)).Add(p.MulScalar(fn - 3)).MulScalar(1 / fn)
}

// BorderNode returns the midpoint of h's border edge and the border point of
// target(h): (prev + 6v + next)/8 over its two border neighbors. A missing
// neighbor counts as target(h) itself.
func (m CatmullClarkMask) BorderNode(h halfedge.Halfedge) (ept, vpt v3.Vec) {
	return m.borderNode(h)
}
