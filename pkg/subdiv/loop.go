package subdiv

import (
	"github.com/chazu/facet/pkg/halfedge"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// LoopMask evaluates Loop stencils. The mesh must be triangulated.
type LoopMask struct {
	stencil
}

// NewLoopMask binds a mask to g and its vertex points.
func NewLoopMask(g halfedge.Graph, pts halfedge.PointReader) LoopMask {
	return LoopMask{stencil{g: g, pts: pts}}
}

// EdgeNode returns (3p1 + 3p2 + pL + pR)/8 for the interior edge of h, with
// pL and pR the vertices opposite the edge in its two triangles. A border
// edge yields its midpoint.
func (m LoopMask) EdgeNode(h halfedge.Halfedge) v3.Vec {
	if halfedge.IsBorderEdge(m.g, h) {
		return m.midpoint(h)
	}
	o := m.g.Opposite(h)
	vl := m.g.Target(m.g.Next(h))
	vr := m.g.Target(m.g.Next(o))
	sum := m.point(m.g.Source(h)).Add(m.point(m.g.Target(h))).MulScalar(3)
	sum = sum.Add(m.point(vl)).Add(m.point(vr))
	return sum.MulScalar(1.0 / 8)
}

// VertexNode returns (1 - nβ)p + βΣu over the n neighbors u of an interior
// vertex, with β = 3/16 for n = 3 and 3/(8n) otherwise.
func (m LoopMask) VertexNode(v halfedge.Vertex) v3.Vec {
	p := m.point(v)
	sum, n := m.ringSum(v)
	if n == 0 {
		return p
	}
	beta := loopBeta(n)
	return p.MulScalar(1 - float64(n)*beta).Add(sum.MulScalar(beta))
}

// BorderNode follows the Catmull-Clark border rule.
func (m LoopMask) BorderNode(h halfedge.Halfedge) (ept, vpt v3.Vec) {
	return m.borderNode(h)
}
