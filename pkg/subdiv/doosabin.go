package subdiv

import (
	"github.com/chazu/facet/pkg/halfedge"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DooSabinMask evaluates Doo-Sabin corner stencils.
type DooSabinMask struct {
	stencil
}

// NewDooSabinMask binds a mask to g and its vertex points.
func NewDooSabinMask(g halfedge.Graph, pts halfedge.PointReader) DooSabinMask {
	return DooSabinMask{stencil{g: g, pts: pts}}
}

// CornerNode returns the new point at target(h) inside h's face: Σ α_i v_i
// over the face's n vertices v_i = target(next^i(h)), with
// α_0 = (n+5)/(4n) and α_i = (3 + 2cos(2πi/n))/(4n).
func (m DooSabinMask) CornerNode(h halfedge.Halfedge) v3.Vec {
	var ring []halfedge.Vertex
	for c := h; ; {
		ring = append(ring, m.g.Target(c))
		c = m.g.Next(c)
		if c == h || c == halfedge.NullHalfedge {
			break
		}
	}
	if len(ring) < 3 {
		return m.point(m.g.Target(h))
	}
	w := dooSabinWeights(len(ring))
	var pt v3.Vec
	for i, v := range ring {
		pt = pt.Add(m.point(v).MulScalar(w[i]))
	}
	return pt
}
