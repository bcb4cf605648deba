package subdiv

import (
	"github.com/chazu/facet/pkg/halfedge"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Sqrt3Mask evaluates √3 stencils. The mesh must be triangulated.
type Sqrt3Mask struct {
	stencil
}

// NewSqrt3Mask binds a mask to g and its vertex points.
func NewSqrt3Mask(g halfedge.Graph, pts halfedge.PointReader) Sqrt3Mask {
	return Sqrt3Mask{stencil{g: g, pts: pts}}
}

// FaceNode returns the centroid of f.
func (m Sqrt3Mask) FaceNode(f halfedge.Face) v3.Vec {
	return m.centroid(f)
}

// VertexNode returns (1 - α)p + (α/n)Σu over the n neighbors u, with
// α = (4 - 2cos(2π/n))/9.
func (m Sqrt3Mask) VertexNode(v halfedge.Vertex) v3.Vec {
	p := m.point(v)
	sum, n := m.ringSum(v)
	if n == 0 {
		return p
	}
	a := sqrt3Alpha(n)
	return p.MulScalar(1 - a).Add(sum.MulScalar(a / float64(n)))
}
