package aabb

import (
	"github.com/chazu/facet/pkg/halfedge"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// SegmentMap maps a halfedge to the segment from its source to its target.
// It is a value type bound to a graph and point map; reads are safe from
// several goroutines while neither is mutated.
type SegmentMap struct {
	g   halfedge.Graph
	pts halfedge.PointReader
}

// NewSegmentMap binds a SegmentMap to g and pts.
func NewSegmentMap(g halfedge.Graph, pts halfedge.PointReader) SegmentMap {
	return SegmentMap{g: g, pts: pts}
}

// Get returns (point(source(h)), point(target(h))).
func (m SegmentMap) Get(h halfedge.Halfedge) Segment {
	return Segment{
		Source: m.pts.Get(m.g.Source(h)),
		Target: m.pts.Get(m.g.Target(h)),
	}
}

// SourcePointMap maps a halfedge to the position of its source vertex.
type SourcePointMap struct {
	g   halfedge.Graph
	pts halfedge.PointReader
}

// NewSourcePointMap binds a SourcePointMap to g and pts.
func NewSourcePointMap(g halfedge.Graph, pts halfedge.PointReader) SourcePointMap {
	return SourcePointMap{g: g, pts: pts}
}

// Get returns point(source(h)).
func (m SourcePointMap) Get(h halfedge.Halfedge) v3.Vec {
	return m.pts.Get(m.g.Source(h))
}

// Maps bundles the two adapters a Primitive reads through.
type Maps struct {
	Segments   SegmentMap
	References SourcePointMap
}

// MapsFor binds both adapters to a surface and its own point map.
func MapsFor(s halfedge.Surface) Maps {
	return MapsWith(s, s.Points())
}

// MapsWith binds both adapters to g and an external point map.
func MapsWith(g halfedge.Graph, pts halfedge.PointReader) Maps {
	return Maps{
		Segments:   NewSegmentMap(g, pts),
		References: NewSourcePointMap(g, pts),
	}
}
