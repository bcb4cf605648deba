package aabb

import (
	"iter"
	"sync"

	"github.com/chazu/facet/pkg/halfedge"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PrimitiveOption configures a Primitive at construction.
type PrimitiveOption func(*primitiveOptions)

type primitiveOptions struct {
	cache bool
}

// WithCache makes the primitive memoize its segment on the first Datum
// call. Later edits to the mesh points are not observed by that primitive.
func WithCache() PrimitiveOption {
	return func(o *primitiveOptions) { o.cache = true }
}

type segmentCache struct {
	once sync.Once
	seg  Segment
}

// Primitive is an AABB-tree leaf naming one mesh edge by one of its
// halfedges. The zero value is not usable; build one with NewPrimitive.
//
// A primitive's identity is its halfedge alone. Primitives are not
// comparable with ==; use Equal, and key maps by ID.
type Primitive struct {
	_     [0]func()
	id    halfedge.Halfedge
	maps  Maps
	cache *segmentCache
}

// NewPrimitive binds halfedge h to maps. Without WithCache every Datum call
// re-reads the segment map.
func NewPrimitive(h halfedge.Halfedge, maps Maps, opts ...PrimitiveOption) Primitive {
	var o primitiveOptions
	for _, opt := range opts {
		opt(&o)
	}
	p := Primitive{id: h, maps: maps}
	if o.cache {
		p.cache = &segmentCache{}
	}
	return p
}

// Entry pairs a surface with one of its halfedges.
type Entry struct {
	Surface  halfedge.Surface
	Halfedge halfedge.Halfedge
}

// NewPrimitiveFromEntry binds e.Halfedge to maps over e.Surface's own points.
func NewPrimitiveFromEntry(e Entry, opts ...PrimitiveOption) Primitive {
	return NewPrimitive(e.Halfedge, MapsFor(e.Surface), opts...)
}

// Primitives builds one primitive per entry, in sequence order. Entries may
// come from different surfaces.
func Primitives(entries iter.Seq[Entry], opts ...PrimitiveOption) []Primitive {
	var prims []Primitive
	for e := range entries {
		prims = append(prims, NewPrimitiveFromEntry(e, opts...))
	}
	return prims
}

// MeshEntries yields one entry per edge of each mesh, meshes in order.
func MeshEntries(meshes ...*halfedge.Mesh) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, m := range meshes {
			for e := range m.Edges() {
				if !yield(Entry{Surface: m, Halfedge: m.EdgeHalfedge(e)}) {
					return
				}
			}
		}
	}
}

// EdgePrimitives builds one primitive per edge of m.
func EdgePrimitives(m *halfedge.Mesh, opts ...PrimitiveOption) []Primitive {
	maps := MapsFor(m)
	prims := make([]Primitive, 0, m.NumEdges())
	for e := range m.Edges() {
		prims = append(prims, NewPrimitive(m.EdgeHalfedge(e), maps, opts...))
	}
	return prims
}

// ID returns the halfedge the primitive was built from. It is the
// primitive's map key.
func (p Primitive) ID() halfedge.Halfedge { return p.id }

// Equal reports whether p and q name the same halfedge, whatever their
// maps or cache mode.
func (p Primitive) Equal(q Primitive) bool { return p.id == q.id }

// Cached reports whether p memoizes its segment.
func (p Primitive) Cached() bool { return p.cache != nil }

// Datum returns the edge's segment from source(id) to target(id).
func (p Primitive) Datum() Segment {
	if p.cache == nil {
		return p.maps.Segments.Get(p.id)
	}
	p.cache.once.Do(func() {
		p.cache.seg = p.maps.Segments.Get(p.id)
	})
	return p.cache.seg
}

// ReferencePoint returns point(source(id)). It is never cached.
func (p Primitive) ReferencePoint() v3.Vec {
	return p.maps.References.Get(p.id)
}
