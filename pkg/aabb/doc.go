// Package aabb provides halfedge segment primitives for axis-aligned
// bounding-box spatial indexes, and a Tree host that indexes them.
//
// A Primitive names one mesh edge by one of its halfedges. Its geometry is
// pulled on demand through two property-map adapters: SegmentMap yields the
// edge's segment and SourcePointMap yields the reference point used to seed
// distance queries. Primitives hold no ownership of their mesh; the mesh and
// its point map must outlive every primitive built on them.
package aabb
