package aabb

import (
	"fmt"
	"math"
	"slices"

	"github.com/chazu/facet/pkg/logging"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/dhconnelly/rtreego"
)

const (
	// DefaultPadding inflates every indexed box so zero-extent segments
	// still have volume in the R-tree.
	DefaultPadding = 1e-7

	defaultMinChildren = 8
	defaultMaxChildren = 32
)

// TreeOption configures a Tree.
type TreeOption func(*treeOptions)

type treeOptions struct {
	padding     float64
	minChildren int
	maxChildren int
}

// WithPadding sets the box inflation. Non-positive values are ignored.
func WithPadding(pad float64) TreeOption {
	return func(o *treeOptions) {
		if pad > 0 {
			o.padding = pad
		}
	}
}

// WithNodeSize sets the R-tree branching bounds.
func WithNodeSize(minChildren, maxChildren int) TreeOption {
	return func(o *treeOptions) {
		if minChildren > 0 && maxChildren >= 2*minChildren {
			o.minChildren, o.maxChildren = minChildren, maxChildren
		}
	}
}

// Hit is the result of a closest-point query.
type Hit struct {
	Primitive Primitive
	// Index is the primitive's position in build order.
	Index           int
	Point           v3.Vec
	SquaredDistance float64
}

type leaf struct {
	index int
	rect  rtreego.Rect
}

func (l *leaf) Bounds() rtreego.Rect { return l.rect }

// Tree indexes primitives by the bounding boxes of their segments. Segments
// are read once at build time; rebuild the tree after moving mesh points.
type Tree struct {
	prims    []Primitive
	segments []Segment
	boxes    *rtreego.Rtree
	hints    *rtreego.Rtree
	padding  float64
}

// NewTree indexes prims. The slice is retained and must not be modified.
func NewTree(prims []Primitive, opts ...TreeOption) (*Tree, error) {
	o := treeOptions{
		padding:     DefaultPadding,
		minChildren: defaultMinChildren,
		maxChildren: defaultMaxChildren,
	}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Tree{
		prims:    prims,
		segments: make([]Segment, len(prims)),
		padding:  o.padding,
	}
	boxes := make([]rtreego.Spatial, 0, len(prims))
	hints := make([]rtreego.Spatial, 0, len(prims))
	for i, p := range prims {
		seg := p.Datum()
		t.segments[i] = seg
		r, err := t.rect(seg.Bounds())
		if err != nil {
			return nil, fmt.Errorf("aabb: primitive %v: %w", p.ID(), err)
		}
		boxes = append(boxes, &leaf{index: i, rect: r})
		ref := p.ReferencePoint()
		hr, err := t.rect(sdf.Box3{Min: ref, Max: ref})
		if err != nil {
			return nil, fmt.Errorf("aabb: primitive %v: %w", p.ID(), err)
		}
		hints = append(hints, &leaf{index: i, rect: hr})
	}
	t.boxes = rtreego.NewTree(3, o.minChildren, o.maxChildren, boxes...)
	t.hints = rtreego.NewTree(3, o.minChildren, o.maxChildren, hints...)

	logging.Logger().Debug("aabb tree built", "primitives", len(prims))
	return t, nil
}

func (t *Tree) rect(b sdf.Box3) (rtreego.Rect, error) {
	pad := t.padding
	return rtreego.NewRectFromPoints(
		rtreego.Point{b.Min.X - pad, b.Min.Y - pad, b.Min.Z - pad},
		rtreego.Point{b.Max.X + pad, b.Max.Y + pad, b.Max.Z + pad},
	)
}

// Size returns the number of indexed primitives.
func (t *Tree) Size() int { return len(t.prims) }

// Primitives returns the indexed primitives in build order.
func (t *Tree) Primitives() []Primitive { return t.prims }

func (t *Tree) search(box sdf.Box3) []int {
	r, err := t.rect(box)
	if err != nil {
		return nil
	}
	var idx []int
	for _, s := range t.boxes.SearchIntersect(r) {
		idx = append(idx, s.(*leaf).index)
	}
	return idx
}

// AllIntersected returns every primitive whose segment touches box, in
// build order.
func (t *Tree) AllIntersected(box sdf.Box3) []Primitive {
	idx := t.search(box)
	slices.Sort(idx)
	var out []Primitive
	for _, i := range idx {
		if t.segments[i].IntersectsBox(box) {
			out = append(out, t.prims[i])
		}
	}
	return out
}

// AnyIntersected returns one primitive whose segment touches box.
func (t *Tree) AnyIntersected(box sdf.Box3) (Primitive, bool) {
	for _, i := range t.search(box) {
		if t.segments[i].IntersectsBox(box) {
			return t.prims[i], true
		}
	}
	return Primitive{}, false
}

// ClosestPoint returns the point on the indexed segments nearest to p. Ties
// resolve to the primitive built first. It reports false for an empty tree.
func (t *Tree) ClosestPoint(p v3.Vec) (Hit, bool) {
	if len(t.prims) == 0 {
		return Hit{}, false
	}
	// The nearest reference point bounds the search radius.
	hint := t.hints.NearestNeighbor(rtreego.Point{p.X, p.Y, p.Z})
	best := 0
	if hint != nil {
		best = hint.(*leaf).index
	}
	q := t.segments[best].ClosestPoint(p)
	d2 := sqDist(p, q)

	r := math.Sqrt(d2) + t.padding
	box := sdf.Box3{
		Min: v3.Vec{X: p.X - r, Y: p.Y - r, Z: p.Z - r},
		Max: v3.Vec{X: p.X + r, Y: p.Y + r, Z: p.Z + r},
	}
	for _, i := range t.search(box) {
		c := t.segments[i].ClosestPoint(p)
		cd := sqDist(p, c)
		if cd < d2 || (cd == d2 && i < best) {
			best, q, d2 = i, c, cd
		}
	}
	return Hit{Primitive: t.prims[best], Index: best, Point: q, SquaredDistance: d2}, true
}

// SquaredDistance returns the squared distance from p to the nearest
// indexed segment, or +Inf for an empty tree.
func (t *Tree) SquaredDistance(p v3.Vec) float64 {
	h, ok := t.ClosestPoint(p)
	if !ok {
		return math.Inf(1)
	}
	return h.SquaredDistance
}

func sqDist(a, b v3.Vec) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}
