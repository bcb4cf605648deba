package subdiv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/facet/pkg/halfedge"
	"github.com/chazu/facet/pkg/logging"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MaxLevels bounds the number of passes a single refinement may run. Face
// counts grow geometrically with the level.
const MaxLevels = 6

var (
	// ErrNotTriangleMesh is returned when Loop or √3 refinement is asked to
	// refine a mesh with non-triangular faces.
	ErrNotTriangleMesh = errors.New("subdiv: mesh is not triangulated")
	// ErrLevels is returned for a level count outside [0, MaxLevels].
	ErrLevels = errors.New("subdiv: level count out of range")
)

// Scheme names a subdivision scheme.
type Scheme int

const (
	SchemeCatmullClark Scheme = iota
	SchemeLoop
	SchemeDooSabin
	SchemeSqrt3
)

var schemeNames = map[Scheme]string{
	SchemeCatmullClark: "catmull-clark",
	SchemeLoop:         "loop",
	SchemeDooSabin:     "doo-sabin",
	SchemeSqrt3:        "sqrt3",
}

func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// Valid reports whether s names a known scheme.
func (s Scheme) Valid() bool {
	_, ok := schemeNames[s]
	return ok
}

// TrianglesOnly reports whether s requires a triangle mesh.
func (s Scheme) TrianglesOnly() bool {
	return s == SchemeLoop || s == SchemeSqrt3
}

// ParseScheme accepts a scheme name, case-insensitively, with '-' or '_'
// separators, or one of the short forms cc, ds and √3.
func ParseScheme(name string) (Scheme, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	switch key {
	case "catmull-clark", "catmullclark", "cc":
		return SchemeCatmullClark, nil
	case "loop":
		return SchemeLoop, nil
	case "doo-sabin", "doosabin", "ds":
		return SchemeDooSabin, nil
	case "sqrt3", "sqrt-3", "√3":
		return SchemeSqrt3, nil
	}
	return 0, fmt.Errorf("subdiv: unknown scheme %q", name)
}

// Refine applies levels passes of scheme to m and returns a new mesh. The
// input mesh is only read.
func Refine(m *halfedge.Mesh, scheme Scheme, levels int) (*halfedge.Mesh, error) {
	if levels < 0 || levels > MaxLevels {
		return nil, fmt.Errorf("%w: %d", ErrLevels, levels)
	}
	var pass func(*halfedge.Mesh) (*halfedge.Mesh, error)
	switch scheme {
	case SchemeCatmullClark:
		pass = catmullClarkPass
	case SchemeLoop:
		pass = loopPass
	case SchemeDooSabin:
		pass = dooSabinPass
	case SchemeSqrt3:
		pass = sqrt3Pass
	default:
		return nil, fmt.Errorf("subdiv: unknown scheme %v", scheme)
	}

	out := m
	for level := 1; level <= levels; level++ {
		next, err := pass(out)
		if err != nil {
			return nil, fmt.Errorf("subdiv: %v level %d: %w", scheme, level, err)
		}
		logging.Logger().Debug("subdivision pass",
			"scheme", scheme.String(),
			"level", level,
			"vertices", next.NumVertices(),
			"faces", next.NumFaces())
		out = next
	}
	if out == m {
		return rebuild(m)
	}
	return out, nil
}

// CatmullClark refines m with levels Catmull-Clark passes.
func CatmullClark(m *halfedge.Mesh, levels int) (*halfedge.Mesh, error) {
	return Refine(m, SchemeCatmullClark, levels)
}

// Loop refines the triangle mesh m with levels Loop passes.
func Loop(m *halfedge.Mesh, levels int) (*halfedge.Mesh, error) {
	return Refine(m, SchemeLoop, levels)
}

// DooSabin refines m with levels Doo-Sabin passes.
func DooSabin(m *halfedge.Mesh, levels int) (*halfedge.Mesh, error) {
	return Refine(m, SchemeDooSabin, levels)
}

// Sqrt3 refines the triangle mesh m with levels √3 passes.
func Sqrt3(m *halfedge.Mesh, levels int) (*halfedge.Mesh, error) {
	return Refine(m, SchemeSqrt3, levels)
}

func rebuild(m *halfedge.Mesh) (*halfedge.Mesh, error) {
	points, faces := m.Polygons()
	return halfedge.Build(points, faces)
}

// borderIncoming returns a halfedge into v lying on a border edge.
func borderIncoming(g halfedge.Graph, v halfedge.Vertex) (halfedge.Halfedge, bool) {
	for h := range halfedge.IncomingHalfedges(g, v) {
		if halfedge.IsBorderEdge(g, h) {
			return h, true
		}
	}
	return halfedge.NullHalfedge, false
}

// catmullClarkPass numbers new vertices as old vertices, then one per edge,
// then one per face, and splits every face into one quad per corner.
func catmullClarkPass(m *halfedge.Mesh) (*halfedge.Mesh, error) {
	mask := NewCatmullClarkMask(m, m.Points())
	nv, ne := m.NumVertices(), m.NumEdges()
	points := make([]v3.Vec, nv+ne+m.NumFaces())

	for v := range m.Vertices() {
		switch h, ok := borderIncoming(m, v); {
		case ok:
			_, points[v] = mask.BorderNode(h)
		case m.Outgoing(v) == halfedge.NullHalfedge:
			points[v] = m.Point(v)
		default:
			points[v] = mask.VertexNode(v)
		}
	}
	for e := range m.Edges() {
		h := m.EdgeHalfedge(e)
		if halfedge.IsBorderEdge(m, h) {
			points[nv+int(e)], _ = mask.BorderNode(h)
		} else {
			points[nv+int(e)] = mask.EdgeNode(h)
		}
	}
	for f := range m.Faces() {
		points[nv+ne+int(f)] = mask.FaceNode(f)
	}

	edgePoint := func(h halfedge.Halfedge) int { return nv + int(m.Edge(h)) }
	faces := make([][]int, 0, 4*m.NumFaces())
	for f := range m.Faces() {
		center := nv + ne + int(f)
		for h := range halfedge.FaceHalfedges(m, f) {
			faces = append(faces, []int{
				edgePoint(h),
				int(m.Target(h)),
				edgePoint(m.Next(h)),
				center,
			})
		}
	}
	return halfedge.Build(points, faces)
}

// loopPass splits every triangle into four around its edge points.
func loopPass(m *halfedge.Mesh) (*halfedge.Mesh, error) {
	if !m.IsTriangleMesh() {
		return nil, ErrNotTriangleMesh
	}
	mask := NewLoopMask(m, m.Points())
	nv := m.NumVertices()
	points := make([]v3.Vec, nv+m.NumEdges())

	for v := range m.Vertices() {
		switch h, ok := borderIncoming(m, v); {
		case ok:
			_, points[v] = mask.BorderNode(h)
		case m.Outgoing(v) == halfedge.NullHalfedge:
			points[v] = m.Point(v)
		default:
			points[v] = mask.VertexNode(v)
		}
	}
	for e := range m.Edges() {
		h := m.EdgeHalfedge(e)
		if halfedge.IsBorderEdge(m, h) {
			points[nv+int(e)], _ = mask.BorderNode(h)
		} else {
			points[nv+int(e)] = mask.EdgeNode(h)
		}
	}

	faces := make([][]int, 0, 4*m.NumFaces())
	for f := range m.Faces() {
		h0 := m.FaceHalfedge(f)
		h1 := m.Next(h0)
		h2 := m.Next(h1)
		a, b, c := int(m.Source(h0)), int(m.Target(h0)), int(m.Target(h1))
		ab, bc, ca := nv+int(m.Edge(h0)), nv+int(m.Edge(h1)), nv+int(m.Edge(h2))
		faces = append(faces,
			[]int{a, ab, ca},
			[]int{b, bc, ab},
			[]int{c, ca, bc},
			[]int{ab, bc, ca},
		)
	}
	return halfedge.Build(points, faces)
}

// dooSabinPass emits one face per old face, one quad per interior edge and
// one polygon per interior vertex, all on the per-corner points.
func dooSabinPass(m *halfedge.Mesh) (*halfedge.Mesh, error) {
	mask := NewDooSabinMask(m, m.Points())
	corner := make([]int, m.NumHalfedges())
	var points []v3.Vec
	for h := range m.Halfedges() {
		corner[h] = -1
		if halfedge.IsBorder(m, h) {
			continue
		}
		corner[h] = len(points)
		points = append(points, mask.CornerNode(h))
	}

	var faces [][]int
	for f := range m.Faces() {
		var poly []int
		for h := range halfedge.FaceHalfedges(m, f) {
			poly = append(poly, corner[h])
		}
		faces = append(faces, poly)
	}
	for e := range m.Edges() {
		h := m.EdgeHalfedge(e)
		if halfedge.IsBorderEdge(m, h) {
			continue
		}
		o := m.Opposite(h)
		faces = append(faces, []int{corner[o], corner[m.Prev(o)], corner[h], corner[m.Prev(h)]})
	}
	for v := range m.Vertices() {
		if m.Outgoing(v) == halfedge.NullHalfedge || halfedge.IsBorderVertex(m, v) {
			continue
		}
		var poly []int
		for h := range halfedge.IncomingHalfedges(m, v) {
			poly = append(poly, corner[h])
		}
		if len(poly) < 3 {
			continue
		}
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
		faces = append(faces, poly)
	}
	return halfedge.Build(points, faces)
}

// sqrt3Pass inserts face centroids, smooths interior vertices and flips
// every interior edge. Border vertices and border edges are kept.
func sqrt3Pass(m *halfedge.Mesh) (*halfedge.Mesh, error) {
	if !m.IsTriangleMesh() {
		return nil, ErrNotTriangleMesh
	}
	mask := NewSqrt3Mask(m, m.Points())
	nv := m.NumVertices()
	points := make([]v3.Vec, nv+m.NumFaces())
	for v := range m.Vertices() {
		if m.Outgoing(v) == halfedge.NullHalfedge || halfedge.IsBorderVertex(m, v) {
			points[v] = m.Point(v)
			continue
		}
		points[v] = mask.VertexNode(v)
	}
	for f := range m.Faces() {
		points[nv+int(f)] = mask.FaceNode(f)
	}

	centroid := func(h halfedge.Halfedge) int { return nv + int(m.Face(h)) }
	faces := make([][]int, 0, 3*m.NumFaces())
	for e := range m.Edges() {
		h := m.EdgeHalfedge(e)
		if halfedge.IsBorder(m, h) {
			h = m.Opposite(h)
		}
		a, b := int(m.Source(h)), int(m.Target(h))
		o := m.Opposite(h)
		if halfedge.IsBorder(m, o) {
			faces = append(faces, []int{a, b, centroid(h)})
			continue
		}
		faces = append(faces,
			[]int{centroid(h), a, centroid(o)},
			[]int{centroid(o), b, centroid(h)},
		)
	}
	return halfedge.Build(points, faces)
}
