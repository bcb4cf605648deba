package halfedge

import (
	"fmt"

	"github.com/chazu/facet/pkg/logging"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	skipInvalid bool
}

// SkipInvalidFaces makes Build drop faces that would make the mesh invalid
// instead of failing. Useful for triangle soups produced by iso-surface
// extraction, which may contain collapsed or duplicated triangles.
func SkipInvalidFaces() BuildOption {
	return func(o *buildOptions) {
		o.skipInvalid = true
	}
}

// dirEdge is a directed vertex pair used to pair opposite halfedges.
type dirEdge struct {
	from, to int
}

// Build creates a Mesh from an indexed polygon soup. Faces list vertex
// indices counter-clockwise when seen from outside; every face must have at
// least three distinct vertices and every directed edge may be used by at
// most one face. Vertices referenced by no face are kept as isolated
// vertices.
//
// Build copies points; the caller keeps ownership of its slices.
func Build(points []v3.Vec, faces [][]int, opts ...BuildOption) (*Mesh, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	m := &Mesh{
		points: make(Points, len(points)),
		vout:   make([]Halfedge, len(points)),
	}
	copy(m.points, points)
	for i := range m.vout {
		m.vout[i] = NullHalfedge
	}

	edges := make(map[dirEdge]Halfedge, 2*len(faces))
	dropped := 0

	for fi, poly := range faces {
		if err := m.checkFace(fi, poly, edges); err != nil {
			if !o.skipInvalid {
				return nil, err
			}
			dropped++
			logging.Logger().Debug("halfedge: dropped face", "face", fi, "err", err)
			continue
		}
		m.addFace(poly, edges)
	}

	if err := m.linkBorders(); err != nil {
		return nil, err
	}
	m.assignOutgoing()

	if dropped > 0 {
		logging.Logger().Debug("halfedge: build finished with dropped faces",
			"faces", m.NumFaces(), "dropped", dropped)
	}
	return m, nil
}

// checkFace validates poly against the halfedges created so far.
func (m *Mesh) checkFace(fi int, poly []int, edges map[dirEdge]Halfedge) error {
	n := len(poly)
	if n < 3 {
		return &BuildError{Face: fi, Err: ErrDegenerateFace, Detail: fmt.Sprintf("%d vertices", n)}
	}
	seen := make(map[int]struct{}, n)
	for _, vi := range poly {
		if vi < 0 || vi >= len(m.points) {
			return &BuildError{Face: fi, Err: ErrIndexRange, Detail: fmt.Sprintf("index %d, %d vertices", vi, len(m.points))}
		}
		if _, dup := seen[vi]; dup {
			return &BuildError{Face: fi, Err: ErrDegenerateFace, Detail: fmt.Sprintf("vertex %d repeated", vi)}
		}
		seen[vi] = struct{}{}
	}
	for i := range poly {
		a, b := poly[i], poly[(i+1)%n]
		if h, ok := edges[dirEdge{a, b}]; ok && m.face[h] != NullFace {
			return &BuildError{Face: fi, Err: ErrNonManifold, Detail: fmt.Sprintf("edge %d->%d already used", a, b)}
		}
	}
	return nil
}

// addFace appends a validated face, creating or reusing halfedge pairs.
func (m *Mesh) addFace(poly []int, edges map[dirEdge]Halfedge) {
	f := Face(len(m.fhalf))
	n := len(poly)
	hs := make([]Halfedge, n)
	for i := range poly {
		a, b := poly[i], poly[(i+1)%n]
		h, ok := edges[dirEdge{a, b}]
		if !ok {
			h = m.newEdge(Vertex(a), Vertex(b))
			edges[dirEdge{a, b}] = h
			edges[dirEdge{b, a}] = h ^ 1
		}
		m.face[h] = f
		hs[i] = h
	}
	for i, h := range hs {
		m.next[h] = hs[(i+1)%n]
		m.prev[h] = hs[(i+n-1)%n]
	}
	m.fhalf = append(m.fhalf, hs[0])
}

// newEdge appends a halfedge pair a->b, b->a with no faces yet.
func (m *Mesh) newEdge(a, b Vertex) Halfedge {
	h := Halfedge(len(m.target))
	m.target = append(m.target, b, a)
	m.next = append(m.next, NullHalfedge, NullHalfedge)
	m.prev = append(m.prev, NullHalfedge, NullHalfedge)
	m.face = append(m.face, NullFace, NullFace)
	return h
}

// linkBorders connects border halfedges into cycles. For a border halfedge
// h ending at v, Next(h) is the first border halfedge leaving v found by
// rotating through the faces of h's fan, so vertices where several fans
// meet get one border cycle per fan.
func (m *Mesh) linkBorders() error {
	limit := len(m.target)
	for i := range m.target {
		h := Halfedge(i)
		if m.face[h] != NullFace {
			continue
		}
		g := h ^ 1 // leaves Target(h), has a face
		steps := 0
		for m.face[g] != NullFace {
			g = m.prev[g] ^ 1
			steps++
			if steps > limit {
				return fmt.Errorf("halfedge: no border continuation at vertex %d: %w", m.target[h], ErrNonManifold)
			}
		}
		m.next[h] = g
		m.prev[g] = h
	}
	return nil
}

// assignOutgoing picks an outgoing halfedge per vertex, preferring border
// halfedges so rotations on the border start at a border edge.
func (m *Mesh) assignOutgoing() {
	for i := range m.target {
		h := Halfedge(i)
		src := m.target[h^1]
		cur := m.vout[src]
		if cur == NullHalfedge || (m.face[cur] != NullFace && m.face[h] == NullFace) {
			m.vout[src] = h
		}
	}
}
