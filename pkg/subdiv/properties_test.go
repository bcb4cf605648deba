package subdiv

import (
	"testing"

	"github.com/chazu/facet/pkg/halfedge"
	ht "github.com/chazu/facet/pkg/halfedge/halfedgetest"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// stencils evaluates every stencil a refinement pass of scheme would use on
// m, in a fixed element order.
func stencils(scheme Scheme, m *halfedge.Mesh) []v3.Vec {
	var out []v3.Vec
	switch scheme {
	case SchemeCatmullClark:
		mask := NewCatmullClarkMask(m, m.Points())
		for f := range m.Faces() {
			out = append(out, mask.FaceNode(f))
		}
		for e := range m.Edges() {
			h := m.EdgeHalfedge(e)
			if halfedge.IsBorderEdge(m, h) {
				ept, vpt := mask.BorderNode(h)
				out = append(out, ept, vpt)
				continue
			}
			out = append(out, mask.EdgeNode(h))
		}
		for v := range m.Vertices() {
			if !halfedge.IsBorderVertex(m, v) {
				out = append(out, mask.VertexNode(v))
			}
		}
	case SchemeLoop:
		mask := NewLoopMask(m, m.Points())
		for e := range m.Edges() {
			h := m.EdgeHalfedge(e)
			if halfedge.IsBorderEdge(m, h) {
				ept, vpt := mask.BorderNode(h)
				out = append(out, ept, vpt)
				continue
			}
			out = append(out, mask.EdgeNode(h))
		}
		for v := range m.Vertices() {
			if !halfedge.IsBorderVertex(m, v) {
				out = append(out, mask.VertexNode(v))
			}
		}
	case SchemeDooSabin:
		mask := NewDooSabinMask(m, m.Points())
		for h := range m.Halfedges() {
			if !halfedge.IsBorder(m, h) {
				out = append(out, mask.CornerNode(h))
			}
		}
	case SchemeSqrt3:
		mask := NewSqrt3Mask(m, m.Points())
		for f := range m.Faces() {
			out = append(out, mask.FaceNode(f))
		}
		for v := range m.Vertices() {
			if !halfedge.IsBorderVertex(m, v) {
				out = append(out, mask.VertexNode(v))
			}
		}
	}
	return out
}

// jitter moves every point by a small deterministic offset so no stencil
// sees a symmetric neighborhood.
func jitter(points []v3.Vec) []v3.Vec {
	out := make([]v3.Vec, len(points))
	for i, p := range points {
		k := float64(i%7) - 3
		out[i] = p.Add(v3.Vec{X: 0.03 * k, Y: -0.02 * k, Z: 0.05 * float64(i%5)})
	}
	return out
}

type fixture struct {
	name   string
	scheme Scheme
	points []v3.Vec
	faces  [][]int
}

func fixtures() []fixture {
	var fs []fixture
	add := func(name string, scheme Scheme, points []v3.Vec, faces [][]int) {
		fs = append(fs, fixture{name, scheme, jitter(points), faces})
	}
	grid, gridFaces := ht.Grid(3, 3)
	tri, triFaces := ht.TriangleGrid(3, 3)
	cube, cubeFaces := ht.Cube()
	oct, octFaces := ht.Octahedron()
	for _, s := range []Scheme{SchemeCatmullClark, SchemeDooSabin} {
		add(s.String()+"/grid", s, grid, gridFaces)
		add(s.String()+"/cube", s, cube, cubeFaces)
	}
	for _, s := range []Scheme{SchemeLoop, SchemeSqrt3} {
		add(s.String()+"/grid", s, tri, triFaces)
		add(s.String()+"/octahedron", s, oct, octFaces)
	}
	return fs
}

func TestAffineInvariance(t *testing.T) {
	shift := v3.Vec{X: 0.3, Y: -1.7, Z: 2.5}
	for _, fx := range fixtures() {
		t.Run(fx.name, func(t *testing.T) {
			base := stencils(fx.scheme, ht.MustBuild(t, fx.points, fx.faces))
			moved := stencils(fx.scheme, ht.MustBuild(t, ht.Translate(fx.points, shift), fx.faces))
			if len(base) == 0 || len(base) != len(moved) {
				t.Fatalf("got %d and %d stencil outputs", len(base), len(moved))
			}
			for i := range base {
				if want := base[i].Add(shift); !ht.Near(moved[i], want, 1e-9) {
					t.Errorf("output %d = %v, want %v", i, moved[i], want)
				}
			}
		})
	}
}

func TestScaling(t *testing.T) {
	const s = 2.5
	for _, fx := range fixtures() {
		t.Run(fx.name, func(t *testing.T) {
			base := stencils(fx.scheme, ht.MustBuild(t, fx.points, fx.faces))
			scaled := stencils(fx.scheme, ht.MustBuild(t, ht.Scale(fx.points, s), fx.faces))
			for i := range base {
				if want := base[i].MulScalar(s); !ht.Near(scaled[i], want, 1e-9) {
					t.Errorf("output %d = %v, want %v", i, scaled[i], want)
				}
			}
		})
	}
}

func TestLocalSupport(t *testing.T) {
	quads, quadFaces := ht.Grid(6, 6)
	tris, triFaces := ht.TriangleGrid(6, 6)
	near := ht.GridIndex(6, 1, 1)
	far := halfedge.Vertex(ht.GridIndex(6, 5, 5))
	ring := halfedge.Vertex(ht.GridIndex(6, 2, 1))

	tests := []struct {
		name   string
		points []v3.Vec
		faces  [][]int
		eval   func(t *testing.T, m *halfedge.Mesh) v3.Vec
	}{
		{"catmull-clark vertex", quads, quadFaces, func(t *testing.T, m *halfedge.Mesh) v3.Vec {
			return NewCatmullClarkMask(m, m.Points()).VertexNode(halfedge.Vertex(near))
		}},
		{"catmull-clark edge", quads, quadFaces, func(t *testing.T, m *halfedge.Mesh) v3.Vec {
			h := ht.FindHalfedge(t, m, near, ht.GridIndex(6, 2, 1))
			return NewCatmullClarkMask(m, m.Points()).EdgeNode(h)
		}},
		{"doo-sabin corner", quads, quadFaces, func(t *testing.T, m *halfedge.Mesh) v3.Vec {
			h := ht.FindHalfedge(t, m, ht.GridIndex(6, 2, 1), near)
			return NewDooSabinMask(m, m.Points()).CornerNode(h)
		}},
		{"loop vertex", tris, triFaces, func(t *testing.T, m *halfedge.Mesh) v3.Vec {
			return NewLoopMask(m, m.Points()).VertexNode(halfedge.Vertex(near))
		}},
		{"loop edge", tris, triFaces, func(t *testing.T, m *halfedge.Mesh) v3.Vec {
			h := ht.FindHalfedge(t, m, near, ht.GridIndex(6, 2, 1))
			return NewLoopMask(m, m.Points()).EdgeNode(h)
		}},
		{"sqrt3 vertex", tris, triFaces, func(t *testing.T, m *halfedge.Mesh) v3.Vec {
			return NewSqrt3Mask(m, m.Points()).VertexNode(halfedge.Vertex(near))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ht.MustBuild(t, jitter(tt.points), tt.faces)
			before := tt.eval(t, m)
			m.Points().Put(far, m.Point(far).Add(v3.Vec{X: 3, Y: -2, Z: 7}))
			if got := tt.eval(t, m); got != before {
				t.Errorf("moving %v changed output: got %v, want %v", far, got, before)
			}
			m.Points().Put(ring, m.Point(ring).Add(v3.Vec{Z: 1}))
			if got := tt.eval(t, m); got == before {
				t.Errorf("moving %v inside the stencil left output at %v", ring, got)
			}
		})
	}
}
