package halfedge_test

import (
	"slices"
	"testing"

	"github.com/chazu/facet/pkg/halfedge"
	"github.com/chazu/facet/pkg/halfedge/halfedgetest"
)

func TestGridValenceAndBorders(t *testing.T) {
	const nx, ny = 3, 3
	points, faces := halfedgetest.Grid(nx, ny)
	m := halfedgetest.MustBuild(t, points, faces)

	tests := []struct {
		name      string
		i, j      int
		valence   int
		border    bool
		faceCount int
	}{
		{"corner", 0, 0, 2, true, 1},
		{"border", 1, 0, 3, true, 2},
		{"interior", 1, 1, 4, false, 4},
		{"opposite corner", 3, 3, 2, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := halfedge.Vertex(halfedgetest.GridIndex(nx, tt.i, tt.j))
			if got := halfedge.Valence(m, v); got != tt.valence {
				t.Errorf("Valence() = %d, want %d", got, tt.valence)
			}
			if got := halfedge.IsBorderVertex(m, v); got != tt.border {
				t.Errorf("IsBorderVertex() = %v, want %v", got, tt.border)
			}
			if got := len(halfedge.IncidentFaces(m, v)); got != tt.faceCount {
				t.Errorf("len(IncidentFaces()) = %d, want %d", got, tt.faceCount)
			}
			if got := len(halfedge.Neighbors(m, v)); got != tt.valence {
				t.Errorf("len(Neighbors()) = %d, want %d", got, tt.valence)
			}
		})
	}
}

func TestIncomingHalfedgesTargetVertex(t *testing.T) {
	points, faces := halfedgetest.Fan(6, 1)
	m := halfedgetest.MustBuild(t, points, faces)

	var ring []halfedge.Vertex
	for h := range halfedge.IncomingHalfedges(m, 0) {
		if m.Target(h) != 0 {
			t.Fatalf("Target(%v) = %v, want v0", h, m.Target(h))
		}
		ring = append(ring, m.Source(h))
	}
	slices.Sort(ring)
	want := []halfedge.Vertex{1, 2, 3, 4, 5, 6}
	if !slices.Equal(ring, want) {
		t.Errorf("ring = %v, want %v", ring, want)
	}
	if halfedge.IsBorderVertex(m, 0) {
		t.Error("fan center reported as border")
	}
	if !halfedge.IsBorderVertex(m, 1) {
		t.Error("fan rim vertex not reported as border")
	}
}

func TestIncomingHalfedgesStopsEarly(t *testing.T) {
	points, faces := halfedgetest.Fan(6, 1)
	m := halfedgetest.MustBuild(t, points, faces)
	n := 0
	for range halfedge.IncomingHalfedges(m, 0) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iterations = %d, want 2", n)
	}
}

func TestBorderEdgeClassification(t *testing.T) {
	points, faces := halfedgetest.Grid(1, 1)
	m := halfedgetest.MustBuild(t, points, faces)
	for h := range m.Halfedges() {
		if !halfedge.IsBorderEdge(m, h) {
			t.Errorf("edge of %v is not a border edge on a single quad", h)
		}
		b := halfedge.BorderHalfedge(m, h)
		if !halfedge.IsBorder(m, b) {
			t.Errorf("BorderHalfedge(%v) = %v is not a border halfedge", h, b)
		}
	}

	points, faces = halfedgetest.Grid(2, 1)
	m = halfedgetest.MustBuild(t, points, faces)
	interior := 0
	for e := range m.Edges() {
		h := m.EdgeHalfedge(e)
		if !halfedge.IsBorderEdge(m, h) {
			interior++
			if b := halfedge.BorderHalfedge(m, h); b != halfedge.NullHalfedge {
				t.Errorf("BorderHalfedge(interior %v) = %v, want null", h, b)
			}
		}
	}
	if interior != 1 {
		t.Errorf("interior edges = %d, want 1", interior)
	}
}

func TestFaceVertices(t *testing.T) {
	points, faces := halfedgetest.Cube()
	m := halfedgetest.MustBuild(t, points, faces)
	for f := range m.Faces() {
		got := halfedge.FaceVertices(m, f)
		if len(got) != 4 {
			t.Fatalf("FaceVertices(%v) = %v, want 4 vertices", f, got)
		}
		// FaceVertices starts at the target of FaceHalfedge, i.e. the
		// second vertex of the input polygon.
		for k := range got {
			if want := halfedge.Vertex(faces[f][(k+1)%4]); got[k] != want {
				t.Errorf("FaceVertices(%v)[%d] = %v, want %v", f, k, got[k], want)
			}
		}
	}
	if m.IsTriangleMesh() {
		t.Error("cube reported as a triangle mesh")
	}
}
