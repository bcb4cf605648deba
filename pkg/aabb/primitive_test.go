package aabb_test

import (
	"sync"
	"testing"

	"github.com/chazu/facet/pkg/aabb"
	"github.com/chazu/facet/pkg/halfedge"
	"github.com/chazu/facet/pkg/halfedge/halfedgetest"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func gridMesh(t *testing.T, n int) *halfedge.Mesh {
	t.Helper()
	points, faces := halfedgetest.Grid(n, n)
	return halfedgetest.MustBuild(t, points, faces)
}

func TestPrimitiveDatumMatchesMesh(t *testing.T) {
	m := gridMesh(t, 3)
	for _, opts := range [][]aabb.PrimitiveOption{nil, {aabb.WithCache()}} {
		for h := range m.Halfedges() {
			p := aabb.NewPrimitive(h, aabb.MapsFor(m), opts...)
			if p.ID() != h {
				t.Fatalf("ID = %v, want %v", p.ID(), h)
			}
			want := aabb.Segment{Source: m.Point(m.Source(h)), Target: m.Point(m.Target(h))}
			if got := p.Datum(); got != want {
				t.Errorf("cached=%v Datum(%v) = %v, want %v", p.Cached(), h, got, want)
			}
			if got := p.ReferencePoint(); got != want.Source {
				t.Errorf("ReferencePoint(%v) = %v, want %v", h, got, want.Source)
			}
		}
	}
}

func TestPrimitiveIdentityIsHalfedge(t *testing.T) {
	m := gridMesh(t, 2)
	other := gridMesh(t, 1)

	tests := []struct {
		name string
		a, b aabb.Primitive
		want bool
	}{
		{
			name: "same id across cache modes",
			a:    aabb.NewPrimitive(0, aabb.MapsFor(m)),
			b:    aabb.NewPrimitive(0, aabb.MapsFor(m), aabb.WithCache()),
			want: true,
		},
		{
			name: "same id over different maps",
			a:    aabb.NewPrimitive(3, aabb.MapsFor(m)),
			b:    aabb.NewPrimitive(3, aabb.MapsFor(other), aabb.WithCache()),
			want: true,
		},
		{
			name: "opposite halfedges",
			a:    aabb.NewPrimitive(0, aabb.MapsFor(m)),
			b:    aabb.NewPrimitive(1, aabb.MapsFor(m)),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("reversed Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrimitiveIDKeysMaps(t *testing.T) {
	m := gridMesh(t, 2)
	seen := make(map[halfedge.Halfedge]aabb.Primitive)
	for _, p := range aabb.EdgePrimitives(m) {
		seen[p.ID()] = p
	}
	for _, p := range aabb.EdgePrimitives(m, aabb.WithCache()) {
		q, ok := seen[p.ID()]
		if !ok {
			t.Fatalf("cached primitive %v missing from uncached set", p.ID())
		}
		if !q.Equal(p) {
			t.Errorf("primitive %v: uncached and cached copies differ", p.ID())
		}
	}
	if len(seen) != m.NumEdges() {
		t.Errorf("len(seen) = %d, want %d", len(seen), m.NumEdges())
	}
}

func TestCachedAndUncachedAgree(t *testing.T) {
	m := gridMesh(t, 2)
	maps := aabb.MapsFor(m)
	for h := range m.Halfedges() {
		a := aabb.NewPrimitive(h, maps)
		b := aabb.NewPrimitive(h, maps, aabb.WithCache())
		if a.Datum() != b.Datum() {
			t.Errorf("halfedge %v: uncached %v, cached %v", h, a.Datum(), b.Datum())
		}
	}
}

func TestCacheMemoizesFirstRead(t *testing.T) {
	m := gridMesh(t, 1)
	h := m.EdgeHalfedge(0)
	v := m.Source(h)
	maps := aabb.MapsFor(m)

	uncached := aabb.NewPrimitive(h, maps)
	cached := aabb.NewPrimitive(h, maps, aabb.WithCache())
	late := aabb.NewPrimitive(h, maps, aabb.WithCache())

	before := cached.Datum()
	moved := v3.Vec{X: 10, Y: 10, Z: 10}
	m.Points().Put(v, moved)

	if got := cached.Datum(); got != before {
		t.Errorf("cached Datum after edit = %v, want memoized %v", got, before)
	}
	if got := uncached.Datum().Source; got != moved {
		t.Errorf("uncached Datum source = %v, want %v", got, moved)
	}
	// The cache is filled on first read, not at construction.
	if got := late.Datum().Source; got != moved {
		t.Errorf("late cached Datum source = %v, want %v", got, moved)
	}
	if got := cached.ReferencePoint(); got != moved {
		t.Errorf("ReferencePoint = %v, want %v", got, moved)
	}
}

func TestCachedDatumConcurrent(t *testing.T) {
	m := gridMesh(t, 4)
	prims := aabb.EdgePrimitives(m, aabb.WithCache())
	want := make([]aabb.Segment, len(prims))
	for i, p := range prims {
		want[i] = aabb.NewPrimitive(p.ID(), aabb.MapsFor(m)).Datum()
	}
	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, p := range prims {
				if p.Datum() != want[i] {
					errs <- p.ID().String()
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for id := range errs {
		t.Errorf("halfedge %s: concurrent Datum disagrees", id)
	}
}

func TestPrimitivesFromEntries(t *testing.T) {
	a := gridMesh(t, 1)
	points, faces := halfedgetest.Tetrahedron()
	b := halfedgetest.MustBuild(t, halfedgetest.Translate(points, v3.Vec{Z: 5}), faces)

	prims := aabb.Primitives(aabb.MeshEntries(a, b))
	if got, want := len(prims), a.NumEdges()+b.NumEdges(); got != want {
		t.Fatalf("len(prims) = %d, want %d", got, want)
	}
	for i, p := range prims {
		m := a
		if i >= a.NumEdges() {
			m = b
		}
		want := aabb.Segment{Source: m.Point(m.Source(p.ID())), Target: m.Point(m.Target(p.ID()))}
		if got := p.Datum(); got != want {
			t.Errorf("prims[%d].Datum() = %v, want %v", i, got, want)
		}
	}
}

func TestPrimitiveFromEntry(t *testing.T) {
	m := gridMesh(t, 1)
	h := m.EdgeHalfedge(2)
	p := aabb.NewPrimitiveFromEntry(aabb.Entry{Surface: m, Halfedge: h})
	q := aabb.NewPrimitive(h, aabb.MapsFor(m))
	if p.ID() != q.ID() || p.Datum() != q.Datum() {
		t.Errorf("entry primitive = (%v, %v), want (%v, %v)", p.ID(), p.Datum(), q.ID(), q.Datum())
	}
}

func TestMapsWithExternalPoints(t *testing.T) {
	m := gridMesh(t, 1)
	lifted := make(halfedge.Points, m.NumVertices())
	for v := range m.Vertices() {
		lifted[v] = m.Point(v).Add(v3.Vec{Z: 1})
	}
	maps := aabb.MapsWith(m, lifted)
	h := m.EdgeHalfedge(0)
	if got := maps.References.Get(h).Z; got != 1 {
		t.Errorf("reference z = %v, want 1", got)
	}
	if got := maps.Segments.Get(h).Target.Z; got != 1 {
		t.Errorf("segment target z = %v, want 1", got)
	}
}
