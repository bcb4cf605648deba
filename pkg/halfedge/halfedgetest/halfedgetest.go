// Package halfedgetest provides small reference meshes for tests of
// packages built on halfedge.
package halfedgetest

import (
	"math"
	"testing"

	"github.com/chazu/facet/pkg/halfedge"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MustBuild builds a mesh or fails the test.
func MustBuild(tb testing.TB, points []v3.Vec, faces [][]int) *halfedge.Mesh {
	tb.Helper()
	m, err := halfedge.Build(points, faces)
	if err != nil {
		tb.Fatalf("halfedge.Build() error = %v", err)
	}
	return m
}

// FindHalfedge returns the halfedge from vertex a to vertex b or fails the
// test.
func FindHalfedge(tb testing.TB, m *halfedge.Mesh, a, b int) halfedge.Halfedge {
	tb.Helper()
	for h := range m.Halfedges() {
		if int(m.Source(h)) == a && int(m.Target(h)) == b {
			return h
		}
	}
	tb.Fatalf("no halfedge from v%d to v%d", a, b)
	return halfedge.NullHalfedge
}

// GridIndex returns the vertex index of grid corner (i, j) in a grid that is
// nx cells wide.
func GridIndex(nx, i, j int) int {
	return j*(nx+1) + i
}

// Grid returns a planar nx-by-ny grid of unit quads in the z=0 plane with
// its lower-left corner at the origin. Faces are counter-clockwise seen
// from +Z.
func Grid(nx, ny int) ([]v3.Vec, [][]int) {
	var points []v3.Vec
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			points = append(points, v3.Vec{X: float64(i), Y: float64(j)})
		}
	}
	var faces [][]int
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			faces = append(faces, []int{
				GridIndex(nx, i, j),
				GridIndex(nx, i+1, j),
				GridIndex(nx, i+1, j+1),
				GridIndex(nx, i, j+1),
			})
		}
	}
	return points, faces
}

// TriangleGrid splits every quad of Grid(nx, ny) along its diagonal.
func TriangleGrid(nx, ny int) ([]v3.Vec, [][]int) {
	points, quads := Grid(nx, ny)
	faces := make([][]int, 0, 2*len(quads))
	for _, q := range quads {
		faces = append(faces, []int{q[0], q[1], q[2]}, []int{q[0], q[2], q[3]})
	}
	return points, faces
}

// Fan returns n triangles around a center vertex 0 at the origin, with ring
// vertices 1..n evenly spaced on a circle of the given radius.
func Fan(n int, radius float64) ([]v3.Vec, [][]int) {
	points := []v3.Vec{{}}
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		points = append(points, v3.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)})
	}
	faces := make([][]int, 0, n)
	for i := 0; i < n; i++ {
		faces = append(faces, []int{0, 1 + i, 1 + (i+1)%n})
	}
	return points, faces
}

// Tetrahedron returns a closed, consistently oriented tetrahedron.
func Tetrahedron() ([]v3.Vec, [][]int) {
	points := []v3.Vec{
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
	}
	faces := [][]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}}
	return points, faces
}

// Cube returns the closed unit cube as six outward-facing quads. Vertex
// i sits at (i&1, i>>1&1, i>>2&1).
func Cube() ([]v3.Vec, [][]int) {
	points := make([]v3.Vec, 8)
	for i := range points {
		points[i] = v3.Vec{X: float64(i & 1), Y: float64(i >> 1 & 1), Z: float64(i >> 2 & 1)}
	}
	faces := [][]int{
		{0, 2, 3, 1}, // z=0
		{4, 5, 7, 6}, // z=1
		{0, 1, 5, 4}, // y=0
		{2, 6, 7, 3}, // y=1
		{0, 4, 6, 2}, // x=0
		{1, 3, 7, 5}, // x=1
	}
	return points, faces
}

// Octahedron returns the closed octahedron with vertices on the unit axes.
func Octahedron() ([]v3.Vec, [][]int) {
	points := []v3.Vec{
		{X: 1}, {X: -1},
		{Y: 1}, {Y: -1},
		{Z: 1}, {Z: -1},
	}
	faces := [][]int{
		{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
		{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
	}
	return points, faces
}

// Translate returns a copy of points moved by t.
func Translate(points []v3.Vec, t v3.Vec) []v3.Vec {
	out := make([]v3.Vec, len(points))
	for i, p := range points {
		out[i] = p.Add(t)
	}
	return out
}

// Scale returns a copy of points scaled by s about the origin.
func Scale(points []v3.Vec, s float64) []v3.Vec {
	out := make([]v3.Vec, len(points))
	for i, p := range points {
		out[i] = p.MulScalar(s)
	}
	return out
}

// Near reports whether a and b agree within tol in every coordinate.
func Near(a, b v3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
