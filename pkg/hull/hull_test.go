package hull

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/chazu/facet/pkg/halfedge"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func cubeCorners() []v3.Vec {
	var ps []v3.Vec
	for i := 0; i < 8; i++ {
		ps = append(ps, v3.Vec{X: float64(i & 1), Y: float64(i >> 1 & 1), Z: float64(i >> 2 & 1)})
	}
	return ps
}

func TestHullOfCubeWithInteriorPoints(t *testing.T) {
	points := append(cubeCorners(), v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, v3.Vec{X: 0.25, Y: 0.7, Z: 0.4})
	out, faces, err := Of(points)
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	if len(out) != 8 {
		t.Errorf("hull vertices = %d, want 8", len(out))
	}
	if len(faces) != 12 {
		t.Errorf("hull faces = %d, want 12", len(faces))
	}
	m, err := halfedge.Build(out, faces)
	if err != nil {
		t.Fatalf("halfedge.Build() error = %v", err)
	}
	if !m.IsClosed() {
		t.Error("hull mesh is not closed")
	}
}

func TestHullFacesPointOutward(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	var points []v3.Vec
	for i := 0; i < 60; i++ {
		// Points on a sphere are all hull vertices.
		z := rng.Float64()*2 - 1
		a := rng.Float64() * 2 * math.Pi
		r := math.Sqrt(1 - z*z)
		points = append(points, v3.Vec{X: r * math.Cos(a), Y: r * math.Sin(a), Z: z})
	}
	out, faces, err := Of(points)
	if err != nil {
		t.Fatalf("Of() error = %v", err)
	}
	if len(out) != len(points) {
		t.Errorf("hull vertices = %d, want %d", len(out), len(points))
	}
	if want := 2*len(out) - 4; len(faces) != want {
		t.Errorf("hull faces = %d, want %d", len(faces), want)
	}
	for i, f := range faces {
		a, b, c := out[f[0]], out[f[1]], out[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Dot(a) <= 0 {
			t.Errorf("face %d %v faces inward", i, f)
		}
	}
	m, err := halfedge.Build(out, faces)
	if err != nil {
		t.Fatalf("halfedge.Build() error = %v", err)
	}
	if chi := m.NumVertices() - m.NumEdges() + m.NumFaces(); chi != 2 {
		t.Errorf("Euler characteristic = %d, want 2", chi)
	}
}

func TestHullErrors(t *testing.T) {
	tests := []struct {
		name   string
		points []v3.Vec
		want   error
	}{
		{"too few", cubeCorners()[:3], ErrTooFewPoints},
		{"coplanar", cubeCorners()[:4], ErrDegenerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Of(tt.points); !errors.Is(err, tt.want) {
				t.Errorf("Of() error = %v, want %v", err, tt.want)
			}
		})
	}
}
