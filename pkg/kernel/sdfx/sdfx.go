// Package sdfx implements kernel.Kernel with the github.com/deadsy/sdfx
// signed-distance-field library, meshing solids by marching cubes.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/facet/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// DefaultCells is the marching cubes resolution along the longest axis of
// a solid's bounding box.
const DefaultCells = 64

// Option configures a Kernel.
type Option func(*Kernel)

// WithCells sets the marching cubes resolution. Values below 8 are raised
// to 8.
func WithCells(n int) Option {
	return func(k *Kernel) {
		k.cells = max(n, 8)
	}
}

// solid wraps an sdf.SDF3 to implement kernel.Solid.
type solid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *solid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Kernel implements kernel.Kernel using sdfx.
type Kernel struct {
	cells int
}

// New returns a Kernel.
func New(opts ...Option) *Kernel {
	k := &Kernel{cells: DefaultCells}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Cells returns the marching cubes resolution.
func (k *Kernel) Cells() int { return k.cells }

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*solid).s
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &solid{s: s}
}

// Box creates a box with the given dimensions centered on the origin.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(s)
}

// Sphere creates a sphere centered on the origin.
func (k *Kernel) Sphere(radius float64) kernel.Solid {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Sphere3D: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a Z-aligned cylinder centered on the origin.
func (k *Kernel) Cylinder(height, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	rad := func(deg float64) float64 { return deg * math.Pi / 180.0 }
	m := sdf.RotateZ(rad(z)).Mul(sdf.RotateY(rad(y))).Mul(sdf.RotateX(rad(x)))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle soup using marching cubes. Each
// triangle has its own three vertices and a flat normal; call Weld on the
// result to share vertices.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	if s == nil {
		return nil, fmt.Errorf("sdfx: nil solid")
	}
	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(unwrap(s), renderer)

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
