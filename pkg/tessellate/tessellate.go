// Package tessellate walks a scene and produces one halfedge mesh per
// surface. Implicit solids are sampled through a geometry kernel; explicit
// polyhedra, hulls and subdivision steps stay in halfedge form.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/facet/pkg/halfedge"
	"github.com/chazu/facet/pkg/hull"
	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/logging"
	"github.com/chazu/facet/pkg/scene"
	"github.com/chazu/facet/pkg/subdiv"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// DefaultWeldTolerance is the grid size used to merge marching-cubes
// vertices into a shared-vertex mesh.
const DefaultWeldTolerance = 1e-4

// Surface is the tessellated geometry of one scene surface.
type Surface struct {
	Name string
	ID   scene.NodeID
	Mesh *halfedge.Mesh
}

// Option configures Tessellate.
type Option func(*walker)

// WithWeldTolerance sets the vertex weld grid for kernel meshes.
func WithWeldTolerance(tol float64) Option {
	return func(w *walker) {
		if tol > 0 {
			w.weldTol = tol
		}
	}
}

// walker evaluates geometry nodes, memoizing shared subtrees by ID.
type walker struct {
	s       *scene.Scene
	k       kernel.Kernel
	weldTol float64
	meshes  map[scene.NodeID]*halfedge.Mesh
}

// Tessellate produces one mesh per surface reachable from the scene's
// roots, in scene.Surfaces order. The tessellator is read-only and never
// mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel, opts ...Option) ([]Surface, error) {
	if s == nil {
		return nil, nil
	}
	w := &walker{
		s:       s,
		k:       k,
		weldTol: DefaultWeldTolerance,
		meshes:  make(map[scene.NodeID]*halfedge.Mesh),
	}
	for _, opt := range opts {
		opt(w)
	}

	var out []Surface
	for _, n := range s.Surfaces() {
		kids := s.Children(n)
		if len(kids) != 1 {
			return nil, fmt.Errorf("tessellate: surface %q has %d children, want 1", n.Name, len(kids))
		}
		m, err := w.mesh(kids[0])
		if err != nil {
			return nil, fmt.Errorf("tessellate: surface %q: %w", n.Name, err)
		}
		logging.Logger().Debug("tessellate: surface",
			"name", n.Name, "vertices", m.NumVertices(), "faces", m.NumFaces())
		out = append(out, Surface{Name: n.Name, ID: n.ID, Mesh: m})
	}
	return out, nil
}

// Render converts surfaces into flat triangle meshes for display.
func Render(surfaces []Surface) []*kernel.Mesh {
	return lo.Map(surfaces, func(s Surface, _ int) *kernel.Mesh {
		km := kernel.FromPolygons(s.Mesh.Polygons())
		km.Surface = s.Name
		return km
	})
}

// mesh returns the halfedge mesh of a geometry node.
func (w *walker) mesh(n *scene.Node) (*halfedge.Mesh, error) {
	if m, ok := w.meshes[n.ID]; ok {
		return m, nil
	}
	m, err := w.build(n)
	if err != nil {
		return nil, err
	}
	w.meshes[n.ID] = m
	return m, nil
}

func (w *walker) build(n *scene.Node) (*halfedge.Mesh, error) {
	if solid, ok, err := w.solid(n); err != nil {
		return nil, err
	} else if ok {
		return w.sample(n, solid)
	}

	switch d := n.Data.(type) {
	case scene.BooleanData:
		return nil, fmt.Errorf("%s node %s: operands must be solids", d.Op, n.ID.Short())

	case scene.PolyhedronData:
		m, err := halfedge.Build(d.Points, d.Faces)
		if err != nil {
			return nil, fmt.Errorf("polyhedron %s: %w", n.ID.Short(), err)
		}
		return m, nil

	case scene.HullData:
		points, faces, err := hull.Of(d.Points)
		if err != nil {
			return nil, fmt.Errorf("hull %s: %w", n.ID.Short(), err)
		}
		return halfedge.Build(points, faces)

	case scene.TransformData:
		child, err := w.only(n)
		if err != nil {
			return nil, err
		}
		points, faces := child.Polygons()
		xf := matrix(d)
		for i, p := range points {
			points[i] = xf.MulPosition(p)
		}
		return halfedge.Build(points, faces)

	case scene.SubdivideData:
		child, err := w.only(n)
		if err != nil {
			return nil, err
		}
		m, err := subdiv.Refine(child, d.Scheme, d.Levels)
		if err != nil {
			return nil, fmt.Errorf("subdivide %s: %w", n.ID.Short(), err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%s node %s has no geometry", n.Kind, n.ID.Short())
}

// only returns the mesh of n's single child.
func (w *walker) only(n *scene.Node) (*halfedge.Mesh, error) {
	kids := w.s.Children(n)
	if len(kids) != 1 {
		return nil, fmt.Errorf("%s node %s has %d children, want 1", n.Kind, n.ID.Short(), len(kids))
	}
	return w.mesh(kids[0])
}

// solid returns n as a kernel solid when its whole subtree is implicit:
// primitives combined by booleans and transforms.
func (w *walker) solid(n *scene.Node) (kernel.Solid, bool, error) {
	switch d := n.Data.(type) {
	case scene.SolidData:
		switch d.Kind {
		case scene.SolidBox:
			return w.k.Box(d.Size.X, d.Size.Y, d.Size.Z), true, nil
		case scene.SolidSphere:
			return w.k.Sphere(d.Radius), true, nil
		case scene.SolidCylinder:
			return w.k.Cylinder(d.Height, d.Radius), true, nil
		}
		return nil, false, fmt.Errorf("solid %s: unknown kind %d", n.ID.Short(), int(d.Kind))

	case scene.BooleanData:
		var acc kernel.Solid
		for i, c := range w.s.Children(n) {
			s, ok, err := w.solid(c)
			if err != nil || !ok {
				return nil, false, err
			}
			if i == 0 {
				acc = s
				continue
			}
			switch d.Op {
			case scene.OpUnion:
				acc = w.k.Union(acc, s)
			case scene.OpDifference:
				acc = w.k.Difference(acc, s)
			case scene.OpIntersection:
				acc = w.k.Intersection(acc, s)
			}
		}
		return acc, acc != nil, nil

	case scene.TransformData:
		kids := w.s.Children(n)
		if len(kids) != 1 {
			return nil, false, nil
		}
		s, ok, err := w.solid(kids[0])
		if err != nil || !ok {
			return nil, false, err
		}
		// Rotate first, then translate.
		if r := d.Rotation; r != nil {
			s = w.k.Rotate(s, r.X, r.Y, r.Z)
		}
		if t := d.Translation; t != nil {
			s = w.k.Translate(s, t.X, t.Y, t.Z)
		}
		return s, true, nil
	}
	return nil, false, nil
}

// sample meshes a solid and welds the soup into a halfedge mesh.
func (w *walker) sample(n *scene.Node, s kernel.Solid) (*halfedge.Mesh, error) {
	km, err := w.k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed for node %s: %w", n.ID.Short(), err)
	}
	points, faces := km.Weld(w.weldTol)
	m, err := halfedge.Build(points, faces, halfedge.SkipInvalidFaces())
	if err != nil {
		return nil, fmt.Errorf("welding node %s: %w", n.ID.Short(), err)
	}
	return m, nil
}

// matrix returns the rotate-then-translate transform of d, matching the
// kernel's Euler convention.
func matrix(d scene.TransformData) sdf.M44 {
	m := sdf.Identity3d()
	if r := d.Rotation; r != nil {
		rad := func(deg float64) float64 { return deg * math.Pi / 180 }
		m = sdf.RotateZ(rad(r.Z)).Mul(sdf.RotateY(rad(r.Y))).Mul(sdf.RotateX(rad(r.X)))
	}
	if t := d.Translation; t != nil {
		m = sdf.Translate3d(v3.Vec{X: t.X, Y: t.Y, Z: t.Z}).Mul(m)
	}
	return m
}
