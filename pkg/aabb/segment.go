package aabb

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Segment is a directed 3D line segment.
type Segment struct {
	Source v3.Vec
	Target v3.Vec
}

// Bounds returns the segment's axis-aligned bounding box.
func (s Segment) Bounds() sdf.Box3 {
	return sdf.Box3{Min: s.Source.Min(s.Target), Max: s.Source.Max(s.Target)}
}

// ClosestPoint returns the point of s nearest to p.
func (s Segment) ClosestPoint(p v3.Vec) v3.Vec {
	d := s.Target.Sub(s.Source)
	l2 := d.Dot(d)
	if l2 == 0 {
		return s.Source
	}
	t := p.Sub(s.Source).Dot(d) / l2
	t = math.Max(0, math.Min(1, t))
	return s.Source.Add(d.MulScalar(t))
}

// SquaredDistance returns the squared distance from p to s.
func (s Segment) SquaredDistance(p v3.Vec) float64 {
	d := p.Sub(s.ClosestPoint(p))
	return d.Dot(d)
}

// IntersectsBox reports whether s touches the closed box b.
func (s Segment) IntersectsBox(b sdf.Box3) bool {
	// Slab clipping of the parameter interval [0, 1].
	t0, t1 := 0.0, 1.0
	src := [3]float64{s.Source.X, s.Source.Y, s.Source.Z}
	dir := [3]float64{s.Target.X - s.Source.X, s.Target.Y - s.Source.Y, s.Target.Z - s.Source.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if src[i] < lo[i] || src[i] > hi[i] {
				return false
			}
			continue
		}
		a := (lo[i] - src[i]) / dir[i]
		c := (hi[i] - src[i]) / dir[i]
		if a > c {
			a, c = c, a
		}
		t0 = math.Max(t0, a)
		t1 = math.Min(t1, c)
		if t0 > t1 {
			return false
		}
	}
	return true
}
