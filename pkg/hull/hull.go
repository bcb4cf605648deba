// Package hull computes convex hulls of point clouds as closed triangle
// soups ready for halfedge.Build.
package hull

import (
	"errors"
	"math"

	"github.com/chazu/facet/pkg/logging"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
)

const defaultEps = 1e-12

var (
	// ErrTooFewPoints is returned for fewer than four input points.
	ErrTooFewPoints = errors.New("hull: at least four points are required")
	// ErrDegenerate is returned when the points span no volume.
	ErrDegenerate = errors.New("hull: points are coplanar")
)

type options struct {
	eps float64
}

// Option configures Of.
type Option func(*options)

// WithEpsilon sets the quickhull distance tolerance.
func WithEpsilon(eps float64) Option {
	return func(o *options) {
		if eps > 0 {
			o.eps = eps
		}
	}
}

// Of returns the convex hull of points. The returned points are the hull
// vertices in input order; faces index them and are wound counter-clockwise
// seen from outside.
func Of(points []v3.Vec, opts ...Option) ([]v3.Vec, [][]int, error) {
	o := options{eps: defaultEps}
	for _, opt := range opts {
		opt(&o)
	}
	if len(points) < 4 {
		return nil, nil, ErrTooFewPoints
	}

	if !spansVolume(points, o.eps) {
		return nil, nil, ErrDegenerate
	}

	in := make([]r3.Vector, len(points))
	for i, p := range points {
		in[i] = r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
	}
	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(in, true, true, o.eps)

	// Keep only referenced points, preserving input order.
	remap := make([]int, len(points))
	for i := range remap {
		remap[i] = -1
	}
	for _, idx := range ch.Indices {
		remap[idx] = 0
	}
	var out []v3.Vec
	for i, p := range points {
		if remap[i] == 0 {
			remap[i] = len(out)
			out = append(out, p)
		}
	}
	if len(out) < 4 {
		return nil, nil, ErrDegenerate
	}

	var center v3.Vec
	for _, p := range out {
		center = center.Add(p)
	}
	center = center.MulScalar(1 / float64(len(out)))

	faces := make([][]int, 0, len(ch.Indices)/3)
	volume := 0.0
	for t := 0; t+2 < len(ch.Indices); t += 3 {
		f := []int{remap[ch.Indices[t]], remap[ch.Indices[t+1]], remap[ch.Indices[t+2]]}
		a, b, c := out[f[0]], out[f[1]], out[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		side := n.Dot(a.Sub(center))
		if side < 0 {
			f[1], f[2] = f[2], f[1]
		}
		volume += math.Abs(side) / 6
		faces = append(faces, f)
	}
	if volume <= o.eps*span(out) {
		return nil, nil, ErrDegenerate
	}

	logging.Logger().Debug("convex hull", "input", len(points), "vertices", len(out), "faces", len(faces))
	return out, faces, nil
}

// span returns the cube of the largest bounding-box extent.
func span(points []v3.Vec) float64 {
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	d := hi.Sub(lo)
	s := math.Max(d.X, math.Max(d.Y, d.Z))
	return s * s * s
}

// spansVolume reports whether some four points form a tetrahedron thicker
// than eps relative to the cloud's extent.
func spansVolume(points []v3.Vec, eps float64) bool {
	p0 := points[0]
	far := func(score func(v3.Vec) float64) (v3.Vec, float64) {
		best, bestScore := p0, -1.0
		for _, p := range points {
			if s := score(p); s > bestScore {
				best, bestScore = p, s
			}
		}
		return best, bestScore
	}
	p1, d1 := far(func(p v3.Vec) float64 { return p.Sub(p0).Length() })
	if d1 <= eps {
		return false
	}
	axis := p1.Sub(p0)
	p2, d2 := far(func(p v3.Vec) float64 { return axis.Cross(p.Sub(p0)).Length() / d1 })
	if d2 <= eps*d1 {
		return false
	}
	n := axis.Cross(p2.Sub(p0))
	nl := n.Length()
	_, d3 := far(func(p v3.Vec) float64 { return math.Abs(n.Dot(p.Sub(p0))) / nl })
	return d3 > eps*d1
}
