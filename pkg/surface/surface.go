// Package surface implements the Surface external contract of spec.md
// §4.2: a signed algebraic 2D boundary that can classify which side of
// itself a point is on and compute the forward distance from a point
// along a ray to its own boundary. The rest of the geometry engine only
// ever calls through this contract — no caller inspects a Surface's
// internal representation.
package surface

import (
	"math"

	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/id"
)

// BoundaryType classifies how a track behaves when it reaches a surface
// that forms part of the outer edge of the geometry. Interior surfaces
// (shared between two cells of the same material domain) are BoundaryNone.
type BoundaryType int

const (
	BoundaryNone BoundaryType = iota
	BoundaryVacuum
	BoundaryReflective
)

// Side is the signed classification side.Side(point) returns: +1 or -1.
// A Cell's half-space list pairs a Surface with the Side it requires.
type Side int8

const (
	SideNegative Side = -1
	SidePositive Side = 1
)

// Surface is the contract every boundary type (Plane, Circle, ...)
// implements. AxisExtents returns possibly-infinite (xmin, xmax, ymin,
// ymax) for the surface itself, regardless of side — the degenerate
// locus a Geometry's bounding box accumulates from. SideExtents returns
// the (possibly looser, never tighter-than-true) box that a half-space
// built on this surface with the given accepted side may use to narrow
// a cell's box: unlike AxisExtents, it must not tighten a bound the
// accepted side does not actually confine to. MinDistance returns +Inf
// when the ray does not cross the surface in the forward direction
// along angle.
type Surface interface {
	ID() id.SurfaceID
	BoundaryType() BoundaryType
	AxisExtents() (xMin, xMax, yMin, yMax geom2d.FPPrecision)
	SideExtents(side Side) (xMin, xMax, yMin, yMax geom2d.FPPrecision)
	Side(p geom2d.Point) Side
	MinDistance(p geom2d.Point, angle geom2d.FPPrecision) (dist geom2d.FPPrecision, hit geom2d.Point)
}

// forwardRoot returns the smallest root t > 1e-9 of a*t^2 + b*t + c = 0
// (falling back to the linear equation when a is ~0), or false if there
// is none. Circle.MinDistance reduces its ray-circle intersection to
// this; Plane.MinDistance solves its linear case directly.
func forwardRoot(a, b, c geom2d.FPPrecision) (geom2d.FPPrecision, bool) {
	// Solve a*t^2 + b*t + c = 0 for the smallest t > epsilon, entirely in
	// float64 regardless of geom2d.FPPrecision's build-time choice, since
	// math.Sqrt et al. are only defined for float64.
	const epsilon = 1e-9
	af, bf, cf := float64(a), float64(b), float64(c)
	if math.Abs(af) < 1e-15 {
		if math.Abs(bf) < 1e-15 {
			return 0, false
		}
		t := -cf / bf
		if t > epsilon {
			return geom2d.FPPrecision(t), true
		}
		return 0, false
	}
	disc := bf*bf - 4*af*cf
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-bf - sq) / (2 * af)
	t2 := (-bf + sq) / (2 * af)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > epsilon {
		return geom2d.FPPrecision(t1), true
	}
	if t2 > epsilon {
		return geom2d.FPPrecision(t2), true
	}
	return 0, false
}
