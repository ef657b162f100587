package surface

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/id"
)

// Circle is a surface bounded by a circle of the given radius centered
// at (X, Y). Side and AxisExtents are backed by sdfx's 2D signed-distance
// primitive (sdf.Circle2D) rather than hand-rolled algebra: the sign of
// an SDF's Evaluate is exactly the inside/outside test spec.md §4.2
// calls Side, and its BoundingBox is exactly AxisExtents. MinDistance
// still solves the ray-circle quadratic directly, since sdf2 exposes a
// distance field, not a ray-intersection distance.
type Circle struct {
	surfaceID    id.SurfaceID
	boundaryType BoundaryType
	X, Y, Radius geom2d.FPPrecision
	field        sdf.SDF2
}

// NewCircle builds a Circle surface centered at (x, y) with the given
// radius.
func NewCircle(sid id.SurfaceID, bt BoundaryType, x, y, radius geom2d.FPPrecision) *Circle {
	base, _ := sdf.Circle2D(float64(radius))
	centered := sdf.Transform2D(base, sdf.Translate2d(v2.Vec{X: float64(x), Y: float64(y)}))
	return &Circle{surfaceID: sid, boundaryType: bt, X: x, Y: y, Radius: radius, field: centered}
}

func (c *Circle) ID() id.SurfaceID           { return c.surfaceID }
func (c *Circle) BoundaryType() BoundaryType { return c.boundaryType }

func (c *Circle) AxisExtents() (xMin, xMax, yMin, yMax geom2d.FPPrecision) {
	bb := c.field.BoundingBox()
	return geom2d.FPPrecision(bb.Min.X), geom2d.FPPrecision(bb.Max.X),
		geom2d.FPPrecision(bb.Min.Y), geom2d.FPPrecision(bb.Max.Y)
}

// SideExtents returns the disk's own bounding box only for the inside
// (SideNegative) half-space, since that is the side AxisExtents' tight
// box actually bounds. The outside (SidePositive) half-space is
// unbounded — excluding a disk confines nothing on its own, as is the
// case for an excluded inner circle of a ring cell — so it contributes
// no bound at all.
func (c *Circle) SideExtents(side Side) (xMin, xMax, yMin, yMax geom2d.FPPrecision) {
	if side == SideNegative {
		return c.AxisExtents()
	}
	inf := geom2d.FPPrecision(math.Inf(1))
	return -inf, inf, -inf, inf
}

// Side reports SidePositive outside the circle, SideNegative inside —
// the sdfx convention (negative inside, positive outside, zero on the
// boundary) mapped onto the engine's {-1,+1} half-space sign.
func (c *Circle) Side(pt geom2d.Point) Side {
	d := c.field.Evaluate(v2.Vec{X: float64(pt.X), Y: float64(pt.Y)})
	if d >= 0 {
		return SidePositive
	}
	return SideNegative
}

// MinDistance returns the forward distance from pt to the circle's
// boundary along angle, or +Inf if the ray never crosses it ahead of pt.
func (c *Circle) MinDistance(pt geom2d.Point, angle geom2d.FPPrecision) (geom2d.FPPrecision, geom2d.Point) {
	dirX := geom2d.FPPrecision(math.Cos(float64(angle)))
	dirY := geom2d.FPPrecision(math.Sin(float64(angle)))
	ox, oy := pt.X-c.X, pt.Y-c.Y

	a := dirX*dirX + dirY*dirY
	b := 2 * (ox*dirX + oy*dirY)
	cc := ox*ox + oy*oy - c.Radius*c.Radius

	t, ok := forwardRoot(a, b, cc)
	if !ok {
		return geom2d.FPPrecision(math.Inf(1)), geom2d.Point{}
	}
	return t, pt.MoveAlong(angle, t)
}
