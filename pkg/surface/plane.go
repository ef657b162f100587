package surface

import (
	"math"

	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/id"
)

// Plane is an oriented infinite line a*x + b*y = c. Its Side is +1 where
// a*x+b*y-c >= 0 (points on the line included), -1 elsewhere. sdfx's sdf2 primitives model a finite Line2D segment,
// not an infinite half-plane, so unlike Circle (surface/circle.go) this
// type is implemented directly with the linear algebra OpenMOC itself
// uses for its XPlane/YPlane/Plane surfaces, rather than through sdf2.
type Plane struct {
	surfaceID    id.SurfaceID
	boundaryType BoundaryType
	A, B, C      geom2d.FPPrecision // a*x + b*y = c, (a,b) need not be unit length
	xMin, xMax   geom2d.FPPrecision
	yMin, yMax   geom2d.FPPrecision
}

// NewPlane builds a Plane surface. xMin/xMax/yMin/yMax may be +/-Inf for
// an unbounded extent (the usual case for an interior cell-splitting
// plane); a plane used as an outer reflective/vacuum boundary supplies
// finite extents so Geometry.AddSurface can grow the bounding box.
func NewPlane(sid id.SurfaceID, bt BoundaryType, a, b, c geom2d.FPPrecision, xMin, xMax, yMin, yMax geom2d.FPPrecision) *Plane {
	return &Plane{surfaceID: sid, boundaryType: bt, A: a, B: b, C: c, xMin: xMin, xMax: xMax, yMin: yMin, yMax: yMax}
}

// NewXPlane is the common case of a plane perpendicular to the x-axis,
// the 2D analogue of OpenMOC's XPlane surface: x = x0.
func NewXPlane(sid id.SurfaceID, bt BoundaryType, x0 geom2d.FPPrecision) *Plane {
	inf := geom2d.FPPrecision(math.Inf(1))
	return NewPlane(sid, bt, 1, 0, x0, x0, x0, -inf, inf)
}

// NewYPlane is the common case of a plane perpendicular to the y-axis:
// y = y0.
func NewYPlane(sid id.SurfaceID, bt BoundaryType, y0 geom2d.FPPrecision) *Plane {
	inf := geom2d.FPPrecision(math.Inf(1))
	return NewPlane(sid, bt, 0, 1, y0, -inf, inf, y0, y0)
}

func (p *Plane) ID() id.SurfaceID             { return p.surfaceID }
func (p *Plane) BoundaryType() BoundaryType   { return p.boundaryType }

func (p *Plane) AxisExtents() (xMin, xMax, yMin, yMax geom2d.FPPrecision) {
	return p.xMin, p.xMax, p.yMin, p.yMax
}

// SideExtents returns the bound a half-space accepting side contributes,
// derived from the plane's own a*x+b*y=c, not from the degenerate locus
// AxisExtents reports. An axis-aligned plane (b==0 or a==0) bounds
// exactly one side of one axis — e.g. x=x0 with the accepted side
// x>=x0 bounds xMin=x0 and leaves xMax, y unbounded; the opposite side
// bounds xMax instead. A plane that is not axis-aligned does not bound
// either axis on its own, so it contributes no bound at all.
func (p *Plane) SideExtents(side Side) (xMin, xMax, yMin, yMax geom2d.FPPrecision) {
	inf := geom2d.FPPrecision(math.Inf(1))
	xMin, xMax = -inf, inf
	yMin, yMax = -inf, inf

	const eps = 1e-12
	switch {
	case math.Abs(float64(p.B)) < eps && math.Abs(float64(p.A)) >= eps:
		x0 := p.C / p.A
		greaterIsPositive := p.A > 0
		if (side == SidePositive) == greaterIsPositive {
			xMin = x0
		} else {
			xMax = x0
		}
	case math.Abs(float64(p.A)) < eps && math.Abs(float64(p.B)) >= eps:
		y0 := p.C / p.B
		greaterIsPositive := p.B > 0
		if (side == SidePositive) == greaterIsPositive {
			yMin = y0
		} else {
			yMax = y0
		}
	}
	return xMin, xMax, yMin, yMax
}

func (p *Plane) evaluate(pt geom2d.Point) geom2d.FPPrecision {
	return p.A*pt.X + p.B*pt.Y - p.C
}

func (p *Plane) Side(pt geom2d.Point) Side {
	if p.evaluate(pt) >= 0 {
		return SidePositive
	}
	return SideNegative
}

// MinDistance returns the forward distance from pt to this plane along
// angle, or +Inf if the ray is parallel to the plane or only crosses it
// behind pt.
func (p *Plane) MinDistance(pt geom2d.Point, angle geom2d.FPPrecision) (geom2d.FPPrecision, geom2d.Point) {
	inf := geom2d.FPPrecision(math.Inf(1))
	dirX := geom2d.FPPrecision(math.Cos(float64(angle)))
	dirY := geom2d.FPPrecision(math.Sin(float64(angle)))
	denom := p.A*dirX + p.B*dirY
	if math.Abs(float64(denom)) < 1e-15 {
		return inf, geom2d.Point{}
	}
	t := (p.C - p.A*pt.X - p.B*pt.Y) / denom
	if t <= 1e-9 {
		return inf, geom2d.Point{}
	}
	return t, pt.MoveAlong(angle, t)
}
