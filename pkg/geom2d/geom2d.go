// Package geom2d holds the shared scalar type, fixed constants, and 2D
// point arithmetic used throughout the geometry engine. Keeping these in
// one leaf package (rather than duplicating a Vec type per package, the
// way the teacher repo ended up with both Vector3 and Vec3) avoids the
// import cycles that would otherwise tangle surface, cell, coords, and
// track together.
package geom2d

import "math"

// TinyMove is the fixed forward nudge (cm) used to disambiguate a point
// that lands exactly on a surface boundary. It must be used identically
// everywhere a nudge occurs (FindFirstCell, FindNextCell,
// FindNextLatticeCell) so that nudges compose consistently; it is not
// configurable.
const TinyMove FPPrecision = 1e-10

// Point is a 2D point or vector.
type Point struct {
	X, Y FPPrecision
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled by s.
func (p Point) Scale(s FPPrecision) Point {
	return Point{p.X * s, p.Y * s}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) FPPrecision {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return FPPrecision(math.Sqrt(dx*dx + dy*dy))
}

// Nudge returns p displaced by TinyMove along the direction angle
// (radians), the displacement spec.md fixes at cos(angle)*TinyMove,
// sin(angle)*TinyMove.
func (p Point) Nudge(angle FPPrecision) Point {
	return Point{
		X: p.X + FPPrecision(math.Cos(float64(angle)))*TinyMove,
		Y: p.Y + FPPrecision(math.Sin(float64(angle)))*TinyMove,
	}
}

// MoveAlong returns p displaced by distance d along angle (radians).
func (p Point) MoveAlong(angle FPPrecision, d FPPrecision) Point {
	return Point{
		X: p.X + FPPrecision(math.Cos(float64(angle)))*d,
		Y: p.Y + FPPrecision(math.Sin(float64(angle)))*d,
	}
}
