// Package cell implements the Cell sum type of spec.md §3/§4.3: the
// intersection of signed half-spaces, either terminated by a material ID
// (a leaf of the hierarchy) or filled by a child universe ID (recursive).
// Deep inheritance in the original C++ (CellBasic/CellFill subclassing a
// common Cell base) becomes a sum type over {Material, Fill}, dispatched
// on Kind — the same transformation the graph package applies to its
// NodeKind-tagged Node (pkg/graph/node.go in the teacher repo).
package cell

import (
	"math"

	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/id"
	"github.com/flatsource/moc2d/pkg/surface"
)

// Kind distinguishes a material leaf cell from a universe-filled cell.
type Kind int

const (
	KindMaterial Kind = iota
	KindFill
)

// HalfSpace pairs a surface with the side of it a cell's interior must
// lie on.
type HalfSpace struct {
	Surface id.SurfaceID
	Sign    surface.Side
}

// Subdivider is the hook spec.md §4.3 describes for splitting a material
// cell into angular sectors and radial rings. Its only contract is that,
// after it runs, the cells present in universes still partition their
// universe and every material cell still names exactly one material.
// IdentitySubdivider (no-op) is the default.
type Subdivider interface {
	// Subdivide returns the replacement set of material cells for c (or
	// c unchanged, a 1-element slice, if this subdivider does not apply
	// to c's geometry) together with any new surfaces those replacement
	// cells reference, which the caller must register before the
	// replacement cells are queried.
	Subdivide(c *Cell, surfaces func(id.SurfaceID) surface.Surface) ([]*Cell, []surface.Surface)
}

// Cell is a region of a universe: the conjunction of its half-spaces,
// terminated by either a material or a child universe.
type Cell struct {
	ID         id.CellID
	UniverseID id.UniverseID // the universe this cell belongs to
	Kind       Kind
	HalfSpaces []HalfSpace

	MaterialID id.MaterialID // valid iff Kind == KindMaterial
	FillID     id.UniverseID // valid iff Kind == KindFill

	Subdivider Subdivider // valid iff Kind == KindMaterial; may be nil
}

// Surfaces returns the surface ID of each of this cell's half-spaces, in
// order (a surface used by two half-spaces appears twice) —
// Geometry.AddCell walks this to check that each one is registered
// (spec.md §4.1).
func (c *Cell) Surfaces() []id.SurfaceID {
	out := make([]id.SurfaceID, len(c.HalfSpaces))
	for i, hs := range c.HalfSpaces {
		out[i] = hs.Surface
	}
	return out
}

// Contains reports whether p satisfies every half-space predicate, i.e.
// whether p lies in the interior of c.
func (c *Cell) Contains(p geom2d.Point, surfaces func(id.SurfaceID) surface.Surface) bool {
	for _, hs := range c.HalfSpaces {
		s := surfaces(hs.Surface)
		if s.Side(p) != hs.Sign {
			return false
		}
	}
	return true
}

// AxisExtents returns a conservative axis-aligned bounding box for c by
// intersecting every half-space's own SideExtents — the bound that
// half-space's accepted side actually confines, not the surface's raw,
// sign-independent locus. A half-space whose accepted side is unbounded
// (the outside of a circle, or the far side of a bounding plane used
// only to exclude one half) contributes no useful bound there, so the
// result may be looser than c's true extent; spatial.Index only needs
// it to never be tighter.
func (c *Cell) AxisExtents(surfaces func(id.SurfaceID) surface.Surface) (xMin, xMax, yMin, yMax geom2d.FPPrecision) {
	xMin, xMax = geom2d.FPPrecision(math.Inf(-1)), geom2d.FPPrecision(math.Inf(1))
	yMin, yMax = geom2d.FPPrecision(math.Inf(-1)), geom2d.FPPrecision(math.Inf(1))
	for _, hs := range c.HalfSpaces {
		s := surfaces(hs.Surface)
		sx0, sx1, sy0, sy1 := s.SideExtents(hs.Sign)
		if sx0 > xMin {
			xMin = sx0
		}
		if sx1 < xMax {
			xMax = sx1
		}
		if sy0 > yMin {
			yMin = sy0
		}
		if sy1 < yMax {
			yMax = sy1
		}
	}
	return xMin, xMax, yMin, yMax
}

// MinSurfaceDist returns the minimum, over every bounding surface, of
// that surface's forward MinDistance from p along angle — +Inf if no
// bounding surface is crossed ahead of p. Ties between equally-near
// surfaces are broken arbitrarily; no caller depends on which wins.
func (c *Cell) MinSurfaceDist(p geom2d.Point, angle geom2d.FPPrecision, surfaces func(id.SurfaceID) surface.Surface) (geom2d.FPPrecision, geom2d.Point) {
	best := math.Inf(1)
	var bestPoint geom2d.Point
	for _, hs := range c.HalfSpaces {
		s := surfaces(hs.Surface)
		d, hit := s.MinDistance(p, angle)
		if d < best {
			best = d
			bestPoint = hit
		}
	}
	return best, bestPoint
}
