package cell

import (
	"math"

	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/id"
	"github.com/flatsource/moc2d/pkg/surface"
)

// IdentitySubdivider leaves a cell unchanged. It is the default
// Subdivider for material cells that do not need finer flux resolution.
type IdentitySubdivider struct{}

func (IdentitySubdivider) Subdivide(c *Cell, _ func(id.SurfaceID) surface.Surface) ([]*Cell, []surface.Surface) {
	return []*Cell{c}, nil
}

// RadialSectorSubdivider splits a Circle-bounded material cell into
// Rings concentric annuli, each further split into Sectors angular
// wedges, the supplemental feature spec.md §4.3 leaves as an
// unimplemented hook but which OpenMOC's own CellBasic::subdivideCells
// performs for pin cells so the flux shape within a fuel pin is resolved
// more finely than a single flat source region would allow.
//
// This subdivider only knows how to split a cell whose half-spaces are
// exactly one enclosing Circle (SideNegative, i.e. "inside"); any other
// cell shape, including an annulus that also excludes an inner Circle,
// is returned unchanged, since the additional boundary surfaces this
// subdivider introduces are cut as pie-slice planes intersected with
// concentric circles starting from the disk's center.
type RadialSectorSubdivider struct {
	Rings   int
	Sectors int

	// NextSurfaceID allocates surface IDs for the new internal rings and
	// sector planes this subdivider introduces; it must not collide with
	// any surface ID already registered on the Geometry.
	NextSurfaceID func() id.SurfaceID
	// NextCellID allocates cell IDs for the replacement material cells.
	NextCellID func() id.CellID
}

func (r RadialSectorSubdivider) Subdivide(c *Cell, surfaces func(id.SurfaceID) surface.Surface) ([]*Cell, []surface.Surface) {
	if len(c.HalfSpaces) != 1 || c.HalfSpaces[0].Sign != surface.SideNegative {
		return []*Cell{c}, nil
	}
	outer, ok := surfaces(c.HalfSpaces[0].Surface).(*surface.Circle)
	if !ok || r.Rings < 1 || r.Sectors < 1 {
		return []*Cell{c}, nil
	}

	radii := make([]geom2d.FPPrecision, r.Rings+1)
	for i := 0; i <= r.Rings; i++ {
		radii[i] = outer.Radius * geom2d.FPPrecision(i) / geom2d.FPPrecision(r.Rings)
	}

	angles := make([]geom2d.FPPrecision, r.Sectors+1)
	for j := 0; j <= r.Sectors; j++ {
		angles[j] = 2 * math.Pi * geom2d.FPPrecision(j) / geom2d.FPPrecision(r.Sectors)
	}

	var out []*Cell
	var newSurfaces []surface.Surface
	for ring := 0; ring < r.Rings; ring++ {
		innerR, outerR := radii[ring], radii[ring+1]
		outerSurf := surface.NewCircle(r.NextSurfaceID(), surface.BoundaryNone, outer.X, outer.Y, outerR)
		newSurfaces = append(newSurfaces, outerSurf)
		var innerSurf *surface.Circle
		if innerR > 0 {
			innerSurf = surface.NewCircle(r.NextSurfaceID(), surface.BoundaryNone, outer.X, outer.Y, innerR)
			newSurfaces = append(newSurfaces, innerSurf)
		}

		for sector := 0; sector < r.Sectors; sector++ {
			hs := []HalfSpace{{Surface: outerSurf.ID(), Sign: surface.SideNegative}}
			if innerSurf != nil {
				hs = append(hs, HalfSpace{Surface: innerSurf.ID(), Sign: surface.SidePositive})
			}
			if r.Sectors > 1 {
				lo, hi := float64(angles[sector]), float64(angles[sector+1])
				inf := geom2d.FPPrecision(math.Inf(1))
				sinLo, cosLo := geom2d.FPPrecision(math.Sin(lo)), geom2d.FPPrecision(math.Cos(lo))
				sinHi, cosHi := geom2d.FPPrecision(math.Sin(hi)), geom2d.FPPrecision(math.Cos(hi))
				loPlane := surface.NewPlane(r.NextSurfaceID(), surface.BoundaryNone,
					-sinLo, cosLo, -sinLo*outer.X+cosLo*outer.Y,
					-inf, inf, -inf, inf)
				hiPlane := surface.NewPlane(r.NextSurfaceID(), surface.BoundaryNone,
					-sinHi, cosHi, -sinHi*outer.X+cosHi*outer.Y,
					-inf, inf, -inf, inf)
				newSurfaces = append(newSurfaces, loPlane, hiPlane)
				hs = append(hs,
					HalfSpace{Surface: loPlane.ID(), Sign: surface.SidePositive},
					HalfSpace{Surface: hiPlane.ID(), Sign: surface.SideNegative},
				)
			}

			out = append(out, &Cell{
				ID:         r.NextCellID(),
				UniverseID: c.UniverseID,
				Kind:       KindMaterial,
				HalfSpaces: hs,
				MaterialID: c.MaterialID,
				Subdivider: IdentitySubdivider{},
			})
		}
	}
	return out, newSurfaces
}
