// Package universe implements the Universe sum type of spec.md §3/§4.4:
// Simple (an unordered set of cells covering a local frame) and Lattice
// (a rectangular tiling of child universes, itself also a universe).
// Both point-location variants (FindCell) and the FSR-numbering variants
// (ComputeFSROffsets, FindCellByFSR, FSROffsetForNode) live here, each
// dispatched through the Universe interface rather than a type tag, the
// "sum type over an interface" rendition spec.md's DESIGN NOTES call for
// in place of the original's class hierarchy.
package universe

import (
	"github.com/flatsource/moc2d/pkg/cell"
	"github.com/flatsource/moc2d/pkg/coords"
	"github.com/flatsource/moc2d/pkg/id"
	"github.com/flatsource/moc2d/pkg/surface"
)

// Resolver gives a Universe implementation access to the sibling
// registries it needs without importing the geometry package (which
// imports universe), breaking what would otherwise be an import cycle.
// Geometry is the sole production implementation.
type Resolver interface {
	Cell(id.CellID) *cell.Cell
	Universe(id.UniverseID) (Universe, bool)
	Surface(id.SurfaceID) surface.Surface
}

// Universe is implemented by Simple and Lattice.
type Universe interface {
	ID() id.UniverseID

	// FindCell locates the material cell containing the point recorded
	// in chain's tail node, recursing through fill cells / lattice
	// tiling as needed and extending chain with every level descended.
	// Returns nil if no cell in this universe contains the point.
	FindCell(chain *coords.Chain, r Resolver) *cell.Cell

	// ComputeFSROffsets assigns each of this universe's cells (or, for
	// a Lattice, each lattice cell) a local FSR offset per spec.md §4.6
	// step 3, and returns the total FSR count rooted at this universe.
	// It must be called after every universe's Subdivide.
	ComputeFSROffsets(r Resolver) int

	// FindCellByFSR performs the floor-search of spec.md §4.6: within
	// this universe, it selects the child with the greatest FSR offset
	// not exceeding fsrID, subtracts that offset, and recurses (or
	// returns the matching material cell at residue 0).
	FindCellByFSR(fsrID int, r Resolver) *cell.Cell

	// FSROffsetForNode returns the FSR offset this universe assigned to
	// the level the given chain node describes — the per-level term
	// findFSRId sums across the whole chain (spec.md §4.6).
	FSROffsetForNode(n coords.Node) int

	// Subdivide runs this universe's cells' Subdivide hooks in place,
	// replacing each material cell with its subdivision result (if any)
	// and registering any new surfaces those replacements introduce.
	Subdivide(registerSurface func(surface.Surface), registerCell func(*cell.Cell), r Resolver)
}
