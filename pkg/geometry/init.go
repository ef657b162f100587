package geometry

import (
	"log"

	"github.com/flatsource/moc2d/pkg/cell"
	"github.com/flatsource/moc2d/pkg/geomerr"
	"github.com/flatsource/moc2d/pkg/id"
	"github.com/flatsource/moc2d/pkg/universe"
)

// InitializeCellFillPointers validates that every fill cell's child
// universe was in fact added (spec.md §4.1's "initializeCellFillPointers
// resolves each fill cell's child universe ID to a cached handle" — our
// map-based registries resolve by ID in O(1) already, so this pass
// exists purely to surface a dangling reference fatally before FSR
// numbering runs, rather than failing confusingly mid-walk).
func (g *Geometry) InitializeCellFillPointers() {
	for _, cid := range g.sortedCellIDs() {
		c := g.cells[cid]
		if c.Kind != cell.KindFill {
			continue
		}
		if _, ok := g.universes[c.FillID]; !ok {
			geomerr.Fatalf("cell %d fills with universe %d, which was never added", cid, c.FillID)
		}
	}
}

// SubdivideCells runs Subdivide on every universe in ascending-ID order,
// per spec.md §4.6 step 2. Any new surfaces a subdivision introduces are
// registered through AddSurface before the replacement cells it also
// introduces are inserted, so the replacement cells' half-space lookups
// never race ahead of the surfaces they reference.
func (g *Geometry) SubdivideCells() {
	for _, uid := range g.sortedUniverseIDs() {
		u := g.universes[uid]
		u.Subdivide(g.AddSurface, g.registerSubdividedCell, g)
	}
}

func (g *Geometry) registerSubdividedCell(c *cell.Cell) {
	g.cells[c.ID] = c
}

// InitializeFlatSourceRegions performs spec.md §4.6 steps 1-5 exactly
// once: resolve fill pointers, subdivide, build each Simple universe's
// spatial prefilter now that its final cell set is known, compute FSR
// offsets from the root universe, then populate the two inverse arrays
// by floor-searching every FSR id. Must be called exactly once, after
// every Add* call and before any query or Segmentize call.
func (g *Geometry) InitializeFlatSourceRegions() {
	g.InitializeCellFillPointers()
	g.SubdivideCells()

	for _, uid := range g.sortedUniverseIDs() {
		if s, ok := g.universes[uid].(*universe.Simple); ok {
			s.BuildIndex(g)
		}
	}

	root, ok := g.universes[id.RootUniverseID]
	if !ok {
		geomerr.Fatalf("root universe %d was never added", id.RootUniverseID)
	}
	g.numFSRs = root.ComputeFSROffsets(g)

	g.fsrToCells = make([]id.CellID, g.numFSRs)
	g.fsrToMaterials = make([]id.MaterialID, g.numFSRs)
	for r := 0; r < g.numFSRs; r++ {
		c := root.FindCellByFSR(r, g)
		if c == nil || c.Kind != cell.KindMaterial {
			geomerr.Fatalf("fsr %d resolved to no material cell", r)
		}
		g.fsrToCells[r] = c.ID
		g.fsrToMaterials[r] = c.MaterialID
	}
	g.initialized = true
	log.Printf("Geometry %s: initialized %d flat source regions", g.constructionID, g.numFSRs)
}

// FindCellByFSR is the public floor-search query of spec.md §4.6 and
// §6: "find_cell(fsr_id)". It is fatal on an out-of-range id, per
// spec.md §7.
func (g *Geometry) FindCellByFSR(fsrID int) *cell.Cell {
	if fsrID < 0 || fsrID >= g.numFSRs {
		geomerr.Fatalf("fsr id %d out of range [0,%d)", fsrID, g.numFSRs)
	}
	root := g.universes[id.RootUniverseID]
	c := root.FindCellByFSR(fsrID, g)
	if c == nil {
		geomerr.Fatalf("fsr id %d resolved to no material cell (nonzero residue)", fsrID)
	}
	return c
}
