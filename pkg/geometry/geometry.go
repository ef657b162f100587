// Package geometry implements the orchestrator of spec.md §3/§4.1/§4.5/
// §4.6/§4.7/§4.8: the five registries, the bounding box and boundary
// condition flags addSurface alone maintains, FSR numbering, and the
// findCell/findNextCell/segmentize traversal kernels. It is the single
// largest component (~45% of the original budget) and the only package
// that holds mutable shared state after initialization — the two
// segment-length statistics, updated with atomic min/max per spec.md §5.
package geometry

import (
	"fmt"
	"log"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/flatsource/moc2d/pkg/cell"
	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/geomerr"
	"github.com/flatsource/moc2d/pkg/id"
	"github.com/flatsource/moc2d/pkg/material"
	"github.com/flatsource/moc2d/pkg/surface"
	"github.com/flatsource/moc2d/pkg/universe"
)

// Geometry holds the five registries and the derived state
// initializeFlatSourceRegions computes from them. The zero value is not
// usable; construct with New.
type Geometry struct {
	constructionID uuid.UUID

	materials map[id.MaterialID]*material.Material
	surfaces  map[id.SurfaceID]surface.Surface
	cells     map[id.CellID]*cell.Cell
	universes map[id.UniverseID]universe.Universe
	lattices  map[id.LatticeID]*universe.Lattice

	numEnergyGroups int

	xMin, xMax, yMin, yMax       geom2d.FPPrecision
	bcXMin, bcXMax, bcYMin, bcYMax bool // true = reflective, false = vacuum

	initialized    bool
	numFSRs        int
	fsrToCells     []id.CellID
	fsrToMaterials []id.MaterialID

	maxSegLengthBits atomicBits
	minSegLengthBits atomicBits
}

// New constructs an empty Geometry. Every Add* call after New must
// happen before InitializeFlatSourceRegions; after that, only Segmentize
// may touch the Geometry (spec.md §5).
func New() *Geometry {
	g := &Geometry{
		constructionID: uuid.New(),
		materials:      make(map[id.MaterialID]*material.Material),
		surfaces:       make(map[id.SurfaceID]surface.Surface),
		cells:          make(map[id.CellID]*cell.Cell),
		universes:      make(map[id.UniverseID]universe.Universe),
		lattices:       make(map[id.LatticeID]*universe.Lattice),
		xMin:           geom2d.FPPrecision(math.Inf(1)),
		xMax:           geom2d.FPPrecision(math.Inf(-1)),
		yMin:           geom2d.FPPrecision(math.Inf(1)),
		yMax:           geom2d.FPPrecision(math.Inf(-1)),
	}
	g.maxSegLengthBits.storeFloat(math.Inf(-1))
	g.minSegLengthBits.storeFloat(math.Inf(1))
	return g
}

// ConstructionID returns the identifier stamped on this Geometry at
// construction time, so two Geometries built independently in the same
// process (common in table-driven tests run in parallel) never get
// confused when their String() output appears interleaved in test logs.
func (g *Geometry) ConstructionID() uuid.UUID { return g.constructionID }

// --- Registries: Resolver implementation (pkg/universe.Resolver) ---

func (g *Geometry) Cell(cid id.CellID) *cell.Cell { return g.cells[cid] }

// Material resolves a material ID back to the *material.Material added
// with AddMaterial — the registry lookup spec.md §4.8 step 5 performs
// inline ("material = materials[prev.material_id]"), and the only public
// way to resolve the *material.Material a Segment carries (spec.md §6).
func (g *Geometry) Material(mid id.MaterialID) *material.Material { return g.materials[mid] }

func (g *Geometry) Universe(uid id.UniverseID) (universe.Universe, bool) {
	u, ok := g.universes[uid]
	return u, ok
}

func (g *Geometry) Surface(sid id.SurfaceID) surface.Surface { return g.surfaces[sid] }

func (g *Geometry) lattice(lid id.LatticeID) *universe.Lattice { return g.lattices[lid] }

// --- Deterministic iteration helpers ---

func (g *Geometry) sortedCellIDs() []id.CellID {
	ids := lo.Keys(g.cells)
	slices.Sort(ids)
	return ids
}

func (g *Geometry) sortedUniverseIDs() []id.UniverseID {
	ids := lo.Keys(g.universes)
	slices.Sort(ids)
	return ids
}

func (g *Geometry) sortedMaterialIDs() []id.MaterialID {
	ids := lo.Keys(g.materials)
	slices.Sort(ids)
	return ids
}

func (g *Geometry) sortedSurfaceIDs() []id.SurfaceID {
	ids := lo.Keys(g.surfaces)
	slices.Sort(ids)
	return ids
}

// --- addMaterial ---

// AddMaterial inserts m, fatal on a duplicate ID or an energy-group
// mismatch against materials already added, per spec.md §4.1.
func (g *Geometry) AddMaterial(m *material.Material) {
	if _, exists := g.materials[m.ID]; exists {
		geomerr.Fatalf("duplicate material id %d", m.ID)
	}
	if g.numEnergyGroups == 0 {
		g.numEnergyGroups = m.NumEnergyGroups
	} else if g.numEnergyGroups != m.NumEnergyGroups {
		geomerr.Fatalf("material %d has %d energy groups, geometry already expects %d",
			m.ID, m.NumEnergyGroups, g.numEnergyGroups)
	}
	if err := m.CheckSigmaT(); err != nil {
		geomerr.Wrap(err, "material %d failed cross-section self-check", m.ID)
	}
	g.materials[m.ID] = m
	log.Printf("Geometry %s: added material %d (%d energy groups)", g.constructionID, m.ID, m.NumEnergyGroups)
}

// --- addSurface & bounding box / BC accumulation ---

// AddSurface inserts s, silently ignoring a duplicate ID — the one
// asymmetric duplicate policy among the five registries (spec.md §9's
// first open question, kept as specified since AddCell relies on
// re-adding a cell's surfaces transitively).
func (g *Geometry) AddSurface(s surface.Surface) {
	if _, exists := g.surfaces[s.ID()]; exists {
		return
	}
	g.surfaces[s.ID()] = s
	g.accumulateBounds(s)
	log.Printf("Geometry %s: added surface %d (boundary type %d)", g.constructionID, s.ID(), s.BoundaryType())
}

// accumulateBounds widens the bounding box to include s's finite extents
// and records the boundary-condition flag for whichever edges it
// tightens, but only for REFLECTIVE/VACUUM surfaces — an interior
// surface (BoundaryNone) never changes the outer box, even if its own
// extent happens to be finite.
func (g *Geometry) accumulateBounds(s surface.Surface) {
	bt := s.BoundaryType()
	if bt != surface.BoundaryReflective && bt != surface.BoundaryVacuum {
		return
	}
	reflective := bt == surface.BoundaryReflective
	xMin, xMax, yMin, yMax := s.AxisExtents()

	if !math.IsInf(float64(xMin), 0) && xMin < g.xMin {
		g.xMin, g.bcXMin = xMin, reflective
	}
	if !math.IsInf(float64(xMax), 0) && xMax > g.xMax {
		g.xMax, g.bcXMax = xMax, reflective
	}
	if !math.IsInf(float64(yMin), 0) && yMin < g.yMin {
		g.yMin, g.bcYMin = yMin, reflective
	}
	if !math.IsInf(float64(yMax), 0) && yMax > g.yMax {
		g.yMax, g.bcYMax = yMax, reflective
	}
}

// Bounds returns the accumulated bounding box.
func (g *Geometry) Bounds() (xMin, xMax, yMin, yMax geom2d.FPPrecision) {
	return g.xMin, g.xMax, g.yMin, g.yMax
}

// BoundaryConditions returns the four edge flags (true = reflective,
// false = vacuum), in xMin, xMax, yMin, yMax order.
func (g *Geometry) BoundaryConditions() (xMin, xMax, yMin, yMax bool) {
	return g.bcXMin, g.bcXMax, g.bcYMin, g.bcYMax
}

// --- addCell ---

// AddCell inserts c, eagerly registering every surface supplied with it
// (a Cell only carries surface IDs, per spec.md §3, so a referenced
// surface that is not registered yet must be supplied here; otherwise
// the call is fatal), then attaches c to its universe, creating a
// Simple universe for it if none exists yet.
func (g *Geometry) AddCell(c *cell.Cell, surfaces ...surface.Surface) {
	if _, exists := g.cells[c.ID]; exists {
		geomerr.Fatalf("duplicate cell id %d", c.ID)
	}
	for _, s := range surfaces {
		g.AddSurface(s)
	}
	for _, sid := range c.Surfaces() {
		if _, ok := g.surfaces[sid]; !ok {
			geomerr.Fatalf("cell %d references surface %d, which was not supplied to AddCell", c.ID, sid)
		}
	}
	g.cells[c.ID] = c

	u, exists := g.universes[c.UniverseID]
	if !exists {
		u = universe.NewSimple(c.UniverseID)
		g.universes[c.UniverseID] = u
	}
	simple, ok := u.(*universe.Simple)
	if !ok {
		geomerr.Fatalf("universe %d is a lattice, cannot hold cell %d", c.UniverseID, c.ID)
	}
	simple.AddCell(c.ID)
	log.Printf("Geometry %s: added cell %d to universe %d", g.constructionID, c.ID, c.UniverseID)
}

// --- addUniverse ---

// AddUniverse registers an empty Simple universe under uid. Most
// universes come into existence implicitly through AddCell; this exists
// for the rare case of a universe with no cells of its own yet.
func (g *Geometry) AddUniverse(uid id.UniverseID) *universe.Simple {
	if _, exists := g.universes[uid]; exists {
		geomerr.Fatalf("duplicate universe id %d", uid)
	}
	u := universe.NewSimple(uid)
	g.universes[uid] = u
	log.Printf("Geometry %s: added universe %d", g.constructionID, uid)
	return u
}

// --- addLattice ---

// AddLattice resolves every (i,j) child universe reference (fatal if
// any is missing), then inserts lat into both the lattice registry and
// the universe registry under the same numeric ID, per spec.md §4.1: "a
// lattice is also a universe."
func (g *Geometry) AddLattice(lat *universe.Lattice) {
	lid := lat.LatticeID()
	if _, exists := g.lattices[lid]; exists {
		geomerr.Fatalf("duplicate lattice id %d", lid)
	}
	for j := 0; j < lat.NumY; j++ {
		for i := 0; i < lat.NumX; i++ {
			childID := lat.Universes[j][i]
			if _, ok := g.universes[childID]; !ok {
				geomerr.Fatalf("lattice %d cell (i=%d,j=%d) references universe %d, which was never added",
					lid, i, j, childID)
			}
		}
	}
	if _, exists := g.universes[lat.ID()]; exists {
		geomerr.Fatalf("universe id %d is already in use, cannot register lattice %d", lat.ID(), lid)
	}
	g.lattices[lid] = lat
	g.universes[lat.ID()] = lat
	log.Printf("Geometry %s: added lattice %d (%dx%d)", g.constructionID, lid, lat.NumX, lat.NumY)
}

// String renders the registries the way OpenMOC's Geometry::toString()
// does — a debugging aid, not a serialization format (spec.md §6
// excludes file formats and wire protocols, not an in-memory Stringer).
func (g *Geometry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Geometry %s\n", g.constructionID)
	fmt.Fprintf(&b, "  bounds: x=[%v,%v] y=[%v,%v]\n", g.xMin, g.xMax, g.yMin, g.yMax)
	fmt.Fprintf(&b, "  boundary conditions: xMin=%s xMax=%s yMin=%s yMax=%s\n",
		bcString(g.bcXMin), bcString(g.bcXMax), bcString(g.bcYMin), bcString(g.bcYMax))
	fmt.Fprintf(&b, "  materials: %d, surfaces: %d, cells: %d, universes: %d, lattices: %d\n",
		len(g.materials), len(g.surfaces), len(g.cells), len(g.universes), len(g.lattices))
	if g.initialized {
		fmt.Fprintf(&b, "  num_FSRs: %d\n", g.numFSRs)
	}
	for _, mid := range g.sortedMaterialIDs() {
		fmt.Fprintf(&b, "  material %d: %d energy groups\n", mid, g.materials[mid].NumEnergyGroups)
	}
	for _, cid := range g.sortedCellIDs() {
		c := g.cells[cid]
		switch c.Kind {
		case cell.KindMaterial:
			fmt.Fprintf(&b, "  cell %d (universe %d): material %d\n", cid, c.UniverseID, c.MaterialID)
		case cell.KindFill:
			fmt.Fprintf(&b, "  cell %d (universe %d): fill universe %d\n", cid, c.UniverseID, c.FillID)
		}
	}
	return b.String()
}

func bcString(reflective bool) string {
	if reflective {
		return "REFLECTIVE"
	}
	return "VACUUM"
}

// NumEnergyGroups returns the energy-group count every added material
// agreed on, or 0 if no material has been added yet.
func (g *Geometry) NumEnergyGroups() int { return g.numEnergyGroups }

// NumFSRs returns the total flat source region count, valid only after
// InitializeFlatSourceRegions.
func (g *Geometry) NumFSRs() int { return g.numFSRs }

// FSRToCell and FSRToMaterial are the post-init inverse maps of
// spec.md §3's Geometry.
func (g *Geometry) FSRToCell(r id.FSRID) id.CellID         { return g.fsrToCells[r] }
func (g *Geometry) FSRToMaterial(r id.FSRID) id.MaterialID { return g.fsrToMaterials[r] }
