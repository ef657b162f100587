package universe

import (
	"github.com/flatsource/moc2d/pkg/cell"
	"github.com/flatsource/moc2d/pkg/id"
	"github.com/flatsource/moc2d/pkg/surface"
)

// fakeResolver is a minimal in-memory Resolver for exercising Simple and
// Lattice in isolation, without pulling in the geometry package (which
// would create an import cycle back into universe).
type fakeResolver struct {
	cells     map[id.CellID]*cell.Cell
	universes map[id.UniverseID]Universe
	surfaces  map[id.SurfaceID]surface.Surface
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		cells:     make(map[id.CellID]*cell.Cell),
		universes: make(map[id.UniverseID]Universe),
		surfaces:  make(map[id.SurfaceID]surface.Surface),
	}
}

func (r *fakeResolver) Cell(cid id.CellID) *cell.Cell { return r.cells[cid] }

func (r *fakeResolver) Universe(uid id.UniverseID) (Universe, bool) {
	u, ok := r.universes[uid]
	return u, ok
}

func (r *fakeResolver) Surface(sid id.SurfaceID) surface.Surface { return r.surfaces[sid] }

func (r *fakeResolver) addCell(c *cell.Cell) { r.cells[c.ID] = c }

func (r *fakeResolver) addSurface(s surface.Surface) { r.surfaces[s.ID()] = s }

func (r *fakeResolver) addUniverse(u Universe) { r.universes[u.ID()] = u }
