package universe

import (
	"sort"

	"github.com/samber/lo"

	"github.com/flatsource/moc2d/pkg/cell"
	"github.com/flatsource/moc2d/pkg/coords"
	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/id"
	"github.com/flatsource/moc2d/pkg/spatial"
	"github.com/flatsource/moc2d/pkg/surface"
)

// Simple is an unordered set of cells that together must partition the
// universe's local frame (spec.md §4.1 invariant). FindCell resolves a
// point by scanning candidate cells in ascending-ID order and returning
// the first whose half-spaces all accept — ascending order, not first
// match of an arbitrary iteration, is what makes two equivalent
// geometries built in different insertion orders behave identically
// (spec.md §8 determinism property).
type Simple struct {
	id id.UniverseID

	cellIDs []id.CellID // insertion order; sorted copies are derived, never mutated in place

	index *spatial.Index // nil until BuildIndex is called

	fsrOffsets map[id.CellID]int
	fsrTotal   int
}

// NewSimple constructs an empty Simple universe; cells are attached with
// AddCell as Geometry.AddCell/AddUniverse discover them.
func NewSimple(uid id.UniverseID) *Simple {
	return &Simple{id: uid, fsrOffsets: make(map[id.CellID]int)}
}

func (u *Simple) ID() id.UniverseID { return u.id }

// AddCell records that cid belongs to this universe. Order of calls does
// not matter; sortedCellIDs always re-sorts before use.
func (u *Simple) AddCell(cid id.CellID) {
	u.cellIDs = append(u.cellIDs, cid)
}

func (u *Simple) sortedCellIDs() []id.CellID {
	out := append([]id.CellID(nil), u.cellIDs...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// BuildIndex constructs (or rebuilds) the R-tree prefilter over this
// universe's current cell set. Geometry calls this once, after
// subdivision has settled the final cell set, per spec.md §5's
// build-then-freeze lifecycle.
func (u *Simple) BuildIndex(r Resolver) {
	ids := u.sortedCellIDs()
	u.index = spatial.NewIndex(ids, func(cid id.CellID) (xMin, xMax, yMin, yMax geom2d.FPPrecision) {
		return r.Cell(cid).AxisExtents(r.Surface)
	})
}

// candidates returns the cell IDs to check against p, ascending by ID:
// the R-tree's unordered hit list when an index has been built, else
// every cell in the universe.
func (u *Simple) candidates(p geom2d.Point) []id.CellID {
	if u.index == nil {
		return u.sortedCellIDs()
	}
	hits := u.index.Candidates(p)
	sort.Slice(hits, func(i, j int) bool { return hits[i] < hits[j] })
	return hits
}

func (u *Simple) FindCell(chain *coords.Chain, r Resolver) *cell.Cell {
	depth := chain.Len() - 1
	lowest := chain.Lowest()
	for _, cid := range u.candidates(lowest.Point) {
		c := r.Cell(cid)
		if c == nil || !c.Contains(lowest.Point, r.Surface) {
			continue
		}
		lowest.CellID = cid
		chain.SetAt(depth, lowest)
		if c.Kind == cell.KindMaterial {
			return c
		}
		child, ok := r.Universe(c.FillID)
		if !ok {
			return nil
		}
		chain.Push(coords.Node{Kind: coords.KindUniverse, UniverseID: c.FillID, Point: lowest.Point})
		return child.FindCell(chain, r)
	}
	return nil
}

func (u *Simple) ComputeFSROffsets(r Resolver) int {
	offset := 0
	for _, cid := range u.sortedCellIDs() {
		u.fsrOffsets[cid] = offset
		c := r.Cell(cid)
		if c.Kind == cell.KindMaterial {
			offset++
			continue
		}
		child, ok := r.Universe(c.FillID)
		if !ok {
			continue
		}
		offset += child.ComputeFSROffsets(r)
	}
	u.fsrTotal = offset
	return u.fsrTotal
}

func (u *Simple) FindCellByFSR(fsrID int, r Resolver) *cell.Cell {
	ids := u.sortedCellIDs()
	// floor search: the last cell whose offset does not exceed fsrID.
	cid, _, ok := lo.FindLastIndexOf(ids, func(cid id.CellID) bool { return u.fsrOffsets[cid] <= fsrID })
	if !ok {
		return nil
	}
	c := r.Cell(cid)
	residue := fsrID - u.fsrOffsets[cid]
	if c.Kind == cell.KindMaterial {
		if residue != 0 {
			return nil
		}
		return c
	}
	child, ok2 := r.Universe(c.FillID)
	if !ok2 {
		return nil
	}
	return child.FindCellByFSR(residue, r)
}

func (u *Simple) FSROffsetForNode(n coords.Node) int {
	if n.Kind != coords.KindUniverse || n.UniverseID != u.id {
		return 0
	}
	return u.fsrOffsets[n.CellID]
}

func (u *Simple) Subdivide(registerSurface func(surface.Surface), registerCell func(*cell.Cell), r Resolver) {
	for _, cid := range u.sortedCellIDs() {
		c := r.Cell(cid)
		if c.Kind != cell.KindMaterial || c.Subdivider == nil {
			continue
		}
		replacements, newSurfaces := c.Subdivider.Subdivide(c, r.Surface)
		if len(replacements) == 1 && replacements[0] == c {
			continue
		}
		for _, s := range newSurfaces {
			registerSurface(s)
		}
		u.removeCell(cid)
		for _, rc := range replacements {
			registerCell(rc)
			u.AddCell(rc.ID)
		}
	}
}

func (u *Simple) removeCell(cid id.CellID) {
	for i, c := range u.cellIDs {
		if c == cid {
			u.cellIDs = append(u.cellIDs[:i], u.cellIDs[i+1:]...)
			return
		}
	}
}
