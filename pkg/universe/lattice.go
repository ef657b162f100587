package universe

import (
	"math"

	"github.com/flatsource/moc2d/pkg/cell"
	"github.com/flatsource/moc2d/pkg/coords"
	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/id"
	"github.com/flatsource/moc2d/pkg/surface"
)

// latticeCellKey indexes a lattice's FSR offset table by (column, row).
type latticeCellKey struct{ I, J int }

// Lattice is a rectangular NumX-by-NumY tiling of child universes, each
// cell Width-by-Height wide, with OriginX/OriginY giving the lower-left
// corner of cell (0,0) — spec.md §4.4's second Universe variant. A
// Lattice registers itself under a Universe ID equal to its Lattice ID
// (spec.md §3's invariant that a Lattice can stand in wherever a
// Universe is expected), so ID() simply reinterprets the numeric value.
type Lattice struct {
	latticeID id.LatticeID

	NumX, NumY     int
	Width, Height  geom2d.FPPrecision
	OriginX, OriginY geom2d.FPPrecision

	// Universes[j][i] is the child universe tiling lattice cell (i, j);
	// j indexes rows (Y), i indexes columns (X).
	Universes [][]id.UniverseID

	fsrOffsets map[latticeCellKey]int
	fsrTotal   int
}

// NewLattice constructs a Lattice with an empty (NumY x NumX) tiling;
// the caller fills in Universes row by row before the geometry is used.
func NewLattice(lid id.LatticeID, numX, numY int, width, height, originX, originY geom2d.FPPrecision) *Lattice {
	rows := make([][]id.UniverseID, numY)
	for j := range rows {
		rows[j] = make([]id.UniverseID, numX)
	}
	return &Lattice{
		latticeID: lid,
		NumX:      numX,
		NumY:      numY,
		Width:     width,
		Height:    height,
		OriginX:   originX,
		OriginY:   originY,
		Universes: rows,
		fsrOffsets: make(map[latticeCellKey]int),
	}
}

// LatticeID returns the underlying lattice identity, distinct from the
// Universe-space ID() reports.
func (l *Lattice) LatticeID() id.LatticeID { return l.latticeID }

func (l *Lattice) ID() id.UniverseID { return id.UniverseID(l.latticeID) }

func (l *Lattice) cellCenter(i, j int) geom2d.Point {
	return geom2d.Point{
		X: l.OriginX + (geom2d.FPPrecision(i)+0.5)*l.Width,
		Y: l.OriginY + (geom2d.FPPrecision(j)+0.5)*l.Height,
	}
}

// CellCenter exposes cellCenter for callers outside this package that
// must undo a lattice-frame translation, namely Geometry.findNextCell
// reconstructing a global point from a chain that passed through one or
// more lattice levels (spec.md §4.7 step 3b's implicit inverse).
func (l *Lattice) CellCenter(i, j int) geom2d.Point { return l.cellCenter(i, j) }

// locate returns the (i, j) lattice cell containing p in the lattice's
// own frame, or ok=false if p falls outside the tiled region.
func (l *Lattice) locate(p geom2d.Point) (i, j int, ok bool) {
	i = int(math.Floor(float64((p.X - l.OriginX) / l.Width)))
	j = int(math.Floor(float64((p.Y - l.OriginY) / l.Height)))
	if i < 0 || i >= l.NumX || j < 0 || j >= l.NumY {
		return 0, 0, false
	}
	return i, j, true
}

func (l *Lattice) FindCell(chain *coords.Chain, r Resolver) *cell.Cell {
	lowest := chain.Lowest()
	i, j, ok := l.locate(lowest.Point)
	if !ok {
		return nil
	}
	local := lowest.Point.Sub(l.cellCenter(i, j))
	chain.Push(coords.Node{Kind: coords.KindLattice, LatticeID: l.latticeID, I: i, J: j, Point: local})

	childID := l.Universes[j][i]
	child, exists := r.Universe(childID)
	if !exists {
		return nil
	}
	chain.Push(coords.Node{Kind: coords.KindUniverse, UniverseID: childID, Point: local})
	return child.FindCell(chain, r)
}

// FindNextLatticeCell steps the chain's KindLattice node at depth across
// whichever of its 4 local-frame edges the ray first crosses, per
// spec.md §4.4's lattice-stepping description: it lands on the edge,
// nudges geom2d.TinyMove further along angle, re-expresses that point in
// the neighboring cell's frame, and descends into the neighbor's child
// universe. Returns nil (leaving chain unmodified below depth) if the
// step would leave the lattice, the same "try the next level up" signal
// Geometry.findNextCell reacts to (spec.md §4.7 Case B).
func (l *Lattice) FindNextLatticeCell(chain *coords.Chain, depth int, angle geom2d.FPPrecision, r Resolver) *cell.Cell {
	node := chain.At(depth)
	dx, dy := l.Width/2, l.Height/2
	cosA, sinA := geom2d.FPPrecision(math.Cos(float64(angle))), geom2d.FPPrecision(math.Sin(float64(angle)))

	const axisEps = 1e-12
	edgeT := func(bound, coord, dir geom2d.FPPrecision) geom2d.FPPrecision {
		if dir > -axisEps && dir < axisEps {
			return geom2d.FPPrecision(math.Inf(1))
		}
		t := (bound - coord) / dir
		if t <= 0 {
			return geom2d.FPPrecision(math.Inf(1))
		}
		return t
	}

	tXPos := edgeT(dx, node.Point.X, cosA)
	tXNeg := edgeT(-dx, node.Point.X, cosA)
	tYPos := edgeT(dy, node.Point.Y, sinA)
	tYNeg := edgeT(-dy, node.Point.Y, sinA)

	type edge struct {
		t        geom2d.FPPrecision
		di, dj   int
		shiftX   geom2d.FPPrecision
		shiftY   geom2d.FPPrecision
	}
	edges := []edge{
		{tXPos, 1, 0, -l.Width, 0},
		{tXNeg, -1, 0, l.Width, 0},
		{tYPos, 0, 1, 0, -l.Height},
		{tYNeg, 0, -1, 0, l.Height},
	}
	best := edges[0]
	for _, e := range edges[1:] {
		if e.t < best.t {
			best = e
		}
	}
	if math.IsInf(float64(best.t), 1) {
		return nil
	}

	newI, newJ := node.I+best.di, node.J+best.dj
	if newI < 0 || newI >= l.NumX || newJ < 0 || newJ >= l.NumY {
		return nil
	}

	landing := node.Point.MoveAlong(angle, best.t)
	landing.X += best.shiftX
	landing.Y += best.shiftY
	landing = landing.Nudge(angle)

	chain.PruneTo(depth)
	chain.SetAt(depth, coords.Node{Kind: coords.KindLattice, LatticeID: l.latticeID, I: newI, J: newJ, Point: landing})

	childID := l.Universes[newJ][newI]
	child, exists := r.Universe(childID)
	if !exists {
		return nil
	}
	chain.Push(coords.Node{Kind: coords.KindUniverse, UniverseID: childID, Point: landing})
	return child.FindCell(chain, r)
}

func (l *Lattice) ComputeFSROffsets(r Resolver) int {
	offset := 0
	for j := 0; j < l.NumY; j++ {
		for i := 0; i < l.NumX; i++ {
			l.fsrOffsets[latticeCellKey{i, j}] = offset
			child, ok := r.Universe(l.Universes[j][i])
			if !ok {
				continue
			}
			offset += child.ComputeFSROffsets(r)
		}
	}
	l.fsrTotal = offset
	return l.fsrTotal
}

func (l *Lattice) FindCellByFSR(fsrID int, r Resolver) *cell.Cell {
	bestOffset := -1
	bestI, bestJ := -1, -1
	for j := 0; j < l.NumY; j++ {
		for i := 0; i < l.NumX; i++ {
			off := l.fsrOffsets[latticeCellKey{i, j}]
			if off <= fsrID && off > bestOffset {
				bestOffset, bestI, bestJ = off, i, j
			}
		}
	}
	if bestI < 0 {
		return nil
	}
	child, ok := r.Universe(l.Universes[bestJ][bestI])
	if !ok {
		return nil
	}
	return child.FindCellByFSR(fsrID-bestOffset, r)
}

func (l *Lattice) FSROffsetForNode(n coords.Node) int {
	if n.Kind != coords.KindLattice || n.LatticeID != l.latticeID {
		return 0
	}
	return l.fsrOffsets[latticeCellKey{n.I, n.J}]
}

// Subdivide is a no-op for a Lattice: its cells are child universes, not
// material cells, so there is nothing here for a cell.Subdivider to act
// on — subdivision happens independently when Geometry visits each
// tiled child universe in the registry.
func (l *Lattice) Subdivide(func(surface.Surface), func(*cell.Cell), Resolver) {}
