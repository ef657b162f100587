package geometry

import (
	"math"

	"github.com/flatsource/moc2d/pkg/cell"
	"github.com/flatsource/moc2d/pkg/coords"
	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/id"
)

// FindCell dispatches on the root universe named by chain's head and
// returns the innermost material cell containing the point the chain
// records, or nil if no cell in the hierarchy contains it (spec.md §4.5).
// A chain that already has levels below its head is first collapsed to
// its head, holding the tail's point mapped back to the root frame, and
// then rebuilt level by level. Point-not-contained is a normal terminal
// condition, not a fatal error (spec.md §7).
func (g *Geometry) FindCell(chain *coords.Chain) *cell.Cell {
	head := chain.Head()
	root, ok := g.universes[head.UniverseID]
	if !ok {
		return nil
	}
	if chain.Len() > 1 {
		head.Point = g.globalPoint(chain)
		chain.Prune()
		chain.SetAt(0, head)
	}
	return root.FindCell(chain, g)
}

// FindFirstCell nudges start by geom2d.TinyMove along angle before
// locating it, so a track starting exactly on a boundary is classified
// into the cell it is about to enter rather than the one it is leaving
// (spec.md §4.5). It returns the fresh chain it built together with the
// cell found (nil if the nudged point lies outside every cell).
func (g *Geometry) FindFirstCell(start geom2d.Point, angle geom2d.FPPrecision) (*coords.Chain, *cell.Cell) {
	chain := coords.NewChain(start.Nudge(angle))
	return chain, g.FindCell(chain)
}

// FindFSRID walks chain from head to tail, summing the FSR offset each
// level contributes — a universe's offset for the cell recorded at a
// KindUniverse node, or a lattice's offset for the (I,J) recorded at a
// KindLattice node — yielding the global FSR id (spec.md §4.6).
func (g *Geometry) FindFSRID(chain *coords.Chain) int {
	total := 0
	for i := 0; i < chain.Len(); i++ {
		n := chain.At(i)
		u, ok := g.universeForNode(n)
		if !ok {
			continue
		}
		total += u.FSROffsetForNode(n)
	}
	return total
}

func (g *Geometry) universeForNode(n coords.Node) (interface {
	FSROffsetForNode(coords.Node) int
}, bool) {
	if n.Kind == coords.KindUniverse {
		u, ok := g.universes[n.UniverseID]
		return u, ok
	}
	u, ok := g.universes[id.UniverseID(n.LatticeID)]
	return u, ok
}

// globalPoint reconstructs the root-frame point a chain's tail currently
// records by undoing every KindLattice node's center-relative
// translation walking back up to the head — the inverse of the
// transform Lattice.FindCell/FindNextLatticeCell apply on the way down.
// SIMPLE universes never transform the point (spec.md §4.4), so only
// KindLattice levels need undoing.
func (g *Geometry) globalPoint(chain *coords.Chain) geom2d.Point {
	p := chain.Lowest().Point
	for i := chain.Len() - 1; i >= 1; i-- {
		n := chain.At(i)
		if n.Kind == coords.KindLattice {
			lat := g.lattice(n.LatticeID)
			p = p.Add(lat.CellCenter(n.I, n.J))
		}
	}
	return p
}

// latticeIndicesDiverge implements spec.md §4.7 step 3d: walking both
// chains from their tails upward in lockstep, it reports true the first
// time both sides are at a KindLattice level simultaneously with
// differing (I,J) — the nudge crossed a lattice cell boundary, which
// Case A must reject in favor of Case B's lattice-stepping branch.
func latticeIndicesDiverge(a, b *coords.Chain) bool {
	i, j := a.Len()-1, b.Len()-1
	for i >= 0 && j >= 0 {
		na, nb := a.At(i), b.At(j)
		if na.Kind == coords.KindLattice && nb.Kind == coords.KindLattice {
			if na.I != nb.I || na.J != nb.J {
				return true
			}
		}
		i--
		j--
	}
	return false
}

// FindNextCell is the traversal kernel of spec.md §4.7: given a chain
// currently inside some cell and a direction, it advances the chain so
// its tail names the next material cell crossed along the ray, or
// returns nil if the ray exits the geometry. On a nil return the chain
// keeps the position it had before the call; a chain that passes
// through a lattice is left truncated at its outermost lattice node.
// See spec.md §4.7 for the Case A / Case B algorithm this
// follows step for step.
func (g *Geometry) FindNextCell(chain *coords.Chain, angle geom2d.FPPrecision) *cell.Cell {
	curr := g.FindCell(chain)
	if curr == nil {
		return nil
	}

	lowest := chain.Lowest()
	d, p := curr.MinSurfaceDist(lowest.Point, angle, g.Surface)

	if !math.IsInf(float64(d), 1) {
		testChain := chain.Copy()

		chain.SetLowestPoint(p)
		hitGlobal := g.globalPoint(chain)
		nudgedGlobal := hitGlobal.Nudge(angle)

		newChain := coords.NewChain(nudgedGlobal)
		newCell := g.FindCell(newChain)

		if newCell != nil && !latticeIndicesDiverge(testChain, newChain) {
			chain.RestoreFrom(newChain)
			return newCell
		}
		chain.RestoreFrom(testChain)
	}

	// Case B: leave the current cell by stepping across a lattice
	// boundary, climbing toward the root if a lattice step fails.
	depth := chain.LowestLatticeDepth()
	for depth >= 0 {
		chain.PruneTo(depth)
		lat := g.lattice(chain.At(depth).LatticeID)
		if next := lat.FindNextLatticeCell(chain, depth, angle, g); next != nil {
			return next
		}
		depth = nextLatticeDepthAbove(chain, depth)
	}
	return nil
}

func nextLatticeDepthAbove(chain *coords.Chain, below int) int {
	for k := below - 1; k >= 0; k-- {
		if chain.At(k).Kind == coords.KindLattice {
			return k
		}
	}
	return -1
}
