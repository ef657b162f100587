// Package coords implements the LocalCoords parent-to-child chain of
// spec.md §3/§4.4/DESIGN NOTES. The original C++ walks a doubly-linked
// list of heap-allocated nodes; this package keeps the same head-to-tail
// walking and pruning operations but backs them with a growable slice
// of nodes carrying parent indices, the idiomatic Go rendition spec.md's
// DESIGN NOTES call out explicitly: "copying and pruning are vector
// truncation / slice copy."
package coords

import (
	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/id"
)

// Kind distinguishes the two node shapes a Chain can hold at any level.
type Kind int

const (
	KindUniverse Kind = iota
	KindLattice
)

// Node records where a global point lies at one nesting level: either
// inside a named cell of a named universe (KindUniverse), or inside a
// named (I, J) cell of a named lattice (KindLattice), with Point always
// expressed in that level's local frame.
type Node struct {
	Kind Kind

	UniverseID id.UniverseID // valid iff Kind == KindUniverse
	CellID     id.CellID     // valid iff Kind == KindUniverse

	LatticeID id.LatticeID // valid iff Kind == KindLattice
	I, J      int          // valid iff Kind == KindLattice

	Point geom2d.Point
}

// Chain is a LocalCoords linked list flattened into a slice: index 0 is
// always the head (a KindUniverse node at the root universe, id.RootUniverseID),
// and the last element is the tail — the innermost level reached so far.
type Chain struct {
	nodes []Node
}

// NewChain starts a new chain with a single KindUniverse head node at
// the root universe and the given starting point, the state
// Geometry.FindCell/FindFirstCell/Segmentize always begin from.
func NewChain(start geom2d.Point) *Chain {
	return &Chain{nodes: []Node{{Kind: KindUniverse, UniverseID: id.RootUniverseID, Point: start}}}
}

// Push appends a new node to the tail of the chain — descending one
// level deeper into the universe/lattice hierarchy.
func (c *Chain) Push(n Node) {
	c.nodes = append(c.nodes, n)
}

// Len returns the number of nodes currently in the chain.
func (c *Chain) Len() int { return len(c.nodes) }

// At returns the node at the given depth (0 = head).
func (c *Chain) At(i int) Node { return c.nodes[i] }

// SetAt overwrites the node at the given depth in place.
func (c *Chain) SetAt(i int, n Node) { c.nodes[i] = n }

// Head returns the root-level node.
func (c *Chain) Head() Node { return c.nodes[0] }

// Lowest returns the tail (deepest) node, the level findCell/findNextCell
// reason about when computing distances and local points.
func (c *Chain) Lowest() Node { return c.nodes[len(c.nodes)-1] }

// Prune truncates the chain back to just the head node, releasing every
// descendant — the Go rendition of LocalCoords::prune() destroying the
// chain's child nodes.
func (c *Chain) Prune() {
	c.nodes = c.nodes[:1]
}

// PruneTo truncates the chain to keep only the first depth+1 nodes
// (indices [0, depth]), used when findNextCell climbs back up to the
// lowest remaining lattice node before retrying lattice-stepping.
func (c *Chain) PruneTo(depth int) {
	c.nodes = c.nodes[:depth+1]
}

// Copy returns an independent deep copy of the chain — the Go rendition
// of LocalCoords::copyCoords, used by findNextCell's "test" coordinate
// save/restore dance (spec.md §4.7 step 3a/3e).
func (c *Chain) Copy() *Chain {
	cp := make([]Node, len(c.nodes))
	copy(cp, c.nodes)
	return &Chain{nodes: cp}
}

// RestoreFrom overwrites c's contents with other's, the "restore coords
// from the saved copy" step of spec.md §4.7 step 3e.
func (c *Chain) RestoreFrom(other *Chain) {
	c.nodes = make([]Node, len(other.nodes))
	copy(c.nodes, other.nodes)
}

// SetLowestPoint overwrites the tail node's local point in place —
// used when findNextCell moves the lowest-level point to a surface
// intersection and then nudges it forward.
func (c *Chain) SetLowestPoint(p geom2d.Point) {
	c.nodes[len(c.nodes)-1].Point = p
}

// LowestLatticeDepth returns the index of the deepest KindLattice node in
// the chain, or -1 if the chain contains no lattice node. findNextCell's
// Case B climbs to this depth before retrying lattice-stepping.
func (c *Chain) LowestLatticeDepth() int {
	for i := len(c.nodes) - 1; i >= 0; i-- {
		if c.nodes[i].Kind == KindLattice {
			return i
		}
	}
	return -1
}
