// Package spatial provides an R-tree-backed bounding-box prefilter for
// point location inside a Simple universe's cell set. spec.md §4.4
// mandates that FindCell return "the first cell whose half-space
// predicates all accept" in ascending-ID order — this package never
// changes that answer, it only narrows the candidate set the caller
// still has to check in order, the same way a database index narrows a
// table scan without changing which row a query returns.
package spatial

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/id"
)

// entry adapts one cell's axis-aligned bounding box to rtreego.Spatial.
type entry struct {
	cellID id.CellID
	bounds rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.bounds }

// Index is a bounding-box prefilter over a fixed set of cell IDs. It is
// built once, after a universe's final cell set is known (post
// subdivision), and never mutated afterward — consistent with spec.md
// §5's read-mostly Geometry.
type Index struct {
	tree *rtreego.Rtree
}

// clampRect maps a possibly-infinite (xMin,xMax,yMin,yMax) box onto a
// finite rtreego.Rect, since rtreego requires finite side lengths.
// Unbounded extents are clamped to a value far larger than any
// physically meaningful reactor cross-section, which is all the R-tree
// needs: it only has to not exclude a candidate, never to exclude one
// precisely.
const clampMagnitude = 1e6

func clampRect(xMin, xMax, yMin, yMax geom2d.FPPrecision) rtreego.Rect {
	clamp := func(v, fallback float64) float64 {
		f := float64(v)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fallback
		}
		if f > clampMagnitude {
			return clampMagnitude
		}
		if f < -clampMagnitude {
			return -clampMagnitude
		}
		return f
	}
	x0 := clamp(xMin, -clampMagnitude)
	x1 := clamp(xMax, clampMagnitude)
	y0 := clamp(yMin, -clampMagnitude)
	y1 := clamp(yMax, clampMagnitude)
	if x1 <= x0 {
		x1 = x0 + 1e-9
	}
	if y1 <= y0 {
		y1 = y0 + 1e-9
	}
	rect, err := rtreego.NewRect(rtreego.Point{x0, y0}, []float64{x1 - x0, y1 - y0})
	if err != nil {
		// A degenerate rectangle from a surface with NaN extents is a
		// construction-time data error, not a query-time one; fall back
		// to a tiny point-like box rather than panicking mid-query.
		rect, _ = rtreego.NewRect(rtreego.Point{0, 0}, []float64{1e-9, 1e-9})
	}
	return rect
}

// NewIndex builds an Index over the given cell IDs, using extents to
// fetch each cell's axis-aligned bounding box.
func NewIndex(cellIDs []id.CellID, extents func(id.CellID) (xMin, xMax, yMin, yMax geom2d.FPPrecision)) *Index {
	objs := make([]rtreego.Spatial, len(cellIDs))
	for i, cid := range cellIDs {
		xMin, xMax, yMin, yMax := extents(cid)
		objs[i] = &entry{cellID: cid, bounds: clampRect(xMin, xMax, yMin, yMax)}
	}
	tree := rtreego.NewTree(2, 4, 16, objs...)
	return &Index{tree: tree}
}

// Candidates returns every cell ID whose bounding box contains p, in no
// particular order — the caller is responsible for re-sorting by ID and
// re-checking Cell.Contains, since the R-tree only bounds candidates, it
// does not decide membership.
func (idx *Index) Candidates(p geom2d.Point) []id.CellID {
	pt := rtreego.Point{float64(p.X), float64(p.Y)}
	box, err := rtreego.NewRect(pt, []float64{1e-12, 1e-12})
	if err != nil {
		return nil
	}
	hits := idx.tree.SearchIntersect(box)
	out := make([]id.CellID, len(hits))
	for i, h := range hits {
		out[i] = h.(*entry).cellID
	}
	return out
}
