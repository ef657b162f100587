package geometry

import (
	"github.com/flatsource/moc2d/pkg/geomerr"
	"github.com/flatsource/moc2d/pkg/id"
	"github.com/flatsource/moc2d/pkg/track"
)

// Segmentize implements spec.md §4.8 exactly: locate the track's first
// cell (fatal if it starts outside the geometry), then repeatedly walk
// to the next cell crossed, emitting one segment per step, until
// FindNextCell returns nil. Safe to call concurrently on distinct Tracks
// once InitializeFlatSourceRegions has run (spec.md §5) — the only
// shared mutable state it touches is the atomic min/max length
// statistics.
func (g *Geometry) Segmentize(t *track.Track) {
	end, curr := g.FindFirstCell(t.Start, t.Phi)
	if curr == nil {
		geomerr.Fatalf("track starting at (%v,%v) angle %v begins outside the geometry",
			t.Start.X, t.Start.Y, t.Phi)
	}
	start := end.Copy()

	for {
		start.RestoreFrom(end)
		prev := curr
		curr = g.FindNextCell(end, t.Phi)

		startPoint := g.globalPoint(start)
		endPoint := g.globalPoint(end)
		length := startPoint.Distance(endPoint)
		if length <= 0 {
			geomerr.Fatalf("segmentize produced a zero-length segment at (%v,%v)", startPoint.X, startPoint.Y)
		}

		t.Segments = append(t.Segments, track.Segment{
			Length:   length,
			Material: g.Material(prev.MaterialID),
			RegionID: id.FSRID(g.FindFSRID(start)),
		})

		g.maxSegLengthBits.updateMax(float64(length))
		g.minSegLengthBits.updateMin(float64(length))

		if curr == nil {
			break
		}
	}

	start.Prune()
	end.Prune()
}
