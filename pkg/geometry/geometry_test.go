package geometry

import (
	"math"
	"testing"

	"github.com/flatsource/moc2d/pkg/cell"
	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/geomerr"
	"github.com/flatsource/moc2d/pkg/id"
	"github.com/flatsource/moc2d/pkg/material"
	"github.com/flatsource/moc2d/pkg/surface"
	"github.com/flatsource/moc2d/pkg/track"
	"github.com/flatsource/moc2d/pkg/universe"
)

// withFatalTrap swaps geomerr.Fatalf for the duration of a fatal-path
// test, since geomerr.Fatalf is a package-level var precisely so tests
// can observe a fatal condition without exiting the test binary.
func withFatalTrap(t *testing.T) *bool {
	t.Helper()
	fatal := false
	old := geomerr.Fatalf
	geomerr.Fatalf = func(format string, args ...interface{}) { fatal = true }
	t.Cleanup(func() { geomerr.Fatalf = old })
	return &fatal
}

func newFuel(mid id.MaterialID) *material.Material {
	return &material.Material{ID: mid, NumEnergyGroups: 1, SigmaT: []float64{1.0}, SigmaA: []float64{0.4}, SigmaS: []float64{0.6}}
}

// --- Scenario 1: single cell disk ---

func singleCellDisk(t *testing.T) *Geometry {
	g := New()
	g.AddMaterial(newFuel(1))

	circle := surface.NewCircle(1, surface.BoundaryReflective, 0, 0, 1)
	root := &cell.Cell{
		ID: 1, UniverseID: id.RootUniverseID, Kind: cell.KindMaterial, MaterialID: 1,
		HalfSpaces: []cell.HalfSpace{{Surface: 1, Sign: surface.SideNegative}},
	}
	g.AddCell(root, circle)
	g.InitializeFlatSourceRegions()
	return g
}

func TestSingleCellDiskScenario(t *testing.T) {
	g := singleCellDisk(t)
	if g.NumFSRs() != 1 {
		t.Fatalf("NumFSRs() = %d, want 1", g.NumFSRs())
	}

	tr := &track.Track{Start: geom2d.Point{X: -2, Y: 0}, Phi: 0}
	g.Segmentize(tr)

	if len(tr.Segments) != 1 {
		t.Fatalf("len(Segments) = %d, want 1", len(tr.Segments))
	}
	if math.Abs(float64(tr.Segments[0].Length-2)) > 1e-6 {
		t.Errorf("segment length = %v, want 2", tr.Segments[0].Length)
	}
}

// --- Scenario 2: two half-planes ---

func twoHalfPlanesGeometry() *Geometry {
	g := New()
	g.AddMaterial(newFuel(1))
	g.AddMaterial(newFuel(2))

	left := surface.NewXPlane(1, surface.BoundaryReflective, -1)
	splitter := surface.NewXPlane(2, surface.BoundaryNone, 0)
	right := surface.NewXPlane(3, surface.BoundaryReflective, 1)
	bottom := surface.NewYPlane(4, surface.BoundaryReflective, -1)
	top := surface.NewYPlane(5, surface.BoundaryReflective, 1)

	cellA := &cell.Cell{
		ID: 1, UniverseID: id.RootUniverseID, Kind: cell.KindMaterial, MaterialID: 1,
		HalfSpaces: []cell.HalfSpace{
			{Surface: 1, Sign: surface.SidePositive},
			{Surface: 2, Sign: surface.SideNegative},
			{Surface: 4, Sign: surface.SidePositive},
			{Surface: 5, Sign: surface.SideNegative},
		},
	}
	cellB := &cell.Cell{
		ID: 2, UniverseID: id.RootUniverseID, Kind: cell.KindMaterial, MaterialID: 2,
		HalfSpaces: []cell.HalfSpace{
			{Surface: 2, Sign: surface.SidePositive},
			{Surface: 3, Sign: surface.SideNegative},
			{Surface: 4, Sign: surface.SidePositive},
			{Surface: 5, Sign: surface.SideNegative},
		},
	}
	g.AddCell(cellA, left, splitter, bottom, top)
	g.AddCell(cellB, right)
	g.InitializeFlatSourceRegions()
	return g
}

func TestTwoHalfPlanesScenario(t *testing.T) {
	g := twoHalfPlanesGeometry()
	if g.NumFSRs() != 2 {
		t.Fatalf("NumFSRs() = %d, want 2", g.NumFSRs())
	}

	tr := &track.Track{Start: geom2d.Point{X: -1, Y: 0.5}, Phi: 0}
	g.Segmentize(tr)

	if len(tr.Segments) != 2 {
		t.Fatalf("len(Segments) = %d, want 2", len(tr.Segments))
	}
	for i, want := range []geom2d.FPPrecision{1, 1} {
		if math.Abs(float64(tr.Segments[i].Length-want)) > 1e-6 {
			t.Errorf("segment %d length = %v, want %v", i, tr.Segments[i].Length, want)
		}
	}
	if tr.Segments[0].Material.ID != 1 || tr.Segments[1].Material.ID != 2 {
		t.Errorf("materials = [%d %d], want [1 2]", tr.Segments[0].Material.ID, tr.Segments[1].Material.ID)
	}
}

func TestBCAccumulation(t *testing.T) {
	g := twoHalfPlanesGeometry()
	xMin, xMax, yMin, yMax := g.Bounds()
	if xMin != -1 || xMax != 1 || yMin != -1 || yMax != 1 {
		t.Fatalf("Bounds() = (%v,%v,%v,%v), want (-1,1,-1,1)", xMin, xMax, yMin, yMax)
	}
	bcXMin, bcXMax, bcYMin, bcYMax := g.BoundaryConditions()
	if !bcXMin || !bcXMax || !bcYMin || !bcYMax {
		t.Errorf("BoundaryConditions() = (%v,%v,%v,%v), want all reflective", bcXMin, bcXMax, bcYMin, bcYMax)
	}
}

// --- Scenario 3: 3x3 lattice of unit cells ---

func threeByThreeLattice() *Geometry {
	g := New()
	g.AddMaterial(newFuel(1))

	outerLeft := surface.NewXPlane(1, surface.BoundaryReflective, -1.5)
	outerRight := surface.NewXPlane(2, surface.BoundaryReflective, 1.5)
	outerBottom := surface.NewYPlane(3, surface.BoundaryReflective, -1.5)
	outerTop := surface.NewYPlane(4, surface.BoundaryReflective, 1.5)

	const tileUniverseID id.UniverseID = 10
	tileCell := &cell.Cell{ID: 100, UniverseID: tileUniverseID, Kind: cell.KindMaterial, MaterialID: 1}
	g.AddCell(tileCell)

	lat := universe.NewLattice(1, 3, 3, 1.0, 1.0, -1.5, -1.5)
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			lat.Universes[j][i] = tileUniverseID
		}
	}
	g.AddLattice(lat)

	rootCell := &cell.Cell{
		ID: 1, UniverseID: id.RootUniverseID, Kind: cell.KindFill, FillID: lat.ID(),
		HalfSpaces: []cell.HalfSpace{
			{Surface: 1, Sign: surface.SidePositive},
			{Surface: 2, Sign: surface.SideNegative},
			{Surface: 3, Sign: surface.SidePositive},
			{Surface: 4, Sign: surface.SideNegative},
		},
	}
	g.AddCell(rootCell, outerLeft, outerRight, outerBottom, outerTop)
	g.InitializeFlatSourceRegions()
	return g
}

func TestThreeByThreeLatticeScenario(t *testing.T) {
	g := threeByThreeLattice()
	if g.NumFSRs() != 9 {
		t.Fatalf("NumFSRs() = %d, want 9", g.NumFSRs())
	}

	tr := &track.Track{Start: geom2d.Point{X: -1.5, Y: 0.5}, Phi: 0}
	g.Segmentize(tr)

	if len(tr.Segments) != 3 {
		t.Fatalf("len(Segments) = %d, want 3", len(tr.Segments))
	}
	for i, s := range tr.Segments {
		if math.Abs(float64(s.Length-1)) > 1e-6 {
			t.Errorf("segment %d length = %v, want 1", i, s.Length)
		}
	}
	for i := 1; i < len(tr.Segments); i++ {
		if tr.Segments[i].RegionID != tr.Segments[i-1].RegionID+1 {
			t.Errorf("region ids = %d,%d not increasing by 1", tr.Segments[i-1].RegionID, tr.Segments[i].RegionID)
		}
	}
}

// --- Scenario 4: nested fill (2x2 lattice of half-plane universes) ---

func nestedFillGeometry() *Geometry {
	g := New()
	g.AddMaterial(newFuel(1))
	g.AddMaterial(newFuel(2))

	// Each child universe (ids 20, 21, 22, 23) holds the same two
	// half-plane material cells split at local x = 0, but distinct cell
	// IDs per child universe so the registries stay unambiguous.
	splitterIDs := []id.SurfaceID{100, 101, 102, 103}
	childUniverseIDs := []id.UniverseID{20, 21, 22, 23}
	cellIDBase := id.CellID(200)
	for k, uid := range childUniverseIDs {
		splitter := surface.NewXPlane(splitterIDs[k], surface.BoundaryNone, 0)
		left := &cell.Cell{
			ID: cellIDBase + id.CellID(2*k), UniverseID: uid, Kind: cell.KindMaterial, MaterialID: 1,
			HalfSpaces: []cell.HalfSpace{{Surface: splitterIDs[k], Sign: surface.SideNegative}},
		}
		right := &cell.Cell{
			ID: cellIDBase + id.CellID(2*k+1), UniverseID: uid, Kind: cell.KindMaterial, MaterialID: 2,
			HalfSpaces: []cell.HalfSpace{{Surface: splitterIDs[k], Sign: surface.SidePositive}},
		}
		g.AddCell(left, splitter)
		g.AddCell(right)
	}

	lat := universe.NewLattice(1, 2, 2, 1.0, 1.0, -1.0, -1.0)
	lat.Universes[0][0] = 20
	lat.Universes[0][1] = 21
	lat.Universes[1][0] = 22
	lat.Universes[1][1] = 23
	g.AddLattice(lat)

	outerLeft := surface.NewXPlane(1, surface.BoundaryReflective, -1.0)
	outerRight := surface.NewXPlane(2, surface.BoundaryReflective, 1.0)
	outerBottom := surface.NewYPlane(3, surface.BoundaryReflective, -1.0)
	outerTop := surface.NewYPlane(4, surface.BoundaryReflective, 1.0)
	rootCell := &cell.Cell{
		ID: 1, UniverseID: id.RootUniverseID, Kind: cell.KindFill, FillID: lat.ID(),
		HalfSpaces: []cell.HalfSpace{
			{Surface: 1, Sign: surface.SidePositive},
			{Surface: 2, Sign: surface.SideNegative},
			{Surface: 3, Sign: surface.SidePositive},
			{Surface: 4, Sign: surface.SideNegative},
		},
	}
	g.AddCell(rootCell, outerLeft, outerRight, outerBottom, outerTop)
	g.InitializeFlatSourceRegions()
	return g
}

func TestNestedFillScenario(t *testing.T) {
	g := nestedFillGeometry()
	if g.NumFSRs() != 8 {
		t.Fatalf("NumFSRs() = %d, want 8", g.NumFSRs())
	}

	horizontal := &track.Track{Start: geom2d.Point{X: -1.0, Y: 0.0}, Phi: 0}
	g.Segmentize(horizontal)
	if len(horizontal.Segments) != 4 {
		t.Errorf("horizontal track: len(Segments) = %d, want 4", len(horizontal.Segments))
	}

	vertical := &track.Track{Start: geom2d.Point{X: 0.0, Y: -1.0}, Phi: math.Pi / 2}
	g.Segmentize(vertical)
	if len(vertical.Segments) != 2 {
		t.Errorf("vertical track: len(Segments) = %d, want 2", len(vertical.Segments))
	}
}

// --- Scenario 5: grazing start ---

func TestGrazingStartScenario(t *testing.T) {
	g := singleCellDisk(t)
	tr := &track.Track{Start: geom2d.Point{X: -1, Y: 0}, Phi: 0}
	g.Segmentize(tr)
	if len(tr.Segments) == 0 {
		t.Fatal("grazing-start track produced no segments")
	}
	if tr.Segments[0].Length <= 0 {
		t.Errorf("first segment length = %v, want > 0", tr.Segments[0].Length)
	}
}

// --- Scenario 6: missing reference ---

func TestMissingReferenceIsFatal(t *testing.T) {
	fatal := withFatalTrap(t)

	g := New()
	g.AddMaterial(newFuel(1))
	badFill := &cell.Cell{ID: 1, UniverseID: id.RootUniverseID, Kind: cell.KindFill, FillID: 999}
	g.AddCell(badFill)
	g.InitializeFlatSourceRegions()

	if !*fatal {
		t.Error("InitializeFlatSourceRegions with a dangling fill reference did not report fatal")
	}
}

// --- Cross-cutting invariants ---

func TestDeterminismAcrossIdenticalBuilds(t *testing.T) {
	g1 := threeByThreeLattice()
	g2 := threeByThreeLattice()

	if g1.NumFSRs() != g2.NumFSRs() {
		t.Fatalf("NumFSRs differ: %d vs %d", g1.NumFSRs(), g2.NumFSRs())
	}
	for r := 0; r < g1.NumFSRs(); r++ {
		if g1.FSRToCell(id.FSRID(r)) != g2.FSRToCell(id.FSRID(r)) {
			t.Errorf("FSRToCell(%d) differs between identical builds", r)
		}
		if g1.FSRToMaterial(id.FSRID(r)) != g2.FSRToMaterial(id.FSRID(r)) {
			t.Errorf("FSRToMaterial(%d) differs between identical builds", r)
		}
	}
}

func TestInverseMapsConsistency(t *testing.T) {
	g := twoHalfPlanesGeometry()
	for r := 0; r < g.NumFSRs(); r++ {
		cid := g.FSRToCell(id.FSRID(r))
		c := g.Cell(cid)
		if g.FSRToMaterial(id.FSRID(r)) != c.MaterialID {
			t.Errorf("FSRToMaterial(%d) = %d, want %d (cell %d's material)", r, g.FSRToMaterial(id.FSRID(r)), c.MaterialID, cid)
		}
	}
}

func TestSegmentTilingMatchesEndpointDistance(t *testing.T) {
	g := threeByThreeLattice()
	start := geom2d.Point{X: -1.5, Y: 0.5}
	tr := &track.Track{Start: start, Phi: 0}
	g.Segmentize(tr)

	var total geom2d.FPPrecision
	for _, s := range tr.Segments {
		total += s.Length
	}
	want := start.Distance(geom2d.Point{X: 1.5, Y: 0.5})
	if math.Abs(float64(total-want)) > 1e-6 {
		t.Errorf("sum of segment lengths = %v, want %v", total, want)
	}
}

func TestNoZeroLengthSegments(t *testing.T) {
	g := threeByThreeLattice()
	tr := &track.Track{Start: geom2d.Point{X: -1.5, Y: 0.5}, Phi: 0}
	g.Segmentize(tr)
	for i, s := range tr.Segments {
		if s.Length <= 0 {
			t.Errorf("segment %d has length %v, want > 0", i, s.Length)
		}
	}
}

func TestFindCellByFSRRangeCheck(t *testing.T) {
	fatal := withFatalTrap(t)

	g := singleCellDisk(t)
	g.FindCellByFSR(5)
	if !*fatal {
		t.Error("FindCellByFSR with an out-of-range id did not report fatal")
	}
}

func TestReflectiveTrackSymmetry(t *testing.T) {
	g := threeByThreeLattice()

	forward := &track.Track{Start: geom2d.Point{X: -1.5, Y: 0.5}, Phi: 0}
	g.Segmentize(forward)

	end := forward.Start.MoveAlong(forward.Phi, forward.TotalLength())
	backward := &track.Track{Start: end, Phi: forward.Phi + math.Pi}
	g.Segmentize(backward)

	if len(forward.Segments) != len(backward.Segments) {
		t.Fatalf("forward has %d segments, backward has %d, want equal counts",
			len(forward.Segments), len(backward.Segments))
	}
	n := len(forward.Segments)
	for i := 0; i < n; i++ {
		f := forward.Segments[i]
		b := backward.Segments[n-1-i]
		if math.Abs(float64(f.Length-b.Length)) > 1e-6 {
			t.Errorf("segment %d: forward length %v, reversed counterpart length %v", i, f.Length, b.Length)
		}
		if f.Material.ID != b.Material.ID {
			t.Errorf("segment %d: forward material %d, reversed counterpart material %d", i, f.Material.ID, b.Material.ID)
		}
	}
}
