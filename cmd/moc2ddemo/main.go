// Demo: build a 3x3 lattice of unit material cells and segmentize one
// track across it, mirroring the role examples/simple_box.go plays for
// the teacher's kernel package — a runnable exercise of the library, not
// a CLI product.
package main

import (
	"fmt"
	"log"

	"github.com/flatsource/moc2d/pkg/cell"
	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/geometry"
	"github.com/flatsource/moc2d/pkg/id"
	"github.com/flatsource/moc2d/pkg/material"
	"github.com/flatsource/moc2d/pkg/surface"
	"github.com/flatsource/moc2d/pkg/track"
	"github.com/flatsource/moc2d/pkg/universe"
)

func main() {
	g := geometry.New()

	fuel := &material.Material{ID: 1, NumEnergyGroups: 1, SigmaT: []float64{1.0}, SigmaA: []float64{0.4}, SigmaS: []float64{0.6}}
	g.AddMaterial(fuel)

	outerLeft := surface.NewXPlane(1, surface.BoundaryReflective, -1.5)
	outerRight := surface.NewXPlane(2, surface.BoundaryReflective, 1.5)
	outerBottom := surface.NewYPlane(3, surface.BoundaryReflective, -1.5)
	outerTop := surface.NewYPlane(4, surface.BoundaryReflective, 1.5)
	g.AddSurface(outerLeft)
	g.AddSurface(outerRight)
	g.AddSurface(outerBottom)
	g.AddSurface(outerTop)

	// Every lattice tile is the same single-material child universe.
	const tileUniverseID id.UniverseID = 10
	tileCell := &cell.Cell{
		ID:         100,
		UniverseID: tileUniverseID,
		Kind:       cell.KindMaterial,
		MaterialID: fuel.ID,
		Subdivider: cell.IdentitySubdivider{},
	}
	g.AddCell(tileCell)

	lat := universe.NewLattice(1, 3, 3, 1.0, 1.0, -1.5, -1.5)
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			lat.Universes[j][i] = tileUniverseID
		}
	}
	g.AddLattice(lat)

	rootCell := &cell.Cell{
		ID:         1,
		UniverseID: id.RootUniverseID,
		Kind:       cell.KindFill,
		FillID:     lat.ID(),
		HalfSpaces: []cell.HalfSpace{
			{Surface: outerLeft.ID(), Sign: surface.SidePositive},
			{Surface: outerRight.ID(), Sign: surface.SideNegative},
			{Surface: outerBottom.ID(), Sign: surface.SidePositive},
			{Surface: outerTop.ID(), Sign: surface.SideNegative},
		},
	}
	g.AddCell(rootCell, outerLeft, outerRight, outerBottom, outerTop)

	g.InitializeFlatSourceRegions()
	fmt.Printf("num_FSRs = %d\n", g.NumFSRs())
	fmt.Print(g.String())

	t := &track.Track{Start: geom2d.Point{X: -1.5, Y: 0.5}, Phi: 0}
	g.Segmentize(t)

	if len(t.Segments) == 0 {
		log.Fatal("segmentize produced no segments")
	}
	fmt.Println("segments:")
	for _, s := range t.Segments {
		fmt.Printf("  length=%v material=%d region=%d\n", s.Length, s.Material.ID, s.RegionID)
	}
	fmt.Printf("max_seg_length=%v min_seg_length=%v\n", g.MaxSegLength(), g.MinSegLength())
}
