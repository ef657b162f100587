// Package track holds the output shape of ray traversal: a straight line
// across the geometry broken into segments, each lying entirely within
// one flat source region, per spec.md §4.7/§6.
package track

import (
	"github.com/flatsource/moc2d/pkg/geom2d"
	"github.com/flatsource/moc2d/pkg/id"
	"github.com/flatsource/moc2d/pkg/material"
)

// Segment is one piece of a Track lying entirely within a single flat
// source region. Material is the resolved pointer Geometry.Segmentize
// looks up at segmentize time (spec.md §4.8 step 5's
// "material = materials[prev.material_id]", mirroring OpenMOC's
// `_materials.at(...)`), not a bare ID a caller must resolve itself.
type Segment struct {
	Length   geom2d.FPPrecision
	Material *material.Material
	RegionID id.FSRID
}

// Track is a directed line segment through the geometry, starting at
// Start and heading at angle Phi (radians), Segmentized into Segments in
// traversal order from Start outward.
type Track struct {
	Start    geom2d.Point
	Phi      geom2d.FPPrecision
	Segments []Segment
}

// TotalLength sums every segment's length, the distance from Start to
// wherever traversal stopped (a vacuum boundary, or a reflective
// boundary if the caller does not chain tracks across reflections).
func (t *Track) TotalLength() geom2d.FPPrecision {
	var sum geom2d.FPPrecision
	for _, s := range t.Segments {
		sum += s.Length
	}
	return sum
}
