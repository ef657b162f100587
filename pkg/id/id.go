// Package id defines the distinct identifier types shared across the
// geometry engine's registries. Each entity kind gets its own named
// integer type so a surface ID can never be passed where a cell ID is
// expected, the same discipline the graph package's NodeID/PartID/SolidID
// types enforce for design-graph references.
package id

// SurfaceID identifies a Surface in the Geometry's surface registry.
type SurfaceID int32

// MaterialID identifies a Material in the Geometry's material registry.
type MaterialID int32

// CellID identifies a Cell in the Geometry's cell registry.
type CellID int32

// UniverseID identifies a Universe (simple or lattice) in the Geometry's
// universe registry. A Lattice is also inserted into this same ID space.
type UniverseID int32

// LatticeID identifies a Lattice in the Geometry's lattice registry.
// Every LatticeID also exists as a UniverseID with the same numeric value.
type LatticeID int32

// RootUniverseID is the ID of the universe that roots the whole geometry.
// LocalCoords chains always begin and end their walk relative to it.
const RootUniverseID UniverseID = 0

// FSRID identifies a flat source region. FSR numbering is a dense
// [0, NumFSRs) integer space assigned during initialization, distinct
// from any of the user-assigned entity ID spaces above.
type FSRID int32
