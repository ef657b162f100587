// Package material defines the cross-section data the geometry engine
// carries per material ID, plus the self-check OpenMOC's
// Material::checkSigmaT() performs when a material is added to a
// Geometry (Geometry.cpp:356). The transport physics that consumes this
// data is an external collaborator (spec.md §1); this package only
// carries the fields the core needs to validate and report.
package material

import (
	"fmt"
	"math"

	"github.com/flatsource/moc2d/pkg/id"
)

// defaultSigmaTTolerance bounds how far Σt may drift from Σa+Σs across
// an energy group before checkSigmaT rejects the material. OpenMOC's own
// equivalent check flags a wider than 1e-5 relative mismatch.
const defaultSigmaTTolerance = 1e-5

// Material carries per-energy-group macroscopic cross-sections.
// NumEnergyGroups must agree with every other Material already added to
// the same Geometry (spec.md §4.1).
type Material struct {
	ID              id.MaterialID
	NumEnergyGroups int
	SigmaT          []float64 // total cross-section per group
	SigmaA          []float64 // absorption cross-section per group
	SigmaS          []float64 // scattering cross-section per group (isotropic, 1 group in, 1 group out)
}

// CheckSigmaT verifies that, within tolerance, SigmaT[g] == SigmaA[g] +
// SigmaS[g] for every energy group g. It returns a descriptive error
// instead of aborting so callers (Geometry.AddMaterial) can decide how
// to surface the failure.
func (m Material) CheckSigmaT() error {
	if len(m.SigmaT) != m.NumEnergyGroups ||
		len(m.SigmaA) != m.NumEnergyGroups ||
		len(m.SigmaS) != m.NumEnergyGroups {
		return fmt.Errorf("material %d: cross-section arrays do not match NumEnergyGroups=%d",
			m.ID, m.NumEnergyGroups)
	}

	for g := 0; g < m.NumEnergyGroups; g++ {
		sum := m.SigmaA[g] + m.SigmaS[g]
		if math.Abs(sum-m.SigmaT[g]) > defaultSigmaTTolerance*math.Max(1, math.Abs(m.SigmaT[g])) {
			return fmt.Errorf("material %d group %d: sigma_t=%.6g but sigma_a+sigma_s=%.6g",
				m.ID, g, m.SigmaT[g], sum)
		}
	}
	return nil
}
