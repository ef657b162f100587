package material

import "testing"

func TestCheckSigmaTAccepts(t *testing.T) {
	m := Material{
		ID:              1,
		NumEnergyGroups: 2,
		SigmaT:          []float64{1.0, 2.0},
		SigmaA:          []float64{0.4, 0.8},
		SigmaS:          []float64{0.6, 1.2},
	}
	if err := m.CheckSigmaT(); err != nil {
		t.Errorf("CheckSigmaT() = %v, want nil", err)
	}
}

func TestCheckSigmaTRejectsMismatch(t *testing.T) {
	m := Material{
		ID:              1,
		NumEnergyGroups: 1,
		SigmaT:          []float64{1.0},
		SigmaA:          []float64{0.1},
		SigmaS:          []float64{0.1},
	}
	if err := m.CheckSigmaT(); err == nil {
		t.Error("CheckSigmaT() = nil, want an error for sigma_t != sigma_a+sigma_s")
	}
}

func TestCheckSigmaTRejectsWrongLength(t *testing.T) {
	m := Material{
		ID:              1,
		NumEnergyGroups: 2,
		SigmaT:          []float64{1.0},
		SigmaA:          []float64{0.4, 0.8},
		SigmaS:          []float64{0.6, 1.2},
	}
	if err := m.CheckSigmaT(); err == nil {
		t.Error("CheckSigmaT() = nil, want an error for mismatched array length")
	}
}
