package epr

import (
	"fmt"

	"github.com/robert-malhotra/go-epr/internal/axis"
)

// Physical constants (CODATA 2018).
const (
	// FreeElectronG is the g-factor of the free electron.
	FreeElectronG = 2.00231930436256

	// BohrMagneton in J/T.
	BohrMagneton = 9.2740100783e-24

	// PlanckConstant in J s.
	PlanckConstant = 6.62607015e-34
)

var (
	toHertz = map[string]float64{"Hz": 1, "kHz": 1e3, "MHz": 1e6, "GHz": 1e9}
	toTesla = map[string]float64{"T": 1, "mT": 1e-3, "G": 1e-4}
)

// GValue returns the g-factor of a resonance at field for the microwave
// frequency freq: g = hν / (μB B).
func GValue(freq, field axis.Quantity) (float64, error) {
	fs, ok := toHertz[freq.Unit]
	if !ok {
		return 0, fmt.Errorf("%w: frequency unit %q", axis.ErrInvalidValue, freq.Unit)
	}
	bs, ok := toTesla[field.Unit]
	if !ok {
		return 0, fmt.Errorf("%w: field unit %q", axis.ErrInvalidValue, field.Unit)
	}
	if field.Value == 0 {
		return 0, fmt.Errorf("%w: zero field", axis.ErrInvalidValue)
	}
	return PlanckConstant * freq.Value * fs / (BohrMagneton * field.Value * bs), nil
}

// ResonanceField returns the field at which a species with g-factor g
// resonates at frequency freq, in unit.
func ResonanceField(g float64, freq axis.Quantity, unit string) (axis.Quantity, error) {
	fs, ok := toHertz[freq.Unit]
	if !ok {
		return axis.Quantity{}, fmt.Errorf("%w: frequency unit %q", axis.ErrInvalidValue, freq.Unit)
	}
	bs, ok := toTesla[unit]
	if !ok {
		return axis.Quantity{}, fmt.Errorf("%w: field unit %q", axis.ErrInvalidValue, unit)
	}
	if g == 0 {
		return axis.Quantity{}, fmt.Errorf("%w: zero g-factor", axis.ErrInvalidValue)
	}
	tesla := PlanckConstant * freq.Value * fs / (g * BohrMagneton)
	return axis.Q(tesla/bs, unit), nil
}
