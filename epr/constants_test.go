package epr

import (
	"errors"
	"math"
	"testing"

	"github.com/robert-malhotra/go-epr/internal/axis"
)

func TestGValue(t *testing.T) {
	tests := []struct {
		freq  axis.Quantity
		field axis.Quantity
	}{
		{axis.Q(9.5, "GHz"), axis.Q(339, "mT")},
		{axis.Q(9.5e9, "Hz"), axis.Q(3390, "G")},
		{axis.Q(9500, "MHz"), axis.Q(0.339, "T")},
	}
	for _, tt := range tests {
		g, err := GValue(tt.freq, tt.field)
		if err != nil {
			t.Fatalf("GValue(%v, %v) failed: %v", tt.freq, tt.field, err)
		}
		if math.Abs(g-2.00222) > 1e-4 {
			t.Errorf("GValue(%v, %v) = %.5f, want about 2.00222", tt.freq, tt.field, g)
		}
	}

	if _, err := GValue(axis.Q(9.5, "GHz"), axis.Q(339, "Oe")); !errors.Is(err, axis.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for unknown unit, got %v", err)
	}
}

func TestResonanceFieldRoundTrip(t *testing.T) {
	freq := axis.Q(9.754, "GHz")
	b, err := ResonanceField(FreeElectronG, freq, "mT")
	if err != nil {
		t.Fatalf("ResonanceField failed: %v", err)
	}
	g, err := GValue(freq, b)
	if err != nil {
		t.Fatalf("GValue failed: %v", err)
	}
	if math.Abs(g-FreeElectronG) > 1e-12 {
		t.Errorf("round trip g = %.14f, want %.14f", g, FreeElectronG)
	}
}
