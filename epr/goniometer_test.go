package epr

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/robert-malhotra/go-epr/internal/axis"
)

func TestParseAngle(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		ok    bool
	}{
		{"cu_gon_090", 90, true},
		{"cu_gon_7.5deg", 7.5, true},
		{"sample2_gon_45", 45, true},
		{"gon360", 0, true},
		{"gon_400", 0, true},
		{"12_gon", 12, true},
		{"gon", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAngle(tt.name)
			if ok != tt.ok || got != tt.angle {
				t.Errorf("ParseAngle(%q) = %g, %v; want %g, %v", tt.name, got, ok, tt.angle, tt.ok)
			}
		})
	}
}

func TestImportGoniometer(t *testing.T) {
	dir := t.TempDir()
	// Lexical order differs from numeric order.
	writeText(t, filepath.Join(dir, "cu_gon_90.txt"), 340, 1, []float64{9, 9, 9, 9, 9})
	writeText(t, filepath.Join(dir, "cu_gon_10.txt"), 340, 1, []float64{1, 2, 3, 4, 5})
	writeText(t, filepath.Join(dir, "cu_gon_370.txt"), 340.5, 1, []float64{0, 10, 20, 30, 40})

	ds, err := Import(dir)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if ds.Format != Goniometer || ds.Dims() != 2 {
		t.Fatalf("unexpected dataset %s, %d-D", ds.Format, ds.Dims())
	}

	angles := ds.Axes[1].Values
	if len(angles) != 3 || angles[0] != 0 || angles[1] != 10 || angles[2] != 90 {
		t.Fatalf("angles = %v, want [0 10 90]", angles)
	}

	// The first spectrum (370 -> 0 degrees) defines the field axis.
	if ds.Field().Values[0] != 340.5 || ds.Data.Rows != 5 {
		t.Errorf("field axis = %v", ds.Field().Values)
	}
	// The 10 degree spectrum is resampled onto 340.5, 341.5, ...
	col := ds.Data.Column(1)
	want := []float64{1.5, 2.5, 3.5, 4.5, 5}
	for i := range want {
		if !approx(col[i], want[i]) {
			t.Errorf("resampled value %d = %g, want %g", i, col[i], want[i])
		}
	}
	if ds.Data.At(2, 2) != 9 {
		t.Errorf("90 degree column = %v", ds.Data.Column(2))
	}
}

func TestCorrectFrequency(t *testing.T) {
	field := []float64{340, 350}
	got, err := correctFrequency(field, axis.Q(9.5, "GHz"), axis.Q(9.405, "GHz"))
	if err != nil {
		t.Fatalf("correctFrequency failed: %v", err)
	}
	if !approx(got[0], 340*0.99) || !approx(got[1], 350*0.99) {
		t.Errorf("corrected field = %v", got)
	}

	if same, _ := correctFrequency(field, axis.Quantity{}, axis.Q(9.4, "GHz")); same[0] != 340 {
		t.Error("missing frequency must leave the axis unchanged")
	}
	if _, err := correctFrequency(field, axis.Q(9.5e9, "Hz"), axis.Q(9.4, "GHz")); !errors.Is(err, axis.ErrUnequalUnits) {
		t.Errorf("expected ErrUnequalUnits, got %v", err)
	}
}
