package winepr

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/robert-malhotra/go-epr/internal/axis"
	"github.com/robert-malhotra/go-epr/internal/dtype"
	"github.com/robert-malhotra/go-epr/internal/format"
)

const emxPar = `DOS  Format
ANZ 8
MIN -1.5e+04
MAX 1.2e+04
JSS 2
JON xuser
JDA 04/12/2019
JTM 14:31
JCO
JUN G
HCF 3400.000000
HSW 100.000000
RES 8
MF  9.412000
MP  2.000e+00
RMA 1.000000
RMF 100.000
RRG 1.000e+04
RCT 40.960
RTC 20.480
TE  295
`

func writePair(t *testing.T, par string, data []byte) string {
	t.Helper()
	stem := filepath.Join(t.TempDir(), "sample")
	if err := os.WriteFile(stem+ParameterExt, []byte(par), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stem+DataExt, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return stem
}

func TestParsePar(t *testing.T) {
	tests := []struct {
		line, key, value string
	}{
		{"ANZ 1024", "ANZ", "1024"},
		{"MF  9.412000", "MF", "9.412000"},
		{"DOS  Format", "DOS", "Format"},
		{"JCO sample in  toluene", "JCO", "sample in  toluene"},
		{"JCO", "JCO", ""},
		{"  HCF\t3400  ", "HCF", "3400"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			n := ParsePar(tt.line + "\n\n")
			if n.Len() != 1 {
				t.Fatalf("expected one key, got %v", n.Keys())
			}
			v, ok := n.Get(tt.key)
			if !ok {
				t.Fatalf("key %q missing, have %v", tt.key, n.Keys())
			}
			if v.Text() != tt.value {
				t.Errorf("value = %q, want %q", v.Text(), tt.value)
			}
		})
	}
}

func TestReadEMX(t *testing.T) {
	values := []float64{-1.5e4, -200, 0, 3.25, 512, 1000, 7, 1.2e4}
	stem := writePair(t, emxPar, dtype.Encode(values, dtype.Float32LE))

	tr, err := Read(stem, format.Options{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if tr.Encoding != dtype.Float32LE.String() {
		t.Errorf("encoding = %s, want float32 little-endian", tr.Encoding)
	}
	for i, v := range values {
		if tr.Samples[i] != v {
			t.Errorf("sample %d = %g, want %g", i, tr.Samples[i], v)
		}
	}
	if tr.StepCorrected {
		t.Error("WinEPR traces use the plain grid")
	}

	checks := map[string]axis.Quantity{
		"/magnetic_field/field_min":            axis.Q(3350, "G"),
		"/magnetic_field/sweep_width":          axis.Q(100, "G"),
		"/bridge/mw_frequency":                 axis.Q(9.412, "GHz"),
		"/bridge/power":                        axis.Q(2, "mW"),
		"/signal_channel/modulation_frequency": axis.Q(100, "kHz"),
		"/signal_channel/time_constant":        axis.Q(20.48, "ms"),
		"/temperature_control/temperature":     axis.Q(295, "K"),
	}
	for path, want := range checks {
		n, ok := tr.Metadata.Lookup(path)
		if !ok {
			t.Errorf("%s missing", path)
			continue
		}
		if got, err := n.Quantity(""); err != nil || got != want {
			t.Errorf("%s = %v (%v), want %v", path, got, err, want)
		}
	}
	if d, _ := tr.Metadata.Lookup("/general/date"); d.Text() != "04/12/2019 14:31" {
		t.Errorf("date = %q", d.Text())
	}
	if op, _ := tr.Metadata.Lookup("/general/operator"); op.Text() != "xuser" {
		t.Errorf("operator = %q", op.Text())
	}
}

func TestReadESPFallsBackToInt32(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 100}
	par := "ANZ 8\nGST 3300\nGSI 200\nMF 9.5\n"
	stem := writePair(t, par, dtype.Encode(values, dtype.Int32BE))

	tr, err := Read(stem, format.Options{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if tr.Encoding != dtype.Int32BE.String() {
		t.Errorf("encoding = %s, want int32 big-endian", tr.Encoding)
	}
	for i, v := range values {
		if tr.Samples[i] != v {
			t.Errorf("sample %d = %g, want %g", i, tr.Samples[i], v)
		}
	}
	n, _ := tr.Metadata.Lookup("/magnetic_field/field_min")
	if q, _ := n.Quantity(""); q != axis.Q(3300, "G") {
		t.Errorf("field_min = %v", q)
	}
}

func TestReadPointCountMismatch(t *testing.T) {
	stem := writePair(t, emxPar, dtype.Encode(make([]float64, 6), dtype.Float32LE))

	_, err := Read(stem, format.Options{})
	if !errors.Is(err, format.ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestReadTwoDimensional(t *testing.T) {
	par := "SSX 4\nSSY 2\nXXLB 3400\nXXWI 40\nXYLB 0\nXYWI 90\nXYUN deg\nJUN G\n"
	flat := []float64{1, 2, 3, 4, 11, 12, 13, 14}
	stem := writePair(t, par, dtype.Encode(flat, dtype.Float32LE))

	tr, err := Read(stem, format.Options{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if tr.Points != 4 || tr.Columns != 2 {
		t.Fatalf("unexpected shape %dx%d", tr.Points, tr.Columns)
	}
	if tr.Samples[1*2+1] != 12 {
		t.Errorf("sample[1][1] = %g, want 12", tr.Samples[1*2+1])
	}
	if tr.Secondary.Unit != "deg" || tr.Secondary.Values[1] != 90 {
		t.Errorf("unexpected secondary axis %+v", tr.Secondary)
	}
}

func TestReadMissingFieldRange(t *testing.T) {
	stem := writePair(t, "ANZ 2\n", dtype.Encode([]float64{1, 2}, dtype.Float32LE))

	_, err := Read(stem, format.Options{})
	if !errors.Is(err, format.ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}
