package axis

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestReconstructPointsFromStepWidth(t *testing.T) {
	d := Descriptor{
		Start:      Q(340, "mT"),
		SweepWidth: Q(50, "mT"),
		StepWidth:  Q(50.0/199, "mT"),
	}
	if err := d.Reconstruct(); err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	if d.Points != 200 {
		t.Errorf("expected 200 points, got %d", d.Points)
	}
	if !approx(d.Stop.Value, 390) || d.Stop.Unit != "mT" {
		t.Errorf("expected stop 390 mT, got %v", d.Stop)
	}

	values := d.Values()
	if len(values) != 200 {
		t.Fatalf("expected 200 values, got %d", len(values))
	}
	if !approx(values[0], 340) {
		t.Errorf("first value %g, want 340", values[0])
	}
	if !approx(values[199], 390) {
		t.Errorf("last value %g, want 390", values[199])
	}
}

func TestReconstructDerivations(t *testing.T) {
	tests := []struct {
		name string
		in   Descriptor
		want Descriptor
	}{
		{
			name: "sweep from start and stop",
			in:   Descriptor{Start: Q(330, "mT"), Stop: Q(350, "mT"), Points: 11},
			want: Descriptor{Start: Q(330, "mT"), Stop: Q(350, "mT"), SweepWidth: Q(20, "mT"), StepWidth: Q(2, "mT"), Points: 11},
		},
		{
			name: "start from stop and sweep",
			in:   Descriptor{Stop: Q(350, "mT"), SweepWidth: Q(20, "mT"), StepWidth: Q(4, "mT")},
			want: Descriptor{Start: Q(330, "mT"), Stop: Q(350, "mT"), SweepWidth: Q(20, "mT"), StepWidth: Q(4, "mT"), Points: 6},
		},
		{
			name: "fully determined",
			in:   Descriptor{Start: Q(0, "G"), Stop: Q(10, "G"), SweepWidth: Q(10, "G"), StepWidth: Q(1, "G"), Points: 11},
			want: Descriptor{Start: Q(0, "G"), Stop: Q(10, "G"), SweepWidth: Q(10, "G"), StepWidth: Q(1, "G"), Points: 11},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.in
			if err := d.Reconstruct(); err != nil {
				t.Fatalf("Reconstruct failed: %v", err)
			}
			if d.Points != tt.want.Points {
				t.Errorf("points = %d, want %d", d.Points, tt.want.Points)
			}
			for _, pair := range [][2]Quantity{
				{d.Start, tt.want.Start}, {d.Stop, tt.want.Stop},
				{d.SweepWidth, tt.want.SweepWidth}, {d.StepWidth, tt.want.StepWidth},
			} {
				if !approx(pair[0].Value, pair[1].Value) || pair[0].Unit != pair[1].Unit {
					t.Errorf("got %v, want %v", pair[0], pair[1])
				}
			}
		})
	}
}

func TestReconstructErrors(t *testing.T) {
	tests := []struct {
		name string
		in   Descriptor
		want error
	}{
		{"only start", Descriptor{Start: Q(1, "mT"), Points: 10}, ErrUnderdetermined},
		{"no sampling", Descriptor{Start: Q(1, "mT"), Stop: Q(2, "mT")}, ErrUnderdetermined},
		{"mixed units", Descriptor{Start: Q(3400, "G"), Stop: Q(350, "mT"), Points: 10}, ErrUnequalUnits},
		{"stop mismatch", Descriptor{Start: Q(0, "mT"), Stop: Q(11, "mT"), SweepWidth: Q(10, "mT"), Points: 3}, ErrInconsistent},
		{"step mismatch", Descriptor{Start: Q(0, "mT"), SweepWidth: Q(10, "mT"), StepWidth: Q(3, "mT"), Points: 11}, ErrInconsistent},
		{"reversed range", Descriptor{Start: Q(360, "mT"), Stop: Q(340, "mT"), StepWidth: Q(0.1, "mT")}, ErrInconsistent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.in
			err := d.Reconstruct()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestStepCorrectedValues(t *testing.T) {
	d := Descriptor{Start: Q(340, "mT"), SweepWidth: Q(10, "mT"), Points: 4}
	if err := d.Reconstruct(); err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}

	values := d.StepCorrectedValues()
	if len(values) != 4 {
		t.Fatalf("expected 4 values, got %d", len(values))
	}
	wantStop := 340 + 10 - 10.0/5
	if !approx(values[3], wantStop) {
		t.Errorf("last value %g, want %g", values[3], wantStop)
	}
	if values[0] != 340 {
		t.Errorf("first value %g, want 340", values[0])
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{"3480.00 G", Q(3480, "G")},
		{" 9.78e+09 Hz ", Q(9.78e9, "Hz")},
		{"12", Q(12, "")},
		{"-1.5 deg C", Q(-1.5, "deg C")},
	}
	for _, tt := range tests {
		got, err := ParseQuantity(tt.in)
		if err != nil {
			t.Errorf("ParseQuantity(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseQuantity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseQuantity("abc G"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
	if q, _ := WithUnit("20", "dB"); q != Q(20, "dB") {
		t.Errorf("WithUnit did not apply default unit: %v", q)
	}
}

func TestUnitConversions(t *testing.T) {
	mt := ToMillitesla(Q(3480, "G"))
	if mt != Q(348, "mT") {
		t.Errorf("expected 348 mT, got %v", mt)
	}
	if again := ToMillitesla(mt); again != mt {
		t.Errorf("second conversion changed value: %v", again)
	}

	tests := []struct {
		name string
		fn   func(Quantity) Quantity
		in   Quantity
		want Quantity
	}{
		{"GHz", ToGigahertz, Q(9.5e9, "Hz"), Q(9.5, "GHz")},
		{"GHz below threshold", ToGigahertz, Q(40, "Hz"), Q(40, "Hz")},
		{"kHz", ToKilohertz, Q(100000, "Hz"), Q(100, "kHz")},
		{"kHz below threshold", ToKilohertz, Q(50, "Hz"), Q(50, "Hz")},
		{"mW", ToMilliwatt, Q(0.0002, "W"), Q(0.2, "mW")},
		{"mW above threshold", ToMilliwatt, Q(0.5, "W"), Q(0.5, "W")},
		{"already mW", ToMilliwatt, Q(2, "mW"), Q(2, "mW")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.in)
			if !approx(got.Value, tt.want.Value) || got.Unit != tt.want.Unit {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInterpolate(t *testing.T) {
	xp := []float64{0, 10, 20}
	fp := []float64{100, 200, 400}

	got, err := Interpolate(xp, fp, []float64{-5, 0, 5, 10, 15, 25})
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}
	want := []float64{100, 100, 150, 200, 300, 400}
	for i := range want {
		if !approx(got[i], want[i]) {
			t.Errorf("got[%d] = %g, want %g", i, got[i], want[i])
		}
	}

	down, err := Interpolate([]float64{20, 10, 0}, []float64{400, 200, 100}, []float64{5})
	if err != nil {
		t.Fatalf("Interpolate failed: %v", err)
	}
	if !approx(down[0], 150) {
		t.Errorf("decreasing abscissa: got %g, want 150", down[0])
	}

	if _, err := Interpolate(xp, fp[:2], nil); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestWindow(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	data := []float64{10, 20, 30, 40, 50}

	a, d, err := Window(values, data, 2, 5)
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(a) != 2 || a[0] != 3 || a[1] != 4 {
		t.Errorf("unexpected axis %v", a)
	}
	if len(d) != 2 || d[0] != 30 || d[1] != 40 {
		t.Errorf("unexpected data %v", d)
	}
}

func TestLinspaceAndCalibrated(t *testing.T) {
	if got := Linspace(1, 2, 1); len(got) != 1 || got[0] != 1 {
		t.Errorf("single point linspace: %v", got)
	}
	if got := Linspace(0, 1, 0); got != nil {
		t.Errorf("zero point linspace should be nil, got %v", got)
	}
	got := Calibrated(3, 10, 0.5)
	if got[0] != 10 || got[2] != 11 {
		t.Errorf("unexpected calibration %v", got)
	}
}
