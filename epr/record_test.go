package epr

import (
	"testing"

	"github.com/robert-malhotra/go-epr/internal/axis"
	"github.com/robert-malhotra/go-epr/internal/metadata"
)

func TestProject(t *testing.T) {
	root := metadata.NewMapping()
	general := metadata.NewMapping()
	general.SetString("Operator", "Jane")
	general.SetString("Time Start", "10:00")
	general.SetString("Date start", "2020-06-29")
	general.SetString("Date end", "2020-06-30")
	root.Set("GENERAL", general)

	mf := metadata.NewMapping()
	mf.Set("field_min", metadata.QuantityNode(axis.Q(3400, "G")))
	mf.SetNumber("sweep_width", 100) // no unit: unset
	mf.SetString("step_count", "1024")
	root.Set("Magnetic_Field", mf)

	sc := metadata.NewMapping()
	sc.SetString("receiver_gain", "1.000e+04")
	sc.SetString("time_constant", "20.48 ms")
	sc.SetString("accumulations", "not a number")
	root.Set("signal_channel", sc)

	root.SetString("temperature_control", "scalar sections are ignored")

	rec := project(root)
	if rec.General.Operator != "Jane" || rec.General.TimeStart != "10:00" {
		t.Errorf("general = %+v", rec.General)
	}
	if rec.General.DateStart != "2020-06-29" || rec.General.DateEnd != "2020-06-30" {
		t.Errorf("dates = %q, %q", rec.General.DateStart, rec.General.DateEnd)
	}
	if rec.MagneticField.FieldMin != axis.Q(3400, "G") {
		t.Errorf("field_min = %v", rec.MagneticField.FieldMin)
	}
	if rec.MagneticField.SweepWidth.IsSet() {
		t.Errorf("unit-less sweep width must stay unset, got %v", rec.MagneticField.SweepWidth)
	}
	if rec.MagneticField.StepCount != 1024 {
		t.Errorf("step_count = %d", rec.MagneticField.StepCount)
	}
	if rec.SignalChannel.ReceiverGain != 1e4 || rec.SignalChannel.TimeConstant != axis.Q(20.48, "ms") {
		t.Errorf("signal channel = %+v", rec.SignalChannel)
	}
	if rec.SignalChannel.Accumulations != 0 {
		t.Errorf("invalid integer must stay unset, got %d", rec.SignalChannel.Accumulations)
	}
}

func TestMatrix(t *testing.T) {
	m := NewMatrix(3, 2)
	m.Set(2, 1, 7)
	if m.At(2, 1) != 7 || m.Values[5] != 7 {
		t.Errorf("row-major layout broken: %v", m.Values)
	}
	if col := m.Column(1); len(col) != 3 || col[2] != 7 {
		t.Errorf("column = %v", col)
	}
	if m.Dims() != 2 || NewMatrix(3, 1).Dims() != 1 {
		t.Error("unexpected dimensionality")
	}
}
