package axis

import (
	"fmt"
	"math"
)

// relTolerance is the relative tolerance used when checking that a fully
// populated descriptor is self-consistent.
const relTolerance = 1e-6

// Descriptor describes an evenly sampled sweep. Any subset of the fields may
// be populated before calling Reconstruct; a zero Points means unknown and a
// quantity without a unit means unset.
type Descriptor struct {
	Start      Quantity `yaml:"start"`
	Stop       Quantity `yaml:"stop"`
	SweepWidth Quantity `yaml:"sweep_width"`
	StepWidth  Quantity `yaml:"step_width"`
	Points     int      `yaml:"points"`
}

// Reconstruct derives the missing fields of the descriptor.
//
// At least two of {Start, Stop, SweepWidth} and at least one of
// {StepWidth, Points} must be known, otherwise ErrUnderdetermined is returned.
// Fields that are all present must agree: Stop = Start + SweepWidth and
// SweepWidth = StepWidth × (Points-1), or ErrInconsistent is returned.
func (d *Descriptor) Reconstruct() error {
	if err := d.checkDeterminacy(); err != nil {
		return err
	}
	if err := d.reconstructRange(); err != nil {
		return err
	}
	return d.reconstructSampling()
}

func (d *Descriptor) checkDeterminacy() error {
	known := 0
	for _, q := range []Quantity{d.Start, d.Stop, d.SweepWidth} {
		if q.IsSet() {
			known++
		}
	}
	if known < 2 {
		return fmt.Errorf("%w: need two of start, stop and sweep width, have %d", ErrUnderdetermined, known)
	}
	if !d.StepWidth.IsSet() && d.Points <= 0 {
		return fmt.Errorf("%w: need step width or point count", ErrUnderdetermined)
	}
	return nil
}

func (d *Descriptor) reconstructRange() error {
	var err error
	switch {
	case !d.SweepWidth.IsSet():
		d.SweepWidth, err = d.Stop.Sub(d.Start)
	case !d.Stop.IsSet():
		d.Stop, err = d.Start.Add(d.SweepWidth)
	case !d.Start.IsSet():
		d.Start, err = d.Stop.Sub(d.SweepWidth)
	default:
		var stop Quantity
		stop, err = d.Start.Add(d.SweepWidth)
		if err == nil && d.Stop.Unit != stop.Unit {
			err = fmt.Errorf("%w: stop in %q, start in %q", ErrUnequalUnits, d.Stop.Unit, stop.Unit)
		}
		if err == nil && !closeEnough(stop.Value, d.Stop.Value, d.SweepWidth.Value) {
			err = fmt.Errorf("%w: stop %v != start %v + sweep width %v", ErrInconsistent, d.Stop, d.Start, d.SweepWidth)
		}
	}
	return err
}

func (d *Descriptor) reconstructSampling() error {
	switch {
	case d.Points <= 0:
		ratio, err := d.SweepWidth.Ratio(d.StepWidth)
		if err != nil {
			return fmt.Errorf("deriving point count: %w", err)
		}
		points := int(math.Round(ratio)) + 1
		if points < 1 {
			return fmt.Errorf("%w: sweep width %v and step width %v give %d points", ErrInconsistent, d.SweepWidth, d.StepWidth, points)
		}
		d.Points = points
	case !d.StepWidth.IsSet():
		if d.Points < 2 {
			d.StepWidth = Quantity{Value: 0, Unit: d.SweepWidth.Unit}
			return nil
		}
		d.StepWidth = d.SweepWidth.Scale(1 / float64(d.Points-1))
	default:
		if d.StepWidth.Unit != d.SweepWidth.Unit {
			return fmt.Errorf("%w: step width in %q, sweep width in %q", ErrUnequalUnits, d.StepWidth.Unit, d.SweepWidth.Unit)
		}
		want := d.StepWidth.Value * float64(d.Points-1)
		if !closeEnough(want, d.SweepWidth.Value, d.SweepWidth.Value) {
			return fmt.Errorf("%w: sweep width %v != step width %v x %d", ErrInconsistent, d.SweepWidth, d.StepWidth, d.Points-1)
		}
	}
	return nil
}

// Values returns Points evenly spaced values from Start to Stop inclusive.
// Reconstruct must have succeeded first.
func (d Descriptor) Values() []float64 {
	return Linspace(d.Start.Value, d.Stop.Value, d.Points)
}

// StepCorrectedValues returns the grid for vendors that store the number of
// steps where the number of points is meant. The stop value is moved to
// Start + SweepWidth - SweepWidth/(Points+1) before sampling.
func (d Descriptor) StepCorrectedValues() []float64 {
	return Linspace(d.Start.Value, d.StepCorrectedStop(), d.Points)
}

// StepCorrectedStop returns the stop value used by StepCorrectedValues.
func (d Descriptor) StepCorrectedStop() float64 {
	sw := d.SweepWidth.Value
	return d.Start.Value + sw - sw/float64(d.Points+1)
}

func closeEnough(a, b, scale float64) bool {
	tol := math.Abs(scale) * relTolerance
	if tol < 1e-12 {
		tol = 1e-12
	}
	return math.Abs(a-b) <= tol
}
