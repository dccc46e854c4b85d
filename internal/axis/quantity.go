package axis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors returned by quantity arithmetic and axis reconstruction.
var (
	ErrUnequalUnits    = errors.New("axis: units are not equal")
	ErrUnderdetermined = errors.New("axis: descriptor is underdetermined")
	ErrInconsistent    = errors.New("axis: descriptor values are inconsistent")
	ErrInvalidValue    = errors.New("axis: invalid quantity")
)

// Quantity is a physical value with its unit. A quantity without a unit is
// considered unset.
type Quantity struct {
	Value float64 `yaml:"value"`
	Unit  string  `yaml:"unit"`
}

// Q is shorthand for constructing a Quantity.
func Q(value float64, unit string) Quantity {
	return Quantity{Value: value, Unit: unit}
}

// IsSet reports whether the quantity carries a unit.
func (q Quantity) IsSet() bool {
	return q.Unit != ""
}

func (q Quantity) String() string {
	if q.Unit == "" {
		return strconv.FormatFloat(q.Value, 'g', -1, 64)
	}
	return strconv.FormatFloat(q.Value, 'g', -1, 64) + " " + q.Unit
}

// Add returns q+o. Both quantities must share a unit.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	if q.Unit != o.Unit {
		return Quantity{}, fmt.Errorf("%w: %q + %q", ErrUnequalUnits, q.Unit, o.Unit)
	}
	return Quantity{Value: q.Value + o.Value, Unit: q.Unit}, nil
}

// Sub returns q-o. Both quantities must share a unit.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	if q.Unit != o.Unit {
		return Quantity{}, fmt.Errorf("%w: %q - %q", ErrUnequalUnits, q.Unit, o.Unit)
	}
	return Quantity{Value: q.Value - o.Value, Unit: q.Unit}, nil
}

// Scale returns q multiplied by f, keeping the unit.
func (q Quantity) Scale(f float64) Quantity {
	return Quantity{Value: q.Value * f, Unit: q.Unit}
}

// Ratio returns q/o. Both quantities must share a unit.
func (q Quantity) Ratio(o Quantity) (float64, error) {
	if q.Unit != o.Unit {
		return 0, fmt.Errorf("%w: %q / %q", ErrUnequalUnits, q.Unit, o.Unit)
	}
	if o.Value == 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrInvalidValue)
	}
	return q.Value / o.Value, nil
}

// ParseQuantity splits strings such as "3480.00 G" or "9.78e+09 Hz" into
// value and unit. A bare number yields a quantity with an empty unit.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, fmt.Errorf("%w: empty string", ErrInvalidValue)
	}

	fields := strings.Fields(s)
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	unit := ""
	if len(fields) > 1 {
		unit = strings.Join(fields[1:], " ")
	}
	return Quantity{Value: v, Unit: unit}, nil
}

// WithUnit parses s and, when it carries no unit of its own, assigns unit.
func WithUnit(s, unit string) (Quantity, error) {
	q, err := ParseQuantity(s)
	if err != nil {
		return Quantity{}, err
	}
	if q.Unit == "" {
		q.Unit = unit
	}
	return q, nil
}
