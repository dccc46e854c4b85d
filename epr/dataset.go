package epr

import (
	"fmt"

	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// Format identifies the importer that produced a dataset.
type Format string

// Supported formats, in dispatch order.
const (
	BES3T      Format = "BES3T"
	WinEPR     Format = "WinEPR"
	Magnettech Format = "Magnettech"
	NIEHSLmb   Format = "NIEHS lmb"
	NIEHSSim   Format = "NIEHS sim"
	NIEHSExp   Format = "NIEHS exp"
	NIEHSDat   Format = "NIEHS dat"
	Text       Format = "txt"
	CSV        Format = "csv"
	Goniometer Format = "goniometer"
)

// Matrix holds intensities row-major with the field axis as rows:
// Values[i*Cols+j] is field point i of trace j. 1-D data has one column.
type Matrix struct {
	Rows   int
	Cols   int
	Values []float64
}

// NewMatrix returns a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Values: make([]float64, rows*cols)}
}

// At returns element (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.Values[i*m.Cols+j]
}

// Set stores element (i, j).
func (m *Matrix) Set(i, j int, v float64) {
	m.Values[i*m.Cols+j] = v
}

// Column returns a copy of column j.
func (m *Matrix) Column(j int) []float64 {
	out := make([]float64, m.Rows)
	for i := range out {
		out[i] = m.At(i, j)
	}
	return out
}

// Dims returns 1 for single-column data and 2 otherwise.
func (m *Matrix) Dims() int {
	if m.Cols <= 1 {
		return 1
	}
	return 2
}

// Axis is one dimension of a dataset. The last axis of a dataset describes
// the intensity and has no values.
type Axis struct {
	Quantity string    `yaml:"quantity"`
	Unit     string    `yaml:"unit"`
	Values   []float64 `yaml:"values,omitempty"`
}

// Dataset is an imported spectrum.
type Dataset struct {
	Source string
	Format Format

	Data *Matrix

	// Axes holds the field axis, the secondary axis for 2-D data, and the
	// intensity axis, in that order.
	Axes []Axis

	Metadata *Record

	// Vendor is the merged parsed metadata the Record was projected from.
	Vendor *metadata.Node

	// Overrides lists the keys present both in the info file and in the
	// vendor metadata.
	Overrides metadata.OverrideLog

	Annotations []string
}

// Dims returns the dimensionality of the data.
func (d *Dataset) Dims() int {
	return d.Data.Dims()
}

// Field returns the field axis.
func (d *Dataset) Field() Axis {
	return d.Axes[0]
}

// Validate checks that the axes match the data shape.
func (d *Dataset) Validate() error {
	if d.Data == nil {
		return fmt.Errorf("%w: no data", ErrDimensionMismatch)
	}
	if len(d.Data.Values) != d.Data.Rows*d.Data.Cols {
		return fmt.Errorf("%w: %d values for %dx%d matrix", ErrDimensionMismatch, len(d.Data.Values), d.Data.Rows, d.Data.Cols)
	}
	if want := d.Dims() + 1; len(d.Axes) != want {
		return fmt.Errorf("%w: %d axes for %d-D data", ErrDimensionMismatch, len(d.Axes), d.Dims())
	}
	if n := len(d.Axes[0].Values); n != d.Data.Rows {
		return fmt.Errorf("%w: field axis has %d values, data %d rows", ErrDimensionMismatch, n, d.Data.Rows)
	}
	if d.Dims() == 2 {
		if n := len(d.Axes[1].Values); n != d.Data.Cols {
			return fmt.Errorf("%w: secondary axis has %d values, data %d columns", ErrDimensionMismatch, n, d.Data.Cols)
		}
	}
	return nil
}
