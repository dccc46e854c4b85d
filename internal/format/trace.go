// Package format defines the result shared by the per-vendor importers in its
// subpackages and the section names of the unified metadata schema they map
// vendor keys into.
package format

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-epr/internal/axis"
	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// Errors shared by the importers.
var (
	// ErrCorrupt is returned when declared sizes disagree with the file contents.
	ErrCorrupt = errors.New("format: corrupt data")

	// ErrUnsupported is returned for recognised files in an unknown variant.
	ErrUnsupported = errors.New("format: unsupported variant")

	// ErrExperimentType is returned when a file does not hold a cw experiment.
	ErrExperimentType = errors.New("format: experiment type is not CW")
)

// Section names of the unified metadata schema.
const (
	General            = "general"
	Sample             = "sample"
	MagneticField      = "magnetic_field"
	Bridge             = "bridge"
	SignalChannel      = "signal_channel"
	Experiment         = "experiment"
	Spectrometer       = "spectrometer"
	TemperatureControl = "temperature_control"
	Probehead          = "probehead"
)

// Path joins a schema section and key into a metadata path.
func Path(section, key string) string {
	return "/" + section + "/" + key
}

// Secondary describes the second axis of 2-D data.
type Secondary struct {
	Values   []float64
	Quantity string
	Unit     string
}

// Trace is the outcome of decoding one vendor file set: the raw samples, the
// vendor metadata already mapped into the unified schema, and whatever axis
// information the format provides directly.
type Trace struct {
	// Samples holds the intensities primary-axis-major:
	// Samples[i*Columns+j] is field point i, secondary point j.
	Samples []float64
	Points  int
	Columns int

	// Field holds explicit primary axis values. When nil the axis is
	// reconstructed from the magnetic_field section of Metadata.
	Field     []float64
	FieldUnit string

	// StepCorrected selects the points-vs-steps corrected grid during axis
	// reconstruction.
	StepCorrected bool

	Secondary *Secondary

	Metadata    *metadata.Node
	Annotations []string

	// Encoding records how the binary payload was interpreted.
	Encoding string
}

// NewTrace returns a 1-D trace over samples.
func NewTrace(samples []float64) *Trace {
	return &Trace{
		Samples:  samples,
		Points:   len(samples),
		Columns:  1,
		Metadata: metadata.NewMapping(),
	}
}

// SetMatrix stores data indexed [primary][secondary].
func (t *Trace) SetMatrix(m [][]float64) {
	t.Points = len(m)
	t.Columns = 0
	if len(m) > 0 {
		t.Columns = len(m[0])
	}
	t.Samples = make([]float64, 0, t.Points*t.Columns)
	for _, row := range m {
		t.Samples = append(t.Samples, row...)
	}
}

// Validate checks the sample count against the declared shape.
func (t *Trace) Validate() error {
	if t.Points*t.Columns != len(t.Samples) {
		return fmt.Errorf("%w: %d samples for %dx%d points", ErrCorrupt, len(t.Samples), t.Points, t.Columns)
	}
	if t.Field != nil && len(t.Field) != t.Points {
		return fmt.Errorf("%w: field axis has %d values for %d points", ErrCorrupt, len(t.Field), t.Points)
	}
	if t.Secondary != nil && len(t.Secondary.Values) != t.Columns {
		return fmt.Errorf("%w: secondary axis has %d values for %d columns", ErrCorrupt, len(t.Secondary.Values), t.Columns)
	}
	return nil
}

// SetQuantity stores q under section/key as a {value, unit} mapping.
func (t *Trace) SetQuantity(section, key string, q axis.Quantity) {
	t.Metadata.SetPath(Path(section, key), metadata.QuantityNode(q))
}

// SetText stores a string value under section/key.
func (t *Trace) SetText(section, key, value string) {
	t.Metadata.SetPath(Path(section, key), metadata.String(value))
}
