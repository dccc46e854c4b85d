package magnettech

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/robert-malhotra/go-epr/internal/axis"
	"github.com/robert-malhotra/go-epr/internal/format"
	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// Ext is the extension of a Magnettech recording.
const Ext = ".xml"

// Curve types.
const (
	CurveAbsorption = "MW_Absorption"
	CurveField      = "BField"
)

type recording struct {
	XMLName      xml.Name      `xml:"ESRXmlFile"`
	Measurements []measurement `xml:"Data>Measurement"`
}

type measurement struct {
	Name      string  `xml:"Name,attr"`
	Timestamp string  `xml:"TimeStamp,attr"`
	Params    []param `xml:"Param"`
	Curves    []curve `xml:"Curves>Curve"`
}

type param struct {
	Name  string `xml:"Name,attr"`
	Unit  string `xml:"Unit,attr"`
	Value string `xml:",chardata"`
}

type curve struct {
	YType   string  `xml:"YType,attr"`
	XOffset float64 `xml:"XOffset,attr"`
	XSlope  float64 `xml:"XSlope,attr"`
	Payload string  `xml:",chardata"`
}

var rules = []metadata.Rule{
	metadata.MoveItem("", "Bfrom", "/"+format.MagneticField, "field_min"),
	metadata.MoveItem("", "Bto", "/"+format.MagneticField, "field_max"),
	metadata.MoveItem("", "BCenter", "/"+format.MagneticField, "field_center"),
	metadata.MoveItem("", "BSweep", "/"+format.MagneticField, "sweep_width"),
	metadata.MoveItem("", "SweepTime", "/"+format.MagneticField, "sweep_time"),
	metadata.MoveItem("", "MwFreq", "/"+format.Bridge, "mw_frequency"),
	metadata.MoveItem("", "Attenuation", "/"+format.Bridge, "attenuation"),
	metadata.MoveItem("", "Power", "/"+format.Bridge, "power"),
	metadata.MoveItem("", "Modulation", "/"+format.SignalChannel, "modulation_amplitude"),
	metadata.MoveItem("", "ModFreq", "/"+format.SignalChannel, "modulation_frequency"),
	metadata.MoveItem("", "Phase", "/"+format.SignalChannel, "phase"),
	metadata.MoveItem("", "Gain", "/"+format.SignalChannel, "receiver_gain"),
	metadata.MoveItem("", "Accumulations", "/"+format.SignalChannel, "accumulations"),
	metadata.MoveItem("", "Temperature", "/"+format.TemperatureControl, "temperature"),
	metadata.MoveItem("", "Operator", "/"+format.General, "operator"),
	metadata.MoveItem("", "Sample", "/"+format.Sample, "name"),
}

// Read imports the first absorption measurement of the recording at stem.
func Read(stem string, opts format.Options) (*format.Trace, error) {
	log := opts.Log().With("format", "magnettech", "stem", stem)

	f, err := os.Open(stem + Ext)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	var rec recording
	if err := xml.NewDecoder(f).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", format.ErrCorrupt, stem+Ext, err)
	}

	m, intensity, ok := absorption(rec)
	if !ok {
		return nil, fmt.Errorf("%w: %s holds no %s curve", format.ErrCorrupt, stem+Ext, CurveAbsorption)
	}
	log.Debug("selected measurement", "name", m.Name, "measurements", len(rec.Measurements))

	data, err := DecodePayload(intensity.Payload)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty %s curve", format.ErrCorrupt, CurveAbsorption)
	}

	params := parameters(m.Params)
	lo, hasLo := window(params, "Bfrom")
	hi, hasHi := window(params, "Bto")
	unit := "mT"
	if n, ok := params.Get("Bfrom"); ok {
		if q, err := n.Quantity("mT"); err == nil {
			unit = q.Unit
		}
	}

	field, err := fieldAxis(m, intensity, len(data))
	if err != nil {
		return nil, err
	}
	if field == nil {
		if !hasLo || !hasHi {
			return nil, fmt.Errorf("%w: no %s curve and no Bfrom/Bto", format.ErrCorrupt, CurveField)
		}
		field = axis.Linspace(lo, hi, len(data))
	} else if hasLo && hasHi {
		before := len(data)
		if field, data, err = axis.Window(field, data, lo, hi); err != nil {
			return nil, fmt.Errorf("%w: %v", format.ErrCorrupt, err)
		}
		log.Debug("applied field window", "from", lo, "to", hi, "kept", len(data), "of", before)
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: no samples inside field window (%g, %g)", format.ErrCorrupt, lo, hi)
		}
	}

	tr := format.NewTrace(data)
	tr.Field = field
	tr.FieldUnit = unit
	tr.Encoding = "base64 float64 little-endian"
	tr.Metadata = params
	metadata.Apply(tr.Metadata, rules)
	tr.Metadata.SetPath(format.Path(format.MagneticField, "step_count"), metadata.Number(float64(len(field))))
	if m.Name != "" {
		tr.SetText(format.General, "title", m.Name)
	}
	if m.Timestamp != "" {
		tr.SetText(format.General, "date", m.Timestamp)
	}

	return tr, tr.Validate()
}

// absorption returns the first measurement holding an absorption curve.
func absorption(rec recording) (measurement, curve, bool) {
	for _, m := range rec.Measurements {
		if c, ok := m.curve(CurveAbsorption); ok {
			return m, c, true
		}
	}
	return measurement{}, curve{}, false
}

func (m measurement) curve(ytype string) (curve, bool) {
	for _, c := range m.Curves {
		if c.YType == ytype {
			return c, true
		}
	}
	return curve{}, false
}

// fieldAxis resamples the sparse field-probe curve onto the sample positions
// of the intensity curve. Each curve maps index i to x = XOffset + XSlope*i.
// A nil result means the measurement has no field curve.
func fieldAxis(m measurement, intensity curve, n int) ([]float64, error) {
	fc, ok := m.curve(CurveField)
	if !ok {
		return nil, nil
	}
	probe, err := DecodePayload(fc.Payload)
	if err != nil {
		return nil, err
	}
	if len(probe) == 0 {
		return nil, nil
	}

	xp := axis.Calibrated(len(probe), fc.XOffset, slope(fc.XSlope))
	x := axis.Calibrated(n, intensity.XOffset, slope(intensity.XSlope))
	field, err := axis.Interpolate(xp, probe, x)
	if err != nil {
		return nil, fmt.Errorf("%w: resampling field: %v", format.ErrCorrupt, err)
	}
	return field, nil
}

// slope treats a missing calibration as unit spacing.
func slope(s float64) float64 {
	if s == 0 {
		return 1
	}
	return s
}

// parameters converts Param elements into a mapping. Numeric values with a
// unit become {value, unit}; everything else is kept as text.
func parameters(params []param) *metadata.Node {
	out := metadata.NewMapping()
	for _, p := range params {
		value := strings.TrimSpace(p.Value)
		if p.Unit != "" && metadata.IsNumeric(value) {
			q, err := axis.WithUnit(value, p.Unit)
			if err == nil {
				out.Set(p.Name, metadata.QuantityNode(q))
				continue
			}
		}
		out.Set(p.Name, metadata.Coerce(value))
	}
	return out
}

func window(params *metadata.Node, key string) (float64, bool) {
	n, ok := params.Get(key)
	if !ok {
		return 0, false
	}
	q, err := n.Quantity("")
	if err != nil {
		return 0, false
	}
	return q.Value, true
}
