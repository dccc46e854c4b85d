package bes3t

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/robert-malhotra/go-epr/internal/axis"
	"github.com/robert-malhotra/go-epr/internal/dtype"
	"github.com/robert-malhotra/go-epr/internal/format"
	"github.com/robert-malhotra/go-epr/internal/metadata"
	"github.com/robert-malhotra/go-epr/internal/pathutil"
)

// File extensions of a BES3T file set.
const (
	DescriptorExt = ".DSC"
	DataExt       = ".DTA"
	SecondaryExt  = ".YGF"
)

// mappingRules maps descriptor keys into the unified schema. Device-layer
// rules come after standard-layer rules so that device values win where both
// exist. The inline variant keeps every key at the root.
func mappingRules(layered bool) []metadata.Rule {
	spl, dev := "", func(string) string { return "" }
	if layered {
		spl = LayerStandard
		dev = func(name string) string { return LayerDevice + "/" + name }
	}
	to := func(section string) string { return "/" + section }

	return []metadata.Rule{
		metadata.MoveItem(spl, "OPER", to(format.General), "operator"),
		metadata.CombineItems(spl, []string{"DATE", "TIME"}, "date", " "),
		metadata.MoveItem(spl, "date", to(format.General), "date"),
		metadata.MoveItem(spl, "CMNT", to(format.General), "comment"),
		metadata.MoveItem(spl, "SAMP", to(format.Sample), "name"),
		metadata.MoveItem(spl, "SFOR", to(format.Sample), "description"),
		metadata.MoveItem(spl, "EXPT", to(format.Experiment), "type"),
		metadata.MoveItem(spl, "AVGS", to(format.Experiment), "runs"),
		metadata.MoveItem(spl, "RCHM", to(format.Experiment), "harmonic"),
		metadata.MoveItem(spl, "MWFQ", to(format.Bridge), "mw_frequency"),
		metadata.MoveItem(spl, "MWPW", to(format.Bridge), "power"),
		metadata.MoveItem(spl, "B0MF", to(format.SignalChannel), "modulation_frequency"),
		metadata.MoveItem(spl, "RCAG", to(format.SignalChannel), "receiver_gain"),
		metadata.MoveItem(spl, "RCTC", to(format.SignalChannel), "time_constant"),
		metadata.MoveItem(spl, "SPTP", to(format.SignalChannel), "conversion_time"),
		metadata.MoveItem(spl, "RCPH", to(format.SignalChannel), "phase"),

		metadata.MoveItem(dev("fieldCtrl"), "SweepWidth", to(format.MagneticField), "sweep_width"),
		metadata.MoveItem(dev("fieldCtrl"), "SweepDirection", to(format.MagneticField), "sequence"),
		metadata.MoveItem(dev("mwBridge"), "PowerAtten", to(format.Bridge), "attenuation"),
		metadata.MoveItem(dev("mwBridge"), "Power", to(format.Bridge), "power"),
		metadata.MoveItem(dev("mwBridge"), "QValue", to(format.Bridge), "q_value"),
		metadata.MoveItem(dev("signalChannel"), "ModAmp", to(format.SignalChannel), "modulation_amplitude"),
		metadata.MoveItem(dev("signalChannel"), "ModFreq", to(format.SignalChannel), "modulation_frequency"),
		metadata.MoveItem(dev("signalChannel"), "ConvTime", to(format.SignalChannel), "conversion_time"),
		metadata.MoveItem(dev("signalChannel"), "TimeConst", to(format.SignalChannel), "time_constant"),
		metadata.MoveItem(dev("signalChannel"), "ModPhase", to(format.SignalChannel), "phase"),
		metadata.MoveItem(dev("signalChannel"), "NbScansDone", to(format.SignalChannel), "accumulations"),
		metadata.MoveItem(dev("signalChannel"), "Harmonic", to(format.Experiment), "harmonic"),
		metadata.MoveItem(dev("tempCtrl"), "Temperature", to(format.TemperatureControl), "temperature"),
	}
}

// units attaches units to unit-less standard-layer values once mapped.
var units = map[string]string{
	format.Path(format.Bridge, "mw_frequency"):                "Hz",
	format.Path(format.Bridge, "power"):                       "W",
	format.Path(format.Bridge, "attenuation"):                 "dB",
	format.Path(format.SignalChannel, "modulation_frequency"): "Hz",
	format.Path(format.SignalChannel, "modulation_amplitude"): "G",
	format.Path(format.SignalChannel, "time_constant"):        "s",
	format.Path(format.SignalChannel, "conversion_time"):      "s",
	format.Path(format.SignalChannel, "phase"):                "deg",
	format.Path(format.MagneticField, "sweep_width"):          "G",
	format.Path(format.TemperatureControl, "temperature"):     "K",
}

// Read imports the BES3T file set at stem.
func Read(stem string, opts format.Options) (*format.Trace, error) {
	log := opts.Log().With("format", "bes3t", "stem", stem)

	text, err := os.ReadFile(stem + DescriptorExt)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	desc, err := ParseDescriptor(string(text))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", stem+DescriptorExt, err)
	}

	enc, err := encoding(desc)
	if err != nil {
		return nil, err
	}

	xpts, ok := desc.Int("XPTS")
	if !ok || xpts <= 0 {
		return nil, fmt.Errorf("%w: XPTS missing or invalid", format.ErrCorrupt)
	}
	ypts := 1
	if desc.Text("YTYP") != "" && desc.Text("YTYP") != "NODATA" {
		if ypts, ok = desc.Int("YPTS"); !ok || ypts <= 0 {
			return nil, fmt.Errorf("%w: YPTS missing or invalid", format.ErrCorrupt)
		}
	}

	raw, err := os.ReadFile(stem + DataExt)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	values, err := decodeData(raw, enc, desc.Text("IKKF"), xpts*ypts)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", stem+DataExt, err)
	}
	log.Debug("decoded data", "encoding", enc.String(), "xpts", xpts, "ypts", ypts)

	tr := format.NewTrace(values)
	tr.Encoding = enc.String()
	tr.StepCorrected = true
	if ypts > 1 {
		m, err := dtype.Reshape(values, xpts, ypts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", format.ErrCorrupt, err)
		}
		tr.SetMatrix(m)
		if tr.Secondary, err = secondaryAxis(stem, desc, enc.Order, ypts); err != nil {
			return nil, err
		}
	}

	tr.Metadata = desc.Tree
	metadata.Apply(tr.Metadata, mappingRules(desc.Layered))
	format.AttachUnits(tr.Metadata, units)
	if err := fieldRange(tr, desc, xpts); err != nil {
		return nil, err
	}
	if title := desc.Text("TITL"); title != "" {
		tr.SetText(format.General, "title", title)
	}

	return tr, tr.Validate()
}

// encoding derives the element encoding from BSEQ and IRFMT.
func encoding(desc *Descriptor) (dtype.Encoding, error) {
	var order binary.ByteOrder
	switch desc.Text("BSEQ") {
	case "BIG", "":
		order = binary.BigEndian
	case "LIT":
		order = binary.LittleEndian
	default:
		return dtype.Encoding{}, fmt.Errorf("%w: byte order %q", format.ErrUnsupported, desc.Text("BSEQ"))
	}

	irfmt := desc.Text("IRFMT")
	irfmt, _, _ = strings.Cut(irfmt, ",")
	var kind dtype.Kind
	switch strings.TrimSpace(irfmt) {
	case "D", "":
		kind = dtype.Float64
	case "F":
		kind = dtype.Float32
	case "I":
		kind = dtype.Int32
	case "S":
		kind = dtype.Int16
	case "C":
		kind = dtype.Int8
	default:
		return dtype.Encoding{}, fmt.Errorf("%w: item format %q", format.ErrUnsupported, irfmt)
	}
	return dtype.Encoding{Kind: kind, Order: order}, nil
}

// decodeData decodes n values. Complex data holds interleaved real and
// imaginary parts; only the real channel is kept.
func decodeData(raw []byte, enc dtype.Encoding, ikkf string, n int) ([]float64, error) {
	ikkf, _, _ = strings.Cut(ikkf, ",")
	switch strings.TrimSpace(ikkf) {
	case "REAL", "":
		return dtype.DecodeN(raw, enc, n)
	case "CPLX":
		values, err := dtype.DecodeN(raw, enc, 2*n)
		if err != nil {
			return nil, err
		}
		re := make([]float64, n)
		for i := range re {
			re[i] = values[2*i]
		}
		return re, nil
	default:
		return nil, fmt.Errorf("%w: IKKF %q", format.ErrUnsupported, ikkf)
	}
}

// secondaryAxis reads the .YGF file for IGD axes, or builds a linear axis.
func secondaryAxis(stem string, desc *Descriptor, order binary.ByteOrder, ypts int) (*format.Secondary, error) {
	sec := &format.Secondary{
		Quantity: desc.Text("YNAM"),
		Unit:     desc.Text("YUNI"),
	}

	if desc.Text("YTYP") == "IGD" && pathutil.IsFile(stem+SecondaryExt) {
		raw, err := os.ReadFile(stem + SecondaryExt)
		if err != nil {
			return nil, fmt.Errorf("reading secondary axis: %w", err)
		}
		values, err := dtype.DecodeN(raw, dtype.Encoding{Kind: dtype.Float64, Order: order}, ypts)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", stem+SecondaryExt, err)
		}
		sec.Values = values
		return sec, nil
	}

	ymin, _ := desc.Float("YMIN")
	ywid, _ := desc.Float("YWID")
	sec.Values = axis.Linspace(ymin, ymin+ywid, ypts)
	return sec, nil
}

// fieldRange stores the sweep start, width and point count in the
// magnetic_field section. The device layer's centre field and sweep width
// take precedence over XMIN/XWID.
func fieldRange(tr *format.Trace, desc *Descriptor, points int) error {
	tr.Metadata.SetPath(format.Path(format.MagneticField, "step_count"), metadata.Number(float64(points)))

	sweepPath := format.Path(format.MagneticField, "sweep_width")
	if sw, ok := tr.Metadata.Lookup(sweepPath); ok {
		if center, ok := desc.DeviceValue("fieldCtrl", "CenterField"); ok {
			c, err := center.Quantity("G")
			if err != nil {
				return fmt.Errorf("%w: CenterField: %v", format.ErrCorrupt, err)
			}
			w, err := sw.Quantity("G")
			if err != nil {
				return fmt.Errorf("%w: SweepWidth: %v", format.ErrCorrupt, err)
			}
			start, err := c.Sub(w.Scale(0.5))
			if err != nil {
				return err
			}
			tr.SetQuantity(format.MagneticField, "field_min", start)
			return nil
		}
	}

	xmin, ok := desc.Float("XMIN")
	if !ok {
		return fmt.Errorf("%w: neither CenterField nor XMIN present", format.ErrCorrupt)
	}
	xwid, _ := desc.Float("XWID")
	unit := desc.Text("XUNI")
	if unit == "" {
		unit = "G"
	}
	tr.SetQuantity(format.MagneticField, "field_min", axis.Q(xmin, unit))
	tr.SetQuantity(format.MagneticField, "sweep_width", axis.Q(xwid, unit))
	return nil
}
