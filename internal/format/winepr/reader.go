package winepr

import (
	"fmt"
	"os"

	"github.com/robert-malhotra/go-epr/internal/axis"
	"github.com/robert-malhotra/go-epr/internal/dtype"
	"github.com/robert-malhotra/go-epr/internal/format"
	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// File extensions of a WinEPR file pair.
const (
	ParameterExt = ".par"
	DataExt      = ".spc"
)

// Encoding hypotheses, tried in this order.
var (
	emxEncoding = dtype.Float32LE
	espEncoding = dtype.Int32BE
)

var rules = []metadata.Rule{
	metadata.MoveItem("", "JON", "/"+format.General, "operator"),
	metadata.CombineItems("", []string{"JDA", "JTM"}, "date", " "),
	metadata.MoveItem("", "date", "/"+format.General, "date"),
	metadata.MoveItem("", "JCO", "/"+format.General, "comment"),
	metadata.MoveItem("", "JEX", "/"+format.Experiment, "type"),
	metadata.MoveItem("", "MF", "/"+format.Bridge, "mw_frequency"),
	metadata.MoveItem("", "MP", "/"+format.Bridge, "power"),
	metadata.MoveItem("", "RMA", "/"+format.SignalChannel, "modulation_amplitude"),
	metadata.MoveItem("", "RMF", "/"+format.SignalChannel, "modulation_frequency"),
	metadata.MoveItem("", "RRG", "/"+format.SignalChannel, "receiver_gain"),
	metadata.MoveItem("", "RCT", "/"+format.SignalChannel, "conversion_time"),
	metadata.MoveItem("", "RTC", "/"+format.SignalChannel, "time_constant"),
	metadata.MoveItem("", "RPH", "/"+format.SignalChannel, "phase"),
	metadata.MoveItem("", "RHA", "/"+format.Experiment, "harmonic"),
	metadata.MoveItem("", "JNS", "/"+format.SignalChannel, "accumulations"),
	metadata.MoveItem("", "TE", "/"+format.TemperatureControl, "temperature"),
}

var units = map[string]string{
	format.Path(format.Bridge, "mw_frequency"):                "GHz",
	format.Path(format.Bridge, "power"):                       "mW",
	format.Path(format.SignalChannel, "modulation_amplitude"): "G",
	format.Path(format.SignalChannel, "modulation_frequency"): "kHz",
	format.Path(format.SignalChannel, "conversion_time"):      "ms",
	format.Path(format.SignalChannel, "time_constant"):        "ms",
	format.Path(format.SignalChannel, "phase"):                "deg",
	format.Path(format.TemperatureControl, "temperature"):     "K",
}

// Read imports the WinEPR file pair at stem.
func Read(stem string, opts format.Options) (*format.Trace, error) {
	log := opts.Log().With("format", "winepr", "stem", stem)

	text, err := os.ReadFile(stem + ParameterExt)
	if err != nil {
		return nil, fmt.Errorf("reading parameters: %w", err)
	}
	params := ParsePar(string(text))

	raw, err := os.ReadFile(stem + DataExt)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	values, enc, err := dtype.DecodeWithFallback(raw, emxEncoding, espEncoding, dtype.LegacyBand)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", stem+DataExt, err)
	}
	if enc != emxEncoding {
		log.Debug("float32 hypothesis implausible, using int32", "encoding", enc.String())
	}

	tr := format.NewTrace(values)
	tr.Encoding = enc.String()

	xpts, ypts := shape(params, len(values))
	if xpts*ypts != len(values) {
		return nil, fmt.Errorf("%w: %s declares %dx%d points, data holds %d",
			format.ErrCorrupt, stem+ParameterExt, xpts, ypts, len(values))
	}
	if ypts > 1 {
		m, err := dtype.Reshape(values, xpts, ypts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", format.ErrCorrupt, err)
		}
		tr.SetMatrix(m)
		tr.Secondary = secondaryAxis(params, ypts)
	}

	tr.Metadata = params
	if err := fieldRange(tr, params, xpts); err != nil {
		return nil, err
	}
	metadata.Apply(tr.Metadata, rules)
	format.AttachUnits(tr.Metadata, units)

	return tr, tr.Validate()
}

// shape returns the declared primary and secondary point counts. 2-D files
// declare SSX and SSY; 1-D files declare RES or ANZ. Without any of these the
// data length is taken as the point count.
func shape(params *metadata.Node, n int) (int, int) {
	ssx, okx := number(params, "SSX")
	ssy, oky := number(params, "SSY")
	if okx && oky && ssy > 1 {
		return int(ssx), int(ssy)
	}
	for _, key := range []string{"RES", "ANZ"} {
		if v, ok := number(params, key); ok && v > 0 {
			return int(v), 1
		}
	}
	return n, 1
}

// fieldRange stores the field start and sweep width. EMX records centre and
// width (HCF/HSW), ESP start and width (GST/GSI); 2-D files may only carry
// the XXLB/XXWI axis labels.
func fieldRange(tr *format.Trace, params *metadata.Node, points int) error {
	unit := "G"
	if n, ok := params.Get("JUN"); ok && n.Text() != "" {
		unit = n.Text()
	}

	var start, width float64
	if center, ok := number(params, "HCF"); ok {
		w, ok := number(params, "HSW")
		if !ok {
			return fmt.Errorf("%w: HCF without HSW", format.ErrCorrupt)
		}
		start, width = center-w/2, w
	} else if gst, ok := number(params, "GST"); ok {
		w, ok := number(params, "GSI")
		if !ok {
			return fmt.Errorf("%w: GST without GSI", format.ErrCorrupt)
		}
		start, width = gst, w
	} else if xxlb, ok := number(params, "XXLB"); ok {
		start = xxlb
		width, _ = number(params, "XXWI")
	} else {
		return fmt.Errorf("%w: no field range (HCF, GST or XXLB)", format.ErrCorrupt)
	}

	tr.SetQuantity(format.MagneticField, "field_min", axis.Q(start, unit))
	tr.SetQuantity(format.MagneticField, "sweep_width", axis.Q(width, unit))
	tr.Metadata.SetPath(format.Path(format.MagneticField, "step_count"), metadata.Number(float64(points)))
	return nil
}

func secondaryAxis(params *metadata.Node, ypts int) *format.Secondary {
	start, _ := number(params, "XYLB")
	width, _ := number(params, "XYWI")
	sec := &format.Secondary{Values: axis.Linspace(start, start+width, ypts)}
	if n, ok := params.Get("XYUN"); ok {
		sec.Unit = n.Text()
	}
	if n, ok := params.Get("XYNA"); ok {
		sec.Quantity = n.Text()
	}
	return sec
}

func number(params *metadata.Node, key string) (float64, bool) {
	n, ok := params.Get(key)
	if !ok {
		return 0, false
	}
	return n.Float()
}
