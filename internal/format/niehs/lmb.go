// Package niehs reads the spectrum files of the NIEHS PEST WinSim suite:
// packed binary records (.lmb, .sim) and two text layouts (.exp, .dat).
package niehs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/robert-malhotra/go-epr/internal/axis"
	bin "github.com/robert-malhotra/go-epr/internal/binary"
	"github.com/robert-malhotra/go-epr/internal/format"
	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// File extensions of the packed binary records.
const (
	LMBExt = ".lmb"
	SimExt = ".sim"
)

// Record variants, identified by the leading magic string.
const (
	MagicESRS = "ESRS"
	MagicESR2 = "ESR2"
)

// Record layout.
const (
	magicSize    = 4
	paramCount   = 20
	commentSize  = 60
	labelSize    = 12
	extraComment = 2
)

// Parameter slots with a fixed meaning.
const (
	paramCenterField = 0
	paramSweepWidth  = 1
	paramPoints      = 2
	paramFrequency   = 3
)

// Record is a decoded lmb/sim file.
type Record struct {
	Magic    string
	Params   [paramCount]float64
	Samples  []float64
	Comment  string
	Labels   [paramCount]string
	Comments []string // ESR2 only
}

// ReadLMB imports stem.lmb.
func ReadLMB(stem string, opts format.Options) (*format.Trace, error) {
	return readPacked(stem+LMBExt, opts)
}

// ReadSim imports stem.sim.
func ReadSim(stem string, opts format.Options) (*format.Trace, error) {
	return readPacked(stem+SimExt, opts)
}

func readPacked(path string, opts format.Options) (*format.Trace, error) {
	log := opts.Log().With("format", "niehs", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	rec, err := DecodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	log.Debug("decoded record", "magic", rec.Magic, "points", len(rec.Samples))

	tr := format.NewTrace(rec.Samples)
	tr.Encoding = "float32 little-endian"

	center := rec.Params[paramCenterField]
	width := rec.Params[paramSweepWidth]
	tr.SetQuantity(format.MagneticField, "field_min", axis.Q(center-width/2, "G"))
	tr.SetQuantity(format.MagneticField, "sweep_width", axis.Q(width, "G"))
	tr.Metadata.SetPath(format.Path(format.MagneticField, "step_count"), metadata.Number(float64(len(rec.Samples))))
	if f := rec.Params[paramFrequency]; f > 0 {
		tr.SetQuantity(format.Bridge, "mw_frequency", axis.Q(f, "GHz"))
	}
	if rec.Comment != "" {
		tr.SetText(format.General, "comment", rec.Comment)
	}

	params := metadata.NewMapping()
	for i, v := range rec.Params {
		label := rec.Labels[i]
		if label == "" {
			label = "param_" + strconv.Itoa(i)
		}
		params.SetNumber(label, v)
	}
	tr.Metadata.Set("parameters", params)

	for _, c := range rec.Comments {
		if c != "" {
			tr.Annotations = append(tr.Annotations, c)
		}
	}
	return tr, tr.Validate()
}

// DecodeRecord decodes a packed record. The layout is read strictly in order
// and must consume the buffer exactly.
func DecodeRecord(data []byte) (*Record, error) {
	r := bin.FromBytes(data, binary.LittleEndian)

	magic, err := r.ReadString(magicSize)
	if err != nil {
		return nil, corrupt("magic", err)
	}
	if magic != MagicESRS && magic != MagicESR2 {
		return nil, fmt.Errorf("%w: magic %q", format.ErrUnsupported, magic)
	}
	rec := &Record{Magic: magic}

	params, err := r.ReadFloat32s(paramCount)
	if err != nil {
		return nil, corrupt("parameters", err)
	}
	copy(rec.Params[:], params)

	n := rec.Params[paramPoints]
	if n <= 0 || n != float64(int(n)) {
		return nil, fmt.Errorf("%w: point count %g", format.ErrCorrupt, n)
	}
	if rec.Samples, err = r.ReadFloat32s(int(n)); err != nil {
		return nil, corrupt("samples", err)
	}

	if rec.Comment, err = r.ReadString(commentSize); err != nil {
		return nil, corrupt("comment", err)
	}
	for i := range rec.Labels {
		if rec.Labels[i], err = r.ReadString(labelSize); err != nil {
			return nil, corrupt("labels", err)
		}
	}

	if magic == MagicESR2 {
		for i := 0; i < extraComment; i++ {
			c, err := r.ReadString(commentSize)
			if err != nil {
				return nil, corrupt("extended comments", err)
			}
			rec.Comments = append(rec.Comments, c)
		}
	}

	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after %s record", format.ErrCorrupt, r.Remaining(), magic)
	}
	return rec, nil
}

func corrupt(section string, err error) error {
	if errors.Is(err, bin.ErrTruncated) {
		return fmt.Errorf("%w: %s: %v", format.ErrCorrupt, section, err)
	}
	return err
}
