package niehs

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-epr/internal/axis"
	"github.com/robert-malhotra/go-epr/internal/format"
	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// File extensions of the text layouts.
const (
	ExpExt = ".exp"
	DatExt = ".dat"
)

// dataMarker ends the bracketed header of an .exp file.
const dataMarker = "[DATA]"

// datHeaderLines is the size of the numeric .dat header: centre field (G),
// sweep width (G), point count, microwave frequency (GHz).
const datHeaderLines = 4

// ReadExp imports stem.exp: field/intensity columns, optionally preceded by
// a bracketed header that ends at [DATA].
func ReadExp(stem string, opts format.Options) (*format.Trace, error) {
	path := stem + ExpExt
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	header, body, err := SplitExpHeader(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	field, data, err := format.ParseColumns(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	opts.Log().Debug("parsed exp file", "path", path, "header_lines", len(header), "points", len(data))

	tr := format.NewTrace(data)
	tr.Field = field
	tr.FieldUnit = "G"
	if len(header) > 0 {
		tr.Annotations = append(tr.Annotations, strings.Join(header, "\n"))
		if h := headerValues(header); h.Len() > 0 {
			tr.Metadata.Set("header", h)
		}
	}
	tr.Metadata.SetPath(format.Path(format.MagneticField, "step_count"), metadata.Number(float64(len(field))))
	return tr, tr.Validate()
}

// SplitExpHeader separates the bracketed header from the data. When the
// first non-blank line does not start with '[' the whole text is data.
// A bracketed header without [DATA] is an error.
func SplitExpHeader(text string) ([]string, string, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	first := 0
	for first < len(lines) && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	if first == len(lines) || !strings.HasPrefix(strings.TrimSpace(lines[first]), "[") {
		return nil, text, nil
	}

	for i := first; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == dataMarker {
			return lines[first : i+1], strings.Join(lines[i+1:], "\n"), nil
		}
	}
	return nil, "", fmt.Errorf("%w: header without %s marker", format.ErrCorrupt, dataMarker)
}

// headerValues collects key=value lines of the header.
func headerValues(header []string) *metadata.Node {
	out := metadata.NewMapping()
	for _, line := range header {
		k, v, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(k) == "" {
			continue
		}
		out.Set(strings.TrimSpace(k), metadata.Coerce(strings.TrimSpace(v)))
	}
	return out
}

// ReadDat imports stem.dat: a four-line numeric header followed by one
// intensity per line.
func ReadDat(stem string, opts format.Options) (*format.Trace, error) {
	path := stem + DatExt
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var header []float64
	var data []float64
	sc := bufio.NewScanner(bytes.NewReader(raw))
	line := 0
	for sc.Scan() {
		line++
		t := strings.TrimSpace(sc.Text())
		if t == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.Fields(t)[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d is not numeric: %q", format.ErrCorrupt, path, line, t)
		}
		if len(header) < datHeaderLines {
			header = append(header, v)
			continue
		}
		data = append(data, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(header) < datHeaderLines {
		return nil, fmt.Errorf("%w: %s header has %d of %d lines", format.ErrCorrupt, path, len(header), datHeaderLines)
	}

	center, width, points, freq := header[0], header[1], int(header[2]), header[3]
	if points != len(data) {
		return nil, fmt.Errorf("%w: %s declares %d points, holds %d", format.ErrCorrupt, path, points, len(data))
	}
	opts.Log().Debug("parsed dat file", "path", path, "points", points)

	tr := format.NewTrace(data)
	tr.SetQuantity(format.MagneticField, "field_min", axis.Q(center-width/2, "G"))
	tr.SetQuantity(format.MagneticField, "sweep_width", axis.Q(width, "G"))
	tr.Metadata.SetPath(format.Path(format.MagneticField, "step_count"), metadata.Number(float64(points)))
	if freq > 0 {
		tr.SetQuantity(format.Bridge, "mw_frequency", axis.Q(freq, "GHz"))
	}
	return tr, tr.Validate()
}
