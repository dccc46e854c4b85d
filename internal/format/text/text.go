// Package text reads plain two-column spectra: field in the first column,
// intensity in the second. The files do not record units, so the field unit
// comes from the import options.
package text

import (
	"fmt"
	"os"

	"github.com/robert-malhotra/go-epr/internal/format"
	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// File extensions.
const (
	TxtExt = ".txt"
	CSVExt = ".csv"
)

// DefaultAxisUnit is assumed when the options name no unit.
const DefaultAxisUnit = "mT"

// ReadTxt imports stem.txt.
func ReadTxt(stem string, opts format.Options) (*format.Trace, error) {
	return read(stem+TxtExt, opts)
}

// ReadCSV imports stem.csv.
func ReadCSV(stem string, opts format.Options) (*format.Trace, error) {
	return read(stem+CSVExt, opts)
}

func read(path string, opts format.Options) (*format.Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	field, data, err := format.ParseColumns(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	tr := format.NewTrace(data)
	tr.Field = field
	tr.FieldUnit = opts.Unit(DefaultAxisUnit)
	tr.Metadata.SetPath(format.Path(format.MagneticField, "step_count"), metadata.Number(float64(len(field))))
	opts.Log().Debug("parsed text spectrum", "path", path, "points", len(data), "unit", tr.FieldUnit)
	return tr, tr.Validate()
}
