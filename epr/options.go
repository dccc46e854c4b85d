package epr

import "github.com/robert-malhotra/go-epr/internal/logging"

// ImportOption configures an import.
type ImportOption func(*importOptions)

type importOptions struct {
	logger    *logging.Logger
	infoFile  string
	skipInfo  bool
	axisUnit  string
	normalize bool
}

func defaultImportOptions() *importOptions {
	return &importOptions{
		logger:    logging.Discard(),
		normalize: true,
	}
}

// WithLogger sets the logger used for diagnostics such as a missing info file
// or detected metadata overrides. Imports are silent by default.
func WithLogger(l *logging.Logger) ImportOption {
	return func(o *importOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithInfoFile reads the info file at path instead of <stem>.info. Unlike the
// implicit info file, an explicitly named one must exist.
func WithInfoFile(path string) ImportOption {
	return func(o *importOptions) {
		o.infoFile = path
	}
}

// WithoutInfoFile skips info file lookup.
func WithoutInfoFile() ImportOption {
	return func(o *importOptions) {
		o.skipInfo = true
	}
}

// WithTextAxisUnit sets the field unit of plain text and CSV spectra, which
// do not record one. The default is mT.
func WithTextAxisUnit(unit string) ImportOption {
	return func(o *importOptions) {
		o.axisUnit = unit
	}
}

// WithoutUnitNormalization keeps values in the units the files record
// instead of converting to mT, GHz, kHz and mW.
func WithoutUnitNormalization() ImportOption {
	return func(o *importOptions) {
		o.normalize = false
	}
}
