// Package epr imports continuous-wave EPR spectra from the file formats of
// several spectrometer vendors into a single Dataset representation.
package epr

import (
	"errors"
	"fmt"
	"os"

	"github.com/robert-malhotra/go-epr/internal/axis"
	"github.com/robert-malhotra/go-epr/internal/binary"
	"github.com/robert-malhotra/go-epr/internal/dtype"
	"github.com/robert-malhotra/go-epr/internal/format"
)

// Error kinds returned at the import boundary. Use errors.Is to test for them.
var (
	ErrUnsupportedFormat  = errors.New("unsupported data format")
	ErrNoMatchingFilePair = errors.New("no matching file pair")
	ErrMissingInfoFile    = errors.New("missing info file")
	ErrMissingPath        = errors.New("missing path")
	ErrExperimentType     = errors.New("experiment type is not cw")
	ErrDimensionMismatch  = errors.New("dimension mismatch")
	ErrUnequalUnits       = errors.New("unequal units")
	ErrCorruptData        = errors.New("corrupt data")
	ErrAxisDeterminacy    = errors.New("axis is under- or overdetermined")
)

// codes are stable identifiers for the error kinds.
var codes = map[error]string{
	ErrUnsupportedFormat:  "unsupported_format",
	ErrNoMatchingFilePair: "no_matching_file_pair",
	ErrMissingInfoFile:    "missing_info_file",
	ErrMissingPath:        "missing_path",
	ErrExperimentType:     "experiment_type",
	ErrDimensionMismatch:  "dimension_mismatch",
	ErrUnequalUnits:       "unequal_units",
	ErrCorruptData:        "corrupt_data",
	ErrAxisDeterminacy:    "axis_determinacy",
}

// Error describes a failed import.
type Error struct {
	Kind error  // one of the Err* values above
	Path string // path or stem the import was attempted for
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("epr: %s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("epr: %s: %v: %v", e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Code returns the stable identifier of the error kind.
func (e *Error) Code() string {
	return codes[e.Kind]
}

// Code returns the identifier of the first *Error in err's chain, or "" if
// there is none.
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return ""
}

func newError(kind error, path string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Err: cause}
}

// classify wraps an error from the format readers or the axis code into an
// *Error of the matching kind. Errors that already are *Error pass through.
func classify(path string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	var kind error
	switch {
	case errors.Is(err, format.ErrExperimentType):
		kind = ErrExperimentType
	case errors.Is(err, format.ErrUnsupported):
		kind = ErrUnsupportedFormat
	case errors.Is(err, format.ErrCorrupt),
		errors.Is(err, dtype.ErrSizeMismatch),
		errors.Is(err, binary.ErrTruncated),
		errors.Is(err, axis.ErrInvalidValue):
		kind = ErrCorruptData
	case errors.Is(err, axis.ErrUnequalUnits):
		kind = ErrUnequalUnits
	case errors.Is(err, axis.ErrUnderdetermined), errors.Is(err, axis.ErrInconsistent):
		kind = ErrAxisDeterminacy
	case errors.Is(err, os.ErrNotExist):
		kind = ErrMissingPath
	default:
		return fmt.Errorf("epr: %s: %w", path, err)
	}
	return newError(kind, path, err)
}
