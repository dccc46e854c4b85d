package epr

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/robert-malhotra/go-epr/internal/axis"
)

// fullCircle is the angle normalised to zero.
const fullCircle = 360

// angleAfterMarker finds the first number following the goniometer marker.
var (
	angleAfterMarker = regexp.MustCompile(goniometerMarker + `\D*?(\d+(?:\.\d+)?)`)
	anyNumber        = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

type angleFile struct {
	stem  string
	angle float64
}

// importGoniometer imports every spectrum of a goniometer sweep directory and
// stacks them into a 2-D dataset indexed by (field, angle). Spectra are
// ordered by the angle embedded in their file names. Each spectrum's field
// axis is scaled to the microwave frequency of the first spectrum and then
// resampled onto the first spectrum's field axis.
func importGoniometer(dir string, o *importOptions) (*Dataset, error) {
	log := o.logger.With("format", string(Goniometer), "dir", dir)

	files, err := goniometerFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, newError(ErrUnsupportedFormat, dir, fmt.Errorf("no spectra found"))
	}

	spectra := make([]*Dataset, len(files))
	for i, f := range files {
		imp, stem, err := detect(f.stem)
		if err != nil {
			return nil, err
		}
		if spectra[i], err = importFile(imp, stem, o); err != nil {
			return nil, err
		}
		if spectra[i].Dims() != 1 {
			return nil, newError(ErrDimensionMismatch, stem, fmt.Errorf("goniometer spectra must be 1-D"))
		}
		log.Debug("imported angle", "angle", f.angle, "stem", stem)
	}

	ref := spectra[0]
	refField := ref.Field()
	refFreq := ref.Metadata.Bridge.MWFrequency
	out := NewMatrix(len(refField.Values), len(spectra))
	angles := make([]float64, len(spectra))

	for j, s := range spectra {
		angles[j] = files[j].angle
		field := s.Field()
		if field.Unit != refField.Unit {
			return nil, newError(ErrUnequalUnits, s.Source,
				fmt.Errorf("field axis in %q, first spectrum in %q", field.Unit, refField.Unit))
		}

		x, err := correctFrequency(field.Values, s.Metadata.Bridge.MWFrequency, refFreq)
		if err != nil {
			return nil, classify(s.Source, err)
		}
		y, err := axis.Interpolate(x, s.Data.Column(0), refField.Values)
		if err != nil {
			return nil, classify(s.Source, err)
		}
		for i, v := range y {
			out.Set(i, j, v)
		}
	}

	ds := &Dataset{
		Source:    dir,
		Format:    Goniometer,
		Data:      out,
		Metadata:  ref.Metadata,
		Vendor:    ref.Vendor,
		Overrides: ref.Overrides,
		Axes: []Axis{
			refField,
			{Quantity: "goniometer angle", Unit: "deg", Values: angles},
			{Quantity: "intensity"},
		},
	}
	for _, s := range spectra {
		ds.Annotations = append(ds.Annotations, s.Annotations...)
	}
	if err := ds.Validate(); err != nil {
		return nil, classify(dir, err)
	}
	return ds, nil
}

// correctFrequency scales a field axis recorded at freq to the field at which
// the same resonances appear at ref. Missing frequencies leave the axis as is.
func correctFrequency(field []float64, freq, ref axis.Quantity) ([]float64, error) {
	if !freq.IsSet() || !ref.IsSet() || freq.Value == 0 {
		return field, nil
	}
	ratio, err := ref.Ratio(freq)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(field))
	for i, v := range field {
		out[i] = v * ratio
	}
	return out, nil
}

// goniometerFiles lists the distinct file stems in dir sorted by angle.
func goniometerFiles(dir string) ([]angleFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, newError(ErrMissingPath, dir, err)
	}

	seen := map[string]bool{}
	var files []angleFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem := StripExtension(filepath.Join(dir, e.Name()))
		if seen[stem] {
			continue
		}
		seen[stem] = true

		angle, ok := ParseAngle(filepath.Base(stem))
		if !ok {
			return nil, newError(ErrUnsupportedFormat, stem, fmt.Errorf("no angle in file name"))
		}
		files = append(files, angleFile{stem: stem, angle: angle})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].angle < files[j].angle
	})
	return files, nil
}

// ParseAngle extracts the goniometer angle from a file name: the first
// number after "gon", or the first number anywhere. Angles of 360 degrees or
// more are reported as 0.
func ParseAngle(name string) (float64, bool) {
	var s string
	if m := angleAfterMarker.FindStringSubmatch(name); m != nil {
		s = m[1]
	} else if m := anyNumber.FindString(name); m != "" {
		s = m
	} else {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if v >= fullCircle {
		v = 0
	}
	return v, true
}
