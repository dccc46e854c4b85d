package epr

import (
	"errors"
	"fmt"
	"os"

	"github.com/robert-malhotra/go-epr/internal/axis"
	"github.com/robert-malhotra/go-epr/internal/format"
	"github.com/robert-malhotra/go-epr/internal/infofile"
	"github.com/robert-malhotra/go-epr/internal/metadata"
	"github.com/robert-malhotra/go-epr/internal/pathutil"
)

// Import reads the dataset at path. path may be a file stem, the name of any
// file of a supported file set, or a goniometer sweep directory.
//
// Imports share no state and may run concurrently.
func Import(path string, opts ...ImportOption) (*Dataset, error) {
	o := defaultImportOptions()
	for _, opt := range opts {
		opt(o)
	}

	if pathutil.IsDir(path) {
		if !isGoniometerDir(path) {
			return nil, newError(ErrUnsupportedFormat, path, nil)
		}
		return importGoniometer(path, o)
	}

	imp, stem, err := detect(path)
	if err != nil {
		return nil, err
	}
	return importFile(imp, stem, o)
}

func importFile(imp importer, stem string, o *importOptions) (*Dataset, error) {
	log := o.logger.With("format", string(imp.format), "stem", stem)
	log.Debug("importing")

	tr, err := imp.read(stem, format.Options{Logger: log, AxisUnit: o.axisUnit})
	if err != nil {
		return nil, classify(stem, err)
	}

	ds := &Dataset{
		Source:      stem,
		Format:      imp.format,
		Annotations: tr.Annotations,
	}

	vendor := tr.Metadata
	if imp.infoFile && !o.skipInfo {
		info, err := readInfoFile(stem, o)
		if err != nil {
			return nil, err
		}
		if info != nil {
			var overrides metadata.OverrideLog
			vendor, overrides = metadata.Merge(info.Metadata, tr.Metadata)
			for _, entry := range overrides {
				log.Info("metadata override", "entry", entry)
			}
			ds.Overrides = overrides
			if info.Comment != "" {
				ds.Annotations = append(ds.Annotations, info.Comment)
			}
		}
	}
	ds.Vendor = vendor
	ds.Metadata = project(vendor)

	if err := buildAxes(ds, tr); err != nil {
		return nil, classify(stem, err)
	}
	if o.normalize {
		normalizeUnits(ds)
	}
	if err := ds.Validate(); err != nil {
		return nil, classify(stem, err)
	}

	log.Debug("imported", "points", ds.Data.Rows, "columns", ds.Data.Cols, "overrides", len(ds.Overrides))
	return ds, nil
}

// readInfoFile returns the info file for stem, or nil when there is none.
// A missing implicit info file is logged; an explicitly requested one must
// exist.
func readInfoFile(stem string, o *importOptions) (*infofile.Info, error) {
	path := o.infoFile
	explicit := path != ""
	if !explicit {
		path = stem + infofile.Extension
	}

	info, err := infofile.ParseFile(path)
	switch {
	case err == nil:
		return info, nil
	case errors.Is(err, os.ErrNotExist) && !explicit:
		o.logger.Info("no info file found, continuing with vendor metadata only", "path", path)
		return nil, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, newError(ErrMissingInfoFile, path, err)
	default:
		return nil, newError(ErrCorruptData, path, err)
	}
}

// buildAxes sets the data matrix and axes of ds from the trace and the
// projected magnetic field record.
func buildAxes(ds *Dataset, tr *format.Trace) error {
	ds.Data = &Matrix{Rows: tr.Points, Cols: tr.Columns, Values: tr.Samples}
	mf := &ds.Metadata.MagneticField

	var field Axis
	if tr.Field != nil {
		field = Axis{Quantity: "magnetic field", Unit: tr.FieldUnit, Values: tr.Field}
		n := len(tr.Field)
		mf.FieldMin = axis.Q(tr.Field[0], tr.FieldUnit)
		mf.FieldMax = axis.Q(tr.Field[n-1], tr.FieldUnit)
		mf.SweepWidth = axis.Q(tr.Field[n-1]-tr.Field[0], tr.FieldUnit)
		mf.StepCount = n
		if n > 1 {
			mf.StepWidth = mf.SweepWidth.Scale(1 / float64(n-1))
		}
	} else {
		if mf.StepCount != 0 && mf.StepCount != tr.Points {
			return fmt.Errorf("%w: metadata declares %d field points, data holds %d", ErrDimensionMismatch, mf.StepCount, tr.Points)
		}
		d := axis.Descriptor{
			Start:      mf.FieldMin,
			Stop:       mf.FieldMax,
			SweepWidth: mf.SweepWidth,
			StepWidth:  mf.StepWidth,
			Points:     tr.Points,
		}
		if err := d.Reconstruct(); err != nil {
			return fmt.Errorf("reconstructing field axis: %w", err)
		}
		values := d.Values()
		if tr.StepCorrected {
			values = d.StepCorrectedValues()
		}
		field = Axis{Quantity: "magnetic field", Unit: d.Start.Unit, Values: values}
		mf.FieldMin, mf.FieldMax, mf.SweepWidth, mf.StepWidth, mf.StepCount = d.Start, d.Stop, d.SweepWidth, d.StepWidth, d.Points
	}

	ds.Axes = []Axis{field}
	if tr.Columns > 1 {
		sec := Axis{}
		if tr.Secondary != nil {
			sec = Axis{Quantity: tr.Secondary.Quantity, Unit: tr.Secondary.Unit, Values: tr.Secondary.Values}
		}
		ds.Axes = append(ds.Axes, sec)
	}
	ds.Axes = append(ds.Axes, Axis{Quantity: "intensity"})
	return nil
}

// normalizeUnits converts the field axis and record quantities to mT, GHz,
// kHz and mW. Each conversion checks the unit first, so applying it twice
// changes nothing.
func normalizeUnits(ds *Dataset) {
	if f := &ds.Axes[0]; f.Unit == "G" {
		for i := range f.Values {
			f.Values[i] /= 10
		}
		f.Unit = "mT"
	}

	mf := &ds.Metadata.MagneticField
	for _, q := range []*axis.Quantity{&mf.FieldMin, &mf.FieldMax, &mf.SweepWidth, &mf.StepWidth} {
		*q = axis.ToMillitesla(*q)
	}

	b := &ds.Metadata.Bridge
	b.MWFrequency = axis.ToGigahertz(b.MWFrequency)
	b.Power = axis.ToMilliwatt(b.Power)

	sc := &ds.Metadata.SignalChannel
	sc.ModulationAmplitude = axis.ToMillitesla(sc.ModulationAmplitude)
	sc.ModulationFrequency = axis.ToKilohertz(sc.ModulationFrequency)
}
