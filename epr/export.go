package epr

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// Export file extensions.
const (
	ExportDataExt     = ".txt"
	ExportMetadataExt = ".yaml"
)

// exportDocument is the layout of the metadata file written by Export.
type exportDocument struct {
	Source      string               `yaml:"source"`
	Format      Format               `yaml:"format"`
	Shape       []int                `yaml:"shape"`
	Axes        []Axis               `yaml:"axes"`
	Metadata    *Record              `yaml:"metadata"`
	Overrides   metadata.OverrideLog `yaml:"overrides,omitempty"`
	Annotations []string             `yaml:"annotations,omitempty"`
	Vendor      *metadata.Node       `yaml:"vendor,omitempty"`
}

// Export writes ds as stem.txt, a tab-separated table with the field axis in
// the first column and one intensity column per trace, and stem.yaml holding
// the axes and metadata.
func Export(ds *Dataset, stem string) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	if err := writeTable(ds, stem+ExportDataExt); err != nil {
		return err
	}
	return writeMetadata(ds, stem+ExportMetadataExt)
}

func writeTable(ds *Dataset, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	field := ds.Field()
	fmt.Fprintf(w, "# %s [%s]", field.Quantity, field.Unit)
	if ds.Dims() == 2 {
		sec := ds.Axes[1]
		for _, v := range sec.Values {
			fmt.Fprintf(w, "\t%s=%s %s", sec.Quantity, formatFloat(v), sec.Unit)
		}
	} else {
		w.WriteString("\tintensity")
	}
	w.WriteByte('\n')

	for i, x := range field.Values {
		w.WriteString(formatFloat(x))
		for j := 0; j < ds.Data.Cols; j++ {
			w.WriteByte('\t')
			w.WriteString(formatFloat(ds.Data.At(i, j)))
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}

func writeMetadata(ds *Dataset, path string) error {
	doc := exportDocument{
		Source:      ds.Source,
		Format:      ds.Format,
		Shape:       []int{ds.Data.Rows, ds.Data.Cols},
		Axes:        ds.Axes,
		Metadata:    ds.Metadata,
		Overrides:   ds.Overrides,
		Annotations: ds.Annotations,
		Vendor:      ds.Vendor,
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
