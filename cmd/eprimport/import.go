package main

import (
	"fmt"
	"path/filepath"

	"github.com/robert-malhotra/go-epr/epr"
	"github.com/robert-malhotra/go-epr/internal/catalog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	importJobs     int
	importExport   string
	importCatalog  bool
	importNoInfo   bool
	importInfoFile string
	importAxisUnit string
	importRawUnits bool
)

type importResult struct {
	path string
	ds   *epr.Dataset
	id   string
	err  error
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <path>...",
		Short: "Import one or more spectra",
		Long: `Import spectra and print a summary line for each.

A path may name any file of a file set, its stem, or a goniometer sweep
directory. Paths are imported concurrently; a failing path does not stop the
others.

Examples:
  # Import a BES3T pair and write sample.txt and sample.yaml to out/
  eprimport import data/sample.DSC --export out

  # Import a directory listing with four workers and record the results
  eprimport import data/*.spc --jobs 4 --catalog`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().IntVarP(&importJobs, "jobs", "j", 0, "Concurrent imports (default from config)")
	cmd.Flags().StringVar(&importExport, "export", "", "Write <stem>.txt and <stem>.yaml into this directory")
	cmd.Flags().BoolVar(&importCatalog, "catalog", false, "Record imports in the catalog database")
	cmd.Flags().BoolVar(&importNoInfo, "no-info", false, "Ignore .info files")
	cmd.Flags().StringVar(&importInfoFile, "info", "", "Explicit info file (single path only)")
	cmd.Flags().StringVar(&importAxisUnit, "axis-unit", "", "Field unit of text and CSV files")
	cmd.Flags().BoolVar(&importRawUnits, "raw-units", false, "Keep the units recorded in the files")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("jobs") {
		cfg.Import.Jobs = importJobs
	}
	if flags.Changed("export") {
		cfg.Export.Directory = importExport
	}
	if flags.Changed("catalog") {
		cfg.Catalog.Enabled = importCatalog
	}
	if importNoInfo {
		cfg.Import.InfoFile = false
	}
	if importAxisUnit != "" {
		cfg.Import.TextAxisUnit = importAxisUnit
	}
	if importRawUnits {
		cfg.Import.NormalizeUnits = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if importInfoFile != "" && len(args) > 1 {
		return fmt.Errorf("--info applies to a single path, got %d", len(args))
	}

	opts := []epr.ImportOption{
		epr.WithLogger(log),
		epr.WithTextAxisUnit(cfg.Import.TextAxisUnit),
	}
	if !cfg.Import.InfoFile {
		opts = append(opts, epr.WithoutInfoFile())
	}
	if importInfoFile != "" {
		opts = append(opts, epr.WithInfoFile(importInfoFile))
	}
	if !cfg.Import.NormalizeUnits {
		opts = append(opts, epr.WithoutUnitNormalization())
	}

	var cat *catalog.Catalog
	if cfg.Catalog.Enabled {
		cat, err = catalog.Open(catalog.Config{
			Path:        cfg.Catalog.Path,
			WALMode:     cfg.Catalog.WALMode,
			BusyTimeout: cfg.Catalog.BusyTimeout,
		})
		if err != nil {
			return err
		}
		defer func() { _ = cat.Close() }()
	}

	results := make([]importResult, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Import.Jobs)

	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			r := &results[i]
			r.path = path

			r.ds, r.err = epr.Import(path, opts...)
			if r.err != nil {
				log.Warn("import failed", "path", path, "code", epr.Code(r.err), "error", r.err)
				return nil
			}
			if dir := cfg.Export.Directory; dir != "" {
				var stem string
				if stem, r.err = exportStem(dir, path); r.err != nil {
					return nil
				}
				if r.err = epr.Export(r.ds, stem); r.err != nil {
					return nil
				}
			}
			if cat != nil {
				// A catalog failure affects every remaining import.
				r.id, r.err = cat.Record(ctx, catalogEntry(r.ds))
				return r.err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(out, "FAIL  %s  %s: %v\n", r.path, epr.Code(r.err), r.err)
			continue
		}
		rows, cols := r.ds.Data.Rows, r.ds.Data.Cols
		fmt.Fprintf(out, "ok    %s  %s  %dx%d  %d override(s)", r.path, r.ds.Format, rows, cols, len(r.ds.Overrides))
		if r.id != "" {
			fmt.Fprintf(out, "  id=%s", r.id)
		}
		fmt.Fprintln(out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d imports failed", failed, len(results))
	}
	return nil
}

// exportStem returns the export stem for path inside dir. Exporting next to
// the source under the same stem is refused since it would overwrite a .txt
// spectrum with its own export.
func exportStem(dir, path string) (string, error) {
	source := epr.StripExtension(path)
	stem := filepath.Join(dir, filepath.Base(source))

	absSource, err := filepath.Abs(source)
	if err != nil {
		return "", err
	}
	absStem, err := filepath.Abs(stem)
	if err != nil {
		return "", err
	}
	if absSource == absStem {
		return "", fmt.Errorf("export stem %s is the source stem; choose another --export directory", stem)
	}
	return stem, nil
}

func catalogEntry(ds *epr.Dataset) catalog.Entry {
	return catalog.Entry{
		Path:      ds.Source,
		Format:    string(ds.Format),
		Points:    len(ds.Data.Values),
		Dims:      ds.Dims(),
		Overrides: ds.Overrides,
	}
}
