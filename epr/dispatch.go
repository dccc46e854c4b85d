package epr

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/robert-malhotra/go-epr/internal/format"
	"github.com/robert-malhotra/go-epr/internal/format/bes3t"
	"github.com/robert-malhotra/go-epr/internal/format/magnettech"
	"github.com/robert-malhotra/go-epr/internal/format/niehs"
	"github.com/robert-malhotra/go-epr/internal/format/text"
	"github.com/robert-malhotra/go-epr/internal/format/winepr"
	"github.com/robert-malhotra/go-epr/internal/infofile"
	"github.com/robert-malhotra/go-epr/internal/pathutil"
)

// goniometerMarker must appear in every entry name of a goniometer sweep
// directory.
const goniometerMarker = "gon"

type reader func(stem string, opts format.Options) (*format.Trace, error)

type importer struct {
	format   Format
	exts     []string
	read     reader
	infoFile bool
}

// importers is the dispatch table. The first importer whose files all exist
// wins, so the order matters. EMX and ESP share extensions and are told apart
// inside the WinEPR reader.
var importers = []importer{
	{BES3T, []string{bes3t.DescriptorExt, bes3t.DataExt}, bes3t.Read, true},
	{WinEPR, []string{winepr.ParameterExt, winepr.DataExt}, winepr.Read, true},
	{Magnettech, []string{magnettech.Ext}, magnettech.Read, true},
	{NIEHSLmb, []string{niehs.LMBExt}, niehs.ReadLMB, false},
	{NIEHSSim, []string{niehs.SimExt}, niehs.ReadSim, false},
	{NIEHSExp, []string{niehs.ExpExt}, niehs.ReadExp, false},
	{NIEHSDat, []string{niehs.DatExt}, niehs.ReadDat, false},
	{Text, []string{text.TxtExt}, text.ReadTxt, false},
	{CSV, []string{text.CSVExt}, text.ReadCSV, false},
}

// knownExtensions lists every extension the importers recognise, plus the
// optional companion files.
var knownExtensions = func() []string {
	seen := map[string]bool{}
	var out []string
	add := func(ext string) {
		if !seen[ext] {
			seen[ext] = true
			out = append(out, ext)
		}
	}
	for _, imp := range importers {
		for _, ext := range imp.exts {
			add(ext)
		}
	}
	add(bes3t.SecondaryExt)
	add(infofile.Extension)
	return out
}()

// Formats returns the supported single-file formats in dispatch order.
func Formats() []Format {
	out := make([]Format, len(importers))
	for i, imp := range importers {
		out[i] = imp.format
	}
	return out
}

// Extensions returns the file extensions of f.
func Extensions(f Format) []string {
	for _, imp := range importers {
		if imp.format == f {
			return append([]string(nil), imp.exts...)
		}
	}
	return nil
}

// StripExtension removes a recognised extension from path.
func StripExtension(path string) string {
	return pathutil.StripExtension(path, knownExtensions)
}

// Detect selects the format for path, which may name a file stem, a file of a
// supported format, or a goniometer sweep directory. It returns the format
// and the stem the importer will read.
func Detect(path string) (Format, string, error) {
	if pathutil.IsDir(path) {
		if isGoniometerDir(path) {
			return Goniometer, path, nil
		}
		return "", path, newError(ErrUnsupportedFormat, path, nil)
	}

	imp, stem, err := detect(path)
	if err != nil {
		return "", stem, err
	}
	return imp.format, stem, nil
}

func detect(path string) (importer, string, error) {
	stem := StripExtension(path)
	for _, imp := range importers {
		if pathutil.AllExist(stem, imp.exts) {
			return imp, stem, nil
		}
	}

	for _, imp := range importers {
		for _, ext := range imp.exts {
			if pathutil.IsFile(stem + ext) {
				return importer{}, stem, newError(ErrNoMatchingFilePair, stem, nil)
			}
		}
	}
	if pathutil.Exists(path) || hasSiblings(stem) {
		return importer{}, stem, newError(ErrUnsupportedFormat, stem, nil)
	}
	return importer{}, stem, newError(ErrMissingPath, path, nil)
}

// hasSiblings reports whether any file named stem.* exists.
func hasSiblings(stem string) bool {
	entries, err := os.ReadDir(filepath.Dir(stem))
	if err != nil {
		return false
	}
	prefix := filepath.Base(stem) + "."
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) {
			return true
		}
	}
	return false
}

// isGoniometerDir reports whether dir is non-empty and every entry name
// contains the goniometer marker.
func isGoniometerDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if !strings.Contains(e.Name(), goniometerMarker) {
			return false
		}
	}
	return true
}
