package epr

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		path  string
		want  Format
	}{
		{"bes3t stem", []string{"sample.DSC", "sample.DTA"}, "sample", BES3T},
		{"bes3t with extension", []string{"sample.DSC", "sample.DTA"}, "sample.DTA", BES3T},
		{"winepr", []string{"sample.par", "sample.spc"}, "sample.spc", WinEPR},
		{"magnettech", []string{"sample.xml"}, "sample", Magnettech},
		{"lmb", []string{"sample.lmb"}, "sample.lmb", NIEHSLmb},
		{"exp", []string{"sample.exp"}, "sample", NIEHSExp},
		{"csv", []string{"sample.csv"}, "sample.csv", CSV},
		{"bes3t before txt", []string{"sample.DSC", "sample.DTA", "sample.txt"}, "sample", BES3T},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, filepath.Join(dir, f), nil)
			}
			got, stem, err := Detect(filepath.Join(dir, tt.path))
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("format = %s, want %s", got, tt.want)
			}
			if stem != filepath.Join(dir, "sample") {
				t.Errorf("stem = %q", stem)
			}
		})
	}
}

func TestDetectErrors(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		path  string
		kind  error
		code  string
	}{
		{"unknown extension", []string{"sample.foo"}, "sample", ErrUnsupportedFormat, "unsupported_format"},
		{"unknown extension given", []string{"sample.foo"}, "sample.foo", ErrUnsupportedFormat, "unsupported_format"},
		{"descriptor without data", []string{"sample.DSC"}, "sample", ErrNoMatchingFilePair, "no_matching_file_pair"},
		{"nothing there", nil, "sample", ErrMissingPath, "missing_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, filepath.Join(dir, f), nil)
			}
			_, _, err := Detect(filepath.Join(dir, tt.path))
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if Code(err) != tt.code {
				t.Errorf("code = %q, want %q", Code(err), tt.code)
			}
			if !strings.Contains(err.Error(), "sample") {
				t.Errorf("error %q does not name the attempted path", err)
			}
		})
	}
}

func TestDetectGoniometerDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cu_gon_0.txt"), nil)
	writeFile(t, filepath.Join(dir, "cu_gon_10.txt"), nil)

	f, _, err := Detect(dir)
	if err != nil || f != Goniometer {
		t.Fatalf("Detect = %s, %v; want goniometer", f, err)
	}

	writeFile(t, filepath.Join(dir, "notes.txt"), nil)
	if _, _, err := Detect(dir); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat for mixed directory, got %v", err)
	}

	empty := t.TempDir()
	if _, _, err := Detect(empty); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat for empty directory, got %v", err)
	}
}

func TestFormatsOrder(t *testing.T) {
	got := Formats()
	if len(got) != len(importers) || got[0] != BES3T || got[1] != WinEPR {
		t.Errorf("unexpected dispatch order %v", got)
	}
	if exts := Extensions(WinEPR); len(exts) != 2 || exts[0] != ".par" {
		t.Errorf("WinEPR extensions = %v", exts)
	}
	if Extensions(Goniometer) != nil {
		t.Error("goniometer has no extensions")
	}
}

func TestStripExtension(t *testing.T) {
	tests := map[string]string{
		"data/sample.DSC":  "data/sample",
		"data/sample.info": "data/sample",
		"data/sample.YGF":  "data/sample",
		"data/sample.dsc":  "data/sample",
		"data/sample.SPC":  "data/sample",
		"data/sample.foo":  "data/sample.foo",
		"data/sample":      "data/sample",
		".txt":             ".txt",
	}
	for in, want := range tests {
		if got := StripExtension(in); got != want {
			t.Errorf("StripExtension(%q) = %q, want %q", in, got, want)
		}
	}
}
