// Package pathutil handles the file-stem conventions shared by all importers:
// a dataset is addressed by a path without extension and each format appends
// its own extensions.
package pathutil

import (
	"os"
	"strings"
)

// StripExtension removes the first extension in known that path ends with.
// Extensions include the leading dot and are matched case-insensitively, so
// "sample.dsc" and "sample.DSC" share the stem "sample".
//
// Importers append their extensions in the vendor's casing when opening the
// files of a set, so on case-sensitive file systems a set stored as
// sample.dsc/sample.dta is not found under that stem.
func StripExtension(path string, known []string) string {
	for _, ext := range known {
		if ext == "" || len(path) <= len(ext) {
			continue
		}
		if tail := path[len(path)-len(ext):]; strings.EqualFold(tail, ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsFile reports whether path names an existing regular file.
func IsFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// AllExist reports whether stem+ext exists as a regular file for every ext.
func AllExist(stem string, exts []string) bool {
	if len(exts) == 0 {
		return false
	}
	for _, ext := range exts {
		if !IsFile(stem + ext) {
			return false
		}
	}
	return true
}
