// Package infofile parses the human-authored info files that accompany EPR
// measurements and supply metadata the spectrometer software does not record.
//
// An info file starts with a version line, followed by blocks. Each block is
// introduced by an upper-case headline and holds "key: value" entries; lines
// indented with whitespace continue the previous value. The COMMENT block is
// kept as free text.
//
//	cwEPR Info file - v. 0.1.4
//
//	GENERAL
//	Operator:   Jane Doe
//	Date start: 2020-06-29
//
//	COMMENT
//	Sample degassed twice.
package infofile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// Extension is the file extension of info files.
const Extension = ".info"

// ErrNotInfoFile is returned when the first line is not a version line.
var ErrNotInfoFile = errors.New("infofile: missing version line")

var versionLine = regexp.MustCompile(`^(.*?)\s*[Ii]nfo file\s*-\s*v\.?\s*(\S+)\s*$`)

// Info is a parsed info file.
type Info struct {
	Program  string
	Version  string
	Metadata *metadata.Node
	Comment  string
}

// ParseFile reads and parses the info file at path.
func ParseFile(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening info file: %w", err)
	}
	defer f.Close()

	info, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return info, nil
}

// Parse reads an info file from r.
func Parse(r io.Reader) (*Info, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	info := &Info{Metadata: metadata.NewMapping()}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		m := versionLine.FindStringSubmatch(line)
		if m == nil {
			return nil, ErrNotInfoFile
		}
		info.Program = strings.TrimSpace(m[1])
		info.Version = m[2]
		break
	}
	if info.Version == "" {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotInfoFile
	}

	var (
		block   *metadata.Node
		title   string
		lastKey string
		comment []string
	)
	for sc.Scan() {
		raw := strings.TrimRight(sc.Text(), " \t\r")
		line := strings.TrimSpace(raw)

		if title == "COMMENT" {
			if isHeadline(line) && line != "COMMENT" {
				title = ""
			} else {
				comment = append(comment, raw)
				continue
			}
		}

		switch {
		case line == "":
			lastKey = ""
		case isHeadline(line):
			title = line
			lastKey = ""
			if title == "COMMENT" {
				block = nil
				continue
			}
			key := strings.ReplaceAll(title, " ", "_")
			block = metadata.NewMapping()
			info.Metadata.Set(key, block)
		case block == nil:
			return nil, fmt.Errorf("infofile: entry %q outside of a block", line)
		case raw != line && lastKey != "":
			prev, _ := block.Get(lastKey)
			block.SetString(lastKey, strings.TrimSpace(prev.Text()+" "+line))
		default:
			key, value, _ := strings.Cut(line, ":")
			lastKey = NormalizeKey(key)
			block.SetString(lastKey, strings.TrimSpace(value))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	info.Comment = strings.TrimSpace(strings.Join(comment, "\n"))
	return info, nil
}

// NormalizeKey lower-cases key and replaces spaces with underscores.
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.Join(strings.Fields(key), "_")
}

// isHeadline reports whether line is an upper-case block title.
func isHeadline(line string) bool {
	if line == "" || strings.Contains(line, ":") {
		return false
	}
	hasLetter := false
	for _, r := range line {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r == ' ' || r == '_' || r == '-' || (r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return hasLetter
}
