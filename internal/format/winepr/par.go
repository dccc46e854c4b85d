// Package winepr reads the older Bruker EMX and ESP file pairs written by
// WinEPR: a text parameter file (.par) and a binary data file (.spc).
//
// EMX writes little-endian float32 samples, ESP big-endian int32. Both use
// the same extensions, so the encoding is chosen by decoding under the EMX
// hypothesis first and falling back to ESP when the result is implausible.
package winepr

import (
	"regexp"
	"strings"

	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// boundary matches the first whitespace run with non-whitespace on both
// sides. The match includes one character of each neighbour.
var boundary = regexp.MustCompile(`\S\s+\S`)

// ParsePar parses .par text into a flat mapping of string values. Each line
// is split at the first inner whitespace run; lines without one become keys
// with an empty value. Values are not coerced.
func ParsePar(text string) *metadata.Node {
	out := metadata.NewMapping()
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value := splitLine(line)
		out.SetString(key, value)
	}
	return out
}

func splitLine(line string) (string, string) {
	loc := boundary.FindStringIndex(line)
	if loc == nil {
		return line, ""
	}
	return line[:loc[0]+1], line[loc[1]-1:]
}
