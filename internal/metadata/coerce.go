package metadata

import (
	"regexp"
	"strconv"
	"strings"
)

var numericLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// IsNumeric reports whether s is an integer, decimal or exponential literal.
func IsNumeric(s string) bool {
	return numericLiteral.MatchString(strings.TrimSpace(s))
}

// Coerce returns a Number node for numeric literals and a String node
// otherwise.
func Coerce(s string) *Node {
	t := strings.TrimSpace(s)
	if numericLiteral.MatchString(t) {
		if v, err := strconv.ParseFloat(t, 64); err == nil {
			return Number(v)
		}
	}
	return String(s)
}
