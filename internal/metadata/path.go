package metadata

import "strings"

// SplitPath splits a path into its components.
// Leading and trailing slashes are handled, empty components are removed.
//
// Examples:
//   - "/" -> []string{}
//   - "/foo" -> []string{"foo"}
//   - "/foo/bar" -> []string{"foo", "bar"}
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{}
	}
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinPath appends key to a slash path. An empty parent is the root.
func JoinPath(parent, key string) string {
	return strings.TrimSuffix(parent, "/") + "/" + key
}
