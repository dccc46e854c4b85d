package metadata

import "strings"

// OverrideLog is the ordered list of provenance notes produced by Merge.
// Entries are only ever appended.
type OverrideLog []string

func (l *OverrideLog) add(path string) {
	*l = append(*l, "Possible override @ "+path+".")
}

// Paths returns the metadata paths referenced by the log entries.
func (l OverrideLog) Paths() []string {
	out := make([]string, 0, len(l))
	for _, e := range l {
		p := strings.TrimPrefix(e, "Possible override @ ")
		out = append(out, strings.TrimSuffix(p, "."))
	}
	return out
}

// Merge combines earlier (conventionally the info file) with later (the
// vendor parameter file) into a new tree. Neither input is modified.
//
// For each key of later that also exists in earlier, mappings are merged
// recursively; any other collision is recorded in the returned log and the
// value from later wins. Top-level keys are matched case-insensitively and
// keep the spelling used by earlier; nested keys must match exactly.
// Either input may be nil.
func Merge(earlier, later *Node) (*Node, OverrideLog) {
	var log OverrideLog

	out := earlier.Clone()
	if !out.IsMapping() {
		out = NewMapping()
	}
	if !later.IsMapping() {
		return out, log
	}

	byLower := make(map[string]string, out.Len())
	for _, k := range out.Keys() {
		byLower[strings.ToLower(k)] = k
	}

	for _, k := range later.Keys() {
		incoming := later.children[k]
		existingKey, ok := byLower[strings.ToLower(k)]
		if !ok {
			out.Set(k, incoming.Clone())
			byLower[strings.ToLower(k)] = k
			continue
		}
		mergeInto(out, existingKey, incoming, JoinPath("", k), &log)
	}
	return out, log
}

// mergeInto merges incoming into parent[key], which is known to exist.
func mergeInto(parent *Node, key string, incoming *Node, path string, log *OverrideLog) {
	existing := parent.children[key]
	if !existing.IsMapping() || !incoming.IsMapping() {
		log.add(path)
		parent.Set(key, incoming.Clone())
		return
	}
	for _, k := range incoming.Keys() {
		child := incoming.children[k]
		if _, ok := existing.children[k]; !ok {
			existing.Set(k, child.Clone())
			continue
		}
		mergeInto(existing, k, child, JoinPath(path, k), log)
	}
}
