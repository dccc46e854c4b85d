package metadata

import "strings"

// Rule is a declarative transformation applied to a metadata tree.
type Rule interface {
	apply(root *Node)
}

// Apply runs rules against root in order. Rules whose section or keys are
// absent do nothing, since different file sub-versions omit different keys.
func Apply(root *Node, rules []Rule) {
	for _, r := range rules {
		r.apply(root)
	}
}

// section resolves a rule scope. The empty string addresses the root.
func section(root *Node, name string) (*Node, bool) {
	if name == "" {
		return root, root.IsMapping()
	}
	n, ok := root.Lookup(name)
	if !ok || !n.IsMapping() {
		return nil, false
	}
	return n, true
}

type renameKey struct {
	section, old, new string
}

// RenameKey renames old to new within section.
func RenameKey(section, old, new string) Rule {
	return renameKey{section: section, old: old, new: new}
}

func (r renameKey) apply(root *Node) {
	if s, ok := section(root, r.section); ok {
		s.Rename(r.old, r.new)
	}
}

type combineItems struct {
	section string
	old     []string
	new     string
	joiner  string
}

// CombineItems joins the scalar values of old (in the given order) with
// joiner, stores the result under new and removes the old keys. Missing keys
// are skipped; if none is present the rule does nothing.
func CombineItems(section string, old []string, new, joiner string) Rule {
	return combineItems{section: section, old: old, new: new, joiner: joiner}
}

func (r combineItems) apply(root *Node) {
	s, ok := section(root, r.section)
	if !ok {
		return
	}
	var parts []string
	for _, k := range r.old {
		if n, ok := s.Get(k); ok && !n.IsMapping() {
			parts = append(parts, n.Text())
		}
	}
	if len(parts) == 0 {
		return
	}
	for _, k := range r.old {
		s.Delete(k)
	}
	s.SetString(r.new, strings.Join(parts, r.joiner))
}

type moveItem struct {
	section, key, target, newKey string
}

// MoveItem relocates section/key to target/newKey, creating target when
// needed. An empty newKey keeps the original key name.
func MoveItem(section, key, target, newKey string) Rule {
	if newKey == "" {
		newKey = key
	}
	return moveItem{section: section, key: key, target: target, newKey: newKey}
}

func (r moveItem) apply(root *Node) {
	s, ok := section(root, r.section)
	if !ok {
		return
	}
	n, ok := s.Get(r.key)
	if !ok {
		return
	}
	s.Delete(r.key)
	root.SetPath(JoinPath(r.target, r.newKey), n)
}
