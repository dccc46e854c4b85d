package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-epr/internal/axis"
)

// Node is a metadata tree node: either an ordered mapping or a scalar leaf.
type Node struct {
	scalar   any
	keys     []string
	children map[string]*Node
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{children: make(map[string]*Node)}
}

// String returns a scalar node holding s.
func String(s string) *Node {
	return &Node{scalar: s}
}

// Number returns a scalar node holding v.
func Number(v float64) *Node {
	return &Node{scalar: v}
}

// QuantityNode returns a {value, unit} mapping for q.
func QuantityNode(q axis.Quantity) *Node {
	n := NewMapping()
	n.Set("value", Number(q.Value))
	n.Set("unit", String(q.Unit))
	return n
}

// IsMapping reports whether n is a mapping node.
func (n *Node) IsMapping() bool {
	return n != nil && n.children != nil
}

// Keys returns the mapping keys in insertion order.
func (n *Node) Keys() []string {
	if !n.IsMapping() {
		return nil
	}
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Len returns the number of children of a mapping node.
func (n *Node) Len() int {
	if !n.IsMapping() {
		return 0
	}
	return len(n.keys)
}

// Get returns the child stored under key.
func (n *Node) Get(key string) (*Node, bool) {
	if !n.IsMapping() {
		return nil, false
	}
	c, ok := n.children[key]
	return c, ok
}

// Set stores child under key, keeping the original position of an existing key.
func (n *Node) Set(key string, child *Node) {
	if !n.IsMapping() {
		panic("metadata: Set on scalar node")
	}
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

// SetString is shorthand for Set(key, String(value)).
func (n *Node) SetString(key, value string) {
	n.Set(key, String(value))
}

// SetNumber is shorthand for Set(key, Number(value)).
func (n *Node) SetNumber(key string, value float64) {
	n.Set(key, Number(value))
}

// Delete removes key and reports whether it was present.
func (n *Node) Delete(key string) bool {
	if !n.IsMapping() {
		return false
	}
	if _, ok := n.children[key]; !ok {
		return false
	}
	delete(n.children, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i], n.keys[i+1:]...)
			break
		}
	}
	return true
}

// Rename changes the key of a child in place, preserving its position.
// If newKey already exists it is replaced.
func (n *Node) Rename(oldKey, newKey string) bool {
	child, ok := n.Get(oldKey)
	if !ok {
		return false
	}
	if oldKey == newKey {
		return true
	}
	if _, exists := n.children[newKey]; exists {
		n.Delete(newKey)
	}
	for i, k := range n.keys {
		if k == oldKey {
			n.keys[i] = newKey
			break
		}
	}
	delete(n.children, oldKey)
	n.children[newKey] = child
	return true
}

// Lookup resolves a slash path relative to n.
func (n *Node) Lookup(path string) (*Node, bool) {
	cur := n
	for _, part := range SplitPath(path) {
		next, ok := cur.Get(part)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// SetPath stores child at a slash path, creating intermediate mappings.
// An intermediate scalar is replaced by a mapping.
func (n *Node) SetPath(path string, child *Node) {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return
	}
	cur := n
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur.Get(part)
		if !ok || !next.IsMapping() {
			next = NewMapping()
			cur.Set(part, next)
		}
		cur = next
	}
	cur.Set(parts[len(parts)-1], child)
}

// Text returns a scalar as a string. Mappings return "".
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	switch v := n.scalar.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return ""
	}
}

// Float returns a scalar as a number, parsing strings when needed.
func (n *Node) Float() (float64, bool) {
	if n == nil {
		return 0, false
	}
	switch v := n.scalar.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Value returns the raw scalar (string or float64), or nil for mappings.
func (n *Node) Value() any {
	if n == nil {
		return nil
	}
	return n.scalar
}

// Quantity interprets n as a physical quantity. Accepted shapes are a
// {value, unit} mapping, a string such as "3480 G", or a bare number, in
// which case defaultUnit is used.
func (n *Node) Quantity(defaultUnit string) (axis.Quantity, error) {
	if n == nil {
		return axis.Quantity{}, fmt.Errorf("%w: nil node", axis.ErrInvalidValue)
	}
	if n.IsMapping() {
		vn, ok := n.Get("value")
		if !ok {
			return axis.Quantity{}, fmt.Errorf("%w: mapping without value", axis.ErrInvalidValue)
		}
		v, ok := vn.Float()
		if !ok {
			return axis.Quantity{}, fmt.Errorf("%w: value %q is not numeric", axis.ErrInvalidValue, vn.Text())
		}
		unit := defaultUnit
		if un, ok := n.Get("unit"); ok && un.Text() != "" {
			unit = un.Text()
		}
		return axis.Q(v, unit), nil
	}
	if v, ok := n.scalar.(float64); ok {
		return axis.Q(v, defaultUnit), nil
	}
	return axis.WithUnit(n.Text(), defaultUnit)
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	if !n.IsMapping() {
		return &Node{scalar: n.scalar}
	}
	out := NewMapping()
	for _, k := range n.keys {
		out.Set(k, n.children[k].Clone())
	}
	return out
}

// Walk visits n and its descendants depth-first in key order. The root is
// visited with path "/".
func (n *Node) Walk(fn func(path string, node *Node) error) error {
	return n.walk("/", fn)
}

func (n *Node) walk(path string, fn func(string, *Node) error) error {
	if err := fn(path, n); err != nil {
		return err
	}
	for _, k := range n.Keys() {
		if err := n.children[k].walk(JoinPath(path, k), fn); err != nil {
			return err
		}
	}
	return nil
}

// MarshalYAML encodes the tree as an ordered YAML mapping.
func (n *Node) MarshalYAML() (interface{}, error) {
	return n.yamlNode(), nil
}

func (n *Node) yamlNode() *yaml.Node {
	if !n.IsMapping() {
		y := &yaml.Node{Kind: yaml.ScalarNode}
		switch v := n.scalar.(type) {
		case float64:
			y.Tag = "!!float"
			y.Value = strconv.FormatFloat(v, 'g', -1, 64)
		default:
			y.Tag = "!!str"
			y.Value = n.Text()
		}
		return y
	}
	y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range n.keys {
		y.Content = append(y.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			n.children[k].yamlNode(),
		)
	}
	return y
}

// UnmarshalYAML decodes a YAML mapping into an ordered tree. Sequences are
// stored as mappings keyed by index.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	decoded, err := fromYAML(value)
	if err != nil {
		return err
	}
	*n = *decoded
	return nil
}

func fromYAML(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return NewMapping(), nil
		}
		return fromYAML(y.Content[0])
	case yaml.MappingNode:
		out := NewMapping()
		for i := 0; i+1 < len(y.Content); i += 2 {
			child, err := fromYAML(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Set(y.Content[i].Value, child)
		}
		return out, nil
	case yaml.SequenceNode:
		out := NewMapping()
		for i, item := range y.Content {
			child, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			out.Set(strconv.Itoa(i), child)
		}
		return out, nil
	case yaml.ScalarNode:
		return Coerce(y.Value), nil
	case yaml.AliasNode:
		return fromYAML(y.Alias)
	default:
		return nil, fmt.Errorf("metadata: unsupported YAML node kind %d", y.Kind)
	}
}
