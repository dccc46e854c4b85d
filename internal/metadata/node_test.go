package metadata

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-epr/internal/axis"
)

func TestNodeOrderAndRename(t *testing.T) {
	n := NewMapping()
	n.SetString("c", "3")
	n.SetString("a", "1")
	n.SetString("b", "2")

	if !n.Rename("a", "alpha") {
		t.Fatal("Rename returned false")
	}
	if got := strings.Join(n.Keys(), ","); got != "c,alpha,b" {
		t.Errorf("unexpected key order %q", got)
	}
	if n.Rename("missing", "x") {
		t.Error("Rename of missing key should report false")
	}
	if !n.Delete("c") || n.Len() != 2 {
		t.Errorf("Delete failed, keys %v", n.Keys())
	}
}

func TestNodePaths(t *testing.T) {
	root := NewMapping()
	root.SetPath("/DSL/fieldCtrl/CenterField", String("3480.00 G"))

	n, ok := root.Lookup("DSL/fieldCtrl/CenterField")
	if !ok {
		t.Fatal("Lookup failed")
	}
	q, err := n.Quantity("")
	if err != nil {
		t.Fatalf("Quantity failed: %v", err)
	}
	if q != axis.Q(3480, "G") {
		t.Errorf("unexpected quantity %v", q)
	}

	var visited []string
	root.Walk(func(path string, _ *Node) error {
		visited = append(visited, path)
		return nil
	})
	want := "/,/DSL,/DSL/fieldCtrl,/DSL/fieldCtrl/CenterField"
	if got := strings.Join(visited, ","); got != want {
		t.Errorf("walk order %q, want %q", got, want)
	}
}

func TestNodeQuantityShapes(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want axis.Quantity
	}{
		{"mapping", QuantityNode(axis.Q(9.5, "GHz")), axis.Q(9.5, "GHz")},
		{"number with default", Number(2), axis.Q(2, "mW")},
		{"string with unit", String("100 kHz"), axis.Q(100, "kHz")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.node.Quantity("mW")
			if err != nil {
				t.Fatalf("Quantity failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		in      string
		numeric bool
	}{
		{"1024", true},
		{"-3.5", true},
		{"9.754e+09", true},
		{".5", true},
		{"'Intensity'", false},
		{"BIG", false},
		{"1.2.3", false},
		{"", false},
	}
	for _, tt := range tests {
		n := Coerce(tt.in)
		_, isNum := n.Value().(float64)
		if isNum != tt.numeric {
			t.Errorf("Coerce(%q) numeric = %v, want %v", tt.in, isNum, tt.numeric)
		}
	}
}

func TestNodeYAMLRoundTrip(t *testing.T) {
	root := NewMapping()
	root.SetPath("/bridge/mw_frequency", QuantityNode(axis.Q(9.75, "GHz")))
	root.SetPath("/general/operator", String("xuser"))

	out, err := yaml.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.HasPrefix(string(out), "bridge:") {
		t.Errorf("expected ordered output, got:\n%s", out)
	}

	var back Node
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	v, ok := back.Lookup("/bridge/mw_frequency/value")
	if !ok || v.Value() != 9.75 {
		t.Errorf("round trip lost value: %v", v.Value())
	}
	if op, _ := back.Lookup("/general/operator"); op.Text() != "xuser" {
		t.Errorf("round trip lost operator: %q", op.Text())
	}
}
