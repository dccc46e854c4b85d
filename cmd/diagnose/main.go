// Diagnostic tool for inspecting how an EPR file set is imported
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/robert-malhotra/go-epr/epr"
	"github.com/robert-malhotra/go-epr/internal/axis"
	"github.com/robert-malhotra/go-epr/internal/logging"
	"github.com/robert-malhotra/go-epr/internal/metadata"
)

const maxDepth = 20

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/diagnose/main.go <path>")
		os.Exit(1)
	}

	path := os.Args[1]
	fmt.Printf("=== Analyzing %s ===\n\n", path)

	format, stem, err := epr.Detect(path)
	if err != nil {
		fmt.Printf("ERROR: Detection failed [%s]: %v\n", epr.Code(err), err)
		os.Exit(1)
	}
	fmt.Printf("Format: %s\n", format)
	fmt.Printf("Stem:   %s\n\n", stem)

	ds, err := epr.Import(path, epr.WithLogger(logging.Default()))
	if err != nil {
		fmt.Printf("ERROR: Import failed [%s]: %v\n", epr.Code(err), err)
		os.Exit(1)
	}

	printShape(ds)
	printResonance(ds)

	fmt.Printf("Overrides: %d\n", len(ds.Overrides))
	for _, o := range ds.Overrides {
		fmt.Printf("  %s\n", o)
	}
	for _, a := range ds.Annotations {
		fmt.Printf("Annotation: %s\n", strings.TrimSpace(a))
	}
	fmt.Println()

	// Walk the merged vendor metadata
	walkTree(ds.Vendor)
}

func printShape(ds *epr.Dataset) {
	fmt.Printf("Data: %d x %d (%d-D)\n", ds.Data.Rows, ds.Data.Cols, ds.Dims())
	for i, a := range ds.Axes {
		if len(a.Values) == 0 {
			fmt.Printf("  Axis %d: %s [%s]\n", i, a.Quantity, a.Unit)
			continue
		}
		fmt.Printf("  Axis %d: %s [%s] %g .. %g (%d points)\n",
			i, a.Quantity, a.Unit, a.Values[0], a.Values[len(a.Values)-1], len(a.Values))
	}
}

func printResonance(ds *epr.Dataset) {
	freq := ds.Metadata.Bridge.MWFrequency
	if freq.Unit == "" {
		fmt.Println("g at centre: no microwave frequency")
		return
	}
	field := ds.Field()
	centre := axis.Q((field.Values[0]+field.Values[len(field.Values)-1])/2, field.Unit)
	g, err := epr.GValue(freq, centre)
	if err != nil {
		fmt.Printf("g at centre: %v\n", err)
		return
	}
	fmt.Printf("g at centre: %.5f (%g %s, %g %s)\n", g, centre.Value, centre.Unit, freq.Value, freq.Unit)
}

func walkTree(root *metadata.Node) {
	if root == nil {
		fmt.Println("[NO VENDOR METADATA]")
		return
	}
	err := root.Walk(func(path string, n *metadata.Node) error {
		depth := strings.Count(path, "/")
		if path == "/" {
			depth = 0
		}
		if depth > maxDepth {
			return nil
		}
		indent := strings.Repeat("  ", depth)
		if n.IsMapping() {
			fmt.Printf("%s%s (%d keys)\n", indent, path, n.Len())
			return nil
		}
		fmt.Printf("%s%s = %q\n", indent, path, n.Text())
		return nil
	})
	if err != nil {
		fmt.Printf("ERROR walking metadata: %v\n", err)
	}
}
