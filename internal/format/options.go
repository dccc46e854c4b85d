package format

import (
	"github.com/robert-malhotra/go-epr/internal/logging"
	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// Options carries per-import settings into the format readers.
type Options struct {
	Logger *logging.Logger

	// AxisUnit is the field unit assumed by formats that do not record one.
	AxisUnit string
}

// Log returns the configured logger or a discarding one.
func (o Options) Log() *logging.Logger {
	return logging.OrDiscard(o.Logger)
}

// Unit returns AxisUnit or fallback when it is empty.
func (o Options) Unit(fallback string) string {
	if o.AxisUnit != "" {
		return o.AxisUnit
	}
	return fallback
}

// AttachUnits converts scalar values at the given paths into {value, unit}
// mappings. Values that already carry a unit keep it; paths that are absent
// or not numeric are left untouched.
func AttachUnits(root *metadata.Node, units map[string]string) {
	for path, unit := range units {
		n, ok := root.Lookup(path)
		if !ok || n.IsMapping() {
			continue
		}
		q, err := n.Quantity(unit)
		if err != nil {
			continue
		}
		root.SetPath(path, metadata.QuantityNode(q))
	}
}
