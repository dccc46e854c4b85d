// Package metadata holds vendor metadata as an ordered tree and implements
// the two operations that reconcile it with the unified schema: declarative
// key mapping ([Rule], [Apply]) and conflict-aware merging ([Merge]).
//
// # Tree
//
// A [Node] is either a mapping (ordered keys to child nodes) or a scalar
// (string or float64). Physical quantities are stored as a mapping with
// "value" and "unit" children once the unit has been identified. Nodes are
// built fresh for every import and never shared between datasets.
//
// Paths address nested nodes with slash-separated keys:
//
//	/GENERAL/operator
//	/DSL/fieldCtrl/CenterField
//
// # Merging
//
// [Merge] combines metadata from an info file with metadata from the vendor
// parameter file. Keys present in both inputs are walked depth-first; when
// both values are mappings the walk descends, otherwise the parameter-file
// value wins and the collision is appended to an [OverrideLog]. Top-level
// keys are compared case-insensitively, nested keys verbatim.
package metadata
