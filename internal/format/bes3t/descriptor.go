// Package bes3t reads Bruker BES3T file pairs: a text descriptor (.DSC) and
// a binary data file (.DTA), plus an optional secondary axis file (.YGF).
package bes3t

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-epr/internal/format"
	"github.com/robert-malhotra/go-epr/internal/metadata"
)

// Layer names of the descriptor tree.
const (
	LayerDescriptor = "DESC"
	LayerStandard   = "SPL"
	LayerDevice     = "DSL"
)

const (
	splMarker = "#SPL"
	dslMarker = "#DSL"
	dvcMarker = ".DVC"

	// deviceColumn is the column at which values start in the device layer.
	deviceColumn = 19

	// devicePrefix is the width of the ".DVC     " prefix of a device headline.
	devicePrefix = 9

	// splDelimiter separates key and value in the standard parameter layer.
	splDelimiter = "    "
)

var (
	headline   = regexp.MustCompile(`^\*\t(.*\S)\s*$`)
	decoration = regexp.MustCompile(`^\*+\s*$`)
)

// Descriptor is a parsed .DSC file.
type Descriptor struct {
	// Layered is true for the three-layer descriptor, false for the inline
	// key=value variant.
	Layered bool

	// Tree holds DESC/<block>/<key>, SPL/<key> and DSL/<device>/<key> for
	// layered descriptors, or a flat mapping for the inline variant.
	Tree *metadata.Node

	params map[string]*metadata.Node
}

// ParseDescriptor parses descriptor text. Files containing the #SPL and #DSL
// markers are parsed as three layers with string values; other files are
// parsed line by line with numeric coercion. In both cases the experiment
// type must be CW.
func ParseDescriptor(text string) (*Descriptor, error) {
	var (
		d   *Descriptor
		err error
	)
	if strings.Contains(text, splMarker) && strings.Contains(text, dslMarker) {
		d, err = parseLayered(text)
	} else {
		d = &Descriptor{Tree: ParseFlat(text)}
	}
	if err != nil {
		return nil, err
	}
	d.index()

	if err := d.checkExperiment(); err != nil {
		return nil, err
	}
	return d, nil
}

func parseLayered(text string) (*Descriptor, error) {
	spl := strings.Index(text, splMarker)
	dsl := strings.Index(text, dslMarker)
	if dsl < spl {
		return nil, fmt.Errorf("%w: %s precedes %s", format.ErrCorrupt, dslMarker, splMarker)
	}

	tree := metadata.NewMapping()
	tree.Set(LayerDescriptor, parseDescriptorLayer(text[:spl]))
	tree.Set(LayerStandard, parseStandardLayer(text[spl:dsl]))
	tree.Set(LayerDevice, parseDeviceLayer(text[dsl:]))

	return &Descriptor{Layered: true, Tree: tree}, nil
}

// parseDescriptorLayer splits the first layer into headline blocks.
func parseDescriptorLayer(text string) *metadata.Node {
	out := metadata.NewMapping()
	var block *metadata.Node

	for _, line := range lines(text) {
		if decoration.MatchString(line) {
			continue
		}
		if m := headline.FindStringSubmatch(line); m != nil {
			block = metadata.NewMapping()
			out.Set(strings.TrimSuffix(m[1], ":"), block)
			continue
		}
		if block == nil || strings.TrimSpace(line) == "" {
			continue
		}
		key, value, _ := strings.Cut(line, "\t")
		block.SetString(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return out
}

// parseStandardLayer parses "KEY    value" lines.
func parseStandardLayer(text string) *metadata.Node {
	out := metadata.NewMapping()
	for i, line := range lines(text) {
		if i == 0 || decoration.MatchString(line) || strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, splDelimiter)
		if !ok {
			key, value, _ = strings.Cut(line, "\t")
		}
		out.SetString(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return out
}

// parseDeviceLayer parses the .DVC blocks. Keys and values are separated by
// as many spaces as needed to reach deviceColumn.
func parseDeviceLayer(text string) *metadata.Node {
	out := metadata.NewMapping()
	var block *metadata.Node

	for _, line := range lines(text) {
		if strings.Contains(line, dvcMarker) {
			name := ""
			if len(line) > devicePrefix {
				name = line[devicePrefix:]
			}
			name, _, _ = strings.Cut(name, ",")
			block = metadata.NewMapping()
			out.Set(strings.TrimSpace(name), block)
			continue
		}
		if block == nil || strings.HasPrefix(line, "*") || strings.TrimSpace(line) == "" {
			continue
		}
		key, value := splitDeviceLine(line)
		block.SetString(key, value)
	}
	return out
}

func splitDeviceLine(line string) (string, string) {
	end := strings.IndexByte(line, ' ')
	if end < 0 {
		return strings.TrimSpace(line), ""
	}
	key := line[:end]
	width := deviceColumn - len(key)
	if width < 1 {
		width = 1
	}
	if _, value, ok := strings.Cut(line, strings.Repeat(" ", width)); ok {
		return key, strings.TrimRight(value, " ")
	}
	return key, strings.TrimSpace(line[end:])
}

// ParseFlat parses descriptor text line by line into a flat mapping. Each
// line is split at the first '=' or run of whitespace; numeric values are
// stored as numbers. Comment, decoration and device headline lines are
// skipped. Later occurrences of a key replace earlier ones.
func ParseFlat(text string) *metadata.Node {
	out := metadata.NewMapping()
	for _, line := range lines(text) {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "*") || strings.HasPrefix(t, "#") || strings.HasPrefix(t, dvcMarker) {
			continue
		}
		var key, value string
		if k, v, ok := strings.Cut(t, "="); ok && !strings.ContainsAny(k, " \t") {
			key, value = k, v
		} else if i := strings.IndexAny(t, " \t"); i >= 0 {
			key, value = t[:i], t[i:]
		} else {
			key = t
		}
		out.Set(strings.TrimSpace(key), metadata.Coerce(strings.TrimSpace(value)))
	}
	return out
}

// index builds the flat lookup used by Text, Float and Int. For layered
// descriptors it covers the descriptor and standard parameter layers; the
// first occurrence of a key wins.
func (d *Descriptor) index() {
	d.params = make(map[string]*metadata.Node)
	add := func(n *metadata.Node) {
		for _, k := range n.Keys() {
			if _, seen := d.params[k]; !seen {
				v, _ := n.Get(k)
				d.params[k] = v
			}
		}
	}

	if !d.Layered {
		add(d.Tree)
		return
	}
	desc, _ := d.Tree.Get(LayerDescriptor)
	for _, block := range desc.Keys() {
		n, _ := desc.Get(block)
		add(n)
	}
	spl, _ := d.Tree.Get(LayerStandard)
	add(spl)
}

// checkExperiment requires EXPT=CW. Layered descriptors must carry it in the
// standard parameter layer; an EXPT in the descriptor layer does not count.
func (d *Descriptor) checkExperiment() error {
	params := d.Tree
	if d.Layered {
		params, _ = d.Tree.Get(LayerStandard)
	}
	v, ok := params.Get("EXPT")
	if !ok {
		return fmt.Errorf("%w: EXPT missing", format.ErrExperimentType)
	}
	if got := strings.Trim(strings.TrimSpace(v.Text()), "'"); got != "CW" {
		return fmt.Errorf("%w: EXPT is %q", format.ErrExperimentType, got)
	}
	return nil
}

// Text returns the value of a descriptor or standard-layer key with
// surrounding quotes removed.
func (d *Descriptor) Text(key string) string {
	v, ok := d.params[key]
	if !ok {
		return ""
	}
	return strings.Trim(strings.TrimSpace(v.Text()), "'")
}

// Float returns a numeric key.
func (d *Descriptor) Float(key string) (float64, bool) {
	v, ok := d.params[key]
	if !ok {
		return 0, false
	}
	if f, ok := v.Value().(float64); ok {
		return f, true
	}
	f, err := strconv.ParseFloat(d.Text(key), 64)
	return f, err == nil
}

// Int returns an integer key.
func (d *Descriptor) Int(key string) (int, bool) {
	f, ok := d.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// DeviceValue returns a key of a device-layer block. The inline variant has
// no device blocks and looks the key up at the root.
func (d *Descriptor) DeviceValue(device, key string) (*metadata.Node, bool) {
	if !d.Layered {
		return d.Tree.Get(key)
	}
	return d.Tree.Lookup(LayerDevice + "/" + device + "/" + key)
}

func lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
