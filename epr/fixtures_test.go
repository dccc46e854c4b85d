package epr

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/robert-malhotra/go-epr/internal/dtype"
)

// bes3tDescriptor returns a layered descriptor for a 1-D field sweep of
// xpts points centred at 3500 G with a 100 G sweep.
func bes3tDescriptor(expt string, xpts int) string {
	return strings.Join([]string{
		"#DESC\t1.2 * DESCRIPTOR INFORMATION ***********************",
		"*",
		"*\tDataset Type and Format:",
		"*",
		"DSRC\tEXP",
		"BSEQ\tBIG",
		"IKKF\tREAL",
		"XTYP\tIDX",
		"YTYP\tNODATA",
		"IRFMT\tD",
		"XPTS\t" + strconv.Itoa(xpts),
		"XMIN\t3450.000000",
		"XWID\t88.888889",
		"TITL\t'tempo'",
		"*",
		"#SPL\t1.2 * STANDARD PARAMETER LAYER",
		"*",
		"OPER    xuser",
		"DATE    06/29/20",
		"TIME    11:42:11",
		"EXPT    " + expt,
		"MWFQ    9.754e+09",
		"MWPW    0.0002",
		"*",
		"#DSL\t1.0 * DEVICE SPECIFIC LAYER",
		"*",
		".DVC     fieldCtrl, 1.0",
		"",
		"CenterField        3500.00 G",
		"SweepWidth         100.0 G",
		"*",
		".DVC     signalChannel, 1.0",
		"",
		"ModAmp             1.000 G",
		"ModFreq            100.00 kHz",
		"",
	}, "\n")
}

const infoText = `cwEPR Info file - v. 0.1.4

GENERAL
Operator: Jane
Purpose:  testing

SAMPLE
Name: TEMPO

COMMENT
degassed
`

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// writeBES3T writes name.DSC and name.DTA into dir and returns the stem.
func writeBES3T(t *testing.T, dir, name, expt string, values []float64) string {
	t.Helper()
	stem := filepath.Join(dir, name)
	writeFile(t, stem+".DSC", []byte(bes3tDescriptor(expt, len(values))))
	writeFile(t, stem+".DTA", dtype.Encode(values, dtype.Float64BE))
	return stem
}

// writeText writes a two-column spectrum over the given field range.
func writeText(t *testing.T, path string, start, step float64, values []float64) {
	t.Helper()
	var sb strings.Builder
	for i, v := range values {
		sb.WriteString(strconv.FormatFloat(start+step*float64(i), 'g', -1, 64))
		sb.WriteByte('\t')
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		sb.WriteByte('\n')
	}
	writeFile(t, path, []byte(sb.String()))
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

const winEPRPar = `DOS  Format
ANZ 8
JON xuser
JUN G
HCF 3400.000000
HSW 100.000000
RES 8
MF  9.412000
MP  2.000e+00
`

// writeWinEPR writes an EMX name.par and name.spc pair into dir and returns
// the stem.
func writeWinEPR(t *testing.T, dir, name string, values []float64) string {
	t.Helper()
	stem := filepath.Join(dir, name)
	writeFile(t, stem+".par", []byte(winEPRPar))
	writeFile(t, stem+".spc", dtype.Encode(values, dtype.Float32LE))
	return stem
}
