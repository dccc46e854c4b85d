package dtype

import "math"

// Band is an inclusive-exclusive magnitude range [Lower, Upper).
type Band struct {
	Lower float64
	Upper float64
}

// Bands used by the importers. Newer formats store float64 data where wrong
// byte order produces either denormals or huge exponents; the legacy WinEPR
// band is tighter because float32 and int32 reinterpretations are less extreme.
var (
	ModernBand = Band{Lower: 1e-40, Upper: 1e40}
	LegacyBand = Band{Lower: 1e-10, Upper: 1e10}
)

// Plausible reports whether every non-zero value lies within the band.
// NaN and infinities are never plausible.
func (b Band) Plausible(values []float64) bool {
	for _, v := range values {
		if v == 0 {
			continue
		}
		a := math.Abs(v)
		if math.IsNaN(a) || a < b.Lower || a >= b.Upper {
			return false
		}
	}
	return true
}

// DecodeWithFallback decodes data under first and, if the result is not
// plausible within band, decodes again under second. The returned encoding is
// the one whose result was returned. Implausible data is not an error: when
// both hypotheses fail, the second result is returned.
func DecodeWithFallback(data []byte, first, second Encoding, band Band) ([]float64, Encoding, error) {
	values, err := Decode(data, first)
	if err == nil && band.Plausible(values) {
		return values, first, nil
	}

	values, err = Decode(data, second)
	if err != nil {
		return nil, second, err
	}
	return values, second, nil
}
