// Package magnettech reads Magnettech MiniScope XML recordings (.xml).
//
// A recording holds one or more measurements. Each stores its waveforms as
// base64 text in which every 8-byte little-endian double is encoded on its
// own and terminated by its padding character, so the payload is a run of
// '='-separated chunks rather than one base64 string.
package magnettech

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/robert-malhotra/go-epr/internal/format"
)

const doubleSize = 8

// DecodePayload decodes a '='-separated base64 waveform into doubles in
// their stored order.
func DecodePayload(payload string) ([]float64, error) {
	payload = strings.Join(strings.Fields(payload), "")
	if payload == "" {
		return nil, nil
	}

	var raw []byte
	for _, chunk := range strings.Split(payload, "=") {
		if chunk == "" {
			continue
		}
		if pad := len(chunk) % 4; pad != 0 {
			chunk += strings.Repeat("=", 4-pad)
		}
		b, err := base64.StdEncoding.DecodeString(chunk)
		if err != nil {
			return nil, fmt.Errorf("%w: base64 chunk %q: %v", format.ErrCorrupt, chunk, err)
		}
		raw = append(raw, b...)
	}

	if len(raw)%doubleSize != 0 {
		return nil, fmt.Errorf("%w: payload of %d bytes is not a whole number of doubles", format.ErrCorrupt, len(raw))
	}
	out := make([]float64, len(raw)/doubleSize)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*doubleSize:]))
	}
	return out, nil
}

// EncodePayload is the inverse of DecodePayload.
func EncodePayload(values []float64) string {
	var sb strings.Builder
	buf := make([]byte, doubleSize)
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		sb.WriteString(base64.StdEncoding.EncodeToString(buf))
	}
	return sb.String()
}
