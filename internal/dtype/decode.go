package dtype

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrSizeMismatch is returned when a buffer is not a whole number of elements
// or does not hold the expected element count.
var ErrSizeMismatch = errors.New("dtype: buffer size does not match element layout")

// Kind identifies the element type of a raw sample buffer.
type Kind int

const (
	Float64 Kind = iota
	Float32
	Int32
	Int16
	Int8
)

// Size returns the element width in bytes.
func (k Kind) Size() int {
	switch k {
	case Float64:
		return 8
	case Float32, Int32:
		return 4
	case Int16:
		return 2
	case Int8:
		return 1
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case Int16:
		return "int16"
	case Int8:
		return "int8"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Encoding pairs an element kind with a byte order.
type Encoding struct {
	Kind  Kind
	Order binary.ByteOrder
}

func (e Encoding) String() string {
	order := "big-endian"
	if e.Order == binary.LittleEndian {
		order = "little-endian"
	}
	return e.Kind.String() + " " + order
}

// Common encodings.
var (
	Float64BE = Encoding{Kind: Float64, Order: binary.BigEndian}
	Float64LE = Encoding{Kind: Float64, Order: binary.LittleEndian}
	Float32BE = Encoding{Kind: Float32, Order: binary.BigEndian}
	Float32LE = Encoding{Kind: Float32, Order: binary.LittleEndian}
	Int32BE   = Encoding{Kind: Int32, Order: binary.BigEndian}
)

// Decode converts data into float64 values under the given encoding.
// The buffer length must be a whole multiple of the element size.
func Decode(data []byte, enc Encoding) ([]float64, error) {
	size := enc.Kind.Size()
	if size == 0 {
		return nil, fmt.Errorf("dtype: unsupported element kind %v", enc.Kind)
	}
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrSizeMismatch, len(data), size)
	}

	n := len(data) / size
	out := make([]float64, n)
	order := enc.Order

	for i := 0; i < n; i++ {
		elem := data[i*size : (i+1)*size]
		switch enc.Kind {
		case Float64:
			out[i] = math.Float64frombits(order.Uint64(elem))
		case Float32:
			out[i] = float64(math.Float32frombits(order.Uint32(elem)))
		case Int32:
			out[i] = float64(int32(order.Uint32(elem)))
		case Int16:
			out[i] = float64(int16(order.Uint16(elem)))
		case Int8:
			out[i] = float64(int8(elem[0]))
		}
	}
	return out, nil
}

// DecodeN decodes data and verifies it holds exactly n elements.
func DecodeN(data []byte, enc Encoding, n int) ([]float64, error) {
	if want := n * enc.Kind.Size(); len(data) != want {
		return nil, fmt.Errorf("%w: expected %d elements (%d bytes), file holds %d bytes",
			ErrSizeMismatch, n, want, len(data))
	}
	return Decode(data, enc)
}

// Encode converts values to raw bytes under the given encoding.
// Used to build fixtures and to round-trip buffers.
func Encode(values []float64, enc Encoding) []byte {
	size := enc.Kind.Size()
	buf := make([]byte, len(values)*size)
	order := enc.Order

	for i, v := range values {
		elem := buf[i*size : (i+1)*size]
		switch enc.Kind {
		case Float64:
			order.PutUint64(elem, math.Float64bits(v))
		case Float32:
			order.PutUint32(elem, math.Float32bits(float32(v)))
		case Int32:
			order.PutUint32(elem, uint32(int32(v)))
		case Int16:
			order.PutUint16(elem, uint16(int16(v)))
		case Int8:
			elem[0] = byte(int8(v))
		}
	}
	return buf
}

// Reshape converts a flat buffer stored as [secondary][primary] (the primary
// sweep is the fast axis on disk) into a matrix indexed [primary][secondary].
func Reshape(values []float64, primary, secondary int) ([][]float64, error) {
	if primary <= 0 || secondary <= 0 || primary*secondary != len(values) {
		return nil, fmt.Errorf("%w: %d values cannot form %dx%d", ErrSizeMismatch, len(values), primary, secondary)
	}
	out := make([][]float64, primary)
	for i := range out {
		row := make([]float64, secondary)
		for j := range row {
			row[j] = values[j*primary+i]
		}
		out[i] = row
	}
	return out, nil
}
