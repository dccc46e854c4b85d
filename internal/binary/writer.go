package binary

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer builds a fixed-layout binary record in memory. It mirrors Reader:
// every value written here can be read back with the matching Read method.
type Writer struct {
	buf   bytes.Buffer
	order binary.ByteOrder
}

// NewWriter creates a writer using the given byte order.
func NewWriter(order binary.ByteOrder) *Writer {
	return &Writer{order: order}
}

// Pos returns the current write position.
func (w *Writer) Pos() int64 {
	return int64(w.buf.Len())
}

// Bytes returns the record written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteUint32 appends an unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteFloat32 appends a single precision value.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat32s appends values narrowed to single precision.
func (w *Writer) WriteFloat32s(values []float64) {
	for _, v := range values {
		w.WriteFloat32(float32(v))
	}
}

// WriteString appends s as an n-byte field, NUL padded. Longer strings are
// cut to n bytes.
func (w *Writer) WriteString(s string, n int) {
	field := make([]byte, n)
	copy(field, s)
	w.buf.Write(field)
}
