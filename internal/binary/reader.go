// Package binary provides a bounded, cursor-based reader for fixed-layout
// binary records such as the NIEHS lmb spectrum files.
package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrTruncated is returned when a read would run past the end of the input.
var ErrTruncated = errors.New("binary: read past end of data")

// Reader reads fixed-size values from an io.ReaderAt while tracking a running
// byte cursor. Every read is checked against the declared size before it is
// issued, so a truncated record fails fast instead of yielding short data.
type Reader struct {
	r     io.ReaderAt
	order binary.ByteOrder
	size  int64
	pos   int64
}

// NewReader creates a reader over r, which holds exactly size bytes.
func NewReader(r io.ReaderAt, size int64, order binary.ByteOrder) *Reader {
	return &Reader{
		r:     r,
		order: order,
		size:  size,
	}
}

// FromBytes creates a reader over an in-memory buffer.
func FromBytes(data []byte, order binary.ByteOrder) *Reader {
	return NewReader(bytes.NewReader(data), int64(len(data)), order)
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int64 {
	return r.size - r.pos
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	if int64(n) > r.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, %d left", ErrTruncated, n, r.pos, r.Remaining())
	}
	buf := make([]byte, n)
	if _, err := r.r.ReadAt(buf, r.pos); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(buf), nil
}

// ReadFloat32 reads an IEEE-754 single precision value.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFloat32s reads n consecutive single precision values, widened to float64.
func (r *Reader) ReadFloat32s(n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("binary: negative element count %d", n)
	}
	buf, err := r.ReadBytes(n * 4)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(math.Float32frombits(r.order.Uint32(buf[i*4:])))
	}
	return out, nil
}

// ReadString reads an n-byte fixed-width field and trims NUL padding.
func (r *Reader) ReadString(n int) (string, error) {
	buf, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return TrimNUL(buf), nil
}

// TrimNUL returns buf as a string with everything from the first NUL byte
// removed, along with surrounding whitespace.
func TrimNUL(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(bytes.TrimSpace(buf))
}
