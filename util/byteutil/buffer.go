package byteutil

import (
	"encoding/binary"
	"math"

	"github.com/eluv-io/errors-go"
)

// ReasonOutOfBounds is the value of the "reason" field of errors returned by
// the read accessors of Buffer when the requested range exceeds the buffer.
const ReasonOutOfBounds = "out of bounds"

// minGrowth is the capacity allocated on the first write to an empty buffer.
const minGrowth = 64

// Buffer is a growable byte buffer with big-endian fixed-width writers and
// non-mutating, bounds-checked readers. Writes always append; reads take an
// explicit offset and never move any cursor. CBOR is network byte order only,
// so there are no little-endian variants.
//
// The zero value is an empty buffer ready to use. A Buffer is not safe for
// concurrent use.
type Buffer struct {
	buf []byte
}

// NewBuffer creates an empty buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{buf: make([]byte, 0, capacity)}
}

// WrapBuffer creates a buffer over the given bytes, typically for reading.
// The bytes are not copied: appending to the returned buffer may or may not
// modify the caller's slice.
func WrapBuffer(b []byte) *Buffer {
	return &Buffer{buf: b}
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Cap returns the current capacity of the buffer.
func (b *Buffer) Cap() int {
	return cap(b.buf)
}

// Bytes returns the content of the buffer. The slice aliases the buffer and
// is only valid until the next write.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Reset empties the buffer but retains the allocated memory.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
}

// Truncate discards all but the first n bytes. It panics if n is negative or
// greater than Len(), like bytes.Buffer.Truncate.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > len(b.buf) {
		panic("byteutil.Buffer: truncation out of range")
	}
	b.buf = b.buf[:n]
}

// grow makes room for n more bytes and returns the offset where they start.
// The capacity at least doubles on every reallocation.
func (b *Buffer) grow(n int) int {
	l := len(b.buf)
	if n <= cap(b.buf)-l {
		b.buf = b.buf[:l+n]
		return l
	}
	c := 2 * cap(b.buf)
	if c < minGrowth {
		c = minGrowth
	}
	if c < l+n {
		c = l + n
	}
	buf := make([]byte, l+n, c)
	copy(buf, b.buf)
	b.buf = buf
	return l
}

// Write appends p to the buffer. It implements io.Writer and never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	off := b.grow(len(p))
	copy(b.buf[off:], p)
	return len(p), nil
}

// WriteByte appends a single byte. It implements io.ByteWriter and never
// fails.
func (b *Buffer) WriteByte(c byte) error {
	b.WriteU8(c)
	return nil
}

func (b *Buffer) WriteU8(v uint8) {
	off := b.grow(1)
	b.buf[off] = v
}

func (b *Buffer) WriteU16(v uint16) {
	off := b.grow(2)
	binary.BigEndian.PutUint16(b.buf[off:], v)
}

func (b *Buffer) WriteU32(v uint32) {
	off := b.grow(4)
	binary.BigEndian.PutUint32(b.buf[off:], v)
}

func (b *Buffer) WriteU64(v uint64) {
	off := b.grow(8)
	binary.BigEndian.PutUint64(b.buf[off:], v)
}

// WriteF32 appends the IEEE-754 single precision bit pattern of v.
func (b *Buffer) WriteF32(v float32) {
	b.WriteU32(math.Float32bits(v))
}

// WriteF64 appends the IEEE-754 double precision bit pattern of v.
func (b *Buffer) WriteF64(v float64) {
	b.WriteU64(math.Float64bits(v))
}

// check returns an error if n bytes cannot be read at offset off.
func (b *Buffer) check(op string, off, n int) error {
	if off < 0 || n < 0 || off > len(b.buf) || n > len(b.buf)-off {
		return errors.NoTrace(op, errors.K.Invalid,
			"reason", ReasonOutOfBounds,
			"offset", off,
			"need", n,
			"have", b.available(off))
	}
	return nil
}

func (b *Buffer) available(off int) int {
	if off < 0 || off > len(b.buf) {
		return 0
	}
	return len(b.buf) - off
}

func (b *Buffer) ReadU8(off int) (uint8, error) {
	if err := b.check("Buffer.ReadU8", off, 1); err != nil {
		return 0, err
	}
	return b.buf[off], nil
}

func (b *Buffer) ReadU16(off int) (uint16, error) {
	if err := b.check("Buffer.ReadU16", off, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b.buf[off:]), nil
}

func (b *Buffer) ReadU32(off int) (uint32, error) {
	if err := b.check("Buffer.ReadU32", off, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b.buf[off:]), nil
}

func (b *Buffer) ReadU64(off int) (uint64, error) {
	if err := b.check("Buffer.ReadU64", off, 8); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b.buf[off:]), nil
}

// ReadF32 reads a single precision float stored as a big-endian bit pattern.
func (b *Buffer) ReadF32(off int) (float32, error) {
	u, err := b.ReadU32(off)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// ReadF64 reads a double precision float stored as a big-endian bit pattern.
func (b *Buffer) ReadF64(off int) (float64, error) {
	u, err := b.ReadU64(off)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// Slice returns a copy of the bytes in the range [start, end).
func (b *Buffer) Slice(start, end int) ([]byte, error) {
	if err := b.check("Buffer.Slice", start, end-start); err != nil {
		return nil, err
	}
	res := make([]byte, end-start)
	copy(res, b.buf[start:end])
	return res, nil
}

// View returns the bytes in the range [start, end) without copying. The result
// aliases the buffer.
func (b *Buffer) View(start, end int) ([]byte, error) {
	if err := b.check("Buffer.View", start, end-start); err != nil {
		return nil, err
	}
	return b.buf[start:end:end], nil
}

// IsOutOfBounds returns true if err was returned by one of the read accessors
// of Buffer because the requested range exceeded the buffer.
func IsOutOfBounds(err error) bool {
	reason, ok := errors.GetField(err, "reason")
	return ok && reason == ReasonOutOfBounds
}
