package header

import (
	"bytes"
	"errors"
	"io"

	mc "github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-varint"
)

var (
	ErrHeaderInvalid = errors.New("MultiCodec header invalid")
	ErrMismatch      = errors.New("MultiCodec did not match")
	ErrPathTooLong   = errors.New("MultiCodec path too long")
)

// MaxPathLength is the maximum length of a header path in bytes.
const MaxPathLength = 1024

// Header is the header used by MultiCodecs to identify the codec that created
// an encoding. Its format is
//   - the length of the rest of the header as unsigned varint. For paths
//     shorter than 127 bytes this is a single byte, compatible with
//     github.com/multiformats/go-multicodec headers.
//   - the "path" (an identifier) of the codec. By convention it starts with a
//     slash and contains the codec's name, e.g. "/json" or "/cbor"
//   - a terminating newline to make the header more readable when looking at
//     the encoded data
//
// Create it with New(path)
type Header []byte

// Path returns the path of the MultiCodec header.
func (h Header) Path() string {
	return Path(h)
}

// String is an alias of Path.
func (h Header) String() string {
	return h.Path()
}

// New returns a MultiCodec header built from the given path. Panics if the
// path is longer than MaxPathLength.
func New(path string) Header {
	b, err := NewNoPanic(path)
	if err != nil {
		panic(err.Error())
	}
	return b
}

// NewNoPanic works like New but it returns error instead of calling panic
func NewNoPanic(path string) (Header, error) {
	if len(path) > MaxPathLength {
		return nil, ErrPathTooLong
	}
	l := len(path) + 1 // + \n
	if l < 127 {
		return mc.Header([]byte(path)), nil
	}

	size := varint.ToUvarint(uint64(l))
	buf := make([]byte, 0, len(size)+l)
	buf = append(buf, size...)
	buf = append(buf, path...)
	return append(buf, '\n'), nil
}

// Path returns the MultiCodec path from header
func Path(hdr Header) string {
	_, n, err := varint.FromUvarint(hdr)
	if err != nil {
		return ""
	}
	hdr = hdr[n:]
	if len(hdr) > 0 && hdr[len(hdr)-1] == '\n' {
		hdr = hdr[:len(hdr)-1]
	}
	return string(hdr)
}

// WriteHeader writes a MultiCodec header to a writer.
func WriteHeader(w io.Writer, hdr Header) error {
	_, err := w.Write(hdr)
	return err
}

// ReadHeader reads a MultiCodec header from a reader. The reader is consumed
// byte by byte up to the end of the header.
func ReadHeader(r io.Reader) (hdr Header, err error) {
	br := &byteReader{r: r}
	l, err := varint.ReadUvarint(br)
	if err != nil {
		if err == io.EOF && len(br.read) > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, err
		}
		return nil, ErrHeaderInvalid
	}
	if l == 0 || l > MaxPathLength+1 {
		return nil, ErrHeaderInvalid
	}

	buf := make([]byte, len(br.read)+int(l))
	copy(buf, br.read)
	if _, err := io.ReadFull(r, buf[len(br.read):]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if buf[len(buf)-1] != '\n' {
		return nil, ErrHeaderInvalid
	}
	return buf, nil
}

// ConsumeHeader reads a MultiCodec header from a reader, verifying it matches
// the given header. If it does not, it returns ErrMismatch.
func ConsumeHeader(r io.Reader, header Header) (err error) {
	actual := make([]byte, len(header))
	if _, err := io.ReadFull(r, actual); err != nil {
		return err
	}

	if !bytes.Equal(header, actual) {
		return ErrMismatch
	}
	return nil
}

// WrapHeaderReader returns a reader that first reads the given header, and then the given reader, using io.MultiReader.
// It is useful if the header has been read through, but still needed to pass to a decoder.
func WrapHeaderReader(hdr Header, r io.Reader) io.Reader {
	return io.MultiReader(bytes.NewReader(hdr), r)
}

// byteReader reads single bytes from an io.Reader and records them.
type byteReader struct {
	r    io.Reader
	read []byte
}

func (b *byteReader) ReadByte() (byte, error) {
	var p [1]byte
	if _, err := io.ReadFull(b.r, p[:]); err != nil {
		return 0, err
	}
	b.read = append(b.read, p[0])
	return p[0], nil
}
