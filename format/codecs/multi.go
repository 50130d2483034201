package codecs

import (
	"bytes"
	"io"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"

	"github.com/eluv-io/cbor-go/format/codecs/header"
)

var log = elog.Get("/eluvio/format/codecs")

// MultiCodec is a Codec that produces and consumes self-describing streams.
// The encoder writes a MultiCodec header once before the first object, the
// decoder reads the header before the first object and verifies that it
// matches:
//
//	HEADER|object1|object2|...
//
// Use a MuxCodec in order to decode streams produced by different codecs.
type MultiCodec interface {
	Header() header.Header
	Encoder(w io.Writer) Encoder
	Decoder(r io.Reader) Decoder
}

// NewMultiCodec wraps the given codec with the header for path. Panics if the
// path is not a valid header path.
func NewMultiCodec(codec Codec, path string) MultiCodec {
	return &multiCodec{
		codec:  codec,
		header: header.New(path),
	}
}

type multiCodec struct {
	codec  Codec
	header header.Header
}

func (m *multiCodec) Header() header.Header {
	return m.header
}

func (m *multiCodec) Encoder(w io.Writer) Encoder {
	return &multiEncoder{
		writer:  w,
		encoder: m.codec.Encoder(w),
		header:  m.header,
	}
}

func (m *multiCodec) Decoder(r io.Reader) Decoder {
	return &multiDecoder{
		reader:  r,
		decoder: m.codec.Decoder(r),
		header:  m.header,
	}
}

////////////////////////////////////////////////////////////////////////////////

type multiEncoder struct {
	writer        io.Writer
	encoder       Encoder
	header        header.Header
	headerWritten bool
}

func (e *multiEncoder) writeHeader() error {
	if e.headerWritten {
		return nil
	}
	err := header.WriteHeader(e.writer, e.header)
	if err != nil {
		return errors.E("multiEncoder.writeHeader", errors.K.IO, err, "header", e.header.Path())
	}
	e.headerWritten = true
	return nil
}

func (e *multiEncoder) Encode(obj interface{}) error {
	err := e.writeHeader()
	if err == nil {
		err = e.encoder.Encode(obj)
	}
	return err
}

////////////////////////////////////////////////////////////////////////////////

type multiDecoder struct {
	reader     io.Reader
	decoder    Decoder
	header     header.Header
	headerRead bool
}

func (d *multiDecoder) readHeader() error {
	if d.headerRead {
		return nil
	}
	hdr, err := header.ReadHeader(d.reader)
	if err != nil {
		return err
	}
	if !bytes.Equal(hdr, d.header) {
		log.Debug("multicodec header mismatch", "expected", d.header, "actual", hdr)
		return errors.E("multiDecoder.readHeader", errors.K.Invalid,
			"reason", "invalid header",
			"expected", d.header.Path(),
			"actual", hdr.Path())
	}
	d.headerRead = true
	return nil
}

// Decode returns io.EOF if the stream is empty.
func (d *multiDecoder) Decode(obj interface{}) error {
	err := d.readHeader()
	if err == nil {
		err = d.decoder.Decode(obj)
	}
	return err
}
