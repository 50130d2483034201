package codecs

import (
	"bytes"
	"io"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/cbor-go/format/codecs/header"
)

var (
	ErrNoCodec = errors.Str("no suitable codec")

	// MuxHeader is the header written by a wrapping MuxCodec.
	MuxHeader = header.New("/multicodec")

	_ MultiCodec = (*MuxCodec)(nil)
)

// NewMuxCodec creates a codec that muxes between the given codecs - see
// MuxCodec.
func NewMuxCodec(codecs ...MultiCodec) *MuxCodec {
	return &MuxCodec{Codecs: codecs, Select: SelectFirst}
}

// SelectCodec selects the codec to use for encoding the given object.
type SelectCodec func(v interface{}, codecs []MultiCodec) MultiCodec

// SelectFirst is the default SelectCodec function. It selects the first codec.
func SelectFirst(_ interface{}, codecs []MultiCodec) MultiCodec {
	if len(codecs) == 0 {
		return nil
	}
	return codecs[0]
}

// MuxCodec muxes between the given codecs. The codec for encoding is chosen
// with the Select function for the first object being encoded. The codec for
// decoding is chosen according to the header found at the start of the
// stream.
//
// NOTE: as with any MultiCodec the header is written only once at the start
// of the stream, and all objects of a stream are decoded with the same codec.
//
// MuxCodec encoders and decoders are NOT thread-safe.
type MuxCodec struct {
	Codecs []MultiCodec // codecs to use
	Select SelectCodec  // pick a codec for encoding
	Wrap   bool         // whether to prefix the stream with MuxHeader
}

func (c *MuxCodec) Header() header.Header {
	return MuxHeader
}

func (c *MuxCodec) Encoder(w io.Writer) Encoder {
	return &muxEncoder{writer: w, mux: c}
}

func (c *MuxCodec) Decoder(r io.Reader) Decoder {
	return &muxDecoder{reader: r, mux: c}
}

func (c *MuxCodec) codecForHeader(hdr header.Header) MultiCodec {
	for _, codec := range c.Codecs {
		if bytes.Equal(hdr, codec.Header()) {
			return codec
		}
	}
	return nil
}

type muxEncoder struct {
	writer io.Writer
	mux    *MuxCodec
	enc    Encoder
}

func (e *muxEncoder) Encode(v interface{}) error {
	if e.enc == nil {
		codec := e.mux.Select(v, e.mux.Codecs)
		if codec == nil {
			return errors.E("muxEncoder.Encode", errors.K.NotExist, ErrNoCodec)
		}
		if e.mux.Wrap {
			if err := header.WriteHeader(e.writer, MuxHeader); err != nil {
				return errors.E("muxEncoder.Encode", errors.K.IO, err)
			}
		}
		e.enc = codec.Encoder(e.writer)
	}
	return e.enc.Encode(v)
}

type muxDecoder struct {
	reader io.Reader
	mux    *MuxCodec
	dec    Decoder
}

func (d *muxDecoder) Decode(v interface{}) error {
	if d.dec == nil {
		if d.mux.Wrap {
			if err := header.ConsumeHeader(d.reader, MuxHeader); err != nil {
				return err
			}
		}

		hdr, err := header.ReadHeader(d.reader)
		if err != nil {
			return err
		}

		codec := d.mux.codecForHeader(hdr)
		if codec == nil {
			return errors.E("muxDecoder.Decode", errors.K.NotExist, ErrNoCodec, "header", hdr.Path())
		}

		// the selected codec consumes the header again
		d.dec = codec.Decoder(header.WrapHeaderReader(hdr, d.reader))
	}
	return d.dec.Decode(v)
}
