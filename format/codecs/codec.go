package codecs

import (
	"io"
)

// Codec creates stream encoders and decoders for a given wire format. Encoders
// write one encoded object per call to Encode, decoders read one object per
// call to Decode.
type Codec interface {
	// Decoder returns a Decoder reading encoded objects from r.
	Decoder(r io.Reader) Decoder

	// Encoder returns an Encoder writing encoded objects to w.
	Encoder(w io.Writer) Encoder
}

// Encoder encodes objects and writes them to an underlying io.Writer.
type Encoder interface {
	Encode(obj interface{}) error
}

// Decoder reads the next encoded object from an underlying io.Reader and
// decodes it into the given target. Returns io.EOF at the end of the stream.
type Decoder interface {
	Decode(obj interface{}) error
}

////////////////////////////////////////////////////////////////////////////////

type CreateEncoderFn func(w io.Writer) Encoder
type CreateDecoderFn func(r io.Reader) Decoder

// NewCodec creates a Codec from encoder and decoder factory functions.
func NewCodec(enc CreateEncoderFn, dec CreateDecoderFn) Codec {
	return &codec{encoderFn: enc, decoderFn: dec}
}

type codec struct {
	encoderFn CreateEncoderFn
	decoderFn CreateDecoderFn
}

func (c *codec) Decoder(r io.Reader) Decoder {
	return c.decoderFn(r)
}

func (c *codec) Encoder(w io.Writer) Encoder {
	return c.encoderFn(w)
}
