package codecs

import (
	"encoding/json"
	"io"
	"reflect"

	fxcbor "github.com/fxamacker/cbor/v2"
	cd "github.com/ugorji/go/codec"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/cbor-go/format/cbor"
	"github.com/eluv-io/cbor-go/format/cbor/tags"
)

var (
	// CborCodec is the default CBOR stream codec. It encodes times as epoch
	// tags and big integers as bignums and revives both on decoding.
	CborCodec = NewCborCodec(cbor.NewConfig()).WithHooks(
		tags.ChainReplacers(tags.TimeReplacer, tags.BignumReplacer),
		tags.Chain(tags.StripSelfDescribe, tags.TimeReviver, tags.BignumReviver))

	JsonCodec       = makeJsonCodec()
	FxCborCodec     = makeFxCborCodec()
	UgorjiCborCodec = makeUgorjiCborCodec()

	CborMultiCodecPath       = "/cbor"
	JsonMultiCodecPath       = "/json"
	FxCborMultiCodecPath     = "/cbor-fx"
	UgorjiCborMultiCodecPath = "/cbor-ugorji"

	CborMultiCodec       = NewMultiCodec(CborCodec, CborMultiCodecPath)
	JsonMultiCodec       = NewMultiCodec(JsonCodec, JsonMultiCodecPath)
	FxCborMultiCodec     = NewMultiCodec(FxCborCodec, FxCborMultiCodecPath)
	UgorjiCborMultiCodec = NewMultiCodec(UgorjiCborCodec, UgorjiCborMultiCodecPath)

	// CborMuxCodec encodes with CborMultiCodec and decodes streams produced by
	// any of the multi codecs above.
	CborMuxCodec = NewMuxCodec(CborMultiCodec, JsonMultiCodec, FxCborMultiCodec, UgorjiCborMultiCodec)
)

// CborEncode encodes the given value as CBOR and writes it to the writer. No
// MultiCodec header is written.
func CborEncode(w io.Writer, v interface{}) error {
	return CborCodec.Encoder(w).Encode(v)
}

// CborDecode decodes the next CBOR data item from the reader into the given
// target. The data is not expected to have a MultiCodec header.
func CborDecode(r io.Reader, v interface{}) error {
	return CborCodec.Decoder(r).Decode(v)
}

func makeJsonCodec() Codec {
	return NewCodec(
		func(w io.Writer) Encoder {
			return json.NewEncoder(w)
		},
		func(r io.Reader) Decoder {
			return json.NewDecoder(r)
		},
	)
}

// makeFxCborCodec creates a codec based on github.com/fxamacker/cbor/v2 using
// core deterministic encoding. Times are written as epoch tags like the
// default codec does.
func makeFxCborCodec() Codec {
	encOptions := fxcbor.CoreDetEncOptions()
	encOptions.Time = fxcbor.TimeUnixDynamic
	encOptions.TimeTag = fxcbor.EncTagRequired
	enc, err := encOptions.EncMode()
	if err != nil {
		panic(errors.E("create fxamacker encoder mode", errors.K.Invalid, err))
	}

	dec, err := fxcbor.DecOptions{
		DefaultMapType:  reflect.TypeOf((map[string]interface{})(nil)),
		MaxNestedLevels: cbor.DefaultMaxDepth,
	}.DecMode()
	if err != nil {
		panic(errors.E("create fxamacker decoder mode", errors.K.Invalid, err))
	}

	return NewCodec(
		func(w io.Writer) Encoder {
			return enc.NewEncoder(w)
		},
		func(r io.Reader) Decoder {
			return dec.NewDecoder(r)
		},
	)
}

// makeUgorjiCborCodec creates a codec based on github.com/ugorji/go/codec with
// canonical map ordering.
func makeUgorjiCborCodec() Codec {
	handle := &cd.CborHandle{}
	handle.MapType = reflect.TypeOf(map[string]interface{}(nil))
	handle.Canonical = true

	return NewCodec(
		func(w io.Writer) Encoder {
			return cd.NewEncoder(w, handle)
		},
		func(r io.Reader) Decoder {
			return cd.NewDecoder(r, handle)
		},
	)
}
