package codecs

import (
	"encoding"
	"encoding/json"
	"io"
	"math/big"
	"reflect"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/cbor-go/format/cbor"
	"github.com/eluv-io/cbor-go/format/cbor/tags"
	"github.com/eluv-io/cbor-go/util/codecutil"
)

// minRead is the minimum number of bytes requested from the reader when the
// decoder needs more input.
const minRead = 4096

var _ Codec = (*CborStreamCodec)(nil)

// CborStreamCodec is a streaming Codec based on the cbor package. Each call to
// Encode writes one data item, so a stream of encoded objects is a CBOR
// sequence. Decode reads the next data item.
//
// Structs are encoded as maps of their exported fields (see
// codecutil.MapEncode), structs implementing encoding.TextMarshaler (e.g.
// time.Time) as text strings. The optional Replacer is called before that
// conversion, the optional Reviver during decoding.
type CborStreamCodec struct {
	Config   cbor.Config
	Replacer cbor.Replacer
	Reviver  cbor.Reviver
}

// NewCborCodec creates a CborStreamCodec with the given configuration.
func NewCborCodec(cfg cbor.Config) *CborStreamCodec {
	return &CborStreamCodec{Config: cfg}
}

// WithHooks returns a copy of the codec that uses the given replacer and
// reviver.
func (c *CborStreamCodec) WithHooks(replacer cbor.Replacer, reviver cbor.Reviver) *CborStreamCodec {
	clone := *c
	clone.Replacer = replacer
	clone.Reviver = reviver
	return &clone
}

func (c *CborStreamCodec) Encoder(w io.Writer) Encoder {
	return &cborEncoder{
		writer:   w,
		config:   c.Config,
		replacer: tags.ChainReplacers(c.Replacer, StructReplacer),
	}
}

func (c *CborStreamCodec) Decoder(r io.Reader) Decoder {
	return &cborDecoder{
		reader:  r,
		config:  c.Config,
		reviver: c.Reviver,
	}
}

////////////////////////////////////////////////////////////////////////////////

type cborEncoder struct {
	writer   io.Writer
	config   cbor.Config
	replacer cbor.Replacer
}

func (e *cborEncoder) Encode(obj interface{}) error {
	b, err := e.config.Encode(obj, e.replacer)
	if err != nil {
		return err
	}
	_, err = e.writer.Write(b)
	if err != nil {
		return errors.E("cborEncoder.Encode", errors.K.IO, err)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

type cborDecoder struct {
	reader  io.Reader
	config  cbor.Config
	reviver cbor.Reviver
	buf     []byte
	eof     bool
}

// Decode decodes the next data item into obj, which must be one of
//   - *cbor.Value: the decoded value
//   - *interface{}: the value converted with cbor.ToNative
//   - any other pointer: the native value decoded with codecutil.MapDecode
//
// Returns io.EOF if the stream ends before the next data item.
func (d *cborDecoder) Decode(obj interface{}) error {
	v, err := d.next()
	if err != nil {
		return err
	}
	return assign(v, obj)
}

func (d *cborDecoder) next() (cbor.Value, error) {
	for {
		if len(d.buf) > 0 {
			v, rest, err := d.config.DecodeFirst(d.buf, d.reviver)
			if err == nil {
				d.buf = rest
				return v, nil
			}
			if d.eof || cbor.ReasonOf(err) != cbor.ReasonTruncated {
				return nil, err
			}
		} else if d.eof {
			return nil, io.EOF
		}
		if err := d.fill(); err != nil {
			return nil, err
		}
	}
}

// fill reads more input, at least doubling the buffered amount if the reader
// delivers.
func (d *cborDecoder) fill() error {
	size := len(d.buf)
	if size < minRead {
		size = minRead
	}
	chunk := make([]byte, size)
	n, err := d.reader.Read(chunk)
	d.buf = append(d.buf, chunk[:n]...)
	if err == io.EOF {
		d.eof = true
		return nil
	}
	if err != nil {
		return errors.E("cborDecoder.Decode", errors.K.IO, err)
	}
	return nil
}

func assign(v cbor.Value, obj interface{}) error {
	switch t := obj.(type) {
	case *cbor.Value:
		*t = v
		return nil
	case *interface{}:
		native, err := cbor.ToNative(v)
		if err != nil {
			return err
		}
		*t = native
		return nil
	}

	native, err := cbor.ToNative(v)
	if err != nil {
		return err
	}
	err = codecutil.MapDecode(native, obj, true)
	if err != nil {
		return errors.E("cborDecoder.Decode", errors.K.Invalid, err,
			"target_type", reflect.TypeOf(obj).String())
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

var (
	textMarshaler = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	bigIntType    = reflect.TypeOf(big.Int{})
	taggedType    = reflect.TypeOf(cbor.Tagged{})
	opaqueType    = reflect.TypeOf(cbor.Opaque{})
)

// StructReplacer is a cbor.Replacer that converts structs and pointers to
// structs: structs implementing encoding.TextMarshaler become text strings,
// all others maps of their exported fields. Values the cbor package encodes
// natively are kept.
func StructReplacer(key cbor.Key, v interface{}) (cbor.EncodeAction, error) {
	switch v.(type) {
	case nil, cbor.Value, json.Number:
		return cbor.Keep(v), nil
	}

	rv := reflect.ValueOf(v)
	rt := rv.Type()
	if rt.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return cbor.Keep(v), nil
		}
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return cbor.Keep(v), nil
	}
	switch rt {
	case bigIntType, taggedType, opaqueType:
		return cbor.Keep(v), nil
	}

	if tm, ok := v.(encoding.TextMarshaler); ok {
		text, err := tm.MarshalText()
		if err != nil {
			return cbor.EncodeAction{}, err
		}
		return cbor.Keep(string(text)), nil
	}
	if reflect.PointerTo(rt).Implements(textMarshaler) {
		ptr := reflect.New(rt)
		ptr.Elem().Set(reflect.Indirect(rv))
		text, err := ptr.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return cbor.EncodeAction{}, err
		}
		return cbor.Keep(string(text)), nil
	}

	m, err := codecutil.MapEncode(v)
	if err != nil {
		return cbor.EncodeAction{}, err
	}
	return cbor.Keep(m), nil
}
