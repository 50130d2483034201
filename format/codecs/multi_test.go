package codecs_test

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/cbor-go/format/codecs"
	"github.com/eluv-io/cbor-go/format/codecs/header"
)

type TypeV1 string

type TypeV2 struct {
	String string `json:"string"`
	Number int    `json:"number"`
}

var allMultiCodecs = []codecs.MultiCodec{
	codecs.CborMultiCodec,
	codecs.JsonMultiCodec,
	codecs.FxCborMultiCodec,
	codecs.UgorjiCborMultiCodec,
	codecs.CborMuxCodec,
}

func TestMultiCodecs(t *testing.T) {
	v1 := TypeV1("a string")
	v2 := TypeV2{String: "another string", Number: 2}

	for _, testCodec := range allMultiCodecs {
		t.Run(header.Path(testCodec.Header()), func(t *testing.T) {
			buf := new(bytes.Buffer)
			enc := testCodec.Encoder(buf)
			require.NoError(t, enc.Encode(v1))
			require.NoError(t, enc.Encode(v2))
			require.NoError(t, enc.Encode(v1))

			expected := testCodec.Header()
			if mux, ok := testCodec.(*codecs.MuxCodec); ok {
				expected = mux.Codecs[0].Header()
			}
			require.True(t, bytes.HasPrefix(buf.Bytes(), expected))
			// the header is written only once
			require.Equal(t, 1, bytes.Count(buf.Bytes(), expected))

			dec := testCodec.Decoder(buf)
			var val1 TypeV1
			require.NoError(t, dec.Decode(&val1))
			require.Equal(t, v1, val1)

			var val2 TypeV2
			require.NoError(t, dec.Decode(&val2))
			require.Equal(t, v2, val2)

			val1 = ""
			require.NoError(t, dec.Decode(&val1))
			require.Equal(t, v1, val1)

			require.Equal(t, io.EOF, dec.Decode(&val1))
		})
	}
}

func TestMultiCodecEmptyStream(t *testing.T) {
	for _, testCodec := range allMultiCodecs {
		t.Run(header.Path(testCodec.Header()), func(t *testing.T) {
			var v interface{}
			err := testCodec.Decoder(new(bytes.Buffer)).Decode(&v)
			require.Equal(t, io.EOF, err)
		})
	}
}

func TestMultiCodecHeaderMismatch(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, codecs.JsonMultiCodec.Encoder(buf).Encode("text"))

	var s string
	err := codecs.CborMultiCodec.Decoder(buf).Decode(&s)
	require.Error(t, err)
	require.True(t, errors.IsKind(errors.K.Invalid, err))
	for name, want := range map[string]string{
		"reason":   "invalid header",
		"actual":   "/json",
		"expected": "/cbor",
	} {
		got, ok := errors.GetField(err, name)
		require.True(t, ok, name)
		require.Equal(t, want, got, name)
	}
}

func TestMultiCodecInvalidHeader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"truncated length", []byte{0x80}, io.ErrUnexpectedEOF},
		{"truncated path", []byte("\x06/cbor"), io.ErrUnexpectedEOF},
		{"missing newline", []byte("\x06/cbor/\xa0"), header.ErrHeaderInvalid},
		{"zero length", []byte{0x00, 0xa0}, header.ErrHeaderInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v interface{}
			err := codecs.CborMultiCodec.Decoder(bytes.NewReader(tt.data)).Decode(&v)
			require.Equal(t, tt.want, err)
		})
	}
}

func TestNewMultiCodecPanics(t *testing.T) {
	require.Panics(t, func() {
		codecs.NewMultiCodec(codecs.CborCodec, "/"+strings.Repeat("x", header.MaxPathLength))
	})
}

func ExampleNewMultiCodec() {
	codec := codecs.NewMultiCodec(codecs.CborCodec, "/my-cbor")

	buf := new(bytes.Buffer)
	_ = codec.Encoder(buf).Encode(map[string]interface{}{"a": 1})
	fmt.Printf("%q\n", buf.String())

	var m map[string]interface{}
	_ = codec.Decoder(buf).Decode(&m)
	fmt.Println(m)

	// Output:
	// "\t/my-cbor\n\xa1aa\x01"
	// map[a:1]
}
