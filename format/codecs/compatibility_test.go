package codecs_test

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/utc-go"

	"github.com/eluv-io/cbor-go/format/codecs"
)

var cborCodecs = []struct {
	name  string
	codec codecs.Codec
}{
	{"cbor", codecs.CborCodec},
	{"fx", codecs.FxCborCodec},
	{"ugorji", codecs.UgorjiCborCodec},
}

// TestCompBasic encodes values with all CBOR codecs and decodes each encoding
// with all codecs.
func TestCompBasic(t *testing.T) {
	tc("test string").run(t)
	tc([]byte("test bytes")).run(t)

	tc(uint64(6477)).run(t) // positive ints are decoded to uint64
	tc(int64(-6499)).run(t) // negative ints are decoded to int64
	tc(int8(99)).wants(uint64(99)).run(t)
	tc(int32(-3299)).wants(int64(-3299)).run(t)
	tc(uint64(1) << 63).run(t)

	tc(-2135.987324).run(t)
	// fx writes the shortest float encoding
	tc(1.5).disableExactMatch().run(t)
	tc(float32(0.25)).wants(0.25).disableExactMatch().run(t)

	tc(true).run(t)
	tc(false).run(t)
	tc(nil).run(t)

	tc([]int{10, 11, 12}).wants([]interface{}{uint64(10), uint64(11), uint64(12)}).run(t)
	tc([]interface{}{uint64(1), "a", true, nil}).run(t)
	tc(map[string]interface{}{"a": uint64(1), "b": "x", "c": []interface{}{int64(-1)}}).run(t)
}

func TestCompTime(t *testing.T) {
	ts := time.Unix(1000000000, 0)

	ours := &bytes.Buffer{}
	require.NoError(t, codecs.CborCodec.Encoder(ours).Encode(utc.New(ts)))
	fx := &bytes.Buffer{}
	require.NoError(t, codecs.FxCborCodec.Encoder(fx).Encode(ts))
	require.Equal(t, "c11a3b9aca00", hex.EncodeToString(ours.Bytes()))
	require.Equal(t, ours.Bytes(), fx.Bytes())

	var decoded time.Time
	require.NoError(t, codecs.FxCborCodec.Decoder(bytes.NewReader(ours.Bytes())).Decode(&decoded))
	require.True(t, ts.Equal(decoded))

	var native interface{}
	require.NoError(t, codecs.CborCodec.Decoder(fx).Decode(&native))
	require.Equal(t, utc.New(ts), native)

	// fractional seconds are encoded as float
	ours.Reset()
	frac := time.Unix(1000000000, 250000000)
	require.NoError(t, codecs.CborCodec.Encoder(ours).Encode(frac))
	require.NoError(t, codecs.FxCborCodec.Decoder(ours).Decode(&decoded))
	require.True(t, frac.Equal(decoded))
}

type fxRecord struct {
	Name    string    `json:"name"`
	Count   int       `json:"count"`
	Created time.Time `json:"created"`
}

type utcRecord struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Created utc.UTC `json:"created"`
}

func TestCompStruct(t *testing.T) {
	ts := time.Unix(1600000000, 0)
	fxRec := fxRecord{Name: "n", Count: 7, Created: ts}
	utcRec := utcRecord{Name: "n", Count: 7, Created: utc.New(ts)}

	fx := &bytes.Buffer{}
	require.NoError(t, codecs.FxCborCodec.Encoder(fx).Encode(fxRec))
	ours := &bytes.Buffer{}
	require.NoError(t, codecs.CborCodec.Encoder(ours).Encode(utcRec))
	require.Equal(t, hex.EncodeToString(fx.Bytes()), hex.EncodeToString(ours.Bytes()))

	var gotUTC utcRecord
	require.NoError(t, codecs.CborCodec.Decoder(fx).Decode(&gotUTC))
	require.Equal(t, utcRec, gotUTC)

	var gotFx fxRecord
	require.NoError(t, codecs.FxCborCodec.Decoder(ours).Decode(&gotFx))
	require.True(t, ts.Equal(gotFx.Created))
	gotFx.Created = ts
	require.Equal(t, fxRec, gotFx)
}

////////////////////////////////////////////////////////////////////////////////

type compTest struct {
	val        interface{}
	want       interface{}
	exactMatch bool
}

func tc(val interface{}) *compTest {
	return &compTest{
		val:        val,
		want:       val,
		exactMatch: true,
	}
}

func (c *compTest) wants(want interface{}) *compTest {
	c.want = want
	return c
}

// disableExactMatch skips the comparison of the encodings of the default
// codec and the fxamacker codec.
func (c *compTest) disableExactMatch() *compTest {
	c.exactMatch = false
	return c
}

func (c *compTest) run(t *testing.T) {
	t.Run(fmt.Sprintf("%T-%v", c.val, c.val), func(t *testing.T) {
		encoded := make([][]byte, len(cborCodecs))
		for i, enc := range cborCodecs {
			buf := &bytes.Buffer{}
			require.NoError(t, enc.codec.Encoder(buf).Encode(c.val), enc.name)
			encoded[i] = buf.Bytes()
		}

		if c.exactMatch {
			require.Equal(t, hex.EncodeToString(encoded[1]), hex.EncodeToString(encoded[0]))
		}

		for i, enc := range cborCodecs {
			for _, dec := range cborCodecs {
				var res interface{}
				err := dec.codec.Decoder(bytes.NewReader(encoded[i])).Decode(&res)
				require.NoError(t, err, "%s -> %s", enc.name, dec.name)
				require.Equal(t, c.want, res, "%s -> %s", enc.name, dec.name)
			}
		}
	})
}
