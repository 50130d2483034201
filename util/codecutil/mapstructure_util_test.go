package codecutil_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/cbor-go/format/cbor"
	"github.com/eluv-io/cbor-go/util/codecutil"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p *point) UnmarshalMap(m map[string]interface{}) error {
	p.X = int(m["x"].(uint64)) * 10
	p.Y = int(m["y"].(uint64)) * 10
	return nil
}

type level int

func (l *level) UnmarshalText(text []byte) error {
	switch string(text) {
	case "low":
		*l = 1
	case "high":
		*l = 2
	}
	return nil
}

type Base struct {
	ID string `json:"id"`
}

type record struct {
	Base
	Name    string            `json:"name"`
	Count   int               `json:"count"`
	Score   float64           `json:"score,omitempty"`
	Bytes   []byte            `json:"bytes"`
	Tags    []string          `json:"tags"`
	Attrs   map[string]string `json:"attrs"`
	Level   level             `json:"level"`
	Point   point             `json:"point"`
	Skipped string            `json:"-"`
	NoTag   bool
	private int
}

func TestMapDecode(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		dst  interface{}
		want interface{}
	}{
		{"text unmarshaler", "high", new(level), level(2)},
		{"map unmarshaler", map[string]interface{}{"x": uint64(1), "y": uint64(2)}, &point{}, point{10, 20}},
		{"interface keys", map[interface{}]interface{}{"x": uint64(3), "y": uint64(4)}, &point{}, point{30, 40}},
		{"base64 bytes", "AQID", &[]byte{}, []byte{1, 2, 3}},
		{"time", "2013-03-21T20:04:00Z", &time.Time{}, time.Date(2013, 3, 21, 20, 4, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := codecutil.MapDecode(tt.src, tt.dst)
			require.NoError(t, err)
			require.Equal(t, tt.want, derefValue(tt.dst))
		})
	}
}

func derefValue(v interface{}) interface{} {
	switch x := v.(type) {
	case *level:
		return *x
	case *point:
		return *x
	case *[]byte:
		return *x
	case *time.Time:
		return *x
	}
	return v
}

func TestMapDecodeStructCBOR(t *testing.T) {
	data, err := cbor.Encode(map[string]interface{}{
		"id":    "r1",
		"name":  "joe",
		"count": 42,
		"score": 1.5,
		"bytes": []byte{1, 2, 3},
		"tags":  []string{"a", "b"},
		"attrs": map[string]string{"k": "v"},
		"level": "low",
		"point": map[string]interface{}{"x": 1, "y": 2},
		"NoTag": true,
	}, nil)
	require.NoError(t, err)

	v, err := cbor.Decode(data, nil)
	require.NoError(t, err)
	src, err := cbor.ToNative(v)
	require.NoError(t, err)

	dst := record{}
	require.NoError(t, codecutil.MapDecode(src, &dst, true))
	require.Equal(t, record{
		Base:  Base{ID: "r1"},
		Name:  "joe",
		Count: 42,
		Score: 1.5,
		Bytes: []byte{1, 2, 3},
		Tags:  []string{"a", "b"},
		Attrs: map[string]string{"k": "v"},
		Level: 1,
		Point: point{10, 20},
		NoTag: true,
	}, dst)
}

func TestMapEncode(t *testing.T) {
	now := time.Unix(0, 0)
	r := &record{
		Base:    Base{ID: "r1"},
		Name:    "joe",
		Bytes:   []byte{1},
		Point:   point{1, 2},
		Skipped: "skipped",
		NoTag:   true,
		private: 7,
	}

	m, err := codecutil.MapEncode(r)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{
		"id":    "r1",
		"name":  "joe",
		"count": 0,
		"bytes": []byte{1},
		"tags":  []string(nil),
		"attrs": map[string]string(nil),
		"level": level(0),
		"point": point{1, 2},
		"NoTag": true,
	}, m)

	m, err = codecutil.MapEncode(struct {
		At  time.Time `json:"at"`
		Num *big.Int  `json:"num,omitempty"`
	}{At: now})
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"at": now}, m)

	_, err = codecutil.MapEncode(42)
	require.Error(t, err)
	_, err = codecutil.MapEncode((*record)(nil))
	require.Error(t, err)
}
