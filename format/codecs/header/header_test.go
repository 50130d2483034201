package header

import (
	"bytes"
	"io"
	"strings"
	"testing"

	mc "github.com/multiformats/go-multicodec"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	tests := []struct {
		path      string
		size      int
		wantPanic bool
	}{
		{path: "/cbor", size: 1},
		{path: strings.Repeat("a", 125), size: 1},
		{path: strings.Repeat("b", 126), size: 1},
		{path: strings.Repeat("c", 127), size: 2},
		{path: strings.Repeat("d", MaxPathLength), size: 2},
		{path: strings.Repeat("e", MaxPathLength+1), wantPanic: true},
	}

	for _, test := range tests {
		t.Run(test.path[:1]+"...", func(t *testing.T) {
			if test.wantPanic {
				require.PanicsWithValue(t, ErrPathTooLong.Error(), func() { New(test.path) })
				return
			}

			hdr := New(test.path)
			require.Equal(t, test.path, hdr.String())
			require.Equal(t, test.path, hdr.Path())
			require.Len(t, hdr, test.size+len(test.path)+1)

			buf := &bytes.Buffer{}
			require.NoError(t, WriteHeader(buf, hdr))
			buf.WriteString("rest")

			rhdr, err := ReadHeader(buf)
			require.NoError(t, err)
			require.Equal(t, hdr, rhdr)
			require.Equal(t, "rest", buf.String())
		})
	}
}

func TestMulticodecCompatibility(t *testing.T) {
	for _, path := range []string{"/cbor", "/json", strings.Repeat("x", 125)} {
		hdr := New(path)
		require.Equal(t, mc.Header([]byte(path)), []byte(hdr))
		require.Equal(t, path, string(mc.HeaderPath(hdr)))

		rhdr, err := mc.ReadHeader(bytes.NewReader(hdr))
		require.NoError(t, err)
		require.Equal(t, []byte(hdr), rhdr)
	}
}

func TestReadHeader(t *testing.T) {
	tests := []struct {
		name     string
		bts      []byte
		wantPath string
		wantErr  error
	}{
		{
			name:     "cbor",
			bts:      []byte{6, '/', 'c', 'b', 'o', 'r', '\n'},
			wantPath: "/cbor",
		},
		{
			name:     "single byte length",
			bts:      append(append([]byte{127}, bytes.Repeat([]byte{'a'}, 126)...), '\n'),
			wantPath: strings.Repeat("a", 126),
		},
		{
			name:     "varint length",
			bts:      append(append([]byte{0x80, 0x01}, bytes.Repeat([]byte{'a'}, 127)...), '\n'),
			wantPath: strings.Repeat("a", 127),
		},
		{
			name:    "missing newline",
			bts:     []byte{3, '/', 'c', 'b', 'o', 'r', '\n'},
			wantErr: ErrHeaderInvalid,
		},
		{
			name:    "zero length",
			bts:     []byte{0},
			wantErr: ErrHeaderInvalid,
		},
		{
			name:    "truncated",
			bts:     []byte{7, '/', 'c', 'b', 'o', 'r', '\n'},
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name:    "truncated varint",
			bts:     []byte{0x80},
			wantErr: io.ErrUnexpectedEOF,
		},
		{
			name:    "empty",
			bts:     []byte{},
			wantErr: io.EOF,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hdr, err := ReadHeader(bytes.NewReader(test.bts))
			if test.wantErr != nil {
				require.Equal(t, test.wantErr, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, test.wantPath, hdr.Path())
			}
		})
	}
}

func TestConsumeHeader(t *testing.T) {
	hdr := New("/cbor")

	require.NoError(t, ConsumeHeader(bytes.NewReader(hdr), hdr))
	require.Equal(t, ErrMismatch, ConsumeHeader(bytes.NewReader(New("/json")), hdr))
	require.Equal(t, io.ErrUnexpectedEOF, ConsumeHeader(bytes.NewReader(hdr[:3]), hdr))

	r := WrapHeaderReader(hdr, strings.NewReader("data"))
	rhdr, err := ReadHeader(r)
	require.NoError(t, err)
	require.Equal(t, hdr, rhdr)
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "data", string(rest))
}
