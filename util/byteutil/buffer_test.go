package byteutil_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/cbor-go/util/byteutil"
)

func TestBufferWriteBigEndian(t *testing.T) {
	buf := &byteutil.Buffer{}
	buf.WriteU8(0x01)
	buf.WriteU16(0x0203)
	buf.WriteU32(0x04050607)
	buf.WriteU64(0x08090a0b0c0d0e0f)
	require.Equal(t, []byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	}, buf.Bytes())
	require.Equal(t, 15, buf.Len())
}

func TestBufferFloats(t *testing.T) {
	buf := byteutil.NewBuffer(0)
	buf.WriteF32(1.5)
	buf.WriteF64(-4.1)
	require.Equal(t, []byte{0x3f, 0xc0, 0x00, 0x00}, buf.Bytes()[:4])
	require.Equal(t, []byte{0xc0, 0x10, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66}, buf.Bytes()[4:])

	f32, err := buf.ReadF32(0)
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f32)

	f64, err := buf.ReadF64(4)
	require.NoError(t, err)
	require.Equal(t, -4.1, f64)

	buf.Reset()
	buf.WriteF64(math.Inf(-1))
	f64, err = buf.ReadF64(0)
	require.NoError(t, err)
	require.True(t, math.IsInf(f64, -1))
}

func TestBufferReads(t *testing.T) {
	buf := byteutil.WrapBuffer([]byte{0xff, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})

	u8, err := buf.ReadU8(0)
	require.NoError(t, err)
	require.Equal(t, uint8(0xff), u8)

	u16, err := buf.ReadU16(1)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0001), u16)

	u32, err := buf.ReadU32(3)
	require.NoError(t, err)
	require.Equal(t, uint32(0x02030405), u32)

	u64, err := buf.ReadU64(1)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0001020304050607), u64)

	// reads don't consume anything
	require.Equal(t, 9, buf.Len())
}

func TestBufferOutOfBounds(t *testing.T) {
	buf := byteutil.WrapBuffer([]byte{1, 2, 3})

	tests := []struct {
		name string
		read func() error
	}{
		{"u8 at end", func() error { _, err := buf.ReadU8(3); return err }},
		{"u8 negative", func() error { _, err := buf.ReadU8(-1); return err }},
		{"u16 truncated", func() error { _, err := buf.ReadU16(2); return err }},
		{"u32 truncated", func() error { _, err := buf.ReadU32(0); return err }},
		{"u64 truncated", func() error { _, err := buf.ReadU64(0); return err }},
		{"f32 truncated", func() error { _, err := buf.ReadF32(1); return err }},
		{"f64 truncated", func() error { _, err := buf.ReadF64(0); return err }},
		{"slice past end", func() error { _, err := buf.Slice(1, 4); return err }},
		{"slice inverted", func() error { _, err := buf.Slice(2, 1); return err }},
		{"view past end", func() error { _, err := buf.View(0, 5); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read()
			require.Error(t, err)
			require.True(t, byteutil.IsOutOfBounds(err), err)
		})
	}

	require.False(t, byteutil.IsOutOfBounds(nil))
}

func TestBufferSliceIsCopy(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	buf := byteutil.WrapBuffer(data)

	s, err := buf.Slice(1, 3)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 3}, s)

	s[0] = 99
	require.Equal(t, byte(2), data[1])

	v, err := buf.View(1, 3)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 3}, v)

	empty, err := buf.Slice(4, 4)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestBufferGrowth(t *testing.T) {
	buf := byteutil.NewBuffer(0)
	require.Equal(t, 0, buf.Cap())

	buf.WriteU8(1)
	first := buf.Cap()
	require.GreaterOrEqual(t, first, 1)

	// capacity at least doubles on every reallocation
	last := first
	for i := 0; i < 10000; i++ {
		buf.WriteU8(byte(i))
		if buf.Cap() != last {
			require.GreaterOrEqual(t, buf.Cap(), 2*last)
			last = buf.Cap()
		}
	}
	require.Equal(t, 10001, buf.Len())

	// content survives reallocation
	u8, err := buf.ReadU8(0)
	require.NoError(t, err)
	require.Equal(t, uint8(1), u8)
	u8, err = buf.ReadU8(10000)
	require.NoError(t, err)
	require.Equal(t, uint8(9999%256), u8)

	buf.Truncate(1)
	require.Equal(t, []byte{1}, buf.Bytes())
	require.Panics(t, func() { buf.Truncate(2) })
}

func TestBufferLargeWrite(t *testing.T) {
	buf := byteutil.NewBuffer(4)
	data := byteutil.RandomBytes(1000)
	n, err := buf.Write(data)
	require.NoError(t, err)
	require.Equal(t, 1000, n)
	require.Equal(t, data, buf.Bytes())

	require.NoError(t, buf.WriteByte(0xaa))
	require.Equal(t, byte(0xaa), buf.Bytes()[1000])
}
